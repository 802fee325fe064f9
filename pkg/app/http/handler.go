// Package http provides HTTP utilities including chi-compatible error handling
package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"

	apperrors "github.com/chainsafe/wallet-dashboard/pkg/app/errors"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
)

// Path parameter names shared by the address-scoped routes.
const (
	ParamChainID = "chainID"
	ParamAddress = "address"

	queryRefresh = "refresh"
	queryPeek    = "peek"
	queryLimit   = "limit"
)

// HandlerFunc defines a function that returns an error for clean error handling
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// HandleError wraps an error-returning HandlerFunc into a standard http.HandlerFunc
//
// Usage with chi:
//
//	r.Get("/tokens", http.HandleError(handler.tokens))
func HandleError(h HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := h(w, r); err != nil {
			DefaultErrorHandler(w, err)
		}
	}
}

type errorResponse struct {
	ErrMsg     string `json:"error"`
	ErrMsgCode int    `json:"code"`
}

// DefaultErrorHandler writes err as a JSON error body. Errors that are not
// ServiceErrors are reported as internal errors without detail.
func DefaultErrorHandler(w http.ResponseWriter, err error) {
	var svcErr *apperrors.ServiceError
	if !errors.As(err, &svcErr) {
		_ = errors.As(apperrors.GeneralError(err), &svcErr)
	}
	WriteJSON(w, svcErr.StatusCode(), &errorResponse{
		ErrMsg:     svcErr.Message,
		ErrMsgCode: svcErr.StatusCode(),
	})
}

// WriteJSON writes data as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// ChainIDParam reads the chain id path parameter. A malformed id is a bad
// request; an unsupported but well-formed id is returned as is.
func ChainIDParam(r *http.Request) (chain.ID, error) {
	id, err := chain.ParseID(chi.URLParam(r, ParamChainID))
	if err != nil {
		return 0, apperrors.BadRequestError(err, "invalid chain id")
	}
	return id, nil
}

// AddressParam reads and validates the hex address path parameter.
// The address is returned in the caller's casing.
func AddressParam(r *http.Request) (string, error) {
	addr := strings.TrimSpace(chi.URLParam(r, ParamAddress))
	if !common.IsHexAddress(addr) || !strings.HasPrefix(strings.ToLower(addr), "0x") {
		return "", apperrors.BadRequestError(nil, "invalid address")
	}
	return addr, nil
}

// Refresh reports whether the caller asked to bypass cached data with ?refresh=true.
func Refresh(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(queryRefresh))
	return v
}

// Peek reports whether the caller asked for the current query state with
// ?peek=true. A peek never starts a fetch.
func Peek(r *http.Request) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(queryPeek))
	return v
}

// LimitParam reads the optional ?limit query parameter. A missing limit yields
// upper; anything outside 1..upper is a bad request.
func LimitParam(r *http.Request, upper int) (int, error) {
	raw := r.URL.Query().Get(queryLimit)
	if raw == "" {
		return upper, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 || n > upper {
		return 0, apperrors.BadRequestError(err, "limit must be between 1 and "+strconv.Itoa(upper))
	}
	return n, nil
}
