package service

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/wallet-dashboard/pkg/app/http"
	"github.com/chainsafe/wallet-dashboard/pkg/balance"
	"github.com/chainsafe/wallet-dashboard/pkg/query"
)

type balanceJSON struct {
	Wei      string `json:"wei"`
	Currency string `json:"currency"`
	Display  string `json:"display"`
}

type httpHandler struct {
	service Service
	cache   *query.Cache[balance.Native]
	logger  *zap.Logger
}

// RegisterRoutes registers the balance endpoint on a router scoped to
// /chains/{chainID}/addresses/{address}.
func RegisterRoutes(r chi.Router, service Service, store query.Store[balance.Native], logger *zap.Logger, opts ...query.Option) {
	if store == nil {
		store = query.NewMemoryStore[balance.Native]()
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)

	h := &httpHandler{
		service: service,
		cache: query.New(queryBalance, store, func(ctx context.Context, key query.Key) (balance.Native, error) {
			return service.GetNativeBalance(ctx, key.Address, key.ChainID)
		}, opts...),
		logger: logger,
	}
	r.Get("/balance", apphttp.HandleError(h.balance))
}

func (h *httpHandler) balance(w http.ResponseWriter, r *http.Request) error {
	chainID, err := apphttp.ChainIDParam(r)
	if err != nil {
		return err
	}
	address, err := apphttp.AddressParam(r)
	if err != nil {
		return err
	}
	if !h.service.Available(chainID) {
		apphttp.WriteJSON(w, http.StatusOK, query.Unavailable[*balanceJSON](nil))
		return nil
	}

	key := query.NewKey(address, chainID)
	if apphttp.Refresh(r) {
		if err := h.cache.Invalidate(r.Context(), key); err != nil {
			h.logger.Warn("Failed to invalidate balance query", zap.Error(err))
		}
	}

	res := h.cache.Read(r.Context(), key, apphttp.Peek(r))
	if res.IsError() {
		h.logger.Warn("Balance query failed", zap.String("key", key.String()), zap.Error(res.Err))
	}
	apphttp.WriteJSON(w, http.StatusOK, query.FromResult(res, toJSON))
	return nil
}

// toJSON renders nothing for a failed fetch that has no earlier balance.
func toJSON(b balance.Native) *balanceJSON {
	if b.Wei == nil {
		return nil
	}
	return &balanceJSON{
		Wei:      b.Wei.String(),
		Currency: b.Currency,
		Display:  b.Display(),
	}
}
