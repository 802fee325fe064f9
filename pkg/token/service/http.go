package service

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/wallet-dashboard/pkg/app/http"
	"github.com/chainsafe/wallet-dashboard/pkg/query"
	"github.com/chainsafe/wallet-dashboard/pkg/token"
)

// Stores backs the token query caches. Nil stores are replaced by in-memory ones.
type Stores struct {
	Holdings  query.Store[[]token.Holding]
	Watchlist query.Store[[]token.Balance]
}

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service   Service
	holdings  *query.Cache[[]token.Holding]
	watchlist *query.Cache[[]token.Balance]
	logger    *zap.Logger
}

type holdingJSON struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	LogoURI  string `json:"logoURI,omitempty"`
	Balance  string `json:"balance"`
	Display  string `json:"display"`
}

type balanceJSON struct {
	Address  string `json:"address"`
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Decimals int    `json:"decimals"`
	Balance  string `json:"balance"`
	Display  string `json:"display"`
}

// RegisterRoutes registers the token endpoints on a router scoped to
// /chains/{chainID}/addresses/{address}.
func RegisterRoutes(r chi.Router, service Service, stores Stores, logger *zap.Logger, opts ...query.Option) {
	if stores.Holdings == nil {
		stores.Holdings = query.NewMemoryStore[[]token.Holding]()
	}
	if stores.Watchlist == nil {
		stores.Watchlist = query.NewMemoryStore[[]token.Balance]()
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)

	h := &HTTP{
		service: service,
		holdings: query.New(queryHoldings, stores.Holdings,
			func(ctx context.Context, key query.Key) ([]token.Holding, error) {
				return service.GetTokenHoldings(ctx, key.Address, key.ChainID)
			}, opts...),
		watchlist: query.New(queryWatchlist, stores.Watchlist,
			func(ctx context.Context, key query.Key) ([]token.Balance, error) {
				return service.GetWatchlistBalances(ctx, key.Address, key.ChainID)
			}, opts...),
		logger: logger,
	}

	r.Get("/tokens", apphttp.HandleError(h.tokens))
	r.Get("/watchlist", apphttp.HandleError(h.watchlistBalances))
}

func (h *HTTP) tokens(w http.ResponseWriter, r *http.Request) error {
	key, ok, err := h.key(r)
	if err != nil {
		return err
	}
	if !ok {
		apphttp.WriteJSON(w, http.StatusOK, query.Unavailable([]holdingJSON{}))
		return nil
	}

	h.maybeInvalidate(r, func(ctx context.Context) error { return h.holdings.Invalidate(ctx, key) })
	res := h.holdings.Read(r.Context(), key, apphttp.Peek(r))
	if res.IsError() {
		h.logger.Warn("Token holdings query failed", zap.String("key", key.String()), zap.Error(res.Err))
	}

	apphttp.WriteJSON(w, http.StatusOK, query.FromResult(res, toHoldingsJSON))
	return nil
}

func (h *HTTP) watchlistBalances(w http.ResponseWriter, r *http.Request) error {
	key, ok, err := h.key(r)
	if err != nil {
		return err
	}
	if !ok {
		apphttp.WriteJSON(w, http.StatusOK, query.Unavailable([]balanceJSON{}))
		return nil
	}

	h.maybeInvalidate(r, func(ctx context.Context) error { return h.watchlist.Invalidate(ctx, key) })
	res := h.watchlist.Read(r.Context(), key, apphttp.Peek(r))
	if res.IsError() {
		h.logger.Warn("Watchlist query failed", zap.String("key", key.String()), zap.Error(res.Err))
	}

	apphttp.WriteJSON(w, http.StatusOK, query.FromResult(res, toBalancesJSON))
	return nil
}

// key parses the path and reports whether the chain can be served.
func (h *HTTP) key(r *http.Request) (query.Key, bool, error) {
	chainID, err := apphttp.ChainIDParam(r)
	if err != nil {
		return query.Key{}, false, err
	}
	address, err := apphttp.AddressParam(r)
	if err != nil {
		return query.Key{}, false, err
	}
	return query.NewKey(address, chainID), h.service.Available(chainID), nil
}

func (h *HTTP) maybeInvalidate(r *http.Request, invalidate func(context.Context) error) {
	if !apphttp.Refresh(r) {
		return
	}
	if err := invalidate(r.Context()); err != nil {
		h.logger.Warn("Failed to invalidate token query", zap.Error(err))
	}
}

func toHoldingsJSON(holdings []token.Holding) []holdingJSON {
	out := make([]holdingJSON, 0, len(holdings))
	for _, hd := range holdings {
		out = append(out, holdingJSON{
			Address:  hd.Address,
			Symbol:   hd.Symbol,
			Name:     hd.Name,
			Decimals: hd.Decimals,
			LogoURI:  hd.LogoURI,
			Balance:  hd.Balance.String(),
			Display:  hd.Display(),
		})
	}
	return out
}

func toBalancesJSON(balances []token.Balance) []balanceJSON {
	out := make([]balanceJSON, 0, len(balances))
	for _, b := range balances {
		out = append(out, balanceJSON{
			Address:  b.Token.Address,
			Symbol:   b.Token.Symbol,
			Name:     b.Token.Name,
			Decimals: b.Token.Decimals,
			Balance:  b.Balance.String(),
			Display:  b.Display(),
		})
	}
	return out
}
