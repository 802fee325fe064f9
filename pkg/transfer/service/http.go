package service

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/wallet-dashboard/pkg/app/http"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/format"
	"github.com/chainsafe/wallet-dashboard/pkg/query"
	"github.com/chainsafe/wallet-dashboard/pkg/transfer"
)

// HTTP wraps the Service to provide HTTP endpoints
type HTTP struct {
	service  Service
	registry *chain.Registry
	cache    *query.Cache[[]transfer.Record]
	logger   *zap.Logger
}

type recordJSON struct {
	Hash         string `json:"hash"`
	From         string `json:"from"`
	To           string `json:"to"`
	Value        string `json:"value"`
	Asset        string `json:"asset"`
	Display      string `json:"display"`
	Timestamp    int64  `json:"timestamp"`
	BlockNumber  uint64 `json:"blockNumber"`
	Direction    string `json:"direction"`
	Failed       bool   `json:"failed"`
	Counterparty string `json:"counterparty"`
	ExplorerURL  string `json:"explorerUrl,omitempty"`
	RelativeTime string `json:"relativeTime"`
}

// RegisterRoutes registers the transfer endpoint on a router scoped to
// /chains/{chainID}/addresses/{address}. A nil store is replaced by an in-memory one.
func RegisterRoutes(
	r chi.Router,
	service Service,
	registry *chain.Registry,
	store query.Store[[]transfer.Record],
	logger *zap.Logger,
	opts ...query.Option,
) {
	if store == nil {
		store = query.NewMemoryStore[[]transfer.Record]()
	}
	opts = append([]query.Option{query.WithLogger(logger)}, opts...)

	h := &HTTP{
		service:  service,
		registry: registry,
		cache: query.New(queryTransactions, store,
			func(ctx context.Context, key query.Key) ([]transfer.Record, error) {
				return service.GetTransactions(ctx, key.Address, key.ChainID)
			}, opts...),
		logger: logger,
	}

	r.Get("/transactions", apphttp.HandleError(h.transactions))
}

func (h *HTTP) transactions(w http.ResponseWriter, r *http.Request) error {
	chainID, err := apphttp.ChainIDParam(r)
	if err != nil {
		return err
	}
	address, err := apphttp.AddressParam(r)
	if err != nil {
		return err
	}
	limit, err := apphttp.LimitParam(r, transfer.MaxRecords)
	if err != nil {
		return err
	}

	if !h.service.Available(chainID) {
		apphttp.WriteJSON(w, http.StatusOK, query.Unavailable([]recordJSON{}))
		return nil
	}

	key := query.NewKey(address, chainID)
	if apphttp.Refresh(r) {
		if err := h.cache.Invalidate(r.Context(), key); err != nil {
			h.logger.Warn("Failed to invalidate transactions query", zap.Error(err))
		}
	}

	res := h.cache.Read(r.Context(), key, apphttp.Peek(r))
	if res.IsError() {
		h.logger.Warn("Transactions query failed", zap.String("key", key.String()), zap.Error(res.Err))
	}

	apphttp.WriteJSON(w, http.StatusOK, query.FromResult(res, func(records []transfer.Record) []recordJSON {
		if len(records) > limit {
			records = records[:limit]
		}
		return h.toJSON(chainID, records)
	}))
	return nil
}

func (h *HTTP) toJSON(chainID chain.ID, records []transfer.Record) []recordJSON {
	out := make([]recordJSON, 0, len(records))
	for _, rec := range records {
		out = append(out, recordJSON{
			Hash:         rec.Hash,
			From:         rec.From,
			To:           rec.To,
			Value:        rec.Value,
			Asset:        rec.Asset,
			Display:      rec.Display(),
			Timestamp:    rec.Timestamp,
			BlockNumber:  rec.BlockNumber,
			Direction:    string(rec.Direction),
			Failed:       rec.Failed,
			Counterparty: format.ShortAddress(rec.Counterparty()),
			ExplorerURL:  h.registry.TxURL(chainID, rec.Hash),
			RelativeTime: format.RelativeTime(rec.Timestamp),
		})
	}
	return out
}
