package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apphttp "github.com/chainsafe/wallet-dashboard/pkg/app/http"
	balanceservice "github.com/chainsafe/wallet-dashboard/pkg/balance/service"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/indexer"
	"github.com/chainsafe/wallet-dashboard/pkg/query"
	tokenservice "github.com/chainsafe/wallet-dashboard/pkg/token/service"
	transferservice "github.com/chainsafe/wallet-dashboard/pkg/transfer/service"
)

const defaultRequestTimeout = 30 * time.Second

type routerDeps struct {
	registry  *chain.Registry
	provider  indexer.Provider
	tokens    tokenservice.Service
	transfers transferservice.Service
	balances  balanceservice.Service
	stores    queryStores
	queryOpts []query.Option
	timeout   time.Duration
	logger    *zap.Logger
}

type networkJSON struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Label    string `json:"label"`
	Currency string `json:"currency"`
	Testnet  bool   `json:"testnet"`
	Enabled  bool   `json:"enabled"`
}

func newRouter(d routerDeps) chi.Router {
	if d.timeout <= 0 {
		d.timeout = defaultRequestTimeout
	}

	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(d.timeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1/chains", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
			apphttp.WriteJSON(w, http.StatusOK, listNetworks(d.registry, d.provider))
		})

		r.Route("/{"+apphttp.ParamChainID+"}/addresses/{"+apphttp.ParamAddress+"}", func(r chi.Router) {
			tokenservice.RegisterRoutes(r, d.tokens, d.stores.tokens, d.logger, d.queryOpts...)
			transferservice.RegisterRoutes(r, d.transfers, d.registry, d.stores.transfers, d.logger, d.queryOpts...)
			balanceservice.RegisterRoutes(r, d.balances, d.stores.balance, d.logger, d.queryOpts...)
		})
	})

	return r
}

func listNetworks(registry *chain.Registry, provider indexer.Provider) []networkJSON {
	networks := registry.Networks()
	out := make([]networkJSON, 0, len(networks))
	for _, n := range networks {
		out = append(out, networkJSON{
			ID:       uint64(n.ID),
			Name:     n.Name,
			Label:    n.Label,
			Currency: n.Currency,
			Testnet:  n.Testnet,
			Enabled:  provider.Enabled(),
		})
	}
	return out
}
