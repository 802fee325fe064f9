// Package api implements app.Runner for the dashboard API server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	apphttp "github.com/chainsafe/wallet-dashboard/pkg/app/http"
	"github.com/chainsafe/wallet-dashboard/pkg/balance"
	balanceservice "github.com/chainsafe/wallet-dashboard/pkg/balance/service"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/config"
	"github.com/chainsafe/wallet-dashboard/pkg/indexer"
	"github.com/chainsafe/wallet-dashboard/pkg/query"
	"github.com/chainsafe/wallet-dashboard/pkg/telemetry"
	"github.com/chainsafe/wallet-dashboard/pkg/token"
	tokenservice "github.com/chainsafe/wallet-dashboard/pkg/token/service"
	"github.com/chainsafe/wallet-dashboard/pkg/transfer"
	transferservice "github.com/chainsafe/wallet-dashboard/pkg/transfer/service"
)

// Server holds cfg to init the api server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new api server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("api server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging, cfg.Tracing.ServiceName)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting dashboard API server",
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	shutdownTracer, err := telemetry.InitTracer(ctx, cfg.Tracing)
	if err != nil {
		logger.Warn("Tracing disabled", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), cfg.Shutdown.Timeout)
		defer cancel()
		if err := shutdownTracer(flushCtx); err != nil {
			logger.Warn("Tracer shutdown failed", zap.Error(err))
		}
	}()

	registry := chain.Default()
	pool := s.newPool(registry, logger)

	stores, closeStores, err := s.openStores(ctx, logger)
	if err != nil {
		return err
	}
	defer closeStores()

	var transferOpts []transferservice.Option
	if cfg.Transfers.ResolveReceiptStatus {
		transferOpts = append(transferOpts, transferservice.WithReceiptResolver())
	}

	router := newRouter(routerDeps{
		registry:  registry,
		provider:  pool,
		tokens:    tokenservice.NewLog(tokenservice.NewService(pool, logger), logger),
		transfers: transferservice.NewLog(transferservice.NewService(pool, logger, transferOpts...), logger),
		balances:  balanceservice.NewLog(balanceservice.NewService(pool, logger), logger),
		stores:    stores,
		queryOpts: []query.Option{query.WithFreshFor(cfg.Query.FreshFor)},
		timeout:   cfg.Server.RequestTimeout,
		logger:    logger,
	})

	return apphttp.ServeAndWait(ctx, router, logger, &cfg.Server, cfg.Shutdown.Timeout)
}

func (s *Server) newPool(registry *chain.Registry, logger *zap.Logger) *indexer.Pool {
	ic := s.cfg.Indexer
	if ic.APIKey == "" {
		logger.Warn("No indexing API key configured, token and transaction queries are disabled",
			zap.String("env", config.APIKeyEnv))
	}

	return indexer.NewPool(registry, ic.APIKey,
		indexer.WithLogger(logger),
		indexer.WithHTTPClient(&http.Client{Timeout: ic.HTTPTimeout}),
		indexer.WithEndpointTemplate(ic.EndpointTemplate),
	)
}

// queryStores backs the query caches of every route. Nil members fall back
// to in-memory stores.
type queryStores struct {
	tokens    tokenservice.Stores
	transfers query.Store[[]transfer.Record]
	balance   query.Store[balance.Native]
}

func (s *Server) openStores(ctx context.Context, logger *zap.Logger) (queryStores, func(), error) {
	qc := s.cfg.Query
	if qc.Store != "redis" {
		return queryStores{}, func() {}, nil
	}

	client, err := query.NewRedisClient(ctx, query.RedisConfig{
		Addr:     qc.RedisAddr,
		Password: qc.RedisPassword,
		DB:       qc.RedisDB,
	})
	if err != nil {
		return queryStores{}, nil, fmt.Errorf("connect query store: %w", err)
	}
	logger.Info("Using Redis query store", zap.String("addr", qc.RedisAddr), zap.Int("db", qc.RedisDB))

	stores := queryStores{
		tokens: tokenservice.Stores{
			Holdings:  query.NewRedisStore[[]token.Holding](client, "tokens", qc.RedisTTL),
			Watchlist: query.NewRedisStore[[]token.Balance](client, "watchlist", qc.RedisTTL),
		},
		transfers: query.NewRedisStore[[]transfer.Record](client, "transactions", qc.RedisTTL),
		balance:   query.NewRedisStore[balance.Native](client, "balance", qc.RedisTTL),
	}
	return stores, func() { _ = client.Close() }, nil
}
