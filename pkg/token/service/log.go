package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/token"
)

const serviceName = "TokenService"

// logService wraps Service with automatic logging of all method calls
type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the token Service.
// It logs method entry/exit, duration, errors and result counts.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

// GetTokenHoldings wraps the service method with logging
func (ls *logService) GetTokenHoldings(
	ctx context.Context,
	address string,
	chainID chain.ID,
) (holdings []token.Holding, err error) {
	start := time.Now()
	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", "GetTokenHoldings"),
		zap.String("request_id", uuid.NewString()),
		zap.Stringer("chain_id", chainID),
		zap.String("address", address),
	}

	ls.logger.Debug("GetTokenHoldings started", fields...)

	defer func() {
		fields = append(fields, zap.Duration("duration", time.Since(start)))
		if err != nil {
			ls.logger.Error("GetTokenHoldings failed", append(fields, zap.Error(err))...)
			return
		}
		ls.logger.Info("GetTokenHoldings completed", append(fields, zap.Int("holdings", len(holdings)))...)
	}()

	return ls.svc.GetTokenHoldings(ctx, address, chainID)
}

// GetWatchlistBalances wraps the service method with logging
func (ls *logService) GetWatchlistBalances(
	ctx context.Context,
	address string,
	chainID chain.ID,
) (balances []token.Balance, err error) {
	start := time.Now()
	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", "GetWatchlistBalances"),
		zap.String("request_id", uuid.NewString()),
		zap.Stringer("chain_id", chainID),
		zap.String("address", address),
	}

	ls.logger.Debug("GetWatchlistBalances started", fields...)

	defer func() {
		fields = append(fields, zap.Duration("duration", time.Since(start)))
		if err != nil {
			ls.logger.Error("GetWatchlistBalances failed", append(fields, zap.Error(err))...)
			return
		}
		ls.logger.Info("GetWatchlistBalances completed", append(fields, zap.Int("tokens", len(balances)))...)
	}()

	return ls.svc.GetWatchlistBalances(ctx, address, chainID)
}

func (ls *logService) Available(chainID chain.ID) bool {
	return ls.svc.Available(chainID)
}
