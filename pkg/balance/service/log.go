package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/chainsafe/wallet-dashboard/pkg/balance"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
)

type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the balance Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{svc: svc, logger: logger}
}

func (ls *logService) GetNativeBalance(ctx context.Context, address string, chainID chain.ID) (b balance.Native, err error) {
	start := time.Now()
	defer func() {
		fields := []zap.Field{
			zap.String("service", "BalanceService"),
			zap.String("method", "GetNativeBalance"),
			zap.Stringer("chain_id", chainID),
			zap.String("address", address),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			ls.logger.Error("GetNativeBalance failed", append(fields, zap.Error(err))...)
			return
		}
		ls.logger.Debug("GetNativeBalance completed", fields...)
	}()

	return ls.svc.GetNativeBalance(ctx, address, chainID)
}

func (ls *logService) Available(chainID chain.ID) bool {
	return ls.svc.Available(chainID)
}
