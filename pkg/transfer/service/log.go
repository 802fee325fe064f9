package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/transfer"
)

const serviceName = "TransferService"

type logService struct {
	svc    Service
	logger *zap.Logger
}

// NewLog creates a logging decorator for the transfer Service.
func NewLog(svc Service, logger *zap.Logger) Service {
	return &logService{
		svc:    svc,
		logger: logger,
	}
}

func (ls *logService) GetTransactions(
	ctx context.Context,
	address string,
	chainID chain.ID,
) (records []transfer.Record, err error) {
	start := time.Now()
	fields := []zap.Field{
		zap.String("service", serviceName),
		zap.String("method", "GetTransactions"),
		zap.String("request_id", uuid.NewString()),
		zap.Stringer("chain_id", chainID),
		zap.String("address", address),
	}

	ls.logger.Debug("GetTransactions started", fields...)

	defer func() {
		fields = append(fields, zap.Duration("duration", time.Since(start)))
		if err != nil {
			ls.logger.Error("GetTransactions failed", append(fields, zap.Error(err))...)
			return
		}
		ls.logger.Info("GetTransactions completed", append(fields, zap.Int("transfers", len(records)))...)
	}()

	return ls.svc.GetTransactions(ctx, address, chainID)
}

func (ls *logService) Available(chainID chain.ID) bool {
	return ls.svc.Available(chainID)
}
