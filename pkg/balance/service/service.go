package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/chainsafe/wallet-dashboard/internal/metrics"
	apperrors "github.com/chainsafe/wallet-dashboard/pkg/app/errors"
	"github.com/chainsafe/wallet-dashboard/pkg/balance"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/indexer"
)

const queryBalance = "balance"

// Service reads native-currency balances.
type Service interface {
	// GetNativeBalance returns the latest balance of address on chainID. Missing
	// configuration or an unsupported chain yields a zero balance.
	GetNativeBalance(ctx context.Context, address string, chainID chain.ID) (balance.Native, error)
	// Available reports whether balances can be served for chainID.
	Available(chainID chain.ID) bool
}

type balanceService struct {
	provider indexer.Provider
	logger   *zap.Logger
}

// NewService creates a balance service backed by provider.
func NewService(provider indexer.Provider, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &balanceService{provider: provider, logger: logger}
}

func (s *balanceService) Available(chainID chain.ID) bool {
	return s.client(chainID) != nil
}

func (s *balanceService) GetNativeBalance(ctx context.Context, address string, chainID chain.ID) (balance.Native, error) {
	client := s.client(chainID)
	if client == nil {
		metrics.AggregationsTotal.WithLabelValues(queryBalance, "skipped").Inc()
		return balance.Zero(""), nil
	}
	currency := client.Network().Currency
	if address == "" {
		return balance.Zero(currency), nil
	}

	wei, err := client.NativeBalance(ctx, address)
	if err != nil {
		metrics.AggregationsTotal.WithLabelValues(queryBalance, "error").Inc()
		return balance.Native{}, fmt.Errorf("balance of %s: %w", address,
			apperrors.DependencyFailureError(err, "balance unavailable"))
	}
	if wei == nil {
		wei = balance.Zero(currency).Wei
	}

	metrics.AggregationsTotal.WithLabelValues(queryBalance, "ok").Inc()
	return balance.Native{Wei: wei, Currency: currency}, nil
}

func (s *balanceService) client(chainID chain.ID) indexer.API {
	if chainID == 0 || !s.provider.Enabled() {
		return nil
	}
	return s.provider.ClientFor(chainID)
}
