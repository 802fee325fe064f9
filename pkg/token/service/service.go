package service

import (
	"context"
	"fmt"
	"math/big"
	"slices"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainsafe/wallet-dashboard/internal/metrics"
	apperrors "github.com/chainsafe/wallet-dashboard/pkg/app/errors"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/ethereum"
	"github.com/chainsafe/wallet-dashboard/pkg/indexer"
	"github.com/chainsafe/wallet-dashboard/pkg/token"
)

const (
	queryHoldings  = "tokens"
	queryWatchlist = "watchlist"

	// maxConcurrentLookups bounds per-token indexer calls of a single request.
	maxConcurrentLookups = 8
)

// Service defines the token read models of the dashboard.
type Service interface {
	// GetTokenHoldings returns every ERC-20 token address holds on chainID with
	// a non-zero balance, largest raw balance first. Missing configuration or
	// an unsupported chain yields an empty list.
	GetTokenHoldings(ctx context.Context, address string, chainID chain.ID) ([]token.Holding, error)
	// GetWatchlistBalances reads the balance of each popular token on chainID.
	// A failed read reports a zero balance for that token.
	GetWatchlistBalances(ctx context.Context, address string, chainID chain.ID) ([]token.Balance, error)
	// Available reports whether token data can be served for chainID.
	Available(chainID chain.ID) bool
}

type tokenService struct {
	provider indexer.Provider
	logger   *zap.Logger
}

// NewService creates a token service backed by provider.
func NewService(provider indexer.Provider, logger *zap.Logger) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &tokenService{
		provider: provider,
		logger:   logger,
	}
}

func (s *tokenService) Available(chainID chain.ID) bool {
	return s.client(chainID) != nil
}

func (s *tokenService) GetTokenHoldings(ctx context.Context, address string, chainID chain.ID) ([]token.Holding, error) {
	if address == "" {
		return []token.Holding{}, nil
	}
	client := s.client(chainID)
	if client == nil {
		metrics.AggregationsTotal.WithLabelValues(queryHoldings, "skipped").Inc()
		return []token.Holding{}, nil
	}

	balances, err := client.GetTokenBalances(ctx, address)
	if err != nil {
		metrics.AggregationsTotal.WithLabelValues(queryHoldings, "error").Inc()
		return nil, fmt.Errorf("get token holdings: %w",
			apperrors.DependencyFailureError(err, "token balances unavailable"))
	}

	held := nonZero(balances)
	holdings := make([]token.Holding, len(held))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, b := range held {
		g.Go(func() error {
			holdings[i] = s.describe(gctx, client, b)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		metrics.AggregationsTotal.WithLabelValues(queryHoldings, "canceled").Inc()
		return nil, err
	}

	slices.SortStableFunc(holdings, func(a, b token.Holding) int {
		return b.Balance.Cmp(a.Balance)
	})

	metrics.AggregationsTotal.WithLabelValues(queryHoldings, "ok").Inc()
	metrics.AggregationResultSize.WithLabelValues(queryHoldings).Observe(float64(len(holdings)))
	return holdings, nil
}

func (s *tokenService) GetWatchlistBalances(ctx context.Context, address string, chainID chain.ID) ([]token.Balance, error) {
	tokens := token.Watchlist(chainID)
	if address == "" || len(tokens) == 0 {
		return []token.Balance{}, nil
	}
	client := s.client(chainID)
	if client == nil {
		metrics.AggregationsTotal.WithLabelValues(queryWatchlist, "skipped").Inc()
		return []token.Balance{}, nil
	}

	owner := common.HexToAddress(address)
	out := make([]token.Balance, len(tokens))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLookups)
	for i, tok := range tokens {
		g.Go(func() error {
			out[i] = token.Balance{Token: tok, Balance: s.balanceOf(gctx, client, tok, owner)}
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		metrics.AggregationsTotal.WithLabelValues(queryWatchlist, "canceled").Inc()
		return nil, err
	}

	metrics.AggregationsTotal.WithLabelValues(queryWatchlist, "ok").Inc()
	metrics.AggregationResultSize.WithLabelValues(queryWatchlist).Observe(float64(len(out)))
	return out, nil
}

func (s *tokenService) client(chainID chain.ID) indexer.API {
	if chainID == 0 || !s.provider.Enabled() {
		return nil
	}
	return s.provider.ClientFor(chainID)
}

// describe attaches metadata to a balance. Lookup failures and missing fields
// fall back to placeholders; it never fails.
func (s *tokenService) describe(ctx context.Context, client indexer.API, b indexer.TokenBalance) token.Holding {
	h := token.Holding{
		Address:  b.Contract,
		Symbol:   token.PlaceholderSymbol,
		Name:     token.PlaceholderName,
		Decimals: token.PlaceholderDecimals,
		Balance:  b.Balance,
	}

	meta, err := client.GetTokenMetadata(ctx, b.Contract)
	if err != nil {
		metrics.MetadataFallbacksTotal.Inc()
		s.logger.Debug("Token metadata lookup failed, using placeholders",
			zap.String("contract", b.Contract),
			zap.Error(err))
		return h
	}

	if meta.Symbol != "" {
		h.Symbol = meta.Symbol
	}
	if meta.Name != "" {
		h.Name = meta.Name
	}
	if meta.Decimals != nil {
		h.Decimals = *meta.Decimals
	}
	h.LogoURI = meta.Logo
	return h
}

func (s *tokenService) balanceOf(ctx context.Context, client indexer.API, tok token.Token, owner common.Address) *big.Int {
	erc20, err := ethereum.NewERC20Caller(common.HexToAddress(tok.Address), client)
	if err != nil {
		s.logger.Warn("Failed to bind ERC-20 contract", zap.String("symbol", tok.Symbol), zap.Error(err))
		return new(big.Int)
	}

	bal, err := erc20.BalanceOf(&bind.CallOpts{Context: ctx}, owner)
	if err != nil || bal == nil {
		s.logger.Debug("Watchlist balance read failed",
			zap.String("symbol", tok.Symbol),
			zap.String("contract", tok.Address),
			zap.Error(err))
		return new(big.Int)
	}
	return bal
}

// nonZero drops empty balances and repeated contracts. Contracts compare
// case-insensitively; the first occurrence wins.
func nonZero(balances []indexer.TokenBalance) []indexer.TokenBalance {
	seen := make(map[string]struct{}, len(balances))
	out := make([]indexer.TokenBalance, 0, len(balances))
	for _, b := range balances {
		if b.Contract == "" || b.Balance == nil || b.Balance.Sign() <= 0 {
			continue
		}
		key := strings.ToLower(b.Contract)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, b)
	}
	return out
}
