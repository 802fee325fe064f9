package service

import (
	"cmp"
	"context"
	"fmt"
	"slices"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/chainsafe/wallet-dashboard/internal/metrics"
	apperrors "github.com/chainsafe/wallet-dashboard/pkg/app/errors"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/indexer"
	"github.com/chainsafe/wallet-dashboard/pkg/transfer"
)

const (
	queryTransactions = "transactions"

	// transfersPerDirection is requested from each of the sent and received queries.
	transfersPerDirection = 25

	maxConcurrentReceipts = 4
)

// Service defines the recent-activity read model of the dashboard.
type Service interface {
	// GetTransactions returns up to transfer.MaxRecords native transfers sent or
	// received by address on chainID, newest first. Missing configuration or an
	// unsupported chain yields an empty list; a failing history query fails the call.
	GetTransactions(ctx context.Context, address string, chainID chain.ID) ([]transfer.Record, error)
	// Available reports whether transfer data can be served for chainID.
	Available(chainID chain.ID) bool
}

// Option configures the transfer service.
type Option func(*transferService)

// WithReceiptResolver marks transfers whose receipt reports a reverted
// execution as failed. It costs one extra indexer call per returned record.
func WithReceiptResolver() Option {
	return func(s *transferService) { s.resolveReceipts = true }
}

type transferService struct {
	provider        indexer.Provider
	logger          *zap.Logger
	resolveReceipts bool
}

// NewService creates a transfer service backed by provider.
func NewService(provider indexer.Provider, logger *zap.Logger, opts ...Option) Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &transferService{
		provider: provider,
		logger:   logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *transferService) Available(chainID chain.ID) bool {
	return s.client(chainID) != nil
}

func (s *transferService) GetTransactions(ctx context.Context, address string, chainID chain.ID) ([]transfer.Record, error) {
	if address == "" {
		return []transfer.Record{}, nil
	}
	client := s.client(chainID)
	if client == nil {
		metrics.AggregationsTotal.WithLabelValues(queryTransactions, "skipped").Inc()
		return []transfer.Record{}, nil
	}

	var sent, received []indexer.AssetTransfer
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sent, err = client.GetAssetTransfers(gctx, historyParams(address, ""))
		if err != nil {
			return fmt.Errorf("sent transfers: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		received, err = client.GetAssetTransfers(gctx, historyParams("", address))
		if err != nil {
			return fmt.Errorf("received transfers: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		metrics.AggregationsTotal.WithLabelValues(queryTransactions, "error").Inc()
		return nil, fmt.Errorf("get transactions: %w",
			apperrors.DependencyFailureError(err, "transfer history unavailable"))
	}

	records := latest(merge(address, sent, received))

	if s.resolveReceipts {
		s.markFailed(ctx, client, records)
		if err := ctx.Err(); err != nil {
			metrics.AggregationsTotal.WithLabelValues(queryTransactions, "canceled").Inc()
			return nil, err
		}
	}

	metrics.AggregationsTotal.WithLabelValues(queryTransactions, "ok").Inc()
	metrics.AggregationResultSize.WithLabelValues(queryTransactions).Observe(float64(len(records)))
	return records, nil
}

func (s *transferService) client(chainID chain.ID) indexer.API {
	if chainID == 0 || !s.provider.Enabled() {
		return nil
	}
	return s.provider.ClientFor(chainID)
}

// markFailed sets Failed for records whose receipt status is 0. A receipt that
// cannot be fetched leaves the record untouched.
func (s *transferService) markFailed(ctx context.Context, client indexer.API, records []transfer.Record) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentReceipts)
	for i := range records {
		g.Go(func() error {
			status, err := client.ReceiptStatus(gctx, records[i].Hash)
			if err != nil {
				s.logger.Debug("Receipt lookup failed",
					zap.String("hash", records[i].Hash),
					zap.Error(err))
				return nil
			}
			records[i].Failed = status == 0
			return nil
		})
	}
	_ = g.Wait()
}

func historyParams(from, to string) indexer.AssetTransfersParams {
	return indexer.AssetTransfersParams{
		FromAddress:  from,
		ToAddress:    to,
		Categories:   []indexer.Category{indexer.CategoryExternal},
		MaxCount:     transfersPerDirection,
		Order:        indexer.OrderDescending,
		WithMetadata: true,
	}
}

// merge collapses sent and received transfers by hash. A hash seen in both
// keeps the received entry at the position of its first appearance. Entries
// without a hash are dropped.
func merge(address string, sent, received []indexer.AssetTransfer) []transfer.Record {
	index := make(map[string]int, len(sent)+len(received))
	out := make([]transfer.Record, 0, len(sent)+len(received))

	for _, batch := range [][]indexer.AssetTransfer{sent, received} {
		for _, t := range batch {
			if t.Hash == "" {
				continue
			}
			r := transfer.Record{
				Hash:        t.Hash,
				From:        t.From,
				To:          t.To,
				Value:       t.Value,
				Asset:       t.Asset,
				Timestamp:   t.Timestamp,
				BlockNumber: t.BlockNumber,
				Direction:   transfer.DirectionFor(t.From, address),
			}
			if i, ok := index[t.Hash]; ok {
				out[i] = r
				continue
			}
			index[t.Hash] = len(out)
			out = append(out, r)
		}
	}
	return out
}

// latest orders records newest first and keeps transfer.MaxRecords of them.
// Two records are compared by timestamp when both have one, otherwise by block.
func latest(records []transfer.Record) []transfer.Record {
	slices.SortStableFunc(records, newestFirst)
	if len(records) > transfer.MaxRecords {
		records = records[:transfer.MaxRecords]
	}
	return records
}

func newestFirst(a, b transfer.Record) int {
	if a.Timestamp != 0 && b.Timestamp != 0 {
		return cmp.Compare(b.Timestamp, a.Timestamp)
	}
	return cmp.Compare(b.BlockNumber, a.BlockNumber)
}
