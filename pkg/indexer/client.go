// Package indexer is the wire adapter for the chain-data indexing API.
//
// Responses are decoded into lenient wire structs and validated at this
// boundary: malformed hex, missing timestamps and odd value encodings are
// mapped to zero/placeholder values here so callers only see stable records.
package indexer

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/ethereum/go-ethereum/rpc"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/chainsafe/wallet-dashboard/internal/metrics"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
)

const tracerName = "github.com/chainsafe/wallet-dashboard/pkg/indexer"

const (
	methodTokenBalances  = "alchemy_getTokenBalances"
	methodTokenMetadata  = "alchemy_getTokenMetadata"
	methodAssetTransfers = "alchemy_getAssetTransfers"
	methodGetBalance     = "eth_getBalance"
	methodGetReceipt     = "eth_getTransactionReceipt"
	methodCall           = "eth_call"
	methodGetCode        = "eth_getCode"

	tokenTypeERC20 = "erc20"
)

// API is the indexing API surface for a single chain.
//
// It embeds bind.ContractCaller so ERC-20 reads can go through the same endpoint.
type API interface {
	bind.ContractCaller

	Network() chain.Network
	GetTokenBalances(ctx context.Context, owner string) ([]TokenBalance, error)
	GetTokenMetadata(ctx context.Context, contract string) (TokenMetadata, error)
	GetAssetTransfers(ctx context.Context, params AssetTransfersParams) ([]AssetTransfer, error)
	NativeBalance(ctx context.Context, owner string) (*big.Int, error)
	ReceiptStatus(ctx context.Context, txHash string) (uint64, error)
}

// Provider hands out per-chain API clients.
type Provider interface {
	// Enabled reports whether an API credential is configured.
	Enabled() bool
	// ClientFor returns nil when the chain is not supported.
	ClientFor(id chain.ID) API
}

// Client talks JSON-RPC to the indexing API of one network.
type Client struct {
	network chain.Network
	rpc     *rpc.Client
	eth     *ethclient.Client
	logger  *zap.Logger
	tracer  trace.Tracer
}

var _ API = (*Client)(nil)

// NewClient creates a client for network reachable at endpoint.
// Dialing an HTTP endpoint does not perform I/O.
func NewClient(ctx context.Context, network chain.Network, endpoint string, opts ...Option) (*Client, error) {
	s := applyOptions(opts)

	rc, err := rpc.DialOptions(ctx, endpoint, rpc.WithHTTPClient(s.httpClient))
	if err != nil {
		return nil, fmt.Errorf("dial indexer for %s: %w", network.Name, err)
	}

	return &Client{
		network: network,
		rpc:     rc,
		eth:     ethclient.NewClient(rc),
		logger:  s.logger.With(zap.Stringer("chain_id", network.ID), zap.String("network", network.Name)),
		tracer:  otel.Tracer(tracerName),
	}, nil
}

// Endpoint renders an endpoint template for a network and API key.
func Endpoint(tmpl, network, apiKey string) string {
	return strings.NewReplacer("{network}", network, "{apiKey}", apiKey).Replace(tmpl)
}

// Network returns the network this client is bound to.
func (c *Client) Network() chain.Network {
	return c.network
}

// Close releases the underlying RPC client.
func (c *Client) Close() {
	c.rpc.Close()
}

// GetTokenBalances returns every ERC-20 balance the indexer reports for owner.
func (c *Client) GetTokenBalances(ctx context.Context, owner string) ([]TokenBalance, error) {
	var resp tokenBalancesResponse
	err := c.observe(ctx, methodTokenBalances, func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &resp, methodTokenBalances, owner, tokenTypeERC20)
	})
	if err != nil {
		return nil, fmt.Errorf("get token balances: %w", err)
	}

	out := make([]TokenBalance, 0, len(resp.TokenBalances))
	for _, raw := range resp.TokenBalances {
		if raw.ContractAddress == "" {
			continue
		}
		out = append(out, raw.validate())
	}
	return out, nil
}

// GetTokenMetadata returns metadata for a single token contract.
func (c *Client) GetTokenMetadata(ctx context.Context, contract string) (TokenMetadata, error) {
	var resp rawTokenMetadata
	err := c.observe(ctx, methodTokenMetadata, func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &resp, methodTokenMetadata, contract)
	})
	if err != nil {
		return TokenMetadata{}, fmt.Errorf("get token metadata for %s: %w", contract, err)
	}
	return resp.validate(), nil
}

// GetAssetTransfers searches transfers matching params. Only the first page is read.
func (c *Client) GetAssetTransfers(ctx context.Context, params AssetTransfersParams) ([]AssetTransfer, error) {
	var resp assetTransfersResponse
	err := c.observe(ctx, methodAssetTransfers, func(ctx context.Context) error {
		return c.rpc.CallContext(ctx, &resp, methodAssetTransfers, params.wire())
	})
	if err != nil {
		return nil, fmt.Errorf("get asset transfers: %w", err)
	}

	out := make([]AssetTransfer, 0, len(resp.Transfers))
	for _, raw := range resp.Transfers {
		out = append(out, raw.validate())
	}
	return out, nil
}

// NativeBalance returns the latest native balance of owner in wei.
func (c *Client) NativeBalance(ctx context.Context, owner string) (*big.Int, error) {
	var bal *big.Int
	err := c.observe(ctx, methodGetBalance, func(ctx context.Context) error {
		var err error
		bal, err = c.eth.BalanceAt(ctx, common.HexToAddress(owner), nil)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("get native balance: %w", err)
	}
	return bal, nil
}

// ReceiptStatus returns the receipt status of a mined transaction (1 success, 0 reverted).
func (c *Client) ReceiptStatus(ctx context.Context, txHash string) (uint64, error) {
	var status uint64
	err := c.observe(ctx, methodGetReceipt, func(ctx context.Context) error {
		receipt, err := c.eth.TransactionReceipt(ctx, common.HexToHash(txHash))
		if err != nil {
			return err
		}
		status = receipt.Status
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("get receipt for %s: %w", txHash, err)
	}
	return status, nil
}

// CodeAt implements bind.ContractCaller.
func (c *Client) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	var code []byte
	err := c.observe(ctx, methodGetCode, func(ctx context.Context) error {
		var err error
		code, err = c.eth.CodeAt(ctx, contract, blockNumber)
		return err
	})
	return code, err
}

// CallContract implements bind.ContractCaller.
func (c *Client) CallContract(ctx context.Context, call ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	var out []byte
	err := c.observe(ctx, methodCall, func(ctx context.Context) error {
		var err error
		out, err = c.eth.CallContract(ctx, call, blockNumber)
		return err
	})
	return out, err
}

// observe wraps a single indexing API call with a span, metrics and debug logging.
// The endpoint carries the API key and is never logged.
func (c *Client) observe(ctx context.Context, method string, fn func(context.Context) error) error {
	ctx, span := c.tracer.Start(ctx, method,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("rpc.method", method),
			attribute.Int64("chain.id", int64(c.network.ID)),
			attribute.String("chain.network", c.network.Name),
		),
	)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	chainLabel := c.network.ID.String()
	metrics.IndexerRequestDuration.WithLabelValues(method, chainLabel).Observe(time.Since(start).Seconds())

	status := "ok"
	if err != nil {
		status = "error"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.logger.Debug("Indexer request failed",
			zap.String("method", method),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err))
	}
	metrics.IndexerRequestsTotal.WithLabelValues(method, chainLabel, status).Inc()
	return err
}
