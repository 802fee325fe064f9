// Package mocks provides testify mocks for the indexer interfaces.
package mocks

import (
	"context"
	"math/big"

	gethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/mock"

	"github.com/chainsafe/wallet-dashboard/pkg/chain"
	"github.com/chainsafe/wallet-dashboard/pkg/indexer"
)

// Provider is a mock implementation of indexer.Provider
type Provider struct {
	mock.Mock
}

var _ indexer.Provider = (*Provider)(nil)

// NewProvider creates a Provider mock whose expectations are asserted on cleanup.
func NewProvider(t interface {
	mock.TestingT
	Cleanup(func())
}) *Provider {
	m := &Provider{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *Provider) Enabled() bool {
	return m.Called().Bool(0)
}

func (m *Provider) ClientFor(id chain.ID) indexer.API {
	args := m.Called(id)
	if v := args.Get(0); v != nil {
		return v.(indexer.API)
	}
	return nil
}

// API is a mock implementation of indexer.API. Net is returned by Network
// without recording a call.
type API struct {
	mock.Mock
	Net chain.Network
}

var _ indexer.API = (*API)(nil)

// NewAPI creates an API mock whose expectations are asserted on cleanup.
func NewAPI(t interface {
	mock.TestingT
	Cleanup(func())
}, network chain.Network) *API {
	m := &API{Net: network}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })
	return m
}

func (m *API) Network() chain.Network {
	return m.Net
}

func (m *API) GetTokenBalances(ctx context.Context, owner string) ([]indexer.TokenBalance, error) {
	args := m.Called(ctx, owner)
	var out []indexer.TokenBalance
	if v := args.Get(0); v != nil {
		out = v.([]indexer.TokenBalance)
	}
	return out, args.Error(1)
}

func (m *API) GetTokenMetadata(ctx context.Context, contract string) (indexer.TokenMetadata, error) {
	args := m.Called(ctx, contract)
	var out indexer.TokenMetadata
	if v := args.Get(0); v != nil {
		out = v.(indexer.TokenMetadata)
	}
	return out, args.Error(1)
}

func (m *API) GetAssetTransfers(ctx context.Context, params indexer.AssetTransfersParams) ([]indexer.AssetTransfer, error) {
	args := m.Called(ctx, params)
	var out []indexer.AssetTransfer
	if v := args.Get(0); v != nil {
		out = v.([]indexer.AssetTransfer)
	}
	return out, args.Error(1)
}

func (m *API) NativeBalance(ctx context.Context, owner string) (*big.Int, error) {
	args := m.Called(ctx, owner)
	var out *big.Int
	if v := args.Get(0); v != nil {
		out = v.(*big.Int)
	}
	return out, args.Error(1)
}

func (m *API) ReceiptStatus(ctx context.Context, txHash string) (uint64, error) {
	args := m.Called(ctx, txHash)
	var out uint64
	if v := args.Get(0); v != nil {
		out = v.(uint64)
	}
	return out, args.Error(1)
}

func (m *API) CodeAt(ctx context.Context, contract common.Address, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, contract, blockNumber)
	var out []byte
	if v := args.Get(0); v != nil {
		out = v.([]byte)
	}
	return out, args.Error(1)
}

func (m *API) CallContract(ctx context.Context, call gethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	args := m.Called(ctx, call, blockNumber)
	var out []byte
	if v := args.Get(0); v != nil {
		out = v.([]byte)
	}
	return out, args.Error(1)
}
