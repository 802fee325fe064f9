package ethereum

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"

	gethereum "github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCaller answers eth_call with canned return data per 4-byte selector.
type fakeCaller struct {
	results map[string][]byte
	err     error
	calls   []gethereum.CallMsg
}

func (f *fakeCaller) CodeAt(context.Context, common.Address, *big.Int) ([]byte, error) {
	return []byte{0x60}, nil
}

func (f *fakeCaller) CallContract(_ context.Context, call gethereum.CallMsg, _ *big.Int) ([]byte, error) {
	f.calls = append(f.calls, call)
	if f.err != nil {
		return nil, f.err
	}
	return f.results[common.Bytes2Hex(call.Data[:4])], nil
}

func packOutput(t *testing.T, method string, values ...any) []byte {
	t.Helper()
	parsed, err := ERC20MetaData.GetAbi()
	require.NoError(t, err)
	out, err := parsed.Methods[method].Outputs.Pack(values...)
	require.NoError(t, err)
	return out
}

func TestERC20Caller_BalanceOf(t *testing.T) {
	token := common.HexToAddress("0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48")
	owner := common.HexToAddress("0x00000000000000000000000000000000000000aa")
	want := big.NewInt(500_000_000)

	caller := &fakeCaller{results: map[string][]byte{
		"70a08231": packOutput(t, "balanceOf", want),
	}}
	erc20, err := NewERC20Caller(token, caller)
	require.NoError(t, err)
	assert.Equal(t, token, erc20.Address())

	got, err := erc20.BalanceOf(&bind.CallOpts{Context: context.Background()}, owner)
	require.NoError(t, err)
	assert.Equal(t, 0, want.Cmp(got))

	require.Len(t, caller.calls, 1)
	call := caller.calls[0]
	require.NotNil(t, call.To)
	assert.Equal(t, token, *call.To)
	assert.True(t, bytes.HasSuffix(call.Data, owner.Bytes()))
}

func TestERC20Caller_DecimalsAndSymbol(t *testing.T) {
	caller := &fakeCaller{results: map[string][]byte{
		"313ce567": packOutput(t, "decimals", uint8(6)),
		"95d89b41": packOutput(t, "symbol", "USDC"),
	}}
	erc20, err := NewERC20Caller(common.HexToAddress("0x01"), caller)
	require.NoError(t, err)

	decimals, err := erc20.Decimals(nil)
	require.NoError(t, err)
	assert.Equal(t, uint8(6), decimals)

	symbol, err := erc20.Symbol(nil)
	require.NoError(t, err)
	assert.Equal(t, "USDC", symbol)
}

func TestERC20Caller_CallError(t *testing.T) {
	caller := &fakeCaller{err: errors.New("execution reverted")}
	erc20, err := NewERC20Caller(common.HexToAddress("0x01"), caller)
	require.NoError(t, err)

	_, err = erc20.BalanceOf(nil, common.HexToAddress("0x02"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "execution reverted")
}
