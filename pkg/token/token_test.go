package token

import (
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"

	"github.com/chainsafe/wallet-dashboard/pkg/chain"
)

func TestWatchlist(t *testing.T) {
	list := Watchlist(chain.Mainnet)

	symbols := make([]string, 0, len(list))
	for _, tok := range list {
		symbols = append(symbols, tok.Symbol)
		assert.True(t, common.IsHexAddress(tok.Address), tok.Symbol)
		assert.Equal(t, common.HexToAddress(tok.Address).Hex(), tok.Address, "%s address is checksummed", tok.Symbol)
	}
	assert.Equal(t, []string{"USDC", "DAI", "WETH", "USDT", "WBTC"}, symbols)

	assert.Nil(t, Watchlist(chain.Sepolia))
	assert.Nil(t, Watchlist(chain.ID(137)))
}

func TestWatchlist_ReturnsCopy(t *testing.T) {
	list := Watchlist(chain.Mainnet)
	list[0].Symbol = "XXX"
	assert.Equal(t, "USDC", Watchlist(chain.Mainnet)[0].Symbol)
}

func TestDisplay(t *testing.T) {
	h := Holding{Decimals: 6, Balance: big.NewInt(500_000_000)}
	assert.Equal(t, "500.0000", h.Display())

	b := Balance{Token: Token{Decimals: 8}, Balance: big.NewInt(0)}
	assert.Equal(t, "0.0000", b.Display())
}
