package token

import (
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
)

var mainnetWatchlist = []Token{
	{Address: "0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48", Symbol: "USDC", Name: "USD Coin", Decimals: 6},
	{Address: "0x6B175474E89094C44Da98b954EedeAC495271d0F", Symbol: "DAI", Name: "Dai Stablecoin", Decimals: 18},
	{Address: "0xC02aaA39b223FE8D0A0e5C4F27eAD9083C756Cc2", Symbol: "WETH", Name: "Wrapped Ether", Decimals: 18},
	{Address: "0xdAC17F958D2ee523a2206206994597C13D831ec7", Symbol: "USDT", Name: "Tether USD", Decimals: 6},
	{Address: "0x2260FAC5E5542a773Aa44fBCfeDf7C193bc2C599", Symbol: "WBTC", Name: "Wrapped BTC", Decimals: 8},
}

// Watchlist returns the popular tokens tracked on id, in display order.
// Chains without a list return nil.
func Watchlist(id chain.ID) []Token {
	switch id {
	case chain.Mainnet:
		out := make([]Token, len(mainnetWatchlist))
		copy(out, mainnetWatchlist)
		return out
	default:
		return nil
	}
}
