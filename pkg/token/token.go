// Package token holds the ERC-20 read models shown on the dashboard.
package token

import (
	"math/big"

	"github.com/chainsafe/wallet-dashboard/pkg/format"
)

// Placeholder metadata used when the indexer cannot describe a token.
const (
	PlaceholderSymbol   = "TOKEN"
	PlaceholderName     = "Unknown Token"
	PlaceholderDecimals = 18
)

// Holding is a non-zero ERC-20 balance held by an address.
type Holding struct {
	// Address is the token contract in the casing the indexer reported.
	Address  string
	Symbol   string
	Name     string
	Decimals int
	LogoURI  string
	Balance  *big.Int
}

// Display renders the balance with four fractional digits.
func (h Holding) Display() string {
	return format.TokenAmount(h.Balance, h.Decimals)
}

// Token is a known ERC-20 contract on a given chain.
type Token struct {
	Address  string
	Symbol   string
	Name     string
	Decimals int
}

// Balance is a watchlist balance. Balance is zero when the read failed.
type Balance struct {
	Token   Token
	Balance *big.Int
}

// Display renders the balance with four fractional digits.
func (b Balance) Display() string {
	return format.TokenAmount(b.Balance, b.Token.Decimals)
}
