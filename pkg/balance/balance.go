// Package balance holds the native-currency balance read model.
package balance

import (
	"math/big"

	"github.com/chainsafe/wallet-dashboard/pkg/format"
)

// Native is an account balance in the chain's native currency.
type Native struct {
	Wei      *big.Int `json:"wei"`
	Currency string   `json:"currency"`
}

// Zero returns an empty balance in currency.
func Zero(currency string) Native {
	return Native{Wei: new(big.Int), Currency: currency}
}

// Display renders the balance in ether units with four fractional digits.
func (n Native) Display() string {
	return format.Wei(n.Wei)
}
