// Package transfer holds the recent-activity read model of an account.
package transfer

import (
	"strings"

	"github.com/chainsafe/wallet-dashboard/pkg/format"
)

// MaxRecords is the number of transfers shown for an account.
const MaxRecords = 10

// Direction tells whether the account sent or received a transfer.
type Direction string

const (
	Sent     Direction = "sent"
	Received Direction = "received"
)

// DirectionFor returns Sent when from is account, compared case-insensitively.
func DirectionFor(from, account string) Direction {
	if strings.EqualFold(from, account) {
		return Sent
	}
	return Received
}

// Record is a native-asset transfer touching an account.
type Record struct {
	Hash  string
	From  string
	To    string
	Value string // decimal ether string, e.g. "0.5"
	Asset string // symbol reported by the indexer, e.g. "ETH"
	// Timestamp is unix seconds; zero when the block time is unknown.
	Timestamp   int64
	BlockNumber uint64
	Direction   Direction
	Failed      bool
}

// Display renders Value in ether with four fractional digits.
func (r Record) Display() string {
	return format.Ether(r.Value)
}

// Counterparty is the other side of the transfer from the account's view.
func (r Record) Counterparty() string {
	if r.Direction == Sent {
		return r.To
	}
	return r.From
}
