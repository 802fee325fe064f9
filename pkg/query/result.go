// Package query holds the async data layer between the aggregators and the
// HTTP surface: a tri-state result type and a freshness cache keyed by
// (address, chain).
package query

import (
	"fmt"
	"strings"
	"time"

	"github.com/chainsafe/wallet-dashboard/pkg/chain"
)

// Status is the lifecycle state of a query result.
type Status int

const (
	Idle Status = iota
	Loading
	Ready
	Failed
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of a query. A Failed result may still carry the last
// successfully fetched Data. Get only returns Ready or Failed; Idle and
// Loading come from Peek, which reports state without fetching.
type Result[T any] struct {
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
}

// IsLoading reports whether a fetch is in flight and no data is known yet.
func (r Result[T]) IsLoading() bool { return r.Status == Loading }

// IsError reports whether the latest fetch failed.
func (r Result[T]) IsError() bool { return r.Status == Failed }

// Key identifies a cached query. Addresses are compared case-insensitively.
type Key struct {
	Address string
	ChainID chain.ID
}

// NewKey builds a normalized key.
func NewKey(address string, id chain.ID) Key {
	return Key{Address: strings.ToLower(strings.TrimSpace(address)), ChainID: id}
}

func (k Key) String() string {
	return k.ChainID.String() + ":" + k.Address
}
