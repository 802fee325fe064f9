// Package format turns raw on-chain quantities and timestamps into display strings.
//
// Everything here is presentation-only: amounts go through float64 on the way
// out and must never be fed back into accounting.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const (
	displayDecimals = 4
	etherDecimals   = 18

	zeroDisplay = "0.0000"
	dustDisplay = "<0.0001"
	dustLimit   = 0.0001

	// NoTimestamp is shown for transfers whose block time is unknown.
	NoTimestamp = "—"
	justNow     = "Just now"

	minute = 60
	hour   = 60 * minute
	day    = 24 * hour
	week   = 7 * day

	calendarLayout = "1/2/2006"
)

// TokenAmount renders raw (an integer amount in the token's smallest unit)
// with decimals fractional digits, fixed to four places.
func TokenAmount(raw *big.Int, decimals int) string {
	if raw == nil {
		return zeroDisplay
	}
	f, _ := decimal.NewFromBigInt(raw, int32(-decimals)).Float64()
	return display(f)
}

// Wei renders a wei amount as ether.
func Wei(raw *big.Int) string {
	return TokenAmount(raw, etherDecimals)
}

// Ether renders a decimal ether string as reported by the indexing API
// (e.g. "0.5" or "1e-7"). Unparsable input renders as zero.
func Ether(value string) string {
	d, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return zeroDisplay
	}
	f, _ := d.Float64()
	return display(f)
}

func display(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return zeroDisplay
	}
	if f > 0 && f < dustLimit {
		return dustDisplay
	}
	// rounds the exact binary value of f, not its shortest decimal form
	return strconv.FormatFloat(f, 'f', displayDecimals, 64)
}

// RelativeTime labels a unix timestamp relative to the current time.
func RelativeTime(unixSeconds int64) string {
	return RelativeTimeAt(unixSeconds, time.Now())
}

// RelativeTimeAt labels unixSeconds relative to now. Future timestamps are
// treated as "Just now"; anything older than a week becomes a calendar date.
func RelativeTimeAt(unixSeconds int64, now time.Time) string {
	if unixSeconds == 0 {
		return NoTimestamp
	}

	diff := float64(now.UnixMilli())/1000 - float64(unixSeconds)
	switch {
	case diff < minute:
		return justNow
	case diff < hour:
		return fmt.Sprintf("%dm ago", int64(math.Floor(diff/minute)))
	case diff < day:
		return fmt.Sprintf("%dh ago", int64(math.Floor(diff/hour)))
	case diff < week:
		return fmt.Sprintf("%dd ago", int64(math.Floor(diff/day)))
	default:
		return time.Unix(unixSeconds, 0).UTC().Format(calendarLayout)
	}
}

// ShortAddress abbreviates a hex address to its first six and last four characters.
func ShortAddress(addr string) string {
	if len(addr) <= 10 {
		return addr
	}
	return addr[:6] + "..." + addr[len(addr)-4:]
}
