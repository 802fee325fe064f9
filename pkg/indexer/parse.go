package indexer

import (
	"bytes"
	"encoding/json"
	"math"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ParseHexBalance parses a token balance. A 0x-prefixed value is read as hex,
// anything else as decimal. Empty, malformed and negative values yield zero.
func ParseHexBalance(s string) *big.Int {
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" || s == "0x0" {
		return new(big.Int)
	}

	base := 10
	if digits, ok := trimHexPrefix(s); ok {
		s, base = digits, 16
	}
	if s == "" || s[0] == '-' || s[0] == '+' {
		return new(big.Int)
	}

	n, ok := new(big.Int).SetString(s, base)
	if !ok {
		return new(big.Int)
	}
	return n
}

// ParseHexUint64 parses a hex quantity such as a block number; failure yields zero.
func ParseHexUint64(s string) uint64 {
	digits, _ := trimHexPrefix(strings.TrimSpace(s))
	if digits == "" {
		return 0
	}
	n, err := strconv.ParseUint(digits, 16, 64)
	if err != nil {
		return 0
	}
	return n
}

// ParseTimestamp converts an ISO-8601 block timestamp to unix seconds.
// Zone-less inputs are read as UTC. Absent or unparsable input yields zero.
func ParseTimestamp(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Unix()
		}
	}
	return 0
}

func trimHexPrefix(s string) (string, bool) {
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:], true
	}
	return s, false
}

// parseValue normalises the transfer value, which the indexer sends as a JSON
// number (or occasionally a string), into a plain decimal string.
func parseValue(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "0"
	}

	literal := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &literal); err != nil {
			return "0"
		}
	}

	d, err := decimal.NewFromString(literal)
	if err != nil {
		return "0"
	}
	return d.String()
}

// parseDecimals accepts an integral JSON number; null, strings and
// fractional values are reported as absent.
func parseDecimals(raw json.RawMessage) *int {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || raw[0] == '"' || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil || f != math.Trunc(f) || f < 0 || f > math.MaxInt32 {
		return nil
	}
	d := int(f)
	return &d
}
