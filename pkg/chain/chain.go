// Package chain holds the static table of EVM networks the dashboard can serve.
//
// A chain ID that is not in the table is a normal input: callers treat it as
// "unsupported" and degrade to empty results instead of failing.
package chain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ID identifies an EVM-compatible network.
type ID uint64

const (
	Mainnet ID = 1
	Sepolia ID = 11155111
)

// String implements fmt.Stringer
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// ParseID parses a decimal chain ID. Zero is rejected.
func ParseID(s string) (ID, error) {
	v, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chain id %q: %w", s, err)
	}
	if v == 0 {
		return 0, fmt.Errorf("invalid chain id %q: must be positive", s)
	}
	return ID(v), nil
}

// Network describes how a chain is reached through the indexing API and
// how its transactions are linked on a block explorer.
type Network struct {
	ID ID
	// Name is the indexing API network identifier (e.g. "eth-mainnet").
	Name     string
	Label    string
	Currency string
	Testnet  bool
	// ExplorerTx is a fmt template taking the transaction hash.
	ExplorerTx string
}

// Registry is a read-only lookup of supported networks.
type Registry struct {
	networks map[ID]Network
}

// NewRegistry builds a registry from the given networks. Later entries with
// the same ID replace earlier ones.
func NewRegistry(networks ...Network) *Registry {
	r := &Registry{networks: make(map[ID]Network, len(networks))}
	for _, n := range networks {
		r.networks[n.ID] = n
	}
	return r
}

// Default returns the registry of networks the dashboard ships with.
func Default() *Registry {
	return NewRegistry(
		Network{
			ID:         Mainnet,
			Name:       "eth-mainnet",
			Label:      "Ethereum",
			Currency:   "ETH",
			ExplorerTx: "https://etherscan.io/tx/%s",
		},
		Network{
			ID:         Sepolia,
			Name:       "eth-sepolia",
			Label:      "Sepolia",
			Currency:   "ETH",
			Testnet:    true,
			ExplorerTx: "https://sepolia.etherscan.io/tx/%s",
		},
	)
}

// NetworkFor returns the network for id, or false when the chain is unsupported.
func (r *Registry) NetworkFor(id ID) (Network, bool) {
	n, ok := r.networks[id]
	return n, ok
}

// ExplorerTxURLFor returns the explorer transaction URL template for id.
func (r *Registry) ExplorerTxURLFor(id ID) (string, bool) {
	n, ok := r.networks[id]
	if !ok || n.ExplorerTx == "" {
		return "", false
	}
	return n.ExplorerTx, true
}

// TxURL renders the explorer link for hash on chain id. It returns "" when the
// chain is unsupported or the hash is empty.
func (r *Registry) TxURL(id ID, hash string) string {
	tmpl, ok := r.ExplorerTxURLFor(id)
	if !ok || hash == "" {
		return ""
	}
	return fmt.Sprintf(tmpl, hash)
}

// Supported reports whether id is in the registry.
func (r *Registry) Supported(id ID) bool {
	_, ok := r.networks[id]
	return ok
}

// Networks lists all networks ordered by chain ID.
func (r *Registry) Networks() []Network {
	out := make([]Network, 0, len(r.networks))
	for _, n := range r.networks {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
