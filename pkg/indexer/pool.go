package indexer

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/chainsafe/wallet-dashboard/internal/metrics"
	"github.com/chainsafe/wallet-dashboard/pkg/chain"
)

// Pool lazily creates one API client per chain and reuses it for the life of
// the pool. Entries are never evicted; clients are stateless wire adapters, so
// two goroutines racing to create the same chain's client is harmless and the
// last one stored wins.
type Pool struct {
	registry *chain.Registry
	apiKey   string
	settings settings

	mu      sync.RWMutex
	clients map[chain.ID]API

	// newClient is swapped in tests.
	newClient func(network chain.Network, endpoint string) (API, error)
}

var _ Provider = (*Pool)(nil)

// NewPool creates a pool bound to registry and apiKey.
func NewPool(registry *chain.Registry, apiKey string, opts ...Option) *Pool {
	p := &Pool{
		registry: registry,
		apiKey:   apiKey,
		settings: applyOptions(opts),
		clients:  make(map[chain.ID]API),
	}
	p.newClient = p.dial
	return p
}

// Enabled reports whether an API key is configured.
func (p *Pool) Enabled() bool {
	return p.apiKey != ""
}

// ClientFor returns the cached client for id, creating it on first use.
// It returns nil when id is not in the registry; that result is not cached.
func (p *Pool) ClientFor(id chain.ID) API {
	p.mu.RLock()
	c, ok := p.clients[id]
	p.mu.RUnlock()
	if ok {
		return c
	}

	network, ok := p.registry.NetworkFor(id)
	if !ok {
		return nil
	}

	client, err := p.newClient(network, Endpoint(p.settings.endpointTemplate, network.Name, p.apiKey))
	if err != nil {
		p.settings.logger.Warn("Failed to create indexer client",
			zap.Stringer("chain_id", id),
			zap.String("network", network.Name),
			zap.Error(err))
		return nil
	}

	p.mu.Lock()
	p.clients[id] = client
	size := len(p.clients)
	p.mu.Unlock()

	metrics.IndexerClients.Set(float64(size))
	p.settings.logger.Info("Indexer client created",
		zap.Stringer("chain_id", id),
		zap.String("network", network.Name))

	return client
}

func (p *Pool) dial(network chain.Network, endpoint string) (API, error) {
	c, err := NewClient(context.Background(), network, endpoint,
		WithLogger(p.settings.logger),
		WithHTTPClient(p.settings.httpClient),
	)
	if err != nil {
		return nil, err
	}
	return c, nil
}
