package query

import (
	"context"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/chainsafe/wallet-dashboard/internal/metrics"
)

// DefaultFreshFor is how long a fetched result is served without refetching.
const DefaultFreshFor = 30 * time.Second

// Fetcher loads the data for a key.
type Fetcher[T any] func(ctx context.Context, key Key) (T, error)

// Option configures a Cache.
type Option func(*settings)

type settings struct {
	logger   *zap.Logger
	freshFor time.Duration
	now      func() time.Time
}

// WithLogger sets a custom logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *settings) { s.logger = l }
}

// WithFreshFor sets the freshness window. Zero disables reuse of stored entries.
func WithFreshFor(d time.Duration) Option {
	return func(s *settings) { s.freshFor = d }
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *settings) { s.now = now }
}

func applyOptions(opts []Option) settings {
	s := settings{
		logger:   zap.NewNop(),
		freshFor: DefaultFreshFor,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// Cache serves query results from a Store while they are fresh and refetches
// them otherwise. Concurrent requests for the same key share one fetch.
//
// Every key carries a generation that Invalidate bumps. A fetch only writes its
// result back if the generation it started under is still current, so a slow
// request that was overtaken never replaces newer data.
type Cache[T any] struct {
	name  string
	store Store[T]
	fetch Fetcher[T]
	s     settings
	group singleflight.Group

	// writeMu orders store writes against Invalidate.
	writeMu  sync.Mutex
	mu       sync.Mutex
	gens     map[Key]uint64
	inflight map[Key]int
	failures map[Key]error
}

// New creates a cache named after the query it serves.
func New[T any](name string, store Store[T], fetch Fetcher[T], opts ...Option) *Cache[T] {
	return &Cache[T]{
		name:     name,
		store:    store,
		fetch:    fetch,
		s:        applyOptions(opts),
		gens:     make(map[Key]uint64),
		inflight: make(map[Key]int),
		failures: make(map[Key]error),
	}
}

// Get returns the stored result for key while it is fresh and fetches it
// otherwise. A failed fetch returns a Failed result carrying any stale data.
func (c *Cache[T]) Get(ctx context.Context, key Key) Result[T] {
	entry, cached := c.load(ctx, key)
	if cached && c.fresh(entry) {
		metrics.QueryCacheTotal.WithLabelValues(c.name, "hit").Inc()
		return Result[T]{Status: Ready, Data: entry.Data, UpdatedAt: entry.FetchedAt}
	}

	c.mu.Lock()
	gen := c.gens[key]
	c.inflight[key]++
	c.mu.Unlock()

	v, err, shared := c.group.Do(flightKey(key, gen), func() (any, error) {
		data, err := c.fetch(ctx, key)
		if err != nil {
			return nil, err
		}
		fetched := Entry[T]{Data: data, FetchedAt: c.s.now()}
		c.save(ctx, key, gen, fetched)
		return fetched, nil
	})

	c.mu.Lock()
	if c.inflight[key]--; c.inflight[key] <= 0 {
		delete(c.inflight, key)
	}
	if err != nil {
		c.failures[key] = err
	} else {
		delete(c.failures, key)
	}
	c.mu.Unlock()

	if shared {
		metrics.QueryCacheTotal.WithLabelValues(c.name, "shared").Inc()
	} else {
		metrics.QueryCacheTotal.WithLabelValues(c.name, "miss").Inc()
	}

	if err != nil {
		res := Result[T]{Status: Failed, Err: err, UpdatedAt: c.s.now()}
		if cached {
			res.Data = entry.Data
			res.UpdatedAt = entry.FetchedAt
		}
		return res
	}

	fetched := v.(Entry[T])
	return Result[T]{Status: Ready, Data: fetched.Data, UpdatedAt: fetched.FetchedAt}
}

// Peek reports the current state for key without fetching.
func (c *Cache[T]) Peek(ctx context.Context, key Key) Result[T] {
	entry, cached := c.load(ctx, key)

	c.mu.Lock()
	loading := c.inflight[key] > 0
	lastErr := c.failures[key]
	c.mu.Unlock()

	switch {
	case lastErr != nil:
		res := Result[T]{Status: Failed, Err: lastErr}
		if cached {
			res.Data, res.UpdatedAt = entry.Data, entry.FetchedAt
		}
		return res
	case cached:
		return Result[T]{Status: Ready, Data: entry.Data, UpdatedAt: entry.FetchedAt}
	case loading:
		return Result[T]{Status: Loading}
	default:
		return Result[T]{Status: Idle}
	}
}

// Read is Peek when peek is set and Get otherwise.
func (c *Cache[T]) Read(ctx context.Context, key Key, peek bool) Result[T] {
	if peek {
		return c.Peek(ctx, key)
	}
	return c.Get(ctx, key)
}

// Invalidate drops the stored entry for key. Fetches already in flight for it
// still answer their callers but no longer write to the store.
func (c *Cache[T]) Invalidate(ctx context.Context, key Key) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	c.gens[key]++
	delete(c.failures, key)
	c.mu.Unlock()

	return c.store.Delete(ctx, key)
}

func (c *Cache[T]) load(ctx context.Context, key Key) (Entry[T], bool) {
	entry, ok, err := c.store.Get(ctx, key)
	if err != nil {
		c.s.logger.Warn("Query cache read failed",
			zap.String("query", c.name),
			zap.String("key", key.String()),
			zap.Error(err))
		return Entry[T]{}, false
	}
	return entry, ok
}

func (c *Cache[T]) save(ctx context.Context, key Key, gen uint64, entry Entry[T]) {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	c.mu.Lock()
	current := c.gens[key] == gen
	c.mu.Unlock()
	if !current {
		c.s.logger.Debug("Discarding superseded query result",
			zap.String("query", c.name),
			zap.String("key", key.String()))
		return
	}

	if err := c.store.Set(ctx, key, entry); err != nil {
		c.s.logger.Warn("Query cache write failed",
			zap.String("query", c.name),
			zap.String("key", key.String()),
			zap.Error(err))
	}
}

func (c *Cache[T]) fresh(e Entry[T]) bool {
	return c.s.now().Sub(e.FetchedAt) < c.s.freshFor
}

func flightKey(key Key, gen uint64) string {
	return key.String() + "#" + strconv.FormatUint(gen, 10)
}
