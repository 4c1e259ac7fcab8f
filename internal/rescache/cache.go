// Package rescache memoizes dataset loads with a TTL and a capacity bound,
// guaranteeing at most one concurrent load per key.
package rescache

import (
	"container/list"
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/gridsight/gridsight/schema"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the dataset for a cache key on a miss.
type LoadFunc func(ctx context.Context) (*schema.Dataset, error)

// Config carries the cache tunables. Zero values fall back to safe defaults.
type Config struct {
	TTL      time.Duration // entry lifetime; expired entries are never returned fresh
	Capacity int           // max entries before LRU eviction
	// WaitBudget bounds how long a lookup waits on an in-flight load before
	// serving an expired entry, if one exists. Zero disables the fallback.
	WaitBudget time.Duration
	Clock      clockwork.Clock
	Logger     *slog.Logger
	Metrics    *Metrics
}

type entry struct {
	key       string
	ds        *schema.Dataset
	createdAt time.Time
}

// Cache is a per-process result cache. Workers do not share caches; cross-
// worker staleness up to the TTL window is acceptable by design of the
// hosting process model.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*list.Element
	lru     *list.List // front = most recently used

	ttl        time.Duration
	capacity   int
	waitBudget time.Duration
	clock      clockwork.Clock
	log        *slog.Logger
	metrics    *Metrics

	group singleflight.Group
}

// New builds a cache from the given config.
func New(cfg Config) *Cache {
	if cfg.TTL <= 0 {
		cfg.TTL = 5 * time.Minute
	}
	if cfg.Capacity <= 0 {
		cfg.Capacity = 64
	}
	if cfg.Clock == nil {
		cfg.Clock = clockwork.NewRealClock()
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Cache{
		entries:    make(map[string]*list.Element),
		lru:        list.New(),
		ttl:        cfg.TTL,
		capacity:   cfg.Capacity,
		waitBudget: cfg.WaitBudget,
		clock:      cfg.Clock,
		log:        cfg.Logger,
		metrics:    cfg.Metrics,
	}
}

// GetOrLoad returns the cached dataset for key, loading it at most once per
// key concurrently. Callers arriving while a load is in flight share its
// result. When the load exceeds the wait budget and an expired entry is
// still held, that stale entry is served and the load keeps running; its
// result replaces the stale entry once it lands. Failed loads are never
// cached, and every waiter receives the same failure.
func (c *Cache) GetOrLoad(ctx context.Context, key string, load LoadFunc) (*schema.Dataset, error) {
	now := c.clock.Now()

	c.mu.Lock()
	var stale *schema.Dataset
	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		if now.Sub(e.createdAt) <= c.ttl {
			c.lru.MoveToFront(el)
			c.mu.Unlock()
			c.metrics.hit()
			return e.ds, nil
		}
		// Keep the expired value around as a stale fallback; it is
		// evicted when the fresh load lands or by the next sweep.
		stale = e.ds
	}
	c.mu.Unlock()
	c.metrics.miss()

	ch := c.group.DoChan(key, func() (any, error) {
		ds, err := load(ctx)
		if err != nil {
			c.metrics.loadFailure()
			return nil, err
		}
		c.metrics.load()
		c.store(key, ds)
		return ds, nil
	})

	var budget <-chan time.Time
	if c.waitBudget > 0 && stale != nil {
		budget = c.clock.After(c.waitBudget)
	}

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*schema.Dataset), nil
	case <-budget:
		c.metrics.staleServe()
		c.log.Warn("load exceeded wait budget, serving stale entry", "key", key)
		return stale, nil
	case <-ctx.Done():
		if stale != nil {
			c.metrics.staleServe()
			return stale, nil
		}
		return nil, ctx.Err()
	}
}

// store inserts or replaces an entry and evicts past capacity.
func (c *Cache) store(key string, ds *schema.Dataset) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.entries[key]; ok {
		e := el.Value.(*entry)
		e.ds = ds
		e.createdAt = c.clock.Now()
		c.lru.MoveToFront(el)
		return
	}
	el := c.lru.PushFront(&entry{key: key, ds: ds, createdAt: c.clock.Now()})
	c.entries[key] = el

	for c.lru.Len() > c.capacity {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.removeLocked(oldest)
		c.metrics.eviction()
	}
}

func (c *Cache) removeLocked(el *list.Element) {
	e := el.Value.(*entry)
	c.lru.Remove(el)
	delete(c.entries, e.key)
}

// SweepExpired drops every expired entry and returns how many were removed.
// Intended to run on a timer so expired datasets do not pin memory between
// lookups.
func (c *Cache) SweepExpired() int {
	now := c.clock.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for el := c.lru.Back(); el != nil; {
		prev := el.Prev()
		if e := el.Value.(*entry); now.Sub(e.createdAt) > c.ttl {
			c.removeLocked(el)
			removed++
		}
		el = prev
	}
	return removed
}

// Clear removes every entry. Exposed for tests and memory-pressure handling.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.lru.Init()
}

// Len returns the current entry count.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.Len()
}

// StartSweeping runs SweepExpired every interval until ctx is cancelled.
func (c *Cache) StartSweeping(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := c.clock.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.Chan():
				if n := c.SweepExpired(); n > 0 {
					c.log.Debug("swept expired cache entries", "removed", n)
				}
			}
		}
	}()
}
