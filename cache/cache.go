package cache

import (
	"fmt"
	"iter"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/IvanBrykalov/cachebox/internal/util"
	"github.com/IvanBrykalov/cachebox/policy"
	"github.com/IvanBrykalov/cachebox/policy/fifo"
	"github.com/IvanBrykalov/cachebox/policy/lfu"
	"github.com/IvanBrykalov/cachebox/policy/lru"
	"github.com/IvanBrykalov/cachebox/policy/rr"
)

// cache is an id-indexed in-memory store guarded by one RWMutex.
// All methods are safe for concurrent use by multiple goroutines.
type cache[K, V any] struct {
	// ---- guarded by mu ----
	mu sync.RWMutex
	t  *table[K, V]

	kind policy.Kind
	opt  Options[K, V]
	log  *slog.Logger

	// ---- hot counters, padded apart ----
	stats util.Counters
}

// New constructs a cache with the provided Options.
// Defaults:
//   - MaxSize 0    -> unbounded, nothing is ever evicted
//   - nil Metrics  -> NoopMetrics
//   - nil Logger   -> NopLogger
//
// New panics on negative sizes or an unknown policy kind.
func New[K, V any](opt Options[K, V]) Cache[K, V] {
	if opt.MaxSize < 0 {
		panic("cache: MaxSize must be >= 0")
	}
	if opt.Capacity < 0 {
		panic("cache: Capacity must be >= 0")
	}
	if !opt.Policy.Valid() {
		panic(fmt.Sprintf("cache: unknown policy %v", opt.Policy))
	}
	if opt.Metrics == nil {
		opt.Metrics = NoopMetrics{}
	}
	if opt.Logger == nil {
		opt.Logger = NopLogger()
	}

	hint := opt.Capacity
	if opt.MaxSize > 0 && hint > opt.MaxSize {
		hint = opt.MaxSize
	}

	return &cache[K, V]{
		t:    newTable[K, V](opt.MaxSize, hint, newPolicy(opt.Policy, hint, opt.Rand)),
		kind: opt.Policy,
		opt:  opt,
		log:  opt.Logger.With("policy", opt.Policy.String()),
	}
}

// newPolicy builds the auxiliary structure for kind. The set of kinds is
// closed; Options.Policy is validated before this is called.
func newPolicy(kind policy.Kind, hint int, src rand.Source) policy.Policy {
	switch kind {
	case policy.FIFO:
		return fifo.New(hint)
	case policy.LRU:
		return lru.New(hint)
	case policy.LFU:
		return lfu.New(hint)
	case policy.RR:
		return rr.New(hint, src)
	default:
		return policy.Plain()
	}
}

// ---- Cache[K,V] implementation ----

func (c *cache[K, V]) Insert(id uint64, k K, v V) (Entry[K, V], bool, error) {
	var (
		res insertResult[K, V]
		err error
	)
	c.write(func(t *table[K, V]) { res, err = t.insert(id, k, v) })
	if err != nil {
		return Entry[K, V]{}, false, err
	}
	if res.evicted {
		c.release(EvictPolicy, 1, res.victim)
	}
	return res.prev, res.replaced, nil
}

func (c *cache[K, V]) SetDefault(id uint64, k K, def V) (Entry[K, V], error) {
	var (
		e   Entry[K, V]
		res insertResult[K, V]
		hit bool
		err error
	)
	c.write(func(t *table[K, V]) {
		if e, hit = t.touch(id); hit {
			return
		}
		if res, err = t.insert(id, k, def); err == nil {
			e, _ = t.get(id)
		}
	})
	if err != nil {
		return Entry[K, V]{}, err
	}
	if res.evicted {
		c.release(EvictPolicy, 1, res.victim)
	}
	return e, nil
}

func (c *cache[K, V]) Update(src iter.Seq2[Entry[K, V], error]) error {
	var (
		victims []Entry[K, V]
		err     error
	)
	c.write(func(t *table[K, V]) {
		for it, serr := range src {
			if serr != nil {
				err = serr
				return
			}
			res, ierr := t.insert(it.ID, it.Key, it.Value)
			if ierr != nil {
				err = ierr
				return
			}
			if res.evicted {
				victims = append(victims, res.victim)
			}
		}
	})
	c.release(EvictPolicy, len(victims), victims...)
	return err
}

func (c *cache[K, V]) Get(id uint64) (Entry[K, V], bool) {
	var (
		e  Entry[K, V]
		ok bool
	)
	c.access(func(t *table[K, V]) { e, ok = t.touch(id) })
	c.record(ok)
	return e, ok
}

func (c *cache[K, V]) Peek(id uint64) (Entry[K, V], bool) {
	var (
		e  Entry[K, V]
		ok bool
	)
	c.read(func(t *table[K, V]) { e, ok = t.get(id) })
	return e, ok
}

func (c *cache[K, V]) Lookup(id uint64) (Entry[K, V], error) {
	e, ok := c.Get(id)
	if !ok {
		return Entry[K, V]{}, fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return e, nil
}

func (c *cache[K, V]) Remove(id uint64) (Entry[K, V], bool) {
	var (
		e  Entry[K, V]
		ok bool
	)
	c.write(func(t *table[K, V]) { e, ok = t.remove(id) })
	return e, ok
}

func (c *cache[K, V]) Delete(id uint64) error {
	if _, ok := c.Remove(id); !ok {
		return fmt.Errorf("%w: id %d", ErrNotFound, id)
	}
	return nil
}

func (c *cache[K, V]) PopItem() (Entry[K, V], error) {
	return Entry[K, V]{}, ErrNotImplemented
}

func (c *cache[K, V]) Contains(id uint64) (ok bool) {
	c.read(func(t *table[K, V]) { ok = t.contains(id) })
	return ok
}

func (c *cache[K, V]) Len() (n int) {
	c.read(func(t *table[K, V]) { n = t.len() })
	return n
}

func (c *cache[K, V]) IsEmpty() bool { return c.Len() == 0 }

func (c *cache[K, V]) IsFull() (full bool) {
	c.read(func(t *table[K, V]) { full = t.full() })
	return full
}

func (c *cache[K, V]) Capacity() (n int) {
	c.read(func(t *table[K, V]) { n = t.slots })
	return n
}

// MaxSize is fixed at construction and needs no lock.
func (c *cache[K, V]) MaxSize() int { return c.opt.MaxSize }

func (c *cache[K, V]) Policy() policy.Kind { return c.kind }

func (c *cache[K, V]) SizeOf() (n int) {
	c.read(func(t *table[K, V]) { n = t.sizeOf() })
	return n
}

// Clear drops every entry. When OnEvict is set the entries are copied out
// first and handed to it after the lock is released.
func (c *cache[K, V]) Clear(reuse bool) {
	var (
		dropped []Entry[K, V]
		n       int
	)
	c.write(func(t *table[K, V]) {
		n = t.len()
		if c.opt.OnEvict != nil {
			dropped = t.entries()
		}
		t.reset(reuse)
	})
	c.log.Debug("cache cleared", "entries", n, "reuse", reuse)
	c.release(EvictClear, n, dropped...)
}

func (c *cache[K, V]) Reserve(additional int) error {
	var err error
	c.write(func(t *table[K, V]) { err = t.reserve(additional) })
	if err != nil {
		c.log.Warn("reserve failed", "additional", additional, "err", err)
	}
	return err
}

func (c *cache[K, V]) ShrinkToFit() {
	c.write(func(t *table[K, V]) { t.shrinkToFit() })
}

func (c *cache[K, V]) Stats() Stats {
	hits, misses, evicts := c.stats.Load()
	return Stats{Hits: hits, Misses: misses, Evictions: evicts}
}

func (c *cache[K, V]) String() string {
	var n, slots int
	c.read(func(t *table[K, V]) { n, slots = t.len(), t.slots })
	return fmt.Sprintf("<cache.%s len=%d maxsize=%d capacity=%d>",
		c.kind, n, c.opt.MaxSize, slots)
}

// ---- helpers ----

// record counts a Get outcome.
func (c *cache[K, V]) record(hit bool) {
	c.stats.Record(hit)
	if hit {
		c.opt.Metrics.Hit()
		return
	}
	c.opt.Metrics.Miss()
}

// release reports n dropped entries and hands es back to the owner. es is
// empty when nobody listens. It must be called without the lock held:
// Metrics and OnEvict may re-enter the cache.
func (c *cache[K, V]) release(reason EvictReason, n int, es ...Entry[K, V]) {
	if n == 0 {
		return
	}
	if reason == EvictPolicy {
		c.stats.Evicted(uint64(n))
	}
	c.opt.Metrics.Evict(reason, n)
	for _, e := range es {
		if reason == EvictPolicy {
			c.log.Debug("evicted", "id", e.ID)
		}
		if cb := c.opt.OnEvict; cb != nil {
			cb(e, reason)
		}
	}
}
