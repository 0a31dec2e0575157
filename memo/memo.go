// Package memo memoizes functions on top of a cache.Cache.
//
// A memoized function derives an id from its argument, serves hits from the
// cache and runs the wrapped function on a miss. Concurrent misses for the
// same id share one call. Errors are returned to every waiting caller and
// are never cached.
//
//	c := cache.New[string, string](cache.Options[string, string]{
//	    MaxSize: 128,
//	    Policy:  policy.LRU,
//	})
//	render := memo.Wrap(c, func(ctx context.Context, name string) (string, error) {
//	    return "hello " + name, nil
//	})
//	s, err := render.Call(ctx, "gopher")
package memo

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/IvanBrykalov/cachebox/cache"
	"github.com/IvanBrykalov/cachebox/internal/singleflight"
	"github.com/IvanBrykalov/cachebox/internal/util"
	"github.com/IvanBrykalov/cachebox/policy"
)

// Info is a snapshot of a memoized function's cache usage.
type Info struct {
	Hits    int64
	Misses  int64
	Shared  int64 // misses answered by a load another caller started or joined
	MaxSize int
	Length  int
	Memory  int // cache.SizeOf in bytes
}

// Option configures Wrap.
type Option func(*config)

type config struct {
	keyFunc    any // func(A) (uint64, error), checked by Wrap
	clearReuse bool
	logger     *slog.Logger
}

// WithKeyFunc overrides how an argument is turned into a cache id.
// The default hashes strings, numbers, bools and fmt.Stringer values.
// A must be the argument type of the wrapped function; Wrap panics
// otherwise.
func WithKeyFunc[A any](fn func(A) (uint64, error)) Option {
	return func(c *config) { c.keyFunc = fn }
}

// WithClearReuse makes Clear keep the cache's allocated capacity.
func WithClearReuse(reuse bool) Option {
	return func(c *config) { c.clearReuse = reuse }
}

// WithLogger sets the logger used for loader failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// Func is a memoized func(context.Context, A) (R, error).
// It is safe for concurrent use.
type Func[A comparable, R any] struct {
	c     cache.Cache[A, R]
	fn    func(context.Context, A) (R, error)
	key   func(A) (uint64, error)
	reuse bool
	log   *slog.Logger

	sf     singleflight.Group[uint64, R]
	stats  util.Counters
	shared atomic.Int64
}

// Wrap memoizes fn in c. A nil c gets an unbounded FIFO cache.
func Wrap[A comparable, R any](c cache.Cache[A, R], fn func(context.Context, A) (R, error), opts ...Option) *Func[A, R] {
	if fn == nil {
		panic("memo: nil function")
	}
	if c == nil {
		c = cache.New[A, R](cache.Options[A, R]{Policy: policy.FIFO})
	}
	cfg := config{}
	for _, o := range opts {
		o(&cfg)
	}
	if cfg.logger == nil {
		cfg.logger = cache.NopLogger()
	}

	f := &Func[A, R]{
		c:     c,
		fn:    fn,
		key:   util.HashKey[A],
		reuse: cfg.clearReuse,
		log:   cfg.logger,
	}
	if cfg.keyFunc != nil {
		kf, ok := cfg.keyFunc.(func(A) (uint64, error))
		if !ok {
			panic(fmt.Sprintf("memo: WithKeyFunc got %T, want %T",
				cfg.keyFunc, (func(A) (uint64, error))(nil)))
		}
		f.key = kf
	}
	return f
}

// Call returns the cached result for a, computing and storing it on a miss.
// An error from the wrapped function is returned as is and nothing is
// stored. Storing can fail with cache.ErrCapacityExceeded when the cache
// uses policy.None and is full; the computed result is returned with it.
func (f *Func[A, R]) Call(ctx context.Context, a A) (R, error) {
	id, err := f.key(a)
	if err != nil {
		var zero R
		return zero, fmt.Errorf("memo: key: %w", err)
	}
	e, ok := f.c.Get(id)
	f.stats.Record(ok)
	if ok {
		return e.Value, nil
	}

	v, shared, err := f.sf.Do(ctx, id, func() (R, error) {
		// double-check after joining the flight
		if e, ok := f.c.Peek(id); ok {
			return e.Value, nil
		}
		r, err := f.fn(ctx, a)
		if err != nil {
			f.log.Debug("memo: call failed", "id", id, "err", err)
			return r, err
		}
		if _, _, err := f.c.Insert(id, a, r); err != nil {
			return r, fmt.Errorf("memo: store: %w", err)
		}
		return r, nil
	})
	if shared {
		f.shared.Add(1)
		f.log.Debug("memo: coalesced load", "id", id)
	}
	return v, err
}

// Info reports hit/miss counters and the current cache size.
func (f *Func[A, R]) Info() Info {
	hits, misses, _ := f.stats.Load()
	return Info{
		Hits:    hits,
		Misses:  misses,
		Shared:  f.shared.Load(),
		MaxSize: f.c.MaxSize(),
		Length:  f.c.Len(),
		Memory:  f.c.SizeOf(),
	}
}

// Clear empties the cache and resets the counters.
func (f *Func[A, R]) Clear() {
	f.c.Clear(f.reuse)
	f.stats.Reset()
	f.shared.Store(0)
}

// Cache returns the underlying cache.
func (f *Func[A, R]) Cache() cache.Cache[A, R] { return f.c }
