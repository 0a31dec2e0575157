package cache

import (
	"log/slog"
	"math/rand/v2"

	"github.com/IvanBrykalov/cachebox/policy"
)

// EvictReason explains why the cache handed an entry back through OnEvict.
type EvictReason int

const (
	// EvictPolicy: removed by the active eviction policy to make room.
	EvictPolicy EvictReason = iota
	// EvictClear: dropped by Clear.
	EvictClear
)

// String returns a stable label for the reason.
func (r EvictReason) String() string {
	switch r {
	case EvictClear:
		return "clear"
	default:
		return "policy"
	}
}

// Metrics exposes cache-level observability hooks.
// A NoopMetrics implementation is provided and used by default.
// Hooks are called without the cache lock held and may read the cache.
// Evict receives every entry dropped in one operation as a single call;
// Clear reports with EvictClear.
type Metrics interface {
	Hit()
	Miss()
	Evict(reason EvictReason, n int)
	Size(entries, capacity int)
}

// Options configures a cache. Zero values are safe;
// defaults are applied in New():
//   - MaxSize 0    => unbounded
//   - Policy zero  => policy.None (full cache rejects new ids)
//   - nil Metrics  => NoopMetrics
//   - nil Logger   => NopLogger
//   - nil Rand     => randomly seeded PCG (RR only)
type Options[K, V any] struct {
	// MaxSize is the entry count limit; 0 disables the limit.
	MaxSize int

	// Capacity preallocates room for this many entries. It is a hint
	// and is clamped to MaxSize when MaxSize is set.
	Capacity int

	// Policy selects the eviction strategy.
	Policy policy.Kind

	// Rand feeds victim selection for policy.RR. Useful for reproducible runs.
	Rand rand.Source

	// OnEvict receives entries the cache drops on its own (policy eviction
	// and Clear). It runs after the cache lock is released, so it may call
	// back into the same cache.
	OnEvict func(e Entry[K, V], reason EvictReason)

	// Observability
	Metrics Metrics
	Logger  *slog.Logger
}
