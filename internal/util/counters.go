package util

import (
	"sync/atomic"
	"unsafe"
)

// CacheLineSize is a reasonable default for most modern CPUs.
const CacheLineSize = 64

// CacheLinePad separates hot fields into distinct cache lines.
type CacheLinePad struct{ _ [CacheLineSize]byte }

// paddedInt64 is an atomic int64 padded to exactly one cache line.
type paddedInt64 struct {
	atomic.Int64
	_ [CacheLineSize - 8]byte
}

// paddedUint64 is the uint64 counterpart padded to one cache line.
type paddedUint64 struct {
	atomic.Uint64
	_ [CacheLineSize - 8]byte
}

var (
	_ [CacheLineSize - int(unsafe.Sizeof(paddedInt64{}))]byte
	_ [CacheLineSize - int(unsafe.Sizeof(paddedUint64{}))]byte
)

// Counters holds hit, miss and eviction tallies, each on its own cache
// line. Hits and misses are bumped by many readers at once under a shared
// lock, so they must not contend on one line. The zero value is ready.
type Counters struct {
	_      CacheLinePad
	hits   paddedInt64
	misses paddedInt64
	evicts paddedUint64
}

// Record counts one lookup outcome.
func (c *Counters) Record(hit bool) {
	if hit {
		c.hits.Add(1)
		return
	}
	c.misses.Add(1)
}

// Evicted counts n evictions.
func (c *Counters) Evicted(n uint64) { c.evicts.Add(n) }

// Load returns the current tallies.
func (c *Counters) Load() (hits, misses int64, evicts uint64) {
	return c.hits.Load(), c.misses.Load(), c.evicts.Load()
}

// Reset zeroes every tally.
func (c *Counters) Reset() {
	c.hits.Store(0)
	c.misses.Store(0)
	c.evicts.Store(0)
}
