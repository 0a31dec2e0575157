package cache

import (
	"iter"

	"github.com/IvanBrykalov/cachebox/policy"
)

// Reader is the read-only half of Cache. All methods are safe for
// concurrent use by multiple goroutines.
//
// Entries are addressed by a uint64 identifier chosen by the caller.
// Two different keys with the same identifier are the same entry: the
// cache performs no secondary equality check.
type Reader[K, V any] interface {
	// Get returns the entry for id. Under LRU and LFU a hit is an access
	// and reorders eviction, so Get takes the exclusive lock there.
	Get(id uint64) (Entry[K, V], bool)

	// Peek returns the entry for id without counting it as an access.
	Peek(id uint64) (Entry[K, V], bool)

	// Lookup is Get that reports a miss as ErrNotFound.
	Lookup(id uint64) (Entry[K, V], error)

	// Contains reports whether id is resident. It is not an access.
	Contains(id uint64) bool

	Len() int
	IsEmpty() bool
	// IsFull reports whether a bounded cache holds MaxSize entries.
	IsFull() bool

	// Capacity returns the number of allocated slots.
	Capacity() int
	// MaxSize returns the entry limit; 0 means unbounded.
	MaxSize() int
	Policy() policy.Kind

	// SizeOf estimates the footprint in bytes:
	// Capacity × (id + key handle + value handle) + id.
	SizeOf() int

	// Keys, Values, Items and IDs return one-shot snapshots taken at call
	// time. Later mutations do not affect an already returned view.
	Keys() *View[K]
	Values() *View[V]
	Items() *View[Entry[K, V]]
	IDs() *View[uint64]

	// Equal reports whether other has the same MaxSize and holds every id
	// of the receiver. Values and extra ids in other are ignored, so the
	// relation is one-directional.
	Equal(other Reader[K, V]) bool

	// NotEqual reports whether MaxSize differs or none of the receiver's
	// ids is held by other. It is not the negation of Equal.
	NotEqual(other Reader[K, V]) bool

	Stats() Stats
	String() string
}

// Cache is an in-memory id-indexed store with a fixed eviction policy.
// All methods are safe for concurrent use by multiple goroutines.
//
// Typical complexity is amortized O(1) (O(log n) for LFU bookkeeping):
// a map operation plus constant policy work under one RWMutex.
type Cache[K, V any] interface {
	Reader[K, V]

	// Insert adds id→(k, v) or replaces the value of a resident id.
	// On replace the stored key is kept, the previous entry is returned
	// with replaced=true and the write counts as an access. Inserting a
	// new id into a full cache evicts the policy's victim (reported via
	// Options.OnEvict) or, for policy.None, fails with ErrCapacityExceeded
	// and leaves the cache unchanged.
	Insert(id uint64, k K, v V) (prev Entry[K, V], replaced bool, err error)

	// SetDefault returns the resident entry for id (counting an access),
	// or inserts id→(k, def) and returns the new entry.
	SetDefault(id uint64, k K, def V) (Entry[K, V], error)

	// Update inserts every item of src under a single write lock.
	// It stops at the first error produced by src or by an insert and
	// returns it; items applied before the error stay applied.
	// src runs with the lock held and must not call into the cache.
	Update(src iter.Seq2[Entry[K, V], error]) error

	// Remove deletes id and hands its entry back to the caller.
	Remove(id uint64) (Entry[K, V], bool)

	// Delete is Remove that reports a miss as ErrNotFound.
	Delete(id uint64) error

	// PopItem is not supported by any policy and always returns
	// ErrNotImplemented.
	PopItem() (Entry[K, V], error)

	// Clear removes every entry and resets policy state. With reuse the
	// allocated capacity is kept; otherwise storage is released.
	Clear(reuse bool)

	// Reserve grows storage to hold at least Len()+additional entries.
	// Requests whose slot bytes exceed the runtime memory limit, or
	// MaxReserveBytes when none is set, fail with ErrAllocation and leave
	// the cache unchanged.
	Reserve(additional int) error

	// ShrinkToFit releases unused capacity. Contents are unchanged.
	ShrinkToFit()
}

// Stats is a point-in-time copy of the cache counters. Evictions counts
// policy evictions only; entries dropped by Clear are not included.
type Stats struct {
	Hits      int64
	Misses    int64
	Evictions uint64
}

// Batch adapts a fixed list of entries to the source shape Update expects.
func Batch[K, V any](items ...Entry[K, V]) iter.Seq2[Entry[K, V], error] {
	return func(yield func(Entry[K, V], error) bool) {
		for _, it := range items {
			if !yield(it, nil) {
				return
			}
		}
	}
}
