// Package cache provides a generic in-memory cache engine keyed by
// caller-computed uint64 identifiers, with five eviction policies
// (None, FIFO, LRU, LFU, RR) selected at construction time.
//
// Design
//
//   - Identifiers: the caller hashes its keys and passes the hash as the
//     entry id. The cache stores the key and value as opaque handles and
//     never compares keys, so two keys with the same id are one entry.
//
//   - Storage: a map[uint64]*Entry plus a slot count that reports the
//     allocated capacity. Reserve, ShrinkToFit and Clear(reuse) manage it.
//
//   - Policies: the policy package defines the Policy contract; each kind
//     keeps its own auxiliary structure mirroring the set of resident ids.
//     None rejects new ids when full (ErrCapacityExceeded); the others
//     evict exactly one victim before inserting.
//
//   - Concurrency: one RWMutex per cache. Reads share it, writes take it
//     exclusively. Get takes it exclusively under LRU and LFU because
//     reads reorder eviction there.
//
//   - Callbacks: Options.OnEvict receives evicted and cleared entries
//     after the lock is released, so it may use the cache again.
//
//   - Snapshots: Keys, Values, Items and IDs copy entries out under the
//     read lock and return a one-shot View that later writes do not affect.
//
//   - Metrics: Options.Metrics receives Hit/Miss/Evict/Size signals.
//     NoopMetrics is the default; metrics/prom exports them to Prometheus.
//
// Basic usage
//
//	c := cache.New[string, []byte](cache.Options[string, []byte]{
//	    MaxSize: 10_000,
//	    Policy:  policy.LRU,
//	})
//	id := hash("a")
//	if _, _, err := c.Insert(id, "a", []byte("1")); err != nil {
//	    // only possible with policy.None when full
//	}
//	if e, ok := c.Get(id); ok {
//	    _ = e.Value
//	}
//	c.Remove(id)
//
// Bulk insert
//
//	err := c.Update(cache.Batch(
//	    cache.Entry[string, []byte]{ID: hash("b"), Key: "b", Value: []byte("2")},
//	    cache.Entry[string, []byte]{ID: hash("c"), Key: "c", Value: []byte("3")},
//	))
//
// Update is not transactional: on error, items applied so far remain.
//
// Equality
//
// Equal(other) holds when both caches share MaxSize and every id of the
// receiver is present in other. It is one-directional, and
// NotEqual is not its negation; see the method docs.
package cache
