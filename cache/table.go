package cache

import (
	"fmt"
	"math"
	"math/bits"
	"runtime/debug"
	"unsafe"

	"github.com/IvanBrykalov/cachebox/policy"
)

// idSize is the per-slot cost of an identifier.
const idSize = int(unsafe.Sizeof(uint64(0)))

// MaxReserveBytes bounds the storage a single Reserve may request when no
// runtime memory limit is set (see runtime/debug.SetMemoryLimit).
// Larger requests fail with ErrAllocation.
const MaxReserveBytes = min(1<<36, math.MaxInt)

// table is the unsynchronized entry store: the id-indexed map, the slot
// accounting that stands in for allocated capacity, and the policy that
// mirrors the set of resident ids. The owning cache serializes access.
type table[K, V any] struct {
	m       map[uint64]*Entry[K, V]
	slots   int // allocated slot count reported by Capacity
	maxsize int // 0 = unbounded
	pol     policy.Policy
}

// insertResult reports the side effects of a successful insert.
type insertResult[K, V any] struct {
	prev     Entry[K, V] // previous entry when replaced
	replaced bool
	victim   Entry[K, V] // entry evicted to make room
	evicted  bool
}

func newTable[K, V any](maxsize, capacity int, pol policy.Policy) *table[K, V] {
	if maxsize > 0 && capacity > maxsize {
		capacity = maxsize
	}
	return &table[K, V]{
		m:       make(map[uint64]*Entry[K, V], capacity),
		slots:   capacity,
		maxsize: maxsize,
		pol:     pol,
	}
}

func (t *table[K, V]) len() int { return len(t.m) }

func (t *table[K, V]) full() bool { return t.maxsize > 0 && len(t.m) >= t.maxsize }

// insert adds or replaces id. Replacing keeps the stored key and counts
// as an access. A new id at maxsize either evicts the policy's victim or,
// when the policy never evicts, fails with ErrCapacityExceeded without
// touching the table.
func (t *table[K, V]) insert(id uint64, k K, v V) (insertResult[K, V], error) {
	var res insertResult[K, V]
	if e, ok := t.m[id]; ok {
		res.prev, res.replaced = *e, true
		e.Value = v
		t.pol.OnAccess(id)
		return res, nil
	}
	if t.full() {
		vid, ok := t.pol.Evict()
		if !ok {
			return res, ErrCapacityExceeded
		}
		victim, ok := t.m[vid]
		if !ok {
			// The policy handed out an id the table does not hold.
			return res, fmt.Errorf("cache: policy evicted unknown id %d", vid)
		}
		delete(t.m, vid)
		res.victim, res.evicted = *victim, true
	}
	t.m[id] = &Entry[K, V]{ID: id, Key: k, Value: v}
	t.pol.OnInsert(id)
	t.grow()
	return res, nil
}

// get returns a copy of the entry without notifying the policy.
func (t *table[K, V]) get(id uint64) (Entry[K, V], bool) {
	e, ok := t.m[id]
	if !ok {
		return Entry[K, V]{}, false
	}
	return *e, true
}

// touch is get plus an access notification.
func (t *table[K, V]) touch(id uint64) (Entry[K, V], bool) {
	e, ok := t.m[id]
	if !ok {
		return Entry[K, V]{}, false
	}
	t.pol.OnAccess(id)
	return *e, true
}

// remove deletes id from the table and the policy.
func (t *table[K, V]) remove(id uint64) (Entry[K, V], bool) {
	e, ok := t.m[id]
	if !ok {
		return Entry[K, V]{}, false
	}
	delete(t.m, id)
	t.pol.OnRemove(id)
	return *e, true
}

func (t *table[K, V]) contains(id uint64) bool {
	_, ok := t.m[id]
	return ok
}

// entries copies every entry out, in the policy's eviction order when it
// defines one and in map order otherwise.
func (t *table[K, V]) entries() []Entry[K, V] {
	out := make([]Entry[K, V], 0, len(t.m))
	if order := t.pol.Order(nil); order != nil {
		for _, id := range order {
			if e, ok := t.m[id]; ok {
				out = append(out, *e)
			}
		}
		return out
	}
	for _, e := range t.m {
		out = append(out, *e)
	}
	return out
}

// ---- capacity management ----

// grow keeps slots >= len after an insert: the next power of two,
// clamped to maxsize when bounded.
func (t *table[K, V]) grow() {
	n := len(t.m)
	if n <= t.slots {
		return
	}
	s := 1 << bits.Len(uint(n-1))
	if t.maxsize > 0 && s > t.maxsize {
		s = t.maxsize
	}
	if s < n {
		s = n
	}
	t.slots = s
}

// slotBytes is the footprint of one slot: an id plus the two handles.
func (t *table[K, V]) slotBytes() int {
	var (
		k K
		v V
	)
	return idSize + int(unsafe.Sizeof(k)) + int(unsafe.Sizeof(v))
}

// sizeOf estimates the memory held by the table.
func (t *table[K, V]) sizeOf() int { return t.slots*t.slotBytes() + idSize }

// reserve makes room for at least len+additional entries. On failure the
// table is left exactly as it was.
func (t *table[K, V]) reserve(additional int) error {
	if additional < 0 {
		return fmt.Errorf("%w: negative additional %d", ErrAllocation, additional)
	}
	n := len(t.m)
	if additional > math.MaxInt-n {
		return fmt.Errorf("%w: capacity overflow", ErrAllocation)
	}
	need := n + additional
	if need <= t.slots {
		return nil
	}
	// make silently drops size hints it cannot honour, so the request is
	// checked up front.
	if budget := reserveBudget(); need > budget/t.slotBytes() {
		return fmt.Errorf("%w: %d slots exceed the %d byte budget", ErrAllocation, need, budget)
	}
	m := make(map[uint64]*Entry[K, V], need)
	for id, e := range t.m {
		m[id] = e
	}
	t.m = m
	t.slots = need
	return nil
}

// reserveBudget is the byte ceiling for one Reserve: the runtime soft
// memory limit when one is set, MaxReserveBytes otherwise.
func reserveBudget() int {
	limit := debug.SetMemoryLimit(-1) // -1 reads without changing it
	if limit <= 0 || limit >= math.MaxInt64 || limit > math.MaxInt {
		return MaxReserveBytes
	}
	return int(limit)
}

// shrinkToFit rebuilds storage sized to the current length.
func (t *table[K, V]) shrinkToFit() {
	n := len(t.m)
	if t.slots <= n {
		return
	}
	m := make(map[uint64]*Entry[K, V], n)
	for id, e := range t.m {
		m[id] = e
	}
	t.m = m
	t.slots = n
}

// reset empties the table and the policy. With reuse the allocated map
// and the slot count are kept for the next fill.
func (t *table[K, V]) reset(reuse bool) {
	if reuse {
		clear(t.m)
	} else {
		t.m = make(map[uint64]*Entry[K, V])
		t.slots = 0
	}
	t.pol.Reset()
}
