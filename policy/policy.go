// Package policy defines the eviction policy contract used by the cache
// and the closed set of policy kinds it can be built with.
package policy

import (
	"fmt"
	"strings"
)

// Kind selects one of the built-in eviction strategies.
// The zero value is None.
type Kind uint8

const (
	// None never evicts: inserting a new id into a full cache fails.
	None Kind = iota
	// FIFO evicts the id that was inserted first.
	FIFO
	// LRU evicts the id that was read or written least recently.
	LRU
	// LFU evicts the id with the fewest accesses; ties go to the oldest insert.
	LFU
	// RR evicts a uniformly random id.
	RR
)

var kindNames = [...]string{
	None: "none",
	FIFO: "fifo",
	LRU:  "lru",
	LFU:  "lfu",
	RR:   "rr",
}

// String returns the lower-case policy name.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Valid reports whether k is one of the built-in kinds.
func (k Kind) Valid() bool { return int(k) < len(kindNames) }

// TracksAccess reports whether reads change the eviction order.
// Caches with such a policy must take the write lock on Get.
func (k Kind) TracksAccess() bool { return k == LRU || k == LFU }

// ParseKind maps a policy name (case-insensitive) to its Kind.
// "plain" and "" are accepted as aliases for None.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "plain":
		return None, nil
	case "fifo":
		return FIFO, nil
	case "lru":
		return LRU, nil
	case "lfu":
		return LFU, nil
	case "rr", "random":
		return RR, nil
	}
	return None, fmt.Errorf("policy: unknown kind %q", s)
}

// Policy is the auxiliary ordering/frequency structure of one cache.
// It only ever sees ids; the cache owns the entries.
//
// Concurrency: all methods are invoked under the cache's write lock,
// except Len and Order which may run under the read lock.
//
// Semantics:
//   - OnInsert registers a new id. The cache never calls it for an id
//     that is already registered.
//   - OnAccess records a read or an overwrite of a registered id.
//   - OnRemove forgets an id removed explicitly by the caller.
//   - Evict picks a victim, forgets it and returns it. ok is false when
//     the policy never evicts or holds no ids.
//   - Order appends the registered ids to dst in eviction order (next
//     victim first, where defined). Policies without an order return nil.
type Policy interface {
	OnInsert(id uint64)
	OnAccess(id uint64)
	OnRemove(id uint64)
	Evict() (id uint64, ok bool)
	Len() int
	Reset()
	Order(dst []uint64) []uint64
}

// plain is the policy behind None. It keeps no state at all.
type plain struct{}

// Plain returns the policy used by None caches: every hook is a no-op and
// Evict never yields a victim, so a full cache rejects new ids instead.
func Plain() Policy { return plain{} }

func (plain) OnInsert(uint64)             {}
func (plain) OnAccess(uint64)             {}
func (plain) OnRemove(uint64)             {}
func (plain) Evict() (uint64, bool)       { return 0, false }
func (plain) Len() int                    { return 0 }
func (plain) Reset()                      {}
func (plain) Order(dst []uint64) []uint64 { return nil }
