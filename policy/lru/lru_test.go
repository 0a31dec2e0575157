package lru

import (
	"slices"
	"testing"
)

// OnInsert places ids at MRU; the first insert is the first victim.
func TestLRU_EvictOldestInsert(t *testing.T) {
	t.Parallel()

	p := New(4)
	p.OnInsert(1)
	p.OnInsert(2)
	p.OnInsert(3)

	if id, ok := p.Evict(); !ok || id != 1 {
		t.Fatalf("Evict: want 1, got %d ok=%v", id, ok)
	}
	if p.Len() != 2 {
		t.Fatalf("Len: want 2, got %d", p.Len())
	}
}

// OnAccess promotes the id to MRU so it survives the next eviction.
func TestLRU_AccessPromotes(t *testing.T) {
	t.Parallel()

	p := New(0)
	p.OnInsert(1)
	p.OnInsert(2)
	p.OnAccess(1)

	if got := p.Order(nil); !slices.Equal(got, []uint64{2, 1}) {
		t.Fatalf("Order: want [2 1], got %v", got)
	}
	if id, _ := p.Evict(); id != 2 {
		t.Fatalf("Evict: want 2 (least recently used), got %d", id)
	}
}

// OnRemove unlinks head, tail and middle nodes without breaking the list.
func TestLRU_RemoveAnyPosition(t *testing.T) {
	t.Parallel()

	p := New(0)
	for id := uint64(1); id <= 5; id++ {
		p.OnInsert(id)
	}
	p.OnRemove(1) // tail
	p.OnRemove(5) // head
	p.OnRemove(3) // middle
	p.OnRemove(42)

	if got := p.Order(nil); !slices.Equal(got, []uint64{2, 4}) {
		t.Fatalf("Order: want [2 4], got %v", got)
	}
}

// Duplicate OnInsert must not create a second node.
func TestLRU_DuplicateInsertIgnored(t *testing.T) {
	t.Parallel()

	p := New(0)
	p.OnInsert(7)
	p.OnInsert(7)
	if p.Len() != 1 {
		t.Fatalf("Len: want 1, got %d", p.Len())
	}
}

// Reset drops all state; Evict on an empty policy reports false.
func TestLRU_ResetAndEmptyEvict(t *testing.T) {
	t.Parallel()

	p := New(0)
	p.OnInsert(1)
	p.OnInsert(2)
	p.Reset()

	if p.Len() != 0 {
		t.Fatalf("Len after Reset: want 0, got %d", p.Len())
	}
	if _, ok := p.Evict(); ok {
		t.Fatal("Evict on empty policy must report false")
	}
	p.OnInsert(3)
	if id, ok := p.Evict(); !ok || id != 3 {
		t.Fatalf("Evict after reuse: want 3, got %d ok=%v", id, ok)
	}
}
