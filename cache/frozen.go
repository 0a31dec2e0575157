package cache

import "github.com/IvanBrykalov/cachebox/policy"

// frozen hides the mutating half of a Cache behind a struct so callers
// cannot type-assert their way back to it.
type frozen[K, V any] struct {
	c Cache[K, V]
}

// Freeze returns a read-only view of c. The view reads through to c, so
// writes made by the owner of c stay visible. Get on an LRU or LFU cache
// still counts as an access.
func Freeze[K, V any](c Cache[K, V]) Reader[K, V] {
	return frozen[K, V]{c: c}
}

func (f frozen[K, V]) Get(id uint64) (Entry[K, V], bool)     { return f.c.Get(id) }
func (f frozen[K, V]) Peek(id uint64) (Entry[K, V], bool)    { return f.c.Peek(id) }
func (f frozen[K, V]) Lookup(id uint64) (Entry[K, V], error) { return f.c.Lookup(id) }
func (f frozen[K, V]) Contains(id uint64) bool               { return f.c.Contains(id) }
func (f frozen[K, V]) Len() int                              { return f.c.Len() }
func (f frozen[K, V]) IsEmpty() bool                         { return f.c.IsEmpty() }
func (f frozen[K, V]) IsFull() bool                          { return f.c.IsFull() }
func (f frozen[K, V]) Capacity() int                         { return f.c.Capacity() }
func (f frozen[K, V]) MaxSize() int                          { return f.c.MaxSize() }
func (f frozen[K, V]) Policy() policy.Kind                   { return f.c.Policy() }
func (f frozen[K, V]) SizeOf() int                           { return f.c.SizeOf() }
func (f frozen[K, V]) Keys() *View[K]                        { return f.c.Keys() }
func (f frozen[K, V]) Values() *View[V]                      { return f.c.Values() }
func (f frozen[K, V]) Items() *View[Entry[K, V]]             { return f.c.Items() }
func (f frozen[K, V]) IDs() *View[uint64]                    { return f.c.IDs() }
func (f frozen[K, V]) Equal(other Reader[K, V]) bool         { return f.c.Equal(other) }
func (f frozen[K, V]) NotEqual(other Reader[K, V]) bool      { return f.c.NotEqual(other) }
func (f frozen[K, V]) Stats() Stats                          { return f.c.Stats() }
func (f frozen[K, V]) String() string                        { return "<frozen " + f.c.String() + ">" }
