package cache

import "iter"

// View is a one-shot sequence over a snapshot. It is not safe for
// concurrent use; each goroutine should take its own view.
type View[T any] struct {
	items []T
	pos   int
}

func newView[T any](items []T) *View[T] { return &View[T]{items: items} }

// Next returns the next element, or false once the view is exhausted.
func (v *View[T]) Next() (T, bool) {
	if v.pos >= len(v.items) {
		var zero T
		return zero, false
	}
	it := v.items[v.pos]
	var zero T
	v.items[v.pos] = zero // drop the reference once handed out
	v.pos++
	return it, true
}

// Len returns the number of elements not yet consumed.
func (v *View[T]) Len() int { return len(v.items) - v.pos }

// All drains the view. Ranging over it a second time yields nothing.
func (v *View[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			it, ok := v.Next()
			if !ok || !yield(it) {
				return
			}
		}
	}
}

// snapshot copies every entry under the read lock, then projects it
// outside the lock.
func snapshot[K, V, T any](c *cache[K, V], project func(Entry[K, V]) T) *View[T] {
	var es []Entry[K, V]
	c.read(func(t *table[K, V]) { es = t.entries() })
	out := make([]T, len(es))
	for i, e := range es {
		out[i] = project(e)
	}
	return newView(out)
}

func (c *cache[K, V]) Keys() *View[K] {
	return snapshot(c, func(e Entry[K, V]) K { return e.Key })
}

func (c *cache[K, V]) Values() *View[V] {
	return snapshot(c, func(e Entry[K, V]) V { return e.Value })
}

func (c *cache[K, V]) IDs() *View[uint64] {
	return snapshot(c, func(e Entry[K, V]) uint64 { return e.ID })
}

func (c *cache[K, V]) Items() *View[Entry[K, V]] {
	var es []Entry[K, V]
	c.read(func(t *table[K, V]) { es = t.entries() })
	return newView(es)
}
