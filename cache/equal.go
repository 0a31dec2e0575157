package cache

// Equal and NotEqual copy the receiver's ids under its read lock and query
// other afterwards, so the two locks are never held together and comparing
// a cache with itself cannot deadlock.

func (c *cache[K, V]) Equal(other Reader[K, V]) bool {
	if other == nil || c.opt.MaxSize != other.MaxSize() {
		return false
	}
	for _, id := range c.ids() {
		if !other.Contains(id) {
			return false
		}
	}
	return true
}

func (c *cache[K, V]) NotEqual(other Reader[K, V]) bool {
	if other == nil || c.opt.MaxSize != other.MaxSize() {
		return true
	}
	for _, id := range c.ids() {
		if other.Contains(id) {
			return false
		}
	}
	return true
}

// ids copies the resident ids in map order.
func (c *cache[K, V]) ids() []uint64 {
	var out []uint64
	c.read(func(t *table[K, V]) {
		out = make([]uint64, 0, t.len())
		for id := range t.m {
			out = append(out, id)
		}
	})
	return out
}
