package cache

// read runs fn on the table under the shared lock.
// fn must not call back into the cache.
func (c *cache[K, V]) read(fn func(t *table[K, V])) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	fn(c.t)
}

// write runs fn on the table under the exclusive lock, then reports the
// size it left behind to Metrics once the lock is released.
// fn must not call back into the cache.
func (c *cache[K, V]) write(fn func(t *table[K, V])) {
	var n, slots int
	func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		fn(c.t)
		n, slots = c.t.len(), c.t.slots
	}()
	c.opt.Metrics.Size(n, slots)
}

// access picks the lock mode for a read that may notify the policy:
// LRU and LFU reorder on reads and therefore need the exclusive lock.
func (c *cache[K, V]) access(fn func(t *table[K, V])) {
	if c.kind.TracksAccess() {
		c.mu.Lock()
		defer c.mu.Unlock()
	} else {
		c.mu.RLock()
		defer c.mu.RUnlock()
	}
	fn(c.t)
}
