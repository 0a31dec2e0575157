package cache

// Entry is one resident key/value pair addressed by its identifier.
//
// ID is computed by the caller (typically a hash of the key); the cache
// never hashes or compares Key itself. Key and Value are opaque handles
// that the cache stores and hands back without inspecting them.
type Entry[K, V any] struct {
	ID    uint64
	Key   K
	Value V
}
