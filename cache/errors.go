package cache

import "errors"

var (
	// ErrNotFound is returned by Lookup and Delete when the id is absent.
	ErrNotFound = errors.New("cache: key not found")

	// ErrCapacityExceeded is returned when a new id is inserted into a full
	// cache whose policy never evicts (policy.None). The cache is unchanged.
	ErrCapacityExceeded = errors.New("cache: capacity exceeded")

	// ErrAllocation is returned by Reserve when the requested slot count
	// does not fit the allocation budget. The cache is unchanged.
	ErrAllocation = errors.New("cache: allocation failed")

	// ErrNotImplemented is returned by PopItem, which no policy supports.
	ErrNotImplemented = errors.New("cache: popitem is not implemented")
)
