// Package util contains internal helpers (key hashing, padded counters).
//revive:disable:var-naming  // allow 'util' as an internal helpers package name
package util

import (
	"errors"
	"fmt"
	"math"
)

// ErrUnhashable is returned by HashKey for key types it cannot hash.
var ErrUnhashable = errors.New("util: unhashable key type")

// HashKey derives a cache identifier from k using 64-bit FNV-1a.
// Supported: string, []byte-like arrays ([16|32|64]byte), bool, all int/uint
// widths, uintptr, float32/64 and fmt.Stringer.
// Other types yield ErrUnhashable; callers should convert the key to a
// string or supply their own identifier function.
func HashKey[K comparable](k K) (uint64, error) {
	switch v := any(k).(type) {
	case string:
		return fnv64aString(v), nil
	case [16]byte:
		return fnv64aBytes(v[:]), nil
	case [32]byte:
		return fnv64aBytes(v[:]), nil
	case [64]byte:
		return fnv64aBytes(v[:]), nil
	case bool:
		if v {
			return fnv64aUint64(1), nil
		}
		return fnv64aUint64(0), nil

	// Integer-like keys: hash little-endian bytes of the value.
	case uint8:
		return fnv64aUint64(uint64(v)), nil
	case uint16:
		return fnv64aUint64(uint64(v)), nil
	case uint32:
		return fnv64aUint64(uint64(v)), nil
	case uint64:
		return fnv64aUint64(v), nil
	case uint:
		return fnv64aUint64(uint64(v)), nil
	case uintptr:
		return fnv64aUint64(uint64(v)), nil
	case int8:
		return fnv64aUint64(uint64(uint8(v))), nil
	case int16:
		return fnv64aUint64(uint64(uint16(v))), nil
	case int32:
		return fnv64aUint64(uint64(uint32(v))), nil
	case int64:
		return fnv64aUint64(uint64(v)), nil
	case int:
		return fnv64aUint64(uint64(v)), nil

	// Floats hash their bit pattern; -0 is folded into +0 so equal keys agree.
	case float32:
		if v == 0 {
			v = 0
		}
		return fnv64aUint64(uint64(math.Float32bits(v))), nil
	case float64:
		if v == 0 {
			v = 0
		}
		return fnv64aUint64(math.Float64bits(v)), nil

	case fmt.Stringer:
		return fnv64aString(v.String()), nil
	default:
		return 0, fmt.Errorf("%w %T", ErrUnhashable, k)
	}
}

const (
	fnvOffset64 = 1469598103934665603
	fnvPrime64  = 1099511628211
)

func fnv64aString(s string) uint64 {
	h := uint64(fnvOffset64)
	for i := 0; i < len(s); i++ {
		h ^= uint64(s[i])
		h *= fnvPrime64
	}
	return h
}

func fnv64aBytes(b []byte) uint64 {
	h := uint64(fnvOffset64)
	for _, c := range b {
		h ^= uint64(c)
		h *= fnvPrime64
	}
	return h
}

func fnv64aUint64(u uint64) uint64 {
	// Hash the 8 little-endian bytes of u without allocating.
	h := uint64(fnvOffset64)
	for i := 0; i < 8; i++ {
		h ^= uint64(byte(u))
		h *= fnvPrime64
		u >>= 8
	}
	return h
}
