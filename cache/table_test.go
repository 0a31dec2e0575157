package cache

import (
	"math"
	"math/rand/v2"
	"runtime/debug"
	"slices"
	"testing"

	"github.com/IvanBrykalov/cachebox/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var allKinds = []policy.Kind{policy.None, policy.FIFO, policy.LRU, policy.LFU, policy.RR}

func newTestCache(t testing.TB, kind policy.Kind, maxsize int) *cache[string, int] {
	t.Helper()
	c := New[string, int](Options[string, int]{
		MaxSize: maxsize,
		Policy:  kind,
		Rand:    rand.NewPCG(7, 11),
	})
	return c.(*cache[string, int])
}

// checkInvariants asserts the size bound, slots >= len, and for bounded
// policies that the policy holds exactly the table's ids.
func checkInvariants(t *testing.T, c *cache[string, int]) {
	t.Helper()
	c.read(func(tb *table[string, int]) {
		n := len(tb.m)
		if tb.maxsize > 0 {
			require.LessOrEqual(t, n, tb.maxsize, "len exceeds maxsize")
		}
		require.GreaterOrEqual(t, tb.slots, n, "slots below len")

		if c.kind == policy.None {
			return
		}
		require.Equal(t, n, tb.pol.Len(), "policy size differs from table size")
		ids := tb.pol.Order(nil)
		require.Len(t, ids, n)
		seen := make(map[uint64]bool, n)
		for _, id := range ids {
			require.False(t, seen[id], "id %d listed twice by policy", id)
			seen[id] = true
			_, ok := tb.m[id]
			require.True(t, ok, "policy holds id %d missing from table", id)
		}
	})
}

// Random operation mix over every policy; invariants must hold after
// each step.
func TestTable_InvariantsUnderRandomOps(t *testing.T) {
	t.Parallel()

	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			const maxsize = 8
			c := newTestCache(t, kind, maxsize)
			r := rand.New(rand.NewPCG(uint64(kind)+1, 99))

			for step := 0; step < 3000; step++ {
				id := uint64(r.IntN(24))
				switch op := r.IntN(100); {
				case op < 40:
					_, _, err := c.Insert(id, "k", step)
					if err != nil {
						require.ErrorIs(t, err, ErrCapacityExceeded)
						require.Equal(t, policy.None, kind)
						require.Equal(t, maxsize, c.Len())
					}
				case op < 65:
					c.Get(id)
				case op < 80:
					c.Remove(id)
				case op < 90:
					_, err := c.SetDefault(id, "k", step)
					if err != nil {
						require.ErrorIs(t, err, ErrCapacityExceeded)
					}
				case op < 97:
					_ = c.Update(Batch(
						Entry[string, int]{ID: id, Key: "k", Value: step},
						Entry[string, int]{ID: id + 1, Key: "k", Value: step},
					))
				default:
					c.Clear(r.IntN(2) == 0)
				}
				checkInvariants(t, c)
			}
		})
	}
}

func TestTable_CapacityHintClampedToMaxSize(t *testing.T) {
	t.Parallel()

	c := New[string, int](Options[string, int]{MaxSize: 4, Capacity: 100, Policy: policy.LRU})
	assert.Equal(t, 4, c.Capacity())

	u := New[string, int](Options[string, int]{Capacity: 100})
	assert.Equal(t, 100, u.Capacity())
}

// Slots grow to the next power of two, clamped to maxsize.
func TestTable_GrowthPowerOfTwo(t *testing.T) {
	t.Parallel()

	u := newTestCache(t, policy.None, 0)
	for i := uint64(0); i < 5; i++ {
		_, _, err := u.Insert(i, "k", 0)
		require.NoError(t, err)
	}
	assert.Equal(t, 8, u.Capacity())

	b := newTestCache(t, policy.FIFO, 5)
	for i := uint64(0); i < 9; i++ {
		_, _, err := b.Insert(i, "k", 0)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, b.Capacity())
	assert.Equal(t, 5, b.Len())
}

func TestTable_Reserve(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, policy.LRU, 0)
	for i := uint64(0); i < 3; i++ {
		_, _, err := c.Insert(i, "k", int(i))
		require.NoError(t, err)
	}

	require.NoError(t, c.Reserve(100))
	assert.GreaterOrEqual(t, c.Capacity(), 103)
	assert.Equal(t, 3, c.Len())

	// Already satisfied: no change.
	before := c.Capacity()
	require.NoError(t, c.Reserve(10))
	assert.Equal(t, before, c.Capacity())

	for _, bad := range []int{-1, math.MaxInt, math.MaxInt / 2, 1 << 40} {
		err := c.Reserve(bad)
		require.ErrorIs(t, err, ErrAllocation, "Reserve(%d)", bad)
		assert.Equal(t, before, c.Capacity(), "failed Reserve must not change capacity")
		assert.Equal(t, 3, c.Len())
	}

	// Entries survive the rebuild and the policy order is untouched.
	ids := slices.Collect(c.IDs().All())
	assert.Equal(t, []uint64{0, 1, 2}, ids)
}

// Under a runtime memory limit, Reserve refuses requests above it instead
// of letting the allocation abort the process. Not parallel: the limit is
// process-wide.
func TestTable_ReserveRespectsMemoryLimit(t *testing.T) {
	prev := debug.SetMemoryLimit(1 << 30)
	t.Cleanup(func() { debug.SetMemoryLimit(prev) })

	c := newTestCache(t, policy.LRU, 0)
	mustInsert(t, c, 1, "k", 1)
	before := c.Capacity()

	// 1<<27 slots of 32 bytes is 4 GiB.
	err := c.Reserve(1 << 27)
	require.ErrorIs(t, err, ErrAllocation)
	assert.Equal(t, before, c.Capacity())
	assert.Equal(t, before*(8+16+8)+8, c.SizeOf())

	require.NoError(t, c.Reserve(1<<10))
	assert.Equal(t, 1+1<<10, c.Capacity())
}

func TestTable_ShrinkToFit(t *testing.T) {
	t.Parallel()

	c := newTestCache(t, policy.FIFO, 0)
	require.NoError(t, c.Reserve(64))
	for i := uint64(0); i < 3; i++ {
		_, _, err := c.Insert(i, "k", int(i))
		require.NoError(t, err)
	}
	c.ShrinkToFit()
	assert.Equal(t, 3, c.Capacity())
	assert.Equal(t, []uint64{0, 1, 2}, slices.Collect(c.IDs().All()))

	// Growth resumes from the shrunk size.
	_, _, err := c.Insert(3, "k", 3)
	require.NoError(t, err)
	assert.Equal(t, 4, c.Capacity())
}

// SizeOf = Capacity × (id + key + value) + id.
func TestTable_SizeOf(t *testing.T) {
	t.Parallel()

	c := New[uint64, uint64](Options[uint64, uint64]{Capacity: 10})
	assert.Equal(t, 10*(8+8+8)+8, c.SizeOf())

	c.Clear(false)
	assert.Equal(t, 8, c.SizeOf())
}
