// Package rr implements the random-replacement eviction policy.
package rr

import (
	"math/rand/v2"

	"github.com/IvanBrykalov/cachebox/policy"
)

// rr keeps the registered ids in a dense slice so a uniform victim can be
// drawn in O(1); slot maps an id to its position for O(1) removal.
type rr struct {
	ids  []uint64
	slot map[uint64]int
	rnd  *rand.Rand
}

// New returns an empty RR policy presized for capacity ids.
// A nil src seeds a fresh PCG generator from the global source.
func New(capacity int, src rand.Source) policy.Policy {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &rr{
		ids:  make([]uint64, 0, capacity),
		slot: make(map[uint64]int, capacity),
		rnd:  rand.New(src),
	}
}

func (p *rr) OnInsert(id uint64) {
	if _, ok := p.slot[id]; ok {
		return
	}
	p.slot[id] = len(p.ids)
	p.ids = append(p.ids, id)
}

// OnAccess is a no-op: every resident id is equally likely to go.
func (p *rr) OnAccess(uint64) {}

func (p *rr) OnRemove(id uint64) {
	if i, ok := p.slot[id]; ok {
		p.removeAt(i)
	}
}

// Evict removes and returns a uniformly chosen id.
// Consecutive calls are independent.
func (p *rr) Evict() (uint64, bool) {
	if len(p.ids) == 0 {
		return 0, false
	}
	i := p.rnd.IntN(len(p.ids))
	id := p.ids[i]
	p.removeAt(i)
	return id, true
}

func (p *rr) Len() int { return len(p.ids) }

func (p *rr) Reset() {
	p.ids = p.ids[:0]
	clear(p.slot)
}

// Order lists ids in slot order. RR has no eviction order; the listing
// is stable between mutations only.
func (p *rr) Order(dst []uint64) []uint64 {
	if dst == nil {
		dst = make([]uint64, 0, len(p.ids))
	}
	return append(dst, p.ids...)
}

// removeAt swaps the last id into slot i and truncates.
func (p *rr) removeAt(i int) {
	last := len(p.ids) - 1
	id := p.ids[i]
	if i != last {
		moved := p.ids[last]
		p.ids[i] = moved
		p.slot[moved] = i
	}
	p.ids = p.ids[:last]
	delete(p.slot, id)
}
