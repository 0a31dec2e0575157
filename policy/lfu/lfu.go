// Package lfu implements the least-frequently-used eviction policy.
package lfu

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/IvanBrykalov/cachebox/policy"
)

// item is the per-id frequency record.
type item struct {
	id    uint64
	count uint64 // accesses since insert; 0 on insert
	seq   uint64 // insertion order, fixed for the lifetime of the id
	index int    // position in the heap
}

// lfu keeps a min-heap ordered by (count, seq): the root is the id with the
// fewest accesses, and among equals the one inserted first.
type lfu struct {
	pq  minHeap
	idx map[uint64]*item
	seq uint64
}

// New returns an empty LFU policy presized for capacity ids.
func New(capacity int) policy.Policy {
	return &lfu{
		pq:  make(minHeap, 0, capacity),
		idx: make(map[uint64]*item, capacity),
	}
}

// OnInsert registers the id with a zero counter.
func (p *lfu) OnInsert(id uint64) {
	if _, ok := p.idx[id]; ok {
		return
	}
	p.seq++
	it := &item{id: id, seq: p.seq}
	p.idx[id] = it
	heap.Push(&p.pq, it)
}

// OnAccess increments the counter and restores heap order.
func (p *lfu) OnAccess(id uint64) {
	if it, ok := p.idx[id]; ok {
		it.count++
		heap.Fix(&p.pq, it.index)
	}
}

func (p *lfu) OnRemove(id uint64) {
	if it, ok := p.idx[id]; ok {
		heap.Remove(&p.pq, it.index)
		delete(p.idx, id)
	}
}

// Evict pops the root of the heap.
func (p *lfu) Evict() (uint64, bool) {
	if p.pq.Len() == 0 {
		return 0, false
	}
	it := heap.Pop(&p.pq).(*item)
	delete(p.idx, it.id)
	return it.id, true
}

func (p *lfu) Len() int { return p.pq.Len() }

func (p *lfu) Reset() {
	clear(p.pq)
	p.pq = p.pq[:0]
	clear(p.idx)
	p.seq = 0
}

// Order lists ids in the order they would be evicted.
func (p *lfu) Order(dst []uint64) []uint64 {
	sorted := slices.Clone(p.pq)
	slices.SortFunc(sorted, compare)
	if dst == nil {
		dst = make([]uint64, 0, len(sorted))
	}
	for _, it := range sorted {
		dst = append(dst, it.id)
	}
	return dst
}

func compare(a, b *item) int {
	if c := cmp.Compare(a.count, b.count); c != 0 {
		return c
	}
	return cmp.Compare(a.seq, b.seq)
}

// minHeap implements heap.Interface over *item.
type minHeap []*item

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return compare(h[i], h[j]) < 0 }

func (h minHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *minHeap) Push(x any) {
	it := x.(*item)
	it.index = len(*h)
	*h = append(*h, it)
}

func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	it.index = -1
	*h = old[:n-1]
	return it
}
