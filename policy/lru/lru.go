// Package lru implements the LRU eviction policy.
package lru

import "github.com/IvanBrykalov/cachebox/policy"

// node is an intrusive doubly linked list element: head is MRU, tail is LRU.
type node struct {
	id   uint64
	prev *node
	next *node
}

// lru is a classic "move-to-front" Least-Recently-Used policy.
// Reads and overwrites promote an id to MRU; the victim is the tail.
type lru struct {
	idx  map[uint64]*node
	head *node // MRU
	tail *node // LRU
}

// New returns an empty LRU policy presized for capacity ids.
func New(capacity int) policy.Policy {
	return &lru{idx: make(map[uint64]*node, capacity)}
}

// OnInsert places the new id at MRU.
func (p *lru) OnInsert(id uint64) {
	if _, ok := p.idx[id]; ok {
		return
	}
	n := &node{id: id}
	p.idx[id] = n
	p.pushFront(n)
}

// OnAccess promotes the id to MRU.
func (p *lru) OnAccess(id uint64) {
	if n, ok := p.idx[id]; ok {
		p.moveToFront(n)
	}
}

// OnRemove unlinks the id.
func (p *lru) OnRemove(id uint64) {
	if n, ok := p.idx[id]; ok {
		p.unlink(n)
		delete(p.idx, id)
	}
}

// Evict pops the LRU id.
func (p *lru) Evict() (uint64, bool) {
	n := p.tail
	if n == nil {
		return 0, false
	}
	p.unlink(n)
	delete(p.idx, n.id)
	return n.id, true
}

func (p *lru) Len() int { return len(p.idx) }

func (p *lru) Reset() {
	clear(p.idx)
	p.head, p.tail = nil, nil
}

// Order walks from LRU to MRU.
func (p *lru) Order(dst []uint64) []uint64 {
	if dst == nil {
		dst = make([]uint64, 0, len(p.idx))
	}
	for n := p.tail; n != nil; n = n.prev {
		dst = append(dst, n.id)
	}
	return dst
}

// pushFront inserts n at MRU in O(1).
func (p *lru) pushFront(n *node) {
	n.prev = nil
	n.next = p.head
	if p.head != nil {
		p.head.prev = n
	}
	p.head = n
	if p.tail == nil {
		p.tail = n
	}
}

// moveToFront promotes n to MRU in O(1).
func (p *lru) moveToFront(n *node) {
	if n == p.head {
		return
	}
	p.unlink(n)
	p.pushFront(n)
}

// unlink detaches n from the list in O(1).
func (p *lru) unlink(n *node) {
	if n.prev != nil {
		n.prev.next = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	}
	if p.head == n {
		p.head = n.next
	}
	if p.tail == n {
		p.tail = n.prev
	}
	n.prev, n.next = nil, nil
}
