// Package fifo implements the first-in first-out eviction policy.
package fifo

import (
	"container/list"

	"github.com/IvanBrykalov/cachebox/policy"
)

// fifo keeps ids in insertion order: Front() is the oldest, Back() the newest.
// Reads and overwrites do not change the order.
type fifo struct {
	queue *list.List               // element.Value is uint64
	idx   map[uint64]*list.Element // id -> element in queue
}

// New returns an empty FIFO policy presized for capacity ids.
func New(capacity int) policy.Policy {
	return &fifo{
		queue: list.New(),
		idx:   make(map[uint64]*list.Element, capacity),
	}
}

// OnInsert appends the id to the tail of the queue.
func (q *fifo) OnInsert(id uint64) {
	if _, ok := q.idx[id]; ok {
		return
	}
	q.idx[id] = q.queue.PushBack(id)
}

// OnAccess is a no-op: FIFO order depends on insertion only.
func (q *fifo) OnAccess(uint64) {}

func (q *fifo) OnRemove(id uint64) {
	if el, ok := q.idx[id]; ok {
		q.queue.Remove(el)
		delete(q.idx, id)
	}
}

// Evict pops the head of the queue.
func (q *fifo) Evict() (uint64, bool) {
	el := q.queue.Front()
	if el == nil {
		return 0, false
	}
	id := q.queue.Remove(el).(uint64)
	delete(q.idx, id)
	return id, true
}

func (q *fifo) Len() int { return q.queue.Len() }

func (q *fifo) Reset() {
	q.queue.Init()
	clear(q.idx)
}

// Order lists ids oldest first.
func (q *fifo) Order(dst []uint64) []uint64 {
	if dst == nil {
		dst = make([]uint64, 0, q.queue.Len())
	}
	for el := q.queue.Front(); el != nil; el = el.Next() {
		dst = append(dst, el.Value.(uint64))
	}
	return dst
}
