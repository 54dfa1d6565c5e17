package signal

import (
	"github.com/emirpasic/gods/queues/priorityqueue"
)

// entry is one (listener, priority) association inside a queue. seq is unique
// per association and orders equal priorities first-attached-first.
type entry struct {
	id       ListenerID
	priority int
	seq      uint64
}

// byPriority sorts higher priorities first, then lower sequence numbers.
func byPriority(a, b interface{}) int {
	x, y := a.(entry), b.(entry)
	switch {
	case x.priority > y.priority:
		return -1
	case x.priority < y.priority:
		return 1
	case x.seq < y.seq:
		return -1
	case x.seq > y.seq:
		return 1
	default:
		return 0
	}
}

// Queue is the priority queue of listeners attached to one event name.
type Queue struct {
	heap *priorityqueue.Queue
}

func newQueue() *Queue {
	return &Queue{heap: priorityqueue.NewWith(byPriority)}
}

func (q *Queue) insert(e entry) {
	q.heap.Enqueue(e)
}

// Len returns the number of entries.
func (q *Queue) Len() int {
	return q.heap.Size()
}

// entries returns a snapshot in dispatch order without consuming the queue.
func (q *Queue) entries() []entry {
	out := make([]entry, 0, q.heap.Size())
	for {
		v, ok := q.heap.Dequeue()
		if !ok {
			break
		}
		out = append(out, v.(entry))
	}
	for _, e := range out {
		q.heap.Enqueue(e)
	}
	return out
}

// Listeners returns listener identities in dispatch order.
func (q *Queue) Listeners() []ListenerID {
	snapshot := q.entries()
	ids := make([]ListenerID, len(snapshot))
	for i, e := range snapshot {
		ids[i] = e.id
	}
	return ids
}
