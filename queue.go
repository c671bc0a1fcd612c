package mediator

// eventQueue is an unbounded FIFO of pending events. It is not safe for
// concurrent use; the owning mediator guards it.
type eventQueue[Ev any] struct {
	items []Ev
	head  int
}

func (q *eventQueue[Ev]) push(event Ev) {
	q.items = append(q.items, event)
}

// tryPop removes and returns the oldest event. The second result is false
// when the queue is empty.
func (q *eventQueue[Ev]) tryPop() (Ev, bool) {
	var zero Ev
	if q.head == len(q.items) {
		return zero, false
	}

	event := q.items[q.head]
	q.items[q.head] = zero
	q.head++

	// compact once the consumed prefix dominates the backing array
	if q.head == len(q.items) {
		q.items = q.items[:0]
		q.head = 0
	} else if q.head > 32 && q.head*2 >= len(q.items) {
		n := copy(q.items, q.items[q.head:])
		clear(q.items[n:])
		q.items = q.items[:n]
		q.head = 0
	}

	return event, true
}

func (q *eventQueue[Ev]) len() int {
	return len(q.items) - q.head
}
