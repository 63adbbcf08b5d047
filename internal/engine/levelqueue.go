package engine

// LevelQueue is the FIFO of orders resting at a single price, with a cached
// aggregate volume. total_volume equals the sum of Amount over live orders
// only. A shadow-cancelled order's amount is deducted at cancel time;
// PopFront deducts it again when the ghost record is later discarded from
// the front of the queue, so callers discarding a ghost must add its
// amount back to compensate (see scanLiveMaker).
//
// Backed by a slice with a head cursor rather than a linked list so that
// push_back/pop_front/push_front are O(1) without per-order allocation;
// the only allocations on the hot path are the slice's own capacity growth.
type LevelQueue struct {
	orders      []Order
	head        int
	totalVolume Volume
}

// PushBack appends an order to the tail of the queue.
func (q *LevelQueue) PushBack(o Order) {
	q.totalVolume += o.Amount
	q.orders = append(q.orders, o)
}

// PopFront removes and returns the order at the front of the queue, if any.
func (q *LevelQueue) PopFront() (Order, bool) {
	if q.head >= len(q.orders) {
		return Order{}, false
	}
	o := q.orders[q.head]
	q.head++
	q.totalVolume -= o.Amount
	if q.head == len(q.orders) {
		q.orders = q.orders[:0]
		q.head = 0
	}
	return o, true
}

// PushFront restores an order to the front of the queue, used to roll back
// a partially-filled maker that is still live after a single match.
func (q *LevelQueue) PushFront(o Order) {
	if q.head == 0 {
		// head is 0 here when the preceding PopFront drained the queue and
		// reset it (the slice is then empty, so this is a single append), or
		// when a caller pushes without a prior PopFront, in which case every
		// queued order is shifted one slot to make room.
		q.orders = append(q.orders, Order{})
		copy(q.orders[1:], q.orders[:len(q.orders)-1])
		q.orders[0] = o
	} else {
		q.head--
		q.orders[q.head] = o
	}
	q.totalVolume += o.Amount
}

// IsEmpty reports whether the queue holds no orders at all (live or ghost).
func (q *LevelQueue) IsEmpty() bool {
	return q.head >= len(q.orders)
}

// Len returns the number of orders (live and ghost) still physically queued.
func (q *LevelQueue) Len() int {
	return len(q.orders) - q.head
}

// TotalVolume returns the cached sum of live order amounts at this level.
func (q *LevelQueue) TotalVolume() Volume {
	return q.totalVolume
}
