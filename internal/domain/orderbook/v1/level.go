package orderbookv1

// PriceLevel is the FIFO queue of all resting orders at one price on one
// side. Orders are linked through their own next/prev pointers, so a held
// *Order is a stable handle: it can be unlinked in O(1) no matter how many
// inserts and removals happened around it since.
type PriceLevel struct {
	Price int64

	head *Order
	tail *Order
	size int
}

// NewPriceLevel creates an empty level at the given price.
func NewPriceLevel(price int64) *PriceLevel {
	return &PriceLevel{Price: price}
}

// Enqueue appends an order at the tail of the queue. Arrival order is time
// priority at this price.
func (l *PriceLevel) Enqueue(o *Order) {
	o.next = nil
	o.prev = l.tail
	if l.tail != nil {
		l.tail.next = o
	} else {
		l.head = o
	}
	l.tail = o
	l.size++
}

// Remove unlinks an order from the queue. The order must be a member of this
// level.
func (l *PriceLevel) Remove(o *Order) {
	if o.prev != nil {
		o.prev.next = o.next
	} else {
		l.head = o.next
	}
	if o.next != nil {
		o.next.prev = o.prev
	} else {
		l.tail = o.prev
	}
	o.next = nil
	o.prev = nil
	l.size--
}

// Front returns the oldest order in the queue, or nil when empty.
func (l *PriceLevel) Front() *Order {
	return l.head
}

// Empty checks if the level has no orders.
func (l *PriceLevel) Empty() bool {
	return l.size == 0
}

// Len returns the number of orders resting at this level.
func (l *PriceLevel) Len() int {
	return l.size
}

// TotalQuantity walks the queue and sums the remaining quantity of every
// resting order. It is recomputed on every call rather than cached.
func (l *PriceLevel) TotalQuantity() int64 {
	var total int64
	for o := l.head; o != nil; o = o.next {
		total += o.RemainingQuantity
	}
	return total
}
