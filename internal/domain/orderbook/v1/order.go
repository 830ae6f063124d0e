package orderbookv1

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrOverfill is returned when a fill asks for more than the order has left.
	ErrOverfill = errors.New("fill exceeds remaining quantity")
	// ErrInvalidSide is returned when a payload carries an unknown side.
	ErrInvalidSide = errors.New("invalid order side")
	// ErrInvalidOrderType is returned when a payload carries an unknown order type.
	ErrInvalidOrderType = errors.New("invalid order type")
)

// Side identifies which half of the book an order belongs to.
type Side int8

const (
	// SideBuy is the bid side.
	SideBuy Side = iota
	// SideSell is the ask side.
	SideSell
)

// String returns the wire name of the side.
func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return fmt.Sprintf("side(%d)", int8(s))
	}
}

// ParseSide converts a wire name into a Side.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "buy":
		return SideBuy, nil
	case "sell":
		return SideSell, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidSide, s)
	}
}

// OrderType determines what happens to an order's unmatched quantity.
type OrderType int8

const (
	// GoodTillCancel rests in the book until filled or canceled.
	GoodTillCancel OrderType = iota
	// ImmediateOrCancel matches what it can on arrival and never rests.
	ImmediateOrCancel
)

// String returns the wire name of the order type.
func (t OrderType) String() string {
	switch t {
	case GoodTillCancel:
		return "gtc"
	case ImmediateOrCancel:
		return "ioc"
	default:
		return fmt.Sprintf("ordertype(%d)", int8(t))
	}
}

// ParseOrderType converts a wire name into an OrderType.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(s) {
	case "gtc":
		return GoodTillCancel, nil
	case "ioc":
		return ImmediateOrCancel, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidOrderType, s)
	}
}

// Order is a single order in the book. Price is in minor currency units.
// The id is assigned by the caller and must be unique among live orders.
type Order struct {
	ID                uint64
	Side              Side
	Type              OrderType
	Price             int64
	InitialQuantity   int64
	RemainingQuantity int64

	// queue links, owned by the PriceLevel the order rests in
	next, prev *Order
}

// NewOrder creates a new order with its remaining quantity at the full size.
func NewOrder(id uint64, side Side, orderType OrderType, price, quantity int64) *Order {
	return &Order{
		ID:                id,
		Side:              side,
		Type:              orderType,
		Price:             price,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
	}
}

// Fill consumes quantity from the order. Remaining quantity only ever
// decreases; asking for more than is left returns ErrOverfill and changes
// nothing.
func (o *Order) Fill(quantity int64) error {
	if quantity > o.RemainingQuantity {
		return fmt.Errorf("%w: order %d has %d remaining, requested %d",
			ErrOverfill, o.ID, o.RemainingQuantity, quantity)
	}
	o.RemainingQuantity -= quantity
	return nil
}

// IsFilled checks if the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// FilledQuantity returns how much of the order has been executed so far.
func (o *Order) FilledQuantity() int64 {
	return o.InitialQuantity - o.RemainingQuantity
}

// ModifyRequest describes a replacement for a live order. Applying it cancels
// the original and inserts a fresh order that keeps the original's type but
// starts at the back of its price level's queue.
type ModifyRequest struct {
	ID       uint64
	Side     Side
	Price    int64
	Quantity int64
}

// ToOrder builds the replacement order, carrying over the original's type.
func (r ModifyRequest) ToOrder(orderType OrderType) *Order {
	return NewOrder(r.ID, r.Side, orderType, r.Price, r.Quantity)
}
