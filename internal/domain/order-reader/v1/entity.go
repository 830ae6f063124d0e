package orderreaderv1

import (
	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/orderbook/pkg/errors"
)

const (
	// ActionPlace places a new order into the book.
	ActionPlace = "place"
	// ActionCancel removes a resting order.
	ActionCancel = "cancel"
	// ActionModify replaces a resting order's terms.
	ActionModify = "modify"
)

// OrderEvent is the wire form of one instruction on the orders topic.
// Price and quantity are integer ticks, the same units the book uses.
type OrderEvent struct {
	Action   string `json:"action"`
	ID       uint64 `json:"id"`
	Pair     string `json:"pair"`
	Side     string `json:"side"`
	Type     string `json:"type"`
	Price    int64  `json:"price"`
	Quantity int64  `json:"quantity"`
}

// ToOrder translates a place event into a book order. Side, type, price and
// quantity are validated here so a bad payload never reaches the book.
func (e *OrderEvent) ToOrder() (*orderbookv1.Order, error) {
	side, err := orderbookv1.ParseSide(e.Side)
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.OrderEventInvalidError), "side")
	}

	orderType, err := orderbookv1.ParseOrderType(e.Type)
	if err != nil {
		return nil, errors.NewErrorDetails(err.Error(), string(errors.OrderEventInvalidError), "type")
	}

	if e.Price <= 0 {
		return nil, errors.NewErrorDetails("order event price must be positive", string(errors.OrderEventInvalidError), "price")
	}
	if e.Quantity <= 0 {
		return nil, errors.NewErrorDetails("order event quantity must be positive", string(errors.OrderEventInvalidError), "quantity")
	}

	return orderbookv1.NewOrder(e.ID, side, orderType, e.Price, e.Quantity), nil
}

// ToModifyRequest translates a modify event into a replacement request for a
// resting order.
func (e *OrderEvent) ToModifyRequest() (orderbookv1.ModifyRequest, error) {
	side, err := orderbookv1.ParseSide(e.Side)
	if err != nil {
		return orderbookv1.ModifyRequest{}, errors.NewErrorDetails(err.Error(), string(errors.OrderEventInvalidError), "side")
	}

	if e.Price <= 0 {
		return orderbookv1.ModifyRequest{}, errors.NewErrorDetails("order event price must be positive", string(errors.OrderEventInvalidError), "price")
	}
	if e.Quantity <= 0 {
		return orderbookv1.ModifyRequest{}, errors.NewErrorDetails("order event quantity must be positive", string(errors.OrderEventInvalidError), "quantity")
	}

	return orderbookv1.ModifyRequest{
		ID:       e.ID,
		Side:     side,
		Price:    e.Price,
		Quantity: e.Quantity,
	}, nil
}
