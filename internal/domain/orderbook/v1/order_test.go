package orderbookv1

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrder(t *testing.T) {
	order := NewOrder(1, SideBuy, GoodTillCancel, 10_050, 25)

	assert.Equal(t, uint64(1), order.ID)
	assert.Equal(t, SideBuy, order.Side)
	assert.Equal(t, GoodTillCancel, order.Type)
	assert.Equal(t, int64(10_050), order.Price)
	assert.Equal(t, int64(25), order.InitialQuantity)
	assert.Equal(t, int64(25), order.RemainingQuantity)
	assert.False(t, order.IsFilled())
	assert.Equal(t, int64(0), order.FilledQuantity())
}

func TestOrder_Fill(t *testing.T) {
	t.Run("partial fill decrements remaining", func(t *testing.T) {
		order := NewOrder(1, SideBuy, GoodTillCancel, 100, 10)

		require.NoError(t, order.Fill(4))

		assert.Equal(t, int64(6), order.RemainingQuantity)
		assert.Equal(t, int64(10), order.InitialQuantity)
		assert.Equal(t, int64(4), order.FilledQuantity())
		assert.False(t, order.IsFilled())
	})

	t.Run("full fill makes the order terminal", func(t *testing.T) {
		order := NewOrder(1, SideSell, GoodTillCancel, 100, 10)

		require.NoError(t, order.Fill(10))

		assert.True(t, order.IsFilled())
		assert.Equal(t, int64(10), order.FilledQuantity())
	})

	t.Run("overfill fails and changes nothing", func(t *testing.T) {
		order := NewOrder(1, SideBuy, GoodTillCancel, 100, 10)
		require.NoError(t, order.Fill(7))

		err := order.Fill(4)

		assert.ErrorIs(t, err, ErrOverfill)
		assert.Equal(t, int64(3), order.RemainingQuantity)
	})

	t.Run("remaining never increases across fills", func(t *testing.T) {
		order := NewOrder(1, SideBuy, GoodTillCancel, 100, 10)

		prev := order.RemainingQuantity
		for _, qty := range []int64{3, 0, 2, 5} {
			require.NoError(t, order.Fill(qty))
			assert.LessOrEqual(t, order.RemainingQuantity, prev)
			assert.Equal(t, order.InitialQuantity-order.FilledQuantity(), order.RemainingQuantity)
			prev = order.RemainingQuantity
		}
		assert.True(t, order.IsFilled())
	})
}

func TestParseSide(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    Side
		wantErr bool
	}{
		{name: "buy", input: "buy", want: SideBuy},
		{name: "sell", input: "sell", want: SideSell},
		{name: "mixed case", input: "Buy", want: SideBuy},
		{name: "unknown", input: "short", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			side, err := ParseSide(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidSide)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, side)
			assert.Equal(t, tc.input == "sell" || tc.input == "Sell", side == SideSell)
		})
	}
}

func TestParseOrderType(t *testing.T) {
	testCases := []struct {
		name    string
		input   string
		want    OrderType
		wantErr bool
	}{
		{name: "gtc", input: "gtc", want: GoodTillCancel},
		{name: "ioc", input: "ioc", want: ImmediateOrCancel},
		{name: "mixed case", input: "IOC", want: ImmediateOrCancel},
		{name: "unknown", input: "fok", wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			orderType, err := ParseOrderType(tc.input)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidOrderType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, orderType)
		})
	}
}

func TestModifyRequest_ToOrder(t *testing.T) {
	request := ModifyRequest{ID: 7, Side: SideSell, Price: 9_900, Quantity: 12}

	order := request.ToOrder(ImmediateOrCancel)

	assert.Equal(t, uint64(7), order.ID)
	assert.Equal(t, SideSell, order.Side)
	assert.Equal(t, ImmediateOrCancel, order.Type)
	assert.Equal(t, int64(9_900), order.Price)
	assert.Equal(t, int64(12), order.InitialQuantity)
	assert.Equal(t, int64(12), order.RemainingQuantity)
}
