// Package render writes terminal views of book snapshots and strategy
// output. Everything takes an io.Writer so callers can capture it.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
	"github.com/muhammadchandra19/orderbook/internal/usecase/strategy"
)

const bookWidth = 34

// DefaultDepth is how many levels per side Book prints when depth is not
// positive.
const DefaultDepth = 5

// money renders a minor-unit price as fixed two-decimal currency.
func money(price int64) string {
	return decimal.New(price, -2).StringFixed(2)
}

// Book writes a boxed depth view of the snapshot. Asks print highest first so
// the best ask sits just above the spread line; bids print best first below
// it. The spread line shows ask − bid and its percentage of the ask.
func Book(w io.Writer, symbol string, snap orderbookv1.Snapshot, depth int) {
	if depth <= 0 {
		depth = DefaultDepth
	}

	fmt.Fprintf(w, "╔%s╗\n", strings.Repeat("═", bookWidth))
	fmt.Fprintf(w, "║  %-31s ║\n", symbol)
	fmt.Fprintf(w, "╠%s╣\n", strings.Repeat("═", bookWidth))

	asks := snap.Asks
	if len(asks) > depth {
		asks = asks[:depth]
	}
	for i := len(asks) - 1; i >= 0; i-- {
		fmt.Fprintf(w, "║ ASK  $%-9s x  %-13d ║\n", money(asks[i].Price), asks[i].Quantity)
	}

	if len(snap.Bids) > 0 && len(snap.Asks) > 0 && snap.Asks[0].Price > 0 {
		spread := decimal.New(snap.Asks[0].Price-snap.Bids[0].Price, -2)
		ask := decimal.New(snap.Asks[0].Price, -2)
		pct := spread.Div(ask).Mul(decimal.NewFromInt(100))

		line := fmt.Sprintf("─ SPREAD: $%s (%s%%) ─", spread.StringFixed(2), pct.StringFixed(2))
		fmt.Fprintf(w, "║ %-32s ║\n", line)
	}

	bids := snap.Bids
	if len(bids) > depth {
		bids = bids[:depth]
	}
	for _, level := range bids {
		fmt.Fprintf(w, "║ BID  $%-9s x  %-13d ║\n", money(level.Price), level.Quantity)
	}

	fmt.Fprintf(w, "╚%s╝\n", strings.Repeat("═", bookWidth))
}

// Analysis writes the strategy block for one analyzed quote.
func Analysis(w io.Writer, analysis *strategy.Analysis) {
	if analysis == nil {
		fmt.Fprintln(w, "No valid market data available")
		return
	}

	fmt.Fprintln(w, "Strategy Analysis:")
	fmt.Fprintf(w, "  Mid Price: $%s\n", analysis.Mid.StringFixed(2))
	fmt.Fprintf(w, "  Spread: $%s (%s%%)\n", analysis.Spread.StringFixed(2), analysis.SpreadPercent.StringFixed(2))

	if analysis.Opportunity {
		fmt.Fprintln(w, "  Opportunity: spread is wide, could place orders at:")
		fmt.Fprintf(w, "    Buy:  $%s\n", analysis.SuggestedBuy.StringFixed(2))
		fmt.Fprintf(w, "    Sell: $%s\n", analysis.SuggestedSell.StringFixed(2))
	} else {
		fmt.Fprintln(w, "  Spread too narrow, waiting...")
	}
}
