package strategy

import (
	"errors"

	"github.com/shopspring/decimal"
)

// ErrNoMarketData is returned when a quote is missing one or both sides.
var ErrNoMarketData = errors.New("no market data for analysis")

// DefaultTargetSpreadPct is the spread threshold used when none is configured.
var DefaultTargetSpreadPct = decimal.NewFromFloat(0.05)

// SpreadStrategy sizes market-making opportunities off the bid/ask spread.
// All math is decimal so repeated analysis never drifts.
type SpreadStrategy struct {
	targetSpreadPct decimal.Decimal
}

// NewSpreadStrategy creates a strategy that flags spreads wider than the
// given percentage. Zero or negative thresholds fall back to the default.
func NewSpreadStrategy(targetSpreadPct decimal.Decimal) *SpreadStrategy {
	if targetSpreadPct.LessThanOrEqual(decimal.Zero) {
		targetSpreadPct = DefaultTargetSpreadPct
	}
	return &SpreadStrategy{targetSpreadPct: targetSpreadPct}
}

// TargetSpreadPct returns the configured threshold.
func (s *SpreadStrategy) TargetSpreadPct() decimal.Decimal {
	return s.targetSpreadPct
}

// Analysis is the result of looking at one top-of-book quote.
type Analysis struct {
	Mid           decimal.Decimal
	Spread        decimal.Decimal
	SpreadPercent decimal.Decimal
	Opportunity   bool
	SuggestedBuy  decimal.Decimal
	SuggestedSell decimal.Decimal
}

// Analyze looks at one top-of-book quote. When the spread percentage exceeds
// the target, it suggests quoting a quarter of the spread inside each touch.
func (s *SpreadStrategy) Analyze(bestBid, bestAsk decimal.Decimal) (*Analysis, error) {
	if bestBid.LessThanOrEqual(decimal.Zero) || bestAsk.LessThanOrEqual(decimal.Zero) {
		return nil, ErrNoMarketData
	}

	mid := bestBid.Add(bestAsk).Div(decimal.NewFromInt(2))
	spread := bestAsk.Sub(bestBid)
	spreadPct := spread.Div(mid).Mul(decimal.NewFromInt(100))

	analysis := &Analysis{
		Mid:           mid,
		Spread:        spread,
		SpreadPercent: spreadPct,
	}

	if spreadPct.GreaterThan(s.targetSpreadPct) {
		quarter := spread.Div(decimal.NewFromInt(4))
		analysis.Opportunity = true
		analysis.SuggestedBuy = mid.Sub(quarter)
		analysis.SuggestedSell = mid.Add(quarter)
	}

	return analysis, nil
}
