package strategy

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpreadStrategy_Analyze(t *testing.T) {
	testCases := []struct {
		name            string
		targetSpreadPct string
		bid             string
		ask             string
		wantErr         error
		wantOpportunity bool
		wantMid         string
		wantSpread      string
		wantBuy         string
		wantSell        string
	}{
		{
			name:            "wide spread is an opportunity",
			targetSpreadPct: "0.05",
			bid:             "100",
			ask:             "101",
			wantOpportunity: true,
			wantMid:         "100.5",
			wantSpread:      "1",
			wantBuy:         "100.25",
			wantSell:        "100.75",
		},
		{
			name:            "narrow spread is not",
			targetSpreadPct: "0.05",
			bid:             "100",
			ask:             "100.01",
			wantOpportunity: false,
			wantMid:         "100.005",
			wantSpread:      "0.01",
		},
		{
			name:            "spread exactly at target is not an opportunity",
			targetSpreadPct: "0.05",
			bid:             "99.975",
			ask:             "100.025",
			wantOpportunity: false,
			wantMid:         "100",
			wantSpread:      "0.05",
		},
		{
			name:            "crossed quote computes but never flags",
			targetSpreadPct: "0.05",
			bid:             "100.5",
			ask:             "100",
			wantOpportunity: false,
			wantMid:         "100.25",
			wantSpread:      "-0.5",
		},
		{
			name:            "zero bid",
			targetSpreadPct: "0.05",
			bid:             "0",
			ask:             "100",
			wantErr:         ErrNoMarketData,
		},
		{
			name:            "negative ask",
			targetSpreadPct: "0.05",
			bid:             "100",
			ask:             "-1",
			wantErr:         ErrNoMarketData,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			strategy := NewSpreadStrategy(decimal.RequireFromString(tc.targetSpreadPct))

			analysis, err := strategy.Analyze(
				decimal.RequireFromString(tc.bid),
				decimal.RequireFromString(tc.ask),
			)

			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, analysis)
				return
			}

			require.NoError(t, err)
			assert.True(t, analysis.Mid.Equal(decimal.RequireFromString(tc.wantMid)),
				"mid: got %s", analysis.Mid)
			assert.True(t, analysis.Spread.Equal(decimal.RequireFromString(tc.wantSpread)),
				"spread: got %s", analysis.Spread)
			assert.Equal(t, tc.wantOpportunity, analysis.Opportunity)

			if tc.wantOpportunity {
				assert.True(t, analysis.SuggestedBuy.Equal(decimal.RequireFromString(tc.wantBuy)),
					"suggested buy: got %s", analysis.SuggestedBuy)
				assert.True(t, analysis.SuggestedSell.Equal(decimal.RequireFromString(tc.wantSell)),
					"suggested sell: got %s", analysis.SuggestedSell)
				assert.True(t, analysis.SuggestedBuy.LessThan(analysis.SuggestedSell))
			}
		})
	}
}

func TestNewSpreadStrategy_DefaultThreshold(t *testing.T) {
	assert.True(t, NewSpreadStrategy(decimal.Zero).TargetSpreadPct().Equal(DefaultTargetSpreadPct))
	assert.True(t, NewSpreadStrategy(decimal.NewFromInt(-1)).TargetSpreadPct().Equal(DefaultTargetSpreadPct))

	custom := decimal.NewFromFloat(0.02)
	assert.True(t, NewSpreadStrategy(custom).TargetSpreadPct().Equal(custom))
}

func TestSpreadStrategy_SpreadPercent(t *testing.T) {
	strategy := NewSpreadStrategy(decimal.NewFromFloat(0.05))

	// bid 100, ask 101: spread 1 over mid 100.5 is ~0.995%.
	analysis, err := strategy.Analyze(decimal.NewFromInt(100), decimal.NewFromInt(101))

	require.NoError(t, err)
	expected := decimal.NewFromInt(1).
		Div(decimal.RequireFromString("100.5")).
		Mul(decimal.NewFromInt(100))
	assert.True(t, analysis.SpreadPercent.Equal(expected),
		"spread percent: got %s want %s", analysis.SpreadPercent, expected)
}
