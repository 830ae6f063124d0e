package feed

import "time"

// Config holds the configuration for the feed service.
type Config struct {
	Symbol          string        `env:"SYMBOL,required"` // Instrument to poll, e.g. AAPL
	Interval        time.Duration `env:"INTERVAL" envDefault:"2s"`
	Iterations      int           `env:"ITERATIONS" envDefault:"10"` // 0 runs until canceled
	Depth           int           `env:"DEPTH" envDefault:"5"`
	TargetSpreadPct float64       `env:"TARGET_SPREAD_PCT" envDefault:"0.02"`
}
