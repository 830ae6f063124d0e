package watch

// Config holds the configuration for the bookwatch viewer.
type Config struct {
	Pair  string `env:"PAIR,required"` // Trading pair to follow, e.g. BTC-USD
	Depth int    `env:"DEPTH" envDefault:"5"`
}
