package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/muhammadchandra19/orderbook/pkg/errors"
)

// MustLoad loads the configuration from environment variables and an optional
// .env file, panicking when parsing fails.
func MustLoad[T any](cfg T) {
	_ = godotenv.Load()

	env.Must(cfg, env.Parse(cfg))
}

// Load loads the configuration from environment variables and an optional
// .env file. A missing .env file is fine; the environment wins either way.
func Load[T any](cfg T) error {
	_ = godotenv.Load()

	if err := env.Parse(cfg); err != nil {
		return errors.NewErrorDetails(err.Error(), string(errors.ConfigLoadError), "env")
	}

	return nil
}
