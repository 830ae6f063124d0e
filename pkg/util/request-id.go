package util

import (
	"github.com/google/uuid"
)

// NewRequestID returns a uuid-v4 string to use as request id.
func NewRequestID() string {
	return uuid.NewString()
}
