package orderreaderv1

import (
	"context"

	"github.com/segmentio/kafka-go"
)

// Reader defines the interface for consuming order events from the stream.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=orderreaderv1_mock
type Reader interface {
	// ReadMessage reads the next message and returns it with the decoded event
	ReadMessage(ctx context.Context) (kafka.Message, *OrderEvent, error)
	// CommitMessages commits the messages to Kafka after processing
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	// Close closes the reader
	Close() error
}
