package util

import (
	"context"
)

type key string

const (
	requestIDKey = key("x-request-id")
	eventIDKey   = key("event-id")
	pairKey      = key("pair")
)

// WithRequestID returns a context carrying the given request id.
// An empty id is replaced with a freshly generated one.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = NewRequestID()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID returns the request id from ctx, or "" if not present.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithEventID returns a context carrying the id of the stream event being processed.
func WithEventID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, eventIDKey, id)
}

// GetEventID returns the event id from ctx, or "" if not present.
func GetEventID(ctx context.Context) string {
	id, _ := ctx.Value(eventIDKey).(string)
	return id
}

// WithPair returns a context carrying the trading pair being served.
func WithPair(ctx context.Context, pair string) context.Context {
	return context.WithValue(ctx, pairKey, pair)
}

// GetPair returns the trading pair from ctx, or "" if not present.
func GetPair(ctx context.Context) string {
	pair, _ := ctx.Value(pairKey).(string)
	return pair
}
