package snapshotv1

import (
	"time"

	orderbookv1 "github.com/muhammadchandra19/orderbook/internal/domain/orderbook/v1"
)

// BookSnapshot represents the state of one pair's book at a specific point in
// time. Sequence is the count of stream events that had been applied when the
// snapshot was captured, so watchers can tell stale payloads from fresh ones.
type BookSnapshot struct {
	Pair     string               `json:"pair"`
	TakenAt  time.Time            `json:"taken_at"`
	Orders   int                  `json:"orders"`
	Sequence int64                `json:"sequence"`
	Levels   orderbookv1.Snapshot `json:"levels"`
}
