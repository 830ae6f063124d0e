package engine

import "time"

// Options represents tuning knobs for the Engine.
type Options struct {
	// SnapshotInterval is how often the snapshot manager wakes up.
	SnapshotInterval time.Duration
	// SnapshotEventDelta is how many events must have been applied since the
	// last snapshot before a new one is worth storing.
	SnapshotEventDelta int64
}

// DefaultEngineOptions returns the default engine options.
func DefaultEngineOptions() *Options {
	return &Options{
		SnapshotInterval:   30 * time.Second,
		SnapshotEventDelta: 1000,
	}
}
