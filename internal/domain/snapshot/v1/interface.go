package snapshotv1

import "context"

// Store defines the interface for persisting and retrieving book snapshots.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=snapshotv1_mock
type Store interface {
	// Save stores the snapshot and announces it to live watchers
	Save(ctx context.Context, snapshot *BookSnapshot) error
	// Latest returns the most recent snapshot for the pair, nil when none exists
	Latest(ctx context.Context, pair string) (*BookSnapshot, error)
}
