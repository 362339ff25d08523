package repository

import (
	"time"

	"github.com/okian/roster/internal/domain/model"
)

// Option applies a configuration option to the SnapshotStore.
type Option func(*SnapshotStore)

// WithClock overrides the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *SnapshotStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithInitialRoster publishes roster as version 1 at construction.
func WithInitialRoster(roster model.Roster) Option {
	return func(s *SnapshotStore) {
		s.initial = roster
	}
}
