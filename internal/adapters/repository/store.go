// Package repository holds the published roster and serves reads from immutable snapshots.
package repository

import (
	"context"

	"github.com/okian/roster/internal/domain/model"
)

// Store provides read/write access to the published roster.
type Store interface {
	// Replace publishes roster as the new snapshot, fully replacing the old one.
	Replace(ctx context.Context, roster model.Roster) *Snapshot

	// Snapshot returns the current snapshot. It is never nil.
	Snapshot(ctx context.Context) *Snapshot

	// Get returns the first participant with id in roster order.
	// Returns ErrNotFound if no participant has that id.
	Get(ctx context.Context, id string) (model.Participant, error)

	// Count returns the number of participants in the current snapshot.
	Count(ctx context.Context) int
}
