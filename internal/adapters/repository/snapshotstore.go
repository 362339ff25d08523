package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/pkg/metrics"
)

// Snapshot is an immutable view of the roster. Callers must not modify Roster.
type Snapshot struct {
	Version     uint64
	PublishedAt time.Time
	Roster      model.Roster

	// firstByID maps an id to the index of its first occurrence.
	firstByID map[string]int
}

// Lookup returns the first participant with id.
func (s *Snapshot) Lookup(id string) (model.Participant, bool) {
	i, ok := s.firstByID[id]
	if !ok {
		return model.Participant{}, false
	}
	return s.Roster[i], true
}

// Len returns the number of participants.
func (s *Snapshot) Len() int { return len(s.Roster) }

// SnapshotStore publishes snapshots through an atomic pointer. Readers never
// lock; writers are serialized so versions increase monotonically.
type SnapshotStore struct {
	writeMu sync.Mutex
	now     func() time.Time
	initial model.Roster

	snapshot atomic.Pointer[Snapshot]
}

// NewSnapshotStore constructs a store holding an empty version 0 snapshot.
func NewSnapshotStore(opts ...Option) *SnapshotStore {
	s := &SnapshotStore{now: time.Now}
	for _, opt := range opts {
		opt(s)
	}

	s.snapshot.Store(&Snapshot{Roster: model.Roster{}, firstByID: map[string]int{}})
	if s.initial != nil {
		s.Replace(context.Background(), s.initial)
		s.initial = nil
	}
	return s
}

// Replace builds and publishes a new snapshot from a private copy of roster.
func (s *SnapshotStore) Replace(_ context.Context, roster model.Roster) *Snapshot {
	start := time.Now()

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	own := make(model.Roster, len(roster))
	copy(own, roster)

	firstByID := make(map[string]int, len(own))
	for i, p := range own {
		if _, seen := firstByID[p.ID]; !seen {
			firstByID[p.ID] = i
		}
	}

	next := &Snapshot{
		Version:     s.snapshot.Load().Version + 1,
		PublishedAt: s.now(),
		Roster:      own,
		firstByID:   firstByID,
	}
	s.snapshot.Store(next)

	metrics.RecordSnapshotPublished(next.Version, float64(time.Since(start).Microseconds())/1000, next.PublishedAt)
	metrics.UpdateParticipantsTotal(len(own))
	return next
}

// Snapshot returns the current snapshot.
func (s *SnapshotStore) Snapshot(_ context.Context) *Snapshot {
	return s.snapshot.Load()
}

// Get returns the first participant with id in roster order.
func (s *SnapshotStore) Get(ctx context.Context, id string) (model.Participant, error) {
	p, ok := s.Snapshot(ctx).Lookup(id)
	if !ok {
		return model.Participant{}, ErrNotFound
	}
	return p, nil
}

// Count returns the number of participants in the current snapshot.
func (s *SnapshotStore) Count(ctx context.Context) int {
	return s.Snapshot(ctx).Len()
}

var _ Store = (*SnapshotStore)(nil)
