// Package service provides the core roster service that implements
// the dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"sync"
	"time"

	"github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/adapters/source"
	"github.com/okian/roster/internal/domain/embed"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/normalize"
	"github.com/okian/roster/internal/domain/query"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
)

const defaultFetchConcurrency = 4

// Service owns the ingestion pipeline and answers roster queries.
type Service struct {
	mu       sync.RWMutex
	reloadMu sync.Mutex

	// Core components
	store    repository.Store
	fetcher  source.Fetcher
	resolver *embed.Resolver
	newID    normalize.IDGenerator

	// Configuration
	sources          []model.Source
	retainOnFailure  bool
	refreshInterval  time.Duration
	fetchConcurrency int

	// State
	started    bool
	stopCh     chan struct{}
	wg         sync.WaitGroup
	lastReport *Report

	// Logging
	logger logger.Logger
}

// Detail is a participant with its video references resolved for display.
type Detail struct {
	Participant  model.Participant  `json:"participant"`
	InstagramURL string             `json:"instagram_url,omitempty"`
	Featured     embed.Descriptor   `json:"featured"`
	Replays      []embed.Descriptor `json:"replays"`
	Bouts        []embed.Descriptor `json:"bouts"`
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		store:            repository.NewSnapshotStore(),
		fetcher:          source.NewRouter(source.NewHTTPFetcher()),
		resolver:         embed.New(),
		fetchConcurrency: defaultFetchConcurrency,
		stopCh:           make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *Service) log() logger.Logger {
	if s.logger == nil {
		return logger.Get()
	}
	return s.logger
}

// Start performs the initial reload and, when configured, starts the refresh loop.
// A failed initial reload is logged and does not prevent the service from starting.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return nil
	}
	s.started = true
	s.stopCh = make(chan struct{})
	stop := s.stopCh
	s.mu.Unlock()

	s.log().Info(ctx, "starting roster service...",
		logger.Int("sources", len(s.sources)),
		logger.String("embedPolicy", string(s.resolver.Policy())),
		logger.Duration("refreshInterval", s.refreshInterval),
	)

	if _, err := s.Reload(ctx); err != nil {
		s.log().Warn(ctx, "initial reload failed", logger.Error(err))
	}

	if s.refreshInterval > 0 {
		s.wg.Add(1)
		go s.refreshLoop(ctx, stop)
	}

	s.log().Info(ctx, "roster service started", logger.Int("participants", s.store.Count(ctx)))
	return nil
}

func (s *Service) refreshLoop(ctx context.Context, stop <-chan struct{}) {
	defer s.wg.Done()
	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if _, err := s.Reload(ctx); err != nil {
				s.log().Warn(ctx, "scheduled reload failed", logger.Error(err))
			}
		}
	}
}

// Stop gracefully shuts down the refresh loop.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	close(s.stopCh)
	s.mu.Unlock()

	s.wg.Wait()
	s.log().Info(context.Background(), "roster service stopped")
}

// Query returns the participants of view matching criteria, in roster order.
func (s *Service) Query(ctx context.Context, view model.View, criteria model.Criteria) []model.Participant {
	start := time.Now()
	out := query.Query(s.store.Snapshot(ctx).Roster, view, criteria)
	metrics.RecordQuery(string(view), float64(time.Since(start).Microseconds())/1000, len(out))
	return out
}

// Facets lists the sports and weight classes present in view.
func (s *Service) Facets(ctx context.Context, view model.View) query.Facets {
	return query.BuildFacets(s.store.Snapshot(ctx).Roster, view)
}

// Participant returns the first participant with id.
func (s *Service) Participant(ctx context.Context, id string) (model.Participant, error) {
	return s.store.Get(ctx, id)
}

// ResolveEmbed maps a raw video reference to a descriptor.
func (s *Service) ResolveEmbed(_ context.Context, raw string) embed.Descriptor {
	d := s.resolver.Resolve(raw)
	metrics.RecordEmbedResolved(string(d.Kind))
	return d
}

// Detail returns the participant with id and its references resolved now.
func (s *Service) Detail(ctx context.Context, id string) (Detail, error) {
	p, err := s.store.Get(ctx, id)
	if err != nil {
		return Detail{}, err
	}
	return Detail{
		Participant:  p,
		InstagramURL: p.InstagramURL(),
		Featured:     s.ResolveEmbed(ctx, p.FeaturedEmbedRaw),
		Replays:      s.resolveAll(ctx, p.ReplayRefs),
		Bouts:        s.resolveAll(ctx, p.BoutRefs),
	}, nil
}

func (s *Service) resolveAll(ctx context.Context, refs []string) []embed.Descriptor {
	out := make([]embed.Descriptor, 0, len(refs))
	for _, r := range refs {
		out = append(out, s.ResolveEmbed(ctx, r))
	}
	return out
}

// LastReport returns the report of the most recent reload, if any.
func (s *Service) LastReport() (Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.lastReport == nil {
		return Report{}, false
	}
	return *s.lastReport, true
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	ctx := context.Background()
	snap := s.store.Snapshot(ctx)

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"sources":         len(s.sources),
		"participants":    snap.Len(),
		"snapshotVersion": snap.Version,
		"embedPolicy":     string(s.resolver.Policy()),
		"refreshInterval": s.refreshInterval.String(),
		"retainOnFailure": s.retainOnFailure,
	}
	if !snap.PublishedAt.IsZero() {
		stats["publishedAt"] = snap.PublishedAt.UTC().Format(time.RFC3339)
	}
	if s.lastReport != nil {
		stats["lastReload"] = map[string]interface{}{
			"startedAt": s.lastReport.StartedAt.UTC().Format(time.RFC3339),
			"failed":    s.lastReport.Failed(),
			"retained":  s.lastReport.Retained,
		}
	}

	metrics.UpdateParticipantsTotal(snap.Len())
	return stats
}
