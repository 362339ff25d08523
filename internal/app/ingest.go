package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/normalize"
	"github.com/okian/roster/pkg/logger"
	"github.com/okian/roster/pkg/metrics"
	"golang.org/x/sync/errgroup"
)

// Outcome classifies the result of ingesting one source.
type Outcome string

// Source outcomes.
const (
	OutcomeOK          Outcome = metrics.OutcomeOK
	OutcomeFetchError  Outcome = metrics.OutcomeFetchError
	OutcomeSchemaError Outcome = metrics.OutcomeSchemaError
)

// SourceReport describes one source of an ingestion run.
type SourceReport struct {
	Name         string        `json:"name"`
	URL          string        `json:"url"`
	Outcome      Outcome       `json:"outcome"`
	Rows         int           `json:"rows"`
	Skipped      int           `json:"skipped"`
	Participants int           `json:"participants"`
	Error        string        `json:"error,omitempty"`
	Duration     time.Duration `json:"duration_ns"`
}

// Report summarizes an ingestion run.
type Report struct {
	StartedAt    time.Time      `json:"started_at"`
	Duration     time.Duration  `json:"duration_ns"`
	Version      uint64         `json:"version"`
	Participants int            `json:"participants"`
	Retained     bool           `json:"retained"`
	Sources      []SourceReport `json:"sources"`
}

// Failed returns the number of sources that did not ingest.
func (r Report) Failed() int {
	n := 0
	for _, s := range r.Sources {
		if s.Outcome != OutcomeOK {
			n++
		}
	}
	return n
}

type sourceResult struct {
	report       SourceReport
	participants []model.Participant
}

// Reload ingests every configured source concurrently and publishes the
// concatenated roster. A failing source only affects its own report entry.
// When every source fails the roster is still replaced, unless retain on
// failure is set, and ErrAllSourcesFailed is returned with the report.
func (s *Service) Reload(ctx context.Context) (Report, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	log := s.log().Named("ingest")

	results := make([]sourceResult, len(s.sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.fetchConcurrency)
	for i, src := range s.sources {
		g.Go(func() error {
			results[i] = s.ingestSource(gctx, src)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Report{}, fmt.Errorf("reload: %w", err)
	}

	report := Report{StartedAt: start, Sources: make([]SourceReport, len(results))}
	parts := make([][]model.Participant, len(results))
	for i, r := range results {
		report.Sources[i] = r.report
		parts[i] = r.participants
		log.Info(ctx, "source ingested",
			logger.String("source", r.report.Name),
			logger.String("outcome", string(r.report.Outcome)),
			logger.Int("rows", r.report.Rows),
			logger.Int("skipped", r.report.Skipped),
			logger.Int("participants", r.report.Participants),
			logger.Duration("took", r.report.Duration),
		)
	}

	allFailed := len(results) > 0 && report.Failed() == len(results)
	if allFailed && s.retainOnFailure {
		snap := s.store.Snapshot(ctx)
		report.Retained = true
		report.Version = snap.Version
		report.Participants = snap.Len()
		metrics.RecordIngestRetained()
	} else {
		snap := s.store.Replace(ctx, model.Concat(parts...))
		report.Version = snap.Version
		report.Participants = snap.Len()
	}
	report.Duration = time.Since(start)
	metrics.RecordIngestRun(float64(report.Duration.Microseconds()) / 1000)

	s.mu.Lock()
	s.lastReport = &report
	s.mu.Unlock()

	log.Info(ctx, "reload finished",
		logger.Int("sources", len(results)),
		logger.Int("failed", report.Failed()),
		logger.Int("participants", report.Participants),
		logger.Bool("retained", report.Retained),
		logger.Duration("took", report.Duration),
	)

	if allFailed {
		return report, ErrAllSourcesFailed
	}
	return report, nil
}

func (s *Service) ingestSource(ctx context.Context, src model.Source) sourceResult {
	start := time.Now()
	rep := SourceReport{Name: src.Name, URL: src.URL}

	text, err := s.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		rep.Outcome = OutcomeFetchError
		rep.Error = err.Error()
		rep.Duration = time.Since(start)
		s.recordFailure(ctx, rep, err)
		return sourceResult{report: rep}
	}

	opts := []normalize.Option{normalize.WithForcedStatus(src.ForcedStatus)}
	if s.newID != nil {
		opts = append(opts, normalize.WithIDGenerator(s.newID))
	}
	participants, rows, err := normalize.ParseCounted(text, opts...)
	rep.Rows = rows
	rep.Duration = time.Since(start)
	if err != nil {
		rep.Outcome = OutcomeSchemaError
		rep.Error = err.Error()
		s.recordFailure(ctx, rep, err)
		return sourceResult{report: rep}
	}

	rep.Outcome = OutcomeOK
	rep.Participants = len(participants)
	rep.Skipped = rows - len(participants)
	metrics.RecordSourceOutcome(src.Name, string(OutcomeOK))
	metrics.RecordSourceRows(src.Name, rows, rep.Skipped, rep.Participants)
	return sourceResult{report: rep, participants: participants}
}

func (s *Service) recordFailure(ctx context.Context, rep SourceReport, err error) {
	metrics.RecordSourceOutcome(rep.Name, string(rep.Outcome))
	metrics.RecordErrorByComponent("ingest", string(rep.Outcome))
	metrics.RecordErrorLatency("ingest", string(rep.Outcome), float64(rep.Duration.Microseconds())/1000)

	var schemaErr *normalize.SchemaError
	if errors.As(err, &schemaErr) {
		s.log().Warn(ctx, "source rejected",
			logger.String("source", rep.Name),
			logger.String("missing", schemaErr.Missing),
			logger.Any("headers", schemaErr.Headers),
		)
		return
	}
	s.log().Warn(ctx, "source fetch failed",
		logger.String("source", rep.Name),
		logger.String("url", rep.URL),
		logger.Error(err),
	)
}
