package service

import (
	"time"

	"github.com/okian/roster/internal/adapters/repository"
	"github.com/okian/roster/internal/adapters/source"
	"github.com/okian/roster/internal/domain/embed"
	"github.com/okian/roster/internal/domain/model"
	"github.com/okian/roster/internal/domain/normalize"
	"github.com/okian/roster/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSources sets the sources ingested by Reload, in concatenation order.
func WithSources(sources []model.Source) Option {
	return func(s *Service) {
		s.sources = append([]model.Source(nil), sources...)
	}
}

// WithFetcher sets the fetcher used to retrieve source text.
func WithFetcher(f source.Fetcher) Option {
	return func(s *Service) {
		if f != nil {
			s.fetcher = f
		}
	}
}

// WithStore sets the roster store.
func WithStore(st repository.Store) Option {
	return func(s *Service) {
		if st != nil {
			s.store = st
		}
	}
}

// WithEmbedResolver sets the resolver used for video references.
func WithEmbedResolver(r *embed.Resolver) Option {
	return func(s *Service) {
		if r != nil {
			s.resolver = r
		}
	}
}

// WithIDGenerator sets the generator for rows without an id cell.
func WithIDGenerator(gen normalize.IDGenerator) Option {
	return func(s *Service) {
		s.newID = gen
	}
}

// WithRetainOnFailure keeps the previous roster when every source fails.
func WithRetainOnFailure(retain bool) Option {
	return func(s *Service) {
		s.retainOnFailure = retain
	}
}

// WithRefreshInterval reloads all sources periodically after Start. Zero disables it.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d >= 0 {
			s.refreshInterval = d
		}
	}
}

// WithFetchConcurrency bounds how many sources are fetched at once.
func WithFetchConcurrency(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.fetchConcurrency = n
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}
