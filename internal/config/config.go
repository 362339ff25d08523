// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers defaults, an optional YAML file and ROSTER_ env vars.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/okian/roster/internal/adapters/source"
	"github.com/okian/roster/internal/domain/embed"
	"github.com/okian/roster/internal/domain/model"
)

// Source names produced by SourceList when explicit sources are absent.
const (
	SourceCurrent = "current"
	SourceAlumni  = "alumni"
)

// DefaultProxyPrefix is prepended to the query-escaped URL on fetch fallback.
const DefaultProxyPrefix = source.DefaultProxyPrefix

// SourceConfig describes one CSV source.
type SourceConfig struct {
	// Name labels the source in logs, metrics and ingestion reports.
	Name string `koanf:"name"`
	// URL is an http(s) URL, a file:// URL or a bare path.
	URL string `koanf:"url"`
	// Status forces every row of the source to current or alumni. Empty
	// lets the status column decide.
	Status string `koanf:"status"`
}

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// CurrentURL and AlumniURL are the two-sheet shorthand used when
	// Sources is empty.
	CurrentURL string `koanf:"current_url"`
	AlumniURL  string `koanf:"alumni_url"`

	// Sources lists every source explicitly, in concatenation order.
	Sources []SourceConfig `koanf:"sources"`

	// ProxyPrefix is used to retry failed direct fetches. Empty disables the fallback.
	ProxyPrefix string `koanf:"proxy_prefix"`

	// FetchTimeoutMS bounds a single HTTP attempt.
	FetchTimeoutMS int `koanf:"fetch_timeout_ms"`

	// RefreshIntervalSec reloads all sources periodically when > 0.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// EmbedPolicy is "trust" or "allowlist". Under "trust" any <iframe>
	// markup typed into a sheet cell is served verbatim to API clients, so
	// everyone who can edit the sheets can inject HTML. Use "allowlist" when
	// the sheets are editable by people you do not trust; it rebuilds
	// YouTube and Vimeo players and never emits authored markup.
	EmbedPolicy string `koanf:"embed_policy"`

	// RetainOnFailure keeps the previous roster when every source fails.
	RetainOnFailure bool `koanf:"retain_on_failure"`

	// MetricsEnabled turns Prometheus recording on or off.
	MetricsEnabled bool `koanf:"metrics_enabled"`

	// MetricsLabels are constant labels added to every metric (YAML only).
	MetricsLabels map[string]string `koanf:"metrics_labels"`

	// MetricsIntervalSec is how often system gauges are sampled; 0 keeps the default.
	MetricsIntervalSec int `koanf:"metrics_interval_sec"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		Addr:               ":9080",
		ProxyPrefix:        DefaultProxyPrefix,
		FetchTimeoutMS:     10_000,
		RefreshIntervalSec: 0,
		EmbedPolicy:        string(embed.PolicyTrust),
		MetricsEnabled:     true,
	}
}

// FetchTimeout returns FetchTimeoutMS as a duration.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutMS) * time.Millisecond
}

// MetricsInterval returns MetricsIntervalSec as a duration.
func (c *Config) MetricsInterval() time.Duration {
	return time.Duration(c.MetricsIntervalSec) * time.Second
}

// RefreshInterval returns RefreshIntervalSec as a duration; zero disables refresh.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// Policy returns the parsed embed policy, defaulting to trust.
func (c *Config) Policy() embed.Policy {
	p, ok := embed.ParsePolicy(c.EmbedPolicy)
	if !ok {
		return embed.PolicyTrust
	}
	return p
}

// SourceList returns the configured sources in declaration order. When no
// explicit list is set it builds current and alumni sources from the two
// URLs, skipping empty ones.
func (c *Config) SourceList() []model.Source {
	if len(c.Sources) > 0 {
		out := make([]model.Source, 0, len(c.Sources))
		for i, s := range c.Sources {
			name := strings.TrimSpace(s.Name)
			if name == "" {
				name = fmt.Sprintf("source-%d", i+1)
			}
			status, _ := model.ParseStatus(s.Status)
			out = append(out, model.Source{Name: name, URL: strings.TrimSpace(s.URL), ForcedStatus: status})
		}
		return out
	}

	var out []model.Source
	if u := strings.TrimSpace(c.CurrentURL); u != "" {
		out = append(out, model.Source{Name: SourceCurrent, URL: u, ForcedStatus: model.StatusCurrent})
	}
	if u := strings.TrimSpace(c.AlumniURL); u != "" {
		out = append(out, model.Source{Name: SourceAlumni, URL: u, ForcedStatus: model.StatusAlumni})
	}
	return out
}

// Validate checks the configuration for values the service cannot run with.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	if _, ok := embed.ParsePolicy(c.EmbedPolicy); !ok {
		return fmt.Errorf("%w: unknown embed_policy %q", ErrInvalidConfig, c.EmbedPolicy)
	}
	if c.FetchTimeoutMS < 0 {
		return fmt.Errorf("%w: fetch_timeout_ms must not be negative", ErrInvalidConfig)
	}
	if c.RefreshIntervalSec < 0 {
		return fmt.Errorf("%w: refresh_interval_sec must not be negative", ErrInvalidConfig)
	}
	if c.MetricsIntervalSec < 0 {
		return fmt.Errorf("%w: metrics_interval_sec must not be negative", ErrInvalidConfig)
	}
	for i, s := range c.Sources {
		if strings.TrimSpace(s.URL) == "" {
			return fmt.Errorf("%w: sources[%d].url must not be empty", ErrInvalidConfig, i)
		}
		switch strings.ToLower(strings.TrimSpace(s.Status)) {
		case "", string(model.StatusCurrent), string(model.StatusAlumni):
		default:
			return fmt.Errorf("%w: sources[%d].status %q must be current or alumni", ErrInvalidConfig, i, s.Status)
		}
	}
	return nil
}
