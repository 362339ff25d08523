package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/okian/roster/internal/adapters/source"
	app "github.com/okian/roster/internal/app"
	"github.com/okian/roster/internal/config"
	"github.com/okian/roster/internal/domain/embed"
	"github.com/okian/roster/pkg/logger"
	"github.com/spf13/cobra"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	cfg *config.Config
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{configFlag: configFlag, verbose: verbose}
}

// initLogging sends logs to w. Without --verbose only warnings and errors
// are shown so table output stays readable.
func (c *commandContext) initLogging(w io.Writer) error {
	if err := logger.InitWithWriter(w); err != nil {
		return err
	}
	level := "warn"
	if c.verbose != nil && *c.verbose {
		level = "debug"
	}
	return logger.SetLevelString(level)
}

func (c *commandContext) ensureConfig(ctx context.Context) (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	var (
		cfg *config.Config
		err error
	)
	if path := strings.TrimSpace(*c.configFlag); path != "" {
		cfg, err = config.LoadFile(ctx, path)
	} else {
		cfg, err = config.Load(ctx)
	}
	if err != nil {
		return nil, err
	}
	c.cfg = cfg
	return cfg, nil
}

// sourceFlags override the configured sources for a single invocation.
type sourceFlags struct {
	current string
	alumni  string
}

func (f sourceFlags) apply(cfg config.Config) config.Config {
	if f.current == "" && f.alumni == "" {
		return cfg
	}
	cfg.Sources = nil
	cfg.CurrentURL = f.current
	cfg.AlumniURL = f.alumni
	return cfg
}

// loadRoster builds a one-shot service and ingests every source once.
// A run where every source failed is an error; partial failures are logged.
func (c *commandContext) loadRoster(ctx context.Context, flags sourceFlags) (*app.Service, app.Report, error) {
	base, err := c.ensureConfig(ctx)
	if err != nil {
		return nil, app.Report{}, err
	}
	cfg := flags.apply(*base)
	sources := cfg.SourceList()
	if len(sources) == 0 {
		return nil, app.Report{}, fmt.Errorf("no sources configured; pass --current/--alumni or set ROSTER_CURRENT_URL")
	}

	svc := app.New(
		app.WithLogger(logger.Named("rosterctl")),
		app.WithSources(sources),
		app.WithFetcher(source.NewRouter(source.NewHTTPFetcher(
			source.WithTimeout(cfg.FetchTimeout()),
			source.WithProxyPrefix(cfg.ProxyPrefix),
		))),
		app.WithEmbedResolver(embed.New(embed.WithPolicy(cfg.Policy()))),
	)
	report, err := svc.Reload(ctx)
	if err != nil {
		return nil, report, err
	}
	return svc, report, nil
}

func addSourceFlags(cmd *cobra.Command, flags *sourceFlags) {
	cmd.Flags().StringVar(&flags.current, "current", "", "Current roster CSV (URL, file:// URL or path)")
	cmd.Flags().StringVar(&flags.alumni, "alumni", "", "Alumni roster CSV (URL, file:// URL or path)")
}
