package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	app "github.com/okian/roster/internal/app"
	"github.com/spf13/cobra"
)

func newIngestCommand(ctx *commandContext) *cobra.Command {
	var (
		sources sourceFlags
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Fetch and parse every source once and report per-source results",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, report, err := ctx.loadRoster(cmd.Context(), sources)
			if err != nil && !errors.Is(err, app.ErrAllSourcesFailed) {
				return err
			}
			if asJSON {
				if werr := writeJSON(cmd, report); werr != nil {
					return werr
				}
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Source", "Outcome", "Rows", "Skipped", "Participants", "Took", "Error"},
				buildReportRows(report),
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignRight, alignLeft},
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d participant(s), %d failed source(s)\n", report.Participants, report.Failed())
			return err
		},
	}

	addSourceFlags(cmd, &sources)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func buildReportRows(r app.Report) [][]string {
	rows := make([][]string, 0, len(r.Sources))
	for _, s := range r.Sources {
		rows = append(rows, []string{
			s.Name,
			string(s.Outcome),
			strconv.Itoa(s.Rows),
			strconv.Itoa(s.Skipped),
			strconv.Itoa(s.Participants),
			s.Duration.Round(time.Millisecond).String(),
			s.Error,
		})
	}
	return rows
}
