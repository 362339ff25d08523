package main

import (
	"fmt"

	"github.com/okian/roster/internal/domain/model"
	"github.com/spf13/cobra"
)

func newQueryCommand(ctx *commandContext) *cobra.Command {
	var (
		sources  sourceFlags
		viewFlag string
		criteria model.Criteria
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "query",
		Short: "List participants of a view matching the given filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			view, ok := model.ParseView(viewFlag)
			if !ok {
				return fmt.Errorf("unknown view %q (want current or alumni)", viewFlag)
			}
			svc, _, err := ctx.loadRoster(cmd.Context(), sources)
			if err != nil {
				return err
			}

			results := svc.Query(cmd.Context(), view, criteria)
			if asJSON {
				return writeJSON(cmd, results)
			}
			if len(results) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No participants match")
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "Name", "Sport", "Weight", "Record", "Country"},
				buildParticipantRows(results),
				nil,
			))
			fmt.Fprintf(cmd.OutOrStdout(), "%d participant(s)\n", len(results))
			return nil
		},
	}

	addSourceFlags(cmd, &sources)
	cmd.Flags().StringVar(&viewFlag, "view", string(model.ViewCurrent), "View to query: current or alumni")
	cmd.Flags().StringVarP(&criteria.Search, "search", "s", "", "Case-insensitive text search")
	cmd.Flags().StringVar(&criteria.Sport, "sport", model.All, "Sport filter")
	cmd.Flags().StringVar(&criteria.WeightKey, "weight", model.All, "Weight class filter (label or key)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func buildParticipantRows(ps []model.Participant) [][]string {
	rows := make([][]string, 0, len(ps))
	for _, p := range ps {
		rows = append(rows, []string{p.ID, p.Name, p.Sport, p.WeightLabel, p.RecordSummary, p.Country})
	}
	return rows
}
