package main

import (
	"fmt"
	"strconv"

	"github.com/okian/roster/internal/domain/model"
	"github.com/spf13/cobra"
)

func newFiltersCommand(ctx *commandContext) *cobra.Command {
	var (
		sources  sourceFlags
		viewFlag string
		asJSON   bool
	)

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Show the sports and weight classes present in a view",
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

			facets := svc.Facets(cmd.Context(), view)
			if asJSON {
				return writeJSON(cmd, facets)
			}

			sportRows := make([][]string, 0, len(facets.Sports))
			for _, s := range facets.Sports {
				sportRows = append(sportRows, []string{s})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Sport"}, sportRows, nil))

			weightRows := make([][]string, 0, len(facets.WeightClasses))
			for _, wc := range facets.WeightClasses {
				weightRows = append(weightRows, []string{wc.Key, wc.Label, strconv.Itoa(wc.Count)})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable(
				[]string{"Key", "Weight Class", "Count"},
				weightRows,
				[]columnAlignment{alignLeft, alignLeft, alignRight},
			))
			return nil
		},
	}

	addSourceFlags(cmd, &sources)
	cmd.Flags().StringVar(&viewFlag, "view", string(model.ViewCurrent), "View: current or alumni")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}
