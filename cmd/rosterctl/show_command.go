package main

import (
	"fmt"

	app "github.com/okian/roster/internal/app"
	"github.com/okian/roster/internal/domain/embed"
	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var (
		sources sourceFlags
		asJSON  bool
	)

	cmd := &cobra.Command{
		Use:   "show <id>",
		Short: "Show one participant with resolved video references",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, _, err := ctx.loadRoster(cmd.Context(), sources)
			if err != nil {
				return err
			}
			detail, err := svc.Detail(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			if asJSON {
				return writeJSON(cmd, detail)
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Field", "Value"}, buildDetailRows(detail), nil))
			return nil
		},
	}

	addSourceFlags(cmd, &sources)
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}

func buildDetailRows(d app.Detail) [][]string {
	p := d.Participant
	rows := [][]string{
		{"ID", p.ID},
		{"Name", p.Name},
		{"Status", string(p.Status)},
		{"Sport", p.Sport},
		{"Weight", p.WeightLabel},
		{"Record", p.RecordSummary},
		{"Country", p.Country},
		{"Age", p.Age},
		{"Instagram", d.InstagramURL},
		{"Following", p.SocialFollowing},
		{"Profile", p.ExternalProfileURL},
		{"Tagline", p.Tagline},
		{"Bio", p.Bio},
		{"Featured", describeEmbed(d.Featured)},
	}
	for i, r := range d.Replays {
		rows = append(rows, []string{fmt.Sprintf("Replay %d", i+1), describeEmbed(r)})
	}
	for i, b := range d.Bouts {
		rows = append(rows, []string{fmt.Sprintf("Bout %d", i+1), describeEmbed(b)})
	}
	return rows
}

// describeEmbed renders a descriptor on one line for terminal output.
func describeEmbed(d embed.Descriptor) string {
	switch d.Kind {
	case embed.KindEmpty:
		return "-"
	case embed.KindLink:
		return d.URL
	default:
		if d.Provider != "" {
			return fmt.Sprintf("%s %s (%s)", d.Provider, d.VideoID, d.URL)
		}
		return "iframe " + d.Markup
	}
}
