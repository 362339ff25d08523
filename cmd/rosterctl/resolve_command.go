package main

import (
	"fmt"
	"strings"

	"github.com/okian/roster/internal/domain/embed"
	"github.com/spf13/cobra"
)

func newResolveCommand() *cobra.Command {
	var (
		policyFlag string
		asJSON     bool
	)

	cmd := &cobra.Command{
		Use:         "resolve <reference>...",
		Short:       "Resolve video references the way the detail view renders them",
		Args:        cobra.MinimumNArgs(1),
		Annotations: map[string]string{"config": "skip"},
		RunE: func(cmd *cobra.Command, args []string) error {
			policy, ok := embed.ParsePolicy(policyFlag)
			if !ok {
				return fmt.Errorf("unknown policy %q (want trust or allowlist)", policyFlag)
			}
			r := embed.New(embed.WithPolicy(policy))

			out := make([]embed.Descriptor, 0, len(args))
			for _, a := range args {
				out = append(out, r.Resolve(a))
			}
			if asJSON {
				return writeJSON(cmd, out)
			}

			rows := make([][]string, 0, len(out))
			for i, d := range out {
				rows = append(rows, []string{strings.TrimSpace(args[i]), string(d.Kind), d.Provider, d.VideoID, d.URL})
			}
			fmt.Fprint(cmd.OutOrStdout(), renderTable([]string{"Reference", "Kind", "Provider", "Video", "URL"}, rows, nil))
			return nil
		},
	}

	cmd.Flags().StringVar(&policyFlag, "policy", string(embed.PolicyTrust), "Markup policy: trust passes sheet iframe markup through verbatim; use allowlist for sheets edited by untrusted people")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output JSON")

	return cmd
}
