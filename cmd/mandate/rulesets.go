package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newRulesetsCmd(opts *options) *cobra.Command {
	var project string

	cmd := &cobra.Command{
		Use:   "rulesets",
		Short: "List the ruleset versions of a project, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rulesets, err := opts.client().ListRulesets(cmd.Context(), project)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "VERSION\tNAME\tCREATED\tDOCUMENT")
			for _, rs := range rulesets {
				doc := "-"
				if rs.DocumentID != nil {
					doc = *rs.DocumentID
				}
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", rs.Version, rs.VersionName, rs.CreatedAt.Format(time.RFC3339), doc)
			}
			return w.Flush()
		},
	}

	cmd.Flags().StringVar(&project, "project", "", "Project ID")
	cmd.MarkFlagRequired("project")
	return cmd
}
