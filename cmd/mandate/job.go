package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newJobCmd(opts *options) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "job <id>",
		Short: "Show the status of a comparison job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			job, err := opts.client().FindComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(job)
			}

			fmt.Fprintf(out, "job:      %s\n", job.JobID)
			fmt.Fprintf(out, "project:  %s\n", job.ProjectID)
			fmt.Fprintf(out, "customer: %s\n", job.CustomerID)
			fmt.Fprintf(out, "status:   %s\n", job.Status)
			fmt.Fprintf(out, "created:  %s\n", job.CreatedAt.Format(time.RFC3339))
			fmt.Fprintf(out, "updated:  %s\n", job.UpdatedAt.Format(time.RFC3339))
			if job.Error != "" {
				fmt.Fprintf(out, "error:    %s\n", job.Error)
			}
			if job.Result != nil {
				fmt.Fprintf(out, "result:   %d comparisons across %d versions\n",
					len(job.Result.Comparisons), len(job.Result.Versions))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Print the job as JSON")
	return cmd
}
