package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/JaimeStill/mandate/pkg/client"
	"github.com/JaimeStill/mandate/pkg/reconcile"
)

const maxConcurrentFetches = 4

type compareOptions struct {
	project  string
	customer string
	versions string
	sort     string
	fetcher  client.FetcherConfig
	query    reconcile.Query
	jsonOut  bool
}

func newCompareCmd(opts *options) *cobra.Command {
	var c compareOptions

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare ruleset versions and render the reconciled table",
		Long: `Fetch the selected ruleset versions of a project, submit them as a
comparison job, wait for the result and print one block per constraint.

The last version listed is pinned as the latest. When --versions is omitted
every stored version of the project is compared, oldest first.

Examples:
  mandate compare --project 6f1c... --customer acme --versions 1,2,3
  mandate compare --project 6f1c... --customer acme --changed-only --sort most-changed`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			mode, err := reconcile.ParseSortMode(c.sort)
			if err != nil {
				return err
			}
			c.query.Sort = mode
			return runCompare(cmd, opts, c)
		},
	}

	f := cmd.Flags()
	f.StringVar(&c.project, "project", "", "Project ID")
	f.StringVar(&c.customer, "customer", "", "Customer ID")
	f.StringVar(&c.versions, "versions", "", "Comma-separated version numbers, oldest first")
	f.StringVar(&c.sort, "sort", string(reconcile.SortAlpha), "Row order: alpha, most-changed or latest-change")
	f.BoolVar(&c.query.ChangedOnly, "changed-only", false, "Only show constraints that changed")
	f.BoolVar(&c.query.HideUnchanged, "hide-unchanged", false, "Hide unchanged lines")
	f.BoolVar(&c.query.HideAdded, "hide-added", false, "Hide added lines")
	f.BoolVar(&c.query.HideRemoved, "hide-removed", false, "Hide removed lines")
	f.UintVar(&c.fetcher.MaxAttempts, "max-attempts", 0, "Maximum job polls before giving up")
	f.DurationVar(&c.fetcher.MaxDelay, "max-delay", 0, "Upper bound on the delay between polls")
	f.BoolVar(&c.jsonOut, "json", false, "Print the view as JSON")
	cmd.MarkFlagRequired("project")
	cmd.MarkFlagRequired("customer")

	return cmd
}

func runCompare(cmd *cobra.Command, opts *options, c compareOptions) error {
	ctx := cmd.Context()
	api := opts.client()

	numbers, err := parseVersions(c.versions)
	if err != nil {
		return err
	}

	rulesets, err := fetchRulesets(cmd, api, c.project, numbers)
	if err != nil {
		return err
	}

	req := client.SubmitRequest{
		ProjectID:  c.project,
		CustomerID: c.customer,
		Versions:   make([]client.VersionPayload, len(rulesets)),
	}
	for i, rs := range rulesets {
		req.Versions[i] = rs.Payload()
	}

	fetcher := client.NewFetcher(api, c.fetcher, opts.logger(cmd.ErrOrStderr()))
	result, err := fetcher.Fetch(ctx, req)
	if err != nil {
		return err
	}

	view := reconcile.Reconcile(result.Versions, result.Comparisons).View(c.query)

	if c.jsonOut {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(view)
	}
	return reconcile.Render(cmd.OutOrStdout(), view, reconcile.RenderOptions{NoColor: opts.noColor})
}

// fetchRulesets loads the requested versions in parallel, preserving the
// requested order. With no numbers it returns every stored version.
func fetchRulesets(cmd *cobra.Command, api *client.Client, project string, numbers []int) ([]client.Ruleset, error) {
	ctx := cmd.Context()

	if len(numbers) == 0 {
		return api.ListRulesets(ctx, project)
	}

	rulesets := make([]client.Ruleset, len(numbers))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)

	for i, n := range numbers {
		g.Go(func() error {
			rs, err := api.FindRuleset(ctx, project, n)
			if err != nil {
				return fmt.Errorf("fetch version %d: %w", n, err)
			}
			rulesets[i] = *rs
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rulesets, nil
}

// parseVersions reads a comma-separated list of positive version numbers.
// The order is kept as given and duplicates are rejected.
func parseVersions(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	numbers := make([]int, 0, len(parts))
	seen := make(map[int]bool, len(parts))

	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid version %q", p)
		}
		if seen[n] {
			return nil, fmt.Errorf("version %d listed twice", n)
		}
		seen[n] = true
		numbers = append(numbers, n)
	}
	return numbers, nil
}
