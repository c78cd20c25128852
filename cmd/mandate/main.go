// Command mandate is a terminal client for the mandate service. It lists
// ruleset versions, runs comparisons and renders the reconciled table.
package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/mandate/pkg/client"
)

const (
	envURL   = "MANDATE_URL"
	envToken = "MANDATE_TOKEN"
)

type options struct {
	baseURL string
	token   string
	timeout time.Duration
	noColor bool
	verbose bool
}

func (o *options) client() *client.Client {
	return client.New(client.Config{
		BaseURL: o.baseURL,
		Token:   o.token,
		Timeout: o.timeout,
	})
}

func (o *options) logger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "mandate",
		Short:         "Compare investment guideline ruleset versions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.baseURL, "url", envOr(envURL, "http://localhost:8080/api"), "API base URL including the /api prefix")
	flags.StringVar(&opts.token, "token", os.Getenv(envToken), "Bearer token for authenticated deployments")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "Per-request timeout")
	flags.BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Log polling progress to stderr")

	root.AddCommand(
		newCompareCmd(opts),
		newJobCmd(opts),
		newRulesetsCmd(opts),
	)

	return root
}

func envOr(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.New(slog.NewTextHandler(os.Stderr, nil)).Error("command failed", "error", err)
		stop()
		os.Exit(1)
	}
}
