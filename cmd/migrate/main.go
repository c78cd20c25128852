// Command migrate applies the embedded schema migrations to the mandate database.
package main

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/spf13/cobra"

	_ "github.com/golang-migrate/migrate/v4/database/postgres"

	"github.com/JaimeStill/mandate/internal/config"
)

//go:embed migrations/*.sql
var migrations embed.FS

const envDSN = "MANDATE_DB_DSN"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		slog.Error("migrate failed", "error", err)
		os.Exit(1)
	}
}

type migrator struct {
	dsn     string
	verbose bool
	logger  *slog.Logger
}

// open resolves the DSN from --dsn, then MANDATE_DB_DSN, then the service
// configuration, and binds the embedded migrations to it.
func (mg *migrator) open(ctx context.Context) (*migrate.Migrate, error) {
	dsn := mg.dsn
	if dsn == "" {
		dsn = os.Getenv(envDSN)
	}
	if dsn == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("no --dsn or %s and config load failed: %w", envDSN, err)
		}
		dsn = cfg.Database.URL()
	}

	source, err := iofs.New(migrations, "migrations")
	if err != nil {
		return nil, fmt.Errorf("migration source: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dsn)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	m.Log = &migrateLogger{logger: mg.logger, verbose: mg.verbose}

	go func() {
		<-ctx.Done()
		select {
		case m.GracefulStop <- true:
		default:
		}
	}()

	return m, nil
}

// run opens a migrator, applies fn, and reports the resulting version.
func (mg *migrator) run(cmd *cobra.Command, fn func(*migrate.Migrate) error) error {
	m, err := mg.open(cmd.Context())
	if err != nil {
		return err
	}
	defer m.Close()

	if err := fn(m); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			mg.logger.Info("schema already current")
			return nil
		}
		return err
	}

	return printVersion(cmd, m)
}

func newRootCmd() *cobra.Command {
	mg := &migrator{}

	root := &cobra.Command{
		Use:           "migrate",
		Short:         "Manage the mandate database schema",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			mg.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), nil))
		},
	}

	root.PersistentFlags().StringVar(&mg.dsn, "dsn", "", "postgres:// connection URL (defaults to "+envDSN+" or the service config)")
	root.PersistentFlags().BoolVarP(&mg.verbose, "verbose", "v", false, "Log each applied migration")

	root.AddCommand(
		&cobra.Command{
			Use:   "up [N]",
			Short: "Apply all pending migrations, or the next N",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return mg.run(cmd, func(m *migrate.Migrate) error {
					if len(args) == 0 {
						return m.Up()
					}
					n, err := positive(args[0])
					if err != nil {
						return err
					}
					return m.Steps(n)
				})
			},
		},
		&cobra.Command{
			Use:   "down N",
			Short: "Revert the last N migrations",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := positive(args[0])
				if err != nil {
					return err
				}
				return mg.run(cmd, func(m *migrate.Migrate) error {
					return m.Steps(-n)
				})
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return mg.run(cmd, func(*migrate.Migrate) error { return nil })
			},
		},
		&cobra.Command{
			Use:   "force VERSION",
			Short: "Set the schema version without running migrations, clearing the dirty flag",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				v, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("version %q: %w", args[0], err)
				}
				return mg.run(cmd, func(m *migrate.Migrate) error {
					return m.Force(v)
				})
			},
		},
	)

	return root
}

func printVersion(cmd *cobra.Command, m *migrate.Migrate) error {
	v, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		fmt.Fprintln(cmd.OutOrStdout(), "version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("read version: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "version: %d dirty: %t\n", v, dirty)
	return nil
}

func positive(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("step count must be a positive integer: %q", arg)
	}
	return n, nil
}

// migrateLogger adapts slog to migrate.Logger.
type migrateLogger struct {
	logger  *slog.Logger
	verbose bool
}

func (l *migrateLogger) Printf(format string, v ...any) {
	l.logger.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l *migrateLogger) Verbose() bool {
	return l.verbose
}
