package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dtroode/bookshop-server/database"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	_ = godotenv.Load()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var dsn string

	root := &cobra.Command{
		Use:          "migrate",
		Short:        "Manage the bookshop database schema",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if dsn == "" {
				dsn = os.Getenv("DATABASE_DSN")
			}
			if dsn == "" {
				return fmt.Errorf("database dsn is required: pass --dsn or set DATABASE_DSN")
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dsn, "dsn", "", "postgres connection string (default $DATABASE_DSN)")

	root.AddCommand(
		newUpCmd(&dsn),
		newDownCmd(&dsn),
		newStatusCmd(&dsn),
	)
	return root
}

func withMigrator(dsn string, fn func(*database.Migrator) error) error {
	m, err := database.NewMigrator(dsn)
	if err != nil {
		return err
	}
	defer m.Close()

	return fn(m)
}

func newUpCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(*dsn, func(m *database.Migrator) error {
				results, err := m.Up(cmd.Context())
				for _, r := range results {
					cmd.Printf("applied %s (%s)\n", r.Source.Path, r.Duration)
				}
				if err != nil {
					return err
				}
				if len(results) == 0 {
					cmd.Println("no pending migrations")
				}
				return nil
			})
		},
	}
}

func newDownCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(*dsn, func(m *database.Migrator) error {
				result, err := m.Down(cmd.Context())
				if err != nil {
					return err
				}
				cmd.Printf("rolled back %s (%s)\n", result.Source.Path, result.Duration)
				return nil
			})
		},
	}
}

func newStatusCmd(dsn *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(*dsn, func(m *database.Migrator) error {
				statuses, err := m.Status(cmd.Context())
				if err != nil {
					return err
				}

				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
				fmt.Fprintln(w, "VERSION\tSTATE\tAPPLIED AT\tSOURCE")
				for _, s := range statuses {
					applied := "-"
					if !s.AppliedAt.IsZero() {
						applied = s.AppliedAt.Format("2006-01-02 15:04:05")
					}
					fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", s.Source.Version, s.State, applied, s.Source.Path)
				}
				return w.Flush()
			})
		},
	}
}
