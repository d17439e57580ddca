package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"doctor-appointment-api/cmd/bootstrap"
	"doctor-appointment-api/internal/infrastructure/database"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "doctor-appointment-api",
		Short:        "Doctor appointment booking API",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(migrateCmd())
	rootCmd.AddCommand(seedCmd())
	rootCmd.AddCommand(expireSubscriptionsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap.New(cmd.Context(), bootstrap.Options{WithRedis: true})
			if err != nil {
				return err
			}
			return app.Run()
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			migrator, err := newMigrator()
			if err != nil {
				return err
			}
			defer migrator.Close()
			return migrator.Up()
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations, one step by default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			steps := 1
			if len(args) == 1 {
				n, err := strconv.Atoi(args[0])
				if err != nil {
					return fmt.Errorf("invalid steps %q: %w", args[0], err)
				}
				steps = n
			}

			migrator, err := newMigrator()
			if err != nil {
				return err
			}
			defer migrator.Close()
			return migrator.Down(steps)
		},
	})

	return cmd
}

func newMigrator() (*database.Migrator, error) {
	cfg, log, err := bootstrap.LoadConfig()
	if err != nil {
		return nil, err
	}
	return database.NewMigrator(cfg.DB, log)
}

func seedCmd() *cobra.Command {
	var (
		adminEmail    string
		adminPassword string
		demo          bool
		demoCount     int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Seed roles, permissions, specializations and payment info",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := bootstrap.New(ctx, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()

			s := app.Seeder()
			if err := s.SeedReference(ctx); err != nil {
				return err
			}

			if adminEmail == "" {
				if demo {
					return errors.New("--demo requires --admin-email")
				}
				return nil
			}

			adminID, err := s.SeedAdmin(ctx, adminEmail, adminPassword)
			if err != nil {
				return err
			}
			if demo {
				return s.SeedDemoDoctors(ctx, adminID, demoCount)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&adminEmail, "admin-email", "", "Create an admin account with this email if missing")
	cmd.Flags().StringVar(&adminPassword, "admin-password", "", "Password for a newly created admin account")
	cmd.Flags().BoolVar(&demo, "demo", false, "Also create fake doctors with weekday availability")
	cmd.Flags().IntVar(&demoCount, "demo-count", 10, "Number of demo doctors")

	return cmd
}

func expireSubscriptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expire-subscriptions",
		Short: "Mark active subscriptions past their end date as expired",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			app, err := bootstrap.New(ctx, bootstrap.Options{})
			if err != nil {
				return err
			}
			defer app.Close()

			expired, err := app.Usecases.Subscription.ExpireSubscriptions(ctx)
			if err != nil {
				return err
			}
			app.Log.WithField("expired", expired).Info("Expired subscriptions")
			return nil
		},
	}
}
