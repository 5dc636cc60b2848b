package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"urology-records/config/setup"
	"urology-records/database"
	"urology-records/pkg/pdf"
	"urology-records/report"
	"urology-records/services"
	"urology-records/validator"
)

func (c *cli) serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the local record service",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return c.runServer(ctx)
		},
	}
}

func (c *cli) runServer(ctx context.Context) error {
	db, err := setup.InitDatabase(ctx, c.cfg.DBPath, c.logger)
	if err != nil {
		return err
	}
	defer db.Close()

	converter, err := setup.NewServeConverter(c.cfg, c.logger)
	if err != nil {
		return err
	}

	application := setup.InitApp(c.cfg, db, converter, c.logger)
	defer application.PrintQueue.Stop()

	fiberApp := setup.NewFiberApp(c.cfg, c.logger)
	setup.ApplyMiddleware(fiberApp, c.cfg, c.logger)
	setup.RegisterRoutes(fiberApp, application)

	c.logger.Info("starting server", "addr", c.cfg.HTTPAddr, "env", c.cfg.Env)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- fiberApp.Listen(c.cfg.HTTPAddr)
	}()

	select {
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	c.logger.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := fiberApp.ShutdownWithContext(shutdownCtx); err != nil {
		c.logger.Error("server forced to shutdown", "error", err)
	}

	c.logger.Info("server stopped")
	return nil
}

func (c *cli) repairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair",
		Short: "Create missing tables and upgrade the database schema",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			db, err := database.New(c.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			before, err := db.MissingTables(ctx)
			if err != nil {
				return err
			}
			if err := db.EnsureSchema(ctx); err != nil {
				return fmt.Errorf("repair failed: %w", err)
			}

			out := cmd.OutOrStdout()
			for _, table := range before {
				fmt.Fprintf(out, "created %s\n", table)
			}
			fmt.Fprintf(out, "database %s is up to date\n", db.Path())
			return nil
		},
	}
}

func (c *cli) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Report which required tables exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := database.New(c.cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			missing, err := db.MissingTables(cmd.Context())
			if err != nil {
				return err
			}

			absent := make(map[string]bool, len(missing))
			for _, table := range missing {
				absent[table] = true
			}

			out := cmd.OutOrStdout()
			for _, table := range database.RequiredTables {
				status := "present"
				if absent[table] {
					status = "MISSING"
				}
				fmt.Fprintf(out, "%-18s %s\n", table, status)
			}

			if len(missing) > 0 {
				return fmt.Errorf("%d required tables missing, run repair", len(missing))
			}
			return nil
		},
	}
}

func (c *cli) reportCmd() *cobra.Command {
	var (
		outputPath string
		htmlOnly   bool
	)

	cmd := &cobra.Command{
		Use:   "report <patient-id>",
		Short: "Generate a discharge summary for one patient",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patientID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid patient id %q", args[0])
			}

			ctx := cmd.Context()
			db, err := setup.InitDatabase(ctx, c.cfg.DBPath, c.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			var converter pdf.Converter = pdf.HTMLFile{}
			if !htmlOnly {
				if converter, err = setup.NewConverter(c.cfg, c.logger); err != nil {
					return err
				}
			}

			renderer := setup.NewRenderer(c.cfg, database.NewRepository(db), converter, c.logger)
			res, err := renderer.Render(ctx, patientID, report.Options{
				OutputPath:   outputPath,
				HospitalName: c.cfg.HospitalName,
				UnitName:     c.cfg.UnitName,
			})
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), res.Path)
			if res.HistoryErr != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: report not added to print history: %v\n", res.HistoryErr)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&outputPath, "out", "o", "", "output file (default: reports dir, timestamped)")
	cmd.Flags().BoolVar(&htmlOnly, "html", false, "write HTML instead of PDF")

	return cmd
}

func (c *cli) seedDropdownsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed-dropdowns",
		Short: "Add the default dropdown values where missing",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			db, err := setup.InitDatabase(ctx, c.cfg.DBPath, c.logger)
			if err != nil {
				return err
			}
			defer db.Close()

			dropdowns := services.NewDropdownService(database.NewRepository(db), validator.New())
			added, err := dropdowns.SeedDefaults(ctx)
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "added %d dropdown values\n", added)
			return nil
		},
	}
}
