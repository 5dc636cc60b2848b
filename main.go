package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"urology-records/config"
)

type cli struct {
	cfg    *config.Config
	logger *slog.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	rootCmd := &cobra.Command{
		Use:          "urology-records",
		Short:        "Urology ward patient records and discharge summaries",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.cfg = config.Load()
			applyFlagOverrides(cmd, c.cfg)

			c.logger = setupLogger(c.cfg)
			slog.SetDefault(c.logger)
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.String("db", "", "database file (overrides DB_PATH)")
	flags.String("template", "", "report template (overrides TEMPLATE_PATH)")
	flags.String("reports-dir", "", "report output directory (overrides REPORTS_DIR)")
	flags.String("wkhtmltopdf", "", "wkhtmltopdf executable (overrides WKHTMLTOPDF_PATH)")

	rootCmd.AddCommand(
		c.serveCmd(),
		c.repairCmd(),
		c.checkCmd(),
		c.reportCmd(),
		c.seedDropdownsCmd(),
	)

	return rootCmd
}

func applyFlagOverrides(cmd *cobra.Command, cfg *config.Config) {
	overrides := map[string]*string{
		"db":          &cfg.DBPath,
		"template":    &cfg.TemplatePath,
		"reports-dir": &cfg.ReportsDir,
		"wkhtmltopdf": &cfg.WKHTMLToPDFPath,
	}

	flags := cmd.Flags()
	for name, target := range overrides {
		if flags.Changed(name) {
			*target, _ = flags.GetString(name)
		}
	}
}

func setupLogger(cfg *config.Config) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level:     getLogLevel(cfg.LogLevel),
		AddSource: cfg.Env == "development",
	}

	if cfg.IsProduction() {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

func getLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
