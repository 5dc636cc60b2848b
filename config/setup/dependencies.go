package setup

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"urology-records/app"
	"urology-records/config"
	"urology-records/database"
	"urology-records/pkg/pdf"
	"urology-records/printqueue"
	"urology-records/report"
)

// InitDatabase opens the record store and brings its schema up to date
func InitDatabase(ctx context.Context, dbPath string, logger *slog.Logger) (*database.DB, error) {
	db, err := database.New(dbPath)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database initialized", "path", dbPath)
	return db, nil
}

// NewConverter picks the report converter for cfg.ReportFormat. For pdf it
// locates wkhtmltopdf; a missing executable is ErrConverterNotFound naming
// the locations searched.
func NewConverter(cfg *config.Config, logger *slog.Logger) (pdf.Converter, error) {
	switch cfg.ReportFormat {
	case "html":
		logger.Info("reports will be written as HTML")
		return pdf.HTMLFile{}, nil
	case "", "pdf":
	default:
		return nil, fmt.Errorf("unknown report format %q (want pdf or html)", cfg.ReportFormat)
	}

	path, err := pdf.Locate(cfg.WKHTMLToPDFPath, cfg.BundleDir)
	if err != nil {
		return nil, err
	}

	logger.Info("pdf converter found", "path", path)
	return pdf.NewWKHTMLToPDF(path), nil
}

// NewServeConverter is NewConverter for the long-running service. A missing
// wkhtmltopdf does not stop the records service; printing fails instead.
func NewServeConverter(cfg *config.Config, logger *slog.Logger) (pdf.Converter, error) {
	converter, err := NewConverter(cfg, logger)
	if errors.Is(err, pdf.ErrConverterNotFound) {
		logger.Error("pdf converter not found, report printing is unavailable", "error", err)
		return pdf.Unavailable{Err: err}, nil
	}
	return converter, err
}

// NewRenderer builds the report renderer over repo
func NewRenderer(cfg *config.Config, repo *database.Repository, converter pdf.Converter, logger *slog.Logger) *report.Renderer {
	return report.NewRenderer(repo, converter, cfg.TemplatePath, cfg.ReportsDir, logger)
}

// InitApp initializes the application with all dependencies. The print
// queue is started; the caller stops it on shutdown.
func InitApp(cfg *config.Config, db *database.DB, converter pdf.Converter, logger *slog.Logger) *app.App {
	repo := database.NewRepository(db)
	renderer := NewRenderer(cfg, repo, converter, logger)

	queue := printqueue.New(renderer, 32, 200, logger)
	queue.Start()
	logger.Info("print queue started")

	application := app.New(cfg, repo, renderer, converter, queue, logger)
	logger.Info("application initialized with dependency injection")

	return application
}
