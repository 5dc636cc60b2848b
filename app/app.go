package app

import (
	"log/slog"

	"urology-records/config"
	"urology-records/database"
	"urology-records/pkg/pdf"
	"urology-records/printqueue"
	"urology-records/report"
	"urology-records/services"
	"urology-records/validator"
)

// App holds all application dependencies
// This struct is the central point for dependency injection
type App struct {
	Config     *config.Config
	Repo       *database.Repository
	Patients   *services.PatientService
	Dropdowns  *services.DropdownService
	Renderer   *report.Renderer
	Converter  pdf.Converter
	PrintQueue *printqueue.Queue
	Validator  *validator.Validator
	Logger     *slog.Logger
}

// New creates a new App instance with all dependencies
func New(cfg *config.Config, repo *database.Repository, renderer *report.Renderer, converter pdf.Converter, queue *printqueue.Queue, logger *slog.Logger) *App {
	v := validator.New()

	return &App{
		Config:     cfg,
		Repo:       repo,
		Patients:   services.NewPatientService(repo, v),
		Dropdowns:  services.NewDropdownService(repo, v),
		Renderer:   renderer,
		Converter:  converter,
		PrintQueue: queue,
		Validator:  v,
		Logger:     logger,
	}
}

// ReportOptions returns the render options configured for this installation.
func (a *App) ReportOptions() report.Options {
	return report.Options{
		HospitalName: a.Config.HospitalName,
		UnitName:     a.Config.UnitName,
	}
}
