package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/a-h/templ"

	"urology-records/models"
	"urology-records/pkg/pdf"
)

// Store is the part of the repository the renderer reads from and appends
// history to.
type Store interface {
	GetPatientRecord(ctx context.Context, patientID int64) (*models.PatientRecord, error)
	AddReportHistory(ctx context.Context, patientID int64, path string, printedAt time.Time) (int64, error)
}

type Options struct {
	// OutputPath overrides the generated file name under the reports dir.
	OutputPath   string
	HospitalName string
	UnitName     string
}

type Result struct {
	Path string
	HTML []byte
	// HistoryErr is set when the document was written but the history row
	// could not be stored.
	HistoryErr error
}

// Data is what the report template executes against.
type Data struct {
	Patient         models.Patient
	Operation       *models.Operation
	Prescriptions   []models.Prescription
	Investigations  []models.Investigation
	OpVariables     []models.OperationVariable
	AdmissionDate   string
	DischargeDate   string
	NextAppointment string
	ReportDate      string
	HospitalName    string
	UnitName        string
}

type Renderer struct {
	store        Store
	converter    pdf.Converter
	templatePath string
	reportsDir   string
	logger       *slog.Logger
	now          func() time.Time
}

func NewRenderer(store Store, converter pdf.Converter, templatePath, reportsDir string, logger *slog.Logger) *Renderer {
	return &Renderer{
		store:        store,
		converter:    converter,
		templatePath: templatePath,
		reportsDir:   reportsDir,
		logger:       logger,
		now:          time.Now,
	}
}

// Render writes the patient's report through the converter and records it
// in the print history. The history row is only written once the document
// exists.
func (r *Renderer) Render(ctx context.Context, patientID int64, opts Options) (*Result, error) {
	now := r.now()

	html, err := r.renderHTML(ctx, patientID, opts, now)
	if err != nil {
		return nil, err
	}

	outputPath := opts.OutputPath
	if outputPath == "" {
		name := fmt.Sprintf("patient_%d_%s.%s", patientID, now.Format(fileStamp), r.converter.Ext())
		outputPath = filepath.Join(r.reportsDir, name)
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create reports directory: %w", err)
	}

	if err := r.converter.Convert(ctx, html, outputPath); err != nil {
		return nil, err
	}

	result := &Result{Path: outputPath, HTML: html}

	if _, err := r.store.AddReportHistory(ctx, patientID, outputPath, now); err != nil {
		r.logger.Warn("report written but history not recorded",
			"patient_id", patientID,
			"path", outputPath,
			"error", err)
		result.HistoryErr = err
	}

	r.logger.Info("report generated", "patient_id", patientID, "path", outputPath)
	return result, nil
}

// Preview renders the report HTML without writing a file or touching the
// print history.
func (r *Renderer) Preview(ctx context.Context, patientID int64, opts Options) (templ.Component, error) {
	html, err := r.renderHTML(ctx, patientID, opts, r.now())
	if err != nil {
		return nil, err
	}

	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := w.Write(html)
		return err
	}), nil
}

func (r *Renderer) renderHTML(ctx context.Context, patientID int64, opts Options, now time.Time) ([]byte, error) {
	rec, err := r.store.GetPatientRecord(ctx, patientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load patient %d: %w", patientID, err)
	}
	if rec == nil {
		return nil, fmt.Errorf("patient %d: %w", patientID, ErrPatientNotFound)
	}

	tmpl, err := r.loadTemplate()
	if err != nil {
		return nil, err
	}

	data := Data{
		Patient:         rec.Patient,
		Operation:       rec.Operation,
		Prescriptions:   rec.Prescriptions,
		Investigations:  rec.Investigations,
		OpVariables:     rec.OpVariables,
		AdmissionDate:   FormatDate(rec.Patient.AdmissionDate),
		DischargeDate:   FormatDate(rec.Patient.DischargeDate),
		NextAppointment: FormatDateTime(rec.Patient.NextAppointment),
		ReportDate:      now.Format(displayDateTime),
		HospitalName:    opts.HospitalName,
		UnitName:        opts.UnitName,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render report template: %w", err)
	}
	return buf.Bytes(), nil
}

// The template is read on every render so edits apply without a restart.
func (r *Renderer) loadTemplate() (*template.Template, error) {
	src, err := os.ReadFile(r.templatePath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, r.templatePath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read report template: %w", err)
	}

	tmpl, err := template.New(filepath.Base(r.templatePath)).
		Funcs(template.FuncMap{
			"formatDate":     FormatDate,
			"formatDateTime": FormatDateTime,
		}).
		Parse(string(src))
	if err != nil {
		return nil, fmt.Errorf("failed to parse report template %s: %w", r.templatePath, err)
	}
	return tmpl, nil
}
