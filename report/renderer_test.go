package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"urology-records/database"
	"urology-records/models"
	"urology-records/pkg/pdf"
)

const testTemplate = `<h1>{{.HospitalName}}</h1><p>{{.Patient.Name}}|{{.AdmissionDate}}|{{.NextAppointment}}|{{.ReportDate}}</p>
{{range .Prescriptions}}<li>{{.DrugName}}</li>{{end}}{{range .Investigations}}<li>{{.Name}}={{.Value}}</li>{{end}}`

var fixedNow = time.Date(2024, 6, 2, 14, 5, 9, 0, time.Local)

type fakeStore struct {
	record     *models.PatientRecord
	loadErr    error
	historyErr error
	history    []string
}

func (s *fakeStore) GetPatientRecord(_ context.Context, _ int64) (*models.PatientRecord, error) {
	return s.record, s.loadErr
}

func (s *fakeStore) AddReportHistory(_ context.Context, _ int64, path string, _ time.Time) (int64, error) {
	if s.historyErr != nil {
		return 0, s.historyErr
	}
	s.history = append(s.history, path)
	return int64(len(s.history)), nil
}

type failingConverter struct{}

func (failingConverter) Ext() string { return "pdf" }

func (failingConverter) Convert(context.Context, []byte, string) error {
	return errors.New("converter exploded")
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeTemplate(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "report.html")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func newTestRenderer(t *testing.T, store Store, conv pdf.Converter) (*Renderer, string) {
	t.Helper()
	reportsDir := filepath.Join(t.TempDir(), "reports")
	r := NewRenderer(store, conv, writeTemplate(t, testTemplate), reportsDir, discardLogger())
	r.now = func() time.Time { return fixedNow }
	return r, reportsDir
}

func sampleRecord() *models.PatientRecord {
	return &models.PatientRecord{
		Patient: models.Patient{
			ID:              7,
			Name:            "Sunil <Test>",
			AdmissionDate:   "2024-05-30",
			NextAppointment: "2024-07-01T08:00:00",
		},
		Prescriptions:  []models.Prescription{{DrugName: "Tamsulosin"}},
		Investigations: []models.Investigation{{Name: "Hb", Value: "13"}},
	}
}

func TestRender(t *testing.T) {
	ctx := context.Background()

	t.Run("writes the file and records history", func(t *testing.T) {
		store := &fakeStore{record: sampleRecord()}
		r, reportsDir := newTestRenderer(t, store, pdf.HTMLFile{})

		res, err := r.Render(ctx, 7, Options{HospitalName: "General Hospital"})
		require.NoError(t, err)
		require.NoError(t, res.HistoryErr)

		assert.Equal(t, filepath.Join(reportsDir, "patient_7_20240602_140509.html"), res.Path)
		assert.Equal(t, []string{res.Path}, store.history)

		data, err := os.ReadFile(res.Path)
		require.NoError(t, err)
		html := string(data)
		assert.Contains(t, html, "<h1>General Hospital</h1>")
		assert.Contains(t, html, "Sunil &lt;Test&gt;|30/05/2024|01/07/2024 08:00|02/06/2024 14:05")
		assert.Contains(t, html, "<li>Tamsulosin</li>")
		assert.Contains(t, html, "<li>Hb=13</li>")
	})

	t.Run("explicit output path", func(t *testing.T) {
		store := &fakeStore{record: sampleRecord()}
		r, _ := newTestRenderer(t, store, pdf.HTMLFile{})

		out := filepath.Join(t.TempDir(), "nested", "custom.html")
		res, err := r.Render(ctx, 7, Options{OutputPath: out})
		require.NoError(t, err)
		assert.Equal(t, out, res.Path)
		assert.FileExists(t, out)
	})

	t.Run("missing patient", func(t *testing.T) {
		store := &fakeStore{}
		r, _ := newTestRenderer(t, store, pdf.HTMLFile{})

		_, err := r.Render(ctx, 99, Options{})
		assert.ErrorIs(t, err, ErrPatientNotFound)
		assert.Empty(t, store.history)
	})

	t.Run("load error propagates", func(t *testing.T) {
		store := &fakeStore{loadErr: database.ErrSchemaMissing}
		r, _ := newTestRenderer(t, store, pdf.HTMLFile{})

		_, err := r.Render(ctx, 7, Options{})
		assert.ErrorIs(t, err, database.ErrSchemaMissing)
	})

	t.Run("missing template names the path", func(t *testing.T) {
		store := &fakeStore{record: sampleRecord()}
		r, _ := newTestRenderer(t, store, pdf.HTMLFile{})
		r.templatePath = filepath.Join(t.TempDir(), "absent.html")

		_, err := r.Render(ctx, 7, Options{})
		require.ErrorIs(t, err, ErrTemplateNotFound)
		assert.Contains(t, err.Error(), "absent.html")
	})

	t.Run("conversion failure records no history", func(t *testing.T) {
		store := &fakeStore{record: sampleRecord()}
		r, _ := newTestRenderer(t, store, failingConverter{})

		_, err := r.Render(ctx, 7, Options{})
		require.Error(t, err)
		assert.Empty(t, store.history)
	})

	t.Run("history failure does not fail the render", func(t *testing.T) {
		store := &fakeStore{record: sampleRecord(), historyErr: errors.New("disk full")}
		r, _ := newTestRenderer(t, store, pdf.HTMLFile{})

		res, err := r.Render(ctx, 7, Options{})
		require.NoError(t, err)
		assert.FileExists(t, res.Path)
		assert.EqualError(t, res.HistoryErr, "disk full")
	})
}

func TestPreview(t *testing.T) {
	store := &fakeStore{record: sampleRecord()}
	r, reportsDir := newTestRenderer(t, store, pdf.HTMLFile{})

	component, err := r.Preview(context.Background(), 7, Options{UnitName: "Urology"})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, component.Render(context.Background(), &buf))
	assert.Contains(t, buf.String(), "Tamsulosin")

	assert.Empty(t, store.history)
	assert.NoDirExists(t, reportsDir)
}

func TestShippedTemplateRenders(t *testing.T) {
	store := &fakeStore{record: sampleRecord()}
	store.record.Operation = &models.Operation{Surgeon: "Dr A", SurgeryName: "TURP"}
	store.record.OpVariables = []models.OperationVariable{{Name: "Prostate", Value: "40g"}}
	age := 61
	store.record.Patient.Age = &age

	r := NewRenderer(store, pdf.HTMLFile{}, filepath.Join("..", "templates", "report.html"), t.TempDir(), discardLogger())
	r.now = func() time.Time { return fixedNow }

	res, err := r.Render(context.Background(), 7, Options{HospitalName: "Teaching Hospital", UnitName: "Urology Unit"})
	require.NoError(t, err)

	html := string(res.HTML)
	for _, want := range []string{"Teaching Hospital", "Urology Unit", "61", "TURP", "40g", "30/05/2024", "Printed 02/06/2024 14:05"} {
		assert.True(t, strings.Contains(html, want), want)
	}
}

func TestRenderEndToEnd(t *testing.T) {
	ctx := context.Background()

	db, err := database.New(filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.EnsureSchema(ctx))

	repo := database.NewRepository(db)
	id, ok, err := repo.SavePatientRecord(ctx, &models.PatientRecord{
		Patient:        models.Patient{Name: "End To End", AdmissionDate: "2024-01-02"},
		Prescriptions:  []models.Prescription{{DrugName: "Finasteride"}},
		Investigations: []models.Investigation{{Name: "PSA", Value: "2.0"}},
	})
	require.NoError(t, err)
	require.True(t, ok)

	r := NewRenderer(repo, pdf.HTMLFile{}, writeTemplate(t, testTemplate), filepath.Join(t.TempDir(), "reports"), discardLogger())

	res, err := r.Render(ctx, id, Options{})
	require.NoError(t, err)
	require.NoError(t, res.HistoryErr)

	history, err := repo.GetPrintHistory(ctx, id)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, res.Path, history[0].ReportPath)

	info, err := os.Stat(history[0].ReportPath)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
