package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"

	"urology-records/app"
	"urology-records/config"
	"urology-records/config/setup"
	"urology-records/database"
	"urology-records/pkg/pdf"
)

const testTemplate = `<html><body><h1>{{.HospitalName}}</h1><p>{{.Patient.Name}}</p>` +
	`{{range .Prescriptions}}<li>{{.DrugName}}</li>{{end}}</body></html>`

// setupTestDB creates a temporary test database and returns app with all dependencies
func setupTestDB(t *testing.T) (*app.App, func()) {
	t.Helper()
	return setupTestDBWithConverter(t, pdf.HTMLFile{})
}

func setupTestDBWithConverter(t *testing.T, converter pdf.Converter) (*app.App, func()) {
	t.Helper()

	tmpDir := t.TempDir()
	templatePath := filepath.Join(tmpDir, "report.html")
	require.NoError(t, os.WriteFile(templatePath, []byte(testTemplate), 0644))

	cfg := &config.Config{
		Env:          "test",
		DBPath:       filepath.Join(tmpDir, "test.db"),
		ReportsDir:   filepath.Join(tmpDir, "reports"),
		TemplatePath: templatePath,
		HospitalName: "Test Hospital",
		UnitName:     "Urology",
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := setup.InitDatabase(context.Background(), cfg.DBPath, logger)
	require.NoError(t, err, "Failed to initialize test database")

	application := setup.InitApp(cfg, db, converter, logger)

	cleanup := func() {
		application.PrintQueue.Stop()
		db.Close()
	}

	return application, cleanup
}

// setupTestApp creates a test Fiber app with every route registered
func setupTestApp(application *app.App) *fiber.App {
	fiberApp := fiber.New(fiber.Config{
		ErrorHandler: setup.CustomErrorHandler(application.Logger),
	})
	setup.RegisterRoutes(fiberApp, application)
	return fiberApp
}

func doJSON(t *testing.T, fiberApp *fiber.App, method, path string, body interface{}) (*http.Response, map[string]interface{}) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := fiberApp.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]interface{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && json.Valid(raw) {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func repoOf(application *app.App) *database.Repository {
	return application.Repo
}
