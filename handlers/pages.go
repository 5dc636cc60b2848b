package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"urology-records/app"
	"urology-records/pkg/pdf"
	"urology-records/report"
)

// Health reports whether the record store has its full schema and which
// report converter is active
func Health(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		missing, err := a.Repo.DB().MissingTables(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to inspect database", err)
		}

		converter, convErr := pdf.Describe(a.Converter)

		status := "ok"
		if len(missing) > 0 || convErr != nil {
			status = "degraded"
		}

		body := fiber.Map{
			"status":         status,
			"missing_tables": missing,
			"converter":      converter,
		}
		if convErr != nil {
			body["converter_error"] = convErr.Error()
		}
		return c.JSON(body)
	}
}

// PreviewReport renders the report HTML for display without printing it
func PreviewReport(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := patientID(c)
		if !ok {
			return badRequest(c, "Invalid patient ID")
		}

		opts := a.ReportOptions()
		if name := c.Query("hospital_name"); name != "" {
			opts.HospitalName = name
		}
		if name := c.Query("unit_name"); name != "" {
			opts.UnitName = name
		}

		component, err := a.Renderer.Preview(c.UserContext(), id, opts)
		if errors.Is(err, report.ErrPatientNotFound) {
			return notFound(c, "Patient not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to render preview", err)
		}

		// Set HTML content type
		c.Set("Content-Type", "text/html; charset=utf-8")
		return component.Render(c.UserContext(), c.Response().BodyWriter())
	}
}
