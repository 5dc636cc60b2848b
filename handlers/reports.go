package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"urology-records/app"
	"urology-records/middleware"
	"urology-records/models"
	"urology-records/pkg/pdf"
	"urology-records/printqueue"
	"urology-records/report"
	"urology-records/services"
)

// historyItem is a print history row with its timestamp ready for display.
type historyItem struct {
	models.ReportHistoryEntry
	PrintedDisplay string `json:"printed_display"`
}

type reportRequest struct {
	HospitalName string `json:"hospital_name"`
	UnitName     string `json:"unit_name"`
}

// QueueReport submits a report render for the patient to the print queue
func QueueReport(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := patientID(c)
		if !ok {
			return badRequest(c, "Invalid patient ID")
		}

		opts := a.ReportOptions()
		if len(c.Body()) > 0 {
			var req reportRequest
			if err := c.BodyParser(&req); err != nil {
				return badRequest(c, "Invalid request body")
			}
			if req.HospitalName != "" {
				opts.HospitalName = req.HospitalName
			}
			if req.UnitName != "" {
				opts.UnitName = req.UnitName
			}
		}

		if _, err := a.Patients.Get(c.UserContext(), id); err != nil {
			if errors.Is(err, services.ErrPatientNotFound) {
				return notFound(c, "Patient not found")
			}
			return serverErrorWithDetails(c, "Failed to fetch patient", err)
		}

		if _, err := pdf.Describe(a.Converter); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":  "Report converter unavailable",
				"detail": err.Error(),
			})
		}

		jobID, err := a.PrintQueue.Submit(id, opts)
		if errors.Is(err, printqueue.ErrQueueFull) {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"error": "Print queue is full"})
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to queue report", err)
		}

		c.Locals(middleware.JobIDKey, jobID)
		return accepted(c, fiber.Map{"job_id": jobID})
	}
}

// GetReportJob reports the status of a queued render
func GetReportJob(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		job, ok := a.PrintQueue.Status(c.Params("id"))
		if !ok {
			return notFound(c, "Job not found")
		}

		return success(c, fiber.Map{"job": job})
	}
}

// GetPrintHistory lists the reports printed for a patient, newest first
func GetPrintHistory(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := patientID(c)
		if !ok {
			return badRequest(c, "Invalid patient ID")
		}

		history, err := a.Patients.History(c.UserContext(), id)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch print history", err)
		}

		items := make([]historyItem, len(history))
		for i, e := range history {
			items[i] = historyItem{ReportHistoryEntry: e, PrintedDisplay: report.FormatPrintedAt(e)}
		}

		return success(c, fiber.Map{"history": items})
	}
}
