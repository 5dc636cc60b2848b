package setup

import (
	"github.com/gofiber/fiber/v2"

	"urology-records/app"
	"urology-records/handlers"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(fiberApp *fiber.App, application *app.App) {
	fiberApp.Get("/health", handlers.Health(application))

	api := fiberApp.Group("/api")

	api.Get("/patients", handlers.SearchPatients(application))
	api.Post("/patients", handlers.CreatePatient(application))
	api.Get("/patients/:id", handlers.GetPatient(application))
	api.Put("/patients/:id", handlers.UpdatePatient(application))
	api.Delete("/patients/:id", handlers.DeletePatient(application))

	api.Get("/patients/:id/preview", handlers.PreviewReport(application))
	api.Get("/patients/:id/reports", handlers.GetPrintHistory(application))
	api.Post("/patients/:id/reports", handlers.QueueReport(application))
	api.Get("/reports/jobs/:id", handlers.GetReportJob(application))

	api.Get("/dropdowns", handlers.GetDropdownCategories(application))
	api.Get("/dropdowns/:category", handlers.GetDropdownOptions(application))
	api.Post("/dropdowns/:category", handlers.AddDropdownOption(application))
	api.Put("/dropdowns/:category/order", handlers.UpdateDropdownOrder(application))
	api.Delete("/dropdowns/:category/:value", handlers.DeleteDropdownOption(application))
}
