package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"urology-records/app"
	"urology-records/models"
	"urology-records/services"
	"urology-records/validator"
)

// SearchPatients lists patients whose name or BHT number contains ?q=
func SearchPatients(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patients, err := a.Patients.Search(c.UserContext(), c.Query("q"))
		if err != nil {
			return serverErrorWithDetails(c, "Failed to search patients", err)
		}

		return success(c, fiber.Map{"patients": patients})
	}
}

// GetPatient returns the full record of one patient
func GetPatient(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := patientID(c)
		if !ok {
			return badRequest(c, "Invalid patient ID")
		}

		rec, err := a.Patients.Get(c.UserContext(), id)
		if errors.Is(err, services.ErrPatientNotFound) {
			return notFound(c, "Patient not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch patient", err)
		}

		return success(c, fiber.Map{"record": rec})
	}
}

// CreatePatient stores a new patient record
func CreatePatient(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var rec models.PatientRecord
		if err := c.BodyParser(&rec); err != nil {
			return badRequest(c, "Invalid request body")
		}

		saved, err := a.Patients.Create(c.UserContext(), &rec)
		if err != nil {
			return patientSaveError(c, err)
		}

		return created(c, fiber.Map{"record": saved})
	}
}

// UpdatePatient replaces the record of an existing patient
func UpdatePatient(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := patientID(c)
		if !ok {
			return badRequest(c, "Invalid patient ID")
		}

		var rec models.PatientRecord
		if err := c.BodyParser(&rec); err != nil {
			return badRequest(c, "Invalid request body")
		}

		saved, err := a.Patients.Update(c.UserContext(), id, &rec)
		if err != nil {
			return patientSaveError(c, err)
		}

		return success(c, fiber.Map{"record": saved})
	}
}

// DeletePatient removes a patient and their dependent records
func DeletePatient(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, ok := patientID(c)
		if !ok {
			return badRequest(c, "Invalid patient ID")
		}

		err := a.Patients.Delete(c.UserContext(), id)
		if errors.Is(err, services.ErrPatientNotFound) {
			return notFound(c, "Patient not found")
		}
		if err != nil {
			return serverErrorWithDetails(c, "Failed to delete patient", err)
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

func patientSaveError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return validationError(c, err)
	case errors.Is(err, services.ErrDuplicateBHT):
		return conflict(c, "BHT number already exists")
	case errors.Is(err, services.ErrPatientNotFound):
		return notFound(c, "Patient not found")
	default:
		return serverErrorWithDetails(c, "Failed to save patient record", err)
	}
}
