package services

import (
	"context"

	"urology-records/models"
)

// PatientRepository defines the interface for patient record data access
type PatientRepository interface {
	SavePatientRecord(ctx context.Context, rec *models.PatientRecord) (int64, bool, error)
	GetPatientRecord(ctx context.Context, patientID int64) (*models.PatientRecord, error)
	DeletePatient(ctx context.Context, patientID int64) (bool, error)
	SearchPatients(ctx context.Context, term string) ([]models.PatientSummary, error)
	GetPrintHistory(ctx context.Context, patientID int64) ([]models.ReportHistoryEntry, error)
}

// DropdownRepository defines the interface for dropdown vocabulary data access
type DropdownRepository interface {
	AddDropdownOption(ctx context.Context, category, value string) (bool, error)
	GetDropdownOptions(ctx context.Context, category string) ([]string, error)
	GetDropdownOptionRows(ctx context.Context, category string) ([]models.DropdownOption, error)
	DeleteDropdownOption(ctx context.Context, category, value string) (bool, error)
	UpdateDropdownOrder(ctx context.Context, category string, ordered []string) (bool, error)
	ListDropdownCategories(ctx context.Context) ([]string, error)
	DeleteDropdownCategories(ctx context.Context, categories ...string) (int64, error)
	SeedDropdownOptions(ctx context.Context, defaults map[string][]string) (int, error)
}

// Validator checks struct tags. *validator.Validator satisfies it.
type Validator interface {
	Validate(i interface{}) error
}
