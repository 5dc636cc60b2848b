package services

import (
	"context"
	"errors"
	"strings"

	"urology-records/database"
	"urology-records/models"
)

// PatientService handles business logic for patient records
type PatientService struct {
	repo      PatientRepository
	validator Validator
}

// NewPatientService creates a new patient service
func NewPatientService(repo PatientRepository, validator Validator) *PatientService {
	return &PatientService{
		repo:      repo,
		validator: validator,
	}
}

// Create stores a new patient record and returns it with ids assigned
func (ps *PatientService) Create(ctx context.Context, rec *models.PatientRecord) (*models.PatientRecord, error) {
	rec.Patient.ID = 0
	return ps.save(ctx, rec)
}

// Update replaces the record of patient id
func (ps *PatientService) Update(ctx context.Context, id int64, rec *models.PatientRecord) (*models.PatientRecord, error) {
	rec.Patient.ID = id
	return ps.save(ctx, rec)
}

func (ps *PatientService) save(ctx context.Context, rec *models.PatientRecord) (*models.PatientRecord, error) {
	normalizeRecord(rec)

	if err := ps.validator.Validate(rec); err != nil {
		return nil, err
	}

	_, ok, err := ps.repo.SavePatientRecord(ctx, rec)
	if errors.Is(err, database.ErrPatientNotFound) {
		return nil, ErrPatientNotFound
	}
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrDuplicateBHT
	}

	return rec, nil
}

// Get retrieves the full record of a patient
func (ps *PatientService) Get(ctx context.Context, id int64) (*models.PatientRecord, error) {
	rec, err := ps.repo.GetPatientRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrPatientNotFound
	}
	return rec, nil
}

// Delete removes a patient and their dependent records
func (ps *PatientService) Delete(ctx context.Context, id int64) error {
	deleted, err := ps.repo.DeletePatient(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPatientNotFound
	}
	return nil
}

// Search matches term against patient names and BHT numbers
func (ps *PatientService) Search(ctx context.Context, term string) ([]models.PatientSummary, error) {
	return ps.repo.SearchPatients(ctx, strings.TrimSpace(term))
}

// History lists the reports printed for a patient, newest first
func (ps *PatientService) History(ctx context.Context, id int64) ([]models.ReportHistoryEntry, error) {
	return ps.repo.GetPrintHistory(ctx, id)
}

// normalizeRecord trims text input and drops list rows left blank in the form.
func normalizeRecord(rec *models.PatientRecord) {
	p := &rec.Patient
	for _, s := range []*string{
		&p.Name, &p.Sex, &p.AdmissionDate, &p.DischargeDate, &p.BHTNo,
		&p.Indication, &p.Management, &p.NextAppointment,
	} {
		*s = strings.TrimSpace(*s)
	}

	if op := rec.Operation; op != nil {
		for _, s := range []*string{&op.Surgeon, &op.Anaesthetist, &op.AnaesthesiaType, &op.SurgeryName} {
			*s = strings.TrimSpace(*s)
		}
	}

	prescriptions := make([]models.Prescription, 0, len(rec.Prescriptions))
	for _, rx := range rec.Prescriptions {
		fields := []*string{&rx.DrugName, &rx.DrugForm, &rx.Strength, &rx.Dose, &rx.Frequency, &rx.Route, &rx.Duration}
		blank := true
		for _, s := range fields {
			*s = strings.TrimSpace(*s)
			if *s != "" {
				blank = false
			}
		}
		if !blank {
			prescriptions = append(prescriptions, rx)
		}
	}
	rec.Prescriptions = prescriptions

	investigations := make([]models.Investigation, 0, len(rec.Investigations))
	for _, inv := range rec.Investigations {
		inv.Name = strings.TrimSpace(inv.Name)
		inv.Value = strings.TrimSpace(inv.Value)
		if inv.Name != "" || inv.Value != "" {
			investigations = append(investigations, inv)
		}
	}
	rec.Investigations = investigations

	// A variable without a value was never filled in.
	variables := make([]models.OperationVariable, 0, len(rec.OpVariables))
	for _, v := range rec.OpVariables {
		v.Name = strings.TrimSpace(v.Name)
		v.Value = strings.TrimSpace(v.Value)
		if v.Value != "" {
			variables = append(variables, v)
		}
	}
	rec.OpVariables = variables
}
