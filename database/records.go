package database

import (
	"context"
	"fmt"
	"slices"

	"github.com/jmoiron/sqlx"

	"urology-records/models"
)

// ==================== PATIENT RECORD OPERATIONS ====================

// GetPatientRecord loads the patient with every dependent list. It returns
// nil when the patient does not exist. The reads are not isolated from
// concurrent writers.
func (r *Repository) GetPatientRecord(ctx context.Context, patientID int64) (*models.PatientRecord, error) {
	patient, err := r.GetPatient(ctx, patientID)
	if err != nil || patient == nil {
		return nil, err
	}

	rec := &models.PatientRecord{Patient: *patient}

	if rec.Operation, err = r.GetPatientOperation(ctx, patientID); err != nil {
		return nil, err
	}
	if rec.Prescriptions, err = r.GetPatientPrescriptions(ctx, patientID); err != nil {
		return nil, err
	}
	if rec.Investigations, err = r.GetPatientInvestigations(ctx, patientID); err != nil {
		return nil, err
	}
	if rec.OpVariables, err = r.GetOpVariables(ctx, patientID); err != nil {
		return nil, err
	}
	return rec, nil
}

// SavePatientRecord writes the whole aggregate in one transaction. A zero
// patient ID inserts a new patient; otherwise that patient is overwritten.
// The operation is updated in place or created, and the three lists are
// replaced. A nil Operation leaves any stored operation untouched.
//
// It returns false without an error when the BHT number is taken. On any
// failure nothing is written and rec is left as it was; on success the new
// row ids are copied into rec.
func (r *Repository) SavePatientRecord(ctx context.Context, rec *models.PatientRecord) (int64, bool, error) {
	var patientID int64
	work := cloneRecord(rec)

	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if work.Patient.ID == 0 {
			id, err := insertPatient(ctx, tx, &work.Patient)
			if err != nil {
				return err
			}
			patientID = id
		} else {
			n, err := updatePatient(ctx, tx, work.Patient.ID, &work.Patient)
			if err != nil {
				return err
			}
			if n == 0 {
				return fmt.Errorf("patient %d: %w", work.Patient.ID, ErrPatientNotFound)
			}
			patientID = work.Patient.ID
		}

		if work.Operation != nil {
			if err := upsertOperation(ctx, tx, patientID, work.Operation); err != nil {
				return err
			}
		}
		if err := replacePrescriptions(ctx, tx, patientID, work.Prescriptions); err != nil {
			return err
		}
		if err := replaceInvestigations(ctx, tx, patientID, work.Investigations); err != nil {
			return err
		}
		return replaceOpVariables(ctx, tx, patientID, work.OpVariables)
	})
	if isUniqueViolation(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}

	work.Patient.ID = patientID
	*rec = *work
	return patientID, true, nil
}

// cloneRecord copies rec deeply enough that the writes can set row ids on
// the copy alone.
func cloneRecord(rec *models.PatientRecord) *models.PatientRecord {
	c := *rec
	if rec.Operation != nil {
		op := *rec.Operation
		c.Operation = &op
	}
	c.Prescriptions = slices.Clone(rec.Prescriptions)
	c.Investigations = slices.Clone(rec.Investigations)
	c.OpVariables = slices.Clone(rec.OpVariables)
	return &c
}
