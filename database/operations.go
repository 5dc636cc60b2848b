package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"urology-records/models"
)

const operationColumns = `
	id, patient_id,
	COALESCE(surgeon, '') AS surgeon,
	COALESCE(anaesthetist, '') AS anaesthetist,
	COALESCE(anaesthesia_type, '') AS anaesthesia_type,
	COALESCE(surgery_name, '') AS surgery_name,
	COALESCE(surgery_description, '') AS surgery_description`

// ==================== OPERATION OPERATIONS ====================

// SaveOperation inserts op for patientID and sets op.ID.
func (r *Repository) SaveOperation(ctx context.Context, patientID int64, op *models.Operation) (int64, error) {
	id, err := insertOperation(ctx, r.db, patientID, op)
	if err != nil {
		return 0, classify(err)
	}
	op.ID = id
	op.PatientID = patientID
	return id, nil
}

// UpdateOperation overwrites operation id.
func (r *Repository) UpdateOperation(ctx context.Context, id int64, op *models.Operation) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE operations SET
			surgeon = ?, anaesthetist = ?, anaesthesia_type = ?,
			surgery_name = ?, surgery_description = ?
		WHERE id = ?
	`, op.Surgeon, op.Anaesthetist, op.AnaesthesiaType, op.SurgeryName, op.SurgeryDescription, id)
	if err != nil {
		return classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("operation %d: %w", id, ErrOperationNotFound)
	}
	op.ID = id
	return nil
}

// GetPatientOperation returns the patient's first operation, or nil.
func (r *Repository) GetPatientOperation(ctx context.Context, patientID int64) (*models.Operation, error) {
	op, err := firstOperation(ctx, r.db, patientID)
	if err != nil {
		return nil, classify(err)
	}
	return op, nil
}

func firstOperation(ctx context.Context, q sqlx.QueryerContext, patientID int64) (*models.Operation, error) {
	var op models.Operation
	err := sqlx.GetContext(ctx, q, &op, `
		SELECT `+operationColumns+` FROM operations
		WHERE patient_id = ?
		ORDER BY id
		LIMIT 1
	`, patientID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &op, nil
}

func insertOperation(ctx context.Context, q sqlx.ExtContext, patientID int64, op *models.Operation) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO operations (
			patient_id, surgeon, anaesthetist, anaesthesia_type, surgery_name, surgery_description
		) VALUES (?, ?, ?, ?, ?, ?)
	`, patientID, op.Surgeon, op.Anaesthetist, op.AnaesthesiaType, op.SurgeryName, op.SurgeryDescription)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// upsertOperation updates the patient's existing operation or inserts one.
func upsertOperation(ctx context.Context, q sqlx.ExtContext, patientID int64, op *models.Operation) error {
	existing, err := firstOperation(ctx, q, patientID)
	if err != nil {
		return err
	}

	if existing == nil {
		id, err := insertOperation(ctx, q, patientID, op)
		if err != nil {
			return err
		}
		op.ID = id
	} else {
		if _, err := q.ExecContext(ctx, `
			UPDATE operations SET
				surgeon = ?, anaesthetist = ?, anaesthesia_type = ?,
				surgery_name = ?, surgery_description = ?
			WHERE id = ?
		`, op.Surgeon, op.Anaesthetist, op.AnaesthesiaType, op.SurgeryName, op.SurgeryDescription, existing.ID); err != nil {
			return err
		}
		op.ID = existing.ID
	}
	op.PatientID = patientID
	return nil
}
