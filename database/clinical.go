package database

import (
	"context"

	"github.com/jmoiron/sqlx"

	"urology-records/models"
)

// The Save methods in this file replace a patient's whole list: existing
// rows are deleted and the given rows inserted in one transaction.

// ==================== PRESCRIPTION OPERATIONS ====================

func (r *Repository) SavePrescriptions(ctx context.Context, patientID int64, items []models.Prescription) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return replacePrescriptions(ctx, tx, patientID, items)
	})
}

func (r *Repository) GetPatientPrescriptions(ctx context.Context, patientID int64) ([]models.Prescription, error) {
	items := make([]models.Prescription, 0)
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, patient_id,
			COALESCE(drug_name, '') AS drug_name,
			COALESCE(drug_form, '') AS drug_form,
			COALESCE(strength, '') AS strength,
			COALESCE(dose, '') AS dose,
			COALESCE(frequency, '') AS frequency,
			COALESCE(route, '') AS route,
			COALESCE(duration, '') AS duration
		FROM prescriptions
		WHERE patient_id = ?
		ORDER BY id
	`, patientID)
	if err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func replacePrescriptions(ctx context.Context, q sqlx.ExecerContext, patientID int64, items []models.Prescription) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM prescriptions WHERE patient_id = ?`, patientID); err != nil {
		return err
	}
	for i := range items {
		p := &items[i]
		res, err := q.ExecContext(ctx, `
			INSERT INTO prescriptions (
				patient_id, drug_name, drug_form, strength, dose, frequency, route, duration
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, patientID, p.DrugName, p.DrugForm, p.Strength, p.Dose, p.Frequency, p.Route, p.Duration)
		if err != nil {
			return err
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		p.PatientID = patientID
	}
	return nil
}

// ==================== INVESTIGATION OPERATIONS ====================

func (r *Repository) SaveInvestigations(ctx context.Context, patientID int64, items []models.Investigation) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return replaceInvestigations(ctx, tx, patientID, items)
	})
}

func (r *Repository) GetPatientInvestigations(ctx context.Context, patientID int64) ([]models.Investigation, error) {
	items := make([]models.Investigation, 0)
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, patient_id, name, value FROM investigations
		WHERE patient_id = ?
		ORDER BY id
	`, patientID)
	if err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func replaceInvestigations(ctx context.Context, q sqlx.ExecerContext, patientID int64, items []models.Investigation) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM investigations WHERE patient_id = ?`, patientID); err != nil {
		return err
	}
	for i := range items {
		inv := &items[i]
		res, err := q.ExecContext(ctx,
			`INSERT INTO investigations (patient_id, name, value) VALUES (?, ?, ?)`,
			patientID, inv.Name, inv.Value)
		if err != nil {
			return err
		}
		if inv.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		inv.PatientID = patientID
	}
	return nil
}

// ==================== OPERATION VARIABLE OPERATIONS ====================

func (r *Repository) SaveOpVariables(ctx context.Context, patientID int64, items []models.OperationVariable) error {
	return r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		return replaceOpVariables(ctx, tx, patientID, items)
	})
}

// AddOpVariable appends a single variable without touching the others.
func (r *Repository) AddOpVariable(ctx context.Context, patientID int64, name, value string) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO op_variables (patient_id, name, value) VALUES (?, ?, ?)`,
		patientID, name, value)
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

// DeleteOpVariables removes every variable of the patient.
func (r *Repository) DeleteOpVariables(ctx context.Context, patientID int64) error {
	if _, err := r.db.ExecContext(ctx,
		`DELETE FROM op_variables WHERE patient_id = ?`, patientID); err != nil {
		return classify(err)
	}
	return nil
}

func (r *Repository) GetOpVariables(ctx context.Context, patientID int64) ([]models.OperationVariable, error) {
	items := make([]models.OperationVariable, 0)
	err := r.db.SelectContext(ctx, &items, `
		SELECT id, patient_id, name, value FROM op_variables
		WHERE patient_id = ?
		ORDER BY id
	`, patientID)
	if err != nil {
		return nil, classify(err)
	}
	return items, nil
}

func replaceOpVariables(ctx context.Context, q sqlx.ExecerContext, patientID int64, items []models.OperationVariable) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM op_variables WHERE patient_id = ?`, patientID); err != nil {
		return err
	}
	for i := range items {
		v := &items[i]
		res, err := q.ExecContext(ctx,
			`INSERT INTO op_variables (patient_id, name, value) VALUES (?, ?, ?)`,
			patientID, v.Name, v.Value)
		if err != nil {
			return err
		}
		if v.ID, err = res.LastInsertId(); err != nil {
			return err
		}
		v.PatientID = patientID
	}
	return nil
}
