package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"urology-records/models"
)

const patientColumns = `
	id, name, age,
	COALESCE(sex, '') AS sex,
	COALESCE(admission_date, '') AS admission_date,
	COALESCE(discharge_date, '') AS discharge_date,
	COALESCE(bht_no, '') AS bht_no,
	COALESCE(indication, '') AS indication,
	COALESCE(history_exam, '') AS history_exam,
	COALESCE(management, '') AS management,
	COALESCE(next_appointment, '') AS next_appointment`

// ==================== PATIENT OPERATIONS ====================

// SavePatient inserts p and sets p.ID. It returns false without an error
// when the BHT number is already taken.
func (r *Repository) SavePatient(ctx context.Context, p *models.Patient) (int64, bool, error) {
	id, err := insertPatient(ctx, r.db, p)
	if isUniqueViolation(err) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, classify(err)
	}
	p.ID = id
	return id, true, nil
}

// UpdatePatient overwrites every field of patient id. It returns false when
// the new BHT number belongs to another patient and ErrPatientNotFound when
// id does not exist.
func (r *Repository) UpdatePatient(ctx context.Context, id int64, p *models.Patient) (bool, error) {
	n, err := updatePatient(ctx, r.db, id, p)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	if n == 0 {
		return false, fmt.Errorf("patient %d: %w", id, ErrPatientNotFound)
	}
	p.ID = id
	return true, nil
}

// DeletePatient removes the patient and, by cascade, their operation,
// prescriptions, investigations and operation variables. Report history is
// kept.
func (r *Repository) DeletePatient(ctx context.Context, id int64) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = ?`, id)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// GetPatient returns nil when no patient has the id.
func (r *Repository) GetPatient(ctx context.Context, id int64) (*models.Patient, error) {
	var p models.Patient
	err := r.db.GetContext(ctx, &p, `SELECT `+patientColumns+` FROM patients WHERE id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, classify(err)
	}
	return &p, nil
}

// SearchPatients matches term as a case-insensitive substring of the name or
// BHT number. An empty term matches every patient.
func (r *Repository) SearchPatients(ctx context.Context, term string) ([]models.PatientSummary, error) {
	pattern := containsPattern(term)

	patients := make([]models.PatientSummary, 0)
	err := r.db.SelectContext(ctx, &patients, `
		SELECT id, name, COALESCE(bht_no, '') AS bht_no
		FROM patients
		WHERE name LIKE ? ESCAPE '\' OR bht_no LIKE ? ESCAPE '\'
		ORDER BY name, id
	`, pattern, pattern)
	if err != nil {
		return nil, classify(err)
	}
	return patients, nil
}

// Blank BHT numbers are stored as NULL so any number of patients may omit one.
func insertPatient(ctx context.Context, q sqlx.ExtContext, p *models.Patient) (int64, error) {
	res, err := q.ExecContext(ctx, `
		INSERT INTO patients (
			name, age, sex, admission_date, discharge_date, bht_no,
			indication, history_exam, management, next_appointment
		) VALUES (?, ?, ?, ?, ?, NULLIF(?, ''), ?, ?, ?, ?)
	`, p.Name, p.Age, p.Sex, p.AdmissionDate, p.DischargeDate, p.BHTNo,
		p.Indication, p.HistoryExam, p.Management, p.NextAppointment)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func updatePatient(ctx context.Context, q sqlx.ExtContext, id int64, p *models.Patient) (int64, error) {
	res, err := q.ExecContext(ctx, `
		UPDATE patients SET
			name = ?, age = ?, sex = ?, admission_date = ?, discharge_date = ?,
			bht_no = NULLIF(?, ''), indication = ?, history_exam = ?,
			management = ?, next_appointment = ?
		WHERE id = ?
	`, p.Name, p.Age, p.Sex, p.AdmissionDate, p.DischargeDate, p.BHTNo,
		p.Indication, p.HistoryExam, p.Management, p.NextAppointment, id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
