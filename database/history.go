package database

import (
	"context"
	"time"

	"urology-records/models"
)

// ==================== REPORT HISTORY OPERATIONS ====================

// AddReportHistory records that a report for patientID was written to path.
func (r *Repository) AddReportHistory(ctx context.Context, patientID int64, path string, printedAt time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO report_history (patient_id, report_path, printed_at) VALUES (?, ?, ?)
	`, patientID, path, printedAt.Format(models.PrintedAtLayout))
	if err != nil {
		return 0, classify(err)
	}
	return res.LastInsertId()
}

// GetPrintHistory returns the patient's reports, newest first.
func (r *Repository) GetPrintHistory(ctx context.Context, patientID int64) ([]models.ReportHistoryEntry, error) {
	entries := make([]models.ReportHistoryEntry, 0)
	err := r.db.SelectContext(ctx, &entries, `
		SELECT id, patient_id, report_path, printed_at FROM report_history
		WHERE patient_id = ?
		ORDER BY printed_at DESC, id DESC
	`, patientID)
	if err != nil {
		return nil, classify(err)
	}
	return entries, nil
}
