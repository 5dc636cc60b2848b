package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

// RequiredTables are the tables EnsureSchema creates.
var RequiredTables = []string{
	"dropdown_options",
	"patients",
	"operations",
	"prescriptions",
	"investigations",
	"op_variables",
	"report_history",
}

type DB struct {
	*sqlx.DB
	path string
}

// New opens the database file at dbPath, creating its directory if needed.
// Foreign keys are enabled on every pooled connection through the DSN so
// patient deletes cascade.
func New(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", dbPath)
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Single local user, single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to open database %s: %w", dbPath, err)
	}

	return &DB{DB: db, path: dbPath}, nil
}

// Path returns the file the store was opened on.
func (db *DB) Path() string {
	return db.path
}

// EnsureSchema creates every missing table and index and upgrades files
// written by older versions. It is safe to run on every start.
func (db *DB) EnsureSchema(ctx context.Context) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS dropdown_options (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			value TEXT NOT NULL,
			display_order INTEGER,
			UNIQUE(category, value)
		)`,

		`CREATE TABLE IF NOT EXISTS patients (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			age INTEGER,
			sex TEXT,
			admission_date TEXT,
			discharge_date TEXT,
			bht_no TEXT UNIQUE,
			indication TEXT,
			history_exam TEXT,
			management TEXT,
			next_appointment TEXT
		)`,

		`CREATE TABLE IF NOT EXISTS operations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			patient_id INTEGER NOT NULL,
			surgeon TEXT,
			anaesthetist TEXT,
			anaesthesia_type TEXT,
			surgery_name TEXT,
			surgery_description TEXT,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS prescriptions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			patient_id INTEGER NOT NULL,
			drug_name TEXT,
			drug_form TEXT,
			strength TEXT,
			dose TEXT,
			frequency TEXT,
			route TEXT,
			duration TEXT,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS investigations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			patient_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS op_variables (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			patient_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			value TEXT NOT NULL,
			FOREIGN KEY (patient_id) REFERENCES patients(id) ON DELETE CASCADE
		)`,

		// No foreign key: history rows outlive the patient they reference.
		historyTableDDL("report_history"),

		`CREATE INDEX IF NOT EXISTS idx_operations_patient ON operations(patient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_prescriptions_patient ON prescriptions(patient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_investigations_patient ON investigations(patient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_op_variables_patient ON op_variables(patient_id)`,
		`CREATE INDEX IF NOT EXISTS idx_report_history_patient ON report_history(patient_id, printed_at)`,
	}

	return db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, query := range queries {
			if _, err := tx.ExecContext(ctx, query); err != nil {
				return fmt.Errorf("schema creation failed: %w", err)
			}
		}

		if err := addColumnIfMissing(ctx, tx, "dropdown_options", "display_order", "INTEGER"); err != nil {
			return err
		}

		return dropHistoryForeignKey(ctx, tx)
	})
}

func historyTableDDL(name string) string {
	return `CREATE TABLE IF NOT EXISTS ` + name + ` (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			patient_id INTEGER NOT NULL,
			report_path TEXT NOT NULL,
			printed_at TEXT NOT NULL
		)`
}

func addColumnIfMissing(ctx context.Context, tx *sqlx.Tx, table, column, definition string) error {
	var count int
	if err := tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column); err != nil {
		return fmt.Errorf("inspect %s: %w", table, err)
	}
	if count > 0 {
		return nil
	}

	if _, err := tx.ExecContext(ctx,
		fmt.Sprintf(`ALTER TABLE %s ADD COLUMN %s %s`, table, column, definition)); err != nil {
		return fmt.Errorf("add column %s.%s: %w", table, column, err)
	}
	return nil
}

// dropHistoryForeignKey rebuilds report_history tables created with a
// reference to patients. With foreign keys enforced that reference would
// block deleting any patient who has been printed.
func dropHistoryForeignKey(ctx context.Context, tx *sqlx.Tx) error {
	var count int
	if err := tx.GetContext(ctx, &count,
		`SELECT COUNT(*) FROM pragma_foreign_key_list('report_history')`); err != nil {
		return fmt.Errorf("inspect report_history: %w", err)
	}
	if count == 0 {
		return nil
	}

	steps := []string{
		`DROP TABLE IF EXISTS report_history_rebuild`,
		historyTableDDL("report_history_rebuild"),
		`INSERT INTO report_history_rebuild (id, patient_id, report_path, printed_at)
			SELECT id, patient_id, report_path, printed_at FROM report_history`,
		`DROP TABLE report_history`,
		`ALTER TABLE report_history_rebuild RENAME TO report_history`,
		`CREATE INDEX IF NOT EXISTS idx_report_history_patient ON report_history(patient_id, printed_at)`,
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, step); err != nil {
			return fmt.Errorf("rebuild report_history: %w", err)
		}
	}
	return nil
}

// MissingTables returns the required tables absent from the file, in
// RequiredTables order.
func (db *DB) MissingTables(ctx context.Context) ([]string, error) {
	var existing []string
	if err := db.SelectContext(ctx, &existing,
		`SELECT name FROM sqlite_master WHERE type = 'table'`); err != nil {
		return nil, err
	}

	present := make(map[string]bool, len(existing))
	for _, name := range existing {
		present[name] = true
	}

	missing := make([]string, 0)
	for _, table := range RequiredTables {
		if !present[table] {
			missing = append(missing, table)
		}
	}
	return missing, nil
}

// WithTx runs fn inside a transaction. The transaction commits when fn
// returns nil and rolls back when it returns an error or panics, so a failed
// scope leaves nothing behind.
func (db *DB) WithTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return classify(fmt.Errorf("begin transaction: %w", err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return classify(err)
	}

	if err := tx.Commit(); err != nil {
		return classify(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}

func (db *DB) Close() error {
	return db.DB.Close()
}
