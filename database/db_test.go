package database

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *DB {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestEnsureSchema(t *testing.T) {
	ctx := context.Background()

	t.Run("creates every table", func(t *testing.T) {
		db := openTestDB(t)

		missing, err := db.MissingTables(ctx)
		require.NoError(t, err)
		assert.Equal(t, RequiredTables, missing)

		require.NoError(t, db.EnsureSchema(ctx))

		missing, err = db.MissingTables(ctx)
		require.NoError(t, err)
		assert.Empty(t, missing)
	})

	t.Run("is idempotent and keeps data", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, db.EnsureSchema(ctx))

		repo := NewRepository(db)
		ok, err := repo.AddDropdownOption(ctx, "surgeon", "Dr A")
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, db.EnsureSchema(ctx))
		require.NoError(t, db.EnsureSchema(ctx))

		values, err := repo.GetDropdownOptions(ctx, "surgeon")
		require.NoError(t, err)
		assert.Equal(t, []string{"Dr A"}, values)
	})

	t.Run("recreates a dropped table", func(t *testing.T) {
		db := openTestDB(t)
		require.NoError(t, db.EnsureSchema(ctx))

		_, err := db.ExecContext(ctx, `DROP TABLE investigations`)
		require.NoError(t, err)

		missing, err := db.MissingTables(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"investigations"}, missing)

		require.NoError(t, db.EnsureSchema(ctx))
		missing, err = db.MissingTables(ctx)
		require.NoError(t, err)
		assert.Empty(t, missing)
	})
}

func TestEnsureSchemaUpgradesLegacyFile(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)

	legacy := []string{
		`CREATE TABLE dropdown_options (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			category TEXT NOT NULL,
			value TEXT NOT NULL,
			UNIQUE(category, value)
		)`,
		`CREATE TABLE patients (
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
		`CREATE TABLE report_history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			patient_id INTEGER NOT NULL,
			report_path TEXT NOT NULL,
			printed_at TEXT NOT NULL,
			FOREIGN KEY (patient_id) REFERENCES patients(id)
		)`,
		`INSERT INTO dropdown_options (category, value) VALUES ('route', 'Oral')`,
		`INSERT INTO patients (id, name) VALUES (1, 'Legacy Patient')`,
		`INSERT INTO report_history (patient_id, report_path, printed_at)
			VALUES (1, 'reports/old.pdf', '2023-01-01 10:00:00')`,
	}
	for _, q := range legacy {
		_, err := db.ExecContext(ctx, q)
		require.NoError(t, err)
	}

	require.NoError(t, db.EnsureSchema(ctx))

	var fks int
	require.NoError(t, db.GetContext(ctx, &fks, `SELECT COUNT(*) FROM pragma_foreign_key_list('report_history')`))
	assert.Zero(t, fks)

	repo := NewRepository(db)

	ok, err := repo.UpdateDropdownOrder(ctx, "route", []string{"IV", "Oral"})
	require.NoError(t, err)
	assert.True(t, ok)

	deleted, err := repo.DeletePatient(ctx, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	history, err := repo.GetPrintHistory(ctx, 1)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, "reports/old.pdf", history[0].ReportPath)

	printed, ok := history[0].PrintedTime()
	require.True(t, ok)
	assert.Equal(t, time.January, printed.Month())
}
