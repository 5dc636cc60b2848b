package database

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"urology-records/models"
)

// errDuplicateValue aborts a reorder transaction whose input repeats a value.
var errDuplicateValue = errors.New("duplicate dropdown value")

// ==================== DROPDOWN OPERATIONS ====================

// AddDropdownOption inserts value into category. It returns false without an
// error when the pair already exists.
func (r *Repository) AddDropdownOption(ctx context.Context, category, value string) (bool, error) {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO dropdown_options (category, value) VALUES (?, ?)
	`, category, value)
	if isUniqueViolation(err) {
		return false, nil
	}
	if err != nil {
		return false, classify(err)
	}
	return true, nil
}

// GetDropdownOptions returns the values of a category in persisted order.
// Values that were never explicitly ordered follow, ascending by value.
func (r *Repository) GetDropdownOptions(ctx context.Context, category string) ([]string, error) {
	values := make([]string, 0)
	err := r.db.SelectContext(ctx, &values, `
		SELECT value FROM dropdown_options
		WHERE category = ?
		ORDER BY display_order IS NULL, display_order, value
	`, category)
	if err != nil {
		return nil, classify(err)
	}
	return values, nil
}

// GetDropdownOptionRows is GetDropdownOptions with ids and order indexes.
func (r *Repository) GetDropdownOptionRows(ctx context.Context, category string) ([]models.DropdownOption, error) {
	rows := make([]models.DropdownOption, 0)
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, category, value, display_order FROM dropdown_options
		WHERE category = ?
		ORDER BY display_order IS NULL, display_order, value
	`, category)
	if err != nil {
		return nil, classify(err)
	}
	return rows, nil
}

// DeleteDropdownOption reports whether a row was removed.
func (r *Repository) DeleteDropdownOption(ctx context.Context, category, value string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM dropdown_options WHERE category = ? AND value = ?
	`, category, value)
	if err != nil {
		return false, classify(err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// UpdateDropdownOrder replaces the category with ordered, numbering rows
// from zero. Values absent from ordered are dropped. If ordered repeats a
// value nothing changes and false is returned.
func (r *Repository) UpdateDropdownOrder(ctx context.Context, category string, ordered []string) (bool, error) {
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`DELETE FROM dropdown_options WHERE category = ?`, category); err != nil {
			return err
		}

		for i, value := range ordered {
			_, err := tx.ExecContext(ctx, `
				INSERT INTO dropdown_options (category, value, display_order) VALUES (?, ?, ?)
			`, category, value, i)
			if isUniqueViolation(err) {
				return fmt.Errorf("%q: %w", value, errDuplicateValue)
			}
			if err != nil {
				return err
			}
		}
		return nil
	})
	if errors.Is(err, errDuplicateValue) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListDropdownCategories returns every category that has at least one value.
func (r *Repository) ListDropdownCategories(ctx context.Context) ([]string, error) {
	categories := make([]string, 0)
	err := r.db.SelectContext(ctx, &categories, `
		SELECT DISTINCT category FROM dropdown_options ORDER BY category
	`)
	if err != nil {
		return nil, classify(err)
	}
	return categories, nil
}

// DeleteDropdownCategories removes whole categories and returns the number
// of values deleted.
func (r *Repository) DeleteDropdownCategories(ctx context.Context, categories ...string) (int64, error) {
	var total int64
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, category := range categories {
			res, err := tx.ExecContext(ctx,
				`DELETE FROM dropdown_options WHERE category = ?`, category)
			if err != nil {
				return err
			}
			n, err := res.RowsAffected()
			if err != nil {
				return err
			}
			total += n
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// SeedDropdownOptions adds the given values where missing and returns how
// many were inserted. Existing values, and their order, are left alone.
func (r *Repository) SeedDropdownOptions(ctx context.Context, defaults map[string][]string) (int, error) {
	categories := make([]string, 0, len(defaults))
	for category := range defaults {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	inserted := 0
	err := r.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		for _, category := range categories {
			for _, value := range defaults[category] {
				res, err := tx.ExecContext(ctx, `
					INSERT OR IGNORE INTO dropdown_options (category, value) VALUES (?, ?)
				`, category, value)
				if err != nil {
					return err
				}
				n, err := res.RowsAffected()
				if err != nil {
					return err
				}
				inserted += int(n)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
