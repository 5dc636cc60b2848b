package services

import (
	"context"
	"strings"

	"urology-records/models"
)

// DropdownService manages the vocabularies behind the form dropdowns
type DropdownService struct {
	repo      DropdownRepository
	validator Validator
}

// NewDropdownService creates a new dropdown service
func NewDropdownService(repo DropdownRepository, validator Validator) *DropdownService {
	return &DropdownService{
		repo:      repo,
		validator: validator,
	}
}

// Categories returns the known categories
func (ds *DropdownService) Categories() []string {
	return models.DropdownCategories
}

// UsedCategories returns the categories that currently hold values
func (ds *DropdownService) UsedCategories(ctx context.Context) ([]string, error) {
	return ds.repo.ListDropdownCategories(ctx)
}

// Options returns the values of a category in display order
func (ds *DropdownService) Options(ctx context.Context, category string) ([]string, error) {
	if !models.IsDropdownCategory(category) {
		return nil, ErrUnknownCategory
	}
	return ds.repo.GetDropdownOptions(ctx, category)
}

// OptionRows is Options with row ids and display order indexes, for the
// vocabulary editor
func (ds *DropdownService) OptionRows(ctx context.Context, category string) ([]models.DropdownOption, error) {
	if !models.IsDropdownCategory(category) {
		return nil, ErrUnknownCategory
	}
	return ds.repo.GetDropdownOptionRows(ctx, category)
}

// Add stores a new value in a category
func (ds *DropdownService) Add(ctx context.Context, category, value string) error {
	input := models.DropdownOptionInput{
		Category: category,
		Value:    strings.TrimSpace(value),
	}
	if !models.IsDropdownCategory(category) {
		return ErrUnknownCategory
	}
	if err := ds.validator.Validate(&input); err != nil {
		return err
	}

	added, err := ds.repo.AddDropdownOption(ctx, input.Category, input.Value)
	if err != nil {
		return err
	}
	if !added {
		return ErrDuplicateOption
	}
	return nil
}

// Remove deletes a value from a category
func (ds *DropdownService) Remove(ctx context.Context, category, value string) error {
	if !models.IsDropdownCategory(category) {
		return ErrUnknownCategory
	}

	removed, err := ds.repo.DeleteDropdownOption(ctx, category, value)
	if err != nil {
		return err
	}
	if !removed {
		return ErrOptionNotFound
	}
	return nil
}

// Reorder persists a new display order for a category. Values missing from
// ordered are removed from the category.
func (ds *DropdownService) Reorder(ctx context.Context, category string, ordered []string) error {
	if !models.IsDropdownCategory(category) {
		return ErrUnknownCategory
	}

	req := models.UpdateDropdownOrderRequest{Values: make([]string, 0, len(ordered))}
	for _, v := range ordered {
		req.Values = append(req.Values, strings.TrimSpace(v))
	}
	if err := ds.validator.Validate(&req); err != nil {
		return err
	}

	ok, err := ds.repo.UpdateDropdownOrder(ctx, category, req.Values)
	if err != nil {
		return err
	}
	if !ok {
		return ErrDuplicateInOrder
	}
	return nil
}

// SeedDefaults inserts the built-in vocabulary where missing and removes
// categories earlier versions used. It returns the number of values added.
func (ds *DropdownService) SeedDefaults(ctx context.Context) (int, error) {
	if _, err := ds.repo.DeleteDropdownCategories(ctx, models.ObsoleteDropdownCategories...); err != nil {
		return 0, err
	}
	return ds.repo.SeedDropdownOptions(ctx, models.DefaultDropdownOptions)
}
