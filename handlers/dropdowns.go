package handlers

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"urology-records/app"
	"urology-records/models"
	"urology-records/services"
	"urology-records/validator"
)

// GetDropdownCategories lists the known categories and those holding values
func GetDropdownCategories(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		used, err := a.Dropdowns.UsedCategories(c.UserContext())
		if err != nil {
			return serverErrorWithDetails(c, "Failed to list categories", err)
		}

		return success(c, fiber.Map{
			"categories": a.Dropdowns.Categories(),
			"used":       used,
		})
	}
}

// GetDropdownOptions returns a category's values in display order. With
// ?rows=true it returns the stored rows including display_order.
func GetDropdownOptions(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Params("category")

		if c.QueryBool("rows") {
			rows, err := a.Dropdowns.OptionRows(c.UserContext(), category)
			if err != nil {
				return dropdownError(c, err, "Failed to fetch options")
			}
			return success(c, fiber.Map{"category": category, "options": rows})
		}

		values, err := a.Dropdowns.Options(c.UserContext(), category)
		if err != nil {
			return dropdownError(c, err, "Failed to fetch options")
		}

		return success(c, fiber.Map{"category": category, "values": values})
	}
}

// AddDropdownOption adds a value to a category
func AddDropdownOption(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.CreateDropdownOptionRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		category := c.Params("category")
		if err := a.Dropdowns.Add(c.UserContext(), category, req.Value); err != nil {
			return dropdownError(c, err, "Failed to add option")
		}

		return created(c, fiber.Map{"category": category, "value": req.Value})
	}
}

// DeleteDropdownOption removes a value from a category
func DeleteDropdownOption(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		value, err := url.PathUnescape(c.Params("value"))
		if err != nil {
			return badRequest(c, "Invalid value")
		}

		if err := a.Dropdowns.Remove(c.UserContext(), c.Params("category"), value); err != nil {
			return dropdownError(c, err, "Failed to delete option")
		}

		return c.SendStatus(fiber.StatusNoContent)
	}
}

// UpdateDropdownOrder persists a new display order for a category
func UpdateDropdownOrder(a *app.App) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req models.UpdateDropdownOrderRequest
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "Invalid request body")
		}

		category := c.Params("category")
		if err := a.Dropdowns.Reorder(c.UserContext(), category, req.Values); err != nil {
			return dropdownError(c, err, "Failed to update order")
		}

		values, err := a.Dropdowns.Options(c.UserContext(), category)
		if err != nil {
			return serverErrorWithDetails(c, "Failed to fetch options", err)
		}

		return success(c, fiber.Map{"category": category, "values": values})
	}
}

func dropdownError(c *fiber.Ctx, err error, message string) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return validationError(c, err)
	case errors.Is(err, services.ErrUnknownCategory):
		return notFound(c, "Unknown dropdown category")
	case errors.Is(err, services.ErrOptionNotFound):
		return notFound(c, "Value not found")
	case errors.Is(err, services.ErrDuplicateOption):
		return conflict(c, "Value already exists")
	case errors.Is(err, services.ErrDuplicateInOrder):
		return badRequest(c, "Order lists a value twice")
	default:
		return serverErrorWithDetails(c, message, err)
	}
}
