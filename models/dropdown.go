package models

// DropdownOption is one selectable value in a form field vocabulary.
// DisplayOrder is nil until the category has been explicitly reordered.
type DropdownOption struct {
	ID           int64  `db:"id" json:"id"`
	Category     string `db:"category" json:"category"`
	Value        string `db:"value" json:"value"`
	DisplayOrder *int   `db:"display_order" json:"display_order,omitempty"`
}

// DropdownCategories lists the form fields backed by a dropdown vocabulary.
var DropdownCategories = []string{
	"surgeon", "anaesthetist", "anaesthesia_type", "surgery_name",
	"surgery_description", "indication", "management", "drug_name",
	"drug_form", "strength", "dose", "frequency", "route", "duration",
	"investigation", "sex", "hospital_name", "unit_name", "op_variable",
}

// ObsoleteDropdownCategories were used by earlier versions of the operation form.
var ObsoleteDropdownCategories = []string{"ureters", "bladder", "prostate", "uoo"}

// DefaultDropdownOptions seeds a fresh database.
var DefaultDropdownOptions = map[string][]string{
	"sex":              {"Male", "Female", "Other"},
	"anaesthesia_type": {"General", "Spinal", "Local", "Sedation"},
	"drug_form":        {"Tablet", "Capsule", "Syrup", "Injection", "Suppository"},
	"route":            {"Oral", "IV", "IM", "SC", "Rectal", "Topical"},
	"frequency":        {"mane", "nocte", "bd", "tds", "qds", "stat"},
}

// IsDropdownCategory reports whether category is a known vocabulary.
func IsDropdownCategory(category string) bool {
	for _, c := range DropdownCategories {
		if c == category {
			return true
		}
	}
	return false
}

type CreateDropdownOptionRequest struct {
	Value string `json:"value" validate:"required,max=200"`
}

type UpdateDropdownOrderRequest struct {
	Values []string `json:"values" validate:"required,dive,required,max=200"`
}

// DropdownOptionInput is a category/value pair checked before it is stored.
type DropdownOptionInput struct {
	Category string `json:"category" validate:"required,category"`
	Value    string `json:"value" validate:"required,max=200"`
}
