package services

import "errors"

// Common service-level errors
var (
	// Patient errors
	ErrPatientNotFound = errors.New("patient not found")
	ErrDuplicateBHT    = errors.New("BHT number already exists")

	// Dropdown errors
	ErrDuplicateOption  = errors.New("dropdown value already exists")
	ErrOptionNotFound   = errors.New("dropdown value not found")
	ErrUnknownCategory  = errors.New("unknown dropdown category")
	ErrDuplicateInOrder = errors.New("dropdown order lists a value twice")
)
