package report

import (
	"errors"

	"urology-records/pkg/pdf"
)

var (
	ErrPatientNotFound  = errors.New("patient not found")
	ErrTemplateNotFound = errors.New("report template not found")

	// ErrConverterNotFound is returned when no wkhtmltopdf executable exists.
	ErrConverterNotFound = pdf.ErrConverterNotFound
)
