package report

import (
	"time"

	"urology-records/models"
)

const (
	displayDate     = "02/01/2006"
	displayDateTime = "02/01/2006 15:04"
	fileStamp       = "20060102_150405"
)

// FormatDate renders a stored YYYY-MM-DD date as DD/MM/YYYY. Values that do
// not parse are returned unchanged.
func FormatDate(s string) string {
	return reformat(s, models.DateLayout, displayDate)
}

// FormatDateTime renders a stored YYYY-MM-DDTHH:MM:SS timestamp as
// DD/MM/YYYY HH:MM. Values that do not parse are returned unchanged.
func FormatDateTime(s string) string {
	return reformat(s, models.DateTimeLayout, displayDateTime)
}

// FormatPrintedAt renders a history row's timestamp as DD/MM/YYYY HH:MM.
// Rows in an unexpected format are returned unchanged.
func FormatPrintedAt(e models.ReportHistoryEntry) string {
	if t, ok := e.PrintedTime(); ok {
		return t.Format(displayDateTime)
	}
	return e.PrintedAt
}

func reformat(s, from, to string) string {
	if s == "" {
		return ""
	}
	t, err := time.Parse(from, s)
	if err != nil {
		return s
	}
	return t.Format(to)
}
