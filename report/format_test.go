package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"urology-records/models"
)

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"2024-03-01", "01/03/2024"},
		{"2024-12-31", "31/12/2024"},
		{"01/03/2024", "01/03/2024"},
		{"soon", "soon"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDate(tt.in), tt.in)
	}
}

func TestFormatDateTime(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"2024-04-15T09:30:00", "15/04/2024 09:30"},
		{"2024-04-15 09:30", "2024-04-15 09:30"},
		{"next week", "next week"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDateTime(tt.in), tt.in)
	}
}

func TestFormatPrintedAt(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"2024-05-02 14:07:59", "02/05/2024 14:07"},
		{"2024-05-02T14:07:59", "2024-05-02T14:07:59"},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatPrintedAt(models.ReportHistoryEntry{PrintedAt: tt.in}), tt.in)
	}
}
