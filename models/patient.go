package models

import "time"

// Storage formats for date fields. They are also what the report renderer
// parses before reformatting for display.
const (
	DateLayout      = "2006-01-02"
	DateTimeLayout  = "2006-01-02T15:04:05"
	PrintedAtLayout = "2006-01-02 15:04:05"
)

type Patient struct {
	ID              int64  `db:"id" json:"id"`
	Name            string `db:"name" json:"name" validate:"required,max=200"`
	Age             *int   `db:"age" json:"age,omitempty" validate:"omitempty,gte=0,lte=150"`
	Sex             string `db:"sex" json:"sex" validate:"omitempty,sex"`
	AdmissionDate   string `db:"admission_date" json:"admission_date" validate:"omitempty,isodate"`
	DischargeDate   string `db:"discharge_date" json:"discharge_date" validate:"omitempty,isodate"`
	BHTNo           string `db:"bht_no" json:"bht_no" validate:"max=50"`
	Indication      string `db:"indication" json:"indication"`
	HistoryExam     string `db:"history_exam" json:"history_exam"`
	Management      string `db:"management" json:"management"`
	NextAppointment string `db:"next_appointment" json:"next_appointment" validate:"omitempty,isodatetime"`
}

// PatientSummary is the row shape returned by patient search.
type PatientSummary struct {
	ID    int64  `db:"id" json:"id"`
	Name  string `db:"name" json:"name"`
	BHTNo string `db:"bht_no" json:"bht_no"`
}

type Operation struct {
	ID                 int64  `db:"id" json:"id"`
	PatientID          int64  `db:"patient_id" json:"patient_id"`
	Surgeon            string `db:"surgeon" json:"surgeon"`
	Anaesthetist       string `db:"anaesthetist" json:"anaesthetist"`
	AnaesthesiaType    string `db:"anaesthesia_type" json:"anaesthesia_type"`
	SurgeryName        string `db:"surgery_name" json:"surgery_name"`
	SurgeryDescription string `db:"surgery_description" json:"surgery_description"`
}

type Prescription struct {
	ID        int64  `db:"id" json:"id"`
	PatientID int64  `db:"patient_id" json:"patient_id"`
	DrugName  string `db:"drug_name" json:"drug_name" validate:"required,max=200"`
	DrugForm  string `db:"drug_form" json:"drug_form"`
	Strength  string `db:"strength" json:"strength"`
	Dose      string `db:"dose" json:"dose"`
	Frequency string `db:"frequency" json:"frequency"`
	Route     string `db:"route" json:"route"`
	Duration  string `db:"duration" json:"duration"`
}

type Investigation struct {
	ID        int64  `db:"id" json:"id"`
	PatientID int64  `db:"patient_id" json:"patient_id"`
	Name      string `db:"name" json:"name" validate:"required,max=200"`
	Value     string `db:"value" json:"value"`
}

// OperationVariable is an ad-hoc operative finding recorded as name/value.
type OperationVariable struct {
	ID        int64  `db:"id" json:"id"`
	PatientID int64  `db:"patient_id" json:"patient_id"`
	Name      string `db:"name" json:"name" validate:"required,max=200"`
	Value     string `db:"value" json:"value"`
}

// ReportHistoryEntry records one generated report. It is kept after the
// patient it references has been deleted.
type ReportHistoryEntry struct {
	ID         int64  `db:"id" json:"id"`
	PatientID  int64  `db:"patient_id" json:"patient_id"`
	ReportPath string `db:"report_path" json:"report_path"`
	PrintedAt  string `db:"printed_at" json:"printed_at"`
}

// PrintedTime parses PrintedAt, returning false for rows written in an
// unexpected format.
func (e ReportHistoryEntry) PrintedTime() (time.Time, bool) {
	t, err := time.ParseInLocation(PrintedAtLayout, e.PrintedAt, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// PatientRecord is the full aggregate edited by the patient form.
type PatientRecord struct {
	Patient        Patient             `json:"patient"`
	Operation      *Operation          `json:"operation,omitempty"`
	Prescriptions  []Prescription      `json:"prescriptions" validate:"dive"`
	Investigations []Investigation     `json:"investigations" validate:"dive"`
	OpVariables    []OperationVariable `json:"op_variables" validate:"dive"`
}
