package appointment

import (
	"regexp"
	"time"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

// Status defines the lifecycle state of an appointment
type Status string

const (
	StatusScheduled Status = "scheduled"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// Appointment represents a scheduled patient visit
type Appointment struct {
	ID        types.ID `json:"id"`
	PatientID types.ID `json:"patient_id"`

	// Date is an ISO YYYY-MM-DD string, Time an HH:MM wall-clock string
	Date string `json:"appointment_date"`
	Time string `json:"appointment_time"`

	Type       string `json:"type"`
	Reason     string `json:"reason"`
	Status     Status `json:"status"`
	DoctorName string `json:"doctor_name"`
	Notes      string `json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

// EnrichedAppointment pairs an appointment with its patient display name
// for the schedule board
type EnrichedAppointment struct {
	Appointment
	PatientName string `json:"patient_name"`
}

// CreateRequest is the request to schedule an appointment
type CreateRequest struct {
	PatientID  string `json:"patient_id"`
	Date       string `json:"appointment_date"`
	Time       string `json:"appointment_time"`
	Type       string `json:"type"`
	Reason     string `json:"reason"`
	DoctorName string `json:"doctor_name"`
}

// UpdateStatusRequest transitions an appointment's status
type UpdateStatusRequest struct {
	Status Status `json:"status"`
}

var timeRe = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)

// ValidDate checks an ISO YYYY-MM-DD date string
func ValidDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ValidTime checks an HH:MM wall-clock string
func ValidTime(s string) bool {
	return timeRe.MatchString(s)
}

// ValidStatus checks a status transition target
func ValidStatus(s Status) bool {
	switch s {
	case StatusScheduled, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}
