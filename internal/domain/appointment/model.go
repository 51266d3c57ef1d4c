// Package appointment implements booking and the appointment lifecycle.
// Booking is a transactional workflow: the appointment row, the doctor
// availability flip, and the sweep of stale scheduled appointments either
// all land or none do.
package appointment

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusScheduled = "Scheduled"
	StatusCompleted = "Completed"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

type Appointment struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	Date      string    `json:"appointment_date"`
	Time      string    `json:"appointment_time"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"created_at"`
}

// Detail is the list view row: an appointment joined with the names shown
// on schedules and worklists.
type Detail struct {
	Appointment
	PatientName    string `json:"patient_name"`
	DoctorName     string `json:"doctor_name"`
	Specialization string `json:"specialization"`
}
