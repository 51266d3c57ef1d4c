// Package prescription records the medicines a doctor orders against an
// appointment. Billing later prices these lines when it decomposes a bill.
package prescription

import (
	"time"

	"github.com/google/uuid"
)

type Prescription struct {
	ID            uuid.UUID `json:"id"`
	AppointmentID uuid.UUID `json:"appointment_id"`
	MedicineID    uuid.UUID `json:"medicine_id"`
	Dosage        string    `json:"dosage"`
	Duration      string    `json:"duration"`
	Instructions  string    `json:"instructions"`
	PrescribedAt  time.Time `json:"prescribed_at"`
}

// Detail joins a prescription with the medicine it orders and the
// appointment it belongs to.
type Detail struct {
	Prescription
	MedicineName    string  `json:"medicine_name"`
	MedicinePrice   float64 `json:"medicine_price"`
	AppointmentDate string  `json:"appointment_date"`
	DoctorName      string  `json:"doctor_name"`
}
