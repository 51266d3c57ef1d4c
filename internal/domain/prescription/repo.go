package prescription

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, p *Prescription) error
	GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error)
	ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Detail, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error)
}

// AppointmentGate guards prescriptions against unknown appointments.
type AppointmentGate interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// MedicineGate guards prescriptions against unknown medicines.
type MedicineGate interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
