package appointment

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, a *Appointment) error
	GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	List(ctx context.Context, limit, offset int) ([]*Detail, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error)
	ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Detail, int, error)
	ListToday(ctx context.Context) ([]*Detail, error)

	// CompleteStale marks scheduled appointments older than 24 hours as
	// completed and returns how many rows changed.
	CompleteStale(ctx context.Context) (int, error)

	// CompleteForPatient marks every scheduled appointment of the patient
	// as completed. Used by the discharge workflow.
	CompleteForPatient(ctx context.Context, patientID uuid.UUID) (int, error)
}

// DoctorGate is the slice of the doctor roster the booking workflow needs.
type DoctorGate interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	MarkBusy(ctx context.Context, id uuid.UUID) error
}

// PatientGate guards booking against unknown patients.
type PatientGate interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
