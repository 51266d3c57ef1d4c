package billing

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, b *Bill) error
	GetByID(ctx context.Context, id uuid.UUID) (*Bill, error)
	RecordPayment(ctx context.Context, id uuid.UUID, method string) error
	UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error
	List(ctx context.Context, limit, offset int) ([]*Bill, int, error)
	ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error)

	// PatientName resolves the display name joined onto bill details.
	PatientName(ctx context.Context, patientID uuid.UUID) (string, error)

	// LinesForAppointment returns the priced prescription rows that feed
	// the bill decomposition.
	LinesForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Line, error)

	// SumByPatient totals every bill of the patient regardless of status.
	SumByPatient(ctx context.Context, patientID uuid.UUID) (float64, error)

	// MarkUnpaidPending sets the status of every non-paid bill of the
	// patient to pending and returns the affected row count.
	MarkUnpaidPending(ctx context.Context, patientID uuid.UUID) (int, error)

	MonthlyReport(ctx context.Context, month, year int) (*MonthlyReport, error)
	RevenueSummary(ctx context.Context) (*RevenueSummary, error)
}

// AppointmentGate is the slice of scheduling that billing workflows touch.
type AppointmentGate interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
	CompleteForPatient(ctx context.Context, patientID uuid.UUID) (int, error)
}

// PatientGate guards billing against unknown patients.
type PatientGate interface {
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}
