package prescription

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hms/hms/pkg/errs"
)

type Service struct {
	prescriptions Repository
	appointments  AppointmentGate
	medicines     MedicineGate
}

func NewService(prescriptions Repository, appointments AppointmentGate, medicines MedicineGate) *Service {
	return &Service{prescriptions: prescriptions, appointments: appointments, medicines: medicines}
}

// Create records a prescription after checking both referenced entities.
func (s *Service) Create(ctx context.Context, p *Prescription) error {
	if p.Dosage == "" {
		return fmt.Errorf("dosage is required")
	}

	ok, err := s.appointments.Exists(ctx, p.AppointmentID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("appointment %s: %w", p.AppointmentID, errs.ErrNotFound)
	}

	ok, err = s.medicines.Exists(ctx, p.MedicineID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("medicine %s: %w", p.MedicineID, errs.ErrNotFound)
	}

	return s.prescriptions.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	return s.prescriptions.GetByID(ctx, id)
}

func (s *Service) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Detail, error) {
	return s.prescriptions.ListByAppointment(ctx, appointmentID)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	return s.prescriptions.ListByPatient(ctx, patientID, limit, offset)
}
