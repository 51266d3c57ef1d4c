package appointment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/pkg/errs"
)

type Service struct {
	appointments Repository
	doctors      DoctorGate
	patients     PatientGate
	tx           db.Manager
	logger       zerolog.Logger
}

func NewService(appointments Repository, doctors DoctorGate, patients PatientGate, tx db.Manager, logger zerolog.Logger) *Service {
	return &Service{
		appointments: appointments,
		doctors:      doctors,
		patients:     patients,
		tx:           tx,
		logger:       logger,
	}
}

// Book creates an appointment, flips the doctor to busy and sweeps stale
// scheduled appointments, all in one transaction.
func (s *Service) Book(ctx context.Context, a *Appointment) error {
	if _, err := time.Parse(DateLayout, a.Date); err != nil {
		return fmt.Errorf("appointment_date: %w", errs.ErrInvalidDate)
	}
	a.Time = normalizeTime(a.Time)
	if _, err := time.Parse(TimeLayout, a.Time); err != nil {
		return fmt.Errorf("appointment_time: %w", errs.ErrInvalidDate)
	}
	a.Status = StatusScheduled

	return s.tx.RunInTx(ctx, func(ctx context.Context) error {
		ok, err := s.patients.Exists(ctx, a.PatientID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("patient %s: %w", a.PatientID, errs.ErrNotFound)
		}

		ok, err = s.doctors.Exists(ctx, a.DoctorID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("doctor %s: %w", a.DoctorID, errs.ErrNotFound)
		}

		if err := s.appointments.Create(ctx, a); err != nil {
			return err
		}
		if err := s.doctors.MarkBusy(ctx, a.DoctorID); err != nil {
			return err
		}

		swept, err := s.appointments.CompleteStale(ctx)
		if err != nil {
			return err
		}
		if swept > 0 {
			s.logger.Info().Int("count", swept).Msg("completed stale appointments")
		}
		return nil
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	return s.appointments.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Detail, int, error) {
	return s.appointments.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	return s.appointments.ListByPatient(ctx, patientID, limit, offset)
}

func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	return s.appointments.ListByDoctor(ctx, doctorID, limit, offset)
}

func (s *Service) ListToday(ctx context.Context) ([]*Detail, error) {
	return s.appointments.ListToday(ctx)
}

// normalizeTime pads HH:MM input to HH:MM:SS.
func normalizeTime(t string) string {
	if len(t) == 5 {
		return t + ":00"
	}
	return t
}
