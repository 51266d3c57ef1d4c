package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/pkg/errs"
)

type Service struct {
	bills        Repository
	appointments AppointmentGate
	patients     PatientGate
	tx           db.Manager
	logger       zerolog.Logger
}

func NewService(bills Repository, appointments AppointmentGate, patients PatientGate, tx db.Manager, logger zerolog.Logger) *Service {
	return &Service{
		bills:        bills,
		appointments: appointments,
		patients:     patients,
		tx:           tx,
		logger:       logger,
	}
}

// Generate creates a pending bill. The caller supplies the total; use
// RecomputeTotal to overwrite it with the decomposed amount.
func (s *Service) Generate(ctx context.Context, b *Bill) error {
	if b.TotalAmount < 0 {
		return fmt.Errorf("total_amount must not be negative")
	}

	ok, err := s.patients.Exists(ctx, b.PatientID)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("patient %s: %w", b.PatientID, errs.ErrNotFound)
	}
	if b.AppointmentID != nil {
		ok, err := s.appointments.Exists(ctx, *b.AppointmentID)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("appointment %s: %w", b.AppointmentID, errs.ErrNotFound)
		}
	}

	b.PaymentStatus = StatusPending
	return s.bills.Create(ctx, b)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return s.bills.GetByID(ctx, id)
}

func (s *Service) RecordPayment(ctx context.Context, id uuid.UUID, method string) error {
	if method == "" {
		return fmt.Errorf("payment_method is required")
	}
	return s.bills.RecordPayment(ctx, id, method)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Bill, int, error) {
	return s.bills.List(ctx, limit, offset)
}

func (s *Service) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	return s.bills.ListByPatient(ctx, patientID, limit, offset)
}

// Detail loads a bill with its priced lines and decomposition. A bill with
// no appointment decomposes with no consultation fee and no lines.
func (s *Service) Detail(ctx context.Context, id uuid.UUID) (*Detail, error) {
	bill, err := s.bills.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name, err := s.bills.PatientName(ctx, bill.PatientID)
	if err != nil {
		return nil, err
	}

	var lines []*Line
	if bill.AppointmentID != nil {
		lines, err = s.bills.LinesForAppointment(ctx, *bill.AppointmentID)
		if err != nil {
			return nil, err
		}
	}

	prices := make([]float64, 0, len(lines))
	for _, l := range lines {
		prices = append(prices, l.Price)
	}

	return &Detail{
		Bill:        *bill,
		PatientName: name,
		Lines:       lines,
		Breakdown:   Decompose(bill.AppointmentID != nil, prices),
	}, nil
}

// RecomputeTotal overwrites a bill's stored total with the decomposed one.
func (s *Service) RecomputeTotal(ctx context.Context, id uuid.UUID) (*Breakdown, error) {
	var breakdown Breakdown
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		bill, err := s.bills.GetByID(ctx, id)
		if err != nil {
			return err
		}

		var prices []float64
		if bill.AppointmentID != nil {
			lines, err := s.bills.LinesForAppointment(ctx, *bill.AppointmentID)
			if err != nil {
				return err
			}
			for _, l := range lines {
				prices = append(prices, l.Price)
			}
		}

		breakdown = Decompose(bill.AppointmentID != nil, prices)
		return s.bills.UpdateTotal(ctx, id, breakdown.Total)
	})
	if err != nil {
		return nil, err
	}
	return &breakdown, nil
}

func (s *Service) MonthlyReport(ctx context.Context, month, year int) (*MonthlyReport, error) {
	if month < 1 || month > 12 {
		return nil, fmt.Errorf("month must be 1..12: %w", errs.ErrInvalidDate)
	}
	return s.bills.MonthlyReport(ctx, month, year)
}

func (s *Service) RevenueSummary(ctx context.Context) (*RevenueSummary, error) {
	return s.bills.RevenueSummary(ctx)
}

// Discharge completes every scheduled appointment of the patient, totals
// all of their bills and normalizes unpaid bills to pending, atomically.
// Any failure rolls the whole workflow back and surfaces as a
// DischargeError.
func (s *Service) Discharge(ctx context.Context, patientID uuid.UUID) (*DischargeSummary, error) {
	ok, err := s.patients.Exists(ctx, patientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("patient %s: %w", patientID, errs.ErrNotFound)
	}

	summary := &DischargeSummary{PatientID: patientID}
	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		completed, err := s.appointments.CompleteForPatient(ctx, patientID)
		if err != nil {
			return err
		}
		summary.CompletedAppointments = completed

		total, err := s.bills.SumByPatient(ctx, patientID)
		if err != nil {
			return err
		}
		summary.TotalCharges = total

		if _, err := s.bills.MarkUnpaidPending(ctx, patientID); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		var de *errs.DischargeError
		if !errors.As(err, &de) {
			err = &errs.DischargeError{Reason: err.Error()}
		}
		return nil, err
	}

	s.logger.Info().
		Str("patient_id", patientID.String()).
		Int("completed_appointments", summary.CompletedAppointments).
		Float64("total_charges", summary.TotalCharges).
		Msg("patient discharged")
	return summary, nil
}
