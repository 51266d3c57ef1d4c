package doctor

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hms/hms/pkg/errs"
)

type Service struct {
	doctors         Repository
	defaultPassword string
}

// NewService wires the roster service. defaultPassword is assigned whenever
// a doctor is created or updated without an explicit password, so the login
// fallback always has a credential to match against.
func NewService(doctors Repository, defaultPassword string) *Service {
	return &Service{doctors: doctors, defaultPassword: defaultPassword}
}

func (s *Service) Create(ctx context.Context, d *Doctor) error {
	if d.Name == "" {
		return fmt.Errorf("name is required")
	}
	if d.Availability == "" {
		d.Availability = Available
	}
	if d.Availability != Available && d.Availability != Busy {
		return fmt.Errorf("invalid availability: %s", d.Availability)
	}
	if d.Password == "" {
		d.Password = s.defaultPassword
	}
	return s.doctors.Create(ctx, d)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return s.doctors.GetByID(ctx, id)
}

// Update replaces roster fields. A blank password keeps the stored one; a
// doctor that somehow has no stored password gets the default.
func (s *Service) Update(ctx context.Context, d *Doctor) error {
	current, err := s.doctors.GetByID(ctx, d.ID)
	if err != nil {
		return err
	}
	if d.Availability != Available && d.Availability != Busy {
		return fmt.Errorf("invalid availability: %s", d.Availability)
	}
	if d.Password == "" {
		d.Password = current.Password
	}
	if d.Password == "" {
		d.Password = s.defaultPassword
	}
	return s.doctors.Update(ctx, d)
}

// Delete removes a doctor. Doctors with appointment history cannot be
// removed because bills and prescriptions hang off those appointments.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := s.doctors.CountAppointments(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		return fmt.Errorf("doctor has %d appointments: %w", n, errs.ErrConflict)
	}
	return s.doctors.Delete(ctx, id)
}

func (s *Service) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	return s.doctors.List(ctx, limit, offset)
}

func (s *Service) ListAvailable(ctx context.Context) ([]*Doctor, error) {
	return s.doctors.ListAvailable(ctx)
}

// RepairPasswords backfills the default password onto doctors with blank
// credentials and returns how many rows changed.
func (s *Service) RepairPasswords(ctx context.Context) (int, error) {
	return s.doctors.FillEmptyPasswords(ctx, s.defaultPassword)
}
