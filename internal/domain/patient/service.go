package patient

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/pkg/errs"
)

type Service struct {
	patients Repository
	now      func() time.Time
}

func NewService(patients Repository) *Service {
	return &Service{patients: patients, now: time.Now}
}

// Register creates a patient record. Email must be unique.
func (s *Service) Register(ctx context.Context, p *Patient) error {
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Email == "" {
		return fmt.Errorf("email is required")
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse(DateLayout, p.DateOfBirth); err != nil {
			return fmt.Errorf("date_of_birth: %w", errs.ErrInvalidDate)
		}
	}

	existing, err := s.patients.GetByEmail(ctx, p.Email)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return err
	}
	if existing != nil {
		return fmt.Errorf("email %s already registered: %w", p.Email, errs.ErrConflict)
	}

	return s.patients.Create(ctx, p)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Patient, error) {
	return s.patients.GetByID(ctx, id)
}

// GetWithAge returns a patient decorated with the derived age.
func (s *Service) GetWithAge(ctx context.Context, id uuid.UUID) (*WithAge, error) {
	p, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return &WithAge{Patient: *p, Age: ageOrZero(p.DateOfBirth, s.now())}, nil
}

// UpdateProfile replaces the mutable profile fields of an existing patient.
func (s *Service) UpdateProfile(ctx context.Context, p *Patient) error {
	current, err := s.patients.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	if p.DateOfBirth != "" {
		if _, err := time.Parse(DateLayout, p.DateOfBirth); err != nil {
			return fmt.Errorf("date_of_birth: %w", errs.ErrInvalidDate)
		}
	}
	if p.Email != "" && p.Email != current.Email {
		other, err := s.patients.GetByEmail(ctx, p.Email)
		if err != nil && !errors.Is(err, errs.ErrNotFound) {
			return err
		}
		if other != nil {
			return fmt.Errorf("email %s already registered: %w", p.Email, errs.ErrConflict)
		}
	}

	merged := *current
	merged.Name = orKeep(p.Name, current.Name)
	merged.Email = orKeep(p.Email, current.Email)
	merged.Phone = orKeep(p.Phone, current.Phone)
	merged.Address = orKeep(p.Address, current.Address)
	merged.DateOfBirth = orKeep(p.DateOfBirth, current.DateOfBirth)
	merged.Gender = orKeep(p.Gender, current.Gender)
	merged.EmergencyContact = orKeep(p.EmergencyContact, current.EmergencyContact)
	merged.MedicalHistory = orKeep(p.MedicalHistory, current.MedicalHistory)

	return s.patients.Update(ctx, &merged)
}

// List returns patients with derived ages.
func (s *Service) List(ctx context.Context, limit, offset int) ([]*WithAge, int, error) {
	items, total, err := s.patients.List(ctx, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return s.decorate(items), total, nil
}

// ListByDoctor returns the patients that have at least one appointment with
// the given doctor.
func (s *Service) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*WithAge, int, error) {
	items, total, err := s.patients.ListByDoctor(ctx, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	return s.decorate(items), total, nil
}

func (s *Service) decorate(items []*Patient) []*WithAge {
	asOf := s.now()
	out := make([]*WithAge, 0, len(items))
	for _, p := range items {
		out = append(out, &WithAge{Patient: *p, Age: ageOrZero(p.DateOfBirth, asOf)})
	}
	return out
}

func orKeep(updated, current string) string {
	if updated == "" {
		return current
	}
	return updated
}
