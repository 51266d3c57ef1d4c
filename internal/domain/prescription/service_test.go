package prescription

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/hms/hms/pkg/errs"
)

type mockRepo struct {
	prescriptions map[uuid.UUID]*Prescription
}

func newMockRepo() *mockRepo {
	return &mockRepo{prescriptions: make(map[uuid.UUID]*Prescription)}
}

func (m *mockRepo) Create(_ context.Context, p *Prescription) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	cp := *p
	m.prescriptions[p.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Prescription, error) {
	p, ok := m.prescriptions[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *mockRepo) ListByAppointment(_ context.Context, _ uuid.UUID) ([]*Detail, error) {
	return nil, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, _ uuid.UUID, _, _ int) ([]*Detail, int, error) {
	return nil, 0, nil
}

type existsGate map[uuid.UUID]bool

func (g existsGate) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return g[id], nil
}

func TestCreatePrescription(t *testing.T) {
	repo := newMockRepo()
	apptID, medID := uuid.New(), uuid.New()
	svc := NewService(repo, existsGate{apptID: true}, existsGate{medID: true})

	p := &Prescription{AppointmentID: apptID, MedicineID: medID, Dosage: "1 tablet twice daily"}
	if err := svc.Create(context.Background(), p); err != nil {
		t.Fatalf("create: %v", err)
	}
	if len(repo.prescriptions) != 1 {
		t.Errorf("got %d prescriptions, want 1", len(repo.prescriptions))
	}
}

func TestCreateUnknownAppointment(t *testing.T) {
	repo := newMockRepo()
	medID := uuid.New()
	svc := NewService(repo, existsGate{}, existsGate{medID: true})

	p := &Prescription{AppointmentID: uuid.New(), MedicineID: medID, Dosage: "1 tablet"}
	if err := svc.Create(context.Background(), p); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if len(repo.prescriptions) != 0 {
		t.Error("prescription created for unknown appointment")
	}
}

func TestCreateUnknownMedicine(t *testing.T) {
	repo := newMockRepo()
	apptID := uuid.New()
	svc := NewService(repo, existsGate{apptID: true}, existsGate{})

	p := &Prescription{AppointmentID: apptID, MedicineID: uuid.New(), Dosage: "1 tablet"}
	if err := svc.Create(context.Background(), p); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestCreateRequiresDosage(t *testing.T) {
	apptID, medID := uuid.New(), uuid.New()
	svc := NewService(newMockRepo(), existsGate{apptID: true}, existsGate{medID: true})

	p := &Prescription{AppointmentID: apptID, MedicineID: medID}
	if err := svc.Create(context.Background(), p); err == nil {
		t.Fatal("expected error for missing dosage")
	}
}
