package appointment

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/pkg/errs"
)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockRepo struct {
	appointments map[uuid.UUID]*Appointment
	staleSweeps  int
}

func newMockRepo() *mockRepo {
	return &mockRepo{appointments: make(map[uuid.UUID]*Appointment)}
}

func (m *mockRepo) Create(_ context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	cp := *a
	m.appointments[a.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Appointment, error) {
	a, ok := m.appointments[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *mockRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.appointments[id]
	return ok, nil
}

func (m *mockRepo) List(_ context.Context, _, _ int) ([]*Detail, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, _ uuid.UUID, _, _ int) ([]*Detail, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) ListByDoctor(_ context.Context, _ uuid.UUID, _, _ int) ([]*Detail, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) ListToday(_ context.Context) ([]*Detail, error) { return nil, nil }

func (m *mockRepo) CompleteStale(_ context.Context) (int, error) {
	m.staleSweeps++
	return 0, nil
}

func (m *mockRepo) CompleteForPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	n := 0
	for _, a := range m.appointments {
		if a.PatientID == patientID && a.Status == StatusScheduled {
			a.Status = StatusCompleted
			n++
		}
	}
	return n, nil
}

type mockDoctors struct {
	known map[uuid.UUID]string
}

func (m *mockDoctors) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.known[id]
	return ok, nil
}

func (m *mockDoctors) MarkBusy(_ context.Context, id uuid.UUID) error {
	if _, ok := m.known[id]; !ok {
		return errs.ErrNotFound
	}
	m.known[id] = "Busy"
	return nil
}

type mockPatients struct {
	known map[uuid.UUID]bool
}

func (m *mockPatients) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

func newTestService(repo *mockRepo, doctors *mockDoctors, patients *mockPatients) *Service {
	return NewService(repo, doctors, patients, passthroughTx{}, zerolog.Nop())
}

func TestBookFlipsDoctorToBusy(t *testing.T) {
	repo := newMockRepo()
	docID, patID := uuid.New(), uuid.New()
	doctors := &mockDoctors{known: map[uuid.UUID]string{docID: "Available"}}
	patients := &mockPatients{known: map[uuid.UUID]bool{patID: true}}
	svc := newTestService(repo, doctors, patients)

	a := &Appointment{PatientID: patID, DoctorID: docID, Date: "2026-09-01", Time: "10:00:00"}
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("book: %v", err)
	}
	if a.Status != StatusScheduled {
		t.Errorf("status: got %s, want %s", a.Status, StatusScheduled)
	}
	if doctors.known[docID] != "Busy" {
		t.Errorf("doctor availability: got %s, want Busy", doctors.known[docID])
	}
	if repo.staleSweeps != 1 {
		t.Errorf("stale sweeps: got %d, want 1", repo.staleSweeps)
	}
}

func TestBookUnknownPatient(t *testing.T) {
	repo := newMockRepo()
	docID := uuid.New()
	doctors := &mockDoctors{known: map[uuid.UUID]string{docID: "Available"}}
	patients := &mockPatients{known: map[uuid.UUID]bool{}}
	svc := newTestService(repo, doctors, patients)

	a := &Appointment{PatientID: uuid.New(), DoctorID: docID, Date: "2026-09-01", Time: "10:00:00"}
	if err := svc.Book(context.Background(), a); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
	if len(repo.appointments) != 0 {
		t.Error("appointment created for unknown patient")
	}
	if doctors.known[docID] != "Available" {
		t.Error("doctor flipped despite failed booking")
	}
}

func TestBookUnknownDoctor(t *testing.T) {
	repo := newMockRepo()
	patID := uuid.New()
	doctors := &mockDoctors{known: map[uuid.UUID]string{}}
	patients := &mockPatients{known: map[uuid.UUID]bool{patID: true}}
	svc := newTestService(repo, doctors, patients)

	a := &Appointment{PatientID: patID, DoctorID: uuid.New(), Date: "2026-09-01", Time: "10:00:00"}
	if err := svc.Book(context.Background(), a); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestBookRejectsBadDate(t *testing.T) {
	svc := newTestService(newMockRepo(),
		&mockDoctors{known: map[uuid.UUID]string{}},
		&mockPatients{known: map[uuid.UUID]bool{}})

	a := &Appointment{PatientID: uuid.New(), DoctorID: uuid.New(), Date: "01-09-2026", Time: "10:00:00"}
	if err := svc.Book(context.Background(), a); !errors.Is(err, errs.ErrInvalidDate) {
		t.Fatalf("got %v, want ErrInvalidDate", err)
	}
}

func TestBookNormalizesShortTime(t *testing.T) {
	repo := newMockRepo()
	docID, patID := uuid.New(), uuid.New()
	doctors := &mockDoctors{known: map[uuid.UUID]string{docID: "Available"}}
	patients := &mockPatients{known: map[uuid.UUID]bool{patID: true}}
	svc := newTestService(repo, doctors, patients)

	a := &Appointment{PatientID: patID, DoctorID: docID, Date: "2026-09-01", Time: "10:30"}
	if err := svc.Book(context.Background(), a); err != nil {
		t.Fatalf("book: %v", err)
	}
	if a.Time != "10:30:00" {
		t.Errorf("time: got %s, want 10:30:00", a.Time)
	}
}
