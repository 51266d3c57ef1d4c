package doctor

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/hms/hms/pkg/errs"
)

type mockRepo struct {
	doctors      map[uuid.UUID]*Doctor
	appointments map[uuid.UUID]int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		doctors:      make(map[uuid.UUID]*Doctor),
		appointments: make(map[uuid.UUID]int),
	}
}

func (m *mockRepo) Create(_ context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Doctor, error) {
	d, ok := m.doctors[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *mockRepo) Update(_ context.Context, d *Doctor) error {
	if _, ok := m.doctors[d.ID]; !ok {
		return errs.ErrNotFound
	}
	cp := *d
	m.doctors[d.ID] = &cp
	return nil
}

func (m *mockRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := m.doctors[id]; !ok {
		return errs.ErrNotFound
	}
	delete(m.doctors, id)
	return nil
}

func (m *mockRepo) List(_ context.Context, _, _ int) ([]*Doctor, int, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		cp := *d
		out = append(out, &cp)
	}
	return out, len(out), nil
}

func (m *mockRepo) ListAvailable(_ context.Context) ([]*Doctor, error) {
	var out []*Doctor
	for _, d := range m.doctors {
		if d.Availability == Available {
			cp := *d
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *mockRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.doctors[id]
	return ok, nil
}

func (m *mockRepo) CountAppointments(_ context.Context, id uuid.UUID) (int, error) {
	return m.appointments[id], nil
}

func (m *mockRepo) MarkBusy(_ context.Context, id uuid.UUID) error {
	d, ok := m.doctors[id]
	if !ok {
		return errs.ErrNotFound
	}
	d.Availability = Busy
	return nil
}

func (m *mockRepo) FillEmptyPasswords(_ context.Context, password string) (int, error) {
	n := 0
	for _, d := range m.doctors {
		if d.Password == "" {
			d.Password = password
			n++
		}
	}
	return n, nil
}

func TestCreateAppliesDefaults(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, "doc123")

	d := &Doctor{Name: "Dr. Rao", Specialization: "Cardiology"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Availability != Available {
		t.Errorf("availability: got %s, want %s", d.Availability, Available)
	}
	if d.Password != "doc123" {
		t.Errorf("password: got %s, want doc123", d.Password)
	}
}

func TestCreateKeepsExplicitPassword(t *testing.T) {
	svc := NewService(newMockRepo(), "doc123")
	d := &Doctor{Name: "Dr. Rao", Password: "secret"}
	if err := svc.Create(context.Background(), d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if d.Password != "secret" {
		t.Errorf("password: got %s, want secret", d.Password)
	}
}

func TestDeleteRefusedWithAppointments(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, "doc123")
	ctx := context.Background()

	d := &Doctor{Name: "Dr. Rao"}
	if err := svc.Create(ctx, d); err != nil {
		t.Fatalf("create: %v", err)
	}
	repo.appointments[d.ID] = 2

	if err := svc.Delete(ctx, d.ID); !errors.Is(err, errs.ErrConflict) {
		t.Fatalf("got %v, want ErrConflict", err)
	}
	if _, ok := repo.doctors[d.ID]; !ok {
		t.Error("doctor was deleted despite appointments")
	}
}

func TestDeleteWithoutAppointments(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, "doc123")
	ctx := context.Background()

	d := &Doctor{Name: "Dr. Rao"}
	if err := svc.Create(ctx, d); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.Delete(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.doctors) != 0 {
		t.Error("doctor not deleted")
	}
}

func TestRepairPasswords(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, "doc123")
	ctx := context.Background()

	repo.doctors[uuid.New()] = &Doctor{Name: "Blank", Availability: Available}
	repo.doctors[uuid.New()] = &Doctor{Name: "Set", Availability: Available, Password: "x"}

	n, err := svc.RepairPasswords(ctx)
	if err != nil {
		t.Fatalf("repair: %v", err)
	}
	if n != 1 {
		t.Errorf("repaired: got %d, want 1", n)
	}
}

func TestUpdateBlankPasswordKeepsStored(t *testing.T) {
	repo := newMockRepo()
	svc := NewService(repo, "doc123")
	ctx := context.Background()

	d := &Doctor{Name: "Dr. Rao", Password: "secret"}
	if err := svc.Create(ctx, d); err != nil {
		t.Fatalf("create: %v", err)
	}

	update := &Doctor{ID: d.ID, Name: "Dr. Rao", Availability: Busy}
	if err := svc.Update(ctx, update); err != nil {
		t.Fatalf("update: %v", err)
	}
	if repo.doctors[d.ID].Password != "secret" {
		t.Errorf("password: got %s, want secret", repo.doctors[d.ID].Password)
	}
	if repo.doctors[d.ID].Availability != Busy {
		t.Errorf("availability: got %s, want Busy", repo.doctors[d.ID].Availability)
	}
}
