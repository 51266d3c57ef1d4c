package pharmacy

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/pkg/errs"
)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockMedicineRepo struct {
	medicines map[uuid.UUID]*Medicine
}

func newMockMedicineRepo() *mockMedicineRepo {
	return &mockMedicineRepo{medicines: make(map[uuid.UUID]*Medicine)}
}

func (m *mockMedicineRepo) Create(_ context.Context, med *Medicine) error {
	if med.ID == uuid.Nil {
		med.ID = uuid.New()
	}
	cp := *med
	m.medicines[med.ID] = &cp
	return nil
}

func (m *mockMedicineRepo) GetByID(_ context.Context, id uuid.UUID) (*Medicine, error) {
	med, ok := m.medicines[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *med
	return &cp, nil
}

func (m *mockMedicineRepo) Update(_ context.Context, med *Medicine) error {
	if _, ok := m.medicines[med.ID]; !ok {
		return errs.ErrNotFound
	}
	cp := *med
	m.medicines[med.ID] = &cp
	return nil
}

func (m *mockMedicineRepo) SetStock(_ context.Context, id uuid.UUID, quantity int) error {
	med, ok := m.medicines[id]
	if !ok {
		return errs.ErrNotFound
	}
	med.StockQuantity = quantity
	return nil
}

func (m *mockMedicineRepo) List(_ context.Context, _, _ int) ([]*Medicine, int, error) {
	return nil, 0, nil
}

func (m *mockMedicineRepo) ListByStock(_ context.Context, _, _ int) ([]*Medicine, int, error) {
	return nil, 0, nil
}

func (m *mockMedicineRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	_, ok := m.medicines[id]
	return ok, nil
}

type mockAlertRepo struct {
	alerts []*Alert
}

func (m *mockAlertRepo) Create(_ context.Context, a *Alert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	a.CreatedAt = time.Now()
	cp := *a
	m.alerts = append(m.alerts, &cp)
	return nil
}

func (m *mockAlertRepo) ListRecent(_ context.Context, limit int) ([]*Alert, error) {
	out := make([]*Alert, 0, limit)
	for i := len(m.alerts) - 1; i >= 0 && len(out) < limit; i-- {
		cp := *m.alerts[i]
		out = append(out, &cp)
	}
	return out, nil
}

func newTestService(meds *mockMedicineRepo, alerts *mockAlertRepo) *Service {
	return NewService(meds, alerts, passthroughTx{}, zerolog.Nop())
}

func addMedicine(t *testing.T, repo *mockMedicineRepo, name string, stock int) uuid.UUID {
	t.Helper()
	m := &Medicine{Name: name, Price: 10, StockQuantity: stock}
	if err := repo.Create(context.Background(), m); err != nil {
		t.Fatalf("create medicine: %v", err)
	}
	return m.ID
}

func TestUpdateStockBelowThresholdRaisesAlert(t *testing.T) {
	meds := newMockMedicineRepo()
	alerts := &mockAlertRepo{}
	svc := newTestService(meds, alerts)
	id := addMedicine(t, meds, "Paracetamol", 50)

	recent, err := svc.UpdateStock(context.Background(), id, 5)
	if err != nil {
		t.Fatalf("update stock: %v", err)
	}
	if len(alerts.alerts) != 1 {
		t.Fatalf("got %d alerts, want 1", len(alerts.alerts))
	}
	if got, want := alerts.alerts[0].Message, "Low stock alert for Paracetamol"; got != want {
		t.Errorf("alert message: got %q, want %q", got, want)
	}
	if len(recent) != 1 {
		t.Errorf("got %d recent alerts, want 1", len(recent))
	}
	if meds.medicines[id].StockQuantity != 5 {
		t.Errorf("stock: got %d, want 5", meds.medicines[id].StockQuantity)
	}
}

func TestUpdateStockAtThresholdStaysSilent(t *testing.T) {
	meds := newMockMedicineRepo()
	alerts := &mockAlertRepo{}
	svc := newTestService(meds, alerts)
	id := addMedicine(t, meds, "Paracetamol", 50)

	if _, err := svc.UpdateStock(context.Background(), id, LowStockThreshold); err != nil {
		t.Fatalf("update stock: %v", err)
	}
	if len(alerts.alerts) != 0 {
		t.Errorf("got %d alerts, want 0", len(alerts.alerts))
	}
}

func TestUpdateStockAboveThresholdStaysSilent(t *testing.T) {
	meds := newMockMedicineRepo()
	alerts := &mockAlertRepo{}
	svc := newTestService(meds, alerts)
	id := addMedicine(t, meds, "Paracetamol", 50)

	if _, err := svc.UpdateStock(context.Background(), id, 15); err != nil {
		t.Fatalf("update stock: %v", err)
	}
	if len(alerts.alerts) != 0 {
		t.Errorf("got %d alerts, want 0", len(alerts.alerts))
	}
}

func TestEveryLowWriteRaisesAnAlert(t *testing.T) {
	meds := newMockMedicineRepo()
	alerts := &mockAlertRepo{}
	svc := newTestService(meds, alerts)
	id := addMedicine(t, meds, "Paracetamol", 50)
	ctx := context.Background()

	if _, err := svc.UpdateStock(ctx, id, 5); err != nil {
		t.Fatalf("first update: %v", err)
	}
	if _, err := svc.UpdateStock(ctx, id, 3); err != nil {
		t.Fatalf("second update: %v", err)
	}
	if len(alerts.alerts) != 2 {
		t.Errorf("got %d alerts, want 2", len(alerts.alerts))
	}
}

func TestUpdateStockUnknownMedicine(t *testing.T) {
	svc := newTestService(newMockMedicineRepo(), &mockAlertRepo{})
	if _, err := svc.UpdateStock(context.Background(), uuid.New(), 5); err == nil {
		t.Fatal("expected error for unknown medicine")
	}
}

func TestUpdateStockRejectsNegative(t *testing.T) {
	meds := newMockMedicineRepo()
	svc := newTestService(meds, &mockAlertRepo{})
	id := addMedicine(t, meds, "Paracetamol", 50)

	if _, err := svc.UpdateStock(context.Background(), id, -1); err == nil {
		t.Fatal("expected error for negative stock")
	}
	if meds.medicines[id].StockQuantity != 50 {
		t.Errorf("stock changed: got %d, want 50", meds.medicines[id].StockQuantity)
	}
}
