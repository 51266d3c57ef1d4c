package billing

import (
	"context"
	"errors"
	"fmt"
	"math"
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
	bills map[uuid.UUID]*Bill
	lines map[uuid.UUID][]*Line

	sumErr error
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		bills: make(map[uuid.UUID]*Bill),
		lines: make(map[uuid.UUID][]*Line),
	}
}

func (m *mockRepo) Create(_ context.Context, b *Bill) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	cp := *b
	m.bills[b.ID] = &cp
	return nil
}

func (m *mockRepo) GetByID(_ context.Context, id uuid.UUID) (*Bill, error) {
	b, ok := m.bills[id]
	if !ok {
		return nil, errs.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (m *mockRepo) RecordPayment(_ context.Context, id uuid.UUID, method string) error {
	b, ok := m.bills[id]
	if !ok {
		return errs.ErrNotFound
	}
	b.PaymentStatus = StatusPaid
	b.PaymentMethod = method
	return nil
}

func (m *mockRepo) UpdateTotal(_ context.Context, id uuid.UUID, total float64) error {
	b, ok := m.bills[id]
	if !ok {
		return errs.ErrNotFound
	}
	b.TotalAmount = total
	return nil
}

func (m *mockRepo) List(_ context.Context, _, _ int) ([]*Bill, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) ListByPatient(_ context.Context, _ uuid.UUID, _, _ int) ([]*Bill, int, error) {
	return nil, 0, nil
}

func (m *mockRepo) PatientName(_ context.Context, _ uuid.UUID) (string, error) {
	return "Test Patient", nil
}

func (m *mockRepo) LinesForAppointment(_ context.Context, appointmentID uuid.UUID) ([]*Line, error) {
	return m.lines[appointmentID], nil
}

func (m *mockRepo) SumByPatient(_ context.Context, patientID uuid.UUID) (float64, error) {
	if m.sumErr != nil {
		return 0, m.sumErr
	}
	var sum float64
	for _, b := range m.bills {
		if b.PatientID == patientID {
			sum += b.TotalAmount
		}
	}
	return sum, nil
}

func (m *mockRepo) MarkUnpaidPending(_ context.Context, patientID uuid.UUID) (int, error) {
	n := 0
	for _, b := range m.bills {
		if b.PatientID == patientID && b.PaymentStatus != StatusPaid {
			b.PaymentStatus = StatusPending
			n++
		}
	}
	return n, nil
}

func (m *mockRepo) MonthlyReport(_ context.Context, month, year int) (*MonthlyReport, error) {
	return &MonthlyReport{Month: month, Year: year}, nil
}

func (m *mockRepo) RevenueSummary(_ context.Context) (*RevenueSummary, error) {
	return &RevenueSummary{}, nil
}

type mockAppointments struct {
	known     map[uuid.UUID]bool
	scheduled map[uuid.UUID]int
}

func (m *mockAppointments) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m.known[id], nil
}

func (m *mockAppointments) CompleteForPatient(_ context.Context, patientID uuid.UUID) (int, error) {
	n := m.scheduled[patientID]
	m.scheduled[patientID] = 0
	return n, nil
}

type mockPatients map[uuid.UUID]bool

func (m mockPatients) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	return m[id], nil
}

func newTestService(repo *mockRepo, appts *mockAppointments, patients mockPatients) *Service {
	return NewService(repo, appts, patients, passthroughTx{}, zerolog.Nop())
}

func TestApplyTax(t *testing.T) {
	if got := ApplyTax(100); got != 118 {
		t.Errorf("ApplyTax(100): got %v, want 118", got)
	}
	if got := ApplyTax(0); got != 0 {
		t.Errorf("ApplyTax(0): got %v, want 0", got)
	}
}

func TestDecomposeLinkedBill(t *testing.T) {
	b := Decompose(true, []float64{50.5, 25})
	if b.ConsultationFee != 300 {
		t.Errorf("consultation: got %v, want 300", b.ConsultationFee)
	}
	if b.MedicinesTotal != 75.5 {
		t.Errorf("medicines: got %v, want 75.5", b.MedicinesTotal)
	}
	if b.Subtotal != 375.5 {
		t.Errorf("subtotal: got %v, want 375.5", b.Subtotal)
	}
	if b.Tax != 67.59 {
		t.Errorf("tax: got %v, want 67.59", b.Tax)
	}
	if b.Total != 443.09 {
		t.Errorf("total: got %v, want 443.09", b.Total)
	}
}

func TestDecomposeUnlinkedBillHasNoConsultationFee(t *testing.T) {
	b := Decompose(false, nil)
	if b.ConsultationFee != 0 || b.Subtotal != 0 || b.Tax != 0 || b.Total != 0 {
		t.Errorf("unlinked empty decomposition not zero: %+v", b)
	}
}

func TestDecomposeAdditionInvariant(t *testing.T) {
	cases := [][]float64{
		nil,
		{10},
		{19.99, 0.01},
		{3.33, 3.33, 3.34},
		{123.45, 67.89, 0.5},
	}
	for _, prices := range cases {
		b := Decompose(true, prices)
		if diff := math.Abs(b.Subtotal + b.Tax - b.Total); diff > 0.005 {
			t.Errorf("prices %v: subtotal %v + tax %v != total %v", prices, b.Subtotal, b.Tax, b.Total)
		}
		again := Decompose(true, prices)
		if again != b {
			t.Errorf("prices %v: decomposition not stable: %+v vs %+v", prices, b, again)
		}
	}
}

func TestGenerateUnknownPatient(t *testing.T) {
	svc := newTestService(newMockRepo(),
		&mockAppointments{known: map[uuid.UUID]bool{}, scheduled: map[uuid.UUID]int{}},
		mockPatients{})

	b := &Bill{PatientID: uuid.New(), TotalAmount: 100}
	if err := svc.Generate(context.Background(), b); !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestGenerateStartsPending(t *testing.T) {
	repo := newMockRepo()
	patID := uuid.New()
	svc := newTestService(repo,
		&mockAppointments{known: map[uuid.UUID]bool{}, scheduled: map[uuid.UUID]int{}},
		mockPatients{patID: true})

	b := &Bill{PatientID: patID, TotalAmount: 100, PaymentStatus: StatusPaid}
	if err := svc.Generate(context.Background(), b); err != nil {
		t.Fatalf("generate: %v", err)
	}
	if b.PaymentStatus != StatusPending {
		t.Errorf("status: got %s, want %s", b.PaymentStatus, StatusPending)
	}
}

func TestRecordPaymentUnknownBill(t *testing.T) {
	svc := newTestService(newMockRepo(),
		&mockAppointments{known: map[uuid.UUID]bool{}, scheduled: map[uuid.UUID]int{}},
		mockPatients{})

	err := svc.RecordPayment(context.Background(), uuid.New(), "cash")
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestRecomputeTotalUsesDecomposition(t *testing.T) {
	repo := newMockRepo()
	patID, apptID := uuid.New(), uuid.New()
	repo.lines[apptID] = []*Line{{MedicineName: "Paracetamol", Price: 100}}
	svc := newTestService(repo,
		&mockAppointments{known: map[uuid.UUID]bool{apptID: true}, scheduled: map[uuid.UUID]int{}},
		mockPatients{patID: true})

	b := &Bill{PatientID: patID, AppointmentID: &apptID, TotalAmount: 1}
	if err := svc.Generate(context.Background(), b); err != nil {
		t.Fatalf("generate: %v", err)
	}

	breakdown, err := svc.RecomputeTotal(context.Background(), b.ID)
	if err != nil {
		t.Fatalf("recompute: %v", err)
	}
	// 300 + 100 = 400 subtotal, 72 tax, 472 total.
	if breakdown.Total != 472 {
		t.Errorf("total: got %v, want 472", breakdown.Total)
	}
	if repo.bills[b.ID].TotalAmount != 472 {
		t.Errorf("stored total: got %v, want 472", repo.bills[b.ID].TotalAmount)
	}
}

func TestDischarge(t *testing.T) {
	repo := newMockRepo()
	patID := uuid.New()
	appts := &mockAppointments{known: map[uuid.UUID]bool{}, scheduled: map[uuid.UUID]int{patID: 2}}
	svc := newTestService(repo, appts, mockPatients{patID: true})
	ctx := context.Background()

	paid := &Bill{PatientID: patID, TotalAmount: 472}
	unpaid := &Bill{PatientID: patID, TotalAmount: 118}
	for _, b := range []*Bill{paid, unpaid} {
		if err := svc.Generate(ctx, b); err != nil {
			t.Fatalf("generate: %v", err)
		}
	}
	if err := svc.RecordPayment(ctx, paid.ID, "card"); err != nil {
		t.Fatalf("record payment: %v", err)
	}

	summary, err := svc.Discharge(ctx, patID)
	if err != nil {
		t.Fatalf("discharge: %v", err)
	}
	if summary.CompletedAppointments != 2 {
		t.Errorf("completed: got %d, want 2", summary.CompletedAppointments)
	}
	// Total covers every bill, paid ones included.
	if summary.TotalCharges != 590 {
		t.Errorf("total charges: got %v, want 590", summary.TotalCharges)
	}
	if repo.bills[paid.ID].PaymentStatus != StatusPaid {
		t.Errorf("paid bill flipped to %s", repo.bills[paid.ID].PaymentStatus)
	}
	if repo.bills[unpaid.ID].PaymentStatus != StatusPending {
		t.Errorf("unpaid bill: got %s, want Pending", repo.bills[unpaid.ID].PaymentStatus)
	}
}

func TestDischargeUnknownPatient(t *testing.T) {
	svc := newTestService(newMockRepo(),
		&mockAppointments{known: map[uuid.UUID]bool{}, scheduled: map[uuid.UUID]int{}},
		mockPatients{})

	_, err := svc.Discharge(context.Background(), uuid.New())
	if !errors.Is(err, errs.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestDischargeWorkflowFailure(t *testing.T) {
	repo := newMockRepo()
	repo.sumErr = fmt.Errorf("connection reset")
	patID := uuid.New()
	svc := newTestService(repo,
		&mockAppointments{known: map[uuid.UUID]bool{}, scheduled: map[uuid.UUID]int{patID: 1}},
		mockPatients{patID: true})

	_, err := svc.Discharge(context.Background(), patID)
	var de *errs.DischargeError
	if !errors.As(err, &de) {
		t.Fatalf("got %v, want DischargeError", err)
	}
}
