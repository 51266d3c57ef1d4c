package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/auth"
	"github.com/hms/hms/pkg/errs"
)

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type mockUsers map[string]*UserRecord // key: username|password|role

func (m mockUsers) FindByCredentials(_ context.Context, username, password, role string) (*UserRecord, error) {
	u, ok := m[username+"|"+password+"|"+role]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return u, nil
}

type mockDoctors struct {
	records []*DoctorRecord
}

func (m *mockDoctors) FindByNameAndPassword(_ context.Context, name, password string) (*DoctorRecord, error) {
	for _, d := range m.records {
		if d.Name == name && d.Password == password {
			return d, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockDoctors) ListAll(_ context.Context) ([]*DoctorRecord, error) {
	return m.records, nil
}

func (m *mockDoctors) FillEmptyPasswords(_ context.Context, password string) (int, error) {
	n := 0
	for _, d := range m.records {
		if d.Password == "" {
			d.Password = password
			n++
		}
	}
	return n, nil
}

type mockPatients struct {
	records     []*PatientRecord
	provisioned []*NewPatient
}

func (m *mockPatients) FindByEmailAndPhone(_ context.Context, email, phone string) (*PatientRecord, error) {
	for _, p := range m.records {
		if p.Email == email && p.Phone == phone {
			return p, nil
		}
	}
	return nil, errs.ErrNotFound
}

func (m *mockPatients) Provision(_ context.Context, p *NewPatient) (*PatientRecord, error) {
	m.provisioned = append(m.provisioned, p)
	rec := &PatientRecord{ID: uuid.New(), Name: p.Name, Email: p.Email, Phone: p.Phone}
	m.records = append(m.records, rec)
	return rec, nil
}

func newTestService(users mockUsers, doctors *mockDoctors, patients *mockPatients) *Service {
	tokens := auth.NewTokenIssuer([]byte("test-secret"), time.Hour)
	return NewService(users, doctors, patients, "doc123", tokens, passthroughTx{}, zerolog.Nop())
}

func TestStaffLogin(t *testing.T) {
	users := mockUsers{
		"admin|admin123|admin": {ID: uuid.New(), Username: "admin", Name: "System Admin", Role: "admin"},
	}
	svc := newTestService(users, &mockDoctors{}, &mockPatients{})

	ident, token, err := svc.Login(context.Background(), "admin", "admin", "admin123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if ident.Role != RoleAdmin {
		t.Errorf("role: got %s, want admin", ident.Role)
	}
	if token == "" {
		t.Error("empty token")
	}
}

func TestStaffLoginWrongRole(t *testing.T) {
	users := mockUsers{
		"admin|admin123|admin": {ID: uuid.New(), Username: "admin", Name: "System Admin", Role: "admin"},
	}
	svc := newTestService(users, &mockDoctors{}, &mockPatients{})

	_, _, err := svc.Login(context.Background(), "billing", "admin", "admin123")
	if !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestUnknownRole(t *testing.T) {
	svc := newTestService(mockUsers{}, &mockDoctors{}, &mockPatients{})
	_, _, err := svc.Login(context.Background(), "superuser", "x", "y")
	if !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestDoctorLoginExactMatch(t *testing.T) {
	doctors := &mockDoctors{records: []*DoctorRecord{
		{ID: uuid.New(), Name: "Dr. Rao", Email: "rao@hospital.test", Password: "doc123"},
	}}
	svc := newTestService(mockUsers{}, doctors, &mockPatients{})

	ident, _, err := svc.Login(context.Background(), "doctor", "Dr. Rao", "doc123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if ident.Role != RoleDoctor {
		t.Errorf("role: got %s, want doctor", ident.Role)
	}
}

func TestDoctorLoginTrimsAndRepairs(t *testing.T) {
	doctors := &mockDoctors{records: []*DoctorRecord{
		{ID: uuid.New(), Name: "  Dr. Rao ", Email: "rao@hospital.test", Password: ""},
	}}
	svc := newTestService(mockUsers{}, doctors, &mockPatients{})

	// Blank stored password falls back to the default; names match trimmed.
	ident, _, err := svc.Login(context.Background(), "doctor", " Dr. Rao ", "doc123")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if ident.DisplayName != "  Dr. Rao " {
		t.Errorf("display name: got %q", ident.DisplayName)
	}
}

func TestDoctorLoginWrongPassword(t *testing.T) {
	doctors := &mockDoctors{records: []*DoctorRecord{
		{ID: uuid.New(), Name: "Dr. Rao", Password: "doc123"},
	}}
	svc := newTestService(mockUsers{}, doctors, &mockPatients{})

	_, _, err := svc.Login(context.Background(), "doctor", "Dr. Rao", "wrong")
	if !errors.Is(err, errs.ErrInvalidCredentials) {
		t.Fatalf("got %v, want ErrInvalidCredentials", err)
	}
}

func TestPatientLoginProvisionsOnce(t *testing.T) {
	patients := &mockPatients{}
	svc := newTestService(mockUsers{}, &mockDoctors{}, patients)
	ctx := context.Background()

	first, _, err := svc.Login(ctx, "patient", "john.doe@example.com", "555-0101")
	if err != nil {
		t.Fatalf("first login: %v", err)
	}
	if len(patients.provisioned) != 1 {
		t.Fatalf("got %d provisions, want 1", len(patients.provisioned))
	}

	second, _, err := svc.Login(ctx, "patient", "john.doe@example.com", "555-0101")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	if len(patients.provisioned) != 1 {
		t.Errorf("second login provisioned again")
	}
	if first.ID != second.ID {
		t.Errorf("ids differ: %s vs %s", first.ID, second.ID)
	}
}

func TestPatientProvisionDefaults(t *testing.T) {
	patients := &mockPatients{}
	svc := newTestService(mockUsers{}, &mockDoctors{}, patients)

	ident, _, err := svc.Login(context.Background(), "patient", "john.doe@example.com", "secret42")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if ident.DisplayName != "John.Doe" {
		t.Errorf("display name: got %q, want John.Doe", ident.DisplayName)
	}

	p := patients.provisioned[0]
	if p.Phone != "secret42" || p.EmergencyContact != "secret42" {
		t.Errorf("phone/emergency contact not taken from password: %+v", p)
	}
	if p.DateOfBirth != "2000-01-01" || p.Gender != "Other" {
		t.Errorf("defaults wrong: %+v", p)
	}
	if p.Address != "Not specified" || p.MedicalHistory != "No medical history" {
		t.Errorf("defaults wrong: %+v", p)
	}
}

func TestTitleCase(t *testing.T) {
	cases := map[string]string{
		"john":      "John",
		"john.doe":  "John.Doe",
		"MARY_ANNE": "Mary_Anne",
		"a1b":       "A1B",
	}
	for in, want := range cases {
		if got := titleCase(in); got != want {
			t.Errorf("titleCase(%q): got %q, want %q", in, got, want)
		}
	}
}
