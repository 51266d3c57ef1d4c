package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRecord is a staff account row.
type UserRecord struct {
	ID       uuid.UUID
	Username string
	Name     string
	Role     string
	Email    string
}

// DoctorRecord is the credential slice of a roster row.
type DoctorRecord struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string
}

// PatientRecord is the credential slice of a patient row.
type PatientRecord struct {
	ID    uuid.UUID
	Name  string
	Email string
	Phone string
}

// NewPatient carries the defaults written when a patient is provisioned on
// first login.
type NewPatient struct {
	Name             string
	Email            string
	Phone            string
	Address          string
	DateOfBirth      string
	Gender           string
	EmergencyContact string
	MedicalHistory   string
}

// UserSource resolves staff credentials.
type UserSource interface {
	FindByCredentials(ctx context.Context, username, password, role string) (*UserRecord, error)
}

// DoctorSource exposes the roster to the doctor login fallback.
type DoctorSource interface {
	FindByNameAndPassword(ctx context.Context, name, password string) (*DoctorRecord, error)
	ListAll(ctx context.Context) ([]*DoctorRecord, error)
	FillEmptyPasswords(ctx context.Context, password string) (int, error)
}

// PatientSource looks up and provisions patient logins.
type PatientSource interface {
	FindByEmailAndPhone(ctx context.Context, email, phone string) (*PatientRecord, error)
	Provision(ctx context.Context, p *NewPatient) (*PatientRecord, error)
}
