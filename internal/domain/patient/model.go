// Package patient manages patient demographics: registration, profile
// updates, and the derived age used across lists and record bundles.
package patient

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/hms/hms/pkg/errs"
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

type Patient struct {
	ID               uuid.UUID `json:"id"`
	Name             string    `json:"name"`
	Email            string    `json:"email"`
	Phone            string    `json:"phone"`
	Address          string    `json:"address"`
	DateOfBirth      string    `json:"date_of_birth"`
	Gender           string    `json:"gender"`
	EmergencyContact string    `json:"emergency_contact"`
	MedicalHistory   string    `json:"medical_history"`
	CreatedAt        time.Time `json:"created_at"`
}

// WithAge decorates a patient with the age derived at read time. Age is
// never stored.
type WithAge struct {
	Patient
	Age int `json:"age"`
}

// Age computes whole years elapsed between dateOfBirth and asOf, counting
// a year only once its birthday has passed.
func Age(dateOfBirth string, asOf time.Time) (int, error) {
	dob, err := time.Parse(DateLayout, dateOfBirth)
	if err != nil {
		return 0, fmt.Errorf("parse date of birth %q: %w", dateOfBirth, errs.ErrInvalidDate)
	}

	years := asOf.Year() - dob.Year()
	if asOf.Month() < dob.Month() ||
		(asOf.Month() == dob.Month() && asOf.Day() < dob.Day()) {
		years--
	}
	return years, nil
}

// ageOrZero is the list-view fallback: rows with an unparseable birth date
// render as age 0 instead of failing the whole listing.
func ageOrZero(dateOfBirth string, asOf time.Time) int {
	years, err := Age(dateOfBirth, asOf)
	if err != nil {
		return 0
	}
	return years
}
