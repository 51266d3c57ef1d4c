// Package doctor manages the doctor roster: onboarding with default
// credentials, availability, and removal guarded by appointment history.
package doctor

import (
	"time"

	"github.com/google/uuid"
)

// Availability values. A doctor flips to Busy when an appointment is booked
// and back to Available when an administrator updates the roster entry.
const (
	Available = "Available"
	Busy      = "Busy"
)

type Doctor struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Specialization string    `json:"specialization"`
	Phone          string    `json:"phone"`
	Email          string    `json:"email"`
	Availability   string    `json:"availability"`
	Password       string    `json:"password,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}
