// Package identity resolves login credentials into an identity and a
// signed token. Each role has its own credential scheme: staff accounts
// live in the users table, doctors authenticate against the roster, and
// patients are provisioned on first login.
package identity

import (
	"github.com/google/uuid"
)

const (
	RoleAdmin        = "admin"
	RoleDoctor       = "doctor"
	RoleReceptionist = "receptionist"
	RolePharmacy     = "pharmacy"
	RoleBilling      = "billing"
	RolePatient      = "patient"
)

// Identity is a resolved login principal.
type Identity struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Role        string    `json:"role"`
	Email       string    `json:"email"`
}
