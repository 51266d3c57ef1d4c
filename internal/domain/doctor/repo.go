package doctor

import (
	"context"

	"github.com/google/uuid"
)

type Repository interface {
	Create(ctx context.Context, d *Doctor) error
	GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
	Update(ctx context.Context, d *Doctor) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, limit, offset int) ([]*Doctor, int, error)
	ListAvailable(ctx context.Context) ([]*Doctor, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)

	// CountAppointments reports how many appointments reference the doctor.
	// Deletion is refused while the count is non-zero.
	CountAppointments(ctx context.Context, id uuid.UUID) (int, error)

	// MarkBusy flips availability as part of the booking transaction.
	MarkBusy(ctx context.Context, id uuid.UUID) error

	// FillEmptyPasswords assigns password to every doctor whose stored
	// password is blank and returns the number of rows repaired.
	FillEmptyPasswords(ctx context.Context, password string) (int, error)
}
