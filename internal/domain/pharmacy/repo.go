package pharmacy

import (
	"context"

	"github.com/google/uuid"
)

type MedicineRepository interface {
	Create(ctx context.Context, m *Medicine) error
	GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error)
	Update(ctx context.Context, m *Medicine) error
	SetStock(ctx context.Context, id uuid.UUID, quantity int) error
	List(ctx context.Context, limit, offset int) ([]*Medicine, int, error)
	ListByStock(ctx context.Context, limit, offset int) ([]*Medicine, int, error)
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

type AlertRepository interface {
	Create(ctx context.Context, a *Alert) error
	ListRecent(ctx context.Context, limit int) ([]*Alert, error)
}
