package pharmacy

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/hms/hms/internal/platform/db"
)

// RecentAlertCount is how many alerts a stock update reports back.
const RecentAlertCount = 5

type Service struct {
	medicines MedicineRepository
	alerts    AlertRepository
	tx        db.Manager
	logger    zerolog.Logger
}

func NewService(medicines MedicineRepository, alerts AlertRepository, tx db.Manager, logger zerolog.Logger) *Service {
	return &Service{medicines: medicines, alerts: alerts, tx: tx, logger: logger}
}

func (s *Service) CreateMedicine(ctx context.Context, m *Medicine) error {
	if m.Name == "" {
		return fmt.Errorf("name is required")
	}
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	if m.StockQuantity < 0 {
		return fmt.Errorf("stock_quantity must not be negative")
	}
	return s.medicines.Create(ctx, m)
}

func (s *Service) GetMedicine(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return s.medicines.GetByID(ctx, id)
}

func (s *Service) UpdateMedicine(ctx context.Context, m *Medicine) error {
	if m.Price < 0 {
		return fmt.Errorf("price must not be negative")
	}
	return s.medicines.Update(ctx, m)
}

func (s *Service) ListMedicines(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return s.medicines.List(ctx, limit, offset)
}

// ListByStock returns medicines ordered by ascending stock so the restock
// worklist surfaces the scarcest items first.
func (s *Service) ListByStock(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return s.medicines.ListByStock(ctx, limit, offset)
}

// UpdateStock sets the absolute stock level. Every write that lands below
// the threshold raises an alert, even when stock was already low. The write
// and the alert commit together; the returned slice is the most recent
// alerts after the update.
func (s *Service) UpdateStock(ctx context.Context, id uuid.UUID, quantity int) ([]*Alert, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("stock_quantity must not be negative")
	}

	var recent []*Alert
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		med, err := s.medicines.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.medicines.SetStock(ctx, id, quantity); err != nil {
			return err
		}

		if quantity < LowStockThreshold {
			alert := &Alert{
				Message: fmt.Sprintf("Low stock alert for %s", med.Name),
				Type:    "warning",
			}
			if err := s.alerts.Create(ctx, alert); err != nil {
				return err
			}
			s.logger.Warn().
				Str("medicine", med.Name).
				Int("stock", quantity).
				Msg("low stock")
		}

		recent, err = s.alerts.ListRecent(ctx, RecentAlertCount)
		return err
	})
	if err != nil {
		return nil, err
	}
	return recent, nil
}

func (s *Service) RecentAlerts(ctx context.Context) ([]*Alert, error) {
	return s.alerts.ListRecent(ctx, RecentAlertCount)
}
