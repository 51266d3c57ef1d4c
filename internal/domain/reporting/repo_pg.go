package reporting

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/domain/appointment"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/pharmacy"
)

// OverviewRepository aggregates the dashboard counters.
type OverviewRepository interface {
	Overview(ctx context.Context) (*Overview, error)
}

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) OverviewRepository { return &repoPG{pool: pool} }

func (r *repoPG) Overview(ctx context.Context) (*Overview, error) {
	var o Overview
	err := r.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM doctors),
			(SELECT COUNT(*) FROM appointments),
			(SELECT COUNT(*) FROM appointments WHERE status = $1),
			(SELECT COUNT(*) FROM appointments
				WHERE appointment_date = to_char(now(), 'YYYY-MM-DD')),
			(SELECT COUNT(*) FROM medicines),
			(SELECT COUNT(*) FROM medicines WHERE stock_quantity < $2),
			(SELECT COALESCE(SUM(total_amount), 0) FROM bills
				WHERE payment_status = $3),
			(SELECT COALESCE(SUM(total_amount), 0) FROM bills
				WHERE payment_status <> $3)`,
		appointment.StatusScheduled, pharmacy.LowStockThreshold, billing.StatusPaid).
		Scan(&o.TotalPatients, &o.TotalDoctors, &o.TotalAppointments,
			&o.ScheduledAppointments, &o.TodayAppointments,
			&o.TotalMedicines, &o.LowStockMedicines,
			&o.PaidRevenue, &o.PendingBillsAmount)
	if err != nil {
		return nil, err
	}
	return &o, nil
}
