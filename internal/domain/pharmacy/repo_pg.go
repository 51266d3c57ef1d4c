package pharmacy

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hms/hms/internal/platform/db"
	"github.com/hms/hms/pkg/errs"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

// =========== Medicine Repository ===========

type medicineRepoPG struct{ pool *pgxpool.Pool }

func NewMedicineRepoPG(pool *pgxpool.Pool) MedicineRepository { return &medicineRepoPG{pool: pool} }

func (r *medicineRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const medicineCols = `id, name, description, price, stock_quantity, manufacturer, created_at`

func scanMedicine(row pgx.Row) (*Medicine, error) {
	var m Medicine
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.StockQuantity,
		&m.Manufacturer, &m.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &m, err
}

func (r *medicineRepoPG) Create(ctx context.Context, m *Medicine) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO medicines (id, name, description, price, stock_quantity, manufacturer)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		m.ID, m.Name, m.Description, m.Price, m.StockQuantity, m.Manufacturer)
	return err
}

func (r *medicineRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Medicine, error) {
	return scanMedicine(r.conn(ctx).QueryRow(ctx,
		`SELECT `+medicineCols+` FROM medicines WHERE id = $1`, id))
}

func (r *medicineRepoPG) Update(ctx context.Context, m *Medicine) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE medicines
		SET name = $2, description = $3, price = $4, stock_quantity = $5, manufacturer = $6
		WHERE id = $1`,
		m.ID, m.Name, m.Description, m.Price, m.StockQuantity, m.Manufacturer)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *medicineRepoPG) SetStock(ctx context.Context, id uuid.UUID, quantity int) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE medicines SET stock_quantity = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *medicineRepoPG) List(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return r.list(ctx, `ORDER BY name`, limit, offset)
}

func (r *medicineRepoPG) ListByStock(ctx context.Context, limit, offset int) ([]*Medicine, int, error) {
	return r.list(ctx, `ORDER BY stock_quantity, name`, limit, offset)
}

func (r *medicineRepoPG) list(ctx context.Context, order string, limit, offset int) ([]*Medicine, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM medicines`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count medicines: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+medicineCols+` FROM medicines `+order+` LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Medicine
	for rows.Next() {
		m, err := scanMedicine(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, m)
	}
	return out, total, rows.Err()
}

func (r *medicineRepoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM medicines WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

// =========== Alert Repository ===========

type alertRepoPG struct{ pool *pgxpool.Pool }

func NewAlertRepoPG(pool *pgxpool.Pool) AlertRepository { return &alertRepoPG{pool: pool} }

func (r *alertRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

func (r *alertRepoPG) Create(ctx context.Context, a *Alert) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx,
		`INSERT INTO alerts (id, message, type) VALUES ($1,$2,$3)`,
		a.ID, a.Message, a.Type)
	return err
}

func (r *alertRepoPG) ListRecent(ctx context.Context, limit int) ([]*Alert, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT id, message, type, created_at FROM alerts
		ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Alert
	for rows.Next() {
		var a Alert
		if err := rows.Scan(&a.ID, &a.Message, &a.Type, &a.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, &a)
	}
	return out, rows.Err()
}
