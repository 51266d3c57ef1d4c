package doctor

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

type repoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository { return &repoPG{pool: pool} }

func (r *repoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const doctorCols = `id, name, specialization, phone, email, availability, password, created_at`

func scanDoctor(row pgx.Row) (*Doctor, error) {
	var d Doctor
	err := row.Scan(&d.ID, &d.Name, &d.Specialization, &d.Phone, &d.Email,
		&d.Availability, &d.Password, &d.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, d *Doctor) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO doctors (id, name, specialization, phone, email, availability, password)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		d.ID, d.Name, d.Specialization, d.Phone, d.Email, d.Availability, d.Password)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Doctor, error) {
	return scanDoctor(r.conn(ctx).QueryRow(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE id = $1`, id))
}

func (r *repoPG) Update(ctx context.Context, d *Doctor) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE doctors
		SET name = $2, specialization = $3, phone = $4, email = $5,
			availability = $6, password = $7
		WHERE id = $1`,
		d.ID, d.Name, d.Specialization, d.Phone, d.Email, d.Availability, d.Password)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repoPG) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Doctor, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM doctors`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count doctors: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors ORDER BY name LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, d)
	}
	return out, total, rows.Err()
}

func (r *repoPG) ListAvailable(ctx context.Context) ([]*Doctor, error) {
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+doctorCols+` FROM doctors WHERE availability = $1 ORDER BY name`, Available)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Doctor
	for rows.Next() {
		d, err := scanDoctor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM doctors WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *repoPG) CountAppointments(ctx context.Context, id uuid.UUID) (int, error) {
	var n int
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`, id).Scan(&n)
	return n, err
}

func (r *repoPG) MarkBusy(ctx context.Context, id uuid.UUID) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET availability = $2 WHERE id = $1`, id, Busy)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repoPG) FillEmptyPasswords(ctx context.Context, password string) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE doctors SET password = $1 WHERE password IS NULL OR password = ''`, password)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
