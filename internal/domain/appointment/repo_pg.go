package appointment

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

const detailQuery = `
	SELECT a.id, a.patient_id, a.doctor_id, a.appointment_date, a.appointment_time,
		a.status, a.notes, a.created_at, p.name, d.name, d.specialization
	FROM appointments a
	JOIN patients p ON p.id = a.patient_id
	JOIN doctors d ON d.id = a.doctor_id`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(&d.ID, &d.PatientID, &d.DoctorID, &d.Date, &d.Time,
		&d.Status, &d.Notes, &d.CreatedAt, &d.PatientName, &d.DoctorName, &d.Specialization)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, a *Appointment) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO appointments (id, patient_id, doctor_id, appointment_date,
			appointment_time, status, notes)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		a.ID, a.PatientID, a.DoctorID, a.Date, a.Time, a.Status, a.Notes)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Appointment, error) {
	var a Appointment
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, patient_id, doctor_id, appointment_date, appointment_time,
			status, notes, created_at
		FROM appointments WHERE id = $1`, id).
		Scan(&a.ID, &a.PatientID, &a.DoctorID, &a.Date, &a.Time,
			&a.Status, &a.Notes, &a.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &a, err
}

func (r *repoPG) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	var ok bool
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM appointments WHERE id = $1)`, id).Scan(&ok)
	return ok, err
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM appointments`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, detailQuery+`
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectDetails(rows)
	return items, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, detailQuery+`
		WHERE a.patient_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectDetails(rows)
	return items, total, err
}

func (r *repoPG) ListByDoctor(ctx context.Context, doctorID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM appointments WHERE doctor_id = $1`, doctorID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count appointments: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, detailQuery+`
		WHERE a.doctor_id = $1
		ORDER BY a.appointment_date DESC, a.appointment_time DESC
		LIMIT $2 OFFSET $3`, doctorID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectDetails(rows)
	return items, total, err
}

func (r *repoPG) ListToday(ctx context.Context) ([]*Detail, error) {
	rows, err := r.conn(ctx).Query(ctx, detailQuery+`
		WHERE a.appointment_date = to_char(now(), 'YYYY-MM-DD')
		ORDER BY a.appointment_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDetails(rows)
}

func (r *repoPG) CompleteStale(ctx context.Context) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments
		SET status = $1
		WHERE status = $2
		  AND to_timestamp(appointment_date || ' ' || appointment_time, 'YYYY-MM-DD HH24:MI:SS')
		      < now() - interval '24 hours'`,
		StatusCompleted, StatusScheduled)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) CompleteForPatient(ctx context.Context, patientID uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE appointments SET status = $1
		WHERE patient_id = $2 AND status = $3`,
		StatusCompleted, patientID, StatusScheduled)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func collectDetails(rows pgx.Rows) ([]*Detail, error) {
	var out []*Detail
	for rows.Next() {
		d, err := scanDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}
