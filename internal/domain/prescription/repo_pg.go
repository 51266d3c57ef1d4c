package prescription

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
	SELECT pr.id, pr.appointment_id, pr.medicine_id, pr.dosage, pr.duration,
		pr.instructions, pr.prescribed_at, m.name, m.price,
		a.appointment_date, d.name
	FROM prescriptions pr
	JOIN medicines m ON m.id = pr.medicine_id
	JOIN appointments a ON a.id = pr.appointment_id
	JOIN doctors d ON d.id = a.doctor_id`

func scanDetail(row pgx.Row) (*Detail, error) {
	var d Detail
	err := row.Scan(&d.ID, &d.AppointmentID, &d.MedicineID, &d.Dosage, &d.Duration,
		&d.Instructions, &d.PrescribedAt, &d.MedicineName, &d.MedicinePrice,
		&d.AppointmentDate, &d.DoctorName)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &d, err
}

func (r *repoPG) Create(ctx context.Context, p *Prescription) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO prescriptions (id, appointment_id, medicine_id, dosage,
			duration, instructions)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		p.ID, p.AppointmentID, p.MedicineID, p.Dosage, p.Duration, p.Instructions)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Prescription, error) {
	var p Prescription
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT id, appointment_id, medicine_id, dosage, duration, instructions, prescribed_at
		FROM prescriptions WHERE id = $1`, id).
		Scan(&p.ID, &p.AppointmentID, &p.MedicineID, &p.Dosage, &p.Duration,
			&p.Instructions, &p.PrescribedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &p, err
}

func (r *repoPG) ListByAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Detail, error) {
	rows, err := r.conn(ctx).Query(ctx, detailQuery+`
		WHERE pr.appointment_id = $1
		ORDER BY pr.prescribed_at`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectDetails(rows)
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Detail, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*) FROM prescriptions pr
		JOIN appointments a ON a.id = pr.appointment_id
		WHERE a.patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count prescriptions: %w", err)
	}

	rows, err := r.conn(ctx).Query(ctx, detailQuery+`
		WHERE a.patient_id = $1
		ORDER BY pr.prescribed_at DESC
		LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectDetails(rows)
	return items, total, err
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
