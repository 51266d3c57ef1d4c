package billing

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

const billCols = `id, patient_id, appointment_id, total_amount, payment_status,
	COALESCE(payment_method, ''), created_at`

func scanBill(row pgx.Row) (*Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.PatientID, &b.AppointmentID, &b.TotalAmount,
		&b.PaymentStatus, &b.PaymentMethod, &b.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	return &b, err
}

func (r *repoPG) Create(ctx context.Context, b *Bill) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO bills (id, patient_id, appointment_id, total_amount, payment_status)
		VALUES ($1,$2,$3,$4,$5)`,
		b.ID, b.PatientID, b.AppointmentID, b.TotalAmount, b.PaymentStatus)
	return err
}

func (r *repoPG) GetByID(ctx context.Context, id uuid.UUID) (*Bill, error) {
	return scanBill(r.conn(ctx).QueryRow(ctx,
		`SELECT `+billCols+` FROM bills WHERE id = $1`, id))
}

func (r *repoPG) RecordPayment(ctx context.Context, id uuid.UUID, method string) error {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bills SET payment_status = $2, payment_method = $3 WHERE id = $1`,
		id, StatusPaid, method)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repoPG) UpdateTotal(ctx context.Context, id uuid.UUID, total float64) error {
	tag, err := r.conn(ctx).Exec(ctx,
		`UPDATE bills SET total_amount = $2 WHERE id = $1`, id, total)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *repoPG) List(ctx context.Context, limit, offset int) ([]*Bill, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM bills`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx,
		`SELECT `+billCols+` FROM bills ORDER BY created_at DESC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectBills(rows)
	return items, total, err
}

func (r *repoPG) ListByPatient(ctx context.Context, patientID uuid.UUID, limit, offset int) ([]*Bill, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx,
		`SELECT COUNT(*) FROM bills WHERE patient_id = $1`, patientID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count bills: %w", err)
	}
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT `+billCols+` FROM bills WHERE patient_id = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`, patientID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	items, err := collectBills(rows)
	return items, total, err
}

func (r *repoPG) PatientName(ctx context.Context, patientID uuid.UUID) (string, error) {
	var name string
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT name FROM patients WHERE id = $1`, patientID).Scan(&name)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", errs.ErrNotFound
	}
	return name, err
}

func (r *repoPG) LinesForAppointment(ctx context.Context, appointmentID uuid.UUID) ([]*Line, error) {
	rows, err := r.conn(ctx).Query(ctx, `
		SELECT m.name, m.price, pr.dosage, pr.duration, pr.prescribed_at
		FROM prescriptions pr
		JOIN medicines m ON m.id = pr.medicine_id
		WHERE pr.appointment_id = $1
		ORDER BY pr.prescribed_at`, appointmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Line
	for rows.Next() {
		var l Line
		if err := rows.Scan(&l.MedicineName, &l.Price, &l.Dosage, &l.Duration, &l.PrescribedAt); err != nil {
			return nil, err
		}
		out = append(out, &l)
	}
	return out, rows.Err()
}

func (r *repoPG) SumByPatient(ctx context.Context, patientID uuid.UUID) (float64, error) {
	var sum float64
	err := r.conn(ctx).QueryRow(ctx,
		`SELECT COALESCE(SUM(total_amount), 0) FROM bills WHERE patient_id = $1`,
		patientID).Scan(&sum)
	return sum, err
}

func (r *repoPG) MarkUnpaidPending(ctx context.Context, patientID uuid.UUID) (int, error) {
	tag, err := r.conn(ctx).Exec(ctx, `
		UPDATE bills SET payment_status = $2
		WHERE patient_id = $1 AND payment_status <> $3`,
		patientID, StatusPending, StatusPaid)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

func (r *repoPG) MonthlyReport(ctx context.Context, month, year int) (*MonthlyReport, error) {
	rep := &MonthlyReport{Month: month, Year: year}
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT COUNT(*),
			COALESCE(SUM(total_amount), 0),
			COALESCE(AVG(total_amount), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = $3), 0)
		FROM bills
		WHERE EXTRACT(MONTH FROM created_at) = $1
		  AND EXTRACT(YEAR FROM created_at) = $2`,
		month, year, StatusPaid).
		Scan(&rep.TotalBills, &rep.TotalRevenue, &rep.AverageBill, &rep.CollectedAmount)
	if err != nil {
		return nil, err
	}
	return rep, nil
}

func (r *repoPG) RevenueSummary(ctx context.Context) (*RevenueSummary, error) {
	var s RevenueSummary
	err := r.conn(ctx).QueryRow(ctx, `
		SELECT
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status = $1), 0),
			COALESCE(SUM(total_amount) FILTER (WHERE payment_status <> $1), 0),
			COALESCE(COUNT(*) FILTER (WHERE appointment_id IS NOT NULL) * $2, 0)
		FROM bills`, StatusPaid, ConsultationFee).
		Scan(&s.PaidRevenue, &s.PendingAmount, &s.ConsultationsTotal)
	if err != nil {
		return nil, err
	}

	err = r.conn(ctx).QueryRow(ctx, `
		SELECT COALESCE(SUM(m.price), 0)
		FROM prescriptions pr
		JOIN medicines m ON m.id = pr.medicine_id
		JOIN bills b ON b.appointment_id = pr.appointment_id`).
		Scan(&s.MedicinesTotal)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func collectBills(rows pgx.Rows) ([]*Bill, error) {
	var out []*Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
