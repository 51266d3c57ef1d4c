package identity

import (
	"context"
	"errors"

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

func conn(ctx context.Context, pool *pgxpool.Pool) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return pool
}

// =========== User Source ===========

type userSourcePG struct{ pool *pgxpool.Pool }

func NewUserSourcePG(pool *pgxpool.Pool) UserSource { return &userSourcePG{pool: pool} }

func (r *userSourcePG) FindByCredentials(ctx context.Context, username, password, role string) (*UserRecord, error) {
	var u UserRecord
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, username, name, role, COALESCE(email, '')
		FROM users
		WHERE username = $1 AND password = $2 AND role = $3`,
		username, password, role).
		Scan(&u.ID, &u.Username, &u.Name, &u.Role, &u.Email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// =========== Doctor Source ===========

type doctorSourcePG struct{ pool *pgxpool.Pool }

func NewDoctorSourcePG(pool *pgxpool.Pool) DoctorSource { return &doctorSourcePG{pool: pool} }

func (r *doctorSourcePG) FindByNameAndPassword(ctx context.Context, name, password string) (*DoctorRecord, error) {
	var d DoctorRecord
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, email, password FROM doctors
		WHERE name = $1 AND password = $2`, name, password).
		Scan(&d.ID, &d.Name, &d.Email, &d.Password)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *doctorSourcePG) ListAll(ctx context.Context) ([]*DoctorRecord, error) {
	rows, err := conn(ctx, r.pool).Query(ctx,
		`SELECT id, name, email, password FROM doctors`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*DoctorRecord
	for rows.Next() {
		var d DoctorRecord
		if err := rows.Scan(&d.ID, &d.Name, &d.Email, &d.Password); err != nil {
			return nil, err
		}
		out = append(out, &d)
	}
	return out, rows.Err()
}

func (r *doctorSourcePG) FillEmptyPasswords(ctx context.Context, password string) (int, error) {
	tag, err := conn(ctx, r.pool).Exec(ctx,
		`UPDATE doctors SET password = $1 WHERE password IS NULL OR password = ''`, password)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}

// =========== Patient Source ===========

type patientSourcePG struct{ pool *pgxpool.Pool }

func NewPatientSourcePG(pool *pgxpool.Pool) PatientSource { return &patientSourcePG{pool: pool} }

func (r *patientSourcePG) FindByEmailAndPhone(ctx context.Context, email, phone string) (*PatientRecord, error) {
	var p PatientRecord
	err := conn(ctx, r.pool).QueryRow(ctx, `
		SELECT id, name, email, phone FROM patients
		WHERE email = $1 AND phone = $2`, email, phone).
		Scan(&p.ID, &p.Name, &p.Email, &p.Phone)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errs.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientSourcePG) Provision(ctx context.Context, p *NewPatient) (*PatientRecord, error) {
	id := uuid.New()
	_, err := conn(ctx, r.pool).Exec(ctx, `
		INSERT INTO patients (id, name, email, phone, address, date_of_birth,
			gender, emergency_contact, medical_history)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		id, p.Name, p.Email, p.Phone, p.Address, p.DateOfBirth,
		p.Gender, p.EmergencyContact, p.MedicalHistory)
	if err != nil {
		return nil, err
	}
	return &PatientRecord{ID: id, Name: p.Name, Email: p.Email, Phone: p.Phone}, nil
}
