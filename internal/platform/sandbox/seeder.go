// Package sandbox seeds demo data for development and on-boarding
// environments: staff accounts, a small roster, a handful of patients with
// appointments, bills and an inventory that exercises the low stock path.
package sandbox

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// SeedResult summarizes what a seed run inserted.
type SeedResult struct {
	Users        int `json:"users"`
	Patients     int `json:"patients"`
	Doctors      int `json:"doctors"`
	Appointments int `json:"appointments"`
	Bills        int `json:"bills"`
	Medicines    int `json:"medicines"`
}

type Seeder struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

func NewSeeder(pool *pgxpool.Pool, logger zerolog.Logger) *Seeder {
	return &Seeder{pool: pool, logger: logger}
}

type seedUser struct {
	username, password, role, name, email string
}

type seedPatient struct {
	name, email, phone, address, dob, gender, emergency, history string
}

type seedDoctor struct {
	name, specialization, phone, email, password, availability string
}

// Seed inserts the demo dataset. It refuses to run against a database that
// already has users, so it is safe to call on every start of a dev stack.
func (s *Seeder) Seed(ctx context.Context) (*SeedResult, error) {
	var existing int
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&existing); err != nil {
		return nil, fmt.Errorf("check existing users: %w", err)
	}
	if existing > 0 {
		return nil, fmt.Errorf("database already seeded (%d users present)", existing)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin seed transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	result := &SeedResult{}

	// Doctors authenticate against the doctors table, so the roster below
	// carries their credentials and no users rows are seeded for them.
	users := []seedUser{
		{"admin", "admin123", "admin", "System Admin", "admin@hospital.com"},
		{"reception1", "recep123", "receptionist", "Front Desk", "reception@hospital.com"},
		{"pharmacy1", "pharma123", "pharmacy", "Pharmacy Desk", "pharmacy@hospital.com"},
		{"billing1", "bill123", "billing", "Billing Desk", "billing@hospital.com"},
	}
	for _, u := range users {
		if _, err := tx.Exec(ctx, `
			INSERT INTO users (id, username, password, role, name, email)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.New(), u.username, u.password, u.role, u.name, u.email); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", u.username, err)
		}
		result.Users++
	}

	patients := []seedPatient{
		{"Alice Brown", "alice@email.com", "9876543201", "123 Main St, Bangalore", "1990-05-15", "Female", "9876543299", "No significant history"},
		{"Bob Wilson", "bob@email.com", "9876543202", "456 Oak Ave, Bangalore", "1985-08-22", "Male", "9876543298", "Hypertension"},
		{"Carol Davis", "carol@email.com", "9876543203", "789 Pine Rd, Bangalore", "1992-12-10", "Female", "9876543297", "Diabetes"},
	}
	patientIDs := make([]uuid.UUID, len(patients))
	for i, p := range patients {
		patientIDs[i] = uuid.New()
		if _, err := tx.Exec(ctx, `
			INSERT INTO patients (id, name, email, phone, address, date_of_birth,
				gender, emergency_contact, medical_history)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
			patientIDs[i], p.name, p.email, p.phone, p.address, p.dob,
			p.gender, p.emergency, p.history); err != nil {
			return nil, fmt.Errorf("seed patient %s: %w", p.name, err)
		}
		result.Patients++
	}

	doctors := []seedDoctor{
		{"Dr. John Smith", "Cardiology", "9876543210", "doctor1@hospital.com", "doc123", "Available"},
		{"Dr. Sarah Johnson", "Pediatrics", "9876543211", "sarah.j@hospital.com", "doc123", "Available"},
		{"Dr. Mike Wilson", "Orthopedics", "9876543212", "mike.w@hospital.com", "doc123", "Available"},
		{"Dr. Emily Chen", "Dermatology", "9876543213", "emily.c@hospital.com", "doc123", "Busy"},
	}
	doctorIDs := make([]uuid.UUID, len(doctors))
	for i, d := range doctors {
		doctorIDs[i] = uuid.New()
		if _, err := tx.Exec(ctx, `
			INSERT INTO doctors (id, name, specialization, phone, email, password, availability)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			doctorIDs[i], d.name, d.specialization, d.phone, d.email, d.password, d.availability); err != nil {
			return nil, fmt.Errorf("seed doctor %s: %w", d.name, err)
		}
		result.Doctors++
	}

	appointments := []struct {
		patient, doctor int
		date, time      string
		status, notes   string
	}{
		{0, 0, "2024-12-20", "10:00:00", "Scheduled", "Regular heart checkup"},
		{1, 1, "2024-12-21", "11:00:00", "Completed", "Fever and cold"},
		{2, 2, "2024-12-22", "14:00:00", "Scheduled", "Knee pain consultation"},
		{0, 3, "2024-12-23", "15:30:00", "Scheduled", "Skin allergy"},
	}
	appointmentIDs := make([]uuid.UUID, len(appointments))
	for i, a := range appointments {
		appointmentIDs[i] = uuid.New()
		if _, err := tx.Exec(ctx, `
			INSERT INTO appointments (id, patient_id, doctor_id, appointment_date,
				appointment_time, status, notes)
			VALUES ($1,$2,$3,$4,$5,$6,$7)`,
			appointmentIDs[i], patientIDs[a.patient], doctorIDs[a.doctor],
			a.date, a.time, a.status, a.notes); err != nil {
			return nil, fmt.Errorf("seed appointment: %w", err)
		}
		result.Appointments++
	}

	bills := []struct {
		patient, appointment int
		amount               float64
		status, method       string
	}{
		{0, 0, 500.00, "Paid", "Card"},
		{1, 1, 750.00, "Pending", "Cash"},
		{2, 2, 1200.00, "Pending", "Insurance"},
		{0, 3, 300.00, "Paid", "Online"},
	}
	for _, b := range bills {
		if _, err := tx.Exec(ctx, `
			INSERT INTO bills (id, patient_id, appointment_id, total_amount,
				payment_status, payment_method)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.New(), patientIDs[b.patient], appointmentIDs[b.appointment],
			b.amount, b.status, b.method); err != nil {
			return nil, fmt.Errorf("seed bill: %w", err)
		}
		result.Bills++
	}

	medicines := []struct {
		name, description string
		price             float64
		stock             int
		manufacturer      string
	}{
		{"Paracetamol", "Pain and fever relief", 5.00, 100, "Pharma Corp"},
		{"Amoxicillin", "Antibiotic for infections", 15.50, 50, "Medi Labs"},
		{"Vitamin C", "Immune system booster", 8.75, 200, "Health Plus"},
		// Stocked below the alert threshold on purpose.
		{"Ibuprofen", "Anti-inflammatory pain reliever", 12.25, 5, "PainFree Inc"},
	}
	for _, m := range medicines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO medicines (id, name, description, price, stock_quantity, manufacturer)
			VALUES ($1,$2,$3,$4,$5,$6)`,
			uuid.New(), m.name, m.description, m.price, m.stock, m.manufacturer); err != nil {
			return nil, fmt.Errorf("seed medicine %s: %w", m.name, err)
		}
		result.Medicines++
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit seed transaction: %w", err)
	}

	s.logger.Info().
		Int("users", result.Users).
		Int("patients", result.Patients).
		Int("doctors", result.Doctors).
		Int("appointments", result.Appointments).
		Int("bills", result.Bills).
		Int("medicines", result.Medicines).
		Msg("sandbox data seeded")
	return result, nil
}
