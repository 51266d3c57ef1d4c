// Package reporting assembles cross-domain read models: the admin
// dashboard overview and the per-patient record bundle.
package reporting

import (
	"github.com/hms/hms/internal/domain/appointment"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/domain/prescription"
)

// Overview is the admin dashboard snapshot.
type Overview struct {
	TotalPatients         int                   `json:"total_patients"`
	TotalDoctors          int                   `json:"total_doctors"`
	TotalAppointments     int                   `json:"total_appointments"`
	ScheduledAppointments int                   `json:"scheduled_appointments"`
	TodayAppointments     int                   `json:"today_appointments"`
	TotalMedicines        int                   `json:"total_medicines"`
	LowStockMedicines     int                   `json:"low_stock_medicines"`
	PaidRevenue           float64               `json:"paid_revenue"`
	PendingBillsAmount    float64               `json:"pending_bills_amount"`
	RecentAppointments    []*appointment.Detail `json:"recent_appointments"`
}

// PatientRecord bundles everything known about one patient.
type PatientRecord struct {
	Patient       *patient.WithAge       `json:"patient"`
	Appointments  []*appointment.Detail  `json:"appointments"`
	Prescriptions []*prescription.Detail `json:"prescriptions"`
	Bills         []*billing.Bill        `json:"bills"`
}
