// Package billing computes charges and runs the discharge workflow. All
// amounts are rupees held in float64, rounded to two decimals only at the
// final tax and total steps.
package billing

import (
	"math"
	"time"

	"github.com/google/uuid"
)

const (
	// ConsultationFee is charged once per appointment-linked bill.
	ConsultationFee = 300.0

	// TaxRate applies to the full subtotal, consultation included.
	TaxRate = 0.18
)

const (
	StatusPending = "Pending"
	StatusPaid    = "Paid"
)

type Bill struct {
	ID            uuid.UUID  `json:"id"`
	PatientID     uuid.UUID  `json:"patient_id"`
	AppointmentID *uuid.UUID `json:"appointment_id,omitempty"`
	TotalAmount   float64    `json:"total_amount"`
	PaymentStatus string     `json:"payment_status"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

// Line is one priced prescription row on a bill detail view.
type Line struct {
	MedicineName string    `json:"medicine_name"`
	Price        float64   `json:"price"`
	Dosage       string    `json:"dosage"`
	Duration     string    `json:"duration"`
	PrescribedAt time.Time `json:"prescribed_at"`
}

// Breakdown is the decomposition of a bill into its charge components.
type Breakdown struct {
	ConsultationFee float64 `json:"consultation_fee"`
	MedicinesTotal  float64 `json:"medicines_total"`
	Subtotal        float64 `json:"subtotal"`
	Tax             float64 `json:"tax"`
	Total           float64 `json:"total"`
}

// Detail is a bill joined with its patient and priced lines.
type Detail struct {
	Bill
	PatientName string    `json:"patient_name"`
	Lines       []*Line   `json:"lines"`
	Breakdown   Breakdown `json:"breakdown"`
}

// MonthlyReport aggregates one calendar month of billing. TotalRevenue
// counts every bill issued in the month regardless of payment status;
// CollectedAmount counts paid bills only.
type MonthlyReport struct {
	Month           int     `json:"month"`
	Year            int     `json:"year"`
	TotalBills      int     `json:"total_bills"`
	TotalRevenue    float64 `json:"total_revenue"`
	AverageBill     float64 `json:"average_bill"`
	CollectedAmount float64 `json:"collected_amount"`
}

// RevenueSummary is the dashboard aggregate across all bills.
type RevenueSummary struct {
	PaidRevenue        float64 `json:"paid_revenue"`
	PendingAmount      float64 `json:"pending_amount"`
	ConsultationsTotal float64 `json:"consultations_total"`
	MedicinesTotal     float64 `json:"medicines_total"`
}

// DischargeSummary reports what the discharge workflow changed.
type DischargeSummary struct {
	PatientID             uuid.UUID `json:"patient_id"`
	CompletedAppointments int       `json:"completed_appointments"`
	TotalCharges          float64   `json:"total_charges"`
}

// ApplyTax adds tax to an amount without rounding.
func ApplyTax(amount float64) float64 {
	return amount * (1 + TaxRate)
}

// Decompose derives the charge components for an appointment-linked bill.
// Consultation and medicine prices accumulate unrounded; only the tax and
// the grand total are rounded, so the invariant subtotal+tax == total holds
// at two decimals.
func Decompose(appointmentLinked bool, medicinePrices []float64) Breakdown {
	var b Breakdown
	if appointmentLinked {
		b.ConsultationFee = ConsultationFee
	}
	for _, p := range medicinePrices {
		b.MedicinesTotal += p
	}
	b.Subtotal = b.ConsultationFee + b.MedicinesTotal
	b.Tax = round2(b.Subtotal * TaxRate)
	b.Total = round2(b.Subtotal + b.Tax)
	return b
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
