package reporting

import (
	"context"

	"github.com/google/uuid"

	"github.com/hms/hms/internal/domain/appointment"
	"github.com/hms/hms/internal/domain/billing"
	"github.com/hms/hms/internal/domain/patient"
	"github.com/hms/hms/internal/domain/prescription"
)

// recordPageSize bounds each section of the patient record bundle.
const recordPageSize = 100

// recentAppointmentCount is how many appointments the overview shows.
const recentAppointmentCount = 5

type Service struct {
	overview      OverviewRepository
	patients      *patient.Service
	appointments  *appointment.Service
	prescriptions *prescription.Service
	bills         *billing.Service
}

func NewService(overview OverviewRepository, patients *patient.Service,
	appointments *appointment.Service, prescriptions *prescription.Service,
	bills *billing.Service) *Service {

	return &Service{
		overview:      overview,
		patients:      patients,
		appointments:  appointments,
		prescriptions: prescriptions,
		bills:         bills,
	}
}

func (s *Service) Overview(ctx context.Context) (*Overview, error) {
	o, err := s.overview.Overview(ctx)
	if err != nil {
		return nil, err
	}
	recent, _, err := s.appointments.List(ctx, recentAppointmentCount, 0)
	if err != nil {
		return nil, err
	}
	o.RecentAppointments = recent
	return o, nil
}

// PatientRecord collects the patient's profile, appointments,
// prescriptions and bills into one bundle.
func (s *Service) PatientRecord(ctx context.Context, patientID uuid.UUID) (*PatientRecord, error) {
	p, err := s.patients.GetWithAge(ctx, patientID)
	if err != nil {
		return nil, err
	}

	appts, _, err := s.appointments.ListByPatient(ctx, patientID, recordPageSize, 0)
	if err != nil {
		return nil, err
	}
	scripts, _, err := s.prescriptions.ListByPatient(ctx, patientID, recordPageSize, 0)
	if err != nil {
		return nil, err
	}
	bills, _, err := s.bills.ListByPatient(ctx, patientID, recordPageSize, 0)
	if err != nil {
		return nil, err
	}

	return &PatientRecord{
		Patient:       p,
		Appointments:  appts,
		Prescriptions: scripts,
		Bills:         bills,
	}, nil
}
