package appointment

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/patient"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/events"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/metrics"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

// Service schedules and lists patient appointments
type Service struct {
	store    Store
	patients *patient.Service
	bus      *events.Bus
	log      zerolog.Logger
}

// NewService creates a new appointment service
func NewService(store Store, patients *patient.Service, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		store:    store,
		patients: patients,
		bus:      bus,
		log:      log.With().Str("service", "appointment").Logger(),
	}
}

// Create validates and schedules a new appointment. The patient must
// exist and be active.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Appointment, error) {
	if strings.TrimSpace(req.PatientID) == "" {
		return nil, errors.MissingFields([]string{"patient_id"})
	}
	if strings.TrimSpace(req.Date) == "" {
		return nil, errors.MissingFields([]string{"appointment_date"})
	}
	if !ValidDate(strings.TrimSpace(req.Date)) {
		return nil, errors.InvalidDate("appointment_date", req.Date)
	}

	appointmentTime := strings.TrimSpace(req.Time)
	if appointmentTime == "" {
		appointmentTime = "09:00"
	}
	if !ValidTime(appointmentTime) {
		return nil, errors.BadRequest("appointment_time must be in HH:MM format")
	}

	appointmentType := strings.TrimSpace(req.Type)
	if appointmentType == "" {
		appointmentType = "Consultation"
	}

	if _, err := s.patients.Get(ctx, req.PatientID); err != nil {
		return nil, err
	}

	a := &Appointment{
		ID:         types.NewID(),
		PatientID:  types.ID(req.PatientID),
		Date:       strings.TrimSpace(req.Date),
		Time:       appointmentTime,
		Type:       appointmentType,
		Reason:     strings.TrimSpace(req.Reason),
		Status:     StatusScheduled,
		DoctorName: strings.TrimSpace(req.DoctorName),
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, a); err != nil {
		return nil, err
	}

	metrics.RecordAppointment(a.Type)
	s.log.Info().
		Str("id", a.ID.String()).
		Str("patient_id", a.PatientID.String()).
		Str("date", a.Date).
		Msg("appointment scheduled")

	event := events.NewEvent("appointment.scheduled", "appointment", map[string]any{
		"appointment_id": a.ID,
		"patient_id":     a.PatientID,
		"date":           a.Date,
		"type":           a.Type,
	})
	if err := s.bus.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish appointment.scheduled")
	}

	return a, nil
}

// ListByPatient returns an active patient's appointments, newest first
func (s *Service) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	if _, err := s.patients.Get(ctx, patientID); err != nil {
		return nil, err
	}
	return s.store.ListByPatient(ctx, patientID)
}

// ListAll returns every appointment enriched with the patient's display
// name. Appointments of deactivated patients are omitted, matching the
// schedule board.
func (s *Service) ListAll(ctx context.Context) ([]*EnrichedAppointment, error) {
	appointments, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	active, err := s.patients.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[types.ID]string, len(active))
	for _, p := range active {
		names[p.ID] = p.FullName()
	}

	enriched := make([]*EnrichedAppointment, 0, len(appointments))
	for _, a := range appointments {
		name, ok := names[a.PatientID]
		if !ok {
			continue
		}
		enriched = append(enriched, &EnrichedAppointment{
			Appointment: *a,
			PatientName: name,
		})
	}
	return enriched, nil
}

// UpdateStatus transitions an appointment's status
func (s *Service) UpdateStatus(ctx context.Context, id string, status Status) (*Appointment, error) {
	if !ValidStatus(status) {
		return nil, errors.BadRequest("status must be scheduled, completed or cancelled")
	}

	a, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	a.Status = status
	if err := s.store.Update(ctx, a); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", id).Str("status", string(status)).Msg("appointment status updated")
	return a, nil
}
