package patient

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/events"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/metrics"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

// Service implements front-desk patient operations over a Store snapshot.
// The duplicate check before insert is advisory; the store closes the
// race, either under its collection lock or with a unique index.
type Service struct {
	store Store
	bus   *events.Bus
	log   zerolog.Logger
}

// NewService creates a new patient service
func NewService(store Store, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		store: store,
		bus:   bus,
		log:   log.With().Str("service", "patient").Logger(),
	}
}

// Register validates and inserts a new patient record
func (s *Service) Register(ctx context.Context, req RegisterRequest) (*Patient, error) {
	var missing []string
	if strings.TrimSpace(req.Lastname) == "" {
		missing = append(missing, "lastname")
	}
	if strings.TrimSpace(req.Firstname) == "" {
		missing = append(missing, "firstname")
	}
	if strings.TrimSpace(req.Birthday) == "" {
		missing = append(missing, "birthday")
	}
	if len(missing) > 0 {
		return nil, errors.MissingFields(missing)
	}

	if !ValidateBirthday(req.Birthday) {
		return nil, errors.InvalidDate("birthday", req.Birthday)
	}

	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	candidate := Identity{
		Lastname:   req.Lastname,
		Firstname:  req.Firstname,
		Middlename: optional(req.Middlename),
		Birthday:   strings.TrimSpace(req.Birthday),
	}
	if IsDuplicate(snapshot, candidate) {
		metrics.RecordDuplicateRejected("registration")
		return nil, errors.Duplicate("a patient with the same name and birthday is already registered")
	}

	now := time.Now().UTC()
	p := &Patient{
		ID:                    types.NewID(),
		Lastname:              strings.TrimSpace(req.Lastname),
		Firstname:             strings.TrimSpace(req.Firstname),
		Middlename:            req.Middlename,
		Suffix:                req.Suffix,
		Birthday:              strings.TrimSpace(req.Birthday),
		Address:               strings.TrimSpace(req.Address),
		Phone:                 req.Phone,
		Email:                 req.Email,
		EmergencyContactName:  req.EmergencyContactName,
		EmergencyContactPhone: req.EmergencyContactPhone,
		MedicalHistory:        req.MedicalHistory,
		Allergies:             req.Allergies,
		BloodType:             req.BloodType,
		IsNew:                 true,
		Status:                StatusActive,
		CreatedAt:             now,
		UpdatedAt:             now,
	}

	if err := s.store.Insert(ctx, p); err != nil {
		return nil, err
	}

	metrics.RecordRegistration()
	s.log.Info().Str("id", p.ID.String()).Str("name", p.FullName()).Msg("patient registered")

	event := events.NewEvent("patient.registered", "patient", map[string]any{
		"patient_id": p.ID,
		"lastname":   p.Lastname,
		"firstname":  p.Firstname,
	})
	if err := s.bus.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish patient.registered")
	}

	return p, nil
}

// Search filters active patients by the given criteria, sorted by name
func (s *Service) Search(ctx context.Context, criteria Criteria) ([]*Patient, error) {
	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		metrics.RecordSearch("error")
		return nil, err
	}

	results, err := Match(snapshot, criteria)
	if err != nil {
		metrics.RecordSearch("invalid")
		return nil, err
	}

	SortByName(results)
	metrics.RecordSearch("ok")
	return results, nil
}

// ListActive returns all active patients sorted by name
func (s *Service) ListActive(ctx context.Context) ([]*Patient, error) {
	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	active := make([]*Patient, 0, len(snapshot))
	for _, p := range snapshot {
		if p.IsActive() {
			active = append(active, p)
		}
	}
	SortByName(active)
	return active, nil
}

// ListAllStatuses returns every record including deactivated ones. This is
// the explicit variant; listing defaults to active-only.
func (s *Service) ListAllStatuses(ctx context.Context) ([]*Patient, error) {
	snapshot, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	SortByName(snapshot)
	return snapshot, nil
}

// Get returns an active patient by ID
func (s *Service) Get(ctx context.Context, id string) (*Patient, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.IsActive() {
		return nil, errors.NotFound("patient", id)
	}
	return p, nil
}

// Correct applies field corrections to an existing record. Corrections to
// the identity fields re-run the duplicate check against other records.
func (s *Service) Correct(ctx context.Context, id string, req CorrectionRequest) (*Patient, error) {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Birthday != nil && !ValidateBirthday(*req.Birthday) {
		return nil, errors.InvalidDate("birthday", *req.Birthday)
	}

	identityChanged := req.Lastname != nil || req.Firstname != nil || req.Middlename != nil || req.Birthday != nil

	applyCorrections(p, req)

	if identityChanged {
		snapshot, err := s.store.ListAll(ctx)
		if err != nil {
			return nil, err
		}
		others := make([]*Patient, 0, len(snapshot))
		for _, existing := range snapshot {
			if existing.ID != p.ID {
				others = append(others, existing)
			}
		}
		if IsDuplicate(others, IdentityOf(p)) {
			return nil, errors.Duplicate("another patient with the same name and birthday is already registered")
		}
	}

	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, p); err != nil {
		return nil, err
	}

	s.log.Info().Str("id", p.ID.String()).Msg("patient record corrected")
	return p, nil
}

// Deactivate soft-deletes a patient record
func (s *Service) Deactivate(ctx context.Context, id string) error {
	p, err := s.store.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !p.IsActive() {
		return nil
	}

	p.Status = StatusInactive
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Update(ctx, p); err != nil {
		return err
	}

	s.log.Info().Str("id", id).Msg("patient deactivated")
	return nil
}

func applyCorrections(p *Patient, req CorrectionRequest) {
	if req.Lastname != nil {
		p.Lastname = strings.TrimSpace(*req.Lastname)
	}
	if req.Firstname != nil {
		p.Firstname = strings.TrimSpace(*req.Firstname)
	}
	if req.Middlename != nil {
		p.Middlename = req.Middlename
	}
	if req.Suffix != nil {
		p.Suffix = req.Suffix
	}
	if req.Birthday != nil {
		p.Birthday = strings.TrimSpace(*req.Birthday)
	}
	if req.Address != nil {
		p.Address = strings.TrimSpace(*req.Address)
	}
	if req.Phone != nil {
		p.Phone = req.Phone
	}
	if req.Email != nil {
		p.Email = req.Email
	}
	if req.EmergencyContactName != nil {
		p.EmergencyContactName = req.EmergencyContactName
	}
	if req.EmergencyContactPhone != nil {
		p.EmergencyContactPhone = req.EmergencyContactPhone
	}
	if req.MedicalHistory != nil {
		p.MedicalHistory = req.MedicalHistory
	}
	if req.Allergies != nil {
		p.Allergies = req.Allergies
	}
	if req.BloodType != nil {
		p.BloodType = req.BloodType
	}
}
