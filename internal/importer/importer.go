package importer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/patient"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/events"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/metrics"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

// requiredFields must be non-empty after trimming for an entry to be
// accepted
var requiredFields = []string{"lastname", "firstname", "birthday", "address"}

// Staged is the outcome of validating a batch against a snapshot
type Staged struct {
	Accepted []*patient.Patient
	Errors   []string
}

// Stage validates entries against the snapshot and against each other.
// Failing entries are skipped with a per-entry error; accepted entries
// are returned as records without IDs. Entries duplicating an earlier
// accepted entry in the same batch are rejected too.
func Stage(snapshot []*patient.Patient, entries []Entry) Staged {
	staged := Staged{Accepted: make([]*patient.Patient, 0, len(entries))}

	for _, entry := range entries {
		var missing []string
		for _, f := range requiredFields {
			if strings.TrimSpace(entry.Fields[f]) == "" {
				missing = append(missing, f)
			}
		}
		if len(missing) > 0 {
			staged.Errors = append(staged.Errors,
				fmt.Sprintf("%s: missing required fields: %s", entry.Label, strings.Join(missing, ", ")))
			continue
		}

		birthday := strings.TrimSpace(entry.Fields["birthday"])
		if !patient.ValidateBirthday(birthday) {
			staged.Errors = append(staged.Errors,
				fmt.Sprintf("%s: invalid birthday %q, expected YYYY-MM-DD", entry.Label, birthday))
			continue
		}

		candidate := patient.Identity{
			Lastname:   entry.Fields["lastname"],
			Firstname:  entry.Fields["firstname"],
			Middlename: entry.Fields["middlename"],
			Birthday:   birthday,
		}
		if patient.IsDuplicate(snapshot, candidate) || patient.IsDuplicate(staged.Accepted, candidate) {
			staged.Errors = append(staged.Errors,
				fmt.Sprintf("%s: patient already exists", entry.Label))
			continue
		}

		staged.Accepted = append(staged.Accepted, entryToPatient(entry, birthday))
	}

	return staged
}

func entryToPatient(entry Entry, birthday string) *patient.Patient {
	return &patient.Patient{
		Lastname:              strings.TrimSpace(entry.Fields["lastname"]),
		Firstname:             strings.TrimSpace(entry.Fields["firstname"]),
		Middlename:            optionalField(entry.Fields, "middlename"),
		Suffix:                optionalField(entry.Fields, "suffix"),
		Birthday:              birthday,
		Address:               strings.TrimSpace(entry.Fields["address"]),
		Phone:                 optionalField(entry.Fields, "phone"),
		Email:                 optionalField(entry.Fields, "email"),
		EmergencyContactName:  optionalField(entry.Fields, "emergency_contact_name"),
		EmergencyContactPhone: optionalField(entry.Fields, "emergency_contact_phone"),
		MedicalHistory:        optionalField(entry.Fields, "medical_history"),
		Allergies:             optionalField(entry.Fields, "allergies"),
		BloodType:             optionalField(entry.Fields, "blood_type"),
		IsNew:                 false,
		Status:                patient.StatusActive,
	}
}

func optionalField(fields map[string]string, name string) *string {
	v, ok := fields[name]
	if !ok || v == "" {
		return nil
	}
	return &v
}

// Service runs batch imports against the patient store and records the
// import history
type Service struct {
	patients patient.Store
	history  HistoryStore
	bus      *events.Bus
	log      zerolog.Logger
}

// NewService creates a new import service
func NewService(patients patient.Store, history HistoryStore, bus *events.Bus, log zerolog.Logger) *Service {
	return &Service{
		patients: patients,
		history:  history,
		bus:      bus,
		log:      log.With().Str("service", "importer").Logger(),
	}
}

// Import reads, validates and inserts a patient batch. Per-entry failures
// are collected in the summary; already-inserted entries are never rolled
// back.
func (s *Service) Import(ctx context.Context, filename string, format Format, r io.Reader) (*Summary, error) {
	var (
		entries []Entry
		err     error
	)
	switch format {
	case FormatCSV:
		entries, err = ReadCSV(r)
	case FormatJSON:
		entries, err = ReadJSON(r)
	default:
		return nil, errors.BadRequest(fmt.Sprintf("unsupported import format %q", format))
	}
	if err != nil {
		return nil, errors.BadRequest(err.Error())
	}

	snapshot, err := s.patients.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	staged := Stage(snapshot, entries)

	imported := 0
	importErrors := staged.Errors
	now := time.Now().UTC()
	for _, p := range staged.Accepted {
		p.ID = types.NewID()
		p.CreatedAt = now
		p.UpdatedAt = now

		if err := s.patients.Insert(ctx, p); err != nil {
			s.log.Warn().Err(err).Str("name", p.FullName()).Msg("failed to insert imported patient")
			importErrors = append(importErrors, fmt.Sprintf("%s %s: %v", p.Firstname, p.Lastname, err))
			continue
		}
		imported++
	}

	record := &ImportRecord{
		ID:              types.NewID(),
		Filename:        filename,
		ImportDate:      now,
		RecordsImported: imported,
		ImportType:      format,
		Status:          "completed",
	}
	if err := s.history.Append(ctx, record); err != nil {
		s.log.Warn().Err(err).Msg("failed to record import history")
	}

	metrics.RecordImport(string(format), imported, len(importErrors))
	s.log.Info().
		Str("filename", filename).
		Int("imported", imported).
		Int("errors", len(importErrors)).
		Msg("batch import completed")

	event := events.NewEvent("import.completed", "importer", map[string]any{
		"filename":       filename,
		"import_type":    format,
		"imported_count": imported,
		"total_errors":   len(importErrors),
	})
	if err := s.bus.Publish(ctx, event); err != nil {
		s.log.Warn().Err(err).Msg("failed to publish import.completed")
	}

	return &Summary{
		Success:       true,
		ImportedCount: imported,
		Errors:        importErrors,
		TotalErrors:   len(importErrors),
	}, nil
}

// History returns past imports, newest first
func (s *Service) History(ctx context.Context) ([]*ImportRecord, error) {
	return s.history.List(ctx)
}
