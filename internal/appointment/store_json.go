package appointment

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/jsonfile"
)

// JSONStore persists appointments in a flat JSON file
type JSONStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONStore creates a JSON file store rooted at dataDir
func NewJSONStore(dataDir string) *JSONStore {
	return &JSONStore{path: filepath.Join(dataDir, "appointments.json")}
}

func (s *JSONStore) load() ([]*Appointment, error) {
	records := make([]*Appointment, 0)
	if err := jsonfile.Load(s.path, &records); err != nil {
		return nil, errors.Storage(err)
	}
	return records, nil
}

// Insert appends a new appointment
func (s *JSONStore) Insert(ctx context.Context, a *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	records = append(records, a)
	if err := jsonfile.Save(s.path, records); err != nil {
		return errors.Storage(err)
	}
	return nil
}

// FindByID returns an appointment by ID
func (s *JSONStore) FindByID(ctx context.Context, id string) (*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, a := range records {
		if a.ID.String() == id {
			return a, nil
		}
	}
	return nil, errors.NotFound("appointment", id)
}

// ListByPatient returns a patient's appointments, newest date first
func (s *JSONStore) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	matching := make([]*Appointment, 0)
	for _, a := range records {
		if a.PatientID.String() == patientID {
			matching = append(matching, a)
		}
	}
	sortByDateDesc(matching)
	return matching, nil
}

// ListAll returns every appointment, newest date first
func (s *JSONStore) ListAll(ctx context.Context) ([]*Appointment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	sortByDateDesc(records)
	return records, nil
}

// Update replaces the stored appointment with the same ID
func (s *JSONStore) Update(ctx context.Context, a *Appointment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for i, existing := range records {
		if existing.ID == a.ID {
			records[i] = a
			if err := jsonfile.Save(s.path, records); err != nil {
				return errors.Storage(err)
			}
			return nil
		}
	}
	return errors.NotFound("appointment", a.ID.String())
}

// sortByDateDesc orders by date then time, newest first. ISO date and
// HH:MM strings sort correctly as plain bytes.
func sortByDateDesc(records []*Appointment) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].Date != records[j].Date {
			return records[i].Date > records[j].Date
		}
		return records[i].Time > records[j].Time
	})
}
