package patient

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/jsonfile"
)

// JSONStore persists patients in a flat JSON file. Writes rewrite the
// whole collection atomically; a single mutex serializes access.
type JSONStore struct {
	mu   sync.Mutex
	path string
	log  zerolog.Logger
}

// NewJSONStore creates a JSON file store rooted at dataDir
func NewJSONStore(dataDir string, log zerolog.Logger) *JSONStore {
	return &JSONStore{
		path: filepath.Join(dataDir, "patients.json"),
		log:  log.With().Str("store", "patients_json").Logger(),
	}
}

func (s *JSONStore) load() ([]*Patient, error) {
	records := make([]*Patient, 0)
	if err := jsonfile.Load(s.path, &records); err != nil {
		return nil, errors.Storage(err)
	}
	return records, nil
}

func (s *JSONStore) save(records []*Patient) error {
	if err := jsonfile.Save(s.path, records); err != nil {
		return errors.Storage(err)
	}
	return nil
}

// ListAll returns every record regardless of status
func (s *JSONStore) ListAll(ctx context.Context) ([]*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// FindByID returns a record of any status
func (s *JSONStore) FindByID(ctx context.Context, id string) (*Patient, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}
	for _, p := range records {
		if p.ID.String() == id {
			return p, nil
		}
	}
	return nil, errors.NotFound("patient", id)
}

// Insert appends a new record
func (s *JSONStore) Insert(ctx context.Context, p *Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	// The file store has no unique index; re-check the identity tuple
	// under the lock so two writers cannot both append.
	if IsDuplicate(records, IdentityOf(p)) {
		return errors.Duplicate("patient already exists")
	}

	records = append(records, p)
	if err := s.save(records); err != nil {
		return err
	}

	s.log.Debug().Str("id", p.ID.String()).Msg("patient inserted")
	return nil
}

// Update replaces the stored record with the same ID
func (s *JSONStore) Update(ctx context.Context, p *Patient) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return err
	}

	for i, existing := range records {
		if existing.ID == p.ID {
			records[i] = p
			return s.save(records)
		}
	}
	return errors.NotFound("patient", p.ID.String())
}
