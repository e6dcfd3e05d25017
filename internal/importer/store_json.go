package importer

import (
	"context"
	"path/filepath"
	"sort"
	"sync"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/jsonfile"
)

// JSONHistoryStore keeps the import history in a flat JSON file
type JSONHistoryStore struct {
	mu   sync.Mutex
	path string
}

// NewJSONHistoryStore creates a history store rooted at dataDir
func NewJSONHistoryStore(dataDir string) *JSONHistoryStore {
	return &JSONHistoryStore{path: filepath.Join(dataDir, "imports.json")}
}

// Append records a completed import
func (s *JSONHistoryStore) Append(ctx context.Context, record *ImportRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*ImportRecord, 0)
	if err := jsonfile.Load(s.path, &records); err != nil {
		return errors.Storage(err)
	}

	records = append(records, record)
	if err := jsonfile.Save(s.path, records); err != nil {
		return errors.Storage(err)
	}
	return nil
}

// List returns past imports, newest first
func (s *JSONHistoryStore) List(ctx context.Context) ([]*ImportRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]*ImportRecord, 0)
	if err := jsonfile.Load(s.path, &records); err != nil {
		return nil, errors.Storage(err)
	}

	sort.Slice(records, func(i, j int) bool {
		return records[i].ImportDate.After(records[j].ImportDate)
	})
	return records, nil
}
