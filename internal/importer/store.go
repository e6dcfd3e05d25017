package importer

import "context"

// HistoryStore persists the import history
type HistoryStore interface {
	// Append records a completed import
	Append(ctx context.Context, record *ImportRecord) error

	// List returns past imports, newest first
	List(ctx context.Context) ([]*ImportRecord, error)
}
