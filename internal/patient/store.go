package patient

import "context"

// Store is the storage-agnostic persistence interface for patient
// records. Matching and duplicate detection run over the snapshot
// returned by ListAll; the store's job is snapshot retrieval and atomic
// writes. SQL-backed stores additionally enforce a unique constraint on
// the identity tuple so concurrent registrations cannot both insert.
type Store interface {
	// ListAll returns every record regardless of status
	ListAll(ctx context.Context) ([]*Patient, error)

	// FindByID returns a record of any status
	FindByID(ctx context.Context, id string) (*Patient, error)

	// Insert appends a new record. Stores with an identity constraint
	// return a duplicate error on collision.
	Insert(ctx context.Context, p *Patient) error

	// Update replaces the stored record with the same ID
	Update(ctx context.Context, p *Patient) error
}
