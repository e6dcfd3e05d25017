package importer

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
)

// PostgresHistoryStore keeps the import history in PostgreSQL
type PostgresHistoryStore struct {
	pool *pgxpool.Pool
}

// NewPostgresHistoryStore creates a Postgres-backed history store
func NewPostgresHistoryStore(pool *pgxpool.Pool) *PostgresHistoryStore {
	return &PostgresHistoryStore{pool: pool}
}

// Append records a completed import
func (s *PostgresHistoryStore) Append(ctx context.Context, record *ImportRecord) error {
	query := `
		INSERT INTO imports (id, filename, import_date, records_imported, import_type, status)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := s.pool.Exec(ctx, query,
		record.ID, record.Filename, record.ImportDate,
		record.RecordsImported, record.ImportType, record.Status,
	)
	if err != nil {
		return errors.Storage(err)
	}
	return nil
}

// List returns past imports, newest first
func (s *PostgresHistoryStore) List(ctx context.Context) ([]*ImportRecord, error) {
	query := `
		SELECT id, filename, import_date, records_imported, import_type, status
		FROM imports
		ORDER BY import_date DESC`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Storage(err)
	}
	defer rows.Close()

	var records []*ImportRecord
	for rows.Next() {
		r := &ImportRecord{}
		if err := rows.Scan(&r.ID, &r.Filename, &r.ImportDate, &r.RecordsImported, &r.ImportType, &r.Status); err != nil {
			return nil, errors.Storage(err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage(err)
	}

	return records, nil
}
