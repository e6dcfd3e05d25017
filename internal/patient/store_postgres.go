package patient

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
)

// PostgresStore persists patients in PostgreSQL. The patients_identity_key
// unique index enforces the duplicate-detection tuple at the storage
// level, closing the check-then-insert race.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a new Postgres-backed patient store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const patientColumns = `id, lastname, firstname, middlename, suffix, birthday, address,
	phone, email, emergency_contact_name, emergency_contact_phone,
	medical_history, allergies, blood_type, is_new, status, created_at, updated_at`

// ListAll returns every record regardless of status
func (s *PostgresStore) ListAll(ctx context.Context) ([]*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, errors.Storage(err)
	}
	defer rows.Close()

	var records []*Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, errors.Storage(err)
		}
		records = append(records, p)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage(err)
	}

	return records, nil
}

// FindByID returns a record of any status
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE id = $1`

	p, err := scanPatient(s.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("patient", id)
	}
	if err != nil {
		return nil, errors.Storage(err)
	}
	return p, nil
}

// Insert appends a new record
func (s *PostgresStore) Insert(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (` + patientColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`

	_, err := s.pool.Exec(ctx, query,
		p.ID, p.Lastname, p.Firstname, p.Middlename, p.Suffix, p.Birthday, p.Address,
		p.Phone, p.Email, p.EmergencyContactName, p.EmergencyContactPhone,
		p.MedicalHistory, p.Allergies, p.BloodType, p.IsNew, p.Status, p.CreatedAt, p.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Duplicate("patient already exists")
		}
		return errors.Storage(err)
	}

	return nil
}

// Update replaces the stored record with the same ID
func (s *PostgresStore) Update(ctx context.Context, p *Patient) error {
	query := `
		UPDATE patients SET
			lastname = $2, firstname = $3, middlename = $4, suffix = $5,
			birthday = $6, address = $7, phone = $8, email = $9,
			emergency_contact_name = $10, emergency_contact_phone = $11,
			medical_history = $12, allergies = $13, blood_type = $14,
			is_new = $15, status = $16, updated_at = $17
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		p.ID, p.Lastname, p.Firstname, p.Middlename, p.Suffix,
		p.Birthday, p.Address, p.Phone, p.Email,
		p.EmergencyContactName, p.EmergencyContactPhone,
		p.MedicalHistory, p.Allergies, p.BloodType,
		p.IsNew, p.Status, p.UpdatedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "duplicate key") {
			return errors.Duplicate("patient already exists")
		}
		return errors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("patient", p.ID.String())
	}

	return nil
}

func scanPatient(row pgx.Row) (*Patient, error) {
	p := &Patient{}
	err := row.Scan(
		&p.ID, &p.Lastname, &p.Firstname, &p.Middlename, &p.Suffix, &p.Birthday, &p.Address,
		&p.Phone, &p.Email, &p.EmergencyContactName, &p.EmergencyContactPhone,
		&p.MedicalHistory, &p.Allergies, &p.BloodType, &p.IsNew, &p.Status, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}
