package appointment

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
)

// PostgresStore persists appointments in PostgreSQL
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a Postgres-backed appointment store
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const appointmentColumns = `id, patient_id, appointment_date, appointment_time,
	type, reason, status, doctor_name, notes, created_at`

// Insert appends a new appointment
func (s *PostgresStore) Insert(ctx context.Context, a *Appointment) error {
	query := `
		INSERT INTO appointments (` + appointmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := s.pool.Exec(ctx, query,
		a.ID, a.PatientID, a.Date, a.Time,
		a.Type, a.Reason, a.Status, a.DoctorName, a.Notes, a.CreatedAt,
	)
	if err != nil {
		return errors.Storage(err)
	}
	return nil
}

// FindByID returns an appointment by ID
func (s *PostgresStore) FindByID(ctx context.Context, id string) (*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	a, err := scanAppointment(s.pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.NotFound("appointment", id)
	}
	if err != nil {
		return nil, errors.Storage(err)
	}
	return a, nil
}

// ListByPatient returns a patient's appointments, newest date first
func (s *PostgresStore) ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		WHERE patient_id = $1
		ORDER BY appointment_date DESC, appointment_time DESC`

	return s.list(ctx, query, patientID)
}

// ListAll returns every appointment, newest date first
func (s *PostgresStore) ListAll(ctx context.Context) ([]*Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments
		ORDER BY appointment_date DESC, appointment_time DESC`

	return s.list(ctx, query)
}

// Update replaces the stored appointment with the same ID
func (s *PostgresStore) Update(ctx context.Context, a *Appointment) error {
	query := `
		UPDATE appointments SET
			appointment_date = $2, appointment_time = $3, type = $4,
			reason = $5, status = $6, doctor_name = $7, notes = $8
		WHERE id = $1`

	tag, err := s.pool.Exec(ctx, query,
		a.ID, a.Date, a.Time, a.Type, a.Reason, a.Status, a.DoctorName, a.Notes,
	)
	if err != nil {
		return errors.Storage(err)
	}
	if tag.RowsAffected() == 0 {
		return errors.NotFound("appointment", a.ID.String())
	}
	return nil
}

func (s *PostgresStore) list(ctx context.Context, query string, args ...any) ([]*Appointment, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.Storage(err)
	}
	defer rows.Close()

	var records []*Appointment
	for rows.Next() {
		a, err := scanAppointment(rows)
		if err != nil {
			return nil, errors.Storage(err)
		}
		records = append(records, a)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Storage(err)
	}

	return records, nil
}

func scanAppointment(row pgx.Row) (*Appointment, error) {
	a := &Appointment{}
	err := row.Scan(
		&a.ID, &a.PatientID, &a.Date, &a.Time,
		&a.Type, &a.Reason, &a.Status, &a.DoctorName, &a.Notes, &a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}
