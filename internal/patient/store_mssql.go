package patient

import (
	"context"
	"database/sql"
	"strings"
	"time"

	_ "github.com/denisenkom/go-mssqldb" // SQL Server driver
	"github.com/jmoiron/sqlx"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

// MSSQLStore persists patients in the hospital information system's SQL
// Server database. Matching still runs in memory over the snapshot; the
// store only does retrieval and atomic writes.
type MSSQLStore struct {
	db *sqlx.DB
}

// NewMSSQLStore connects to SQL Server and verifies the connection
func NewMSSQLStore(ctx context.Context, dsn string) (*MSSQLStore, error) {
	db, err := sqlx.ConnectContext(ctx, "sqlserver", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(10)
	db.SetConnMaxLifetime(time.Hour)
	return &MSSQLStore{db: db}, nil
}

// Close closes the underlying connection pool
func (s *MSSQLStore) Close() error {
	return s.db.Close()
}

type mssqlPatient struct {
	ID                    string         `db:"id"`
	Lastname              string         `db:"lastname"`
	Firstname             string         `db:"firstname"`
	Middlename            sql.NullString `db:"middlename"`
	Suffix                sql.NullString `db:"suffix"`
	Birthday              string         `db:"birthday"`
	Address               string         `db:"address"`
	Phone                 sql.NullString `db:"phone"`
	Email                 sql.NullString `db:"email"`
	EmergencyContactName  sql.NullString `db:"emergency_contact_name"`
	EmergencyContactPhone sql.NullString `db:"emergency_contact_phone"`
	MedicalHistory        sql.NullString `db:"medical_history"`
	Allergies             sql.NullString `db:"allergies"`
	BloodType             sql.NullString `db:"blood_type"`
	IsNew                 bool           `db:"is_new"`
	Status                string         `db:"status"`
	CreatedAt             time.Time      `db:"created_at"`
	UpdatedAt             time.Time      `db:"updated_at"`
}

func (r mssqlPatient) toPatient() *Patient {
	return &Patient{
		ID:                    types.ID(r.ID),
		Lastname:              r.Lastname,
		Firstname:             r.Firstname,
		Middlename:            fromNull(r.Middlename),
		Suffix:                fromNull(r.Suffix),
		Birthday:              r.Birthday,
		Address:               r.Address,
		Phone:                 fromNull(r.Phone),
		Email:                 fromNull(r.Email),
		EmergencyContactName:  fromNull(r.EmergencyContactName),
		EmergencyContactPhone: fromNull(r.EmergencyContactPhone),
		MedicalHistory:        fromNull(r.MedicalHistory),
		Allergies:             fromNull(r.Allergies),
		BloodType:             fromNull(r.BloodType),
		IsNew:                 r.IsNew,
		Status:                Status(r.Status),
		CreatedAt:             r.CreatedAt,
		UpdatedAt:             r.UpdatedAt,
	}
}

func fromRecord(p *Patient) mssqlPatient {
	return mssqlPatient{
		ID:                    p.ID.String(),
		Lastname:              p.Lastname,
		Firstname:             p.Firstname,
		Middlename:            toNull(p.Middlename),
		Suffix:                toNull(p.Suffix),
		Birthday:              p.Birthday,
		Address:               p.Address,
		Phone:                 toNull(p.Phone),
		Email:                 toNull(p.Email),
		EmergencyContactName:  toNull(p.EmergencyContactName),
		EmergencyContactPhone: toNull(p.EmergencyContactPhone),
		MedicalHistory:        toNull(p.MedicalHistory),
		Allergies:             toNull(p.Allergies),
		BloodType:             toNull(p.BloodType),
		IsNew:                 p.IsNew,
		Status:                string(p.Status),
		CreatedAt:             p.CreatedAt,
		UpdatedAt:             p.UpdatedAt,
	}
}

// ListAll returns every record regardless of status
func (s *MSSQLStore) ListAll(ctx context.Context) ([]*Patient, error) {
	var rows []mssqlPatient
	if err := s.db.SelectContext(ctx, &rows, `SELECT * FROM patients`); err != nil {
		return nil, errors.Storage(err)
	}

	records := make([]*Patient, 0, len(rows))
	for _, r := range rows {
		records = append(records, r.toPatient())
	}
	return records, nil
}

// FindByID returns a record of any status
func (s *MSSQLStore) FindByID(ctx context.Context, id string) (*Patient, error) {
	var row mssqlPatient
	err := s.db.GetContext(ctx, &row, `SELECT * FROM patients WHERE id = @p1`, id)
	if err == sql.ErrNoRows {
		return nil, errors.NotFound("patient", id)
	}
	if err != nil {
		return nil, errors.Storage(err)
	}
	return row.toPatient(), nil
}

// Insert appends a new record
func (s *MSSQLStore) Insert(ctx context.Context, p *Patient) error {
	query := `
		INSERT INTO patients (
			id, lastname, firstname, middlename, suffix, birthday, address,
			phone, email, emergency_contact_name, emergency_contact_phone,
			medical_history, allergies, blood_type, is_new, status, created_at, updated_at
		) VALUES (
			:id, :lastname, :firstname, :middlename, :suffix, :birthday, :address,
			:phone, :email, :emergency_contact_name, :emergency_contact_phone,
			:medical_history, :allergies, :blood_type, :is_new, :status, :created_at, :updated_at
		)`

	if _, err := s.db.NamedExecContext(ctx, query, fromRecord(p)); err != nil {
		if isUniqueViolation(err) {
			return errors.Duplicate("patient already exists")
		}
		return errors.Storage(err)
	}
	return nil
}

// Update replaces the stored record with the same ID
func (s *MSSQLStore) Update(ctx context.Context, p *Patient) error {
	query := `
		UPDATE patients SET
			lastname = :lastname, firstname = :firstname, middlename = :middlename,
			suffix = :suffix, birthday = :birthday, address = :address,
			phone = :phone, email = :email,
			emergency_contact_name = :emergency_contact_name,
			emergency_contact_phone = :emergency_contact_phone,
			medical_history = :medical_history, allergies = :allergies,
			blood_type = :blood_type, is_new = :is_new, status = :status,
			updated_at = :updated_at
		WHERE id = :id`

	res, err := s.db.NamedExecContext(ctx, query, fromRecord(p))
	if err != nil {
		if isUniqueViolation(err) {
			return errors.Duplicate("patient already exists")
		}
		return errors.Storage(err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.NotFound("patient", p.ID.String())
	}
	return nil
}

func isUniqueViolation(err error) bool {
	// mssql error 2601/2627: duplicate key in unique index / constraint
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "UNIQUE KEY constraint")
}

func toNull(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNull(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	v := ns.String
	return &v
}
