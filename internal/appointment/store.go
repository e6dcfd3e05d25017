package appointment

import "context"

// Store persists appointments
type Store interface {
	// Insert appends a new appointment
	Insert(ctx context.Context, a *Appointment) error

	// FindByID returns an appointment by ID
	FindByID(ctx context.Context, id string) (*Appointment, error)

	// ListByPatient returns a patient's appointments, newest date first
	ListByPatient(ctx context.Context, patientID string) ([]*Appointment, error)

	// ListAll returns every appointment, newest date first
	ListAll(ctx context.Context) ([]*Appointment, error)

	// Update replaces the stored appointment with the same ID
	Update(ctx context.Context, a *Appointment) error
}
