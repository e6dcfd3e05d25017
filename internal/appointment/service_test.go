package appointment

import (
	"context"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/patient"
)

func newTestServices(t *testing.T) (*Service, *patient.Service) {
	t.Helper()
	dir := t.TempDir()
	patients := patient.NewService(patient.NewJSONStore(dir, zerolog.Nop()), nil, zerolog.Nop())
	svc := NewService(NewJSONStore(dir), patients, nil, zerolog.Nop())
	return svc, patients
}

func registerPatient(t *testing.T, patients *patient.Service, lastname, firstname, birthday string) *patient.Patient {
	t.Helper()
	p, err := patients.Register(context.Background(), patient.RegisterRequest{
		Lastname:  lastname,
		Firstname: firstname,
		Birthday:  birthday,
		Address:   "Imus, Cavite",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	return p
}

func TestCreate(t *testing.T) {
	svc, patients := newTestServices(t)
	ctx := context.Background()
	p := registerPatient(t, patients, "Santos", "Maria", "1985-03-15")

	a, err := svc.Create(ctx, CreateRequest{
		PatientID: p.ID.String(),
		Date:      "2026-09-15",
		Time:      "14:30",
		Type:      "Check-up",
		Reason:    "Follow-up visit",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if a.Status != StatusScheduled {
		t.Errorf("Expected status '%s', got '%s'", StatusScheduled, a.Status)
	}
	if a.Time != "14:30" {
		t.Errorf("Expected time '14:30', got '%s'", a.Time)
	}
	if a.Type != "Check-up" {
		t.Errorf("Expected type 'Check-up', got '%s'", a.Type)
	}
}

func TestCreateDefaults(t *testing.T) {
	svc, patients := newTestServices(t)
	p := registerPatient(t, patients, "Santos", "Maria", "1985-03-15")

	a, err := svc.Create(context.Background(), CreateRequest{
		PatientID: p.ID.String(),
		Date:      "2026-09-15",
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if a.Time != "09:00" {
		t.Errorf("Expected default time '09:00', got '%s'", a.Time)
	}
	if a.Type != "Consultation" {
		t.Errorf("Expected default type 'Consultation', got '%s'", a.Type)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, patients := newTestServices(t)
	p := registerPatient(t, patients, "Santos", "Maria", "1985-03-15")

	tests := []struct {
		name string
		req  CreateRequest
	}{
		{"missing patient", CreateRequest{Date: "2026-09-15"}},
		{"missing date", CreateRequest{PatientID: p.ID.String()}},
		{"invalid date", CreateRequest{PatientID: p.ID.String(), Date: "2026-13-40"}},
		{"invalid time", CreateRequest{PatientID: p.ID.String(), Date: "2026-09-15", Time: "25:99"}},
		{"unknown patient", CreateRequest{PatientID: "no-such-id", Date: "2026-09-15"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := svc.Create(context.Background(), tt.req); err == nil {
				t.Error("Expected an error, got nil")
			}
		})
	}
}

func TestCreateRejectsDeactivatedPatient(t *testing.T) {
	svc, patients := newTestServices(t)
	ctx := context.Background()
	p := registerPatient(t, patients, "Reyes", "Ana", "1978-11-08")

	if err := patients.Deactivate(ctx, p.ID.String()); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	_, err := svc.Create(ctx, CreateRequest{PatientID: p.ID.String(), Date: "2026-09-15"})
	if err == nil {
		t.Error("Expected an error for a deactivated patient, got nil")
	}
}

func TestListAllEnriched(t *testing.T) {
	svc, patients := newTestServices(t)
	ctx := context.Background()

	maria := registerPatient(t, patients, "Santos", "Maria", "1985-03-15")
	ana := registerPatient(t, patients, "Reyes", "Ana", "1978-11-08")

	for _, id := range []string{maria.ID.String(), ana.ID.String()} {
		if _, err := svc.Create(ctx, CreateRequest{PatientID: id, Date: "2026-09-15"}); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
	}

	// Deactivating Ana drops her appointment from the board
	if err := patients.Deactivate(ctx, ana.ID.String()); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	enriched, err := svc.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}

	if len(enriched) != 1 {
		t.Fatalf("Expected 1 appointment, got %d", len(enriched))
	}
	if enriched[0].PatientName != maria.FullName() {
		t.Errorf("Expected patient name '%s', got '%s'", maria.FullName(), enriched[0].PatientName)
	}
}

func TestUpdateStatus(t *testing.T) {
	svc, patients := newTestServices(t)
	ctx := context.Background()
	p := registerPatient(t, patients, "Santos", "Maria", "1985-03-15")

	a, err := svc.Create(ctx, CreateRequest{PatientID: p.ID.String(), Date: "2026-09-15"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, a.ID.String(), StatusCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus failed: %v", err)
	}
	if updated.Status != StatusCompleted {
		t.Errorf("Expected status '%s', got '%s'", StatusCompleted, updated.Status)
	}

	if _, err := svc.UpdateStatus(ctx, a.ID.String(), Status("no-show")); err == nil {
		t.Error("Expected an error for an unknown status, got nil")
	}
}

func TestValidTime(t *testing.T) {
	tests := []struct {
		input    string
		expected bool
	}{
		{"09:00", true},
		{"00:00", true},
		{"23:59", true},
		{"24:00", false},
		{"9:00", false},
		{"09:60", false},
		{"0900", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := ValidTime(tt.input); got != tt.expected {
				t.Errorf("ValidTime(%q): expected %v, got %v", tt.input, tt.expected, got)
			}
		})
	}
}
