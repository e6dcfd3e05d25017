package importer

import (
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/patient"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

func entry(label string, fields map[string]string) Entry {
	return Entry{Label: label, Fields: fields}
}

func TestStage(t *testing.T) {
	entries := []Entry{
		entry("Row 2", map[string]string{
			"lastname": "Santos", "firstname": "Maria", "birthday": "1985-03-15", "address": "Imus",
		}),
		entry("Row 3", map[string]string{
			"lastname": "Garcia", "firstname": "Juan", "birthday": "1990-07-22", "address": "Bacoor",
		}),
	}

	staged := Stage(nil, entries)

	if len(staged.Accepted) != 2 {
		t.Fatalf("Expected 2 accepted entries, got %d", len(staged.Accepted))
	}
	if len(staged.Errors) != 0 {
		t.Fatalf("Expected no errors, got %v", staged.Errors)
	}
	if staged.Accepted[0].Lastname != "Santos" {
		t.Errorf("Expected lastname 'Santos', got '%s'", staged.Accepted[0].Lastname)
	}
	if staged.Accepted[0].IsNew {
		t.Error("Expected imported patients not to be flagged as new")
	}
	if staged.Accepted[0].Status != patient.StatusActive {
		t.Errorf("Expected status '%s', got '%s'", patient.StatusActive, staged.Accepted[0].Status)
	}
}

func TestStageMissingFields(t *testing.T) {
	entries := []Entry{
		entry("Row 2", map[string]string{
			"lastname": "Santos", "birthday": "1985-03-15", "address": "Imus",
		}),
	}

	staged := Stage(nil, entries)

	if len(staged.Accepted) != 0 {
		t.Fatalf("Expected 0 accepted entries, got %d", len(staged.Accepted))
	}
	if len(staged.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(staged.Errors))
	}
	if !strings.Contains(staged.Errors[0], "Row 2") {
		t.Errorf("Expected error to name the entry, got '%s'", staged.Errors[0])
	}
	if !strings.Contains(staged.Errors[0], "firstname") {
		t.Errorf("Expected error to name the missing field, got '%s'", staged.Errors[0])
	}
}

func TestStageInvalidBirthday(t *testing.T) {
	entries := []Entry{
		entry("Row 2", map[string]string{
			"lastname": "Santos", "firstname": "Maria", "birthday": "2025-13-40", "address": "Imus",
		}),
	}

	staged := Stage(nil, entries)

	if len(staged.Accepted) != 0 {
		t.Fatalf("Expected 0 accepted entries, got %d", len(staged.Accepted))
	}
	if len(staged.Errors) != 1 || !strings.Contains(staged.Errors[0], "2025-13-40") {
		t.Errorf("Expected an invalid birthday error, got %v", staged.Errors)
	}
}

func TestStageDuplicateAgainstSnapshot(t *testing.T) {
	snapshot := []*patient.Patient{
		{
			ID:        types.NewID(),
			Lastname:  "Santos",
			Firstname: "Maria",
			Birthday:  "1985-03-15",
			Status:    patient.StatusActive,
		},
	}
	entries := []Entry{
		entry("Row 2", map[string]string{
			"lastname": "SANTOS", "firstname": "maria", "birthday": "1985-03-15", "address": "Imus",
		}),
	}

	staged := Stage(snapshot, entries)

	if len(staged.Accepted) != 0 {
		t.Fatalf("Expected 0 accepted entries, got %d", len(staged.Accepted))
	}
	if len(staged.Errors) != 1 || !strings.Contains(staged.Errors[0], "already exists") {
		t.Errorf("Expected a duplicate error, got %v", staged.Errors)
	}
}

func TestStageDuplicateWithinBatch(t *testing.T) {
	fields := map[string]string{
		"lastname": "Santos", "firstname": "Maria", "birthday": "1985-03-15", "address": "Imus",
	}
	entries := []Entry{
		entry("Row 2", fields),
		entry("Row 3", fields),
	}

	staged := Stage(nil, entries)

	if len(staged.Accepted) != 1 {
		t.Fatalf("Expected 1 accepted entry, got %d", len(staged.Accepted))
	}
	if len(staged.Errors) != 1 {
		t.Fatalf("Expected 1 error, got %d", len(staged.Errors))
	}
	if !strings.Contains(staged.Errors[0], "Row 3") {
		t.Errorf("Expected the later entry to be rejected, got '%s'", staged.Errors[0])
	}
}

func newTestImportService(t *testing.T) (*Service, patient.Store) {
	t.Helper()
	dir := t.TempDir()
	patients := patient.NewJSONStore(dir, zerolog.Nop())
	history := NewJSONHistoryStore(dir)
	return NewService(patients, history, nil, zerolog.Nop()), patients
}

func TestImportCSV(t *testing.T) {
	svc, patients := newTestImportService(t)
	ctx := context.Background()

	input := "lastname,firstname,birthday,address\n" +
		"Santos,Maria,1985-03-15,Imus\n" +
		"Garcia,Juan,1990-07-22,Bacoor\n"

	summary, err := svc.Import(ctx, "patients.csv", FormatCSV, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if !summary.Success {
		t.Error("Expected a successful summary")
	}
	if summary.ImportedCount != 2 {
		t.Errorf("Expected imported_count 2, got %d", summary.ImportedCount)
	}
	if summary.TotalErrors != 0 {
		t.Errorf("Expected total_errors 0, got %d", summary.TotalErrors)
	}

	records, err := patients.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(records) != 2 {
		t.Errorf("Expected 2 stored records, got %d", len(records))
	}
	for _, p := range records {
		if p.ID.IsZero() {
			t.Error("Expected stored records to have generated IDs")
		}
	}
}

func TestImportPartialFailure(t *testing.T) {
	svc, patients := newTestImportService(t)
	ctx := context.Background()

	// Row 3 repeats row 2's identity, row 4 lacks a firstname
	input := "lastname,firstname,birthday,address\n" +
		"Santos,Maria,1985-03-15,Imus\n" +
		"santos,MARIA,1985-03-15,Bacoor\n" +
		"Garcia,,1990-07-22,Bacoor\n"

	summary, err := svc.Import(ctx, "patients.csv", FormatCSV, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	if summary.ImportedCount != 1 {
		t.Errorf("Expected imported_count 1, got %d", summary.ImportedCount)
	}
	if summary.TotalErrors != 2 {
		t.Errorf("Expected total_errors 2, got %d", summary.TotalErrors)
	}

	records, err := patients.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll failed: %v", err)
	}
	if len(records) != 1 {
		t.Errorf("Expected 1 stored record, got %d", len(records))
	}
}

func TestImportJSON(t *testing.T) {
	svc, _ := newTestImportService(t)

	input := `{"patients": [
		{"lastname": "Reyes", "firstname": "Ana", "birthday": "1978-11-08", "address": "Dasmarinas"}
	]}`

	summary, err := svc.Import(context.Background(), "patients.json", FormatJSON, strings.NewReader(input))
	if err != nil {
		t.Fatalf("Import failed: %v", err)
	}
	if summary.ImportedCount != 1 {
		t.Errorf("Expected imported_count 1, got %d", summary.ImportedCount)
	}
}

func TestImportRecordsHistory(t *testing.T) {
	svc, _ := newTestImportService(t)
	ctx := context.Background()

	input := "lastname,firstname,birthday,address\nSantos,Maria,1985-03-15,Imus\n"
	if _, err := svc.Import(ctx, "batch1.csv", FormatCSV, strings.NewReader(input)); err != nil {
		t.Fatalf("Import failed: %v", err)
	}

	history, err := svc.History(ctx)
	if err != nil {
		t.Fatalf("History failed: %v", err)
	}
	if len(history) != 1 {
		t.Fatalf("Expected 1 history record, got %d", len(history))
	}
	if history[0].Filename != "batch1.csv" {
		t.Errorf("Expected filename 'batch1.csv', got '%s'", history[0].Filename)
	}
	if history[0].RecordsImported != 1 {
		t.Errorf("Expected records_imported 1, got %d", history[0].RecordsImported)
	}
	if history[0].Status != "completed" {
		t.Errorf("Expected status 'completed', got '%s'", history[0].Status)
	}
}

func TestImportUnsupportedFormat(t *testing.T) {
	svc, _ := newTestImportService(t)

	_, err := svc.Import(context.Background(), "patients.xml", Format("xml"), strings.NewReader("<xml/>"))
	if err == nil {
		t.Error("Expected an error for an unsupported format, got nil")
	}
}
