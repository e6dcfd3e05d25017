package patient

import (
	"testing"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

func strptr(s string) *string { return &s }

func testRecords() []*Patient {
	return []*Patient{
		{
			ID:         types.ID("00000000-0000-0000-0000-000000000001"),
			Lastname:   "Santos",
			Firstname:  "Maria",
			Middlename: strptr("Cruz"),
			Birthday:   "1985-03-15",
			Address:    "123 Rizal St., Imus, Cavite",
			Status:     StatusActive,
		},
		{
			ID:         types.ID("00000000-0000-0000-0000-000000000002"),
			Lastname:   "Santos",
			Firstname:  "Shayne",
			Middlename: strptr("Cruz"),
			Birthday:   "1985-05-15",
			Address:    "456 Mabini St., Imus, Cavite",
			Status:     StatusActive,
		},
		{
			ID:         types.ID("00000000-0000-0000-0000-000000000003"),
			Lastname:   "Garcia",
			Firstname:  "Juan",
			Middlename: strptr("Dela Cruz"),
			Suffix:     strptr("Jr."),
			Birthday:   "1990-07-22",
			Address:    "789 Bonifacio Ave., Bacoor, Cavite",
			Status:     StatusActive,
		},
		{
			ID:        types.ID("00000000-0000-0000-0000-000000000004"),
			Lastname:  "Reyes",
			Firstname: "Ana",
			Birthday:  "1978-11-08",
			Address:   "321 Aguinaldo Hwy., Dasmarinas, Cavite",
			Status:    StatusInactive,
		},
	}
}

func TestMatchEmptyCriteria(t *testing.T) {
	_, err := Match(testRecords(), Criteria{})
	if err == nil {
		t.Fatal("Expected an error for empty criteria, got nil")
	}

	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != "INVALID_CRITERIA" {
		t.Errorf("Expected INVALID_CRITERIA error, got %v", err)
	}

	// Whitespace-only fields impose no constraint either
	_, err = Match(testRecords(), Criteria{Lastname: "   "})
	if err == nil {
		t.Error("Expected an error for whitespace-only criteria, got nil")
	}
}

func TestMatchCaseAndWhitespaceInsensitive(t *testing.T) {
	results, err := Match(testRecords(), Criteria{Lastname: "  SANTOS "})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(results))
	}
	for _, p := range results {
		if p.Lastname != "Santos" {
			t.Errorf("Expected lastname 'Santos', got '%s'", p.Lastname)
		}
	}
}

func TestMatchCombinedCriteria(t *testing.T) {
	tests := []struct {
		name     string
		criteria Criteria
		expected int
	}{
		{"lastname and firstname", Criteria{Lastname: "santos", Firstname: "maria"}, 1},
		{"lastname and wrong firstname", Criteria{Lastname: "santos", Firstname: "juan"}, 0},
		{"middlename", Criteria{Middlename: "cruz"}, 2},
		{"suffix", Criteria{Suffix: "jr."}, 1},
		{"birthday exact", Criteria{Birthday: "1985-03-15"}, 1},
		{"birthday trimmed", Criteria{Birthday: " 1985-03-15 "}, 1},
		{"birthday no partial match", Criteria{Birthday: "1985"}, 0},
		{"no match at all", Criteria{Lastname: "Bautista"}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Match(testRecords(), tt.criteria)
			if err != nil {
				t.Fatalf("Match failed: %v", err)
			}
			if len(results) != tt.expected {
				t.Errorf("Expected %d results, got %d", tt.expected, len(results))
			}
		})
	}
}

func TestMatchAddressSubstring(t *testing.T) {
	results, err := Match(testRecords(), Criteria{Address: "Imus"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	if len(results) != 2 {
		t.Fatalf("Expected 2 results for substring 'Imus', got %d", len(results))
	}

	// Substring matching is case-insensitive too
	results, err = Match(testRecords(), Criteria{Address: "imus"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("Expected 2 results for substring 'imus', got %d", len(results))
	}
}

func TestMatchExcludesInactive(t *testing.T) {
	// Reyes is inactive and must not appear even on an exact match
	results, err := Match(testRecords(), Criteria{Lastname: "Reyes"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected inactive records to be excluded, got %d results", len(results))
	}
}

func TestMatchAbsentOptionalFieldIsEmpty(t *testing.T) {
	// Reyes has no middlename; criteria middlename "cruz" must not match
	// a record whose middlename is absent
	records := []*Patient{
		{
			ID:        types.NewID(),
			Lastname:  "Reyes",
			Firstname: "Ana",
			Birthday:  "1978-11-08",
			Status:    StatusActive,
		},
	}

	results, err := Match(records, Criteria{Middlename: "cruz"})
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("Expected absent middlename to match nothing, got %d results", len(results))
	}
}

func TestMatchIdempotent(t *testing.T) {
	records := testRecords()
	criteria := Criteria{Lastname: "Santos"}

	first, err := Match(records, criteria)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}
	second, err := Match(records, criteria)
	if err != nil {
		t.Fatalf("Match failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Expected identical result sets, got %d and %d", len(first), len(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Errorf("Result %d differs between invocations", i)
		}
	}
}

func TestSortByName(t *testing.T) {
	records := testRecords()
	SortByName(records)

	expected := []string{"Garcia", "Reyes", "Santos", "Santos"}
	for i, want := range expected {
		if records[i].Lastname != want {
			t.Errorf("Position %d: expected '%s', got '%s'", i, want, records[i].Lastname)
		}
	}

	// Santos Maria sorts before Santos Shayne
	if records[2].Firstname != "Maria" || records[3].Firstname != "Shayne" {
		t.Errorf("Expected firstname tiebreak Maria before Shayne, got '%s' then '%s'",
			records[2].Firstname, records[3].Firstname)
	}
}
