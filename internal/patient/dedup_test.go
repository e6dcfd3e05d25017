package patient

import (
	"testing"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

func TestIsDuplicateCaseInsensitive(t *testing.T) {
	records := []*Patient{
		{
			ID:         types.NewID(),
			Lastname:   "Santos",
			Firstname:  "Maria",
			Middlename: strptr("Cruz"),
			Birthday:   "1985-03-15",
			Status:     StatusActive,
		},
	}

	tests := []struct {
		name      string
		candidate Identity
		expected  bool
	}{
		{
			"exact match",
			Identity{Lastname: "Santos", Firstname: "Maria", Middlename: "Cruz", Birthday: "1985-03-15"},
			true,
		},
		{
			"case varied",
			Identity{Lastname: "santos", Firstname: "MARIA", Middlename: "cruz", Birthday: "1985-03-15"},
			true,
		},
		{
			"surrounding whitespace",
			Identity{Lastname: " Santos ", Firstname: "Maria", Middlename: "Cruz", Birthday: " 1985-03-15 "},
			true,
		},
		{
			"different birthday",
			Identity{Lastname: "Santos", Firstname: "Maria", Middlename: "Cruz", Birthday: "1985-03-16"},
			false,
		},
		{
			"different middlename",
			Identity{Lastname: "Santos", Firstname: "Maria", Middlename: "Reyes", Birthday: "1985-03-15"},
			false,
		},
		{
			"missing middlename",
			Identity{Lastname: "Santos", Firstname: "Maria", Birthday: "1985-03-15"},
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDuplicate(records, tt.candidate); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestIsDuplicateAbsentMiddlename(t *testing.T) {
	// A record without a middlename collides with a candidate whose
	// middlename is empty or whitespace
	records := []*Patient{
		{
			ID:        types.NewID(),
			Lastname:  "Reyes",
			Firstname: "Ana",
			Birthday:  "1978-11-08",
			Status:    StatusActive,
		},
	}

	candidate := Identity{Lastname: "Reyes", Firstname: "Ana", Middlename: "  ", Birthday: "1978-11-08"}
	if !IsDuplicate(records, candidate) {
		t.Error("Expected absent middlename to equal blank middlename")
	}
}

func TestIsDuplicateIgnoresSuffixAndAddress(t *testing.T) {
	records := []*Patient{
		{
			ID:         types.NewID(),
			Lastname:   "Garcia",
			Firstname:  "Juan",
			Middlename: strptr("Dela Cruz"),
			Suffix:     strptr("Jr."),
			Birthday:   "1990-07-22",
			Address:    "789 Bonifacio Ave., Bacoor, Cavite",
			Status:     StatusActive,
		},
	}

	// Same identity tuple, different suffix and address: still a duplicate
	candidate := Identity{Lastname: "Garcia", Firstname: "Juan", Middlename: "Dela Cruz", Birthday: "1990-07-22"}
	if !IsDuplicate(records, candidate) {
		t.Error("Expected suffix and address to be excluded from the identity tuple")
	}
}

func TestIsDuplicateIgnoresStatus(t *testing.T) {
	records := []*Patient{
		{
			ID:        types.NewID(),
			Lastname:  "Reyes",
			Firstname: "Ana",
			Birthday:  "1978-11-08",
			Status:    StatusInactive,
		},
	}

	candidate := Identity{Lastname: "Reyes", Firstname: "Ana", Birthday: "1978-11-08"}
	if !IsDuplicate(records, candidate) {
		t.Error("Expected deactivated records to still count for duplicate detection")
	}
}
