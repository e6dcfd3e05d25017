package patient

import (
	"sort"
	"strings"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/errors"
)

// Criteria is the caller-supplied set of optional search fields. A blank
// field (empty after trimming) imposes no constraint.
type Criteria struct {
	Lastname   string `json:"lastname"`
	Firstname  string `json:"firstname"`
	Middlename string `json:"middlename"`
	Suffix     string `json:"suffix"`
	Birthday   string `json:"birthday"`
	Address    string `json:"address"`
}

// IsEmpty reports whether no usable search field was supplied
func (c Criteria) IsEmpty() bool {
	for _, f := range []string{c.Lastname, c.Firstname, c.Middlename, c.Suffix, c.Birthday, c.Address} {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// Match filters a snapshot of patient records against the criteria. Only
// active records are eligible. Every provided criteria field must hold:
// name fields and suffix by normalized equality, birthday by exact string
// equality after trimming, address by normalized substring. An empty
// criteria set is rejected rather than matching everything.
func Match(records []*Patient, criteria Criteria) ([]*Patient, error) {
	if criteria.IsEmpty() {
		return nil, errors.InvalidCriteria()
	}

	results := make([]*Patient, 0)
	for _, p := range records {
		if !p.IsActive() {
			continue
		}
		if matches(p, criteria) {
			results = append(results, p)
		}
	}
	return results, nil
}

func matches(p *Patient, c Criteria) bool {
	if v := normalize(c.Lastname); v != "" && normalize(p.Lastname) != v {
		return false
	}
	if v := normalize(c.Firstname); v != "" && normalize(p.Firstname) != v {
		return false
	}
	if v := normalize(c.Middlename); v != "" && normalize(optional(p.Middlename)) != v {
		return false
	}
	if v := normalize(c.Suffix); v != "" && normalize(optional(p.Suffix)) != v {
		return false
	}
	if v := strings.TrimSpace(c.Birthday); v != "" && strings.TrimSpace(p.Birthday) != v {
		return false
	}
	if v := normalize(c.Address); v != "" && !strings.Contains(normalize(p.Address), v) {
		return false
	}
	return true
}

// SortByName orders records by (lastname, firstname) ascending using
// plain byte comparison, ties broken by id. The slice is sorted in place.
func SortByName(records []*Patient) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.Lastname != b.Lastname {
			return a.Lastname < b.Lastname
		}
		if a.Firstname != b.Firstname {
			return a.Firstname < b.Firstname
		}
		return a.ID < b.ID
	})
}

// normalize lowercases and trims a field for comparison
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// optional treats an absent field as empty text
func optional(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
