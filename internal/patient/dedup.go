package patient

import "strings"

// Identity is the tuple used for duplicate detection. Suffix and address
// are deliberately excluded: two entries with the same name and birthday
// are treated as the same person re-registering, whatever the address.
type Identity struct {
	Lastname   string
	Firstname  string
	Middlename string
	Birthday   string
}

// IdentityOf extracts the identity tuple from an existing record
func IdentityOf(p *Patient) Identity {
	return Identity{
		Lastname:   p.Lastname,
		Firstname:  p.Firstname,
		Middlename: optional(p.Middlename),
		Birthday:   p.Birthday,
	}
}

// Equal compares two identities under the normalization rules: names
// case-insensitive and trimmed, birthday by exact string match after
// trimming.
func (id Identity) Equal(other Identity) bool {
	return normalize(id.Lastname) == normalize(other.Lastname) &&
		normalize(id.Firstname) == normalize(other.Firstname) &&
		normalize(id.Middlename) == normalize(other.Middlename) &&
		strings.TrimSpace(id.Birthday) == strings.TrimSpace(other.Birthday)
}

// IsDuplicate reports whether the candidate identity collides with any
// record in the snapshot. All records are checked regardless of status:
// a deactivated duplicate is still the same person.
func IsDuplicate(records []*Patient, candidate Identity) bool {
	for _, p := range records {
		if IdentityOf(p).Equal(candidate) {
			return true
		}
	}
	return false
}
