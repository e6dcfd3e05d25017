package patient

import (
	"strings"
	"time"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

// Status defines the soft-delete state of a patient record
type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Patient represents a registered patient record. Records are never
// physically deleted; deactivation flips Status to inactive.
type Patient struct {
	ID        types.ID `json:"id"`
	Lastname  string   `json:"lastname"`
	Firstname string   `json:"firstname"`

	// Middlename and Suffix distinguish "absent" (nil) from recorded
	// empty text; both are treated as empty during matching.
	Middlename *string `json:"middlename"`
	Suffix     *string `json:"suffix"`

	// Birthday is stored and compared as an ISO YYYY-MM-DD string
	Birthday string `json:"birthday"`
	Address  string `json:"address"`

	Phone                 *string `json:"phone"`
	Email                 *string `json:"email"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	MedicalHistory        *string `json:"medical_history"`
	Allergies             *string `json:"allergies"`
	BloodType             *string `json:"blood_type"`

	IsNew  bool   `json:"is_new"`
	Status Status `json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FullName returns the patient's display name with optional parts included
func (p *Patient) FullName() string {
	parts := []string{p.Firstname}
	if p.Middlename != nil && *p.Middlename != "" {
		parts = append(parts, *p.Middlename)
	}
	parts = append(parts, p.Lastname)
	if p.Suffix != nil && *p.Suffix != "" {
		parts = append(parts, *p.Suffix)
	}
	return strings.Join(parts, " ")
}

// IsActive reports whether the record participates in search by default
func (p *Patient) IsActive() bool {
	return p.Status == StatusActive
}

// RegisterRequest is the request to register a new patient
type RegisterRequest struct {
	Lastname              string  `json:"lastname"`
	Firstname             string  `json:"firstname"`
	Middlename            *string `json:"middlename"`
	Suffix                *string `json:"suffix"`
	Birthday              string  `json:"birthday"`
	Address               string  `json:"address"`
	Phone                 *string `json:"phone"`
	Email                 *string `json:"email"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	MedicalHistory        *string `json:"medical_history"`
	Allergies             *string `json:"allergies"`
	BloodType             *string `json:"blood_type"`
}

// CorrectionRequest updates individual fields of an existing record.
// Only non-nil fields are applied; identity corrections re-run the
// duplicate check.
type CorrectionRequest struct {
	Lastname              *string `json:"lastname"`
	Firstname             *string `json:"firstname"`
	Middlename            *string `json:"middlename"`
	Suffix                *string `json:"suffix"`
	Birthday              *string `json:"birthday"`
	Address               *string `json:"address"`
	Phone                 *string `json:"phone"`
	Email                 *string `json:"email"`
	EmergencyContactName  *string `json:"emergency_contact_name"`
	EmergencyContactPhone *string `json:"emergency_contact_phone"`
	MedicalHistory        *string `json:"medical_history"`
	Allergies             *string `json:"allergies"`
	BloodType             *string `json:"blood_type"`
}

// ValidateBirthday checks an ISO YYYY-MM-DD date string
func ValidateBirthday(s string) bool {
	_, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	return err == nil
}
