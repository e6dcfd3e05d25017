package importer

import (
	"time"

	"github.com/gabzy-works/Ospital-ng-Imus/internal/shared/types"
)

// Format identifies the source file format of a batch import
type Format string

const (
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// Entry is one raw input row or object after alias mapping. Label names
// the entry in per-entry error strings ("Row 2", "Patient 1").
type Entry struct {
	Label  string
	Fields map[string]string
}

// Summary is the outcome of a batch import. Entries that fail validation
// or duplicate detection are skipped, not fatal; already-accepted entries
// are kept.
type Summary struct {
	Success       bool     `json:"success"`
	ImportedCount int      `json:"imported_count"`
	Errors        []string `json:"errors"`
	TotalErrors   int      `json:"total_errors"`
}

// ImportRecord is one line of the import history
type ImportRecord struct {
	ID              types.ID  `json:"id"`
	Filename        string    `json:"filename"`
	ImportDate      time.Time `json:"import_date"`
	RecordsImported int       `json:"records_imported"`
	ImportType      Format    `json:"import_type"`
	Status          string    `json:"status"`
}
