package importer

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// Source column and key names are matched against fixed synonym lists,
// case-sensitively, first match wins.
var fieldAliases = []struct {
	field   string
	aliases []string
}{
	{"lastname", []string{"lastname", "last_name", "LastName"}},
	{"firstname", []string{"firstname", "first_name", "FirstName"}},
	{"middlename", []string{"middlename", "middle_name", "MiddleName"}},
	{"suffix", []string{"suffix", "Suffix"}},
	{"birthday", []string{"birthday", "birth_date", "date_of_birth", "Birthday"}},
	{"address", []string{"address", "Address"}},
	{"phone", []string{"phone", "phone_number", "Phone"}},
	{"email", []string{"email", "Email"}},
	{"emergency_contact_name", []string{"emergency_contact_name", "emergency_contact"}},
	{"emergency_contact_phone", []string{"emergency_contact_phone", "emergency_phone"}},
	{"medical_history", []string{"medical_history", "Medical_History"}},
	{"allergies", []string{"allergies", "Allergies"}},
	{"blood_type", []string{"blood_type", "Blood_Type"}},
}

// mapAliases resolves raw column/key names to canonical field names
func mapAliases(raw map[string]string) map[string]string {
	fields := make(map[string]string, len(fieldAliases))
	for _, fa := range fieldAliases {
		for _, alias := range fa.aliases {
			if v, ok := raw[alias]; ok && v != "" {
				fields[fa.field] = v
				break
			}
		}
	}
	return fields
}

// ReadCSV parses a CSV upload into entries. The delimiter is sniffed from
// the header line. Entry labels count from row 2, row 1 being the header.
func ReadCSV(r io.Reader) ([]Entry, error) {
	br := bufio.NewReader(r)

	headerLine, err := br.ReadString('\n')
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	if strings.TrimSpace(headerLine) == "" {
		return nil, fmt.Errorf("CSV file is empty")
	}

	reader := csv.NewReader(io.MultiReader(strings.NewReader(headerLine), br))
	reader.Comma = sniffDelimiter(headerLine)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	var entries []Entry
	rowNum := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		rowNum++
		if err != nil {
			return nil, fmt.Errorf("failed to parse CSV row %d: %w", rowNum, err)
		}

		raw := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				raw[col] = record[i]
			}
		}

		entries = append(entries, Entry{
			Label:  fmt.Sprintf("Row %d", rowNum),
			Fields: mapAliases(raw),
		})
	}

	return entries, nil
}

// sniffDelimiter picks the delimiter that splits the header into the most
// columns
func sniffDelimiter(header string) rune {
	best := ','
	bestCount := strings.Count(header, ",")
	for _, d := range []rune{';', '\t', '|'} {
		if c := strings.Count(header, string(d)); c > bestCount {
			best = d
			bestCount = c
		}
	}
	return best
}

// ReadJSON parses a JSON upload into entries. Accepted shapes are a bare
// array of objects or {"patients": [...]}. Entry labels count from 1.
func ReadJSON(r io.Reader) ([]Entry, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON upload: %w", err)
	}

	var objects []map[string]any
	if err := json.Unmarshal(data, &objects); err != nil {
		var wrapper struct {
			Patients []map[string]any `json:"patients"`
		}
		if err := json.Unmarshal(data, &wrapper); err != nil || wrapper.Patients == nil {
			return nil, fmt.Errorf("invalid JSON structure")
		}
		objects = wrapper.Patients
	}

	entries := make([]Entry, 0, len(objects))
	for i, obj := range objects {
		raw := make(map[string]string, len(obj))
		for k, v := range obj {
			if s, ok := v.(string); ok {
				raw[k] = s
			}
		}
		entries = append(entries, Entry{
			Label:  fmt.Sprintf("Patient %d", i+1),
			Fields: mapAliases(raw),
		})
	}

	return entries, nil
}

// DetectFormat picks the reader for an uploaded file based on its
// extension, falling back to content sniffing for unknown extensions.
func DetectFormat(filename string, head []byte) (Format, error) {
	name := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(name, ".csv"):
		return FormatCSV, nil
	case strings.HasSuffix(name, ".json"):
		return FormatJSON, nil
	}

	trimmed := bytes.TrimLeft(head, " \t\r\n")
	if len(trimmed) > 0 && (trimmed[0] == '[' || trimmed[0] == '{') {
		return FormatJSON, nil
	}
	if len(trimmed) > 0 {
		return FormatCSV, nil
	}
	return "", fmt.Errorf("unsupported file type: %s", filename)
}
