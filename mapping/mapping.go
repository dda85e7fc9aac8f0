// Package mapping proposes and applies mappings from arbitrary export
// column headers to canonical field names.
package mapping

import "strings"

// TargetField is a canonical field a source column can map onto. Label is
// the display header Hashavshevet exports use for it.
type TargetField struct {
	Name  string
	Label string
}

// ColumnMapping binds one source column to one target field. Produced per
// file selection; the operator may adjust it before committing an import.
type ColumnMapping struct {
	SourceColumn string
	TargetField  string
}

// SuggestMapping proposes a target field for each source column whose text
// equals a field's canonical name (case-insensitively) or its display
// label exactly. Columns without a match are left out; that is a normal
// outcome, not an error.
func SuggestMapping(sourceColumns []string, targetFields []TargetField) []ColumnMapping {
	var mappings []ColumnMapping

	for _, column := range sourceColumns {
		for _, field := range targetFields {
			if strings.EqualFold(field.Name, column) || field.Label == column {
				mappings = append(mappings, ColumnMapping{
					SourceColumn: column,
					TargetField:  field.Name,
				})
				break
			}
		}
	}

	return mappings
}

// ValidateRequiredFields returns the required target fields that no source
// column maps to. Ingestion is blocked until the list is empty.
func ValidateRequiredFields(mappings []ColumnMapping, requiredFields []string) []string {
	var missing []string

	for _, required := range requiredFields {
		found := false
		for _, m := range mappings {
			if m.TargetField == required {
				found = true
				break
			}
		}
		if !found {
			missing = append(missing, required)
		}
	}

	return missing
}

// Apply rewrites rows keyed by source column into rows keyed by canonical
// field name. Unmapped columns are dropped.
func Apply(mappings []ColumnMapping, rows []map[string]string) []map[string]string {
	out := make([]map[string]string, 0, len(rows))

	for _, row := range rows {
		mapped := make(map[string]string, len(mappings))
		for _, m := range mappings {
			if v, ok := row[m.SourceColumn]; ok {
				mapped[m.TargetField] = v
			}
		}
		out = append(out, mapped)
	}

	return out
}
