package mapping_test

import (
	"testing"

	"hashav/reconcile/mapping"
)

func TestSuggestMapping_ByHebrewLabel(t *testing.T) {
	columns := []string{"קוד מיון", "שם"}
	fields := []mapping.TargetField{
		{Name: "code", Label: "קוד מיון"},
		{Name: "name", Label: "שם"},
	}

	mappings := mapping.SuggestMapping(columns, fields)

	if len(mappings) != 2 {
		t.Fatalf("Expected both columns mapped, got %d", len(mappings))
	}
	if mappings[0].TargetField != "code" || mappings[1].TargetField != "name" {
		t.Errorf("Unexpected mapping targets: %+v", mappings)
	}
}

func TestSuggestMapping_ByCanonicalNameCaseInsensitive(t *testing.T) {
	columns := []string{"Account_Key", "AMOUNT"}
	fields := []mapping.TargetField{
		{Name: "account_key", Label: "מפתח חשבון"},
		{Name: "amount", Label: "סכום"},
	}

	mappings := mapping.SuggestMapping(columns, fields)

	if len(mappings) != 2 {
		t.Fatalf("Expected both columns mapped, got %d", len(mappings))
	}
}

func TestSuggestMapping_NoMatchIsNotAnError(t *testing.T) {
	mappings := mapping.SuggestMapping([]string{"mystery column"}, mapping.SortCodeFields)

	if len(mappings) != 0 {
		t.Errorf("Expected no mappings, got %+v", mappings)
	}
}

func TestValidateRequiredFields(t *testing.T) {
	mappings := []mapping.ColumnMapping{
		{SourceColumn: "קוד מיון", TargetField: "code"},
	}

	missing := mapping.ValidateRequiredFields(mappings, []string{"code", "name"})

	if len(missing) != 1 || missing[0] != "name" {
		t.Errorf("Expected [name] missing, got %v", missing)
	}

	if got := mapping.ValidateRequiredFields(mappings, []string{"code"}); len(got) != 0 {
		t.Errorf("Expected nothing missing, got %v", got)
	}
}

func TestApply(t *testing.T) {
	mappings := []mapping.ColumnMapping{
		{SourceColumn: "קוד מיון", TargetField: "code"},
		{SourceColumn: "שם", TargetField: "name"},
	}
	rows := []map[string]string{
		{"קוד מיון": "100", "שם": "לקוחות", "עמודה עודפת": "x"},
	}

	out := mapping.Apply(mappings, rows)

	if len(out) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(out))
	}
	if out[0]["code"] != "100" || out[0]["name"] != "לקוחות" {
		t.Errorf("Unexpected mapped row: %+v", out[0])
	}
	if _, ok := out[0]["עמודה עודפת"]; ok {
		t.Errorf("Unmapped columns must be dropped")
	}
}
