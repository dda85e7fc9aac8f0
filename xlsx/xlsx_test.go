package xlsx_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	"hashav/reconcile/xlsx"
)

func writeWorkbook(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			t.Fatalf("Failed to build cell name: %v", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("Failed to set sheet row: %v", err)
		}
	}

	path := filepath.Join(t.TempDir(), "export.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("Failed to save workbook: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("Failed to close workbook: %v", err)
	}
	return path
}

func TestRead(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"מפתח חשבון", "שם חשבון", "סכום"},
		{"1001", "לקוח א", "500"},
		{"1002", "לקוח ב", "750.25"},
	})

	table, err := xlsx.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}

	if len(table.Header) != 3 {
		t.Errorf("Expected 3 header columns, got %d", len(table.Header))
	}
	if len(table.Rows) != 2 {
		t.Fatalf("Expected 2 rows, got %d", len(table.Rows))
	}
	if table.Rows[0]["מפתח חשבון"] != "1001" || table.Rows[1]["סכום"] != "750.25" {
		t.Errorf("Unexpected rows: %+v", table.Rows)
	}
}

func TestRead_ShortRowsPadded(t *testing.T) {
	path := writeWorkbook(t, [][]interface{}{
		{"a", "b", "c"},
		{"1"},
	})

	table, err := xlsx.Read(context.Background(), path)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(table.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(table.Rows))
	}
	if table.Rows[0]["b"] != "" || table.Rows[0]["c"] != "" {
		t.Errorf("Short rows must pad missing cells, got %+v", table.Rows[0])
	}
}

func TestRead_MissingFile(t *testing.T) {
	if _, err := xlsx.Read(context.Background(), "/no/such/file.xlsx"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
