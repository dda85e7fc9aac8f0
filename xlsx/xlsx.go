// Package xlsx reads spreadsheet exports into the same table shape the
// CSV parser produces, so the rest of the pipeline does not care which
// format the export arrived in.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"hashav/reconcile/appcontext"
	"hashav/reconcile/csvfile"
)

// Read parses the first sheet of an xlsx workbook into a Table. Rows
// shorter than the header are padded with empty cells; excelize trims
// trailing blanks per row.
func Read(ctx context.Context, filePath string) (*csvfile.Table, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Parsing data from xlsx", "filePath", filePath)

	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook %s: %w", filePath, err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil {
			logger.WarnContext(ctx, "Error closing workbook", "file", filePath, "error", closeErr)
		}
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &csvfile.Table{}, nil
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s of %s: %w", sheets[0], filePath, err)
	}
	if len(rows) == 0 {
		return &csvfile.Table{}, nil
	}

	table := &csvfile.Table{Header: rows[0]}
	for _, record := range rows[1:] {
		row := make(map[string]string, len(table.Header))
		for j, col := range table.Header {
			if j < len(record) {
				row[col] = record[j]
			} else {
				row[col] = ""
			}
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
