// Package csvfile parses delimited export files into header-keyed rows.
// Parse failures on individual rows are pass-through diagnostics, not
// errors of the parse itself.
package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"hashav/reconcile/appcontext"
)

// RowError describes one row that could not be used.
type RowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

// Table is the parsed content of one file: the raw header, the data rows
// keyed by header text, and per-row diagnostics.
type Table struct {
	Header []string
	Rows   []map[string]string
	Errors []RowError
}

var errFileNotFound = errors.New("the valid target file was not found")

// FileNotFoundError wraps errFileNotFound with the offending path.
func FileNotFoundError(path string) error {
	return fmt.Errorf("%w, %s", errFileNotFound, path)
}

// Parse reads a CSV file into a Table. An empty file yields an empty
// Table, not an error.
func Parse(ctx context.Context, filePath string) (*Table, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Parsing data from csv", "filePath", filePath)

	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return &Table{}, nil
		}
		return nil, fmt.Errorf("failed to read CSV header from file %s: %w", filePath, err)
	}

	table := &Table{Header: header}
	rowNum := 1

	for {
		record, readErr := reader.Read()
		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				break
			}
			return nil, fmt.Errorf("failed to read record from CSV in file %s: %w", filePath, readErr)
		}
		rowNum++

		if len(record) < len(header) {
			table.Errors = append(table.Errors, RowError{
				Row:     rowNum,
				Message: fmt.Sprintf("expected %d columns, got %d", len(header), len(record)),
			})
			logger.WarnContext(ctx, "Skipping invalid record", "reason", "not enough columns", "row", rowNum, "file", filePath)
			continue
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			row[col] = record[i]
		}
		table.Rows = append(table.Rows, row)
	}

	return table, nil
}
