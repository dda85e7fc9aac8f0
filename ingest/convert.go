package ingest

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"hashav/reconcile/csvfile"
	"hashav/reconcile/model"
	"hashav/reconcile/xlsx"
)

// ErrUnsupportedFileType is returned for files that are neither CSV nor
// xlsx.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// UnsupportedFileTypeError wraps ErrUnsupportedFileType with the offending
// path.
func UnsupportedFileTypeError(path string) error {
	return fmt.Errorf("%w, %s", ErrUnsupportedFileType, path)
}

// parseTable reads a file into a Table, dispatching on extension.
func parseTable(ctx context.Context, filePath string) (*csvfile.Table, error) {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".csv":
		return csvfile.Parse(ctx, filePath)
	case ".xlsx":
		return xlsx.Read(ctx, filePath)
	default:
		return nil, UnsupportedFileTypeError(filePath)
	}
}

// sortCodeInputs converts canonically keyed rows into sort-code inputs.
// Rows with unparseable numeric cells keep a zero value; the reconciler's
// validation catches the ones that matter.
func sortCodeInputs(rows []map[string]string) []model.SortCodeInput {
	inputs := make([]model.SortCodeInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, model.SortCodeInput{
			Code:       atoi(row["code"]),
			Name:       strings.TrimSpace(row["name"]),
			ParentCode: atoi(row["parent_code"]),
			SortOrder:  atoi(row["sort_order"]),
		})
	}
	return inputs
}

// accountIndexInputs converts canonically keyed rows into account-index
// inputs.
func accountIndexInputs(rows []map[string]string) []model.AccountIndexInput {
	inputs := make([]model.AccountIndexInput, 0, len(rows))
	for _, row := range rows {
		balance, _ := csvfile.ParseAmount(row["balance"])
		inputs = append(inputs, model.AccountIndexInput{
			AccountKey:     atoi(row["account_key"]),
			AccountName:    strings.TrimSpace(row["account_name"]),
			SortCode:       atoi(row["sort_code"]),
			AccountType:    model.AccountType(strings.TrimSpace(row["account_type"])),
			IDNumber:       strings.TrimSpace(row["id_number"]),
			Address:        strings.TrimSpace(row["address"]),
			Phone:          strings.TrimSpace(row["phone"]),
			Email:          strings.TrimSpace(row["email"]),
			CurrentBalance: balance,
		})
	}
	return inputs
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}
