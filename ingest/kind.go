package ingest

import (
	"errors"
	"strings"
)

// ImportKind identifies which export layout a file carries.
type ImportKind string

const (
	KindLedger       ImportKind = "ledger"
	KindTrialBalance ImportKind = "trial_balance"
	KindBalances     ImportKind = "balances"
	KindSortCodes    ImportKind = "sort_codes"
	KindAccounts     ImportKind = "accounts"
)

// KindDetector determines an import kind from a filename.
type KindDetector interface {
	Detect(filename string) (ImportKind, error)
}

// ErrUnknownImportKind is returned when no layout can be inferred from the
// filename.
var ErrUnknownImportKind = errors.New("unable to determine import kind from filename")

// FilenameDetector infers the import kind from tokens operators
// conventionally put in export filenames.
type FilenameDetector struct{}

// NewFilenameDetector creates a new FilenameDetector.
func NewFilenameDetector() *FilenameDetector {
	return &FilenameDetector{}
}

// Detect maps filename tokens to an import kind. Trial-balance files are
// checked before plain balance files since both contain "balance".
func (d *FilenameDetector) Detect(filename string) (ImportKind, error) {
	lower := strings.ToLower(filename)

	switch {
	case strings.Contains(lower, "sort") || strings.Contains(lower, "miun"):
		return KindSortCodes, nil
	case strings.Contains(lower, "account") || strings.Contains(lower, "index"):
		return KindAccounts, nil
	case strings.Contains(lower, "trial"):
		return KindTrialBalance, nil
	case strings.Contains(lower, "balance"):
		return KindBalances, nil
	case strings.Contains(lower, "ledger") || strings.Contains(lower, "transaction") || strings.Contains(lower, "movement"):
		return KindLedger, nil
	}

	return "", ErrUnknownImportKind
}
