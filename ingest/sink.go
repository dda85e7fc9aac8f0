// Package ingest moves Hashavshevet export files from an inbox through
// column mapping into the reconciliation engine.
package ingest

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"hashav/reconcile/appcontext"
	"hashav/reconcile/config"
	"hashav/reconcile/csvfile"
	"hashav/reconcile/indexsync"
	"hashav/reconcile/mapping"
)

// syncSource marks audit records produced by file ingestion.
const syncSource = "file_upload"

// SinkDependencies holds all the dependencies for the Sink.
type SinkDependencies struct {
	Config     *config.Config
	Reconciler *indexsync.Reconciler
	Detector   KindDetector
}

// Sink orchestrates index ingestion: it walks the inbox directory, maps
// each export file's columns, and hands the parsed records to the
// reconciler.
type Sink struct {
	deps               SinkDependencies
	TenantID           string
	InboxDir           string
	ProcessedDir       string
	MoveProcessedFiles bool
}

// NewSink creates a new Sink instance.
func NewSink(deps SinkDependencies) *Sink {
	return &Sink{
		deps:               deps,
		TenantID:           deps.Config.TenantID,
		InboxDir:           deps.Config.InboxDir,
		ProcessedDir:       deps.Config.ProcessedDir,
		MoveProcessedFiles: deps.Config.MoveProcessedFiles,
	}
}

// Ingest processes every index export file in the inbox. File-level
// failures are recorded in the returned stats, not raised as errors.
func (s *Sink) Ingest(ctx context.Context) (*Stats, error) {
	logger := appcontext.LoggerFromContext(ctx)
	logger.DebugContext(ctx, "Starting index ingestion", "inbox", s.InboxDir)

	if _, err := os.Stat(s.InboxDir); err != nil {
		logger.ErrorContext(
			ctx,
			"The inbox directory does not exist. Please create it and place your export files inside.",
			"dir", s.InboxDir,
			"error", err,
		)
		return nil, fmt.Errorf("stat check for directory %s: %w", s.InboxDir, err)
	}

	files, err := os.ReadDir(s.InboxDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	stats := NewStats()
	stats.TotalFiles = len(files)

	for _, file := range files {
		if !validateFile(file) {
			reason := "Not a supported export file"
			stats.AddFailure(file.Name(), reason)
			logger.WarnContext(ctx, "file was not processed", "fileName", file.Name(), "reason", reason)
			continue
		}

		result, procErr := s.processFile(ctx, file.Name())
		if procErr != nil {
			stats.AddFailure(file.Name(), procErr.Error())
			logger.ErrorContext(ctx, "failed to process file", "file", file.Name(), "error", procErr)
			continue
		}
		stats.AddProcessed(result.Added, result.Updated, len(result.Errors))

		if s.MoveProcessedFiles {
			if moveErr := moveFile(filepath.Join(s.InboxDir, file.Name()), s.ProcessedDir); moveErr != nil {
				logger.ErrorContext(ctx, "failed to move processed file", "file", file.Name(), "error", moveErr)
			}
		}
	}

	logger.InfoContext(ctx, "Index ingestion completed.")
	stats.Log(logger)

	return stats, nil
}

// Return true only if the entry pointed to by FILE is a supported export.
func validateFile(file os.DirEntry) bool {
	if file.IsDir() {
		return false
	}
	ext := strings.ToLower(filepath.Ext(file.Name()))
	return ext == ".csv" || ext == ".xlsx"
}

// processFile parses one export, maps its columns, and reconciles the
// records it carries.
func (s *Sink) processFile(ctx context.Context, fileName string) (indexsync.Result, error) {
	kind, err := s.deps.Detector.Detect(fileName)
	if err != nil {
		return indexsync.Result{}, fmt.Errorf("failed to detect import kind: %w", err)
	}

	cleanFileName := filepath.Clean(fileName)
	if strings.HasPrefix(cleanFileName, "../") {
		return indexsync.Result{}, csvfile.FileNotFoundError(fileName)
	}

	filePath := filepath.Join(s.InboxDir, cleanFileName)
	table, err := parseTable(ctx, filePath)
	if err != nil {
		return indexsync.Result{}, err
	}

	switch kind {
	case KindSortCodes:
		rows, mapErr := mapRows(table, mapping.SortCodeFields, mapping.RequiredSortCodeFields)
		if mapErr != nil {
			return indexsync.Result{}, mapErr
		}
		return s.deps.Reconciler.SyncSortCodes(ctx, s.TenantID, sortCodeInputs(rows), syncSource, "")
	case KindAccounts:
		rows, mapErr := mapRows(table, mapping.AccountFields, mapping.RequiredAccountFields)
		if mapErr != nil {
			return indexsync.Result{}, mapErr
		}
		return s.deps.Reconciler.SyncAccounts(ctx, s.TenantID, accountIndexInputs(rows), syncSource, "")
	default:
		return indexsync.Result{}, fmt.Errorf("file %s is a %s export, not an index export", fileName, kind)
	}
}

// mapRows suggests a column mapping for the table and applies it. An
// unmapped required field blocks the whole file.
func mapRows(table *csvfile.Table, fields []mapping.TargetField, required []string) ([]map[string]string, error) {
	mappings := mapping.SuggestMapping(table.Header, fields)
	if missing := mapping.ValidateRequiredFields(mappings, required); len(missing) > 0 {
		return nil, fmt.Errorf("required fields are not mapped: %s", strings.Join(missing, ", "))
	}
	return mapping.Apply(mappings, table.Rows), nil
}

func moveFile(filePath, processedDir string) error {
	var err error
	if _, err = os.Stat(processedDir); os.IsNotExist(err) {
		if err = os.MkdirAll(processedDir, 0o750); err != nil {
			return fmt.Errorf("failed to create processed directory '%s': %w", processedDir, err)
		}
	}

	fileName := filepath.Base(filePath)
	newPath := filepath.Join(processedDir, fileName)

	if err = os.Rename(filePath, newPath); err != nil {
		return fmt.Errorf("failed to move file from '%s' to '%s': %w", filePath, newPath, err)
	}

	return nil
}
