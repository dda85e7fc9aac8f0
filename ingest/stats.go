package ingest

import (
	"fmt"
	"log/slog"
)

// Stats holds statistics about one ingestion pass over the inbox.
type Stats struct {
	TotalFiles     int
	ProcessedFiles int
	FailedFiles    int
	RecordsAdded   int
	RecordsUpdated int
	RecordsFailed  int
	Failures       map[string]string
}

// NewStats creates and initializes a new Stats object.
func NewStats() *Stats {
	return &Stats{
		Failures: make(map[string]string),
	}
}

// AddFailure records a failed file and its reason.
func (s *Stats) AddFailure(file, reason string) {
	s.FailedFiles++
	s.Failures[file] = reason
}

// AddProcessed records a processed file and its record counts.
func (s *Stats) AddProcessed(added, updated, failed int) {
	s.ProcessedFiles++
	s.RecordsAdded += added
	s.RecordsUpdated += updated
	s.RecordsFailed += failed
}

// Log prints the final statistics to the provided logger.
func (s *Stats) Log(logger *slog.Logger) {
	logger.Info("--- Ingestion Stats ---")
	logger.Info(fmt.Sprintf("Total files found: %d", s.TotalFiles))
	logger.Info(fmt.Sprintf("Files processed: %d", s.ProcessedFiles))
	logger.Info(fmt.Sprintf("Files failed/skipped: %d", s.FailedFiles))
	logger.Info(fmt.Sprintf("Records added: %d", s.RecordsAdded))
	logger.Info(fmt.Sprintf("Records updated: %d", s.RecordsUpdated))
	logger.Info(fmt.Sprintf("Records failed: %d", s.RecordsFailed))
	if s.FailedFiles > 0 {
		logger.Info("Failed files:")
		for file, reason := range s.Failures {
			logger.Info(fmt.Sprintf("- %s: %s", file, reason))
		}
	}
	logger.Info("-----------------------")
}
