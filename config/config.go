package config

import (
	"time"
)

// Config holds the application configuration.
type Config struct {
	MongoURI           string
	TenantID           string
	InboxDir           string
	ProcessedDir       string
	MoveProcessedFiles bool
	WarningAlertLimit  int
	ClassificationFile string
	SyntheticDataDir   string
	SyntheticDataRows  int
	Timeout            time.Duration
}
