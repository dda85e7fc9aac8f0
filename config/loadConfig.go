package config

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Default values for testing.
const (
	defaultTimeoutSeconds     = 30
	defaultMongoURI           = "mongodb://localhost:27017/hashav"
	defaultMongoHost          = "localhost"
	defaultMongoPort          = "27017"
	defaultTenantID           = "default"
	defaultDataDir            = "./data"
	defaultProcessedDir       = "processed"
	defaultInboxDir           = "inbox"
	defaultMoveProcessedFiles = false
	defaultWarningAlertLimit  = 5
	defaultSyntheticDataDir   = "tmp/synthetic"
	defaultSyntheticDataRows  = 100
	envMongoURI               = "MONGO_URI"
	envMongoHost              = "MONGO_HOST"
	envMongoUser              = "MONGO_USER"
	envMongoPassword          = "MONGO_PASSWORD"
	envTenantID               = "TENANT_ID"
	envDataDirectory          = "DATA_DIR"
	envProcessedDirectory     = "PROCESSED_DIR"
	envInboxDirectory         = "INBOX_DIR"
	envMoveProcessedFiles     = "MOVE_PROCESSED_FILES"
	envWarningAlertLimit      = "WARNING_ALERT_LIMIT"
	envClassificationFile     = "CLASSIFICATION_FILE"
)

// LoadConfig loads the application configuration from a .env file and
// environment variables, falling back to defaults.
func LoadConfig(ctx context.Context, logger *slog.Logger) *Config {
	if err := godotenv.Load(); err != nil {
		logger.DebugContext(ctx, "No .env file loaded", "error", err)
	}

	mongoURI := os.Getenv(envMongoURI)
	mongoURI = formatMongoURI(ctx, mongoURI, logger)

	tenantID := os.Getenv(envTenantID)
	if tenantID == "" {
		tenantID = defaultTenantID
		logger.DebugContext(ctx, "Using default tenant", "tenant", tenantID)
	}

	dataDirectory := setEnvDataDir(ctx, *logger)

	// Configure the dirs for processed/inbox files.
	inboxDir := setInboxDir(ctx, dataDirectory, *logger)
	processedDir := setProcessedDir(ctx, dataDirectory, *logger)

	logger.DebugContext(ctx, "Constructed directory paths", "inbox", inboxDir, "processed", processedDir)

	moveProcessedFilesStr := os.Getenv(envMoveProcessedFiles)
	moveProcessedFiles := defaultMoveProcessedFiles
	if moveProcessedFilesStr != "" {
		parsedBool, err := strconv.ParseBool(moveProcessedFilesStr)
		if err != nil {
			logger.WarnContext(
				ctx,
				"Invalid value for MOVE_PROCESSED_FILES, using default",
				"value", moveProcessedFilesStr,
				"default", defaultMoveProcessedFiles,
				"error", err,
			)
		} else {
			moveProcessedFiles = parsedBool
			logger.DebugContext(ctx, "Set moveProcessedFiles from environment variable", "value", moveProcessedFiles)
		}
	} else {
		logger.DebugContext(ctx, "Using default value for moveProcessedFiles", "value", defaultMoveProcessedFiles)
	}

	warningAlertLimit := defaultWarningAlertLimit
	if limitStr := os.Getenv(envWarningAlertLimit); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			logger.WarnContext(
				ctx,
				"Invalid value for WARNING_ALERT_LIMIT, using default",
				"value", limitStr,
				"default", defaultWarningAlertLimit,
			)
		} else {
			warningAlertLimit = parsed
		}
	}

	return &Config{
		MongoURI:           mongoURI,
		TenantID:           tenantID,
		InboxDir:           inboxDir,
		ProcessedDir:       processedDir,
		MoveProcessedFiles: moveProcessedFiles,
		WarningAlertLimit:  warningAlertLimit,
		ClassificationFile: os.Getenv(envClassificationFile),
		SyntheticDataDir:   defaultSyntheticDataDir,
		SyntheticDataRows:  defaultSyntheticDataRows,
		Timeout:            defaultTimeoutSeconds * time.Second,
	}
}

func setEnvDataDir(ctx context.Context, logger slog.Logger) string {
	dataDirectory := os.Getenv(envDataDirectory)
	if dataDirectory == "" {
		dataDirectory = defaultDataDir
		logger.DebugContext(ctx, "Using default data directory", "dir", dataDirectory)
	} else {
		logger.DebugContext(ctx, "Using data directory from environment variable", "dir", dataDirectory)
	}

	return dataDirectory
}

// Format the directory in which unprocessed export files land.
func setInboxDir(ctx context.Context, dataDirectory string, logger slog.Logger) string {
	return fmt.Sprintf("%s/%s", dataDirectory, getInboxDirName(ctx, logger))
}

// Format the directory in which processed export files are moved to.
func setProcessedDir(ctx context.Context, dataDirectory string, logger slog.Logger) string {
	return fmt.Sprintf("%s/%s", dataDirectory, getProcessedDirName(ctx, logger))
}

// Fetch the `processedDirName` env var or set to a default value.
func getProcessedDirName(ctx context.Context, logger slog.Logger) string {
	processedDirName := os.Getenv(envProcessedDirectory)
	if processedDirName == "" {
		processedDirName = defaultProcessedDir
		logger.DebugContext(ctx, "Using default processed directory name", "dir", processedDirName)
	} else {
		logger.DebugContext(ctx, "Using processed directory name from environment variable", "dir", processedDirName)
	}

	return processedDirName
}

// Fetch the `inboxDirName` env var or set to a default value.
func getInboxDirName(ctx context.Context, logger slog.Logger) string {
	inboxDirName := os.Getenv(envInboxDirectory)
	if inboxDirName == "" {
		inboxDirName = defaultInboxDir
		logger.DebugContext(ctx, "Using default inbox directory name", "dir", inboxDirName)
	} else {
		logger.DebugContext(ctx, "Using inbox directory name from environment variable",
			"dir", inboxDirName)
	}

	return inboxDirName
}

// formatMongoURI formats mongo settings to a url and return the result.
func formatMongoURI(
	ctx context.Context,
	mongoURI string,
	logger *slog.Logger,
) string {
	if mongoURI != "" {
		logger.DebugContext(ctx, "Using MongoDB URI from environment variable", "uri", mongoURI)
		return mongoURI
	}

	mongoHost := os.Getenv(envMongoHost)
	if mongoHost == "" {
		mongoHost = defaultMongoHost
		logger.DebugContext(ctx, "Using default MongoDB host", "host", mongoHost)
	} else {
		logger.DebugContext(ctx, "Using MongoDB host from environment variable", "host", mongoHost)
	}

	mongoUser := os.Getenv(envMongoUser)
	mongoPassword := os.Getenv(envMongoPassword)

	if mongoUser != "" && mongoPassword != "" {
		hostPort := net.JoinHostPort(mongoHost, defaultMongoPort)
		mongoURI = fmt.Sprintf(
			"mongodb://%s:%s@%s/hashav?authSource=admin",
			mongoUser,
			mongoPassword,
			hostPort,
		)
		logger.DebugContext(ctx, "Created MongoDB URI from user, password, and host", "uri", mongoURI)
	} else {
		mongoURI = defaultMongoURI
		logger.DebugContext(ctx, "Using default MongoDB URI", "uri", mongoURI)
	}
	return mongoURI
}
