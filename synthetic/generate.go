package synthetic

import (
	"context"
	"flag"
	"fmt"
	"log/slog"

	"hashav/reconcile/config"
	"hashav/reconcile/indexsync"
	"hashav/reconcile/model"
	"hashav/reconcile/storage"
)

// RunGenerateSyntheticData generates synthetic export data for testing.
func RunGenerateSyntheticData(ctx context.Context, logger *slog.Logger, args []string, cfg *config.Config) error {
	genFlagSet := flag.NewFlagSet("generate-synthetic-data", flag.ExitOnError)
	rows := genFlagSet.Int("rows", cfg.SyntheticDataRows, "Number of account cards to generate")
	dir := genFlagSet.String("dir", cfg.SyntheticDataDir, "Directory to write synthetic data to")
	persistToMongo := genFlagSet.Bool("persist-to-mongo", false, "Sync the synthetic indexes to MongoDB")
	if err := genFlagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	if *persistToMongo {
		client, err := storage.ConnectToMongoDB(ctx, cfg.MongoURI)
		if err != nil {
			return fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		defer func() {
			if deferErr := client.Disconnect(ctx); deferErr != nil {
				logger.ErrorContext(ctx, "Error disconnecting from MongoDB", "error", deferErr)
			}
		}()

		err = PersistSyntheticIndexes(ctx, indexsync.NewReconciler(storage.NewMongoRecordStore(storage.NewMongoProvider(client))), cfg.TenantID, *rows)
		if err != nil {
			return fmt.Errorf("failed to persist synthetic indexes: %w", err)
		}
		logger.InfoContext(ctx, "Synthetic indexes persisted successfully")
		return nil
	}

	logger.InfoContext(ctx, "Generating synthetic data")
	err := GenerateSyntheticData(*rows, *dir)
	if err != nil {
		return fmt.Errorf("failed to generate synthetic data: %w", err)
	}
	logger.InfoContext(ctx, "Synthetic data generated successfully")
	return nil
}

// PersistSyntheticIndexes reconciles a synthetic account index straight
// into the store, bypassing the file inbox.
func PersistSyntheticIndexes(ctx context.Context, reconciler *indexsync.Reconciler, tenantID string, rows int) error {
	inputs := make([]model.AccountIndexInput, 0, rows)
	for _, a := range syntheticAccounts(rows) {
		inputs = append(inputs, model.AccountIndexInput{
			AccountKey:  a.key,
			AccountName: a.name,
			SortCode:    a.sortCode,
		})
	}

	result, err := reconciler.SyncAccounts(ctx, tenantID, inputs, "synthetic", "")
	if err != nil {
		return err
	}
	if result.Status == model.SyncFailed {
		return fmt.Errorf("synthetic index sync failed: %d of %d records in error", len(result.Errors), result.Total)
	}
	return nil
}
