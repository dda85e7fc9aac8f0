// main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"hashav/reconcile/appcontext"
	"hashav/reconcile/cashflow"
	"hashav/reconcile/compare"
	"hashav/reconcile/config"
	"hashav/reconcile/indexsync"
	"hashav/reconcile/ingest"
	"hashav/reconcile/storage"
	"hashav/reconcile/synthetic"
)

func main() {
	// Create the logger instance at the very beginning.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))

	if len(os.Args) < 2 {
		logger.Error("Usage: go run main.go <command> [options]")
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	if err := run(logger, command, args); err != nil {
		logger.Error("Application terminated with an error", "error", fmt.Sprintf("%+v", err))
		os.Exit(1)
	}
}

func run(logger *slog.Logger, command string, args []string) error {
	logger.Info("Begin reconciliation run")

	baseCtx := appcontext.WithLogger(context.Background(), logger)
	cfg := config.LoadConfig(baseCtx, logger)

	ctx, cancel := context.WithTimeout(baseCtx, cfg.Timeout)
	defer cancel()

	switch command {
	case "generate-synthetic-data":
		return synthetic.RunGenerateSyntheticData(ctx, logger, args, cfg)
	case "sync-index":
		return runSyncIndex(ctx, logger, cfg)
	case "last-sync":
		return runLastSync(ctx, logger, args, cfg)
	case "compare":
		return runCompare(ctx, args, cfg)
	case "cashflow":
		return runCashflow(ctx, args, cfg)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}

// runSyncIndex ingests every index export in the inbox into MongoDB.
func runSyncIndex(ctx context.Context, logger *slog.Logger, cfg *config.Config) error {
	client, err := storage.ConnectToMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		logger.Error("Failed to connect to MongoDB", "error", err)
		return fmt.Errorf("connection to MongoDB failed: %w", err)
	}
	defer func() {
		if deferErr := client.Disconnect(ctx); deferErr != nil {
			logger.Error("Error disconnecting from MongoDB", "error", deferErr)
		}
	}()
	logger.Info("Successfully connected to MongoDB.")

	sink := ingest.NewSink(ingest.SinkDependencies{
		Config:     cfg,
		Reconciler: indexsync.NewReconciler(storage.NewMongoRecordStore(storage.NewMongoProvider(client))),
		Detector:   ingest.NewFilenameDetector(),
	})

	if _, err := sink.Ingest(ctx); err != nil {
		return fmt.Errorf("index ingestion failed: %w", err)
	}
	return nil
}

// runLastSync prints the most recent audit record for an index kind.
func runLastSync(ctx context.Context, logger *slog.Logger, args []string, cfg *config.Config) error {
	flagSet := flag.NewFlagSet("last-sync", flag.ExitOnError)
	kind := flagSet.String("kind", string(indexsync.KindSortCodes), "Index kind (sort_codes or accounts)")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}

	client, err := storage.ConnectToMongoDB(ctx, cfg.MongoURI)
	if err != nil {
		return fmt.Errorf("connection to MongoDB failed: %w", err)
	}
	defer func() {
		if deferErr := client.Disconnect(ctx); deferErr != nil {
			logger.Error("Error disconnecting from MongoDB", "error", deferErr)
		}
	}()

	store := storage.NewMongoRecordStore(storage.NewMongoProvider(client))
	record, err := store.LastSync(ctx, cfg.TenantID, indexsync.Kind(*kind))
	if err != nil {
		return err
	}
	if record == nil {
		logger.Info("No sync history for this index", "tenant", cfg.TenantID, "kind", *kind)
		return nil
	}
	return printJSON(record)
}

// runCompare reconciles a ledger export against a trial-balance export
// and prints the classified result.
func runCompare(ctx context.Context, args []string, cfg *config.Config) error {
	flagSet := flag.NewFlagSet("compare", flag.ExitOnError)
	ledgerPath := flagSet.String("ledger", "", "Path to the ledger export file")
	trialPath := flagSet.String("trial-balance", "", "Path to the trial-balance export file")
	balancesPath := flagSet.String("balances", "", "Optional monthly-balance export for headline KPIs")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *ledgerPath == "" || *trialPath == "" {
		return fmt.Errorf("both -ledger and -trial-balance are required")
	}

	ledger, err := ingest.LoadLedger(ctx, *ledgerPath)
	if err != nil {
		return err
	}
	trialBalance, err := ingest.LoadTrialBalance(ctx, *trialPath)
	if err != nil {
		return err
	}

	activeMonths := ingest.ActiveMonths(ledger, trialBalance)
	comparison := compare.Compare(ledger, trialBalance, activeMonths)

	classifier := compare.NewClassifier()
	classifier.WarningAlertLimit = cfg.WarningAlertLimit
	result := classifier.Classify(comparison.Records)

	var kpis compare.KPISet
	if *balancesPath != "" {
		balances, loadErr := ingest.LoadBalances(ctx, *balancesPath)
		if loadErr != nil {
			return loadErr
		}
		kpis = compare.KPIs(balances, ledger, activeMonths, result.Alerts)
	}

	return printJSON(struct {
		Comparison compare.Comparison `json:"comparison"`
		Result     compare.Result     `json:"result"`
		KPIs       compare.KPISet     `json:"kpis"`
	}{
		Comparison: comparison,
		Result:     result,
		KPIs:       kpis,
	})
}

// runCashflow derives the cash-flow statement, trend series and waterfall
// for one month of balance data.
func runCashflow(ctx context.Context, args []string, cfg *config.Config) error {
	flagSet := flag.NewFlagSet("cashflow", flag.ExitOnError)
	balancesPath := flagSet.String("balances", "", "Path to the monthly-balance export file")
	month := flagSet.Int("month", 0, "Target month (1-12)")
	if err := flagSet.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *balancesPath == "" {
		return fmt.Errorf("-balances is required")
	}
	if *month < 1 || *month > 12 {
		return fmt.Errorf("-month must be between 1 and 12")
	}

	balances, err := ingest.LoadBalances(ctx, *balancesPath)
	if err != nil {
		return err
	}

	table := cashflow.DefaultClassification()
	if cfg.ClassificationFile != "" {
		table, err = cashflow.LoadClassification(cfg.ClassificationFile)
		if err != nil {
			return err
		}
	}

	statement := cashflow.Derive(balances, *month, table)

	monthSet := make(map[int]bool)
	for _, b := range balances {
		monthSet[b.Month] = true
	}
	activeMonths := make([]int, 0, len(monthSet))
	for m := 1; m <= 12; m++ {
		if monthSet[m] {
			activeMonths = append(activeMonths, m)
		}
	}

	return printJSON(struct {
		Statement cashflow.Statement        `json:"statement"`
		Waterfall []cashflow.Point          `json:"waterfall"`
		Trend     []cashflow.MonthlySummary `json:"trend"`
	}{
		Statement: statement,
		Waterfall: cashflow.Waterfall(statement),
		Trend:     cashflow.MonthlySummaries(balances, activeMonths, statement.Year, table),
	})
}

func printJSON(v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
