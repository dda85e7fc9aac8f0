package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"hashav/reconcile/config"
	"hashav/reconcile/indexsync"
	"hashav/reconcile/ingest"
	"hashav/reconcile/model"
)

func writeInboxFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

func newTestSink(t *testing.T, store indexsync.RecordStore) (*ingest.Sink, string) {
	t.Helper()
	inbox := t.TempDir()
	cfg := &config.Config{
		TenantID:     "t1",
		InboxDir:     inbox,
		ProcessedDir: filepath.Join(inbox, "processed"),
	}
	sink := ingest.NewSink(ingest.SinkDependencies{
		Config:     cfg,
		Reconciler: indexsync.NewReconciler(store),
		Detector:   ingest.NewFilenameDetector(),
	})
	return sink, inbox
}

func TestIngest_SortCodeFile(t *testing.T) {
	store := indexsync.NewMemStore()
	sink, inbox := newTestSink(t, store)

	writeInboxFile(t, inbox, "sort-codes.csv",
		"קוד מיון,שם קוד מיון\n100,לקוחות\n200,ספקים\n")

	stats, err := sink.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if stats.ProcessedFiles != 1 || stats.FailedFiles != 0 {
		t.Errorf("Expected 1 processed file, got %+v", stats)
	}
	if stats.RecordsAdded != 2 {
		t.Errorf("Expected 2 records added, got %d", stats.RecordsAdded)
	}
	if store.SortCodeCount("t1") != 2 {
		t.Errorf("Expected 2 stored sort codes, got %d", store.SortCodeCount("t1"))
	}
}

func TestIngest_AccountFile(t *testing.T) {
	store := indexsync.NewMemStore()
	sink, inbox := newTestSink(t, store)

	writeInboxFile(t, inbox, "accounts-index.csv",
		"מפתח,שם,קוד מיון\n16001,לקוח א,150\n20001,ספק ב,250\n")

	stats, err := sink.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if stats.RecordsAdded != 2 {
		t.Errorf("Expected 2 accounts added, got %+v", stats)
	}

	last, err := store.LastSync(context.Background(), "t1", indexsync.KindAccounts)
	if err != nil {
		t.Fatalf("LastSync failed: %v", err)
	}
	if last == nil || last.Status != model.SyncSuccess {
		t.Errorf("Expected a success audit record, got %+v", last)
	}
}

func TestIngest_MissingRequiredColumnFailsFile(t *testing.T) {
	store := indexsync.NewMemStore()
	sink, inbox := newTestSink(t, store)

	// Header carries only the name column; the required code is unmapped.
	writeInboxFile(t, inbox, "sort-codes.csv", "שם קוד מיון\nלקוחות\n")

	stats, err := sink.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if stats.FailedFiles != 1 {
		t.Errorf("Expected the file to fail, got %+v", stats)
	}
	if store.SortCodeCount("t1") != 0 {
		t.Errorf("Nothing should be stored when required fields are unmapped")
	}
	if len(store.History()) != 0 {
		t.Errorf("A blocked file must not emit an audit record")
	}
}

func TestIngest_UnsupportedAndUnknownFiles(t *testing.T) {
	store := indexsync.NewMemStore()
	sink, inbox := newTestSink(t, store)

	writeInboxFile(t, inbox, "notes.txt", "hello")
	writeInboxFile(t, inbox, "mystery.csv", "a,b\n1,2\n")

	stats, err := sink.Ingest(context.Background())
	if err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if stats.TotalFiles != 2 || stats.FailedFiles != 2 || stats.ProcessedFiles != 0 {
		t.Errorf("Expected both files to be skipped, got %+v", stats)
	}
}

func TestIngest_MissingInboxDir(t *testing.T) {
	cfg := &config.Config{TenantID: "t1", InboxDir: "/no/such/dir"}
	sink := ingest.NewSink(ingest.SinkDependencies{
		Config:     cfg,
		Reconciler: indexsync.NewReconciler(indexsync.NewMemStore()),
		Detector:   ingest.NewFilenameDetector(),
	})

	if _, err := sink.Ingest(context.Background()); err == nil {
		t.Error("Expected an error for a missing inbox directory")
	}
}

func TestIngest_MoveProcessedFiles(t *testing.T) {
	store := indexsync.NewMemStore()
	sink, inbox := newTestSink(t, store)
	sink.MoveProcessedFiles = true

	writeInboxFile(t, inbox, "sort-codes.csv", "קוד מיון,שם קוד מיון\n100,לקוחות\n")

	if _, err := sink.Ingest(context.Background()); err != nil {
		t.Fatalf("Ingest failed: %v", err)
	}

	if _, err := os.Stat(filepath.Join(inbox, "sort-codes.csv")); !os.IsNotExist(err) {
		t.Errorf("Expected the file to be moved out of the inbox")
	}
	if _, err := os.Stat(filepath.Join(inbox, "processed", "sort-codes.csv")); err != nil {
		t.Errorf("Expected the file in the processed directory: %v", err)
	}
}
