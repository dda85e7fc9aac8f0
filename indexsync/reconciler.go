// Package indexsync reconciles parsed index exports (sort codes, account
// cards) against tenant state and records an audit entry for every run.
package indexsync

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"hashav/reconcile/appcontext"
	"hashav/reconcile/model"
)

// Kind names an index collection a reconciliation run targets.
type Kind string

const (
	KindSortCodes Kind = "sort_codes"
	KindAccounts  Kind = "accounts"
)

// UpsertOutcome is the per-record result of a batched upsert. Key is the
// record's natural key rendered as text.
type UpsertOutcome struct {
	Key     string
	Created bool
	Err     error
}

// RecordStore is the persistence port the reconciler drives. Upserts are
// batched; the store reports one outcome per input record in input order.
type RecordStore interface {
	UpsertSortCodes(ctx context.Context, codes []model.SortCode) ([]UpsertOutcome, error)
	UpsertAccounts(ctx context.Context, accounts []model.AccountIndexRecord) ([]UpsertOutcome, error)
	AppendSyncRecord(ctx context.Context, record model.IndexSyncRecord) error
	LastSync(ctx context.Context, tenantID string, kind Kind) (*model.IndexSyncRecord, error)
}

// RecordError describes one input record that was not persisted.
type RecordError struct {
	Key     string `json:"key"`
	Message string `json:"message"`
}

// Result is the outcome of one reconciliation run. Every input record is
// accounted for exactly once: Added + Updated + len(Errors) == Total.
type Result struct {
	Total   int
	Added   int
	Updated int
	Invalid int
	Errors  []RecordError
	Status  model.SyncStatus
}

// Reconciler validates index inputs, upserts them through a RecordStore,
// and appends one IndexSyncRecord per run regardless of outcome.
type Reconciler struct {
	store    RecordStore
	validate *validator.Validate
	now      func() time.Time
	newID    func() string
}

// NewReconciler creates a Reconciler backed by the given store.
func NewReconciler(store RecordStore) *Reconciler {
	return &Reconciler{
		store:    store,
		validate: validator.New(),
		now:      time.Now,
		newID:    func() string { return uuid.NewString() },
	}
}

// SyncSortCodes reconciles a batch of parsed sort-code rows for one tenant.
// The returned Result is meaningful even when err is non-nil; err reports
// audit-trail persistence failures only.
func (r *Reconciler) SyncSortCodes(ctx context.Context, tenantID string, inputs []model.SortCodeInput, source, actor string) (Result, error) {
	result := Result{Total: len(inputs)}

	var codes []model.SortCode
	for _, in := range inputs {
		if err := r.validate.Struct(in); err != nil {
			result.Invalid++
			result.Errors = append(result.Errors, RecordError{
				Key:     strconv.Itoa(in.Code),
				Message: fmt.Sprintf("invalid sort code row: %v", err),
			})
			continue
		}
		reportType := in.ReportType
		if reportType == "" {
			reportType = model.ReportTypeForCode(in.Code)
		}
		codes = append(codes, model.SortCode{
			TenantID:   tenantID,
			Code:       in.Code,
			Name:       in.Name,
			ParentCode: in.ParentCode,
			ReportType: reportType,
			SortOrder:  in.SortOrder,
			IsActive:   true,
		})
	}

	outcomes, storeErr := r.store.UpsertSortCodes(ctx, codes)
	r.tally(&result, codes2keys(codes), outcomes, storeErr)

	err := r.finish(ctx, tenantID, KindSortCodes, source, actor, &result)
	return result, err
}

// SyncAccounts reconciles a batch of parsed account-index rows for one
// tenant. Rows without an explicit account type are typed from their sort
// code band.
func (r *Reconciler) SyncAccounts(ctx context.Context, tenantID string, inputs []model.AccountIndexInput, source, actor string) (Result, error) {
	result := Result{Total: len(inputs)}

	var accounts []model.AccountIndexRecord
	for _, in := range inputs {
		if err := r.validate.Struct(in); err != nil {
			result.Invalid++
			result.Errors = append(result.Errors, RecordError{
				Key:     strconv.Itoa(in.AccountKey),
				Message: fmt.Sprintf("invalid account row: %v", err),
			})
			continue
		}
		accountType := in.AccountType
		if accountType == "" {
			accountType = model.AccountTypeForSortCode(in.SortCode)
		}
		accounts = append(accounts, model.AccountIndexRecord{
			TenantID:       tenantID,
			AccountKey:     in.AccountKey,
			AccountName:    in.AccountName,
			SortCode:       in.SortCode,
			AccountType:    accountType,
			IDNumber:       in.IDNumber,
			Address:        in.Address,
			Phone:          in.Phone,
			Email:          in.Email,
			CurrentBalance: in.CurrentBalance,
			IsActive:       true,
		})
	}

	outcomes, storeErr := r.store.UpsertAccounts(ctx, accounts)
	r.tally(&result, accounts2keys(accounts), outcomes, storeErr)

	err := r.finish(ctx, tenantID, KindAccounts, source, actor, &result)
	return result, err
}

// tally folds per-record outcomes into the result. A batch-level store
// error turns every pending record into an error so the accounting
// invariant holds.
func (r *Reconciler) tally(result *Result, keys []string, outcomes []UpsertOutcome, storeErr error) {
	if storeErr != nil {
		for _, key := range keys {
			result.Errors = append(result.Errors, RecordError{
				Key:     key,
				Message: fmt.Sprintf("store unavailable: %v", storeErr),
			})
		}
		return
	}

	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			result.Errors = append(result.Errors, RecordError{Key: o.Key, Message: o.Err.Error()})
		case o.Created:
			result.Added++
		default:
			result.Updated++
		}
	}
}

// finish determines the run status and appends the audit record. The
// record is written even when every input failed.
func (r *Reconciler) finish(ctx context.Context, tenantID string, kind Kind, source, actor string, result *Result) error {
	logger := appcontext.LoggerFromContext(ctx)

	switch {
	case len(result.Errors) == 0:
		result.Status = model.SyncSuccess
	case result.Added+result.Updated == 0:
		result.Status = model.SyncFailed
	default:
		result.Status = model.SyncPartial
	}

	record := model.IndexSyncRecord{
		ID:        r.newID(),
		TenantID:  tenantID,
		IndexType: string(kind),
		Source:    source,
		Total:     result.Total,
		Added:     result.Added,
		Updated:   result.Updated,
		Status:    result.Status,
		Actor:     actor,
		Timestamp: r.now(),
	}
	if len(result.Errors) > 0 {
		record.ErrorMessage = fmt.Sprintf("%d of %d records failed; first: %s: %s",
			len(result.Errors), result.Total, result.Errors[0].Key, result.Errors[0].Message)
	}

	logger.InfoContext(ctx, "Index sync complete",
		"tenant", tenantID, "kind", kind, "status", result.Status,
		"total", result.Total, "added", result.Added, "updated", result.Updated,
		"invalid", result.Invalid, "errors", len(result.Errors))

	if err := r.store.AppendSyncRecord(ctx, record); err != nil {
		return fmt.Errorf("failed to append sync record for tenant %s: %w", tenantID, err)
	}
	return nil
}

// LastSync returns the most recent audit record for a tenant and kind, or
// nil when the tenant has never synced that index.
func (r *Reconciler) LastSync(ctx context.Context, tenantID string, kind Kind) (*model.IndexSyncRecord, error) {
	return r.store.LastSync(ctx, tenantID, kind)
}

func codes2keys(codes []model.SortCode) []string {
	keys := make([]string, len(codes))
	for i, c := range codes {
		keys[i] = strconv.Itoa(c.Code)
	}
	return keys
}

func accounts2keys(accounts []model.AccountIndexRecord) []string {
	keys := make([]string, len(accounts))
	for i, a := range accounts {
		keys[i] = strconv.Itoa(a.AccountKey)
	}
	return keys
}
