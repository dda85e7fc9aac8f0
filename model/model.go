// Package model holds the shared value types of the reconciliation engine.
// Persisted types carry bson tags matching the collection schemas.
package model

import "time"

// AmountEpsilon is the tolerance used everywhere monetary floats are
// compared. Differences at or below it are floating-point noise, not
// discrepancies.
const AmountEpsilon = 0.01

// LedgerEntry is a single transaction from the independently maintained
// ledger ("biurim"). Immutable once ingested.
type LedgerEntry struct {
	AccountKey   int     `bson:"account_key"`
	AccountName  string  `bson:"account_name"`
	SortCode     int     `bson:"sort_code"`
	SortCodeName string  `bson:"sort_code_name"`
	Amount       float64 `bson:"amount"`
	Month        int     `bson:"month"`
	Year         int     `bson:"year"`
}

// TrialBalanceRow is the authoritative per-account monthly balance
// figures for one fiscal year. MonthlyTotals is keyed by month (1..12).
type TrialBalanceRow struct {
	AccountKey    int             `bson:"account_key"`
	AccountName   string          `bson:"account_name"`
	SortCode      int             `bson:"sort_code"`
	SortCodeName  string          `bson:"sort_code_name"`
	MonthlyTotals map[int]float64 `bson:"monthly_totals"`
}

// MonthlyBalance is one account's opening/closing position for one month.
// Produced once per ingestion batch; later imports supersede, never mutate.
type MonthlyBalance struct {
	AccountKey     int     `bson:"account_key"`
	AccountName    string  `bson:"account_name"`
	AccountType    string  `bson:"account_type"`
	Month          int     `bson:"month"`
	Year           int     `bson:"year"`
	OpeningBalance float64 `bson:"opening_balance"`
	ClosingBalance float64 `bson:"closing_balance"`
	Change         float64 `bson:"change"`
}

// SortCode groups accounts into report sections. Unique per (tenant, code).
type SortCode struct {
	TenantID   string     `bson:"tenant_id"`
	Code       int        `bson:"code"`
	Name       string     `bson:"name"`
	ParentCode int        `bson:"parent_code,omitempty"`
	ReportType ReportType `bson:"report_type"`
	SortOrder  int        `bson:"sort_order"`
	IsActive   bool       `bson:"is_active"`
}

// AccountIndexRecord is one card in the tenant's account index.
// Unique per (tenant, accountKey).
type AccountIndexRecord struct {
	TenantID       string      `bson:"tenant_id"`
	AccountKey     int         `bson:"account_key"`
	AccountName    string      `bson:"account_name"`
	SortCode       int         `bson:"sort_code,omitempty"`
	AccountType    AccountType `bson:"account_type"`
	IDNumber       string      `bson:"id_number,omitempty"`
	Address        string      `bson:"address,omitempty"`
	Phone          string      `bson:"phone,omitempty"`
	Email          string      `bson:"email,omitempty"`
	CurrentBalance float64     `bson:"current_balance"`
	IsActive       bool        `bson:"is_active"`
}

// SyncStatus is the overall outcome of one index ingestion run.
type SyncStatus string

const (
	SyncSuccess SyncStatus = "success"
	SyncPartial SyncStatus = "partial"
	SyncFailed  SyncStatus = "failed"
)

// IndexSyncRecord is the append-only audit record emitted once per
// reconciliation run.
type IndexSyncRecord struct {
	ID           string     `bson:"_id"`
	TenantID     string     `bson:"tenant_id"`
	IndexType    string     `bson:"index_type"`
	Source       string     `bson:"sync_source"`
	Total        int        `bson:"records_total"`
	Added        int        `bson:"records_added"`
	Updated      int        `bson:"records_updated"`
	Deleted      int        `bson:"records_deleted"`
	Status       SyncStatus `bson:"status"`
	ErrorMessage string     `bson:"error_message,omitempty"`
	Actor        string     `bson:"synced_by,omitempty"`
	Timestamp    time.Time  `bson:"synced_at"`
}

// SortCodeInput is a sort-code row as parsed from an export, before
// reconciliation against tenant state.
type SortCodeInput struct {
	Code       int        `validate:"required"`
	Name       string     `validate:"required"`
	ParentCode int        `validate:"-"`
	ReportType ReportType `validate:"-"`
	SortOrder  int        `validate:"-"`
}

// AccountIndexInput is an account-index row as parsed from an export.
type AccountIndexInput struct {
	AccountKey     int         `validate:"required"`
	AccountName    string      `validate:"required"`
	SortCode       int         `validate:"-"`
	AccountType    AccountType `validate:"-"`
	IDNumber       string      `validate:"-"`
	Address        string      `validate:"-"`
	Phone          string      `validate:"-"`
	Email          string      `validate:"-"`
	CurrentBalance float64     `validate:"-"`
}
