package indexsync

import (
	"context"
	"strconv"
	"sync"

	"hashav/reconcile/model"
)

// MemStore is an in-memory RecordStore for local runs and tests. Safe for
// concurrent use.
type MemStore struct {
	mu        sync.Mutex
	sortCodes map[string]model.SortCode
	accounts  map[string]model.AccountIndexRecord
	history   []model.IndexSyncRecord
}

// NewMemStore creates an empty MemStore.
func NewMemStore() *MemStore {
	return &MemStore{
		sortCodes: make(map[string]model.SortCode),
		accounts:  make(map[string]model.AccountIndexRecord),
	}
}

// UpsertSortCodes stores sort codes keyed by (tenant, code).
func (s *MemStore) UpsertSortCodes(_ context.Context, codes []model.SortCode) ([]UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]UpsertOutcome, len(codes))
	for i, c := range codes {
		key := c.TenantID + "/" + strconv.Itoa(c.Code)
		_, exists := s.sortCodes[key]
		s.sortCodes[key] = c
		outcomes[i] = UpsertOutcome{Key: strconv.Itoa(c.Code), Created: !exists}
	}
	return outcomes, nil
}

// UpsertAccounts stores account cards keyed by (tenant, accountKey).
func (s *MemStore) UpsertAccounts(_ context.Context, accounts []model.AccountIndexRecord) ([]UpsertOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	outcomes := make([]UpsertOutcome, len(accounts))
	for i, a := range accounts {
		key := a.TenantID + "/" + strconv.Itoa(a.AccountKey)
		_, exists := s.accounts[key]
		s.accounts[key] = a
		outcomes[i] = UpsertOutcome{Key: strconv.Itoa(a.AccountKey), Created: !exists}
	}
	return outcomes, nil
}

// AppendSyncRecord appends to the in-memory history.
func (s *MemStore) AppendSyncRecord(_ context.Context, record model.IndexSyncRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, record)
	return nil
}

// LastSync returns the most recently appended record matching tenant and
// kind, or nil.
func (s *MemStore) LastSync(_ context.Context, tenantID string, kind Kind) (*model.IndexSyncRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := len(s.history) - 1; i >= 0; i-- {
		r := s.history[i]
		if r.TenantID == tenantID && r.IndexType == string(kind) {
			return &r, nil
		}
	}
	return nil, nil
}

// SortCodeCount reports how many sort codes are stored for a tenant.
func (s *MemStore) SortCodeCount(tenantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, c := range s.sortCodes {
		if c.TenantID == tenantID {
			n++
		}
	}
	return n
}

// AccountCount reports how many account cards are stored for a tenant.
func (s *MemStore) AccountCount(tenantID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, a := range s.accounts {
		if a.TenantID == tenantID {
			n++
		}
	}
	return n
}

// History returns a copy of the audit trail.
func (s *MemStore) History() []model.IndexSyncRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.IndexSyncRecord, len(s.history))
	copy(out, s.history)
	return out
}
