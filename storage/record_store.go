package storage

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"hashav/reconcile/indexsync"
	"hashav/reconcile/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	SortCodesCollection   = "sort_codes"
	AccountsCollection    = "accounts_index"
	SyncHistoryCollection = "index_sync_history"
)

// MongoRecordStore implements the indexsync.RecordStore interface for
// MongoDB. Upserts key on the natural keys (tenant_id, code) and
// (tenant_id, account_key); runs are idempotent.
type MongoRecordStore struct {
	provider CollectionProvider
}

// NewMongoRecordStore creates a new MongoRecordStore.
func NewMongoRecordStore(provider CollectionProvider) *MongoRecordStore {
	return &MongoRecordStore{
		provider: provider,
	}
}

// UpsertSortCodes bulk upserts sort codes and reports one outcome per
// input record.
func (s *MongoRecordStore) UpsertSortCodes(ctx context.Context, codes []model.SortCode) ([]indexsync.UpsertOutcome, error) {
	if len(codes) == 0 {
		return nil, nil
	}

	keys := make([]string, len(codes))
	writes := make([]mongo.WriteModel, len(codes))
	for i, doc := range codes {
		keys[i] = strconv.Itoa(doc.Code)
		filter := bson.M{
			"tenant_id": doc.TenantID,
			"code":      doc.Code,
		}
		writes[i] = mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(bson.M{"$set": doc}).SetUpsert(true)
	}

	collection := s.provider.Collection(SortCodesCollection)
	result, err := collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return outcomes(keys, result, err, SortCodesCollection)
}

// UpsertAccounts bulk upserts account cards and reports one outcome per
// input record.
func (s *MongoRecordStore) UpsertAccounts(ctx context.Context, accounts []model.AccountIndexRecord) ([]indexsync.UpsertOutcome, error) {
	if len(accounts) == 0 {
		return nil, nil
	}

	keys := make([]string, len(accounts))
	writes := make([]mongo.WriteModel, len(accounts))
	for i, doc := range accounts {
		keys[i] = strconv.Itoa(doc.AccountKey)
		filter := bson.M{
			"tenant_id":   doc.TenantID,
			"account_key": doc.AccountKey,
		}
		writes[i] = mongo.NewUpdateOneModel().SetFilter(filter).SetUpdate(bson.M{"$set": doc}).SetUpsert(true)
	}

	collection := s.provider.Collection(AccountsCollection)
	result, err := collection.BulkWrite(ctx, writes, options.BulkWrite().SetOrdered(false))
	return outcomes(keys, result, err, AccountsCollection)
}

// outcomes converts an unordered bulk-write result into per-record
// outcomes. A write exception marks only the operations it names as
// failed; any other error fails the whole batch.
func outcomes(keys []string, result *mongo.BulkWriteResult, err error, collectionName string) ([]indexsync.UpsertOutcome, error) {
	failed := make(map[int]error)
	if err != nil {
		var bwe mongo.BulkWriteException
		if !errors.As(err, &bwe) {
			return nil, fmt.Errorf("failed to perform bulk write for collection %s: %w", collectionName, err)
		}
		for _, we := range bwe.WriteErrors {
			failed[we.Index] = fmt.Errorf("write failed: %s", we.Message)
		}
	}

	created := make(map[int64]bool)
	if result != nil {
		for index := range result.UpsertedIDs {
			created[index] = true
		}
	}

	out := make([]indexsync.UpsertOutcome, len(keys))
	for i, key := range keys {
		out[i] = indexsync.UpsertOutcome{
			Key:     key,
			Created: created[int64(i)],
			Err:     failed[i],
		}
	}
	return out, nil
}

// AppendSyncRecord appends one audit record to the sync history.
func (s *MongoRecordStore) AppendSyncRecord(ctx context.Context, record model.IndexSyncRecord) error {
	collection := s.provider.Collection(SyncHistoryCollection)
	_, err := collection.InsertOne(ctx, record)
	if err != nil {
		return fmt.Errorf("failed to insert into %s collection: %w", SyncHistoryCollection, err)
	}
	return nil
}

// LastSync returns the most recent audit record for a tenant and index
// kind, or nil when none exists.
func (s *MongoRecordStore) LastSync(ctx context.Context, tenantID string, kind indexsync.Kind) (*model.IndexSyncRecord, error) {
	collection := s.provider.Collection(SyncHistoryCollection)
	filter := bson.M{
		"tenant_id":  tenantID,
		"index_type": string(kind),
	}
	opts := options.FindOne().SetSort(bson.D{{Key: "synced_at", Value: -1}})

	var record model.IndexSyncRecord
	err := collection.FindOne(ctx, filter, opts).Decode(&record)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read last sync record for tenant %s: %w", tenantID, err)
	}
	return &record, nil
}
