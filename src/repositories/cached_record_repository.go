package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
	"github.com/Jalez/resident-committee-portal-sub005/src/infra/redis"
)

// ReceiptsByYearTag names the one process-wide cache this core maintains.
// Callers clear it explicitly after any mutation that touches receipts.
const ReceiptsByYearTag = "RECEIPTS_BY_YEAR"

// CachedRecordRepository fronts the record store with a Redis cache for
// receipt listings. Cache failures are logged and fall through to
// Postgres; the cache never changes what a caller observes, only how fast.
type CachedRecordRepository struct {
	recordRepository *RecordRepository
	redisClient      *redis.RedisClient
}

func NewCachedRecordRepository(
	recordRepository *RecordRepository,
	redisClient *redis.RedisClient,
) *CachedRecordRepository {
	return &CachedRecordRepository{
		recordRepository: recordRepository,
		redisClient:      redisClient,
	}
}

func (r *CachedRecordRepository) GetRecord(ctx context.Context, kind domain.EntityKind, id int64) (*entities.LinkedRecord, error) {
	// Single-record reads are cheap enough to always hit Postgres.
	return r.recordRepository.GetRecord(ctx, kind, id)
}

// ListRecords caches receipt listings under the RECEIPTS_BY_YEAR tag; every
// other kind goes straight to Postgres. The loader's available-set scan for
// receipts is the hot path this exists for.
func (r *CachedRecordRepository) ListRecords(ctx context.Context, kind domain.EntityKind) ([]entities.LinkedRecord, error) {
	if kind != domain.KindReceipt || r.redisClient == nil {
		return r.recordRepository.ListRecords(ctx, kind)
	}

	return r.listThroughCache(ctx, "records:receipt:all", func(ctx context.Context) ([]entities.LinkedRecord, error) {
		return r.recordRepository.ListRecords(ctx, kind)
	})
}

func (r *CachedRecordRepository) ListReceiptsByYear(ctx context.Context, year int) ([]entities.LinkedRecord, error) {
	if r.redisClient == nil {
		return r.recordRepository.ListReceiptsByYear(ctx, year)
	}

	cacheKey := fmt.Sprintf("records:receipt:year:%d", year)
	return r.listThroughCache(ctx, cacheKey, func(ctx context.Context) ([]entities.LinkedRecord, error) {
		return r.recordRepository.ListReceiptsByYear(ctx, year)
	})
}

// InvalidateReceipts clears every key written under the RECEIPTS_BY_YEAR
// tag. Called by mutation paths after link/unlink touches a receipt.
func (r *CachedRecordRepository) InvalidateReceipts(ctx context.Context) error {
	if r.redisClient == nil {
		return nil
	}
	return r.redisClient.InvalidateTag(ctx, ReceiptsByYearTag)
}

func (r *CachedRecordRepository) listThroughCache(
	ctx context.Context,
	cacheKey string,
	fetch func(ctx context.Context) ([]entities.LinkedRecord, error),
) ([]entities.LinkedRecord, error) {
	cachedJSON, found, err := r.redisClient.GetKey(ctx, cacheKey)
	if err != nil {
		// Log cache error but continue with Postgres
		log.Printf("Cache error for key %s: %v", cacheKey, err)
	}
	if found && err == nil {
		var records []entities.LinkedRecord
		if err := json.Unmarshal([]byte(cachedJSON), &records); err == nil {
			return records, nil
		}
		log.Printf("Cache entry for key %s is corrupt, refreshing", cacheKey)
	}

	records, err := fetch(ctx)
	if err != nil {
		return nil, err
	}

	go func() {
		ctxWithTimeout, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		dataJSON, err := json.Marshal(records)
		if err != nil {
			log.Printf("Failed to marshal cache data for key %s: %v", cacheKey, err)
			return
		}

		if err := r.redisClient.SetWithTag(ctxWithTimeout, cacheKey, string(dataJSON), ReceiptsByYearTag); err != nil {
			log.Printf("Failed to set cache for key %s: %v", cacheKey, err)
		}
	}()

	return records, nil
}
