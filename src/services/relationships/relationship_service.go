package relationships

import (
	"context"
	"log/slog"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

// EdgeRepository is the storage contract for the entity relationship
// table.
type EdgeRepository interface {
	GetEntityRelationships(ctx context.Context, kind domain.EntityKind, id int64) ([]entities.EntityRelationship, error)
	EntityRelationshipExists(ctx context.Context, aKind domain.EntityKind, aID int64, bKind domain.EntityKind, bID int64) (bool, error)
	CreateEntityRelationship(ctx context.Context, rel entities.EntityRelationship) (entities.EntityRelationship, error)
	DeleteEntityRelationship(ctx context.Context, aKind domain.EntityKind, aID int64, bKind domain.EntityKind, bID int64) (int64, error)
	DeleteEntityRelationshipsFor(ctx context.Context, kind domain.EntityKind, id int64) (int64, error)
}

// RecordRepository resolves per-kind records into the narrow projection the
// core reads.
type RecordRepository interface {
	GetRecord(ctx context.Context, kind domain.EntityKind, id int64) (*entities.LinkedRecord, error)
	ListRecords(ctx context.Context, kind domain.EntityKind) ([]entities.LinkedRecord, error)
}

// ReceiptCache clears the RECEIPTS_BY_YEAR cache after mutations that touch
// receipts.
type ReceiptCache interface {
	InvalidateReceipts(ctx context.Context) error
}

// EventPublisher announces link mutations to downstream consumers. Best
// effort: implementations log failures and never block the mutation.
type EventPublisher interface {
	RelationshipLinked(ctx context.Context, rel entities.EntityRelationship)
	RelationshipUnlinked(ctx context.Context, rel entities.EntityRelationship)
}

// RelationshipService owns the relationship core: edge loading, the
// domination-scale context resolution, and link/unlink mutations.
type RelationshipService struct {
	logger       *slog.Logger
	edges        EdgeRepository
	records      RecordRepository
	receiptCache ReceiptCache
	events       EventPublisher
}

// NewRelationshipService wires the service. receiptCache and events may be
// nil; the service degrades to no caching and no eventing.
func NewRelationshipService(
	logger *slog.Logger,
	edges EdgeRepository,
	records RecordRepository,
	receiptCache ReceiptCache,
	events EventPublisher,
) *RelationshipService {
	return &RelationshipService{
		logger:       logger,
		edges:        edges,
		records:      records,
		receiptCache: receiptCache,
		events:       events,
	}
}

func (s *RelationshipService) invalidateReceiptCache(ctx context.Context) {
	if s.receiptCache == nil {
		return
	}
	if err := s.receiptCache.InvalidateReceipts(ctx); err != nil {
		s.logger.Warn("failed to invalidate receipt cache", "error", err)
	}
}
