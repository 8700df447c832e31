// Package fakes holds in-memory doubles for the relationship core's
// storage and messaging contracts, so service suites run with plain
// `go test` and no Postgres, Redis or Kafka behind them.
package fakes

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

// Store is an in-memory stand-in for the relationship and record
// repositories. Kind matching is exact string comparison, like the SQL
// it replaces; edges read back ordered by creation time then id.
type Store struct {
	mu sync.Mutex

	relationships []entities.EntityRelationship
	nextEdgeID    int64

	records map[string]entities.LinkedRecord
	lists   map[domain.EntityKind][]entities.LinkedRecord

	edgesErr   error
	recordErrs map[string]error
	listErrs   map[domain.EntityKind]error
}

func NewStore() *Store {
	return &Store{
		records:    make(map[string]entities.LinkedRecord),
		lists:      make(map[domain.EntityKind][]entities.LinkedRecord),
		recordErrs: make(map[string]error),
		listErrs:   make(map[domain.EntityKind]error),
	}
}

func recordKey(kind string, id int64) string {
	return fmt.Sprintf("%s:%d", kind, id)
}

// SeedRecord registers the record for both GetRecord and ListRecords.
func (s *Store) SeedRecord(record entities.LinkedRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[recordKey(record.Kind, record.ID)] = record
	kind := domain.EntityKind(record.Kind)
	s.lists[kind] = append(s.lists[kind], record)
}

// SeedEdge stores the relationship as-is, filling in id and creation
// time when absent.
func (s *Store) SeedEdge(rel entities.EntityRelationship) entities.EntityRelationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appendEdge(rel)
}

func (s *Store) appendEdge(rel entities.EntityRelationship) entities.EntityRelationship {
	s.nextEdgeID++
	if rel.ID == 0 {
		rel.ID = s.nextEdgeID
	}
	if rel.CreatedAt.IsZero() {
		// strictly increasing so the read order is deterministic
		rel.CreatedAt = time.Unix(0, s.nextEdgeID).UTC()
	}
	s.relationships = append(s.relationships, rel)
	return rel
}

// FailEdges makes every edge operation return err.
func (s *Store) FailEdges(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.edgesErr = err
}

// FailRecord makes GetRecord for (kind, id) return err.
func (s *Store) FailRecord(kind string, id int64, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recordErrs[recordKey(kind, id)] = err
}

// FailList makes ListRecords for kind return err.
func (s *Store) FailList(kind domain.EntityKind, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listErrs[kind] = err
}

func (s *Store) Edges() []entities.EntityRelationship {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]entities.EntityRelationship(nil), s.relationships...)
}

func (s *Store) GetEntityRelationships(_ context.Context, kind domain.EntityKind, id int64) ([]entities.EntityRelationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edgesErr != nil {
		return nil, s.edgesErr
	}

	matches := make([]entities.EntityRelationship, 0)
	for _, rel := range s.relationships {
		if edgeTouches(rel, kind, id) {
			matches = append(matches, rel)
		}
	}
	// Stable sort over insertion order matches the repository's
	// created_at ASC, id ASC read order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].CreatedAt.Before(matches[j].CreatedAt)
	})
	return matches, nil
}

func (s *Store) EntityRelationshipExists(_ context.Context, aKind domain.EntityKind, aID int64, bKind domain.EntityKind, bID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edgesErr != nil {
		return false, s.edgesErr
	}

	for _, rel := range s.relationships {
		if edgeMatchesPair(rel, aKind, aID, bKind, bID) {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateEntityRelationship(_ context.Context, rel entities.EntityRelationship) (entities.EntityRelationship, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edgesErr != nil {
		return entities.EntityRelationship{}, s.edgesErr
	}
	return s.appendEdge(rel), nil
}

func (s *Store) DeleteEntityRelationship(_ context.Context, aKind domain.EntityKind, aID int64, bKind domain.EntityKind, bID int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edgesErr != nil {
		return 0, s.edgesErr
	}

	var deleted int64
	kept := s.relationships[:0]
	for _, rel := range s.relationships {
		if edgeMatchesPair(rel, aKind, aID, bKind, bID) {
			deleted++
			continue
		}
		kept = append(kept, rel)
	}
	s.relationships = kept
	return deleted, nil
}

func (s *Store) DeleteEntityRelationshipsFor(_ context.Context, kind domain.EntityKind, id int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.edgesErr != nil {
		return 0, s.edgesErr
	}

	var deleted int64
	kept := s.relationships[:0]
	for _, rel := range s.relationships {
		if edgeTouches(rel, kind, id) {
			deleted++
			continue
		}
		kept = append(kept, rel)
	}
	s.relationships = kept
	return deleted, nil
}

func (s *Store) GetRecord(_ context.Context, kind domain.EntityKind, id int64) (*entities.LinkedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := recordKey(string(kind), id)
	if err, ok := s.recordErrs[key]; ok {
		return nil, err
	}

	record, ok := s.records[key]
	if !ok {
		return nil, fmt.Errorf("fakes.Store.GetRecord - %s %d: %w", kind, id, domain.ErrRecordNotFound)
	}
	return &record, nil
}

func (s *Store) ListRecords(_ context.Context, kind domain.EntityKind) ([]entities.LinkedRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err, ok := s.listErrs[kind]; ok {
		return nil, err
	}

	listed := make([]entities.LinkedRecord, 0)
	for _, record := range s.lists[kind] {
		if record.Archived {
			continue
		}
		listed = append(listed, record)
	}
	return listed, nil
}

func edgeTouches(rel entities.EntityRelationship, kind domain.EntityKind, id int64) bool {
	return (rel.RelationAType == string(kind) && rel.RelationAID == id) ||
		(rel.RelationBType == string(kind) && rel.RelationBID == id)
}

func edgeMatchesPair(rel entities.EntityRelationship, aKind domain.EntityKind, aID int64, bKind domain.EntityKind, bID int64) bool {
	if rel.RelationAType == string(aKind) && rel.RelationAID == aID &&
		rel.RelationBType == string(bKind) && rel.RelationBID == bID {
		return true
	}
	return rel.RelationAType == string(bKind) && rel.RelationAID == bID &&
		rel.RelationBType == string(aKind) && rel.RelationBID == aID
}

// ReceiptCacheSpy counts invalidations.
type ReceiptCacheSpy struct {
	mu            sync.Mutex
	invalidations int
	err           error
}

func NewReceiptCacheSpy() *ReceiptCacheSpy {
	return &ReceiptCacheSpy{}
}

func (c *ReceiptCacheSpy) FailWith(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.err = err
}

func (c *ReceiptCacheSpy) InvalidateReceipts(_ context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
	return c.err
}

func (c *ReceiptCacheSpy) Invalidations() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

// EventRecorder captures published relationship events.
type EventRecorder struct {
	mu       sync.Mutex
	linked   []entities.EntityRelationship
	unlinked []entities.EntityRelationship
}

func NewEventRecorder() *EventRecorder {
	return &EventRecorder{}
}

func (r *EventRecorder) RelationshipLinked(_ context.Context, rel entities.EntityRelationship) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.linked = append(r.linked, rel)
}

func (r *EventRecorder) RelationshipUnlinked(_ context.Context, rel entities.EntityRelationship) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.unlinked = append(r.unlinked, rel)
}

func (r *EventRecorder) Linked() []entities.EntityRelationship {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.EntityRelationship(nil), r.linked...)
}

func (r *EventRecorder) Unlinked() []entities.EntityRelationship {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]entities.EntityRelationship(nil), r.unlinked...)
}
