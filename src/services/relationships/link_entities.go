package relationships

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

// LinkRequest names the unordered pair to link. Kind fields are raw
// strings so legacy spellings from stored routes normalize here, at the
// boundary of the core.
type LinkRequest struct {
	AType     string
	AID       int64
	BType     string
	BID       int64
	CreatedBy int64
}

// LinkEntities creates the edge between the two records if it does not
// exist yet, in canonical orientation (lower kind name, then lower id, on
// the A side). Idempotent: linking an already-linked pair in either
// orientation reports created=false with no error.
func (s *RelationshipService) LinkEntities(ctx context.Context, req LinkRequest) (bool, error) {
	aKind, aID, bKind, bID, err := s.normalizePair(req.AType, req.AID, req.BType, req.BID)
	if err != nil {
		return false, err
	}

	exists, err := s.edges.EntityRelationshipExists(ctx, aKind, aID, bKind, bID)
	if err != nil {
		return false, fmt.Errorf("RelationshipService.LinkEntities - existence check failed: %w", err)
	}
	if exists {
		return false, nil
	}

	rel := entities.EntityRelationship{
		RelationAType: string(aKind),
		RelationAID:   aID,
		RelationBType: string(bKind),
		RelationBID:   bID,
		CreatedBy:     req.CreatedBy,
	}

	created, err := s.edges.CreateEntityRelationship(ctx, rel)
	if err != nil {
		return false, fmt.Errorf("RelationshipService.LinkEntities - create failed: %w", err)
	}

	if aKind == domain.KindReceipt || bKind == domain.KindReceipt {
		s.invalidateReceiptCache(ctx)
	}
	if s.events != nil {
		s.events.RelationshipLinked(ctx, created)
	}

	return true, nil
}

// UnlinkEntities removes the edge between the pair in whichever
// orientation it was stored. Reports removed=false when nothing was
// linked.
func (s *RelationshipService) UnlinkEntities(ctx context.Context, req LinkRequest) (bool, error) {
	aKind, aID, bKind, bID, err := s.normalizePair(req.AType, req.AID, req.BType, req.BID)
	if err != nil {
		return false, err
	}

	deleted, err := s.edges.DeleteEntityRelationship(ctx, aKind, aID, bKind, bID)
	if err != nil {
		return false, fmt.Errorf("RelationshipService.UnlinkEntities - delete failed: %w", err)
	}
	if deleted == 0 {
		return false, nil
	}

	if aKind == domain.KindReceipt || bKind == domain.KindReceipt {
		s.invalidateReceiptCache(ctx)
	}
	if s.events != nil {
		s.events.RelationshipUnlinked(ctx, entities.EntityRelationship{
			RelationAType: string(aKind),
			RelationAID:   aID,
			RelationBType: string(bKind),
			RelationBID:   bID,
			CreatedBy:     req.CreatedBy,
		})
	}

	return true, nil
}

// UnlinkAllForEntity removes every edge touching the record. Called when
// an orphaned draft is cleaned up, so its links do not dangle.
func (s *RelationshipService) UnlinkAllForEntity(ctx context.Context, kindRaw string, id int64) (int64, error) {
	kind, ok := domain.NormalizeEntityKind(kindRaw)
	if !ok {
		return 0, fmt.Errorf("RelationshipService.UnlinkAllForEntity - %q: %w", kindRaw, domain.ErrUnknownEntityKind)
	}

	deleted, err := s.edges.DeleteEntityRelationshipsFor(ctx, kind, id)
	if err != nil {
		return 0, fmt.Errorf("RelationshipService.UnlinkAllForEntity - delete failed: %w", err)
	}

	if deleted > 0 && kind == domain.KindReceipt {
		s.invalidateReceiptCache(ctx)
	}

	return deleted, nil
}

// LinkFromSource auto-links a freshly created record to the "source
// context" it was created from, carried on creation URLs as "kind:id"
// (e.g. receipt:42).
func (s *RelationshipService) LinkFromSource(ctx context.Context, sourceRef string, targetKind string, targetID int64, createdBy int64) (bool, error) {
	kindPart, idPart, ok := strings.Cut(sourceRef, ":")
	if !ok {
		return false, fmt.Errorf("RelationshipService.LinkFromSource - malformed source ref %q: %w", sourceRef, domain.ErrInvalidRelationship)
	}

	sourceID, err := strconv.ParseInt(idPart, 10, 64)
	if err != nil {
		return false, fmt.Errorf("RelationshipService.LinkFromSource - malformed source id in %q: %w", sourceRef, domain.ErrInvalidRelationship)
	}

	return s.LinkEntities(ctx, LinkRequest{
		AType:     kindPart,
		AID:       sourceID,
		BType:     targetKind,
		BID:       targetID,
		CreatedBy: createdBy,
	})
}

// normalizePair canonicalizes both kinds, rejects unknown kinds and
// self-links, and orients the pair (kind name, then id).
func (s *RelationshipService) normalizePair(aTypeRaw string, aID int64, bTypeRaw string, bID int64) (domain.EntityKind, int64, domain.EntityKind, int64, error) {
	aKind, ok := domain.NormalizeEntityKind(aTypeRaw)
	if !ok {
		return "", 0, "", 0, fmt.Errorf("relationship side A %q: %w", aTypeRaw, domain.ErrUnknownEntityKind)
	}
	bKind, ok := domain.NormalizeEntityKind(bTypeRaw)
	if !ok {
		return "", 0, "", 0, fmt.Errorf("relationship side B %q: %w", bTypeRaw, domain.ErrUnknownEntityKind)
	}

	if aKind == bKind && aID == bID {
		return "", 0, "", 0, fmt.Errorf("cannot link %s %d to itself: %w", aKind, aID, domain.ErrInvalidRelationship)
	}

	if bKind < aKind || (bKind == aKind && bID < aID) {
		aKind, aID, bKind, bID = bKind, bID, aKind, aID
	}

	return aKind, aID, bKind, bID, nil
}
