package relationships

import (
	"context"
	"fmt"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

// LoadOptions tunes a LoadForEntity call.
type LoadOptions struct {
	// Targets restricts which kinds are resolved; raw strings so route
	// parameters with legacy spellings still work. Empty means all kinds.
	Targets []string

	// Permissions filters what the caller may see and link. Nil means a
	// trusted caller with full access.
	Permissions *domain.PermissionSet

	// Edges short-circuits the edge fetch when the caller already loaded
	// them earlier in the same request.
	Edges []entities.EntityRelationship
}

// LoadForEntity resolves, per target kind, which records are already
// linked to (kind, id) and which the caller could still link. Kinds the
// caller cannot read are omitted from the result entirely. A failure
// fetching one linked record drops that record, never the whole call.
func (s *RelationshipService) LoadForEntity(ctx context.Context, kind domain.EntityKind, id int64, opts LoadOptions) (map[domain.EntityKind]domain.RelationGroup, error) {
	targets := s.normalizeTargets(opts.Targets, opts.Permissions)

	edges := opts.Edges
	if edges == nil {
		var err error
		edges, err = s.edges.GetEntityRelationships(ctx, kind, id)
		if err != nil {
			return nil, fmt.Errorf("RelationshipService.LoadForEntity - failed to fetch edges for %s %d: %w", kind, id, err)
		}
	}

	result := make(map[domain.EntityKind]domain.RelationGroup, len(targets))

	for _, target := range targets {
		linked := make([]entities.LinkedRecord, 0)
		linkedIDs := make(map[int64]bool)

		for _, edge := range edges {
			otherKind, otherID, ok := domain.RelationshipOtherSide(edge, kind, id)
			if !ok || otherKind != target {
				continue
			}
			if linkedIDs[otherID] {
				continue
			}
			linkedIDs[otherID] = true

			record, err := s.records.GetRecord(ctx, target, otherID)
			if err != nil {
				// Dangling edge or transient read failure: skip the record,
				// keep the rest of the load intact.
				s.logger.Warn("skipping unresolvable linked record",
					"source_kind", kind, "source_id", id,
					"target_kind", target, "target_id", otherID,
					"error", err)
				continue
			}
			linked = append(linked, *record)
		}

		canWrite := opts.Permissions.CanWriteRelationType(target)

		available := make([]entities.LinkedRecord, 0)
		if canWrite {
			candidates, err := s.records.ListRecords(ctx, target)
			if err != nil {
				s.logger.Warn("failed to list available records",
					"target_kind", target, "error", err)
			} else {
				// Dedup by id: the mail source unions drafts, inbox and
				// sent, which can return the same message twice.
				seen := make(map[int64]bool, len(candidates))
				for _, candidate := range candidates {
					if linkedIDs[candidate.ID] || seen[candidate.ID] {
						continue
					}
					seen[candidate.ID] = true
					available = append(available, candidate)
				}
			}
		}

		result[target] = domain.RelationGroup{
			Linked:    linked,
			Available: available,
			CanWrite:  canWrite,
		}
	}

	return result, nil
}

// normalizeTargets canonicalizes the requested kinds, drops unknown
// strings and kinds the caller cannot read, and dedups.
func (s *RelationshipService) normalizeTargets(raw []string, perms *domain.PermissionSet) []domain.EntityKind {
	var candidates []domain.EntityKind
	if len(raw) == 0 {
		candidates = domain.AllEntityKinds
	} else {
		for _, value := range raw {
			kind, ok := domain.NormalizeEntityKind(value)
			if !ok {
				continue
			}
			candidates = append(candidates, kind)
		}
	}

	seen := make(map[domain.EntityKind]bool, len(candidates))
	targets := make([]domain.EntityKind, 0, len(candidates))
	for _, kind := range candidates {
		if seen[kind] || !perms.CanReadRelationType(kind) {
			continue
		}
		seen[kind] = true
		targets = append(targets, kind)
	}

	return targets
}
