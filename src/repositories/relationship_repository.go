package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
	"github.com/Jalez/resident-committee-portal-sub005/src/infra/postgres"
)

// RelationshipRepository is the edge store: plain queries over the
// entity_relationships table, no dedup or cascade logic. Callers hold the
// invariants (existence check before insert, cleanup on record deletion).
type RelationshipRepository struct {
	pool *pgxpool.Pool
}

func NewRelationshipRepository(pool *pgxpool.Pool) *RelationshipRepository {
	return &RelationshipRepository{pool: pool}
}

// GetEntityRelationships returns every edge touching (kind, id) in either
// orientation, ordered by created_at then row id. The order matters: the
// context resolver's first-seen-wins tie-break relies on it being stable.
func (rr *RelationshipRepository) GetEntityRelationships(ctx context.Context, kind domain.EntityKind, id int64) ([]entities.EntityRelationship, error) {
	query := `
		SELECT
			id,
			relation_a_type,
			relation_a_id,
			relation_b_type,
			relation_b_id,
			created_by,
			created_at
		FROM
			entity_relationships
		WHERE
			(relation_a_type = $1 AND relation_a_id = $2)
			OR (relation_b_type = $1 AND relation_b_id = $2)
		ORDER BY
			created_at ASC, id ASC;
	`

	rows, err := rr.pool.Query(ctx, query, string(kind), id)
	if err != nil {
		return nil, fmt.Errorf("RelationshipRepository.GetEntityRelationships - query failed: %w", err)
	}
	defer rows.Close()

	var relationships []entities.EntityRelationship
	for rows.Next() {
		var rel entities.EntityRelationship
		if err := rows.Scan(&rel.ID, &rel.RelationAType, &rel.RelationAID, &rel.RelationBType, &rel.RelationBID, &rel.CreatedBy, &rel.CreatedAt); err != nil {
			return nil, fmt.Errorf("RelationshipRepository.GetEntityRelationships - failed to scan edge: %w", err)
		}
		relationships = append(relationships, rel)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("RelationshipRepository.GetEntityRelationships - error iterating edges: %w", err)
	}

	return relationships, nil
}

// EntityRelationshipExists checks both orientations of the unordered pair.
func (rr *RelationshipRepository) EntityRelationshipExists(ctx context.Context, aKind domain.EntityKind, aID int64, bKind domain.EntityKind, bID int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM entity_relationships
			WHERE
				(relation_a_type = $1 AND relation_a_id = $2 AND relation_b_type = $3 AND relation_b_id = $4)
				OR (relation_a_type = $3 AND relation_a_id = $4 AND relation_b_type = $1 AND relation_b_id = $2)
		);
	`

	var exists bool
	if err := rr.pool.QueryRow(ctx, query, string(aKind), aID, string(bKind), bID).Scan(&exists); err != nil {
		return false, fmt.Errorf("RelationshipRepository.EntityRelationshipExists - query failed: %w", err)
	}

	return exists, nil
}

// CreateEntityRelationship inserts the edge as given. Orientation is
// canonicalized by the service before it gets here; older rows in the table
// predate canonicalization, which is why every read still checks both
// sides.
func (rr *RelationshipRepository) CreateEntityRelationship(ctx context.Context, rel entities.EntityRelationship) (entities.EntityRelationship, error) {
	query := `
		INSERT INTO entity_relationships
			(relation_a_type, relation_a_id, relation_b_type, relation_b_id, created_by)
		VALUES
			($1, $2, $3, $4, $5)
		RETURNING
			id, created_at;
	`

	err := rr.pool.QueryRow(ctx, query, rel.RelationAType, rel.RelationAID, rel.RelationBType, rel.RelationBID, rel.CreatedBy).
		Scan(&rel.ID, &rel.CreatedAt)
	if err != nil {
		if postgres.IsUniqueViolation(err) {
			// Lost a race with a concurrent link of the same pair; the edge
			// exists, which is what the caller wanted.
			return rel, nil
		}
		return entities.EntityRelationship{}, fmt.Errorf("RelationshipRepository.CreateEntityRelationship - insert failed: %w", err)
	}

	return rel, nil
}

// DeleteEntityRelationship removes the unordered pair in whichever
// orientation it was stored.
func (rr *RelationshipRepository) DeleteEntityRelationship(ctx context.Context, aKind domain.EntityKind, aID int64, bKind domain.EntityKind, bID int64) (int64, error) {
	query := `
		DELETE FROM entity_relationships
		WHERE
			(relation_a_type = $1 AND relation_a_id = $2 AND relation_b_type = $3 AND relation_b_id = $4)
			OR (relation_a_type = $3 AND relation_a_id = $4 AND relation_b_type = $1 AND relation_b_id = $2);
	`

	tag, err := rr.pool.Exec(ctx, query, string(aKind), aID, string(bKind), bID)
	if err != nil {
		return 0, fmt.Errorf("RelationshipRepository.DeleteEntityRelationship - delete failed: %w", err)
	}

	return tag.RowsAffected(), nil
}

// DeleteEntityRelationshipsFor removes every edge touching (kind, id).
// Used when an orphaned draft is cleaned up and its links must go with it.
func (rr *RelationshipRepository) DeleteEntityRelationshipsFor(ctx context.Context, kind domain.EntityKind, id int64) (int64, error) {
	query := `
		DELETE FROM entity_relationships
		WHERE
			(relation_a_type = $1 AND relation_a_id = $2)
			OR (relation_b_type = $1 AND relation_b_id = $2);
	`

	tag, err := rr.pool.Exec(ctx, query, string(kind), id)
	if err != nil {
		return 0, fmt.Errorf("RelationshipRepository.DeleteEntityRelationshipsFor - delete failed: %w", err)
	}

	return tag.RowsAffected(), nil
}
