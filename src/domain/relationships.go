package domain

import "github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"

// RelationshipOtherSide resolves the far end of an edge relative to a known
// record, checking the A orientation first and then B, the same way every
// consumer of the edge table does. Edges whose far side fails kind
// normalization report ok=false and are dropped by the caller.
func RelationshipOtherSide(rel entities.EntityRelationship, kind EntityKind, id int64) (EntityKind, int64, bool) {
	if aKind, ok := NormalizeEntityKind(rel.RelationAType); ok && aKind == kind && rel.RelationAID == id {
		otherKind, ok := NormalizeEntityKind(rel.RelationBType)
		if !ok {
			return "", 0, false
		}
		return otherKind, rel.RelationBID, true
	}

	if bKind, ok := NormalizeEntityKind(rel.RelationBType); ok && bKind == kind && rel.RelationBID == id {
		otherKind, ok := NormalizeEntityKind(rel.RelationAType)
		if !ok {
			return "", 0, false
		}
		return otherKind, rel.RelationAID, true
	}

	return "", 0, false
}
