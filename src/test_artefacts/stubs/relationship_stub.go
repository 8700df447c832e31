package stubs

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

type RelationshipStub struct {
	relationship entities.EntityRelationship
}

func NewRelationshipStub() RelationshipStub {
	relationship := entities.EntityRelationship{
		ID:            int64(gofakeit.Number(1, 1_000_000)),
		RelationAType: "receipt",
		RelationAID:   gofakeit.Int64(),
		RelationBType: "transaction",
		RelationBID:   gofakeit.Int64(),
		CreatedBy:     gofakeit.Int64(),
		CreatedAt:     time.Now().UTC(),
	}

	return RelationshipStub{relationship: relationship}
}

func (rs RelationshipStub) WithID(id int64) RelationshipStub {
	rs.relationship.ID = id
	return rs
}

func (rs RelationshipStub) WithSideA(kind string, id int64) RelationshipStub {
	rs.relationship.RelationAType = kind
	rs.relationship.RelationAID = id
	return rs
}

func (rs RelationshipStub) WithSideB(kind string, id int64) RelationshipStub {
	rs.relationship.RelationBType = kind
	rs.relationship.RelationBID = id
	return rs
}

func (rs RelationshipStub) WithCreatedBy(createdBy int64) RelationshipStub {
	rs.relationship.CreatedBy = createdBy
	return rs
}

func (rs RelationshipStub) WithCreatedAt(createdAt time.Time) RelationshipStub {
	rs.relationship.CreatedAt = createdAt
	return rs
}

func (rs RelationshipStub) Get() entities.EntityRelationship {
	return rs.relationship
}
