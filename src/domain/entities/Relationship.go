package entities

import "time"

// EntityRelationship is one undirected link between two portal records,
// stored with an arbitrary A/B orientation. Kind fields are raw strings:
// rows written before the alias cleanup can still carry legacy spellings,
// so consumers normalize on read and check both sides to find "the other
// end" relative to a known record.
type EntityRelationship struct {
	ID            int64     `json:"id"`
	RelationAType string    `json:"relation_a_type"`
	RelationAID   int64     `json:"relation_a_id"`
	RelationBType string    `json:"relation_b_type"`
	RelationBID   int64     `json:"relation_b_id"`
	CreatedBy     int64     `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
}
