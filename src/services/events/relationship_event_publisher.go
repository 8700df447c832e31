package events

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
	"github.com/Jalez/resident-committee-portal-sub005/src/infra/kafka"
)

const (
	EventTypeRelationshipLinked   = "relationship.linked"
	EventTypeRelationshipUnlinked = "relationship.unlinked"
)

// RelationshipEventPublisher announces link mutations so downstream
// consumers (mail digests, poll reminders, audit trail) can react.
// Publishing is best effort: a broker hiccup is logged and the mutation
// stands.
type RelationshipEventPublisher struct {
	logger      *slog.Logger
	kafkaClient *kafka.KafkaClient
	topic       string
}

func NewRelationshipEventPublisher(
	logger *slog.Logger,
	kafkaClient *kafka.KafkaClient,
	topic string,
) *RelationshipEventPublisher {
	return &RelationshipEventPublisher{
		logger:      logger,
		kafkaClient: kafkaClient,
		topic:       topic,
	}
}

// RelationshipEvent is the wire payload for link mutations.
type RelationshipEvent struct {
	EventID       string    `json:"event_id"`
	EventType     string    `json:"event_type"`
	RelationAType string    `json:"relation_a_type"`
	RelationAID   int64     `json:"relation_a_id"`
	RelationBType string    `json:"relation_b_type"`
	RelationBID   int64     `json:"relation_b_id"`
	CreatedBy     int64     `json:"created_by"`
	OccurredAt    time.Time `json:"occurred_at"`
}

func (p *RelationshipEventPublisher) RelationshipLinked(ctx context.Context, rel entities.EntityRelationship) {
	p.publish(ctx, EventTypeRelationshipLinked, rel)
}

func (p *RelationshipEventPublisher) RelationshipUnlinked(ctx context.Context, rel entities.EntityRelationship) {
	p.publish(ctx, EventTypeRelationshipUnlinked, rel)
}

func (p *RelationshipEventPublisher) publish(_ context.Context, eventType string, rel entities.EntityRelationship) {
	event := RelationshipEvent{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		RelationAType: rel.RelationAType,
		RelationAID:   rel.RelationAID,
		RelationBType: rel.RelationBType,
		RelationBID:   rel.RelationBID,
		CreatedBy:     rel.CreatedBy,
		OccurredAt:    time.Now().UTC(),
	}

	eventBytes, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("Failed to marshal relationship event",
			"error", err,
			"event_type", eventType)
		return
	}

	message := kafka.Message{
		// Partition by the canonical A side so events for one record stay
		// ordered.
		Key:   fmt.Sprintf("%s:%d", rel.RelationAType, rel.RelationAID),
		Value: eventBytes,
		Headers: map[string]string{
			"event_id":       event.EventID,
			"event_type":     eventType,
			"source_service": "committee-portal-api",
			"schema_version": "v1",
		},
	}

	if err := p.kafkaClient.Producer([]kafka.Message{message}, p.topic); err != nil {
		p.logger.Error("Failed to publish relationship event",
			"error", err,
			"topic", p.topic,
			"event_type", eventType)
		return
	}

	p.logger.Debug("Published relationship event",
		"topic", p.topic,
		"event_id", event.EventID,
		"event_type", eventType)
}
