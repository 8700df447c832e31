package server

import (
	"encoding/json"
	"time"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

type RecordDTO struct {
	ID          int64           `json:"id"`
	Kind        string          `json:"kind"`
	Date        *time.Time      `json:"date,omitempty"`
	Amount      *string         `json:"amount,omitempty"`
	Description string          `json:"description"`
	Currency    string          `json:"currency,omitempty"`
	Status      string          `json:"status,omitempty"`
	CreatedBy   int64           `json:"created_by"`
	Items       json.RawMessage `json:"items,omitempty"`
	Archived    bool            `json:"archived"`
	CreatedAt   time.Time       `json:"created_at"`
}

type RelationGroupDTO struct {
	Linked    []RecordDTO `json:"linked"`
	Available []RecordDTO `json:"available"`
	CanWrite  bool        `json:"can_write"`
}

type RelationshipContextDTO struct {
	Date        *time.Time        `json:"date"`
	TotalAmount *string           `json:"total_amount"`
	Description *string           `json:"description"`
	Currency    *string           `json:"currency"`
	Category    *string           `json:"category"`
	PurchaserID *int64            `json:"purchaser_id"`
	LineItems   []domain.LineItem `json:"line_items"`
	ValueSource *string           `json:"value_source"`
}

type LinkRequestDTO struct {
	AType     string `json:"a_type"`
	AID       int64  `json:"a_id"`
	BType     string `json:"b_type"`
	BID       int64  `json:"b_id"`
	CreatedBy int64  `json:"created_by"`
}

type LinkResponseDTO struct {
	Created bool `json:"created"`
}

type UnlinkResponseDTO struct {
	Removed bool `json:"removed"`
}

func MapRecordToResponse(record entities.LinkedRecord) RecordDTO {
	dto := RecordDTO{
		ID:          record.ID,
		Kind:        record.Kind,
		Date:        record.Date,
		Description: record.Description,
		Currency:    record.Currency,
		Status:      record.Status,
		CreatedBy:   record.CreatedBy,
		Items:       record.Items,
		Archived:    record.Archived,
		CreatedAt:   record.CreatedAt,
	}
	if record.Amount != nil {
		amount := record.Amount.String()
		dto.Amount = &amount
	}
	return dto
}

func MapRelationsToResponse(groups map[domain.EntityKind]domain.RelationGroup) map[string]RelationGroupDTO {
	response := make(map[string]RelationGroupDTO, len(groups))
	for kind, group := range groups {
		dto := RelationGroupDTO{
			Linked:    make([]RecordDTO, 0, len(group.Linked)),
			Available: make([]RecordDTO, 0, len(group.Available)),
			CanWrite:  group.CanWrite,
		}
		for _, record := range group.Linked {
			dto.Linked = append(dto.Linked, MapRecordToResponse(record))
		}
		for _, record := range group.Available {
			dto.Available = append(dto.Available, MapRecordToResponse(record))
		}
		response[string(kind)] = dto
	}
	return response
}

func MapContextToResponse(values domain.RelationshipContextValues) RelationshipContextDTO {
	dto := RelationshipContextDTO{
		Date:        values.Date,
		Description: values.Description,
		Currency:    values.Currency,
		Category:    values.Category,
		PurchaserID: values.PurchaserID,
		LineItems:   values.LineItems,
	}
	if values.TotalAmount != nil {
		amount := values.TotalAmount.String()
		dto.TotalAmount = &amount
	}
	if values.ValueSource != domain.ValueSourceNone {
		source := string(values.ValueSource)
		dto.ValueSource = &source
	}
	return dto
}
