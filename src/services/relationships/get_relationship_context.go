package relationships

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

const fallbackCurrency = "EUR"

// contextPopulators maps a dominant neighbor's kind to the extraction of
// its canonical field values. Built once; kinds without an entry
// contribute nothing to the context. Reimbursements and transactions have
// no currency column, so their contribution is pinned to EUR — a known
// limitation of the source records, not something to repair here.
var contextPopulators = map[domain.EntityKind]func(*domain.RelationshipContextValues, *entities.LinkedRecord){
	domain.KindReceipt:       populateFromReceipt,
	domain.KindReimbursement: populateFromReimbursement,
	domain.KindTransaction:   populateFromTransaction,
}

// GetRelationshipContext derives the field values (date, amount,
// description, ...) that the entity at (kind, id) should inherit from its
// highest-priority linked neighbor, then layers manual overrides on top.
// A nil id means the entity is still being created and has nothing to
// inherit from. Best effort: data problems downgrade to an emptier
// context, they never fail the call.
func (s *RelationshipService) GetRelationshipContext(ctx context.Context, kind domain.EntityKind, id *int64, overrides *domain.ManualOverrides) (domain.RelationshipContextValues, error) {
	values := domain.RelationshipContextValues{}

	if id == nil {
		applyManualOverrides(&values, overrides)
		return values, nil
	}

	edges, err := s.edges.GetEntityRelationships(ctx, kind, *id)
	if err != nil {
		return values, fmt.Errorf("RelationshipService.GetRelationshipContext - failed to fetch edges for %s %d: %w", kind, *id, err)
	}

	// Priority walk over the edge list. The list is ordered by creation
	// time, and only a strictly greater priority replaces the current
	// winner, so the earliest neighbor at the top rank wins ties.
	var (
		dominantKind domain.EntityKind
		dominantID   int64
		dominantPrio int
		found        bool
	)
	for _, edge := range edges {
		otherKind, otherID, ok := domain.RelationshipOtherSide(edge, kind, *id)
		if !ok {
			continue
		}
		if prio := domain.EntityPriority(otherKind); !found || prio > dominantPrio {
			dominantKind, dominantID, dominantPrio = otherKind, otherID, prio
			found = true
		}
	}

	if found {
		if populate, ok := contextPopulators[dominantKind]; ok {
			record, err := s.records.GetRecord(ctx, dominantKind, dominantID)
			if err != nil {
				s.logger.Warn("dominant neighbor could not be read, context left empty",
					"kind", dominantKind, "id", dominantID, "error", err)
			} else {
				populate(&values, record)
			}
		}
	}

	applyManualOverrides(&values, overrides)
	return values, nil
}

func populateFromReceipt(values *domain.RelationshipContextValues, record *entities.LinkedRecord) {
	values.Date = record.Date
	values.TotalAmount = record.Amount
	if record.Description != "" {
		storeName := record.Description
		values.Description = &storeName
	}
	currency := record.Currency
	if currency == "" {
		currency = fallbackCurrency
	}
	values.Currency = &currency
	purchaser := record.CreatedBy
	values.PurchaserID = &purchaser
	values.LineItems = parseLineItems(record.Items)
	values.ValueSource = domain.ValueSourceReceipt
}

func populateFromReimbursement(values *domain.RelationshipContextValues, record *entities.LinkedRecord) {
	// Reimbursements carry no purchase date of their own; the request
	// creation time is the closest thing.
	createdAt := record.CreatedAt
	values.Date = &createdAt
	values.TotalAmount = record.Amount
	if record.Description != "" {
		description := record.Description
		values.Description = &description
	}
	currency := fallbackCurrency
	values.Currency = &currency
	purchaser := record.CreatedBy
	values.PurchaserID = &purchaser
	values.ValueSource = domain.ValueSourceReimbursement
}

func populateFromTransaction(values *domain.RelationshipContextValues, record *entities.LinkedRecord) {
	values.Date = record.Date
	values.TotalAmount = record.Amount
	if record.Description != "" {
		description := record.Description
		values.Description = &description
	}
	currency := fallbackCurrency
	values.Currency = &currency
	values.ValueSource = domain.ValueSourceTransaction
}

// parseLineItems accepts either a structured JSON array or a JSON string
// wrapping one (older receipts stored items double-encoded). Anything
// malformed yields an empty list.
func parseLineItems(raw json.RawMessage) []domain.LineItem {
	if len(raw) == 0 || string(raw) == "null" {
		return []domain.LineItem{}
	}

	var items []domain.LineItem
	if err := json.Unmarshal(raw, &items); err == nil {
		return items
	}

	var encoded string
	if err := json.Unmarshal(raw, &encoded); err == nil {
		if err := json.Unmarshal([]byte(encoded), &items); err == nil {
			return items
		}
	}

	return []domain.LineItem{}
}

// applyManualOverrides layers user-entered values last, unconditionally.
// Date, amount and description make the user the source of truth;
// currency, category, purchaser and line items are secondary and keep
// whatever source already owned the context.
func applyManualOverrides(values *domain.RelationshipContextValues, overrides *domain.ManualOverrides) {
	if overrides == nil {
		return
	}

	if overrides.Date != nil {
		values.Date = overrides.Date
		values.ValueSource = domain.ValueSourceManual
	}
	if overrides.TotalAmount != nil {
		values.TotalAmount = overrides.TotalAmount
		values.ValueSource = domain.ValueSourceManual
	}
	if overrides.Description != nil {
		values.Description = overrides.Description
		values.ValueSource = domain.ValueSourceManual
	}

	if overrides.Currency != nil {
		values.Currency = overrides.Currency
	}
	if overrides.Category != nil {
		values.Category = overrides.Category
	}
	if overrides.PurchaserID != nil {
		values.PurchaserID = overrides.PurchaserID
	}
	if overrides.LineItems != nil {
		values.LineItems = overrides.LineItems
	}
}
