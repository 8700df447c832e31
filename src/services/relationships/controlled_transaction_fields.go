package relationships

import (
	"context"
	"fmt"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
)

const forcedTransactionType = "expense"

// MapReimbursementStatusToTransactionControl derives the transaction status
// pair from a linked reimbursement's status. Any status that is not
// approved, reimbursed or rejected falls through to the pending branch;
// drafts included.
func MapReimbursementStatusToTransactionControl(status string) domain.TransactionControl {
	switch status {
	case "approved", "reimbursed":
		return domain.TransactionControl{Status: "complete", ReimbursementStatus: "approved"}
	case "rejected":
		return domain.TransactionControl{Status: "declined", ReimbursementStatus: "declined"}
	default:
		return domain.TransactionControl{Status: "pending", ReimbursementStatus: "requested"}
	}
}

// GetControlledTransactionFields re-derives which of a transaction's
// fields the edit form must lock. Date, amount and description lock when
// context resolution found a non-manual, non-transaction source of truth.
// A linked reimbursement additionally forces type, status and
// reimbursement status; that sync is strictly one way.
func (s *RelationshipService) GetControlledTransactionFields(ctx context.Context, transactionID int64) (domain.ControlledTransactionFields, error) {
	fields := domain.ControlledTransactionFields{LockedFields: []string{}}

	values, err := s.GetRelationshipContext(ctx, domain.KindTransaction, &transactionID, nil)
	if err != nil {
		return fields, fmt.Errorf("RelationshipService.GetControlledTransactionFields - failed to resolve context: %w", err)
	}

	switch values.ValueSource {
	case domain.ValueSourceNone, domain.ValueSourceManual, domain.ValueSourceTransaction:
		// the transaction still owns its own fields
	default:
		fields.LockedFields = []string{"date", "total_amount", "description"}
	}

	edges, err := s.edges.GetEntityRelationships(ctx, domain.KindTransaction, transactionID)
	if err != nil {
		return fields, fmt.Errorf("RelationshipService.GetControlledTransactionFields - failed to fetch edges: %w", err)
	}

	for _, edge := range edges {
		otherKind, otherID, ok := domain.RelationshipOtherSide(edge, domain.KindTransaction, transactionID)
		if !ok || otherKind != domain.KindReimbursement {
			continue
		}

		record, err := s.records.GetRecord(ctx, domain.KindReimbursement, otherID)
		if err != nil {
			s.logger.Warn("linked reimbursement could not be read",
				"reimbursement_id", otherID, "transaction_id", transactionID, "error", err)
			continue
		}

		control := MapReimbursementStatusToTransactionControl(record.Status)
		forcedType := forcedTransactionType
		fields.Type = &forcedType
		fields.Status = &control.Status
		fields.ReimbursementStatus = &control.ReimbursementStatus
		break
	}

	return fields, nil
}
