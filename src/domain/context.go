package domain

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

// ValueSource names the kind whose record currently owns the resolved
// field values. Empty means nothing contributed.
type ValueSource string

const (
	ValueSourceNone          ValueSource = ""
	ValueSourceManual        ValueSource = "manual"
	ValueSourceReceipt       ValueSource = "receipt"
	ValueSourceReimbursement ValueSource = "reimbursement"
	ValueSourceTransaction   ValueSource = "transaction"
)

// LineItem is a single purchased item carried on a receipt.
type LineItem struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// RelationshipContextValues is the derived, per-request view of the field
// values a dependent record should inherit from its dominant neighbor.
// Never persisted.
type RelationshipContextValues struct {
	Date        *time.Time       `json:"date"`
	TotalAmount *decimal.Decimal `json:"total_amount"`
	Description *string          `json:"description"`
	Currency    *string          `json:"currency"`
	Category    *string          `json:"category"`
	PurchaserID *int64           `json:"purchaser_id"`
	LineItems   []LineItem       `json:"line_items"`
	ValueSource ValueSource      `json:"value_source"`
}

// ManualOverrides are the user-entered values layered on top of whatever a
// linked record contributed. Date, amount and description flip the value
// source to manual; the remaining fields are secondary and do not.
type ManualOverrides struct {
	Date        *time.Time
	TotalAmount *decimal.Decimal
	Description *string
	Currency    *string
	Category    *string
	PurchaserID *int64
	LineItems   []LineItem
}

// RelationGroup is the loader's per-kind result: what is already linked to
// the source entity and, when the caller may link more, what is still
// available.
type RelationGroup struct {
	Linked    []entities.LinkedRecord `json:"linked"`
	Available []entities.LinkedRecord `json:"available"`
	CanWrite  bool                    `json:"can_write"`
}

// TransactionControl is the status pair force-derived onto a transaction
// from a linked reimbursement. The sync is one way: reimbursement status
// drives the transaction, never the reverse.
type TransactionControl struct {
	Status              string `json:"status"`
	ReimbursementStatus string `json:"reimbursement_status"`
}

// ControlledTransactionFields reports which transaction fields the edit
// form must disable and which values are forced by a linked reimbursement.
type ControlledTransactionFields struct {
	LockedFields        []string `json:"locked_fields"`
	Type                *string  `json:"type,omitempty"`
	Status              *string  `json:"status,omitempty"`
	ReimbursementStatus *string  `json:"reimbursement_status,omitempty"`
}
