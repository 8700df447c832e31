package entities

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// LinkedRecord is the narrow projection of a portal record the
// relationship core is allowed to read. Each kind owns its own full store;
// here a receipt, a poll and a mail thread all collapse to the same shape,
// with fields the kind does not have left at their zero value.
//
// Field meaning varies by kind: Date is the purchase date on a receipt and
// the booking date on a transaction; Description is the store name on a
// receipt; Items is the raw receipt line-item JSON and stays opaque until
// the context resolver parses it.
type LinkedRecord struct {
	ID          int64            `json:"id"`
	Kind        string           `json:"kind"`
	Date        *time.Time       `json:"date,omitempty"`
	Amount      *decimal.Decimal `json:"amount,omitempty"`
	Description string           `json:"description"`
	Currency    string           `json:"currency,omitempty"`
	Status      string           `json:"status,omitempty"`
	CreatedBy   int64            `json:"created_by"`
	Items       json.RawMessage  `json:"items,omitempty"`
	Archived    bool             `json:"archived"`
	CreatedAt   time.Time        `json:"created_at"`
}
