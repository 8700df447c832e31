package stubs

import (
	"encoding/json"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
)

type RecordStub struct {
	record entities.LinkedRecord
}

func NewRecordStub() RecordStub {
	now := time.Now().UTC()
	date := now.AddDate(0, 0, -gofakeit.Number(1, 60))
	amount := decimal.NewFromFloat(gofakeit.Price(1, 500))

	record := entities.LinkedRecord{
		ID:          gofakeit.Int64(),
		Kind:        "receipt",
		Date:        &date,
		Amount:      &amount,
		Description: gofakeit.Company(),
		Currency:    "EUR",
		CreatedBy:   gofakeit.Int64(),
		Archived:    false,
		CreatedAt:   now,
	}

	return RecordStub{record: record}
}

func (rs RecordStub) WithID(id int64) RecordStub {
	rs.record.ID = id
	return rs
}

func (rs RecordStub) WithKind(kind string) RecordStub {
	rs.record.Kind = kind
	return rs
}

func (rs RecordStub) WithDate(date time.Time) RecordStub {
	rs.record.Date = &date
	return rs
}

func (rs RecordStub) WithoutDate() RecordStub {
	rs.record.Date = nil
	return rs
}

func (rs RecordStub) WithAmount(amount decimal.Decimal) RecordStub {
	rs.record.Amount = &amount
	return rs
}

func (rs RecordStub) WithoutAmount() RecordStub {
	rs.record.Amount = nil
	return rs
}

func (rs RecordStub) WithDescription(description string) RecordStub {
	rs.record.Description = description
	return rs
}

func (rs RecordStub) WithCurrency(currency string) RecordStub {
	rs.record.Currency = currency
	return rs
}

func (rs RecordStub) WithStatus(status string) RecordStub {
	rs.record.Status = status
	return rs
}

func (rs RecordStub) WithCreatedBy(createdBy int64) RecordStub {
	rs.record.CreatedBy = createdBy
	return rs
}

func (rs RecordStub) WithItems(items any) RecordStub {
	itemsJSON, _ := json.Marshal(items)
	rs.record.Items = itemsJSON
	return rs
}

func (rs RecordStub) WithRawItems(raw string) RecordStub {
	rs.record.Items = json.RawMessage(raw)
	return rs
}

func (rs RecordStub) WithArchived(archived bool) RecordStub {
	rs.record.Archived = archived
	return rs
}

func (rs RecordStub) WithCreatedAt(createdAt time.Time) RecordStub {
	rs.record.CreatedAt = createdAt
	return rs
}

func (rs RecordStub) Get() entities.LinkedRecord {
	return rs.record
}
