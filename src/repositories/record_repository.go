package repositories

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/Jalez/resident-committee-portal-sub005/src/domain"
	"github.com/Jalez/resident-committee-portal-sub005/src/domain/entities"
	"github.com/Jalez/resident-committee-portal-sub005/src/infra/postgres"
)

// RecordRepository projects each kind's own table onto the narrow
// LinkedRecord shape the relationship core may read. Every query selects
// the same column list, with NULL or constant fills for columns a kind
// does not have, so one scanner serves all thirteen kinds.
type RecordRepository struct {
	pool *pgxpool.Pool
}

func NewRecordRepository(pool *pgxpool.Pool) *RecordRepository {
	return &RecordRepository{pool: pool}
}

const recordColumns = "id, kind, date, amount::text, description, currency, status, created_by, items, archived, created_at"

// recordSources maps each kind to the SELECT producing its unified
// projection. Mail is a union of drafts, inbox and sent: the same message
// can appear in more than one of those, so bulk results may carry
// duplicates and the loader dedups by id.
var recordSources = map[domain.EntityKind]string{
	domain.KindReceipt: `
		SELECT id, 'receipt' AS kind, purchase_date AS date, total_amount AS amount,
			store_name AS description, currency, NULL AS status, created_by, items,
			archived, created_at
		FROM receipts`,
	domain.KindTransaction: `
		SELECT id, 'transaction' AS kind, date, amount,
			description, NULL AS currency, status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM transactions`,
	domain.KindReimbursement: `
		SELECT id, 'reimbursement' AS kind, NULL::timestamptz AS date, amount,
			description, NULL AS currency, status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM reimbursements`,
	domain.KindBudget: `
		SELECT id, 'budget' AS kind, NULL::timestamptz AS date, allocated_amount AS amount,
			name AS description, NULL AS currency, NULL AS status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM budgets`,
	domain.KindInventory: `
		SELECT id, 'inventory' AS kind, acquired_at AS date, purchase_price AS amount,
			name AS description, NULL AS currency, NULL AS status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM inventory_items`,
	domain.KindMinute: `
		SELECT id, 'minute' AS kind, meeting_date AS date, NULL::numeric AS amount,
			title AS description, NULL AS currency, status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM minutes`,
	domain.KindNews: `
		SELECT id, 'news' AS kind, published_at AS date, NULL::numeric AS amount,
			title AS description, NULL AS currency, status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM news`,
	domain.KindFAQ: `
		SELECT id, 'faq' AS kind, NULL::timestamptz AS date, NULL::numeric AS amount,
			question AS description, NULL AS currency, NULL AS status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM faqs`,
	domain.KindPoll: `
		SELECT id, 'poll' AS kind, closes_at AS date, NULL::numeric AS amount,
			title AS description, NULL AS currency, status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM polls`,
	domain.KindSocial: `
		SELECT id, 'social' AS kind, posted_at AS date, NULL::numeric AS amount,
			title AS description, NULL AS currency, NULL AS status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM social_posts`,
	domain.KindEvent: `
		SELECT id, 'event' AS kind, starts_at AS date, NULL::numeric AS amount,
			title AS description, NULL AS currency, status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM events`,
	domain.KindMail: `
		SELECT id, 'mail' AS kind, sent_at AS date, NULL::numeric AS amount,
			subject AS description, NULL AS currency, 'draft' AS status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM mails WHERE mailbox = 'drafts'
		UNION ALL
		SELECT id, 'mail' AS kind, sent_at AS date, NULL::numeric AS amount,
			subject AS description, NULL AS currency, 'received' AS status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM mails WHERE mailbox = 'inbox'
		UNION ALL
		SELECT id, 'mail' AS kind, sent_at AS date, NULL::numeric AS amount,
			subject AS description, NULL AS currency, 'sent' AS status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM mails WHERE mailbox = 'sent'`,
	domain.KindMailThread: `
		SELECT id, 'mail_thread' AS kind, last_message_at AS date, NULL::numeric AS amount,
			subject AS description, NULL AS currency, NULL AS status, created_by, NULL::jsonb AS items,
			archived, created_at
		FROM mail_threads`,
}

// GetRecord fetches one record of the given kind.
func (rp *RecordRepository) GetRecord(ctx context.Context, kind domain.EntityKind, id int64) (*entities.LinkedRecord, error) {
	source, ok := recordSources[kind]
	if !ok {
		return nil, fmt.Errorf("RecordRepository.GetRecord - %q: %w", kind, domain.ErrUnknownEntityKind)
	}

	query := fmt.Sprintf("SELECT %s FROM (%s) r WHERE r.id = $1 LIMIT 1;", recordColumns, source)

	record, err := scanRecord(rp.pool.QueryRow(ctx, query, id))
	if err != nil {
		if postgres.IsNoRows(err) {
			return nil, fmt.Errorf("RecordRepository.GetRecord - %s %d: %w", kind, id, domain.ErrRecordNotFound)
		}
		return nil, fmt.Errorf("RecordRepository.GetRecord - query failed for %s %d: %w", kind, id, err)
	}

	return record, nil
}

// ListRecords returns every non-archived record of the kind. No dedup:
// overlapping mail sources are resolved by the caller.
func (rp *RecordRepository) ListRecords(ctx context.Context, kind domain.EntityKind) ([]entities.LinkedRecord, error) {
	source, ok := recordSources[kind]
	if !ok {
		return nil, fmt.Errorf("RecordRepository.ListRecords - %q: %w", kind, domain.ErrUnknownEntityKind)
	}

	query := fmt.Sprintf("SELECT %s FROM (%s) r WHERE NOT r.archived ORDER BY r.created_at DESC;", recordColumns, source)

	rows, err := rp.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("RecordRepository.ListRecords - query failed for %s: %w", kind, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

// ListReceiptsByYear backs the treasury bookkeeping page.
func (rp *RecordRepository) ListReceiptsByYear(ctx context.Context, year int) ([]entities.LinkedRecord, error) {
	source := recordSources[domain.KindReceipt]
	query := fmt.Sprintf(
		"SELECT %s FROM (%s) r WHERE NOT r.archived AND date_part('year', r.date) = $1 ORDER BY r.date ASC;",
		recordColumns, source,
	)

	rows, err := rp.pool.Query(ctx, query, year)
	if err != nil {
		return nil, fmt.Errorf("RecordRepository.ListReceiptsByYear - query failed for %d: %w", year, err)
	}
	defer rows.Close()

	return collectRecords(rows)
}

func collectRecords(rows pgx.Rows) ([]entities.LinkedRecord, error) {
	var records []entities.LinkedRecord
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, *record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}

	return records, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*entities.LinkedRecord, error) {
	var (
		record     entities.LinkedRecord
		amountText *string
		desc       *string
		currency   *string
		status     *string
	)

	err := row.Scan(
		&record.ID,
		&record.Kind,
		&record.Date,
		&amountText,
		&desc,
		&currency,
		&status,
		&record.CreatedBy,
		&record.Items,
		&record.Archived,
		&record.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if amountText != nil {
		amount, err := decimal.NewFromString(*amountText)
		if err == nil {
			record.Amount = &amount
		}
		// a non-numeric amount column contributes nothing, same as NULL
	}
	if desc != nil {
		record.Description = *desc
	}
	if currency != nil {
		record.Currency = *currency
	}
	if status != nil {
		record.Status = *status
	}

	return &record, nil
}
