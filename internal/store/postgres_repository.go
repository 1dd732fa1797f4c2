/**
 * @description
 * Read-only Postgres source for demo transactions. Used instead of the built-in
 * data set when DATABASE_URL is configured.
 *
 * @dependencies
 * - github.com/jackc/pgx/v5/pgxpool
 */
package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/sufyan123ayaz/Bank-Clone/internal/domain"
)

// PostgresRepository reads display records from the demo_transactions table.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository creates a new repository.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListTransactions fetches every demo record, newest first.
func (r *PostgresRepository) ListTransactions(ctx context.Context) ([]domain.TransactionRecord, error) {
	query := `
        SELECT id, description, amount::text, direction, status, occurred_at, recipient
        FROM demo_transactions
        ORDER BY occurred_at DESC, id
    `
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query demo transactions: %w", err)
	}
	defer rows.Close()

	var records []domain.TransactionRecord
	for rows.Next() {
		rec, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate demo transactions: %w", err)
	}

	return records, nil
}

// scanTransaction reads one demo_transactions row. The amount arrives as text
// so that numeric precision survives into decimal.
func scanTransaction(row pgx.Row) (domain.TransactionRecord, error) {
	var (
		rec    domain.TransactionRecord
		amount string
	)
	if err := row.Scan(&rec.ID, &rec.Description, &amount, &rec.Direction, &rec.Status, &rec.Timestamp, &rec.Recipient); err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("scan demo transaction: %w", err)
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return domain.TransactionRecord{}, fmt.Errorf("parse amount of demo transaction %s: %w", rec.ID, err)
	}
	rec.Amount = parsed
	rec.Timestamp = rec.Timestamp.UTC()
	return rec, nil
}
