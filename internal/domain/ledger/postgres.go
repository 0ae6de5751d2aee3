package ledger

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// PgxPool is the subset of pgxpool.Pool the repository needs. Declared
// here so tests can substitute a pgxmock pool.
type PgxPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PostgresRepository implements Repository on a Postgres ledger table.
type PostgresRepository struct {
	pool PgxPool
}

// NewPostgresRepository creates a new Postgres-backed ledger repository.
func NewPostgresRepository(pool PgxPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// Load returns all stored records ordered by snapshot position.
func (r *PostgresRepository) Load(ctx context.Context) ([]Record, error) {
	query := `
		SELECT record_date, description, category, amount, kind, source, line_items
		FROM ledger
		ORDER BY position`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load ledger: %w", err)
	}
	defer rows.Close()

	records := make([]Record, 0)
	for rows.Next() {
		var rec Record
		var kind, lineItems string
		if err := rows.Scan(&rec.Date, &rec.Description, &rec.Category, &rec.Amount, &kind, &rec.Source, &lineItems); err != nil {
			return nil, fmt.Errorf("failed to scan ledger row: %w", err)
		}
		rec.Kind = Kind(kind)
		rec.LineItems = LineItemsFromJSON(lineItems)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read ledger rows: %w", err)
	}
	return records, nil
}

// Replace overwrites the whole ledger in one transaction: delete all
// rows, then insert the new snapshot with fresh positions.
func (r *PostgresRepository) Replace(ctx context.Context, records []Record) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin ledger replace: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM ledger`); err != nil {
		return fmt.Errorf("failed to clear ledger: %w", err)
	}

	insert := `
		INSERT INTO ledger (position, record_date, description, category, amount, kind, source, line_items)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i, rec := range records {
		if _, err := tx.Exec(ctx, insert,
			i,
			rec.Date,
			rec.Description,
			rec.Category,
			rec.Amount,
			string(rec.Kind),
			rec.Source,
			rec.LineItemsJSON(),
		); err != nil {
			return fmt.Errorf("failed to insert ledger row %d: %w", i, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit ledger replace: %w", err)
	}
	return nil
}
