package ledger

import "context"

// Repository is the persistence surface for the ledger. The store is a
// single shared table with full-overwrite semantics: Load reads every
// row, Replace rewrites the whole ledger. This is safe only under a
// single concurrent writer; two sessions replacing at once can silently
// drop each other's appends.
type Repository interface {
	// Load returns all stored records in snapshot order.
	Load(ctx context.Context) ([]Record, error)

	// Replace overwrites the entire ledger with the given records.
	Replace(ctx context.Context, records []Record) error
}
