package ports

import (
	"context"
	"time"

	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"
)

// EscrowRepository is the persistence contract for escrow records and their
// transaction ledger.
type EscrowRepository interface {
	// Add persists a new escrow record.
	Add(ctx context.Context, aggregate *escrow.Escrow) error

	// UpdateIfStatus persists the escrow only if the stored row is still in
	// the expected status. Returns ErrStateConflict when another writer
	// resolved the escrow first.
	UpdateIfStatus(ctx context.Context, aggregate *escrow.Escrow, expected escrow.Status) error

	// Get retrieves an escrow record by its identifier.
	Get(ctx context.Context, id kernel.UUID) (*escrow.Escrow, error)

	// GetByOrder retrieves the escrow record attached to an order.
	// Returns ErrObjectNotFound when the order has no escrow.
	GetByOrder(ctx context.Context, orderID kernel.UUID) (*escrow.Escrow, error)

	// GetDueForRelease returns held escrows whose order was delivered and
	// whose confirmation deadline has passed. Disputed, released, and
	// refunded escrows are never returned, which makes the release sweep
	// naturally idempotent.
	GetDueForRelease(ctx context.Context, now time.Time) ([]*escrow.Escrow, error)

	// AddTransaction appends an entry to the escrow transaction ledger.
	AddTransaction(ctx context.Context, tx *escrow.Transaction) error
}
