package ports

import (
	"context"
)

// UnitOfWorkFactory creates a fresh UnitOfWork per command, keeping
// concurrent operations isolated from each other.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is a business transaction boundary. Handlers call Begin, do
// their work through the bound repositories, and Commit; a deferred Rollback
// covers every early return.
type UnitOfWork interface {
	// Begin starts a new database transaction.
	Begin(ctx context.Context) error

	// Commit commits the current transaction.
	Commit(ctx context.Context) error

	// Rollback rolls back the current transaction. Calling it after a
	// successful Commit is a no-op.
	Rollback(ctx context.Context) error

	// OrderRepository returns an OrderRepository bound to the transaction.
	OrderRepository() OrderRepository

	// CourierRepository returns a CourierRepository bound to the transaction.
	CourierRepository() CourierRepository

	// EscrowRepository returns an EscrowRepository bound to the transaction.
	EscrowRepository() EscrowRepository

	// TrackingRepository returns a TrackingRepository bound to the transaction.
	TrackingRepository() TrackingRepository
}
