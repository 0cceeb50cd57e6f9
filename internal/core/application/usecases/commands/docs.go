// Package commands contains the write operations of the engine, one
// command/handler pair per business operation. Every handler follows the same
// shape: validate the command, open a unit of work, load aggregates, apply
// domain methods, persist through a status-guarded update, commit, and only
// then fan out realtime notifications. A deferred Rollback covers every early
// return; after a successful Commit it is a no-op.
//
// Lost races surface as ErrStateConflict from the guarded updates and are
// returned to the caller unwrapped, so transports can map them uniformly.
package commands
