// Package order contains the Order aggregate: the source of truth for the
// delivery lifecycle. The Status value object defines the legal transition
// graph; the aggregate layers actor authorization on top so that every
// mutation is guarded twice: wrong actor fails with a forbidden error,
// illegal transition with a state conflict. Either failure leaves the
// aggregate untouched.
package order
