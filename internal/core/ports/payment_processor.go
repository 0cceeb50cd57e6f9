package ports

import (
	"context"

	"fastdispatch/internal/core/domain/model/kernel"
)

// PaymentProcessor is the gateway to the card processor. All failures are
// surfaced as ErrExternalService so handlers can distinguish them from
// domain rejections.
type PaymentProcessor interface {
	// Initialize opens a checkout session for an order and returns the
	// authorization URL the customer completes payment on.
	Initialize(ctx context.Context, reference, email string, amount kernel.Money) (string, error)

	// Verify checks whether the referenced charge succeeded and returns the
	// amount the processor actually settled.
	Verify(ctx context.Context, reference string) (kernel.Money, error)

	// Payout transfers released funds to the payee's settlement account.
	Payout(ctx context.Context, payeeID kernel.UUID, amount kernel.Money, reason string) error
}
