package escrow

import (
	"errors"
	"fmt"
	"time"

	"fastdispatch/internal/core/domain/model/kernel"
	"fastdispatch/internal/pkg/errs"
)

// TransactionKind distinguishes ledger entries by direction.
type TransactionKind int

const (
	// TransactionUnknown represents an invalid or undefined kind.
	TransactionUnknown TransactionKind = iota

	// TransactionCredit credits the payee on release.
	TransactionCredit

	// TransactionRefund returns funds to the payer.
	TransactionRefund
)

// String returns the persistence name of the kind.
func (k TransactionKind) String() string {
	switch k {
	case TransactionCredit:
		return "CREDIT"
	case TransactionRefund:
		return "REFUND"
	default:
		return "UNKNOWN"
	}
}

// Validate checks the kind is one of the defined values.
func (k TransactionKind) Validate() error {
	if k != TransactionCredit && k != TransactionRefund {
		return errs.NewValueIsInvalidErrorWithCause("transaction kind",
			fmt.Errorf("%d is not a valid transaction kind", k))
	}
	return nil
}

// Transaction is one append-only ledger entry recording the movement of
// escrowed funds. Exactly one entry is written per terminal escrow
// transition; the conditional status update that precedes it guarantees no
// duplicates even when the sweep and an explicit release race.
type Transaction struct {
	id            kernel.UUID
	escrowID      kernel.UUID
	orderID       kernel.UUID
	counterparty  kernel.UUID
	amount        kernel.Money
	kind          TransactionKind
	createdAt     time.Time
	isConstructed bool
}

// NewTransaction creates a ledger entry. The counterparty is the payee for a
// credit and the payer for a refund.
func NewTransaction(
	id, escrowID, orderID, counterparty kernel.UUID,
	amount kernel.Money,
	kind TransactionKind,
	at time.Time,
) (*Transaction, error) {
	if err := errors.Join(
		id.Validate(),
		escrowID.Validate(),
		orderID.Validate(),
		counterparty.Validate(),
		kind.Validate(),
	); err != nil {
		return nil, err
	}
	if amount.IsZero() {
		return nil, errs.NewValueIsRequiredError("transaction amount")
	}

	return &Transaction{
		id:            id,
		escrowID:      escrowID,
		orderID:       orderID,
		counterparty:  counterparty,
		amount:        amount,
		kind:          kind,
		createdAt:     at.UTC(),
		isConstructed: true,
	}, nil
}

// Validate ensures the Transaction was created through NewTransaction.
func (t *Transaction) Validate() error {
	if t == nil || !t.isConstructed {
		return errors.New("Transaction must be created via NewTransaction")
	}
	return nil
}

// ID returns the ledger entry identifier.
func (t *Transaction) ID() kernel.UUID { return t.id }

// EscrowID returns the escrow this entry settles.
func (t *Transaction) EscrowID() kernel.UUID { return t.escrowID }

// OrderID returns the related order.
func (t *Transaction) OrderID() kernel.UUID { return t.orderID }

// Counterparty returns the credited or refunded party.
func (t *Transaction) Counterparty() kernel.UUID { return t.counterparty }

// Amount returns the moved amount.
func (t *Transaction) Amount() kernel.Money { return t.amount }

// Kind returns the entry direction.
func (t *Transaction) Kind() TransactionKind { return t.kind }

// CreatedAt returns when the entry was recorded.
func (t *Transaction) CreatedAt() time.Time { return t.createdAt }
