// Package escrowrepo persists escrow records and their append-only
// transaction ledger. Terminal transitions go through a conditional status
// update so the sweep and an explicit caller can never both settle the same
// escrow.
package escrowrepo

import (
	"time"

	"fastdispatch/internal/core/domain/model/escrow"
	"fastdispatch/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// EscrowDTO is the database row for one order's held funds.
type EscrowDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	PayerID     uuid.UUID `gorm:"type:uuid;not null"`
	PayeeID     uuid.UUID `gorm:"type:uuid;not null"`
	AmountCents int64     `gorm:"not null"`
	Status      string    `gorm:"type:varchar(16);not null;index"`
	ReleasedAt  *time.Time
	RefundedAt  *time.Time
	DisputedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName overrides GORM's default naming to use "escrows".
func (EscrowDTO) TableName() string {
	return "escrows"
}

// TransactionDTO is one immutable ledger row.
type TransactionDTO struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey"`
	EscrowID       uuid.UUID `gorm:"type:uuid;not null;index"`
	OrderID        uuid.UUID `gorm:"type:uuid;not null;index"`
	CounterpartyID uuid.UUID `gorm:"type:uuid;not null"`
	AmountCents    int64     `gorm:"not null"`
	Kind           string    `gorm:"type:varchar(16);not null"`
	CreatedAt      time.Time
}

// TableName overrides GORM's default naming to use "escrow_transactions".
func (TransactionDTO) TableName() string {
	return "escrow_transactions"
}

func fromDomain(aggregate *escrow.Escrow) EscrowDTO {
	return EscrowDTO{
		ID:          aggregate.ID().Bytes(),
		OrderID:     aggregate.OrderID().Bytes(),
		PayerID:     aggregate.Payer().Bytes(),
		PayeeID:     aggregate.Payee().Bytes(),
		AmountCents: aggregate.Amount().Cents(),
		Status:      aggregate.Status().String(),
		ReleasedAt:  aggregate.ReleasedAt(),
		RefundedAt:  aggregate.RefundedAt(),
		DisputedAt:  aggregate.DisputedAt(),
	}
}

// updateColumns lists the mutable columns. Identity and amount never change
// after creation.
func (dto EscrowDTO) updateColumns() map[string]any {
	return map[string]any{
		"status":      dto.Status,
		"released_at": dto.ReleasedAt,
		"refunded_at": dto.RefundedAt,
		"disputed_at": dto.DisputedAt,
	}
}

func transactionFromDomain(tx *escrow.Transaction) TransactionDTO {
	return TransactionDTO{
		ID:             tx.ID().Bytes(),
		EscrowID:       tx.EscrowID().Bytes(),
		OrderID:        tx.OrderID().Bytes(),
		CounterpartyID: tx.Counterparty().Bytes(),
		AmountCents:    tx.Amount().Cents(),
		Kind:           tx.Kind().String(),
		CreatedAt:      tx.CreatedAt(),
	}
}

func toDomain(dto EscrowDTO) (*escrow.Escrow, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	orderID, err := kernel.UUIDFromBytes(dto.OrderID[:])
	if err != nil {
		return nil, err
	}
	payerID, err := kernel.UUIDFromBytes(dto.PayerID[:])
	if err != nil {
		return nil, err
	}
	payeeID, err := kernel.UUIDFromBytes(dto.PayeeID[:])
	if err != nil {
		return nil, err
	}
	amount, err := kernel.NewMoneyFromCents(dto.AmountCents)
	if err != nil {
		return nil, err
	}
	status, err := escrow.StatusFromString(dto.Status)
	if err != nil {
		return nil, err
	}

	return escrow.RestoreEscrow(id, orderID, payerID, payeeID, amount, status,
		dto.ReleasedAt, dto.RefundedAt, dto.DisputedAt)
}
