package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind classifies a ledger row.
type TransactionKind string

const (
	// TransactionKindTransfer is a cross-user value movement.
	TransactionKindTransfer TransactionKind = "transfer"
	// TransactionKindCommission is the fee row routed to the regulator.
	TransactionKindCommission TransactionKind = "commission"
	// TransactionKindExchange is a movement between two cards of one user.
	TransactionKindExchange TransactionKind = "exchange"
)

// TransactionStatus is the terminal state of a ledger row. Rows are written
// only after the enclosing database transaction commits, so every persisted
// row is completed.
type TransactionStatus string

const (
	TransactionStatusCompleted TransactionStatus = "completed"
	TransactionStatusFailed    TransactionStatus = "failed"
)

// Transaction is an immutable audit record of one balance-affecting event.
// ToCardID is nil for external crypto-address destinations; Wallet then
// carries the destination address.
type Transaction struct {
	ID              int64             `json:"id"`
	ReferenceID     string            `json:"reference_id"`
	FromCardID      int64             `json:"from_card_id"`
	ToCardID        *int64            `json:"to_card_id,omitempty"`
	Amount          decimal.Decimal   `json:"amount"`           // source-asset units
	ConvertedAmount decimal.Decimal   `json:"converted_amount"` // destination-asset units
	Kind            TransactionKind   `json:"kind"`
	Status          TransactionStatus `json:"status"`
	Description     string            `json:"description"`
	FromCardNumber  string            `json:"from_card_number"`
	ToCardNumber    string            `json:"to_card_number,omitempty"`
	Wallet          string            `json:"wallet,omitempty"`
	CreatedAt       time.Time         `json:"created_at"`
}

// IsExternal reports whether the row settled to an address outside the ledger.
func (t *Transaction) IsExternal() bool {
	return t.ToCardID == nil && t.Wallet != ""
}
