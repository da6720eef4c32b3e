package ports

import (
	"context"

	"multibank/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// CardRepository defines persistence operations for cards.
// Methods accepting pgx.Tx are used inside transaction blocks so the
// sufficiency check and the balance write share one row lock.
type CardRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Card, error)
	// GetByNumberOrAddress resolves a destination identifier: the fiat card
	// number field or, for crypto cards, the BTC/ETH address fields.
	GetByNumberOrAddress(ctx context.Context, identifier string) (*domain.Card, error)
	GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Card, error)
	GetByUserIDAndType(ctx context.Context, userID int64, cardType domain.CardType) (*domain.Card, error)
	UpdateBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error
	UpdateBTCBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error
	UpdateETHBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error
}

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	// GetRegulator returns the single regulator-flagged user, or nil when
	// none is provisioned.
	GetRegulator(ctx context.Context) (*domain.User, error)
	// CreditRegulatorBalance adds a BTC-denominated commission to the
	// regulator's accumulated balance inside a transaction.
	CreditRegulatorBalance(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal) error
}

// RateRepository persists exchange-rate snapshots. Insert keeps a time
// series; GetLatest returns the newest row by observation timestamp.
type RateRepository interface {
	Insert(ctx context.Context, rate *domain.ExchangeRate) (*domain.ExchangeRate, error)
	GetLatest(ctx context.Context) (*domain.ExchangeRate, error)
}

// TransactionRepository is the append-only ledger. No update or delete
// operations exist; corrections would be new compensating rows.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error
	GetByID(ctx context.Context, id int64) (*domain.Transaction, error)
	// ListByCard returns rows where the card is source or destination,
	// newest first, with the total row count for pagination.
	ListByCard(ctx context.Context, cardID int64, page, pageSize int) ([]domain.Transaction, int64, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
