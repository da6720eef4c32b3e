package postgres

import (
	"context"
	"errors"
	"fmt"

	"multibank/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const cardColumns = `id, user_id, type, number, balance, btc_balance, eth_balance, btc_address, eth_address, created_at`

// CardRepo implements ports.CardRepository.
type CardRepo struct {
	pool Pool
}

// NewCardRepo creates a new CardRepo.
func NewCardRepo(pool Pool) *CardRepo {
	return &CardRepo{pool: pool}
}

func scanCard(row pgx.Row) (*domain.Card, error) {
	c := &domain.Card{}
	err := row.Scan(
		&c.ID, &c.UserID, &c.Type, &c.Number,
		&c.Balance, &c.BTCBalance, &c.ETHBalance,
		&c.BTCAddress, &c.ETHAddress, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

// GetByID fetches a card by id (without locking).
func (r *CardRepo) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1`

	c, err := scanCard(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get card by id: %w", err)
	}
	return c, nil
}

// GetByNumberOrAddress resolves a destination identifier. Fiat cards are
// addressed by card number; crypto cards by their BTC or ETH address.
func (r *CardRepo) GetByNumberOrAddress(ctx context.Context, identifier string) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards
		WHERE number = $1 OR btc_address = $1 OR eth_address = $1`

	c, err := scanCard(r.pool.QueryRow(ctx, query, identifier))
	if err != nil {
		return nil, fmt.Errorf("get card by identifier: %w", err)
	}
	return c, nil
}

// GetByIDForUpdate fetches a card by id with pessimistic locking.
// This MUST be called within a transaction.
func (r *CardRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE id = $1 FOR UPDATE`

	c, err := scanCard(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get card for update: %w", err)
	}
	return c, nil
}

// GetByUserIDAndType fetches a user's card of the given asset class.
func (r *CardRepo) GetByUserIDAndType(ctx context.Context, userID int64, cardType domain.CardType) (*domain.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM cards WHERE user_id = $1 AND type = $2`

	c, err := scanCard(r.pool.QueryRow(ctx, query, userID, cardType))
	if err != nil {
		return nil, fmt.Errorf("get card by user and type: %w", err)
	}
	return c, nil
}

// UpdateBalance writes a fiat card's balance within a transaction.
func (r *CardRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error {
	return r.updateBalanceColumn(ctx, tx, "balance", cardID, balance)
}

// UpdateBTCBalance writes a crypto card's BTC sub-balance within a transaction.
func (r *CardRepo) UpdateBTCBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error {
	return r.updateBalanceColumn(ctx, tx, "btc_balance", cardID, balance)
}

// UpdateETHBalance writes a crypto card's ETH sub-balance within a transaction.
func (r *CardRepo) UpdateETHBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error {
	return r.updateBalanceColumn(ctx, tx, "eth_balance", cardID, balance)
}

func (r *CardRepo) updateBalanceColumn(ctx context.Context, tx pgx.Tx, column string, cardID int64, balance decimal.Decimal) error {
	if balance.IsNegative() {
		return fmt.Errorf("refusing negative %s write for card %d", column, cardID)
	}
	query := fmt.Sprintf(`UPDATE cards SET %s = $1 WHERE id = $2`, column)

	tag, err := tx.Exec(ctx, query, balance, cardID)
	if err != nil {
		return fmt.Errorf("update card %s: %w", column, err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("card not found: %d", cardID)
	}
	return nil
}
