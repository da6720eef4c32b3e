package postgres

import (
	"context"
	"errors"
	"fmt"

	"multibank/internal/core/domain"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

const userColumns = `id, username, password_hash, is_regulator, regulator_balance, created_at`

// UserRepo implements ports.UserRepository.
type UserRepo struct {
	pool Pool
}

// NewUserRepo creates a new UserRepo.
func NewUserRepo(pool Pool) *UserRepo {
	return &UserRepo{pool: pool}
}

func scanUser(row pgx.Row) (*domain.User, error) {
	u := &domain.User{}
	err := row.Scan(
		&u.ID, &u.Username, &u.PasswordHash,
		&u.IsRegulator, &u.RegulatorBalance, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return u, nil
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	u, err := scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get user by id: %w", err)
	}
	return u, nil
}

// GetRegulator fetches the single regulator-flagged user, nil when absent.
func (r *UserRepo) GetRegulator(ctx context.Context) (*domain.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE is_regulator = TRUE LIMIT 1`

	u, err := scanUser(r.pool.QueryRow(ctx, query))
	if err != nil {
		return nil, fmt.Errorf("get regulator: %w", err)
	}
	return u, nil
}

// CreditRegulatorBalance adds a BTC-denominated commission to the regulator
// balance within a transaction.
func (r *UserRepo) CreditRegulatorBalance(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal) error {
	query := `UPDATE users SET regulator_balance = regulator_balance + $1
		WHERE id = $2 AND is_regulator = TRUE`

	tag, err := tx.Exec(ctx, query, amount, userID)
	if err != nil {
		return fmt.Errorf("credit regulator balance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("regulator user not found: %d", userID)
	}
	return nil
}
