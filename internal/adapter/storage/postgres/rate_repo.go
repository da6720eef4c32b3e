package postgres

import (
	"context"
	"errors"
	"fmt"

	"multibank/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

// RateRepo implements ports.RateRepository. Rows form a time series; only
// the newest is authoritative.
type RateRepo struct {
	pool Pool
}

// NewRateRepo creates a new RateRepo.
func NewRateRepo(pool Pool) *RateRepo {
	return &RateRepo{pool: pool}
}

// Insert persists a snapshot and returns it with its assigned id.
func (r *RateRepo) Insert(ctx context.Context, rate *domain.ExchangeRate) (*domain.ExchangeRate, error) {
	query := `INSERT INTO exchange_rates (usd_to_uah, btc_to_usd, eth_to_usd, updated_at)
		VALUES ($1, $2, $3, $4) RETURNING id`

	out := *rate
	err := r.pool.QueryRow(ctx, query,
		rate.USDToUAH, rate.BTCToUSD, rate.ETHToUSD, rate.ObservedAt,
	).Scan(&out.ID)
	if err != nil {
		return nil, fmt.Errorf("insert exchange rate: %w", err)
	}
	return &out, nil
}

// GetLatest returns the newest snapshot by observation timestamp, nil when
// no snapshot has ever been persisted.
func (r *RateRepo) GetLatest(ctx context.Context) (*domain.ExchangeRate, error) {
	query := `SELECT id, usd_to_uah, btc_to_usd, eth_to_usd, updated_at
		FROM exchange_rates ORDER BY updated_at DESC, id DESC LIMIT 1`

	rate := &domain.ExchangeRate{}
	err := r.pool.QueryRow(ctx, query).Scan(
		&rate.ID, &rate.USDToUAH, &rate.BTCToUSD, &rate.ETHToUSD, &rate.ObservedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get latest exchange rate: %w", err)
	}
	return rate, nil
}
