package postgres

import (
	"context"
	"errors"
	"fmt"

	"multibank/internal/core/domain"

	"github.com/jackc/pgx/v5"
)

const txColumns = `id, reference_id, from_card_id, to_card_id, amount, converted_amount,
		type, status, description, from_card_number, to_card_number, wallet, created_at`

// TransactionRepo implements ports.TransactionRepository. The table is
// append-only: no UPDATE or DELETE statements exist in this package.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a ledger row within a database transaction and fills in
// the assigned id.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	query := `INSERT INTO transactions
		(reference_id, from_card_id, to_card_id, amount, converted_amount,
		 type, status, description, from_card_number, to_card_number, wallet, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id`

	err := tx.QueryRow(ctx, query,
		txn.ReferenceID, txn.FromCardID, txn.ToCardID,
		txn.Amount, txn.ConvertedAmount,
		txn.Kind, txn.Status, txn.Description,
		txn.FromCardNumber, txn.ToCardNumber, txn.Wallet, txn.CreatedAt,
	).Scan(&txn.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// GetByID fetches a ledger row by id.
func (r *TransactionRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	query := `SELECT ` + txColumns + ` FROM transactions WHERE id = $1`

	txn := &domain.Transaction{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&txn.ID, &txn.ReferenceID, &txn.FromCardID, &txn.ToCardID,
		&txn.Amount, &txn.ConvertedAmount, &txn.Kind, &txn.Status,
		&txn.Description, &txn.FromCardNumber, &txn.ToCardNumber,
		&txn.Wallet, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transaction by id: %w", err)
	}
	return txn, nil
}

// ListByCard returns rows where the card is source or destination, newest
// first, plus the total count for pagination.
func (r *TransactionRepo) ListByCard(ctx context.Context, cardID int64, page, pageSize int) ([]domain.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	var total int64
	countQuery := `SELECT COUNT(*) FROM transactions WHERE from_card_id = $1 OR to_card_id = $1`
	if err := r.pool.QueryRow(ctx, countQuery, cardID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	query := `SELECT ` + txColumns + ` FROM transactions
		WHERE from_card_id = $1 OR to_card_id = $1
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, cardID, pageSize, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var txn domain.Transaction
		if err := rows.Scan(
			&txn.ID, &txn.ReferenceID, &txn.FromCardID, &txn.ToCardID,
			&txn.Amount, &txn.ConvertedAmount, &txn.Kind, &txn.Status,
			&txn.Description, &txn.FromCardNumber, &txn.ToCardNumber,
			&txn.Wallet, &txn.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate transactions: %w", err)
	}

	return txns, total, nil
}
