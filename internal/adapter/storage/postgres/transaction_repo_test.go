package postgres

import (
	"context"
	"testing"
	"time"

	"multibank/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func txRowColumns() []string {
	return []string{"id", "reference_id", "from_card_id", "to_card_id", "amount", "converted_amount",
		"type", "status", "description", "from_card_number", "to_card_number", "wallet", "created_at"}
}

func newTestTransaction() *domain.Transaction {
	destID := int64(2)
	return &domain.Transaction{
		ReferenceID:     uuid.New().String(),
		FromCardID:      1,
		ToCardID:        &destID,
		Amount:          decimal.RequireFromString("100.00"),
		ConvertedAmount: decimal.RequireFromString("4050.00"),
		Kind:            domain.TransactionKindTransfer,
		Status:          domain.TransactionStatusCompleted,
		Description:     "Transfer 100.00 USD -> 4050.00 UAH",
		FromCardNumber:  "4441111122223333",
		ToCardNumber:    "4442222233334444",
		CreatedAt:       time.Now().UTC().Truncate(time.Microsecond),
	}
}

func txRow(txn *domain.Transaction, id int64) *pgxmock.Rows {
	return pgxmock.NewRows(txRowColumns()).AddRow(
		id, txn.ReferenceID, txn.FromCardID, txn.ToCardID,
		txn.Amount, txn.ConvertedAmount, txn.Kind, txn.Status,
		txn.Description, txn.FromCardNumber, txn.ToCardNumber,
		txn.Wallet, txn.CreatedAt,
	)
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO transactions").
		WithArgs(txn.ReferenceID, txn.FromCardID, txn.ToCardID,
			txn.Amount, txn.ConvertedAmount, txn.Kind, txn.Status,
			txn.Description, txn.FromCardNumber, txn.ToCardNumber,
			txn.Wallet, txn.CreatedAt).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(11)))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	require.NoError(t, err)
	assert.Equal(t, int64(11), txn.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(int64(11)).
		WillReturnRows(txRow(txn, 11))

	result, err := repo.GetByID(context.Background(), 11)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, txn.ReferenceID, result.ReferenceID)
	assert.True(t, result.Amount.Equal(txn.Amount))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_GetByID_NotFound(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE id").
		WithArgs(int64(404)).
		WillReturnRows(pgxmock.NewRows(txRowColumns()))

	result, err := repo.GetByID(context.Background(), 404)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByCard(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransaction()

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(25)))
	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(int64(1), 20, 0).
		WillReturnRows(txRow(txn, 11))

	txns, total, err := repo.ListByCard(context.Background(), 1, 1, 20)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)
	require.Len(t, txns, 1)
	assert.Equal(t, int64(11), txns[0].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByCard_ClampsPagination(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)

	mock.ExpectQuery("SELECT COUNT").
		WithArgs(int64(1)).
		WillReturnRows(pgxmock.NewRows([]string{"count"}).AddRow(int64(0)))
	// page -3 and page_size 9999 collapse to the defaults.
	mock.ExpectQuery("SELECT .+ FROM transactions").
		WithArgs(int64(1), 20, 0).
		WillReturnRows(pgxmock.NewRows(txRowColumns()))

	txns, total, err := repo.ListByCard(context.Background(), 1, -3, 9999)
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, txns)
	assert.NoError(t, mock.ExpectationsWereMet())
}
