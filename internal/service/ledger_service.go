package service

import (
	"context"

	"multibank/internal/core/domain"
	"multibank/internal/core/ports"
	"multibank/pkg/apperror"
	"multibank/pkg/retry"

	"github.com/rs/zerolog"
)

// LedgerServiceImpl implements ports.LedgerService over the append-only
// transaction history.
type LedgerServiceImpl struct {
	txRepo   ports.TransactionRepository
	cardRepo ports.CardRepository
	retryCfg retry.Config
	log      zerolog.Logger
}

// NewLedgerService creates a new LedgerServiceImpl.
func NewLedgerService(txRepo ports.TransactionRepository, cardRepo ports.CardRepository, retryCfg retry.Config, log zerolog.Logger) *LedgerServiceImpl {
	return &LedgerServiceImpl{txRepo: txRepo, cardRepo: cardRepo, retryCfg: retryCfg, log: log}
}

// History returns the card's ledger rows (as source or destination), newest
// first, plus the total count.
func (s *LedgerServiceImpl) History(ctx context.Context, cardID int64, page, pageSize int) ([]domain.Transaction, int64, error) {
	card, err := s.cardRepo.GetByID(ctx, cardID)
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(err)
	}
	if card == nil {
		return nil, 0, apperror.ErrCardNotFound(cardID)
	}

	var (
		txns  []domain.Transaction
		total int64
	)
	err = retry.Do(ctx, s.retryCfg, s.log, func(ctx context.Context) error {
		var opErr error
		txns, total, opErr = s.txRepo.ListByCard(ctx, cardID, page, pageSize)
		return opErr
	})
	if err != nil {
		return nil, 0, apperror.ErrDatabaseError(err)
	}
	return txns, total, nil
}
