package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"multibank/internal/core/domain"
	"multibank/internal/core/ports"
	"multibank/pkg/apperror"
	"multibank/pkg/retry"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// regulatorRef is the resolved regulator account, cached so transfers do not
// re-run the flag-filter query per call. Re-resolved on demand if stale.
type regulatorRef struct {
	user       *domain.User
	cryptoCard *domain.Card
}

// TransferServiceImpl implements ports.TransferService: the single
// authoritative operation for moving value between two accounts, with
// currency conversion and commission.
type TransferServiceImpl struct {
	cardRepo       ports.CardRepository
	userRepo       ports.UserRepository
	txRepo         ports.TransactionRepository
	rates          ports.RateProvider
	transactor     ports.DBTransactor
	commissionRate decimal.Decimal
	retryCfg       retry.Config
	log            zerolog.Logger

	regMu     sync.Mutex
	regulator *regulatorRef
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	cardRepo ports.CardRepository,
	userRepo ports.UserRepository,
	txRepo ports.TransactionRepository,
	rates ports.RateProvider,
	transactor ports.DBTransactor,
	commissionRate decimal.Decimal,
	retryCfg retry.Config,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		cardRepo:       cardRepo,
		userRepo:       userRepo,
		txRepo:         txRepo,
		rates:          rates,
		transactor:     transactor,
		commissionRate: commissionRate,
		retryCfg:       retryCfg,
		log:            log,
	}
}

// ResolveRegulator verifies the regulator account and its crypto card exist,
// caching the reference. Intended as a startup-time fatal check; Transfer
// re-resolves on demand if the cache is cold.
func (s *TransferServiceImpl) ResolveRegulator(ctx context.Context) error {
	_, err := s.regulatorAccount(ctx)
	return err
}

func (s *TransferServiceImpl) regulatorAccount(ctx context.Context) (*regulatorRef, error) {
	s.regMu.Lock()
	defer s.regMu.Unlock()
	if s.regulator != nil {
		return s.regulator, nil
	}

	var user *domain.User
	err := retry.Do(ctx, s.retryCfg, s.log, func(ctx context.Context) error {
		var opErr error
		user, opErr = s.userRepo.GetRegulator(ctx)
		return opErr
	})
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if user == nil {
		return nil, apperror.ErrRegulatorMissing()
	}

	var cryptoCard *domain.Card
	err = retry.Do(ctx, s.retryCfg, s.log, func(ctx context.Context) error {
		var opErr error
		cryptoCard, opErr = s.cardRepo.GetByUserIDAndType(ctx, user.ID, domain.CardTypeCrypto)
		return opErr
	})
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if cryptoCard == nil {
		return nil, apperror.ErrRegulatorMissing()
	}

	s.regulator = &regulatorRef{user: user, cryptoCard: cryptoCard}
	return s.regulator, nil
}

// transferPlan is everything resolved before the transactional section.
type transferPlan struct {
	source      *domain.Card
	dest        *domain.Card // nil for external address sends
	destAddress string       // set for external sends
	srcAsset    domain.Asset
	destAsset   domain.Asset
	amount      decimal.Decimal // source units, quantized
	converted   decimal.Decimal // destination units, quantized
	commission  decimal.Decimal // source units, quantized
	commBTC     decimal.Decimal // commission expressed in BTC
	kind        domain.TransactionKind
	regulator   *regulatorRef
}

// Transfer moves value from one card to a destination (card number, internal
// crypto address, or external crypto address), converting across assets with
// the latest rates and routing a commission to the regulator. All balance
// mutations and both ledger rows commit atomically or not at all.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	plan, err := s.plan(ctx, req)
	if err != nil {
		return nil, err
	}

	var txn *domain.Transaction
	err = retry.Do(ctx, s.retryCfg, s.log, func(ctx context.Context) error {
		var opErr error
		txn, opErr = s.execute(ctx, plan)
		return opErr
	})
	if err != nil {
		var appErr *apperror.AppError
		if errors.As(err, &appErr) {
			return nil, appErr
		}
		return nil, apperror.ErrDatabaseError(err)
	}

	s.log.Info().
		Str("reference_id", txn.ReferenceID).
		Int64("from_card", plan.source.ID).
		Str("destination", req.Destination).
		Str("amount", plan.amount.String()).
		Str("src_asset", string(plan.srcAsset)).
		Str("dest_asset", string(plan.destAsset)).
		Str("commission", plan.commission.String()).
		Msg("transfer completed")

	return txn, nil
}

// plan runs every precondition and computes all amounts. No mutation happens
// here; every rejection is a structured user-reportable error.
func (s *TransferServiceImpl) plan(ctx context.Context, req ports.TransferRequest) (*transferPlan, error) {
	if !req.Amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}

	source, err := s.getCard(ctx, req.FromCardID)
	if err != nil {
		return nil, err
	}
	if source == nil {
		return nil, apperror.ErrCardNotFound(req.FromCardID)
	}

	// A crypto card sending to one of its own addresses is a self-transfer.
	if _, ok := source.AssetForAddress(req.Destination); ok || source.Number == req.Destination {
		return nil, apperror.ErrSameAccount()
	}

	dest, destAddress, destAsset, err := s.resolveDestination(ctx, source, req.Destination)
	if err != nil {
		return nil, err
	}

	srcAsset, err := s.resolveSourceAsset(source, req.SourceAsset, destAsset)
	if err != nil {
		return nil, err
	}

	regulator, err := s.regulatorAccount(ctx)
	if err != nil {
		return nil, err
	}

	amount := srcAsset.Quantize(req.Amount)
	if !amount.IsPositive() {
		return nil, apperror.ErrInvalidAmount()
	}
	commission := srcAsset.Quantize(amount.Mul(s.commissionRate))

	converted := amount
	commBTC := commission
	if srcAsset != destAsset || srcAsset != domain.AssetBTC {
		rate, rateErr := s.rates.Latest(ctx)
		if rateErr != nil {
			return nil, rateErr
		}
		if converted, err = rate.Convert(amount, srcAsset, destAsset); err != nil {
			return nil, apperror.InternalError(err)
		}
		if commBTC, err = rate.Convert(commission, srcAsset, domain.AssetBTC); err != nil {
			return nil, apperror.InternalError(err)
		}
	} else {
		converted = destAsset.Quantize(converted)
		commBTC = domain.AssetBTC.Quantize(commBTC)
	}

	kind := domain.TransactionKindTransfer
	if dest != nil && dest.UserID == source.UserID {
		kind = domain.TransactionKindExchange
	}

	return &transferPlan{
		source:      source,
		dest:        dest,
		destAddress: destAddress,
		srcAsset:    srcAsset,
		destAsset:   destAsset,
		amount:      amount,
		converted:   converted,
		commission:  commission,
		commBTC:     commBTC,
		kind:        kind,
		regulator:   regulator,
	}, nil
}

// resolveDestination maps the destination identifier to an internal card or
// a syntactically valid external crypto address.
func (s *TransferServiceImpl) resolveDestination(ctx context.Context, source *domain.Card, destination string) (*domain.Card, string, domain.Asset, error) {
	var dest *domain.Card
	err := retry.Do(ctx, s.retryCfg, s.log, func(ctx context.Context) error {
		var opErr error
		dest, opErr = s.cardRepo.GetByNumberOrAddress(ctx, destination)
		return opErr
	})
	if err != nil {
		return nil, "", "", apperror.ErrDatabaseError(err)
	}

	if dest != nil {
		if dest.ID == source.ID {
			return nil, "", "", apperror.ErrSameAccount()
		}
		if asset, ok := dest.AssetForAddress(destination); ok {
			return dest, "", asset, nil
		}
		if asset, ok := dest.FiatAsset(); ok {
			return dest, "", asset, nil
		}
		// Matched a crypto card by number: the credited sub-asset is
		// undeterminable, so the identifier is rejected.
		return nil, "", "", apperror.ErrInvalidDestination(destination)
	}

	// Genuine external send: accept only well-formed crypto addresses.
	if asset, ok := domain.DetectAddressAsset(destination); ok {
		return nil, destination, asset, nil
	}
	return nil, "", "", apperror.ErrInvalidDestination(destination)
}

// resolveSourceAsset picks which balance is debited: a fiat card's currency,
// or for crypto cards the explicit request asset, falling back to the
// destination's asset when that is itself crypto.
func (s *TransferServiceImpl) resolveSourceAsset(source *domain.Card, requested, destAsset domain.Asset) (domain.Asset, error) {
	if fiat, ok := source.FiatAsset(); ok {
		if requested != "" && requested != fiat {
			return "", apperror.ErrAssetNotHeld(string(requested))
		}
		return fiat, nil
	}

	if requested != "" {
		if !requested.IsCrypto() {
			return "", apperror.ErrAssetNotHeld(string(requested))
		}
		return requested, nil
	}
	if destAsset.IsCrypto() {
		return destAsset, nil
	}
	return "", apperror.ErrSourceAssetRequired()
}

// execute applies the plan inside one database transaction: row-locked
// sufficiency check and debit, destination credit, regulator commission
// credit and both ledger rows. Any failure rolls the whole operation back.
func (s *TransferServiceImpl) execute(ctx context.Context, plan *transferPlan) (*domain.Transaction, error) {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	// Lock cards in ascending id order so concurrent opposite-direction
	// transfers cannot deadlock.
	locked, err := s.lockCards(ctx, dbTx, plan)
	if err != nil {
		return nil, err
	}
	source, dest := locked[plan.source.ID], (*domain.Card)(nil)
	if plan.dest != nil {
		dest = locked[plan.dest.ID]
	}

	totalDebit := plan.amount.Add(plan.commission)
	available, err := source.BalanceOf(plan.srcAsset)
	if err != nil {
		return nil, apperror.ErrAssetNotHeld(string(plan.srcAsset))
	}
	if available.LessThan(totalDebit) {
		return nil, apperror.ErrInsufficientFunds(
			available.StringFixed(plan.srcAsset.Precision()),
			totalDebit.StringFixed(plan.srcAsset.Precision()),
			string(plan.srcAsset),
		)
	}

	newSrcBalance := plan.srcAsset.Quantize(available.Sub(totalDebit))
	if err := s.writeBalance(ctx, dbTx, source.ID, plan.srcAsset, newSrcBalance); err != nil {
		return nil, fmt.Errorf("debit source: %w", err)
	}

	if dest != nil {
		destBalance, balErr := dest.BalanceOf(plan.destAsset)
		if balErr != nil {
			return nil, apperror.InternalError(balErr)
		}
		newDestBalance := plan.destAsset.Quantize(destBalance.Add(plan.converted))
		if err := s.writeBalance(ctx, dbTx, dest.ID, plan.destAsset, newDestBalance); err != nil {
			return nil, fmt.Errorf("credit destination: %w", err)
		}
	}

	if err := s.userRepo.CreditRegulatorBalance(ctx, dbTx, plan.regulator.user.ID, plan.commBTC); err != nil {
		return nil, fmt.Errorf("credit regulator: %w", err)
	}

	now := time.Now().UTC()
	txn := s.buildTransferRow(plan, now)
	if err := s.txRepo.Create(ctx, dbTx, txn); err != nil {
		return nil, fmt.Errorf("create transfer row: %w", err)
	}
	if err := s.txRepo.Create(ctx, dbTx, s.buildCommissionRow(plan, txn.ReferenceID, now)); err != nil {
		return nil, fmt.Errorf("create commission row: %w", err)
	}

	if err := dbTx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}
	return txn, nil
}

// lockCards acquires FOR UPDATE locks on the source and (internal)
// destination cards in ascending id order, returning the fresh rows.
func (s *TransferServiceImpl) lockCards(ctx context.Context, dbTx pgx.Tx, plan *transferPlan) (map[int64]*domain.Card, error) {
	ids := []int64{plan.source.ID}
	if plan.dest != nil {
		if plan.dest.ID < plan.source.ID {
			ids = []int64{plan.dest.ID, plan.source.ID}
		} else {
			ids = append(ids, plan.dest.ID)
		}
	}

	locked := make(map[int64]*domain.Card, len(ids))
	for _, id := range ids {
		card, err := s.cardRepo.GetByIDForUpdate(ctx, dbTx, id)
		if err != nil {
			return nil, fmt.Errorf("lock card %d: %w", id, err)
		}
		if card == nil {
			return nil, apperror.ErrCardNotFound(id)
		}
		locked[id] = card
	}
	return locked, nil
}

func (s *TransferServiceImpl) writeBalance(ctx context.Context, dbTx pgx.Tx, cardID int64, asset domain.Asset, balance decimal.Decimal) error {
	switch asset {
	case domain.AssetBTC:
		return s.cardRepo.UpdateBTCBalance(ctx, dbTx, cardID, balance)
	case domain.AssetETH:
		return s.cardRepo.UpdateETHBalance(ctx, dbTx, cardID, balance)
	default:
		return s.cardRepo.UpdateBalance(ctx, dbTx, cardID, balance)
	}
}

func (s *TransferServiceImpl) buildTransferRow(plan *transferPlan, now time.Time) *domain.Transaction {
	description := fmt.Sprintf("Transfer %s %s",
		plan.amount.StringFixed(plan.srcAsset.Precision()), plan.srcAsset)
	if plan.srcAsset != plan.destAsset {
		description = fmt.Sprintf("Transfer %s %s -> %s %s",
			plan.amount.StringFixed(plan.srcAsset.Precision()), plan.srcAsset,
			plan.converted.StringFixed(plan.destAsset.Precision()), plan.destAsset)
	}

	txn := &domain.Transaction{
		ReferenceID:     uuid.New().String(),
		FromCardID:      plan.source.ID,
		Amount:          plan.amount,
		ConvertedAmount: plan.converted,
		Kind:            plan.kind,
		Status:          domain.TransactionStatusCompleted,
		Description:     description,
		FromCardNumber:  plan.source.Number,
		CreatedAt:       now,
	}
	if plan.dest != nil {
		destID := plan.dest.ID
		txn.ToCardID = &destID
		txn.ToCardNumber = plan.dest.Number
		if plan.destAsset.IsCrypto() {
			txn.Wallet = plan.destAddressOf()
		}
	} else {
		txn.Wallet = plan.destAddress
	}
	return txn
}

func (s *TransferServiceImpl) buildCommissionRow(plan *transferPlan, referenceID string, now time.Time) *domain.Transaction {
	regCardID := plan.regulator.cryptoCard.ID
	return &domain.Transaction{
		ReferenceID:     referenceID,
		FromCardID:      plan.source.ID,
		ToCardID:        &regCardID,
		Amount:          plan.commission,
		ConvertedAmount: plan.commBTC,
		Kind:            domain.TransactionKindCommission,
		Status:          domain.TransactionStatusCompleted,
		Description: fmt.Sprintf("Commission %s %s -> %s BTC",
			plan.commission.StringFixed(plan.srcAsset.Precision()), plan.srcAsset,
			plan.commBTC.StringFixed(domain.AssetBTC.Precision())),
		FromCardNumber: plan.source.Number,
		ToCardNumber:   plan.regulator.cryptoCard.Number,
		CreatedAt:      now,
	}
}

// destAddressOf returns the destination card's address for the credited asset.
func (p *transferPlan) destAddressOf() string {
	if p.dest == nil {
		return p.destAddress
	}
	switch p.destAsset {
	case domain.AssetBTC:
		return p.dest.BTCAddress
	case domain.AssetETH:
		return p.dest.ETHAddress
	}
	return ""
}

func (s *TransferServiceImpl) getCard(ctx context.Context, id int64) (*domain.Card, error) {
	var card *domain.Card
	err := retry.Do(ctx, s.retryCfg, s.log, func(ctx context.Context) error {
		var opErr error
		card, opErr = s.cardRepo.GetByID(ctx, id)
		return opErr
	})
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	return card, nil
}
