package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"multibank/internal/core/domain"
	"multibank/internal/core/ports"
	"multibank/pkg/retry"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// In-memory ledger with per-card row locks. GetByIDForUpdate blocks until
// the row lock is free and holds it until commit or rollback, matching the
// storage layer's SELECT ... FOR UPDATE semantics closely enough to run
// real concurrent transfers against TransferServiceImpl.

type memLedger struct {
	mu       sync.Mutex
	cards    map[int64]*domain.Card
	users    map[int64]*domain.User
	txns     []domain.Transaction
	nextTxID int64
	rowLocks map[int64]*sync.Mutex
}

func newMemLedger() *memLedger {
	return &memLedger{
		cards:    make(map[int64]*domain.Card),
		users:    make(map[int64]*domain.User),
		rowLocks: make(map[int64]*sync.Mutex),
	}
}

func (l *memLedger) addCard(c domain.Card) {
	l.cards[c.ID] = &c
	l.rowLocks[c.ID] = &sync.Mutex{}
}

func (l *memLedger) addUser(u domain.User) {
	l.users[u.ID] = &u
}

func (l *memLedger) cardCopy(id int64) *domain.Card {
	l.mu.Lock()
	defer l.mu.Unlock()
	c, ok := l.cards[id]
	if !ok {
		return nil
	}
	cp := *c
	return &cp
}

// memLedgerTx buffers writes until Commit and releases its row locks on
// Commit or Rollback, whichever runs first.
type memLedgerTx struct {
	pgx.Tx
	ledger  *memLedger
	held    []*sync.Mutex
	pending []func()
	closed  bool
}

func (t *memLedgerTx) Commit(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.ledger.mu.Lock()
	for _, apply := range t.pending {
		apply()
	}
	t.ledger.mu.Unlock()
	t.release()
	return nil
}

func (t *memLedgerTx) Rollback(ctx context.Context) error {
	if t.closed {
		return pgx.ErrTxClosed
	}
	t.release()
	return nil
}

func (t *memLedgerTx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.held[i].Unlock()
	}
	t.held = nil
	t.closed = true
}

type memTransactor struct{ ledger *memLedger }

func (m *memTransactor) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memLedgerTx{ledger: m.ledger}, nil
}

type memCardRepo struct{ ledger *memLedger }

func (r *memCardRepo) GetByID(ctx context.Context, id int64) (*domain.Card, error) {
	return r.ledger.cardCopy(id), nil
}

func (r *memCardRepo) GetByNumberOrAddress(ctx context.Context, identifier string) (*domain.Card, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	for _, c := range r.ledger.cards {
		if c.Number == identifier || (c.Type == domain.CardTypeCrypto &&
			(c.BTCAddress == identifier || c.ETHAddress == identifier)) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCardRepo) GetByIDForUpdate(ctx context.Context, tx pgx.Tx, id int64) (*domain.Card, error) {
	mt := tx.(*memLedgerTx)
	r.ledger.mu.Lock()
	lock, ok := r.ledger.rowLocks[id]
	r.ledger.mu.Unlock()
	if !ok {
		return nil, nil
	}
	lock.Lock()
	mt.held = append(mt.held, lock)
	return r.ledger.cardCopy(id), nil
}

func (r *memCardRepo) GetByUserIDAndType(ctx context.Context, userID int64, cardType domain.CardType) (*domain.Card, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	for _, c := range r.ledger.cards {
		if c.UserID == userID && c.Type == cardType {
			cp := *c
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memCardRepo) UpdateBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error {
	mt := tx.(*memLedgerTx)
	mt.pending = append(mt.pending, func() { r.ledger.cards[cardID].Balance = balance })
	return nil
}

func (r *memCardRepo) UpdateBTCBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error {
	mt := tx.(*memLedgerTx)
	mt.pending = append(mt.pending, func() { r.ledger.cards[cardID].BTCBalance = balance })
	return nil
}

func (r *memCardRepo) UpdateETHBalance(ctx context.Context, tx pgx.Tx, cardID int64, balance decimal.Decimal) error {
	mt := tx.(*memLedgerTx)
	mt.pending = append(mt.pending, func() { r.ledger.cards[cardID].ETHBalance = balance })
	return nil
}

type memUserRepo struct{ ledger *memLedger }

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	u, ok := r.ledger.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memUserRepo) GetRegulator(ctx context.Context) (*domain.User, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	for _, u := range r.ledger.users {
		if u.IsRegulator {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) CreditRegulatorBalance(ctx context.Context, tx pgx.Tx, userID int64, amount decimal.Decimal) error {
	mt := tx.(*memLedgerTx)
	mt.pending = append(mt.pending, func() {
		u := r.ledger.users[userID]
		u.RegulatorBalance = u.RegulatorBalance.Add(amount)
	})
	return nil
}

type memTxnRepo struct{ ledger *memLedger }

func (r *memTxnRepo) Create(ctx context.Context, tx pgx.Tx, txn *domain.Transaction) error {
	mt := tx.(*memLedgerTx)
	mt.pending = append(mt.pending, func() {
		r.ledger.nextTxID++
		txn.ID = r.ledger.nextTxID
		r.ledger.txns = append(r.ledger.txns, *txn)
	})
	return nil
}

func (r *memTxnRepo) GetByID(ctx context.Context, id int64) (*domain.Transaction, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	for i := range r.ledger.txns {
		if r.ledger.txns[i].ID == id {
			cp := r.ledger.txns[i]
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memTxnRepo) ListByCard(ctx context.Context, cardID int64, page, pageSize int) ([]domain.Transaction, int64, error) {
	r.ledger.mu.Lock()
	defer r.ledger.mu.Unlock()
	var rows []domain.Transaction
	for _, txn := range r.ledger.txns {
		if txn.FromCardID == cardID || (txn.ToCardID != nil && *txn.ToCardID == cardID) {
			rows = append(rows, txn)
		}
	}
	return rows, int64(len(rows)), nil
}

type staticRateProvider struct{ rate *domain.ExchangeRate }

func (p *staticRateProvider) Latest(ctx context.Context) (*domain.ExchangeRate, error) {
	return p.rate, nil
}

func newConcurrencyFixture(t *testing.T) (*TransferServiceImpl, *memLedger) {
	t.Helper()
	ledger := newMemLedger()
	ledger.addUser(domain.User{ID: 1, Username: "alice"})
	ledger.addUser(domain.User{ID: 2, Username: "bob"})
	ledger.addUser(domain.User{ID: 99, Username: "regulator", IsRegulator: true})
	ledger.addCard(domain.Card{
		ID: 1, UserID: 1, Type: domain.CardTypeUSD,
		Number: "4441111122223333", Balance: decimal.RequireFromString("100.00"),
	})
	ledger.addCard(domain.Card{
		ID: 2, UserID: 2, Type: domain.CardTypeUSD,
		Number: "4442222233334444", Balance: decimal.RequireFromString("100.00"),
	})
	ledger.addCard(domain.Card{
		ID: 50, UserID: 99, Type: domain.CardTypeCrypto,
		Number:     "9990000011112222",
		BTCAddress: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa",
	})

	svc := NewTransferService(
		&memCardRepo{ledger: ledger},
		&memUserRepo{ledger: ledger},
		&memTxnRepo{ledger: ledger},
		&staticRateProvider{rate: testRate()},
		&memTransactor{ledger: ledger},
		decimal.RequireFromString("0.01"),
		retry.Config{Attempts: 1, BaseDelay: time.Millisecond},
		zerolog.Nop(),
	)
	require.NoError(t, svc.ResolveRegulator(context.Background()))
	return svc, ledger
}

type concurrentTransfer struct {
	fromCardID int64
	dest       string
	amount     string
}

func runConcurrentTransfers(svc *TransferServiceImpl, reqs []concurrentTransfer) []error {
	errs := make([]error, len(reqs))
	var wg sync.WaitGroup
	for i, req := range reqs {
		wg.Add(1)
		go func(i int, req concurrentTransfer) {
			defer wg.Done()
			_, errs[i] = svc.Transfer(context.Background(), ports.TransferRequest{
				FromCardID:  req.fromCardID,
				Destination: req.dest,
				Amount:      decimal.RequireFromString(req.amount),
			})
		}(i, req)
	}
	wg.Wait()
	return errs
}

// Two simultaneous debits of 60 from a balance of 100: the row lock forces
// them to serialize, so exactly one commits and the other is rejected for
// insufficient funds. Balance never goes negative.
func TestTransfer_ConcurrentDebits_OneWinner(t *testing.T) {
	svc, ledger := newConcurrencyFixture(t)

	reqs := []concurrentTransfer{
		{1, "4442222233334444", "60"},
		{1, "4442222233334444", "60"},
	}
	errs := runConcurrentTransfers(svc, reqs)

	var successes, rejections int
	for _, err := range errs {
		if err == nil {
			successes++
			continue
		}
		rejections++
		assertAppError(t, err, "TRF_002")
	}
	assert.Equal(t, 1, successes, "exactly one transfer must commit")
	assert.Equal(t, 1, rejections, "the loser must be rejected, not lost")

	// 100 - (60 + 0.60 commission) for the winner only.
	source := ledger.cardCopy(1)
	assert.True(t, source.Balance.Equal(decimal.RequireFromString("39.40")),
		"source balance %s", source.Balance)
	dest := ledger.cardCopy(2)
	assert.True(t, dest.Balance.Equal(decimal.RequireFromString("160.00")),
		"destination balance %s", dest.Balance)
}

// Twenty concurrent transfers of 10 from a balance of 100. Each costs 10.10
// with commission, so exactly nine fit; the rest are rejected and the final
// balance is the exact remainder.
func TestTransfer_ConcurrentFanOut_ConservesBalance(t *testing.T) {
	svc, ledger := newConcurrencyFixture(t)

	reqs := make([]concurrentTransfer, 20)
	for i := range reqs {
		reqs[i] = concurrentTransfer{fromCardID: 1, dest: "4442222233334444", amount: "10"}
	}
	errs := runConcurrentTransfers(svc, reqs)

	var successes int
	for _, err := range errs {
		if err == nil {
			successes++
		} else {
			assertAppError(t, err, "TRF_002")
		}
	}
	assert.Equal(t, 9, successes)

	source := ledger.cardCopy(1)
	assert.True(t, source.Balance.Equal(decimal.RequireFromString("9.10")),
		"source balance %s", source.Balance)
	assert.False(t, source.Balance.IsNegative())

	dest := ledger.cardCopy(2)
	assert.True(t, dest.Balance.Equal(decimal.RequireFromString("190.00")),
		"destination balance %s", dest.Balance)

	// Every committed transfer wrote its transfer row plus a commission row.
	ledger.mu.Lock()
	rows := len(ledger.txns)
	regulator := *ledger.users[99]
	ledger.mu.Unlock()
	assert.Equal(t, successes*2, rows)

	// 9 commissions of 0.10 USD at 100000 BTC/USD.
	assert.True(t, regulator.RegulatorBalance.Equal(decimal.RequireFromString("0.000009")),
		"regulator balance %s", regulator.RegulatorBalance)
}

// Simultaneous transfers in both directions between the same two cards.
// Cards are locked in ascending id order, so no interleaving can deadlock
// and every transfer commits.
func TestTransfer_ConcurrentOppositeDirections_NoDeadlock(t *testing.T) {
	svc, ledger := newConcurrencyFixture(t)

	reqs := make([]concurrentTransfer, 20)
	for i := range reqs {
		if i%2 == 0 {
			reqs[i] = concurrentTransfer{fromCardID: 1, dest: "4442222233334444", amount: "5"}
		} else {
			reqs[i] = concurrentTransfer{fromCardID: 2, dest: "4441111122223333", amount: "5"}
		}
	}

	finished := make(chan []error, 1)
	go func() { finished <- runConcurrentTransfers(svc, reqs) }()

	var errs []error
	select {
	case errs = <-finished:
	case <-time.After(10 * time.Second):
		t.Fatal("opposite-direction transfers deadlocked")
	}

	for _, err := range errs {
		require.NoError(t, err)
	}

	// Each side sent ten transfers of 5.05 total and received ten credits
	// of 5.00: both cards end at 99.50.
	for _, id := range []int64{1, 2} {
		card := ledger.cardCopy(id)
		assert.True(t, card.Balance.Equal(decimal.RequireFromString("99.50")),
			"card %d balance %s", id, card.Balance)
	}

	ledger.mu.Lock()
	regulator := *ledger.users[99]
	ledger.mu.Unlock()
	// 20 commissions of 0.05 USD at 100000 BTC/USD.
	assert.True(t, regulator.RegulatorBalance.Equal(decimal.RequireFromString("0.00001")),
		"regulator balance %s", regulator.RegulatorBalance)
}
