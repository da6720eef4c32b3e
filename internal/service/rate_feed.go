package service

import (
	"context"
	"sync"
	"time"

	"multibank/internal/core/domain"
	"multibank/internal/core/ports"
	"multibank/pkg/apperror"
	"multibank/pkg/retry"

	"github.com/rs/zerolog"
)

// RateFeedOptions configures the background poller.
type RateFeedOptions struct {
	Interval  time.Duration // polling cadence
	Staleness time.Duration // max cache age usable as fallback
	Cooldown  time.Duration // wait after a cycle that produced no usable rates
	Retry     retry.Config
}

// RateFeedService keeps a latest-rates snapshot fresh and broadcasts it.
// The cached snapshot is owned by this instance; nothing reads it except
// through Latest. Implements ports.RateProvider.
type RateFeedService struct {
	rateRepo    ports.RateRepository
	cryptoSrc   ports.CryptoPriceSource
	fiatSrc     ports.FiatRateSource
	broadcaster ports.RateBroadcaster
	opts        RateFeedOptions
	log         zerolog.Logger

	mu     sync.RWMutex
	cached *domain.ExchangeRate

	now     func() time.Time
	started bool
	stop    chan struct{}
	done    chan struct{}
}

// NewRateFeed creates a new RateFeedService.
func NewRateFeed(
	rateRepo ports.RateRepository,
	cryptoSrc ports.CryptoPriceSource,
	fiatSrc ports.FiatRateSource,
	broadcaster ports.RateBroadcaster,
	opts RateFeedOptions,
	log zerolog.Logger,
) *RateFeedService {
	if opts.Interval <= 0 {
		opts.Interval = 30 * time.Second
	}
	if opts.Staleness <= 0 {
		opts.Staleness = 5 * time.Minute
	}
	if opts.Cooldown <= 0 {
		opts.Cooldown = 60 * time.Second
	}
	return &RateFeedService{
		rateRepo:    rateRepo,
		cryptoSrc:   cryptoSrc,
		fiatSrc:     fiatSrc,
		broadcaster: broadcaster,
		opts:        opts,
		log:         log,
		now:         time.Now,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

// Start runs one refresh immediately, then refreshes on the configured
// interval for the process lifetime. Call Stop to terminate the loop.
// Repeated calls are no-ops.
func (s *RateFeedService) Start(ctx context.Context) {
	s.mu.Lock()
	if s.started {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()
	go s.loop(ctx)
}

// Stop terminates the background loop and waits for it to exit. Safe to
// call when Start never ran.
func (s *RateFeedService) Stop() {
	s.mu.Lock()
	started := s.started
	s.mu.Unlock()
	if !started {
		return
	}
	close(s.stop)
	<-s.done
}

func (s *RateFeedService) loop(ctx context.Context) {
	defer close(s.done)

	for {
		wait := s.opts.Interval
		if err := s.Refresh(ctx); err != nil {
			// No fresh rates and no usable cache: hold off before
			// hammering a failing upstream again.
			wait = s.opts.Cooldown
			s.log.Error().Err(err).Dur("cooldown", wait).Msg("rate refresh cycle skipped")
		}

		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

// Refresh fetches spot prices, persists and broadcasts a new snapshot. On
// upstream failure it republishes the cached snapshot if it is younger than
// the staleness threshold; otherwise the cycle errors and the caller backs
// off.
func (s *RateFeedService) Refresh(ctx context.Context) error {
	snapshot, err := s.fetch(ctx)
	if err != nil {
		cached := s.snapshot()
		if cached == nil || cached.IsStale(s.now(), s.opts.Staleness) {
			return err
		}
		s.log.Warn().
			Err(err).
			Time("observed_at", cached.ObservedAt).
			Msg("rate sources unavailable, republishing cached snapshot")
		s.publish(ctx, cached)
		return nil
	}

	s.publish(ctx, snapshot)
	return nil
}

// Latest returns the current snapshot: the in-memory cache when warm, the
// persisted latest row otherwise.
func (s *RateFeedService) Latest(ctx context.Context) (*domain.ExchangeRate, error) {
	if cached := s.snapshot(); cached != nil {
		return cached, nil
	}

	var rate *domain.ExchangeRate
	err := retry.Do(ctx, s.opts.Retry, s.log, func(ctx context.Context) error {
		var opErr error
		rate, opErr = s.rateRepo.GetLatest(ctx)
		return opErr
	})
	if err != nil {
		return nil, apperror.ErrDatabaseError(err)
	}
	if rate == nil {
		return nil, apperror.ErrRatesUnavailable()
	}
	return rate, nil
}

func (s *RateFeedService) fetch(ctx context.Context) (*domain.ExchangeRate, error) {
	btcToUSD, ethToUSD, err := s.cryptoSrc.FetchUSDPrices(ctx)
	if err != nil {
		return nil, err
	}
	usdToUAH, err := s.fiatSrc.FetchUSDToUAH(ctx)
	if err != nil {
		return nil, err
	}

	snapshot := &domain.ExchangeRate{
		USDToUAH:   usdToUAH,
		BTCToUSD:   btcToUSD,
		ETHToUSD:   ethToUSD,
		ObservedAt: s.now().UTC(),
	}
	if err := snapshot.Validate(); err != nil {
		return nil, err
	}
	return snapshot, nil
}

// publish persists the snapshot, refreshes the in-memory cache and fans the
// snapshot out. Persistence and broadcast failures are logged, not fatal:
// the cache keeps the engine serving the freshest rates it has.
func (s *RateFeedService) publish(ctx context.Context, snapshot *domain.ExchangeRate) {
	err := retry.Do(ctx, s.opts.Retry, s.log, func(ctx context.Context) error {
		stored, opErr := s.rateRepo.Insert(ctx, snapshot)
		if opErr != nil {
			return opErr
		}
		snapshot = stored
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("persisting rate snapshot failed")
	}

	s.mu.Lock()
	s.cached = snapshot
	s.mu.Unlock()

	if s.broadcaster != nil {
		if err := s.broadcaster.Publish(ctx, snapshot); err != nil {
			s.log.Error().Err(err).Msg("broadcasting rate snapshot failed")
		}
	}

	s.log.Debug().
		Str("usd_to_uah", snapshot.USDToUAH.String()).
		Str("btc_to_usd", snapshot.BTCToUSD.String()).
		Str("eth_to_usd", snapshot.ETHToUSD.String()).
		Time("observed_at", snapshot.ObservedAt).
		Msg("rate snapshot published")
}

func (s *RateFeedService) snapshot() *domain.ExchangeRate {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cached
}
