package ports

import (
	"context"

	"multibank/internal/core/domain"

	"github.com/shopspring/decimal"
)

// TransferService is the single authoritative operation for moving value
// between two accounts, with currency conversion and commission.
type TransferService interface {
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
}

// TransferRequest holds validated input for a transfer.
type TransferRequest struct {
	FromCardID  int64
	Destination string // card number, internal crypto address, or external crypto address
	Amount      decimal.Decimal
	// SourceAsset selects which sub-balance of a crypto card is debited.
	// Empty for fiat cards; when empty for a crypto card the asset is
	// inferred from the destination address kind.
	SourceAsset domain.Asset
}

// LedgerService exposes the append-only transaction history.
type LedgerService interface {
	History(ctx context.Context, cardID int64, page, pageSize int) ([]domain.Transaction, int64, error)
}

// RateProvider serves the latest exchange-rate snapshot to consumers.
type RateProvider interface {
	Latest(ctx context.Context) (*domain.ExchangeRate, error)
}

// CryptoPriceSource fetches spot BTC/USD and ETH/USD prices.
type CryptoPriceSource interface {
	FetchUSDPrices(ctx context.Context) (btcToUSD, ethToUSD decimal.Decimal, err error)
}

// FiatRateSource fetches the USD/UAH rate.
type FiatRateSource interface {
	FetchUSDToUAH(ctx context.Context) (decimal.Decimal, error)
}

// RateBroadcaster pushes a snapshot to every open subscription.
type RateBroadcaster interface {
	Publish(ctx context.Context, rate *domain.ExchangeRate) error
}

// RateSubscriber delivers rate snapshots push-style. A new subscription
// receives the current snapshot immediately, then every published refresh.
// The returned cancel func releases the subscription.
type RateSubscriber interface {
	Subscribe(ctx context.Context) (<-chan domain.ExchangeRate, func(), error)
}
