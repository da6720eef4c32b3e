package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ExchangeRate is an immutable snapshot of the externally observed rates.
// The latest row by ObservedAt is authoritative; older rows are history.
type ExchangeRate struct {
	ID         int64           `json:"id"`
	USDToUAH   decimal.Decimal `json:"usd_to_uah"`
	BTCToUSD   decimal.Decimal `json:"btc_to_usd"`
	ETHToUSD   decimal.Decimal `json:"eth_to_usd"`
	ObservedAt time.Time       `json:"observed_at"`
}

// Validate rejects snapshots with non-positive rates.
func (r *ExchangeRate) Validate() error {
	if !r.USDToUAH.IsPositive() || !r.BTCToUSD.IsPositive() || !r.ETHToUSD.IsPositive() {
		return fmt.Errorf("exchange rate snapshot contains non-positive rate")
	}
	return nil
}

// IsStale reports whether the snapshot is older than maxAge at the given instant.
func (r *ExchangeRate) IsStale(now time.Time, maxAge time.Duration) bool {
	return now.Sub(r.ObservedAt) > maxAge
}

// toUSD expresses one unit of the asset in USD.
func (r *ExchangeRate) toUSD(asset Asset) decimal.Decimal {
	switch asset {
	case AssetUSD:
		return decimal.NewFromInt(1)
	case AssetUAH:
		return decimal.NewFromInt(1).Div(r.USDToUAH)
	case AssetBTC:
		return r.BTCToUSD
	case AssetETH:
		return r.ETHToUSD
	}
	return decimal.Zero
}

// Convert expresses amount (denominated in from) in to-units, quantized to
// the target asset's precision. Direct pairs convert in one step; any other
// pair bridges through USD.
func (r *ExchangeRate) Convert(amount decimal.Decimal, from, to Asset) (decimal.Decimal, error) {
	if !from.Valid() || !to.Valid() {
		return decimal.Zero, fmt.Errorf("convert: unsupported pair %s->%s", from, to)
	}
	if from == to {
		return to.Quantize(amount), nil
	}
	if err := r.Validate(); err != nil {
		return decimal.Zero, err
	}
	usd := amount.Mul(r.toUSD(from))
	if to == AssetUSD {
		return to.Quantize(usd), nil
	}
	out := usd.Div(r.toUSD(to))
	return to.Quantize(out), nil
}
