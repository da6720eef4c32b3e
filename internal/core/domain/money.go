package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Asset identifies the unit a balance or amount is denominated in.
type Asset string

const (
	AssetUSD Asset = "USD"
	AssetUAH Asset = "UAH"
	AssetBTC Asset = "BTC"
	AssetETH Asset = "ETH"
)

// Precision returns the number of fractional digits carried for the asset:
// 2 for fiat, 8 for crypto. Every balance write is quantized to this scale.
func (a Asset) Precision() int32 {
	if a.IsCrypto() {
		return 8
	}
	return 2
}

// IsCrypto reports whether the asset is a crypto sub-balance.
func (a Asset) IsCrypto() bool {
	return a == AssetBTC || a == AssetETH
}

// Valid reports whether the asset is one of the four supported units.
func (a Asset) Valid() bool {
	switch a {
	case AssetUSD, AssetUAH, AssetBTC, AssetETH:
		return true
	}
	return false
}

// Quantize rounds d to the asset's precision (half away from zero).
func (a Asset) Quantize(d decimal.Decimal) decimal.Decimal {
	return d.Round(a.Precision())
}

// ParseAsset converts a wire-format asset code ("usd", "BTC", ...) to an Asset.
func ParseAsset(s string) (Asset, error) {
	switch s {
	case "usd", "USD":
		return AssetUSD, nil
	case "uah", "UAH":
		return AssetUAH, nil
	case "btc", "BTC":
		return AssetBTC, nil
	case "eth", "ETH":
		return AssetETH, nil
	}
	return "", fmt.Errorf("unknown asset %q", s)
}
