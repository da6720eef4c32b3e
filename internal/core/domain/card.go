package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// CardType is the asset class of a card.
type CardType string

const (
	CardTypeUSD    CardType = "usd"
	CardTypeUAH    CardType = "uah"
	CardTypeCrypto CardType = "crypto"
)

// Card is one user-owned account. Fiat cards carry a single balance in their
// currency; crypto cards always carry both a BTC and an ETH sub-balance,
// addressable through separate deposit addresses.
type Card struct {
	ID         int64           `json:"id"`
	UserID     int64           `json:"user_id"`
	Type       CardType        `json:"type"`
	Number     string          `json:"number"`
	Balance    decimal.Decimal `json:"balance"`
	BTCBalance decimal.Decimal `json:"btc_balance"`
	ETHBalance decimal.Decimal `json:"eth_balance"`
	BTCAddress string          `json:"btc_address,omitempty"`
	ETHAddress string          `json:"eth_address,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// FiatAsset returns the currency of a fiat card.
func (c *Card) FiatAsset() (Asset, bool) {
	switch c.Type {
	case CardTypeUSD:
		return AssetUSD, true
	case CardTypeUAH:
		return AssetUAH, true
	}
	return "", false
}

// BalanceOf returns the card's balance in the given asset. For fiat cards
// only the card's own currency is answerable.
func (c *Card) BalanceOf(asset Asset) (decimal.Decimal, error) {
	switch asset {
	case AssetBTC:
		if c.Type != CardTypeCrypto {
			return decimal.Zero, fmt.Errorf("card %d holds no BTC balance", c.ID)
		}
		return c.BTCBalance, nil
	case AssetETH:
		if c.Type != CardTypeCrypto {
			return decimal.Zero, fmt.Errorf("card %d holds no ETH balance", c.ID)
		}
		return c.ETHBalance, nil
	}
	if fiat, ok := c.FiatAsset(); ok && fiat == asset {
		return c.Balance, nil
	}
	return decimal.Zero, fmt.Errorf("card %d holds no %s balance", c.ID, asset)
}

// AssetForAddress maps one of the card's own deposit addresses to its asset.
func (c *Card) AssetForAddress(addr string) (Asset, bool) {
	if c.Type != CardTypeCrypto || addr == "" {
		return "", false
	}
	switch addr {
	case c.BTCAddress:
		return AssetBTC, true
	case c.ETHAddress:
		return AssetETH, true
	}
	return "", false
}

// HoldsAsset reports whether the card can be credited in the given asset.
func (c *Card) HoldsAsset(asset Asset) bool {
	if c.Type == CardTypeCrypto {
		return asset.IsCrypto()
	}
	fiat, ok := c.FiatAsset()
	return ok && fiat == asset
}
