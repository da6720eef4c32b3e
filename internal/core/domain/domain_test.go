package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rate() *ExchangeRate {
	return &ExchangeRate{
		USDToUAH:   decimal.RequireFromString("40.5"),
		BTCToUSD:   decimal.RequireFromString("100000"),
		ETHToUSD:   decimal.RequireFromString("3000"),
		ObservedAt: time.Now().UTC(),
	}
}

func TestExchangeRate_Convert(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		from   Asset
		to     Asset
		want   string
	}{
		{"usd to uah", "10", AssetUSD, AssetUAH, "405.00"},
		{"uah to usd", "405", AssetUAH, AssetUSD, "10.00"},
		{"usd to btc", "100000", AssetUSD, AssetBTC, "1"},
		{"btc to usd", "0.5", AssetBTC, AssetUSD, "50000.00"},
		{"eth to usd", "2", AssetETH, AssetUSD, "6000.00"},
		{"btc to eth bridges usd", "0.03", AssetBTC, AssetETH, "1"},
		{"uah to btc bridges usd", "40500", AssetUAH, AssetBTC, "0.01"},
		{"same asset quantizes only", "1.239", AssetUSD, AssetUSD, "1.24"},
	}

	r := rate()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := r.Convert(decimal.RequireFromString(tt.amount), tt.from, tt.to)
			require.NoError(t, err)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"got %s, want %s", got, tt.want)
		})
	}
}

func TestExchangeRate_Convert_InvalidAsset(t *testing.T) {
	_, err := rate().Convert(decimal.NewFromInt(1), Asset("XRP"), AssetUSD)
	require.Error(t, err)
}

func TestExchangeRate_Convert_NonPositiveRate(t *testing.T) {
	r := rate()
	r.BTCToUSD = decimal.Zero
	_, err := r.Convert(decimal.NewFromInt(1), AssetBTC, AssetUSD)
	require.Error(t, err)
}

func TestExchangeRate_IsStale(t *testing.T) {
	r := rate()
	now := r.ObservedAt

	assert.False(t, r.IsStale(now.Add(4*time.Minute), 5*time.Minute))
	assert.True(t, r.IsStale(now.Add(6*time.Minute), 5*time.Minute))
}

func TestAsset_Quantize(t *testing.T) {
	assert.Equal(t, "10.56", AssetUSD.Quantize(decimal.RequireFromString("10.555")).String())
	assert.Equal(t, "10.55", AssetUAH.Quantize(decimal.RequireFromString("10.554")).String())
	assert.Equal(t, "0.00000001", AssetBTC.Quantize(decimal.RequireFromString("0.000000014")).String())
	assert.Equal(t, "0.12345679", AssetETH.Quantize(decimal.RequireFromString("0.123456789")).String())
}

func TestParseAsset(t *testing.T) {
	for in, want := range map[string]Asset{
		"usd": AssetUSD, "USD": AssetUSD,
		"uah": AssetUAH, "UAH": AssetUAH,
		"btc": AssetBTC, "BTC": AssetBTC,
		"eth": AssetETH, "ETH": AssetETH,
	} {
		got, err := ParseAsset(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	_, err := ParseAsset("doge")
	require.Error(t, err)
}

func TestDetectAddressAsset(t *testing.T) {
	tests := []struct {
		name  string
		input string
		asset Asset
		ok    bool
	}{
		{"legacy btc", "1BoatSLRHtKNngkdXEeobR76b53LETtpyT", AssetBTC, true},
		{"p2sh btc", "3J98t1WpEZ73CNmQviecrnyiWrnqRhWNLy", AssetBTC, true},
		{"bech32 btc", "bc1qar0srrr7xfkvy5l643lydnw9re59gtzzwf5mdq", AssetBTC, true},
		{"eth checksummed", "0x742d35Cc6634C0532925a3b844Bc454e4438f44e", AssetETH, true},
		{"eth lowercase", "0x742d35cc6634c0532925a3b844bc454e4438f44e", AssetETH, true},
		{"eth too short", "0x742d35Cc6634C0532925a3b844Bc454e4438f44", "", false},
		{"eth missing prefix", "742d35Cc6634C0532925a3b844Bc454e4438f44e", "", false},
		{"btc with invalid base58 chars", "1BoatSLRHtKNngkdXEeobR76b53LETtpy0", "", false},
		{"card number", "4441111122223333", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asset, ok := DetectAddressAsset(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.asset, asset)
		})
	}
}

func TestCard_BalanceOf(t *testing.T) {
	fiat := &Card{ID: 1, Type: CardTypeUSD, Balance: decimal.RequireFromString("10.50")}
	crypto := &Card{
		ID: 2, Type: CardTypeCrypto,
		BTCBalance: decimal.RequireFromString("0.5"),
		ETHBalance: decimal.RequireFromString("2"),
	}

	got, err := fiat.BalanceOf(AssetUSD)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("10.50")))

	_, err = fiat.BalanceOf(AssetUAH)
	require.Error(t, err)
	_, err = fiat.BalanceOf(AssetBTC)
	require.Error(t, err)

	got, err = crypto.BalanceOf(AssetBTC)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.RequireFromString("0.5")))

	got, err = crypto.BalanceOf(AssetETH)
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(2)))

	_, err = crypto.BalanceOf(AssetUSD)
	require.Error(t, err)
}

func TestCard_AssetForAddress(t *testing.T) {
	card := &Card{
		ID: 2, Type: CardTypeCrypto,
		BTCAddress: "1BoatSLRHtKNngkdXEeobR76b53LETtpyT",
		ETHAddress: "0x742d35Cc6634C0532925a3b844Bc454e4438f44e",
	}

	asset, ok := card.AssetForAddress(card.BTCAddress)
	assert.True(t, ok)
	assert.Equal(t, AssetBTC, asset)

	asset, ok = card.AssetForAddress(card.ETHAddress)
	assert.True(t, ok)
	assert.Equal(t, AssetETH, asset)

	_, ok = card.AssetForAddress("1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa")
	assert.False(t, ok)

	fiat := &Card{ID: 1, Type: CardTypeUSD, Number: "4441111122223333"}
	_, ok = fiat.AssetForAddress(fiat.Number)
	assert.False(t, ok)
}

func TestTransaction_IsExternal(t *testing.T) {
	destID := int64(2)
	internal := &Transaction{ToCardID: &destID}
	external := &Transaction{Wallet: "1A1zP1eP5QGefi2DMPTfTL5SLmv7DivfNa"}

	assert.False(t, internal.IsExternal())
	assert.True(t, external.IsExternal())
}
