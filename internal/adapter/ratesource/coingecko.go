package ratesource

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/shopspring/decimal"
)

// CoinGeckoSource implements ports.CryptoPriceSource against the CoinGecko
// simple-price endpoint.
type CoinGeckoSource struct {
	baseURL string
	client  *http.Client
}

// NewCoinGeckoSource creates a client bounded by timeout per request.
func NewCoinGeckoSource(baseURL string, timeout time.Duration) *CoinGeckoSource {
	return &CoinGeckoSource{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type coinGeckoResponse struct {
	Bitcoin struct {
		USD float64 `json:"usd"`
	} `json:"bitcoin"`
	Ethereum struct {
		USD float64 `json:"usd"`
	} `json:"ethereum"`
}

// FetchUSDPrices fetches spot BTC/USD and ETH/USD.
func (s *CoinGeckoSource) FetchUSDPrices(ctx context.Context) (decimal.Decimal, decimal.Decimal, error) {
	url := s.baseURL + "/api/v3/simple/price?ids=bitcoin,ethereum&vs_currencies=usd"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("build crypto price request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("fetch crypto prices: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, decimal.Zero, fmt.Errorf("crypto price source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("read crypto price response: %w", err)
	}

	var parsed coinGeckoResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, decimal.Zero, fmt.Errorf("parse crypto price response: %w", err)
	}
	if parsed.Bitcoin.USD <= 0 || parsed.Ethereum.USD <= 0 {
		return decimal.Zero, decimal.Zero, fmt.Errorf("crypto price source returned non-positive prices")
	}

	return decimal.NewFromFloat(parsed.Bitcoin.USD), decimal.NewFromFloat(parsed.Ethereum.USD), nil
}
