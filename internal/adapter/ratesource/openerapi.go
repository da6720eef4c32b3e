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

// OpenERSource implements ports.FiatRateSource against the open.er-api.com
// latest-rates endpoint.
type OpenERSource struct {
	baseURL string
	client  *http.Client
}

// NewOpenERSource creates a client bounded by timeout per request.
func NewOpenERSource(baseURL string, timeout time.Duration) *OpenERSource {
	return &OpenERSource{
		baseURL: baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type openERResponse struct {
	Result string             `json:"result"`
	Rates  map[string]float64 `json:"rates"`
}

// FetchUSDToUAH fetches the USD/UAH rate.
func (s *OpenERSource) FetchUSDToUAH(ctx context.Context) (decimal.Decimal, error) {
	url := s.baseURL + "/v6/latest/USD"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("build fiat rate request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch fiat rate: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("fiat rate source returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return decimal.Zero, fmt.Errorf("read fiat rate response: %w", err)
	}

	var parsed openERResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return decimal.Zero, fmt.Errorf("parse fiat rate response: %w", err)
	}
	if parsed.Result != "success" {
		return decimal.Zero, fmt.Errorf("fiat rate source returned result %q", parsed.Result)
	}

	uah, ok := parsed.Rates["UAH"]
	if !ok || uah <= 0 {
		return decimal.Zero, fmt.Errorf("fiat rate source returned no usable UAH rate")
	}
	return decimal.NewFromFloat(uah), nil
}
