package dto

import (
	"time"

	"multibank/internal/core/domain"
)

// TransferRequest is the request body for a transfer. Amount travels as a
// decimal string so fiat cents and crypto satoshis survive intact.
type TransferRequest struct {
	FromCardID  int64  `json:"from_card_id" binding:"required,gt=0"`
	Destination string `json:"destination" binding:"required,max=128"`
	Amount      string `json:"amount" binding:"required,decimal_amount"`
	Asset       string `json:"asset,omitempty" binding:"omitempty,oneof=btc eth BTC ETH"`
}

// TransactionResponse is the response body for a completed transfer and for
// ledger history rows.
type TransactionResponse struct {
	ID              int64  `json:"id"`
	ReferenceID     string `json:"reference_id"`
	FromCardID      int64  `json:"from_card_id"`
	ToCardID        *int64 `json:"to_card_id,omitempty"`
	Amount          string `json:"amount"`
	ConvertedAmount string `json:"converted_amount"`
	Kind            string `json:"kind"`
	Status          string `json:"status"`
	Description     string `json:"description"`
	FromCardNumber  string `json:"from_card_number"`
	ToCardNumber    string `json:"to_card_number,omitempty"`
	Wallet          string `json:"wallet,omitempty"`
	CreatedAt       string `json:"created_at"`
}

// RatesResponse is the response body for the latest exchange-rate snapshot.
type RatesResponse struct {
	USDToUAH   string `json:"usd_to_uah"`
	BTCToUSD   string `json:"btc_to_usd"`
	ETHToUSD   string `json:"eth_to_usd"`
	ObservedAt string `json:"observed_at"`
}

// HistoryResponse is the paginated ledger history envelope.
type HistoryResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Total        int64                 `json:"total"`
	Page         int                   `json:"page"`
	PageSize     int                   `json:"page_size"`
}

// FromTransaction maps a domain transaction to its wire shape.
func FromTransaction(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		ReferenceID:     t.ReferenceID,
		FromCardID:      t.FromCardID,
		ToCardID:        t.ToCardID,
		Amount:          t.Amount.String(),
		ConvertedAmount: t.ConvertedAmount.String(),
		Kind:            string(t.Kind),
		Status:          string(t.Status),
		Description:     t.Description,
		FromCardNumber:  t.FromCardNumber,
		ToCardNumber:    t.ToCardNumber,
		Wallet:          t.Wallet,
		CreatedAt:       t.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromRate maps a rate snapshot to its wire shape.
func FromRate(r *domain.ExchangeRate) RatesResponse {
	return RatesResponse{
		USDToUAH:   r.USDToUAH.String(),
		BTCToUSD:   r.BTCToUSD.String(),
		ETHToUSD:   r.ETHToUSD.String(),
		ObservedAt: r.ObservedAt.UTC().Format(time.RFC3339),
	}
}
