package apperror

import (
	"fmt"
	"net/http"
)

// AppError is a structured error that maps to HTTP responses.
type AppError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	HTTPStatus int    `json:"-"`
	Err        error  `json:"-"` // Wrapped internal error (not exposed to client)
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New creates a new AppError.
func New(code string, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
	}
}

// Wrap wraps an internal error with an AppError.
func Wrap(code string, message string, httpStatus int, err error) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Err:        err,
	}
}

// ---- Validation (VAL) ----

func ErrInvalidAmount() *AppError {
	return New("VAL_001", "Amount must be a positive number", http.StatusBadRequest)
}

func ErrInvalidDestination(dest string) *AppError {
	return New("VAL_002", fmt.Sprintf("Destination %q is not a card number or a valid crypto address", dest), http.StatusBadRequest)
}

func ErrSameAccount() *AppError {
	return New("VAL_003", "Source and destination are the same account", http.StatusBadRequest)
}

func ErrSourceAssetRequired() *AppError {
	return New("VAL_004", "Source asset (btc or eth) is required for this transfer", http.StatusBadRequest)
}

func ErrInvalidAsset(asset string) *AppError {
	return New("VAL_005", fmt.Sprintf("Unknown asset %q", asset), http.StatusBadRequest)
}

// ---- Transfer business logic (TRF) ----

func ErrCardNotFound(cardID int64) *AppError {
	return New("TRF_001", fmt.Sprintf("Card %d not found", cardID), http.StatusNotFound)
}

func ErrInsufficientFunds(available, required string, asset string) *AppError {
	return New("TRF_002",
		fmt.Sprintf("Insufficient funds: available %s %s, required %s %s (amount plus commission)",
			available, asset, required, asset),
		http.StatusPaymentRequired)
}

func ErrAssetNotHeld(asset string) *AppError {
	return New("TRF_003", fmt.Sprintf("Card does not hold a %s balance", asset), http.StatusBadRequest)
}

// ---- Rate feed (RATE) ----

func ErrRatesUnavailable() *AppError {
	return New("RATE_001", "Exchange rates are currently unavailable", http.StatusServiceUnavailable)
}

func ErrRatesStale() *AppError {
	return New("RATE_002", "Exchange rates are stale", http.StatusServiceUnavailable)
}

// ---- Fatal configuration (CFG) ----

func ErrRegulatorMissing() *AppError {
	return New("CFG_001", "Regulator account is not provisioned", http.StatusInternalServerError)
}

// ---- System & infrastructure (SYS) ----

func ErrDatabaseError(err error) *AppError {
	return Wrap("SYS_001", "Internal database error", http.StatusInternalServerError, err)
}

// InternalError wraps an internal error as a SYS_001 error.
func InternalError(err error) *AppError {
	return Wrap("SYS_001", "Internal server error", http.StatusInternalServerError, err)
}

// Validation returns a VAL_001-style validation error with a custom message.
func Validation(message string) *AppError {
	return New("VAL_001", message, http.StatusBadRequest)
}
