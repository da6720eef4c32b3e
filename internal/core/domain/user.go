package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// User holds identity plus, for the single regulator user, the accumulated
// commission balance. The regulator balance is denominated in BTC only.
type User struct {
	ID               int64           `json:"id"`
	Username         string          `json:"username"`
	PasswordHash     string          `json:"-"` // provisioned externally, opaque here
	IsRegulator      bool            `json:"is_regulator"`
	RegulatorBalance decimal.Decimal `json:"regulator_balance"`
	CreatedAt        time.Time       `json:"created_at"`
}
