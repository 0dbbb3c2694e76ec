package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Clients read cost and walletMoney as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// Product is a catalog entry. Cart items hold a copy of it taken at add time.
type Product struct {
	ID        string          `json:"_id"`
	Name      string          `json:"name" validate:"required,max=255"`
	Category  string          `json:"category" validate:"required,max=100"`
	Cost      decimal.Decimal `json:"cost"`
	Rating    int             `json:"rating" validate:"gte=0,lte=5"`
	Image     string          `json:"image" validate:"omitempty,url"`
	CreatedAt time.Time       `json:"createdAt"`
}
