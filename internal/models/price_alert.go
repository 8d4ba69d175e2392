package models

import "github.com/shopspring/decimal"

// PriceAlert is a client-local watch rule on a wishlisted product. It never
// leaves the device.
type PriceAlert struct {
	ProductID    int64           `json:"productId"`
	TargetPrice  decimal.Decimal `json:"targetPrice"`
	CurrentPrice decimal.Decimal `json:"currentPrice"`
	IsActive     bool            `json:"isActive"`
}

// Triggered reports whether an observed price satisfies the alert:
// a positive price at or below the target.
func (a PriceAlert) Triggered(price decimal.Decimal) bool {
	return price.IsPositive() && price.LessThanOrEqual(a.TargetPrice)
}
