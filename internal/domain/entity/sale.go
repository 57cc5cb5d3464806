package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Longitud del código legible de una venta.
const SaleCodeLength = 8

// Sale venta a un cliente. Total se calcula al crear y no se edita después.
type Sale struct {
	ID         string
	Code       string
	CustomerID string
	Total      decimal.Decimal
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Customer *User
	Lines    []*SaleLine
}

// SaleLine línea de venta con el precio capturado al momento de vender.
type SaleLine struct {
	ID        string
	SaleID    string
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal

	Variant *Variant
}

// Subtotal cantidad × precio unitario.
func (l *SaleLine) Subtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
