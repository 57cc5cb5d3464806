package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PurchaseOrder orden de compra a un proveedor. Confirmarla ingresa al stock las cantidades de sus líneas.
type PurchaseOrder struct {
	ID         string
	SupplierID string
	Date       time.Time
	Status     Status
	CreatedAt  time.Time
	UpdatedAt  time.Time

	Supplier *Supplier
	Lines    []*OrderLine
}

// OrderLine línea de una orden de compra.
type OrderLine struct {
	ID        string
	OrderID   string
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal

	Variant *Variant
}

// Total suma cantidad × precio de todas las líneas cargadas.
func (o *PurchaseOrder) Total() decimal.Decimal {
	total := decimal.Zero
	for _, l := range o.Lines {
		total = total.Add(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	return total
}
