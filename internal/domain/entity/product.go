package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product producto del catálogo. Lo vendible es cada Variant; el producto solo agrupa.
type Product struct {
	ID          string
	Name        string
	Description string
	Price       decimal.Decimal // precio de lista
	SupplierID  string
	ImageURL    string
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Relaciones cargadas según el FetchPlan.
	CategoryIDs []string
	Categories  []*Category
	Supplier    *Supplier
	Variants    []*Variant
}

// Variant configuración vendible (color + talla) de un producto con su stock.
// Stock nunca es negativo y solo cambia por los flujos de venta y orden de compra.
type Variant struct {
	ID        string
	ProductID string
	Color     string
	Size      string
	Stock     int
	CreatedAt time.Time
	UpdatedAt time.Time

	Product *Product
}
