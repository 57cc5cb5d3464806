package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderLineRequest línea de orden de compra.
type OrderLineRequest struct {
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// PurchaseOrderRequest entrada para crear o reemplazar una orden de compra.
// Date vacío toma la fecha actual.
type PurchaseOrderRequest struct {
	SupplierID string             `json:"supplier_id"`
	Date       *time.Time         `json:"date"`
	Lines      []OrderLineRequest `json:"lines"`
}

// StatusRequest cambio de estado de una orden o venta.
type StatusRequest struct {
	Status string `json:"status"`
}

// OrderLineResponse salida de una línea de orden.
type OrderLineResponse struct {
	ID        string           `json:"id"`
	VariantID string           `json:"variant_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Variant   *VariantResponse `json:"variant,omitempty"`
}

// PurchaseOrderResponse salida de una orden de compra.
type PurchaseOrderResponse struct {
	ID         string              `json:"id"`
	SupplierID string              `json:"supplier_id"`
	Date       time.Time           `json:"date"`
	Status     string              `json:"status"`
	Total      decimal.Decimal     `json:"total"`
	Supplier   *SupplierResponse   `json:"supplier,omitempty"`
	Lines      []OrderLineResponse `json:"lines"`
	CreatedAt  time.Time           `json:"created_at"`
	UpdatedAt  time.Time           `json:"updated_at"`
}

// PurchaseOrderListResponse lista paginada de órdenes.
type PurchaseOrderListResponse struct {
	Items []PurchaseOrderResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}
