package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// SaleLineRequest línea de venta con el precio acordado.
type SaleLineRequest struct {
	VariantID string          `json:"variant_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// CreateSaleRequest entrada para registrar una venta a un cliente identificado por cédula.
type CreateSaleRequest struct {
	CustomerCedula string            `json:"customer_cedula"`
	Lines          []SaleLineRequest `json:"lines"`
}

// SaleLineResponse salida de una línea de venta.
type SaleLineResponse struct {
	ID        string           `json:"id"`
	VariantID string           `json:"variant_id"`
	Quantity  int              `json:"quantity"`
	UnitPrice decimal.Decimal  `json:"unit_price"`
	Subtotal  decimal.Decimal  `json:"subtotal"`
	Variant   *VariantResponse `json:"variant,omitempty"`
}

// SaleResponse salida de una venta.
type SaleResponse struct {
	ID         string             `json:"id"`
	Code       string             `json:"code"`
	CustomerID string             `json:"customer_id"`
	Total      decimal.Decimal    `json:"total"`
	Status     string             `json:"status"`
	Customer   *UserResponse      `json:"customer,omitempty"`
	Lines      []SaleLineResponse `json:"lines"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// SaleListResponse lista paginada de ventas.
type SaleListResponse struct {
	Items []SaleResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
