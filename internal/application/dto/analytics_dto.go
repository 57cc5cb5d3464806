package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// TopVariantDTO variante más vendida en el período.
type TopVariantDTO struct {
	VariantID   string          `json:"variant_id"`
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Color       string          `json:"color"`
	Size        string          `json:"size"`
	UnitsSold   int             `json:"units_sold"`
	Revenue     decimal.Decimal `json:"revenue"`
}

// SalesReportResponse resumen de ventas del período.
type SalesReportResponse struct {
	From           time.Time       `json:"from"`
	To             time.Time       `json:"to"`
	Revenue        decimal.Decimal `json:"revenue"` // solo ventas confirmadas
	CountByStatus  map[string]int  `json:"count_by_status"`
	UnitsCommitted int             `json:"units_committed"`
	TopVariants    []TopVariantDTO `json:"top_variants"`
}

// ReorderSuggestionDTO variante a reponer con la cantidad sugerida.
type ReorderSuggestionDTO struct {
	VariantID         string          `json:"variant_id"`
	ProductID         string          `json:"product_id"`
	ProductName       string          `json:"product_name"`
	Color             string          `json:"color"`
	Size              string          `json:"size"`
	Stock             int             `json:"stock"`
	SuggestedQty      int             `json:"suggested_qty"`
	LastPurchasePrice decimal.Decimal `json:"last_purchase_price"`
}

// SupplierReorderDTO sugerencias agrupadas por proveedor, listas para armar una orden de compra.
type SupplierReorderDTO struct {
	SupplierID    string                 `json:"supplier_id"`
	SupplierName  string                 `json:"supplier_name"`
	EstimatedCost decimal.Decimal        `json:"estimated_cost"`
	Items         []ReorderSuggestionDTO `json:"items"`
}

// LowStockResponse reporte de stock bajo.
type LowStockResponse struct {
	Threshold int                  `json:"threshold"`
	Suppliers []SupplierReorderDTO `json:"suppliers"`
}
