package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// SalesSummaryResult agregados de ventas en un período. Revenue solo cuenta ventas confirmadas.
type SalesSummaryResult struct {
	Revenue        decimal.Decimal
	CountByStatus  map[string]int
	UnitsCommitted int // unidades en ventas pending + confirmed
}

// TopVariantResult unidades e ingreso por variante (ventas pending + confirmed).
type TopVariantResult struct {
	VariantID   string
	ProductID   string
	ProductName string
	Color       string
	Size        string
	UnitsSold   int
	Revenue     decimal.Decimal
}

// LowStockResult variante con stock bajo el umbral, con su proveedor y el último precio de compra.
type LowStockResult struct {
	VariantID         string
	ProductID         string
	ProductName       string
	Color             string
	Size              string
	Stock             int
	SupplierID        string
	SupplierName      string
	LastPurchasePrice decimal.Decimal // cero si nunca se confirmó una orden con la variante
}

// AnalyticsRepository consultas de solo lectura para reportes.
type AnalyticsRepository interface {
	SalesSummary(ctx context.Context, from, to time.Time) (*SalesSummaryResult, error)
	TopVariants(ctx context.Context, from, to time.Time, limit int) ([]TopVariantResult, error)
	LowStockVariants(ctx context.Context, threshold int) ([]LowStockResult, error)
}
