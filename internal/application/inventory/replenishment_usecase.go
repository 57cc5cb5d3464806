package inventory

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// ReplenishmentUseCase genera el reporte de variantes con stock bajo, agrupado por proveedor,
// con la cantidad sugerida de pedido para volver a 2× el umbral.
type ReplenishmentUseCase struct {
	analyticsRepo    repository.AnalyticsRepository
	defaultThreshold int
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(analyticsRepo repository.AnalyticsRepository, defaultThreshold int) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{analyticsRepo: analyticsRepo, defaultThreshold: defaultThreshold}
}

// LowStock devuelve las variantes con stock <= threshold. threshold nil usa el valor configurado.
func (uc *ReplenishmentUseCase) LowStock(ctx context.Context, threshold *int) (*dto.LowStockResponse, error) {
	t := uc.defaultThreshold
	if threshold != nil {
		t = *threshold
	}
	if t < 0 {
		return nil, fmt.Errorf("%w: threshold no puede ser negativo", domain.ErrInvalidInput)
	}

	rows, err := uc.analyticsRepo.LowStockVariants(ctx, t)
	if err != nil {
		return nil, err
	}

	bySupplier := make(map[string]*dto.SupplierReorderDTO)
	for _, r := range rows {
		group, ok := bySupplier[r.SupplierID]
		if !ok {
			group = &dto.SupplierReorderDTO{
				SupplierID:    r.SupplierID,
				SupplierName:  r.SupplierName,
				EstimatedCost: decimal.Zero,
			}
			bySupplier[r.SupplierID] = group
		}
		qty := SuggestedQty(t, r.Stock)
		group.Items = append(group.Items, dto.ReorderSuggestionDTO{
			VariantID:         r.VariantID,
			ProductID:         r.ProductID,
			ProductName:       r.ProductName,
			Color:             r.Color,
			Size:              r.Size,
			Stock:             r.Stock,
			SuggestedQty:      qty,
			LastPurchasePrice: r.LastPurchasePrice,
		})
		group.EstimatedCost = group.EstimatedCost.Add(r.LastPurchasePrice.Mul(decimal.NewFromInt(int64(qty))))
	}

	out := &dto.LowStockResponse{Threshold: t, Suppliers: make([]dto.SupplierReorderDTO, 0, len(bySupplier))}
	for _, g := range bySupplier {
		// Primero las variantes más agotadas.
		sort.SliceStable(g.Items, func(i, j int) bool {
			if g.Items[i].Stock != g.Items[j].Stock {
				return g.Items[i].Stock < g.Items[j].Stock
			}
			return g.Items[i].VariantID < g.Items[j].VariantID
		})
		out.Suppliers = append(out.Suppliers, *g)
	}
	sort.Slice(out.Suppliers, func(i, j int) bool {
		if out.Suppliers[i].SupplierName != out.Suppliers[j].SupplierName {
			return out.Suppliers[i].SupplierName < out.Suppliers[j].SupplierName
		}
		return out.Suppliers[i].SupplierID < out.Suppliers[j].SupplierID
	})
	return out, nil
}

// SuggestedQty cantidad a pedir para llegar a 2× el umbral; nunca menos de 1.
func SuggestedQty(threshold, stock int) int {
	q := 2*threshold - stock
	if q < 1 {
		return 1
	}
	return q
}
