package memory

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// AnalyticsRepository implementa repository.AnalyticsRepository recorriendo el estado.
type AnalyticsRepository struct {
	h handle
}

func inRange(t, from, to time.Time) bool {
	return !t.Before(from) && t.Before(to)
}

func (r *AnalyticsRepository) SalesSummary(_ context.Context, from, to time.Time) (*repository.SalesSummaryResult, error) {
	out := &repository.SalesSummaryResult{Revenue: decimal.Zero, CountByStatus: map[string]int{}}
	err := r.h.read(func(st *state) error {
		for _, s := range st.sales {
			if !inRange(s.CreatedAt, from, to) {
				continue
			}
			out.CountByStatus[string(s.Status)]++
			if s.Status == entity.StatusConfirmed {
				out.Revenue = out.Revenue.Add(s.Total)
			}
			if s.Status != entity.StatusCancelled {
				for _, l := range s.Lines {
					out.UnitsCommitted += l.Quantity
				}
			}
		}
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) TopVariants(_ context.Context, from, to time.Time, limit int) ([]repository.TopVariantResult, error) {
	var out []repository.TopVariantResult
	err := r.h.read(func(st *state) error {
		byVariant := make(map[string]*repository.TopVariantResult)
		for _, s := range st.sales {
			if s.Status == entity.StatusCancelled || !inRange(s.CreatedAt, from, to) {
				continue
			}
			for _, l := range s.Lines {
				row, ok := byVariant[l.VariantID]
				if !ok {
					row = &repository.TopVariantResult{VariantID: l.VariantID, Revenue: decimal.Zero}
					if v, ok := st.variants[l.VariantID]; ok {
						row.ProductID, row.Color, row.Size = v.ProductID, v.Color, v.Size
						if p, ok := st.products[v.ProductID]; ok {
							row.ProductName = p.Name
						}
					}
					byVariant[l.VariantID] = row
				}
				row.UnitsSold += l.Quantity
				row.Revenue = row.Revenue.Add(l.Subtotal())
			}
		}
		out = make([]repository.TopVariantResult, 0, len(byVariant))
		for _, row := range byVariant {
			out = append(out, *row)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].UnitsSold != out[j].UnitsSold {
				return out[i].UnitsSold > out[j].UnitsSold
			}
			if !out[i].Revenue.Equal(out[j].Revenue) {
				return out[i].Revenue.GreaterThan(out[j].Revenue)
			}
			return out[i].VariantID < out[j].VariantID
		})
		out = page(out, limit, 0)
		return nil
	})
	return out, err
}

func (r *AnalyticsRepository) LowStockVariants(_ context.Context, threshold int) ([]repository.LowStockResult, error) {
	var out []repository.LowStockResult
	err := r.h.read(func(st *state) error {
		out = make([]repository.LowStockResult, 0)
		for _, v := range st.variants {
			if v.Stock > threshold {
				continue
			}
			row := repository.LowStockResult{
				VariantID:         v.ID,
				ProductID:         v.ProductID,
				Color:             v.Color,
				Size:              v.Size,
				Stock:             v.Stock,
				LastPurchasePrice: st.lastPurchasePrice(v.ID),
			}
			if p, ok := st.products[v.ProductID]; ok {
				row.ProductName = p.Name
				row.SupplierID = p.SupplierID
				if s, ok := st.suppliers[p.SupplierID]; ok {
					row.SupplierName = s.Name
				}
			}
			out = append(out, row)
		}
		sort.Slice(out, func(i, j int) bool {
			if out[i].Stock != out[j].Stock {
				return out[i].Stock < out[j].Stock
			}
			return out[i].VariantID < out[j].VariantID
		})
		return nil
	})
	return out, err
}

// lastPurchasePrice precio unitario de la orden confirmada más reciente que incluye la variante.
func (st *state) lastPurchasePrice(variantID string) decimal.Decimal {
	var latest *entity.PurchaseOrder
	price := decimal.Zero
	for _, o := range st.orders {
		if o.Status != entity.StatusConfirmed {
			continue
		}
		for _, l := range o.Lines {
			if l.VariantID != variantID {
				continue
			}
			if latest == nil || o.Date.After(latest.Date) ||
				(o.Date.Equal(latest.Date) && o.UpdatedAt.After(latest.UpdatedAt)) {
				latest = o
				price = l.UnitPrice
			}
		}
	}
	return price
}
