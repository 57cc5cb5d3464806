package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.AnalyticsRepository = (*AnalyticsRepo)(nil)

// AnalyticsRepo consultas de reporte sobre ventas, variantes y órdenes confirmadas.
type AnalyticsRepo struct {
	q Querier
}

// NewAnalyticsRepository construye el adaptador. Pasar pool o tx (Querier).
func NewAnalyticsRepository(q Querier) *AnalyticsRepo {
	return &AnalyticsRepo{q: q}
}

// SalesSummary cuenta ventas por estado en [from, to). Revenue solo suma las confirmadas;
// UnitsCommitted suma las unidades de ventas no canceladas.
func (r *AnalyticsRepo) SalesSummary(ctx context.Context, from, to time.Time) (*repository.SalesSummaryResult, error) {
	out := &repository.SalesSummaryResult{Revenue: decimal.Zero, CountByStatus: map[string]int{}}

	rows, err := r.q.Query(ctx, `
		SELECT status, COUNT(*), COALESCE(SUM(total), 0)
		FROM sales
		WHERE created_at >= $1 AND created_at < $2
		GROUP BY status`, from, to)
	if err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}
	for rows.Next() {
		var (
			status string
			count  int
			total  decimal.Decimal
		)
		if err := rows.Scan(&status, &count, &total); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sales summary: %w", err)
		}
		out.CountByStatus[status] = count
		if status == "confirmed" {
			out.Revenue = total
		}
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sales summary: %w", err)
	}

	err = r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(sl.quantity), 0)
		FROM sale_lines sl
		JOIN sales s ON s.id = sl.sale_id
		WHERE s.status <> 'cancelled' AND s.created_at >= $1 AND s.created_at < $2`, from, to).
		Scan(&out.UnitsCommitted)
	if err != nil {
		return nil, fmt.Errorf("units committed: %w", err)
	}
	return out, nil
}

// TopVariants ranking de variantes por unidades en ventas no canceladas.
func (r *AnalyticsRepo) TopVariants(ctx context.Context, from, to time.Time, limit int) ([]repository.TopVariantResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.id, p.id, p.name, v.color, v.size,
		       SUM(sl.quantity)                 AS units,
		       SUM(sl.quantity * sl.unit_price) AS revenue
		FROM sale_lines sl
		JOIN sales s    ON s.id = sl.sale_id
		JOIN variants v ON v.id = sl.variant_id
		JOIN products p ON p.id = v.product_id
		WHERE s.status <> 'cancelled' AND s.created_at >= $1 AND s.created_at < $2
		GROUP BY v.id, p.id, p.name, v.color, v.size
		ORDER BY units DESC, revenue DESC, v.id
		LIMIT $3`, from, to, limitArg(limit))
	if err != nil {
		return nil, fmt.Errorf("top variants: %w", err)
	}
	defer rows.Close()

	out := make([]repository.TopVariantResult, 0)
	for rows.Next() {
		var t repository.TopVariantResult
		if err := rows.Scan(&t.VariantID, &t.ProductID, &t.ProductName, &t.Color, &t.Size, &t.UnitsSold, &t.Revenue); err != nil {
			return nil, fmt.Errorf("scan top variant: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// LowStockVariants variantes con stock <= threshold con su proveedor y el precio de la
// orden confirmada más reciente que las incluye.
func (r *AnalyticsRepo) LowStockVariants(ctx context.Context, threshold int) ([]repository.LowStockResult, error) {
	rows, err := r.q.Query(ctx, `
		SELECT v.id, p.id, p.name, v.color, v.size, v.stock, s.id, s.name,
		       COALESCE(lp.unit_price, 0)
		FROM variants v
		JOIN products p  ON p.id = v.product_id
		JOIN suppliers s ON s.id = p.supplier_id
		LEFT JOIN LATERAL (
		    SELECT pol.unit_price
		    FROM purchase_order_lines pol
		    JOIN purchase_orders po ON po.id = pol.order_id
		    WHERE pol.variant_id = v.id AND po.status = 'confirmed'
		    ORDER BY po.date DESC, po.updated_at DESC
		    LIMIT 1
		) lp ON TRUE
		WHERE v.stock <= $1
		ORDER BY v.stock, v.id`, threshold)
	if err != nil {
		return nil, fmt.Errorf("low stock variants: %w", err)
	}
	defer rows.Close()

	out := make([]repository.LowStockResult, 0)
	for rows.Next() {
		var l repository.LowStockResult
		if err := rows.Scan(&l.VariantID, &l.ProductID, &l.ProductName, &l.Color, &l.Size, &l.Stock,
			&l.SupplierID, &l.SupplierName, &l.LastPurchasePrice); err != nil {
			return nil, fmt.Errorf("scan low stock variant: %w", err)
		}
		out = append(out, l)
	}
	return out, rows.Err()
}
