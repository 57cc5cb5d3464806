package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.PurchaseOrderRepository = (*PurchaseOrderRepo)(nil)

const orderColumns = `id, supplier_id, date, status, created_at, updated_at`

// PurchaseOrderRepo implementación de PurchaseOrderRepository sobre PostgreSQL.
type PurchaseOrderRepo struct {
	q Querier
}

// NewPurchaseOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPurchaseOrderRepository(q Querier) *PurchaseOrderRepo {
	return &PurchaseOrderRepo{q: q}
}

// Create inserta cabecera y líneas.
func (r *PurchaseOrderRepo) Create(ctx context.Context, o *entity.PurchaseOrder) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO purchase_orders (`+orderColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		o.ID, o.SupplierID, o.Date, o.Status, o.CreatedAt, o.UpdatedAt)
	if err != nil {
		return mapWriteError("insert purchase order", err)
	}
	return r.insertLines(ctx, o.ID, o.Lines)
}

func (r *PurchaseOrderRepo) GetByID(ctx context.Context, id string, plan repository.FetchPlan) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1`, id, plan)
}

// GetForUpdate bloquea la cabecera (FOR UPDATE) y devuelve la orden con sus líneas.
func (r *PurchaseOrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM purchase_orders WHERE id = $1 FOR UPDATE`, id, repository.FetchLines)
}

func (r *PurchaseOrderRepo) List(ctx context.Context, filter repository.PurchaseOrderFilter, limit, offset int, plan repository.FetchPlan) ([]*entity.PurchaseOrder, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+orderColumns+`
		FROM purchase_orders
		WHERE ($1 = '' OR supplier_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY date DESC, created_at DESC, id
		LIMIT $3 OFFSET $4`,
		filter.SupplierID, string(filter.Status), limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	var list []*entity.PurchaseOrder
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan purchase order: %w", err)
		}
		list = append(list, o)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list purchase orders: %w", err)
	}
	if err := r.load(ctx, list, plan); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateHeader persiste proveedor, fecha y estado.
func (r *PurchaseOrderRepo) UpdateHeader(ctx context.Context, o *entity.PurchaseOrder) error {
	cmd, err := r.q.Exec(ctx,
		`UPDATE purchase_orders SET supplier_id = $2, date = $3, status = $4, updated_at = $5 WHERE id = $1`,
		o.ID, o.SupplierID, o.Date, o.Status, o.UpdatedAt)
	if err != nil {
		return mapWriteError("update purchase order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("orden de compra", o.ID)
	}
	return nil
}

// ReplaceLines borra las líneas de la orden e inserta las nuevas.
func (r *PurchaseOrderRepo) ReplaceLines(ctx context.Context, orderID string, lines []*entity.OrderLine) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM purchase_order_lines WHERE order_id = $1`, orderID); err != nil {
		return fmt.Errorf("delete purchase order lines: %w", err)
	}
	return r.insertLines(ctx, orderID, lines)
}

// Delete elimina la orden; las líneas caen en cascada.
func (r *PurchaseOrderRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete purchase order", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("orden de compra", id)
	}
	return nil
}

func (r *PurchaseOrderRepo) insertLines(ctx context.Context, orderID string, lines []*entity.OrderLine) error {
	if len(lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, l := range lines {
		l.OrderID = orderID
		batch.Queue(`
			INSERT INTO purchase_order_lines (id, order_id, line_no, variant_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, orderID, i+1, l.VariantID, l.Quantity, l.UnitPrice)
	}
	return execBatch(ctx, r.q, batch, "insert purchase order line")
}

func (r *PurchaseOrderRepo) getOne(ctx context.Context, query, id string, plan repository.FetchPlan) (*entity.PurchaseOrder, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get purchase order: %w", err)
	}
	if err := r.load(ctx, []*entity.PurchaseOrder{o}, plan); err != nil {
		return nil, err
	}
	return o, nil
}

func (r *PurchaseOrderRepo) load(ctx context.Context, orders []*entity.PurchaseOrder, plan repository.FetchPlan) error {
	if len(orders) == 0 {
		return nil
	}
	ids := make([]string, 0, len(orders))
	supplierIDs := make([]string, 0, len(orders))
	byID := make(map[string]*entity.PurchaseOrder, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID)
		supplierIDs = append(supplierIDs, o.SupplierID)
		byID[o.ID] = o
	}

	if plan.Has(repository.FetchParties) {
		suppliers, err := suppliersByID(ctx, r.q, unique(supplierIDs))
		if err != nil {
			return err
		}
		for _, o := range orders {
			o.Supplier = suppliers[o.SupplierID]
		}
	}
	if !plan.Has(repository.FetchLines) {
		return nil
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, order_id, variant_id, quantity, unit_price
		FROM purchase_order_lines WHERE order_id = ANY($1) ORDER BY order_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("load purchase order lines: %w", err)
	}
	var variantIDs []string
	var all []*entity.OrderLine
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.ID, &l.OrderID, &l.VariantID, &l.Quantity, &l.UnitPrice); err != nil {
			rows.Close()
			return fmt.Errorf("scan purchase order line: %w", err)
		}
		byID[l.OrderID].Lines = append(byID[l.OrderID].Lines, &l)
		variantIDs = append(variantIDs, l.VariantID)
		all = append(all, &l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load purchase order lines: %w", err)
	}

	if plan.Has(repository.FetchVariants) {
		variants, err := variantsByID(ctx, r.q, variantIDs, plan)
		if err != nil {
			return err
		}
		for _, l := range all {
			l.Variant = variants[l.VariantID]
		}
	}
	return nil
}

func scanOrder(row pgx.Row) (*entity.PurchaseOrder, error) {
	var o entity.PurchaseOrder
	if err := row.Scan(&o.ID, &o.SupplierID, &o.Date, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	o.Lines = []*entity.OrderLine{}
	return &o, nil
}

// execBatch envía el batch y revisa el resultado de cada sentencia.
func execBatch(ctx context.Context, q Querier, batch *pgx.Batch, op string) error {
	br := q.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			_ = br.Close()
			return mapWriteError(op, err)
		}
	}
	return br.Close()
}
