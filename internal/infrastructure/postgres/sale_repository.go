package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.SaleRepository = (*SaleRepo)(nil)

const saleColumns = `id, code, customer_id, total, status, created_at, updated_at`

// SaleRepo implementación de SaleRepository sobre PostgreSQL.
type SaleRepo struct {
	q Querier
}

// NewSaleRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSaleRepository(q Querier) *SaleRepo {
	return &SaleRepo{q: q}
}

// Create inserta cabecera y líneas. Un código repetido viola el UNIQUE y devuelve ErrDuplicate.
func (r *SaleRepo) Create(ctx context.Context, s *entity.Sale) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO sales (`+saleColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		s.ID, s.Code, s.CustomerID, s.Total, s.Status, s.CreatedAt, s.UpdatedAt)
	if err != nil {
		return mapWriteError("insert sale", err)
	}
	if len(s.Lines) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for i, l := range s.Lines {
		l.SaleID = s.ID
		batch.Queue(`
			INSERT INTO sale_lines (id, sale_id, line_no, variant_id, quantity, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			l.ID, s.ID, i+1, l.VariantID, l.Quantity, l.UnitPrice)
	}
	return execBatch(ctx, r.q, batch, "insert sale line")
}

func (r *SaleRepo) GetByID(ctx context.Context, id string, plan repository.FetchPlan) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id, plan)
}

func (r *SaleRepo) GetByCode(ctx context.Context, code string, plan repository.FetchPlan) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE code = $1`, code, plan)
}

func (r *SaleRepo) LockByCode(ctx context.Context, code string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE code = $1 FOR UPDATE`, code, repository.FetchLines)
}

func (r *SaleRepo) LockByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.getOne(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1 FOR UPDATE`, id, repository.FetchLines)
}

func (r *SaleRepo) CodeExists(ctx context.Context, code string) (bool, error) {
	var exists bool
	if err := r.q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM sales WHERE code = $1)`, code).Scan(&exists); err != nil {
		return false, fmt.Errorf("check sale code: %w", err)
	}
	return exists, nil
}

func (r *SaleRepo) List(ctx context.Context, filter repository.SaleFilter, limit, offset int, plan repository.FetchPlan) ([]*entity.Sale, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+saleColumns+`
		FROM sales
		WHERE ($1 = '' OR customer_id::text = $1) AND ($2 = '' OR status = $2)
		ORDER BY created_at DESC, id
		LIMIT $3 OFFSET $4`,
		filter.CustomerID, string(filter.Status), limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	var list []*entity.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		list = append(list, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	if err := r.load(ctx, list, plan); err != nil {
		return nil, err
	}
	return list, nil
}

func (r *SaleRepo) UpdateStatus(ctx context.Context, id string, status entity.Status) error {
	cmd, err := r.q.Exec(ctx, `UPDATE sales SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	if err != nil {
		return mapWriteError("update sale status", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("venta", id)
	}
	return nil
}

// Delete elimina la venta; las líneas caen en cascada.
func (r *SaleRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete sale", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("venta", id)
	}
	return nil
}

func (r *SaleRepo) getOne(ctx context.Context, query, key string, plan repository.FetchPlan) (*entity.Sale, error) {
	s, err := scanSale(r.q.QueryRow(ctx, query, key))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sale: %w", err)
	}
	if err := r.load(ctx, []*entity.Sale{s}, plan); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *SaleRepo) load(ctx context.Context, sales []*entity.Sale, plan repository.FetchPlan) error {
	if len(sales) == 0 {
		return nil
	}
	ids := make([]string, 0, len(sales))
	customerIDs := make([]string, 0, len(sales))
	byID := make(map[string]*entity.Sale, len(sales))
	for _, s := range sales {
		ids = append(ids, s.ID)
		customerIDs = append(customerIDs, s.CustomerID)
		byID[s.ID] = s
	}

	if plan.Has(repository.FetchParties) {
		rows, err := r.q.Query(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1)`, unique(customerIDs))
		if err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		customers := make(map[string]*entity.User)
		for rows.Next() {
			u, err := scanUser(rows)
			if err != nil {
				rows.Close()
				return fmt.Errorf("scan customer: %w", err)
			}
			customers[u.ID] = u
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("load customers: %w", err)
		}
		for _, s := range sales {
			s.Customer = customers[s.CustomerID]
		}
	}
	if !plan.Has(repository.FetchLines) {
		return nil
	}

	rows, err := r.q.Query(ctx, `
		SELECT id, sale_id, variant_id, quantity, unit_price
		FROM sale_lines WHERE sale_id = ANY($1) ORDER BY sale_id, line_no`, ids)
	if err != nil {
		return fmt.Errorf("load sale lines: %w", err)
	}
	var variantIDs []string
	var all []*entity.SaleLine
	for rows.Next() {
		var l entity.SaleLine
		if err := rows.Scan(&l.ID, &l.SaleID, &l.VariantID, &l.Quantity, &l.UnitPrice); err != nil {
			rows.Close()
			return fmt.Errorf("scan sale line: %w", err)
		}
		byID[l.SaleID].Lines = append(byID[l.SaleID].Lines, &l)
		variantIDs = append(variantIDs, l.VariantID)
		all = append(all, &l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load sale lines: %w", err)
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

func scanSale(row pgx.Row) (*entity.Sale, error) {
	var s entity.Sale
	if err := row.Scan(&s.ID, &s.Code, &s.CustomerID, &s.Total, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	s.Lines = []*entity.SaleLine{}
	return &s, nil
}
