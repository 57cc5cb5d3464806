package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.VariantRepository = (*VariantRepo)(nil)

const variantColumns = `id, product_id, color, size, stock, created_at, updated_at`

// VariantRepo implementación de VariantRepository sobre PostgreSQL.
type VariantRepo struct {
	q Querier
}

// NewVariantRepository construye el adaptador. Pasar pool o tx (Querier).
func NewVariantRepository(q Querier) *VariantRepo {
	return &VariantRepo{q: q}
}

func (r *VariantRepo) Create(ctx context.Context, v *entity.Variant) error {
	_, err := r.q.Exec(ctx,
		`INSERT INTO variants (`+variantColumns+`) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		v.ID, v.ProductID, v.Color, v.Size, v.Stock, v.CreatedAt, v.UpdatedAt)
	if err != nil {
		if isStockCheckViolation(err) {
			return &domain.StockError{VariantID: v.ID, Available: 0, Requested: -v.Stock}
		}
		return mapWriteError("insert variant", err)
	}
	return nil
}

func (r *VariantRepo) GetByID(ctx context.Context, id string, plan repository.FetchPlan) (*entity.Variant, error) {
	v, err := scanVariant(r.q.QueryRow(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get variant: %w", err)
	}
	if err := loadVariants(ctx, r.q, []*entity.Variant{v}, plan); err != nil {
		return nil, err
	}
	return v, nil
}

func (r *VariantRepo) ListByProduct(ctx context.Context, productID string) ([]*entity.Variant, error) {
	if len(validIDs([]string{productID})) == 0 {
		return nil, nil
	}
	byProduct, err := variantsByProduct(ctx, r.q, []string{productID})
	if err != nil {
		return nil, err
	}
	return byProduct[productID], nil
}

// Update persiste color y talla. El stock solo lo cambia AdjustStock.
func (r *VariantRepo) Update(ctx context.Context, v *entity.Variant) error {
	cmd, err := r.q.Exec(ctx, `UPDATE variants SET color = $2, size = $3, updated_at = $4 WHERE id = $1`,
		v.ID, v.Color, v.Size, v.UpdatedAt)
	if err != nil {
		return mapWriteError("update variant", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("variante", v.ID)
	}
	return nil
}

func (r *VariantRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM variants WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete variant", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("variante", id)
	}
	return nil
}

// LockForUpdate bloquea las variantes en orden de id para que dos transacciones concurrentes
// no se crucen, y devuelve cada una con su producto.
func (r *VariantRepo) LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Variant, error) {
	out := make(map[string]*entity.Variant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	sorted := validIDs(ids)
	if len(sorted) == 0 {
		return out, nil
	}
	sort.Strings(sorted)

	rows, err := r.q.Query(ctx,
		`SELECT `+variantColumns+` FROM variants WHERE id = ANY($1) ORDER BY id FOR UPDATE`, sorted)
	if err != nil {
		return nil, fmt.Errorf("lock variants: %w", err)
	}
	list := make([]*entity.Variant, 0, len(sorted))
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		list = append(list, v)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lock variants: %w", err)
	}
	if err := loadVariants(ctx, r.q, list, repository.FetchProducts); err != nil {
		return nil, err
	}
	for _, v := range list {
		out[v.ID] = v
	}
	return out, nil
}

// AdjustStock aplica delta con un UPDATE condicional: nunca deja stock negativo.
func (r *VariantRepo) AdjustStock(ctx context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.q.QueryRow(ctx, `
		UPDATE variants SET stock = stock + $2, updated_at = NOW()
		WHERE id = $1 AND stock + $2 >= 0
		RETURNING stock`, id, delta).Scan(&stock)
	if err == nil {
		return stock, nil
	}
	if isInvalidTextRepresentation(err) {
		return 0, domain.NewNotFound("variante", id)
	}
	if !isNoRows(err) {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}

	// Sin fila actualizada: o no existe o el stock no alcanza.
	var available int
	err = r.q.QueryRow(ctx, `SELECT stock FROM variants WHERE id = $1`, id).Scan(&available)
	if isNoRows(err) {
		return 0, domain.NewNotFound("variante", id)
	}
	if err != nil {
		return 0, fmt.Errorf("adjust stock: %w", err)
	}
	return 0, &domain.StockError{VariantID: id, Available: available, Requested: -delta}
}

func scanVariant(row pgx.Row) (*entity.Variant, error) {
	var v entity.Variant
	if err := row.Scan(&v.ID, &v.ProductID, &v.Color, &v.Size, &v.Stock, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, err
	}
	return &v, nil
}
