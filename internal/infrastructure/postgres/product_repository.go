package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

var _ repository.ProductRepository = (*ProductRepo)(nil)

const productColumns = `p.id, p.name, p.description, p.price, p.supplier_id, p.image_url, p.created_at, p.updated_at`

// ProductRepo implementación del puerto ProductRepository sobre PostgreSQL (usable con pool o tx).
type ProductRepo struct {
	q Querier
}

// NewProductRepository construye el adaptador de persistencia para productos. Pasar pool o tx (Querier).
func NewProductRepository(q Querier) *ProductRepo {
	return &ProductRepo{q: q}
}

// Create persiste el producto y sus vínculos con categorías.
func (r *ProductRepo) Create(ctx context.Context, product *entity.Product) error {
	query := `
		INSERT INTO products (id, name, description, price, supplier_id, image_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.SupplierID, product.ImageURL,
		product.CreatedAt, product.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("insert product", err)
	}
	return r.insertCategoryLinks(ctx, product.ID, product.CategoryIDs)
}

// GetByID obtiene un producto por ID con las relaciones del plan.
func (r *ProductRepo) GetByID(ctx context.Context, id string, plan repository.FetchPlan) (*entity.Product, error) {
	p, err := scanProduct(r.q.QueryRow(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = $1`, id))
	if err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get product: %w", err)
	}
	if err := loadProducts(ctx, r.q, []*entity.Product{p}, plan); err != nil {
		return nil, err
	}
	return p, nil
}

// Update actualiza la cabecera y reemplaza los vínculos con categorías.
func (r *ProductRepo) Update(ctx context.Context, product *entity.Product) error {
	query := `
		UPDATE products SET name = $2, description = $3, price = $4, supplier_id = $5, image_url = $6, updated_at = $7
		WHERE id = $1`
	cmd, err := r.q.Exec(ctx, query,
		product.ID, product.Name, product.Description, product.Price, product.SupplierID, product.ImageURL,
		product.UpdatedAt,
	)
	if err != nil {
		return mapWriteError("update product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("producto", product.ID)
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM product_categories WHERE product_id = $1`, product.ID); err != nil {
		return fmt.Errorf("clear product categories: %w", err)
	}
	return r.insertCategoryLinks(ctx, product.ID, product.CategoryIDs)
}

// List lista productos por nombre con filtros opcionales.
func (r *ProductRepo) List(ctx context.Context, filter repository.ProductFilter, limit, offset int, plan repository.FetchPlan) ([]*entity.Product, error) {
	query := `
		SELECT ` + productColumns + `
		FROM products p
		WHERE ($1 = '' OR p.supplier_id::text = $1)
		  AND ($2 = '' OR EXISTS (
		        SELECT 1 FROM product_categories pc WHERE pc.product_id = p.id AND pc.category_id::text = $2))
		ORDER BY p.name, p.id
		LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, filter.SupplierID, filter.CategoryID, limitArg(limit), offset)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	var list []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if err := loadProducts(ctx, r.q, list, plan); err != nil {
		return nil, err
	}
	return list, nil
}

// Delete borra el producto; variantes y vínculos caen en cascada. Si alguna variante figura en
// ventas u órdenes la FK lo impide (ErrConflict).
func (r *ProductRepo) Delete(ctx context.Context, id string) error {
	cmd, err := r.q.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return mapWriteError("delete product", err)
	}
	if cmd.RowsAffected() == 0 {
		return domain.NewNotFound("producto", id)
	}
	return nil
}

func (r *ProductRepo) insertCategoryLinks(ctx context.Context, productID string, categoryIDs []string) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	_, err := r.q.Exec(ctx, `
		INSERT INTO product_categories (product_id, category_id)
		SELECT $1, unnest($2::uuid[])
		ON CONFLICT DO NOTHING`, productID, categoryIDs)
	if err != nil {
		return mapWriteError("insert product categories", err)
	}
	return nil
}

func scanProduct(row pgx.Row) (*entity.Product, error) {
	var p entity.Product
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.SupplierID, &p.ImageURL, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}
