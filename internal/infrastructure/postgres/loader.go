package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// Carga en lote de relaciones según el FetchPlan: una consulta por relación, nunca por fila.

// loadProducts completa CategoryIDs siempre y el resto de relaciones según plan.
// FetchProducts en un producto significa cargar sus variantes.
func loadProducts(ctx context.Context, q Querier, products []*entity.Product, plan repository.FetchPlan) error {
	if len(products) == 0 {
		return nil
	}
	ids := make([]string, 0, len(products))
	supplierIDs := make([]string, 0, len(products))
	for _, p := range products {
		ids = append(ids, p.ID)
		supplierIDs = append(supplierIDs, p.SupplierID)
	}

	links, err := categoriesByProduct(ctx, q, ids)
	if err != nil {
		return err
	}
	for _, p := range products {
		p.CategoryIDs = []string{}
		for _, c := range links[p.ID] {
			p.CategoryIDs = append(p.CategoryIDs, c.ID)
			if plan.Has(repository.FetchCategories) {
				p.Categories = append(p.Categories, c)
			}
		}
	}

	if plan.Has(repository.FetchParties) {
		suppliers, err := suppliersByID(ctx, q, unique(supplierIDs))
		if err != nil {
			return err
		}
		for _, p := range products {
			p.Supplier = suppliers[p.SupplierID]
		}
	}

	if plan.Has(repository.FetchProducts) {
		variants, err := variantsByProduct(ctx, q, ids)
		if err != nil {
			return err
		}
		for _, p := range products {
			p.Variants = variants[p.ID]
		}
	}
	return nil
}

// loadVariants carga el producto de cada variante (sin sus variantes, para no formar ciclos).
func loadVariants(ctx context.Context, q Querier, variants []*entity.Variant, plan repository.FetchPlan) error {
	if len(variants) == 0 || !plan.Has(repository.FetchProducts) {
		return nil
	}
	ids := make([]string, 0, len(variants))
	for _, v := range variants {
		ids = append(ids, v.ProductID)
	}
	rows, err := q.Query(ctx, `SELECT `+productColumns+` FROM products p WHERE p.id = ANY($1)`, unique(ids))
	if err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	var products []*entity.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			rows.Close()
			return fmt.Errorf("scan product: %w", err)
		}
		products = append(products, p)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("load products: %w", err)
	}
	if err := loadProducts(ctx, q, products, plan&^repository.FetchProducts); err != nil {
		return err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	for _, v := range variants {
		v.Product = byID[v.ProductID]
	}
	return nil
}

// variantsByID carga variantes en lote y sus productos según plan.
func variantsByID(ctx context.Context, q Querier, ids []string, plan repository.FetchPlan) (map[string]*entity.Variant, error) {
	out := make(map[string]*entity.Variant, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	rows, err := q.Query(ctx, `SELECT `+variantColumns+` FROM variants WHERE id = ANY($1)`, unique(ids))
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	list := make([]*entity.Variant, 0, len(ids))
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
		return nil, fmt.Errorf("load variants: %w", err)
	}
	if err := loadVariants(ctx, q, list, plan); err != nil {
		return nil, err
	}
	for _, v := range list {
		out[v.ID] = v
	}
	return out, nil
}

func variantsByProduct(ctx context.Context, q Querier, productIDs []string) (map[string][]*entity.Variant, error) {
	rows, err := q.Query(ctx,
		`SELECT `+variantColumns+` FROM variants WHERE product_id = ANY($1) ORDER BY color, size, id`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]*entity.Variant, len(productIDs))
	for rows.Next() {
		v, err := scanVariant(rows)
		if err != nil {
			return nil, fmt.Errorf("scan variant: %w", err)
		}
		out[v.ProductID] = append(out[v.ProductID], v)
	}
	return out, rows.Err()
}

func categoriesByProduct(ctx context.Context, q Querier, productIDs []string) (map[string][]*entity.Category, error) {
	rows, err := q.Query(ctx, `
		SELECT pc.product_id, c.id, c.name, c.created_at, c.updated_at
		FROM product_categories pc
		JOIN categories c ON c.id = pc.category_id
		WHERE pc.product_id = ANY($1)
		ORDER BY c.name`, productIDs)
	if err != nil {
		return nil, fmt.Errorf("load product categories: %w", err)
	}
	defer rows.Close()

	out := make(map[string][]*entity.Category, len(productIDs))
	for rows.Next() {
		var productID string
		var c entity.Category
		if err := rows.Scan(&productID, &c.ID, &c.Name, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan product category: %w", err)
		}
		out[productID] = append(out[productID], &c)
	}
	return out, rows.Err()
}

func unique(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
