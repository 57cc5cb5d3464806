package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// CategoryRepository implementa repository.CategoryRepository.
type CategoryRepository struct {
	h handle
}

func (r *CategoryRepository) Create(_ context.Context, c *entity.Category) error {
	return r.h.write(func(st *state) error {
		if err := st.checkCategoryName(c); err != nil {
			return err
		}
		st.categories[c.ID] = copyCategory(c)
		return nil
	})
}

func (r *CategoryRepository) GetByID(_ context.Context, id string) (*entity.Category, error) {
	var out *entity.Category
	err := r.h.read(func(st *state) error {
		if c, ok := st.categories[id]; ok {
			out = copyCategory(c)
		}
		return nil
	})
	return out, err
}

func (r *CategoryRepository) Update(_ context.Context, c *entity.Category) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.categories[c.ID]; !ok {
			return domain.NewNotFound("categoría", c.ID)
		}
		if err := st.checkCategoryName(c); err != nil {
			return err
		}
		st.categories[c.ID] = copyCategory(c)
		return nil
	})
}

func (r *CategoryRepository) List(_ context.Context) ([]*entity.Category, error) {
	var out []*entity.Category
	err := r.h.read(func(st *state) error {
		out = make([]*entity.Category, 0, len(st.categories))
		for _, c := range st.categories {
			out = append(out, copyCategory(c))
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

func (r *CategoryRepository) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.categories[id]; !ok {
			return domain.NewNotFound("categoría", id)
		}
		for _, p := range st.products {
			for _, cid := range p.CategoryIDs {
				if cid == id {
					return fmt.Errorf("%w: la categoría tiene productos", domain.ErrConflict)
				}
			}
		}
		delete(st.categories, id)
		return nil
	})
}

func (st *state) checkCategoryName(c *entity.Category) error {
	for _, other := range st.categories {
		if other.ID != c.ID && other.Name == c.Name {
			return fmt.Errorf("%w: categoría %s", domain.ErrDuplicate, c.Name)
		}
	}
	return nil
}

// SupplierRepository implementa repository.SupplierRepository.
type SupplierRepository struct {
	h handle
}

func (r *SupplierRepository) Create(_ context.Context, s *entity.Supplier) error {
	return r.h.write(func(st *state) error {
		st.suppliers[s.ID] = copySupplier(s)
		return nil
	})
}

func (r *SupplierRepository) GetByID(_ context.Context, id string) (*entity.Supplier, error) {
	var out *entity.Supplier
	err := r.h.read(func(st *state) error {
		if s, ok := st.suppliers[id]; ok {
			out = copySupplier(s)
		}
		return nil
	})
	return out, err
}

func (r *SupplierRepository) Update(_ context.Context, s *entity.Supplier) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.suppliers[s.ID]; !ok {
			return domain.NewNotFound("proveedor", s.ID)
		}
		st.suppliers[s.ID] = copySupplier(s)
		return nil
	})
}

func (r *SupplierRepository) List(_ context.Context, limit, offset int) ([]*entity.Supplier, error) {
	var out []*entity.Supplier
	err := r.h.read(func(st *state) error {
		all := make([]*entity.Supplier, 0, len(st.suppliers))
		for _, s := range st.suppliers {
			all = append(all, copySupplier(s))
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name != all[j].Name {
				return all[i].Name < all[j].Name
			}
			return all[i].ID < all[j].ID
		})
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

func (r *SupplierRepository) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.suppliers[id]; !ok {
			return domain.NewNotFound("proveedor", id)
		}
		for _, p := range st.products {
			if p.SupplierID == id {
				return fmt.Errorf("%w: el proveedor tiene productos", domain.ErrConflict)
			}
		}
		for _, o := range st.orders {
			if o.SupplierID == id {
				return fmt.Errorf("%w: el proveedor tiene órdenes de compra", domain.ErrConflict)
			}
		}
		delete(st.suppliers, id)
		return nil
	})
}

// ProductRepository implementa repository.ProductRepository.
type ProductRepository struct {
	h handle
}

func (r *ProductRepository) Create(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		if err := st.checkProductRefs(p); err != nil {
			return err
		}
		if _, ok := st.products[p.ID]; ok {
			return fmt.Errorf("%w: producto %s", domain.ErrDuplicate, p.ID)
		}
		st.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepository) GetByID(_ context.Context, id string, plan repository.FetchPlan) (*entity.Product, error) {
	var out *entity.Product
	err := r.h.read(func(st *state) error {
		if p, ok := st.products[id]; ok {
			out = st.loadProduct(p, plan)
		}
		return nil
	})
	return out, err
}

func (r *ProductRepository) Update(_ context.Context, p *entity.Product) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[p.ID]; !ok {
			return domain.NewNotFound("producto", p.ID)
		}
		if err := st.checkProductRefs(p); err != nil {
			return err
		}
		st.products[p.ID] = copyProduct(p)
		return nil
	})
}

func (r *ProductRepository) List(_ context.Context, filter repository.ProductFilter, limit, offset int, plan repository.FetchPlan) ([]*entity.Product, error) {
	var out []*entity.Product
	err := r.h.read(func(st *state) error {
		all := make([]*entity.Product, 0, len(st.products))
		for _, p := range st.products {
			if filter.SupplierID != "" && p.SupplierID != filter.SupplierID {
				continue
			}
			if filter.CategoryID != "" && !contains(p.CategoryIDs, filter.CategoryID) {
				continue
			}
			all = append(all, p)
		}
		sort.Slice(all, func(i, j int) bool {
			if all[i].Name != all[j].Name {
				return all[i].Name < all[j].Name
			}
			return all[i].ID < all[j].ID
		})
		all = page(all, limit, offset)
		out = make([]*entity.Product, 0, len(all))
		for _, p := range all {
			out = append(out, st.loadProduct(p, plan))
		}
		return nil
	})
	return out, err
}

// Delete borra el producto y sus variantes; ErrConflict si alguna variante tiene movimientos.
func (r *ProductRepository) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[id]; !ok {
			return domain.NewNotFound("producto", id)
		}
		for _, v := range st.variants {
			if v.ProductID == id && st.variantReferenced(v.ID) {
				return fmt.Errorf("%w: el producto tiene ventas u órdenes", domain.ErrConflict)
			}
		}
		for vid, v := range st.variants {
			if v.ProductID == id {
				delete(st.variants, vid)
			}
		}
		delete(st.products, id)
		return nil
	})
}

func (st *state) checkProductRefs(p *entity.Product) error {
	if _, ok := st.suppliers[p.SupplierID]; !ok {
		return fmt.Errorf("%w: proveedor %s inexistente", domain.ErrConflict, p.SupplierID)
	}
	for _, cid := range p.CategoryIDs {
		if _, ok := st.categories[cid]; !ok {
			return fmt.Errorf("%w: categoría %s inexistente", domain.ErrConflict, cid)
		}
	}
	return nil
}

// VariantRepository implementa repository.VariantRepository.
type VariantRepository struct {
	h handle
}

func (r *VariantRepository) Create(_ context.Context, v *entity.Variant) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.products[v.ProductID]; !ok {
			return fmt.Errorf("%w: producto %s inexistente", domain.ErrConflict, v.ProductID)
		}
		if v.Stock < 0 {
			return &domain.StockError{VariantID: v.ID, Available: 0, Requested: -v.Stock}
		}
		st.variants[v.ID] = copyVariant(v)
		return nil
	})
}

func (r *VariantRepository) GetByID(_ context.Context, id string, plan repository.FetchPlan) (*entity.Variant, error) {
	var out *entity.Variant
	err := r.h.read(func(st *state) error {
		if v, ok := st.variants[id]; ok {
			out = st.loadVariant(v, plan)
		}
		return nil
	})
	return out, err
}

func (r *VariantRepository) ListByProduct(_ context.Context, productID string) ([]*entity.Variant, error) {
	var out []*entity.Variant
	err := r.h.read(func(st *state) error {
		out = st.variantsOf(productID)
		return nil
	})
	return out, err
}

func (r *VariantRepository) Update(_ context.Context, v *entity.Variant) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.variants[v.ID]
		if !ok {
			return domain.NewNotFound("variante", v.ID)
		}
		cur.Color = v.Color
		cur.Size = v.Size
		cur.UpdatedAt = v.UpdatedAt
		return nil
	})
}

func (r *VariantRepository) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.variants[id]; !ok {
			return domain.NewNotFound("variante", id)
		}
		if st.variantReferenced(id) {
			return fmt.Errorf("%w: la variante tiene ventas u órdenes", domain.ErrConflict)
		}
		delete(st.variants, id)
		return nil
	})
}

// LockForUpdate devuelve las variantes existentes con su producto. El bloqueo real lo da la transacción.
func (r *VariantRepository) LockForUpdate(_ context.Context, ids []string) (map[string]*entity.Variant, error) {
	out := make(map[string]*entity.Variant, len(ids))
	err := r.h.read(func(st *state) error {
		for _, id := range sortedIDs(ids) {
			if v, ok := st.variants[id]; ok {
				out[id] = st.loadVariant(v, repository.FetchProducts)
			}
		}
		return nil
	})
	return out, err
}

func (r *VariantRepository) AdjustStock(_ context.Context, id string, delta int) (int, error) {
	var stock int
	err := r.h.write(func(st *state) error {
		v, ok := st.variants[id]
		if !ok {
			return domain.NewNotFound("variante", id)
		}
		if v.Stock+delta < 0 {
			return &domain.StockError{VariantID: id, Available: v.Stock, Requested: -delta}
		}
		v.Stock += delta
		stock = v.Stock
		return nil
	})
	return stock, err
}

func sortVariants(vs []*entity.Variant) {
	sort.Slice(vs, func(i, j int) bool {
		if vs[i].Color != vs[j].Color {
			return vs[i].Color < vs[j].Color
		}
		if vs[i].Size != vs[j].Size {
			return vs[i].Size < vs[j].Size
		}
		return vs[i].ID < vs[j].ID
	})
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
