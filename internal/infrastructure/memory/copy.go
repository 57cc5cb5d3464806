package memory

import (
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// Copias sin relaciones: lo que se guarda y lo que se entrega nunca comparte punteros.

func copyUser(u *entity.User) *entity.User {
	c := *u
	return &c
}

func copyCategory(c *entity.Category) *entity.Category {
	out := *c
	return &out
}

func copySupplier(s *entity.Supplier) *entity.Supplier {
	c := *s
	return &c
}

func copyProduct(p *entity.Product) *entity.Product {
	c := *p
	c.CategoryIDs = append([]string{}, p.CategoryIDs...)
	c.Categories, c.Supplier, c.Variants = nil, nil, nil
	return &c
}

func copyVariant(v *entity.Variant) *entity.Variant {
	c := *v
	c.Product = nil
	return &c
}

func copyOrder(o *entity.PurchaseOrder) *entity.PurchaseOrder {
	c := *o
	c.Supplier = nil
	c.Lines = make([]*entity.OrderLine, 0, len(o.Lines))
	for _, l := range o.Lines {
		lc := *l
		lc.Variant = nil
		c.Lines = append(c.Lines, &lc)
	}
	return &c
}

func copySale(s *entity.Sale) *entity.Sale {
	c := *s
	c.Customer = nil
	c.Lines = make([]*entity.SaleLine, 0, len(s.Lines))
	for _, l := range s.Lines {
		lc := *l
		lc.Variant = nil
		c.Lines = append(c.Lines, &lc)
	}
	return &c
}

// Carga de relaciones según el FetchPlan.

func (st *state) loadProduct(p *entity.Product, plan repository.FetchPlan) *entity.Product {
	out := copyProduct(p)
	if plan.Has(repository.FetchCategories) {
		out.Categories = make([]*entity.Category, 0, len(out.CategoryIDs))
		for _, id := range out.CategoryIDs {
			if c, ok := st.categories[id]; ok {
				out.Categories = append(out.Categories, copyCategory(c))
			}
		}
	}
	if plan.Has(repository.FetchParties) {
		if s, ok := st.suppliers[out.SupplierID]; ok {
			out.Supplier = copySupplier(s)
		}
	}
	if plan.Has(repository.FetchProducts) {
		out.Variants = st.variantsOf(out.ID)
	}
	return out
}

// loadVariant carga el producto sin sus variantes para no formar ciclos.
func (st *state) loadVariant(v *entity.Variant, plan repository.FetchPlan) *entity.Variant {
	out := copyVariant(v)
	if plan.Has(repository.FetchProducts) {
		if p, ok := st.products[out.ProductID]; ok {
			out.Product = st.loadProduct(p, plan&^repository.FetchProducts)
		}
	}
	return out
}

func (st *state) loadOrder(o *entity.PurchaseOrder, plan repository.FetchPlan) *entity.PurchaseOrder {
	out := copyOrder(o)
	if plan.Has(repository.FetchParties) {
		if s, ok := st.suppliers[out.SupplierID]; ok {
			out.Supplier = copySupplier(s)
		}
	}
	if !plan.Has(repository.FetchLines) {
		out.Lines = nil
		return out
	}
	if plan.Has(repository.FetchVariants) {
		for _, l := range out.Lines {
			if v, ok := st.variants[l.VariantID]; ok {
				l.Variant = st.loadVariant(v, plan)
			}
		}
	}
	return out
}

func (st *state) loadSale(s *entity.Sale, plan repository.FetchPlan) *entity.Sale {
	out := copySale(s)
	if plan.Has(repository.FetchParties) {
		if u, ok := st.users[out.CustomerID]; ok {
			out.Customer = copyUser(u)
		}
	}
	if !plan.Has(repository.FetchLines) {
		out.Lines = nil
		return out
	}
	if plan.Has(repository.FetchVariants) {
		for _, l := range out.Lines {
			if v, ok := st.variants[l.VariantID]; ok {
				l.Variant = st.loadVariant(v, plan)
			}
		}
	}
	return out
}

func (st *state) variantsOf(productID string) []*entity.Variant {
	out := make([]*entity.Variant, 0)
	for _, v := range st.variants {
		if v.ProductID == productID {
			out = append(out, copyVariant(v))
		}
	}
	sortVariants(out)
	return out
}

// variantReferenced indica si alguna línea de venta u orden usa la variante.
func (st *state) variantReferenced(variantID string) bool {
	for _, s := range st.sales {
		for _, l := range s.Lines {
			if l.VariantID == variantID {
				return true
			}
		}
	}
	for _, o := range st.orders {
		for _, l := range o.Lines {
			if l.VariantID == variantID {
				return true
			}
		}
	}
	return false
}
