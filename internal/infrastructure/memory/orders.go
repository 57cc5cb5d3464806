package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// PurchaseOrderRepository implementa repository.PurchaseOrderRepository.
type PurchaseOrderRepository struct {
	h handle
}

func (r *PurchaseOrderRepository) Create(_ context.Context, o *entity.PurchaseOrder) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.suppliers[o.SupplierID]; !ok {
			return fmt.Errorf("%w: proveedor %s inexistente", domain.ErrConflict, o.SupplierID)
		}
		if err := st.checkOrderLines(o.Lines); err != nil {
			return err
		}
		st.orders[o.ID] = copyOrder(o)
		return nil
	})
}

func (r *PurchaseOrderRepository) GetByID(_ context.Context, id string, plan repository.FetchPlan) (*entity.PurchaseOrder, error) {
	var out *entity.PurchaseOrder
	err := r.h.read(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = st.loadOrder(o, plan)
		}
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepository) GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error) {
	return r.GetByID(ctx, id, repository.FetchLines)
}

func (r *PurchaseOrderRepository) List(_ context.Context, filter repository.PurchaseOrderFilter, limit, offset int, plan repository.FetchPlan) ([]*entity.PurchaseOrder, error) {
	var out []*entity.PurchaseOrder
	err := r.h.read(func(st *state) error {
		all := make([]*entity.PurchaseOrder, 0, len(st.orders))
		for _, o := range st.orders {
			if filter.SupplierID != "" && o.SupplierID != filter.SupplierID {
				continue
			}
			if filter.Status != "" && o.Status != filter.Status {
				continue
			}
			all = append(all, o)
		}
		sort.Slice(all, func(i, j int) bool {
			a, b := all[i], all[j]
			if !a.Date.Equal(b.Date) {
				return a.Date.After(b.Date)
			}
			if !a.CreatedAt.Equal(b.CreatedAt) {
				return a.CreatedAt.After(b.CreatedAt)
			}
			return a.ID < b.ID
		})
		all = page(all, limit, offset)
		out = make([]*entity.PurchaseOrder, 0, len(all))
		for _, o := range all {
			out = append(out, st.loadOrder(o, plan))
		}
		return nil
	})
	return out, err
}

func (r *PurchaseOrderRepository) UpdateHeader(_ context.Context, o *entity.PurchaseOrder) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.orders[o.ID]
		if !ok {
			return domain.NewNotFound("orden de compra", o.ID)
		}
		if _, ok := st.suppliers[o.SupplierID]; !ok {
			return fmt.Errorf("%w: proveedor %s inexistente", domain.ErrConflict, o.SupplierID)
		}
		cur.SupplierID = o.SupplierID
		cur.Date = o.Date
		cur.Status = o.Status
		cur.UpdatedAt = o.UpdatedAt
		return nil
	})
}

func (r *PurchaseOrderRepository) ReplaceLines(_ context.Context, orderID string, lines []*entity.OrderLine) error {
	return r.h.write(func(st *state) error {
		cur, ok := st.orders[orderID]
		if !ok {
			return domain.NewNotFound("orden de compra", orderID)
		}
		if err := st.checkOrderLines(lines); err != nil {
			return err
		}
		cur.Lines = copyOrder(&entity.PurchaseOrder{Lines: lines}).Lines
		for _, l := range cur.Lines {
			l.OrderID = orderID
		}
		return nil
	})
}

func (r *PurchaseOrderRepository) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.NewNotFound("orden de compra", id)
		}
		delete(st.orders, id)
		return nil
	})
}

func (st *state) checkOrderLines(lines []*entity.OrderLine) error {
	for _, l := range lines {
		if _, ok := st.variants[l.VariantID]; !ok {
			return fmt.Errorf("%w: variante %s inexistente", domain.ErrConflict, l.VariantID)
		}
	}
	return nil
}
