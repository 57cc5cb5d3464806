package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// SaleRepository implementa repository.SaleRepository.
type SaleRepository struct {
	h handle
}

func (r *SaleRepository) Create(_ context.Context, s *entity.Sale) error {
	return r.h.write(func(st *state) error {
		if st.saleByCode(s.Code) != nil {
			return fmt.Errorf("%w: código de venta %s", domain.ErrDuplicate, s.Code)
		}
		if _, ok := st.users[s.CustomerID]; !ok {
			return fmt.Errorf("%w: cliente %s inexistente", domain.ErrConflict, s.CustomerID)
		}
		for _, l := range s.Lines {
			if _, ok := st.variants[l.VariantID]; !ok {
				return fmt.Errorf("%w: variante %s inexistente", domain.ErrConflict, l.VariantID)
			}
		}
		st.sales[s.ID] = copySale(s)
		return nil
	})
}

func (r *SaleRepository) GetByID(_ context.Context, id string, plan repository.FetchPlan) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.read(func(st *state) error {
		if s, ok := st.sales[id]; ok {
			out = st.loadSale(s, plan)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepository) GetByCode(_ context.Context, code string, plan repository.FetchPlan) (*entity.Sale, error) {
	var out *entity.Sale
	err := r.h.read(func(st *state) error {
		if s := st.saleByCode(code); s != nil {
			out = st.loadSale(s, plan)
		}
		return nil
	})
	return out, err
}

func (r *SaleRepository) LockByCode(ctx context.Context, code string) (*entity.Sale, error) {
	return r.GetByCode(ctx, code, repository.FetchLines)
}

func (r *SaleRepository) LockByID(ctx context.Context, id string) (*entity.Sale, error) {
	return r.GetByID(ctx, id, repository.FetchLines)
}

func (r *SaleRepository) CodeExists(_ context.Context, code string) (bool, error) {
	var exists bool
	err := r.h.read(func(st *state) error {
		exists = st.saleByCode(code) != nil
		return nil
	})
	return exists, err
}

func (r *SaleRepository) List(_ context.Context, filter repository.SaleFilter, limit, offset int, plan repository.FetchPlan) ([]*entity.Sale, error) {
	var out []*entity.Sale
	err := r.h.read(func(st *state) error {
		all := make([]*entity.Sale, 0, len(st.sales))
		for _, s := range st.sales {
			if filter.CustomerID != "" && s.CustomerID != filter.CustomerID {
				continue
			}
			if filter.Status != "" && s.Status != filter.Status {
				continue
			}
			all = append(all, s)
		}
		sort.Slice(all, func(i, j int) bool {
			if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
				return all[i].CreatedAt.After(all[j].CreatedAt)
			}
			return all[i].ID < all[j].ID
		})
		all = page(all, limit, offset)
		out = make([]*entity.Sale, 0, len(all))
		for _, s := range all {
			out = append(out, st.loadSale(s, plan))
		}
		return nil
	})
	return out, err
}

func (r *SaleRepository) UpdateStatus(_ context.Context, id string, status entity.Status) error {
	return r.h.write(func(st *state) error {
		s, ok := st.sales[id]
		if !ok {
			return domain.NewNotFound("venta", id)
		}
		s.Status = status
		s.UpdatedAt = time.Now().UTC()
		return nil
	})
}

func (r *SaleRepository) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.sales[id]; !ok {
			return domain.NewNotFound("venta", id)
		}
		delete(st.sales, id)
		return nil
	})
}

func (st *state) saleByCode(code string) *entity.Sale {
	for _, s := range st.sales {
		if s.Code == code {
			return s
		}
	}
	return nil
}
