package memory

import (
	"context"
	"fmt"
	"sort"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// UserRepository implementa repository.UserRepository.
type UserRepository struct {
	h handle
}

func (r *UserRepository) Create(_ context.Context, user *entity.User) error {
	return r.h.write(func(st *state) error {
		if err := st.checkUserUnique(user); err != nil {
			return err
		}
		st.users[user.ID] = copyUser(user)
		return nil
	})
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(st *state) error {
		if u, ok := st.users[id]; ok {
			out = copyUser(u)
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Email == email })
}

func (r *UserRepository) GetByCedula(_ context.Context, cedula string) (*entity.User, error) {
	return r.find(func(u *entity.User) bool { return u.Cedula == cedula })
}

func (r *UserRepository) find(match func(*entity.User) bool) (*entity.User, error) {
	var out *entity.User
	err := r.h.read(func(st *state) error {
		for _, u := range st.users {
			if match(u) {
				out = copyUser(u)
				return nil
			}
		}
		return nil
	})
	return out, err
}

func (r *UserRepository) Update(_ context.Context, user *entity.User) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.users[user.ID]; !ok {
			return domain.ErrUserNotFound
		}
		if err := st.checkUserUnique(user); err != nil {
			return err
		}
		st.users[user.ID] = copyUser(user)
		return nil
	})
}

func (r *UserRepository) List(_ context.Context, limit, offset int) ([]*entity.User, error) {
	var out []*entity.User
	err := r.h.read(func(st *state) error {
		all := make([]*entity.User, 0, len(st.users))
		for _, u := range st.users {
			all = append(all, copyUser(u))
		}
		sort.Slice(all, func(i, j int) bool { return all[i].Email < all[j].Email })
		out = page(all, limit, offset)
		return nil
	})
	return out, err
}

// Delete falla con ErrConflict si el usuario es cliente de alguna venta.
func (r *UserRepository) Delete(_ context.Context, id string) error {
	return r.h.write(func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return domain.ErrUserNotFound
		}
		for _, s := range st.sales {
			if s.CustomerID == id {
				return fmt.Errorf("%w: el usuario tiene ventas registradas", domain.ErrConflict)
			}
		}
		delete(st.users, id)
		return nil
	})
}

func (st *state) checkUserUnique(user *entity.User) error {
	for _, u := range st.users {
		if u.ID == user.ID {
			continue
		}
		if u.Email == user.Email {
			return fmt.Errorf("%w: email %s", domain.ErrDuplicate, user.Email)
		}
		if u.Cedula == user.Cedula {
			return fmt.Errorf("%w: cédula %s", domain.ErrDuplicate, user.Cedula)
		}
	}
	return nil
}
