package usecase_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/pkg/password"
)

func newUsers(t *testing.T) (*usecase.UserUseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	return usecase.NewUserUseCase(store.Repos().Users), store
}

func TestUser_CrearNormalizaYHashea(t *testing.T) {
	uc, store := newUsers(t)
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateUserRequest{
		Email: "  Ana@Example.COM ", Cedula: " 1001 ", FullName: "Ana", Password: "secreto123",
	})
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", out.Email)
	assert.Equal(t, "1001", out.Cedula)
	assert.Equal(t, entity.RoleClient, out.Role)
	assert.True(t, out.IsActive)

	stored, err := store.Repos().Users.GetByID(ctx, out.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "secreto123", stored.PasswordHash)
	assert.True(t, password.Check(stored.PasswordHash, "secreto123"))
}

func TestUser_CrearValidaciones(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()
	_, err := uc.Create(ctx, dto.CreateUserRequest{Email: "a@x.co", Cedula: "1", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "A@X.CO", Cedula: "2", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "b@x.co", Cedula: "1", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "c@x.co", Cedula: "3", Password: "corta"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "c@x.co", Cedula: "3", Password: "secreto123", Role: "root"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "", Cedula: "3", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestUser_ParcheYDesactivacion(t *testing.T) {
	uc, store := newUsers(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateUserRequest{Email: "a@x.co", Cedula: "1", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "b@x.co", Cedula: "2", Password: "secreto123"})
	require.NoError(t, err)

	role, inactive, pass := entity.RoleManager, false, "nuevaclave1"
	out, err := uc.Update(ctx, a.ID, dto.UpdateUserRequest{Role: &role, IsActive: &inactive, Password: &pass})
	require.NoError(t, err)
	assert.Equal(t, entity.RoleManager, out.Role)
	assert.False(t, out.IsActive)
	stored, err := store.Repos().Users.GetByID(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, password.Check(stored.PasswordHash, "nuevaclave1"))

	// Conservar el propio email no es duplicado; tomar el de otro sí.
	same, taken := "a@x.co", "b@x.co"
	_, err = uc.Update(ctx, a.ID, dto.UpdateUserRequest{Email: &same})
	require.NoError(t, err)
	_, err = uc.Update(ctx, a.ID, dto.UpdateUserRequest{Email: &taken})
	assert.ErrorIs(t, err, domain.ErrEmailAlreadyExists)

	_, err = uc.Update(ctx, "no-existe", dto.UpdateUserRequest{})
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUser_ListarYEliminar(t *testing.T) {
	uc, _ := newUsers(t)
	ctx := context.Background()
	a, err := uc.Create(ctx, dto.CreateUserRequest{Email: "a@x.co", Cedula: "1", Password: "secreto123"})
	require.NoError(t, err)
	_, err = uc.Create(ctx, dto.CreateUserRequest{Email: "b@x.co", Cedula: "2", Password: "secreto123"})
	require.NoError(t, err)

	page, err := uc.List(ctx, dto.PageRequest{Limit: 1})
	require.NoError(t, err)
	assert.Len(t, page.Items, 1)

	require.NoError(t, uc.Delete(ctx, a.ID))
	_, err = uc.GetByID(ctx, a.ID)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.ErrorIs(t, uc.Delete(ctx, a.ID), domain.ErrUserNotFound)
}
