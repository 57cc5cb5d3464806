package auth_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/auth"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/pkg/jwt"
)

const secret = "clave-de-prueba"

func setup(t *testing.T) (*auth.AuthUseCase, *usecase.UserUseCase) {
	t.Helper()
	repo := memory.New().Repos().Users
	users := usecase.NewUserUseCase(repo)
	uc := auth.NewAuthUseCase(repo, auth.JWTConfig{Secret: secret, ExpMinutes: 30, Issuer: "ventas-api"})
	return uc, users
}

func TestLogin_EmiteTokenConIdentidad(t *testing.T) {
	uc, users := setup(t)
	ctx := context.Background()
	u, err := users.Create(ctx, dto.CreateUserRequest{
		Email: "ana@example.com", Cedula: "1001", Password: "secreto123", Role: entity.RoleManager,
	})
	require.NoError(t, err)

	out, err := uc.Login(ctx, dto.LoginRequest{Email: " ANA@example.com", Password: "secreto123"})
	require.NoError(t, err)
	assert.Equal(t, "bearer", out.TokenType)
	assert.Equal(t, 1800, out.ExpiresIn)
	assert.Equal(t, u.ID, out.User.ID)

	claims, err := jwt.Parse(secret, out.AccessToken)
	require.NoError(t, err)
	id := claims.Identity()
	assert.Equal(t, u.ID, id.UserID)
	assert.Equal(t, "1001", id.Cedula)
	assert.Equal(t, entity.RoleManager, id.Role)
}

func TestLogin_CredencialesInvalidas(t *testing.T) {
	uc, users := setup(t)
	ctx := context.Background()
	_, err := users.Create(ctx, dto.CreateUserRequest{Email: "ana@example.com", Cedula: "1001", Password: "secreto123"})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "otra-clave"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{Email: "nadie@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
	_, err = uc.Login(ctx, dto.LoginRequest{})
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestLogin_UsuarioInactivo(t *testing.T) {
	uc, users := setup(t)
	ctx := context.Background()
	inactive := false
	_, err := users.Create(ctx, dto.CreateUserRequest{
		Email: "ana@example.com", Cedula: "1001", Password: "secreto123", IsActive: &inactive,
	})
	require.NoError(t, err)

	_, err = uc.Login(ctx, dto.LoginRequest{Email: "ana@example.com", Password: "secreto123"})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestMe(t *testing.T) {
	uc, users := setup(t)
	ctx := context.Background()
	u, err := users.Create(ctx, dto.CreateUserRequest{Email: "ana@example.com", Cedula: "1001", Password: "secreto123"})
	require.NoError(t, err)

	me, err := uc.Me(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", me.Email)

	inactive := false
	_, err = users.Update(ctx, u.ID, dto.UpdateUserRequest{IsActive: &inactive})
	require.NoError(t, err)
	_, err = uc.Me(ctx, u.ID)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	_, err = uc.Me(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}
