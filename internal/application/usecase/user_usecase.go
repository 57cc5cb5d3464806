package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/password"
)

// UserUseCase aplica reglas de negocio para usuarios.
type UserUseCase struct {
	repo repository.UserRepository
}

// NewUserUseCase construye el caso de uso con el puerto de persistencia.
func NewUserUseCase(repo repository.UserRepository) *UserUseCase {
	return &UserUseCase{repo: repo}
}

// Create registra un usuario. Email y cédula son únicos; el rol por defecto es client.
func (uc *UserUseCase) Create(ctx context.Context, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	email := normalizeEmail(in.Email)
	cedula := strings.TrimSpace(in.Cedula)
	if email == "" || cedula == "" {
		return nil, fmt.Errorf("%w: email y cedula son requeridos", domain.ErrInvalidInput)
	}
	role := in.Role
	if role == "" {
		role = entity.RoleClient
	}
	if !entity.ValidRole(role) {
		return nil, fmt.Errorf("%w: rol %q no soportado", domain.ErrInvalidInput, role)
	}
	hash, err := password.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	if err := uc.ensureUnique(ctx, "", email, cedula); err != nil {
		return nil, err
	}

	active := true
	if in.IsActive != nil {
		active = *in.IsActive
	}
	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.New().String(),
		Email:        email,
		Cedula:       cedula,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: hash,
		IsActive:     active,
		Role:         role,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// GetByID obtiene un usuario por ID.
func (uc *UserUseCase) GetByID(ctx context.Context, id string) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return dto.FromUser(user), nil
}

// List lista usuarios paginados.
func (uc *UserUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.UserListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	out := &dto.UserListResponse{
		Items: make([]dto.UserResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, u := range list {
		out.Items = append(out.Items, *dto.FromUser(u))
	}
	return out, nil
}

// Update aplica el parche; si trae password se vuelve a hashear.
func (uc *UserUseCase) Update(ctx context.Context, id string, in dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	email, cedula := user.Email, user.Cedula
	if in.Email != nil {
		email = normalizeEmail(*in.Email)
	}
	if in.Cedula != nil {
		cedula = strings.TrimSpace(*in.Cedula)
	}
	if email == "" || cedula == "" {
		return nil, fmt.Errorf("%w: email y cedula no pueden ser vacíos", domain.ErrInvalidInput)
	}
	if err := uc.ensureUnique(ctx, user.ID, email, cedula); err != nil {
		return nil, err
	}
	user.Email, user.Cedula = email, cedula

	if in.FullName != nil {
		user.FullName = strings.TrimSpace(*in.FullName)
	}
	if in.Role != nil {
		if !entity.ValidRole(*in.Role) {
			return nil, fmt.Errorf("%w: rol %q no soportado", domain.ErrInvalidInput, *in.Role)
		}
		user.Role = *in.Role
	}
	if in.IsActive != nil {
		user.IsActive = *in.IsActive
	}
	if in.Password != nil {
		hash, err := password.Hash(*in.Password)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
		}
		user.PasswordHash = hash
	}
	user.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return dto.FromUser(user), nil
}

// Delete elimina un usuario. Un cliente con ventas registradas devuelve ErrConflict.
func (uc *UserUseCase) Delete(ctx context.Context, id string) error {
	user, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.ErrUserNotFound
	}
	return uc.repo.Delete(ctx, id)
}

// ensureUnique verifica email y cédula frente a otros usuarios distintos de selfID.
func (uc *UserUseCase) ensureUnique(ctx context.Context, selfID, email, cedula string) error {
	byEmail, err := uc.repo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if byEmail != nil && byEmail.ID != selfID {
		return domain.ErrEmailAlreadyExists
	}
	byCedula, err := uc.repo.GetByCedula(ctx, cedula)
	if err != nil {
		return err
	}
	if byCedula != nil && byCedula.ID != selfID {
		return fmt.Errorf("%w: la cédula %s ya está registrada", domain.ErrDuplicate, cedula)
	}
	return nil
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
