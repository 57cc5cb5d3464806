// seed_admin crea el usuario administrador inicial si no existe.
//
// Uso: ADMIN_EMAIL=... ADMIN_PASSWORD=... ADMIN_CEDULA=... [ADMIN_NAME=...] go run ./cmd/seed_admin
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	in := dto.CreateUserRequest{
		Email:    strings.TrimSpace(os.Getenv("ADMIN_EMAIL")),
		Password: os.Getenv("ADMIN_PASSWORD"),
		Cedula:   strings.TrimSpace(os.Getenv("ADMIN_CEDULA")),
		FullName: strings.TrimSpace(os.Getenv("ADMIN_NAME")),
		Role:     entity.RoleAdmin,
	}
	if in.Email == "" || in.Password == "" || in.Cedula == "" {
		fail("ADMIN_EMAIL, ADMIN_PASSWORD y ADMIN_CEDULA son requeridos")
	}
	if in.FullName == "" {
		in.FullName = "Administrador"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	if err := postgres.NewMigrator(pool, log).Up(ctx, 0); err != nil {
		fail("aplicar migraciones: %v", err)
	}

	user, err := usecase.NewUserUseCase(postgres.NewUserRepository(pool)).Create(ctx, in)
	switch {
	case errors.Is(err, domain.ErrEmailAlreadyExists), errors.Is(err, domain.ErrDuplicate):
		log.Info().Str("email", in.Email).Msg("el administrador ya existe, nada que hacer")
		return
	case err != nil:
		fail("crear administrador: %v", err)
	}
	log.Info().Str("id", user.ID).Str("email", user.Email).Msg("administrador creado")
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
