// migrate aplica o revierte las migraciones SQL embebidas.
//
// Uso: go run ./cmd/migrate -direction=up|down|status [-steps=N]
// La conexión sale de la misma configuración que la API (DATABASE_URL o DB_*).
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

const defaultTimeout = 30 * time.Second

func main() {
	var (
		direction string
		steps     int
	)
	flag.StringVar(&direction, "direction", "up", "dirección: up|down|status")
	flag.IntVar(&steps, "steps", 0, "cantidad de migraciones (0 = todas en up, 1 en down)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fail("cargar configuración: %v", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	pool, err := postgres.NewPool(ctx, cfg.DB, log)
	if err != nil {
		fail("conexión a PostgreSQL: %v", err)
	}
	defer pool.Close()

	m := postgres.NewMigrator(pool, log)
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "up":
		if err := m.Up(ctx, steps); err != nil {
			fail("migrate up: %v", err)
		}
	case "down":
		if err := m.Down(ctx, steps); err != nil {
			fail("migrate down: %v", err)
		}
	case "status":
	default:
		fail("dirección no soportada: %s (use up|down|status)", direction)
	}

	version, count, err := m.Status(ctx)
	if err != nil {
		fail("estado de migraciones: %v", err)
	}
	fmt.Printf("migraciones: version=%d aplicadas=%d\n", version, count)
}

func fail(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
