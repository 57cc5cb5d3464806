package postgres

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/ventas-api/pkg/logger"
)

const (
	migrationsGlob    = "migrations/*.sql"
	migrationLockKey  = int64(48151623)
	migrationTableDDL = `
CREATE TABLE IF NOT EXISTS schema_migrations (
    version BIGINT PRIMARY KEY,
    name TEXT NOT NULL,
    applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`
)

var (
	//go:embed migrations/*.sql
	migrationsFS embed.FS

	migrationFilePattern = regexp.MustCompile(`^(\d+)_([a-zA-Z0-9_]+)\.(up|down)\.sql$`)
)

type migration struct {
	Version int64
	Name    string
	UpSQL   string
	DownSQL string
}

// Migrator aplica las migraciones SQL embebidas. Un advisory lock evita que dos
// instancias migren a la vez.
type Migrator struct {
	pool *pgxpool.Pool
	fsys fs.FS
	log  *logger.Logger
}

// NewMigrator construye el migrador con las migraciones embebidas en el binario.
func NewMigrator(pool *pgxpool.Pool, log *logger.Logger) *Migrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Migrator{pool: pool, fsys: migrationsFS, log: log.Component("migrator")}
}

// Up aplica migraciones pendientes. steps=0 aplica todas.
func (m *Migrator) Up(ctx context.Context, steps int) error {
	return m.run(ctx, func(ctx context.Context, conn *pgxpool.Conn, migrations []migration) error {
		applied, err := appliedVersions(ctx, conn)
		if err != nil {
			return err
		}
		done := 0
		for _, mg := range migrations {
			if applied[mg.Version] {
				continue
			}
			if err := m.apply(ctx, conn, mg, true); err != nil {
				return err
			}
			done++
			if steps > 0 && done >= steps {
				break
			}
		}
		return nil
	})
}

// Down revierte las últimas migraciones aplicadas. steps<=0 revierte una.
func (m *Migrator) Down(ctx context.Context, steps int) error {
	if steps <= 0 {
		steps = 1
	}
	return m.run(ctx, func(ctx context.Context, conn *pgxpool.Conn, migrations []migration) error {
		byVersion := make(map[int64]migration, len(migrations))
		for _, mg := range migrations {
			byVersion[mg.Version] = mg
		}
		rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations ORDER BY version DESC LIMIT $1`, steps)
		if err != nil {
			return fmt.Errorf("consultar migraciones aplicadas: %w", err)
		}
		var versions []int64
		for rows.Next() {
			var v int64
			if err := rows.Scan(&v); err != nil {
				rows.Close()
				return fmt.Errorf("leer versión de migración: %w", err)
			}
			versions = append(versions, v)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return fmt.Errorf("recorrer migraciones aplicadas: %w", err)
		}
		for _, v := range versions {
			mg, ok := byVersion[v]
			if !ok {
				return fmt.Errorf("no se puede revertir la versión desconocida %d", v)
			}
			if err := m.apply(ctx, conn, mg, false); err != nil {
				return err
			}
		}
		return nil
	})
}

// Status devuelve la versión actual y cuántas migraciones hay aplicadas.
func (m *Migrator) Status(ctx context.Context) (int64, int, error) {
	queryCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := m.pool.Exec(queryCtx, migrationTableDDL); err != nil {
		return 0, 0, fmt.Errorf("crear tabla de migraciones: %w", err)
	}
	var (
		version int64
		count   int
	)
	err := m.pool.QueryRow(queryCtx, `SELECT COALESCE(MAX(version), 0), COUNT(*) FROM schema_migrations`).
		Scan(&version, &count)
	if err != nil {
		return 0, 0, fmt.Errorf("consultar estado de migraciones: %w", err)
	}
	return version, count, nil
}

func (m *Migrator) run(ctx context.Context, fn func(context.Context, *pgxpool.Conn, []migration) error) error {
	migrations, err := loadMigrationsFromFS(m.fsys)
	if err != nil {
		return err
	}
	conn, err := m.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("obtener conexión: %w", err)
	}
	defer conn.Release()

	lockCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if _, err := conn.Exec(lockCtx, "SELECT pg_advisory_lock($1)", migrationLockKey); err != nil {
		return fmt.Errorf("tomar lock de migraciones: %w", err)
	}
	defer func() {
		_, _ = conn.Exec(context.Background(), "SELECT pg_advisory_unlock($1)", migrationLockKey)
	}()

	if _, err := conn.Exec(ctx, migrationTableDDL); err != nil {
		return fmt.Errorf("crear tabla de migraciones: %w", err)
	}
	return fn(ctx, conn, migrations)
}

// apply ejecuta el SQL de la migración y actualiza schema_migrations en la misma transacción.
func (m *Migrator) apply(ctx context.Context, conn *pgxpool.Conn, mg migration, up bool) error {
	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("iniciar tx de migración %d: %w", mg.Version, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	body, record := mg.UpSQL, `INSERT INTO schema_migrations (version, name, applied_at) VALUES ($1, $2, NOW())`
	args := []any{mg.Version, mg.Name}
	direction := "up"
	if !up {
		body, record = mg.DownSQL, `DELETE FROM schema_migrations WHERE version = $1`
		args = args[:1]
		direction = "down"
	}
	if _, err := tx.Exec(ctx, body); err != nil {
		return fmt.Errorf("ejecutar migración %s %d_%s: %w", direction, mg.Version, mg.Name, err)
	}
	if _, err := tx.Exec(ctx, record, args...); err != nil {
		return fmt.Errorf("registrar migración %s %d_%s: %w", direction, mg.Version, mg.Name, err)
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("confirmar migración %s %d_%s: %w", direction, mg.Version, mg.Name, err)
	}
	m.log.Info().Int64("version", mg.Version).Str("name", mg.Name).Str("direction", direction).Msg("migración aplicada")
	return nil
}

func appliedVersions(ctx context.Context, conn *pgxpool.Conn) (map[int64]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations`)
	if err != nil {
		return nil, fmt.Errorf("consultar migraciones aplicadas: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]bool)
	for rows.Next() {
		var v int64
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("leer versión de migración: %w", err)
		}
		out[v] = true
	}
	return out, rows.Err()
}

// loadMigrationsFromFS lee NNN_nombre.(up|down).sql y exige ambos sentidos por versión.
func loadMigrationsFromFS(fsys fs.FS) ([]migration, error) {
	files, err := fs.Glob(fsys, migrationsGlob)
	if err != nil {
		return nil, fmt.Errorf("listar migraciones: %w", err)
	}
	if len(files) == 0 {
		return nil, errors.New("no hay archivos de migración")
	}

	byVersion := make(map[int64]*migration)
	for _, file := range files {
		base := path.Base(file)
		matches := migrationFilePattern.FindStringSubmatch(base)
		if len(matches) != 4 {
			return nil, fmt.Errorf("nombre de migración inválido: %s", base)
		}
		version, err := strconv.ParseInt(matches[1], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("versión inválida en %s: %w", base, err)
		}
		name, direction := matches[2], matches[3]

		raw, err := fs.ReadFile(fsys, file)
		if err != nil {
			return nil, fmt.Errorf("leer %s: %w", file, err)
		}
		body := strings.TrimSpace(string(raw))
		if body == "" {
			return nil, fmt.Errorf("migración vacía: %s", base)
		}

		mg, ok := byVersion[version]
		if !ok {
			mg = &migration{Version: version, Name: name}
			byVersion[version] = mg
		} else if mg.Name != name {
			return nil, fmt.Errorf("nombres distintos para la versión %d: %s y %s", version, mg.Name, name)
		}

		target := &mg.UpSQL
		if direction == "down" {
			target = &mg.DownSQL
		}
		if *target != "" {
			return nil, fmt.Errorf("migración %s duplicada para la versión %d", direction, version)
		}
		*target = body
	}

	out := make([]migration, 0, len(byVersion))
	for _, mg := range byVersion {
		if mg.UpSQL == "" || mg.DownSQL == "" {
			return nil, fmt.Errorf("la migración %d_%s necesita archivos up y down", mg.Version, mg.Name)
		}
		out = append(out, *mg)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}
