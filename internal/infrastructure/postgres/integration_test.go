//go:build integration

package postgres_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/postgres"
	"github.com/jhoicas/ventas-api/pkg/config"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// Ejecutar con: DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/postgres/

func newIntegrationPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("DATABASE_URL no definido")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: url}, logger.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	require.NoError(t, postgres.NewMigrator(pool, logger.Nop()).Up(ctx, 0))
	return pool
}

type seeded struct {
	cedula    string
	variantID string
}

// seedCatalog crea cliente, proveedor, producto y una variante con el stock dado.
func seedCatalog(t *testing.T, pool *pgxpool.Pool, stock int) seeded {
	t.Helper()
	ctx := context.Background()
	repos := postgres.NewRepos(pool)
	now := time.Now().UTC()
	suffix := uuid.NewString()[:8]

	user := &entity.User{
		ID: uuid.NewString(), Email: "cliente-" + suffix + "@example.com", Cedula: "ced-" + suffix,
		FullName: "Cliente " + suffix, PasswordHash: "x", IsActive: true, Role: entity.RoleClient,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Users.Create(ctx, user))
	supplier := &entity.Supplier{ID: uuid.NewString(), Name: "Proveedor " + suffix, CreatedAt: now, UpdatedAt: now}
	require.NoError(t, repos.Suppliers.Create(ctx, supplier))
	product := &entity.Product{
		ID: uuid.NewString(), Name: "Producto " + suffix, Price: decimal.NewFromInt(20),
		SupplierID: supplier.ID, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Products.Create(ctx, product))
	variant := &entity.Variant{
		ID: uuid.NewString(), ProductID: product.ID, Color: "negro", Size: "S", Stock: stock,
		CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, repos.Variants.Create(ctx, variant))
	return seeded{cedula: user.Cedula, variantID: variant.ID}
}

func variantStock(t *testing.T, pool *pgxpool.Pool, id string) int {
	t.Helper()
	v, err := postgres.NewVariantRepository(pool).GetByID(context.Background(), id, repository.FetchHeader)
	require.NoError(t, err)
	require.NotNil(t, v)
	return v.Stock
}

func TestIntegracion_AdjustStockNoQuedaNegativo(t *testing.T) {
	pool := newIntegrationPool(t)
	s := seedCatalog(t, pool, 3)
	variants := postgres.NewVariantRepository(pool)
	ctx := context.Background()

	stock, err := variants.AdjustStock(ctx, s.variantID, -2)
	require.NoError(t, err)
	assert.Equal(t, 1, stock)

	_, err = variants.AdjustStock(ctx, s.variantID, -2)
	var stockErr *domain.StockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, variantStock(t, pool, s.variantID))

	_, err = variants.AdjustStock(ctx, uuid.NewString(), 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestIntegracion_IDMalFormadoEsNoEncontrado(t *testing.T) {
	pool := newIntegrationPool(t)
	repos := postgres.NewRepos(pool)
	ctx := context.Background()

	sale, err := repos.Sales.GetByID(ctx, "no-es-uuid", repository.FetchHeader)
	require.NoError(t, err)
	assert.Nil(t, sale)

	_, err = repos.Variants.AdjustStock(ctx, "no-es-uuid", 1)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, repos.Products.Delete(ctx, "no-es-uuid"), domain.ErrNotFound)
	assert.ErrorIs(t, repos.Users.Delete(ctx, "no-es-uuid"), domain.ErrUserNotFound)

	locked, err := repos.Variants.LockForUpdate(ctx, []string{"no-es-uuid"})
	require.NoError(t, err)
	assert.Empty(t, locked)
}

func TestIntegracion_CrearYCancelarVentaRestituyeStock(t *testing.T) {
	pool := newIntegrationPool(t)
	s := seedCatalog(t, pool, 5)
	repos := postgres.NewRepos(pool)
	uc := sales.NewSaleUseCase(postgres.NewTxRunner(pool), repos.Sales, repos.Users,
		ports.NopPublisher{}, nil, logger.Nop(), sales.Config{})
	ctx := context.Background()

	out, err := uc.Create(ctx, dto.CreateSaleRequest{
		CustomerCedula: s.cedula,
		Lines: []dto.SaleLineRequest{
			{VariantID: s.variantID, Quantity: 3, UnitPrice: decimal.RequireFromString("19.90")},
		},
	})
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("59.70").Equal(out.Total), "total %s", out.Total)
	assert.Equal(t, 2, variantStock(t, pool, s.variantID))

	_, err = uc.Create(ctx, dto.CreateSaleRequest{
		CustomerCedula: s.cedula,
		Lines: []dto.SaleLineRequest{
			{VariantID: s.variantID, Quantity: 3, UnitPrice: decimal.NewFromInt(1)},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Equal(t, 2, variantStock(t, pool, s.variantID))

	cancelled, err := uc.ChangeStatus(ctx, out.Code, string(entity.StatusCancelled))
	require.NoError(t, err)
	assert.Equal(t, string(entity.StatusCancelled), cancelled.Status)
	assert.Equal(t, 5, variantStock(t, pool, s.variantID))

	_, err = uc.ChangeStatus(ctx, out.Code, string(entity.StatusConfirmed))
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}
