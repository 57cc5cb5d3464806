package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
)

func TestSuggestedQty(t *testing.T) {
	assert.Equal(t, 4, inventory.SuggestedQty(5, 6))
	assert.Equal(t, 10, inventory.SuggestedQty(5, 0))
	assert.Equal(t, 1, inventory.SuggestedQty(5, 10))
	assert.Equal(t, 1, inventory.SuggestedQty(0, 0))
}

// seedCatalog: dos proveedores; "Zeta" con dos variantes bajas y "Alfa" con una baja y una alta.
func seedCatalog(t *testing.T, s *memory.Store) {
	t.Helper()
	ctx := context.Background()
	repos := s.Repos()
	now := time.Now().UTC()

	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "sup-z", Name: "Zeta", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Suppliers.Create(ctx, &entity.Supplier{ID: "sup-a", Name: "Alfa", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-z", Name: "Pantalón", SupplierID: "sup-z", CreatedAt: now, UpdatedAt: now}))
	require.NoError(t, repos.Products.Create(ctx, &entity.Product{ID: "p-a", Name: "Camisa", SupplierID: "sup-a", CreatedAt: now, UpdatedAt: now}))

	for _, v := range []*entity.Variant{
		{ID: "v-z1", ProductID: "p-z", Color: "azul", Size: "30", Stock: 3},
		{ID: "v-z2", ProductID: "p-z", Color: "azul", Size: "32", Stock: 0},
		{ID: "v-a1", ProductID: "p-a", Color: "blanco", Size: "M", Stock: 5},
		{ID: "v-a2", ProductID: "p-a", Color: "blanco", Size: "L", Stock: 40},
	} {
		v.CreatedAt, v.UpdatedAt = now, now
		require.NoError(t, repos.Variants.Create(ctx, v))
	}

	require.NoError(t, repos.Orders.Create(ctx, &entity.PurchaseOrder{
		ID: "po-1", SupplierID: "sup-z", Date: now.AddDate(0, 0, -3), Status: entity.StatusConfirmed,
		CreatedAt: now, UpdatedAt: now,
		Lines: []*entity.OrderLine{{ID: "ol-1", OrderID: "po-1", VariantID: "v-z1", Quantity: 10, UnitPrice: decimal.NewFromInt(30)}},
	}))
	// Una orden pendiente no cuenta como último precio de compra.
	require.NoError(t, repos.Orders.Create(ctx, &entity.PurchaseOrder{
		ID: "po-2", SupplierID: "sup-z", Date: now, Status: entity.StatusPending,
		CreatedAt: now, UpdatedAt: now,
		Lines: []*entity.OrderLine{{ID: "ol-2", OrderID: "po-2", VariantID: "v-z1", Quantity: 1, UnitPrice: decimal.NewFromInt(99)}},
	}))
}

func TestLowStock_AgrupaPorProveedor(t *testing.T) {
	store := memory.New()
	seedCatalog(t, store)
	uc := inventory.NewReplenishmentUseCase(store.Analytics(), 5)

	out, err := uc.LowStock(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 5, out.Threshold)
	require.Len(t, out.Suppliers, 2)

	alfa, zeta := out.Suppliers[0], out.Suppliers[1]
	assert.Equal(t, "Alfa", alfa.SupplierName)
	require.Len(t, alfa.Items, 1)
	assert.Equal(t, "v-a1", alfa.Items[0].VariantID)
	assert.Equal(t, 5, alfa.Items[0].SuggestedQty)
	assert.True(t, alfa.EstimatedCost.IsZero(), "sin compras confirmadas el costo estimado es cero")

	assert.Equal(t, "Zeta", zeta.SupplierName)
	require.Len(t, zeta.Items, 2)
	assert.Equal(t, "v-z2", zeta.Items[0].VariantID, "primero la más agotada")
	assert.Equal(t, 10, zeta.Items[0].SuggestedQty)
	assert.Equal(t, 7, zeta.Items[1].SuggestedQty)
	assert.True(t, decimal.NewFromInt(30).Equal(zeta.Items[1].LastPurchasePrice))
	assert.True(t, decimal.NewFromInt(210).Equal(zeta.EstimatedCost), "costo %s", zeta.EstimatedCost)
}

func TestLowStock_UmbralExplicito(t *testing.T) {
	store := memory.New()
	seedCatalog(t, store)
	uc := inventory.NewReplenishmentUseCase(store.Analytics(), 5)

	zero := 0
	out, err := uc.LowStock(context.Background(), &zero)
	require.NoError(t, err)
	require.Len(t, out.Suppliers, 1)
	assert.Equal(t, "v-z2", out.Suppliers[0].Items[0].VariantID)
	assert.Equal(t, 1, out.Suppliers[0].Items[0].SuggestedQty)

	neg := -1
	_, err = uc.LowStock(context.Background(), &neg)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestLowStock_SinResultados(t *testing.T) {
	uc := inventory.NewReplenishmentUseCase(memory.New().Analytics(), 5)
	out, err := uc.LowStock(context.Background(), nil)
	require.NoError(t, err)
	assert.NotNil(t, out.Suppliers)
	assert.Empty(t, out.Suppliers)
}
