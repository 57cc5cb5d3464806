package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// ProductFilter filtros opcionales del listado de productos.
type ProductFilter struct {
	CategoryID string
	SupplierID string
}

// ProductRepository define el puerto de persistencia para Product (DIP).
// Create y Update escriben también los vínculos con categorías (product.CategoryIDs).
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id string, plan FetchPlan) (*entity.Product, error)
	Update(ctx context.Context, product *entity.Product) error
	List(ctx context.Context, filter ProductFilter, limit, offset int, plan FetchPlan) ([]*entity.Product, error)
	Delete(ctx context.Context, id string) error
}

// VariantRepository define el puerto de persistencia para Variant.
// El stock solo se modifica con AdjustStock dentro de una transacción.
type VariantRepository interface {
	Create(ctx context.Context, variant *entity.Variant) error
	GetByID(ctx context.Context, id string, plan FetchPlan) (*entity.Variant, error)
	ListByProduct(ctx context.Context, productID string) ([]*entity.Variant, error)
	// Update persiste color y talla; ignora Stock.
	Update(ctx context.Context, variant *entity.Variant) error
	Delete(ctx context.Context, id string) error

	// LockForUpdate bloquea las filas (SELECT ... FOR UPDATE, en orden de id) y las devuelve
	// indexadas por id con su Product cargado. Los ids inexistentes no aparecen en el mapa.
	LockForUpdate(ctx context.Context, ids []string) (map[string]*entity.Variant, error)
	// AdjustStock suma delta al stock y devuelve el nuevo valor.
	// Devuelve *domain.StockError si el resultado sería negativo y domain.ErrNotFound si no existe.
	AdjustStock(ctx context.Context, id string, delta int) (int, error)
}
