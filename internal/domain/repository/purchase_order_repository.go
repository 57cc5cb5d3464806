package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// PurchaseOrderFilter filtros opcionales del listado de órdenes.
type PurchaseOrderFilter struct {
	SupplierID string
	Status     entity.Status
}

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// Create inserta cabecera y líneas.
	Create(ctx context.Context, order *entity.PurchaseOrder) error
	GetByID(ctx context.Context, id string, plan FetchPlan) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la cabecera y devuelve la orden con sus líneas.
	GetForUpdate(ctx context.Context, id string) (*entity.PurchaseOrder, error)
	List(ctx context.Context, filter PurchaseOrderFilter, limit, offset int, plan FetchPlan) ([]*entity.PurchaseOrder, error)
	// UpdateHeader persiste proveedor, fecha y estado.
	UpdateHeader(ctx context.Context, order *entity.PurchaseOrder) error
	// ReplaceLines borra todas las líneas de la orden e inserta las nuevas.
	ReplaceLines(ctx context.Context, orderID string, lines []*entity.OrderLine) error
	Delete(ctx context.Context, id string) error
}
