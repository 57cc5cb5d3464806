package repository

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// SaleFilter filtros opcionales del listado de ventas.
type SaleFilter struct {
	CustomerID string
	Status     entity.Status
}

// SaleRepository define el puerto de persistencia para ventas.
type SaleRepository interface {
	// Create inserta cabecera y líneas. Un código repetido devuelve domain.ErrDuplicate.
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id string, plan FetchPlan) (*entity.Sale, error)
	GetByCode(ctx context.Context, code string, plan FetchPlan) (*entity.Sale, error)
	// LockByCode y LockByID bloquean la cabecera y devuelven la venta con sus líneas.
	LockByCode(ctx context.Context, code string) (*entity.Sale, error)
	LockByID(ctx context.Context, id string) (*entity.Sale, error)
	CodeExists(ctx context.Context, code string) (bool, error)
	List(ctx context.Context, filter SaleFilter, limit, offset int, plan FetchPlan) ([]*entity.Sale, error)
	UpdateStatus(ctx context.Context, id string, status entity.Status) error
	Delete(ctx context.Context, id string) error
}
