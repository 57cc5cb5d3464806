package ports

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// TxRepos repositorios atados a una misma transacción.
type TxRepos struct {
	Users      repository.UserRepository
	Categories repository.CategoryRepository
	Suppliers  repository.SupplierRepository
	Products   repository.ProductRepository
	Variants   repository.VariantRepository
	Orders     repository.PurchaseOrderRepository
	Sales      repository.SaleRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn retorna nil, Rollback en cualquier otro caso.
// Ningún cambio hecho a través de repos es visible fuera si fn falla.
type TxRunner interface {
	Run(ctx context.Context, fn func(repos TxRepos) error) error
}
