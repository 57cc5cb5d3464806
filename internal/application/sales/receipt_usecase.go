package sales

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
)

// ReceiptGenerator puerto para renderizar el comprobante de una venta.
// La venta llega con cliente, líneas, variantes y productos cargados.
type ReceiptGenerator interface {
	GenerateSaleReceipt(ctx context.Context, sale *entity.Sale) ([]byte, error)
}

// ReceiptUseCase genera el comprobante PDF de una venta.
type ReceiptUseCase struct {
	sales     repository.SaleRepository
	generator ReceiptGenerator
}

// NewReceiptUseCase construye el caso de uso.
func NewReceiptUseCase(sales repository.SaleRepository, generator ReceiptGenerator) *ReceiptUseCase {
	return &ReceiptUseCase{sales: sales, generator: generator}
}

// Receipt devuelve los bytes del PDF de la venta.
func (uc *ReceiptUseCase) Receipt(ctx context.Context, code string) ([]byte, error) {
	sale, err := uc.sales.GetByCode(ctx, code, repository.FetchFull)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewNotFound("venta", code)
	}
	return uc.generator.GenerateSaleReceipt(ctx, sale)
}
