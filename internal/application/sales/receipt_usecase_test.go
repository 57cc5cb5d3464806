package sales_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// captureGenerator guarda la venta recibida en lugar de renderizarla.
type captureGenerator struct {
	got *entity.Sale
}

func (g *captureGenerator) GenerateSaleReceipt(_ context.Context, sale *entity.Sale) ([]byte, error) {
	g.got = sale
	return []byte("%PDF-fake"), nil
}

func TestReceipt_CargaVentaCompleta(t *testing.T) {
	f := newFixture(t, sales.Config{})
	ctx := context.Background()
	out, err := f.uc.Create(ctx, dto.CreateSaleRequest{
		CustomerCedula: "1001",
		Lines:          []dto.SaleLineRequest{line(f.variantA, 2, "10")},
	})
	require.NoError(t, err)

	gen := &captureGenerator{}
	uc := sales.NewReceiptUseCase(f.store.Repos().Sales, gen)
	pdf, err := uc.Receipt(ctx, out.Code)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-fake", string(pdf))

	require.NotNil(t, gen.got)
	require.NotNil(t, gen.got.Customer)
	assert.Equal(t, "Ana", gen.got.Customer.FullName)
	require.Len(t, gen.got.Lines, 1)
	require.NotNil(t, gen.got.Lines[0].Variant)
	require.NotNil(t, gen.got.Lines[0].Variant.Product)
	assert.Equal(t, "Camiseta", gen.got.Lines[0].Variant.Product.Name)

	_, err = uc.Receipt(ctx, "NOEXISTE")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
