package usecase_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/usecase"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// fakeImages guarda el contenido en memoria y registra los borrados.
type fakeImages struct {
	saved   map[string]string
	removed   []string
	failOn    string
	removeErr error
}

func newFakeImages() *fakeImages { return &fakeImages{saved: map[string]string{}} }

func (f *fakeImages) Save(_ context.Context, name string, r io.Reader) (string, error) {
	if f.failOn != "" && strings.HasSuffix(name, f.failOn) {
		return "", errors.New("disco lleno")
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	url := "/images/" + name
	f.saved[url] = string(b)
	return url, nil
}

func (f *fakeImages) Remove(_ context.Context, url string) error {
	f.removed = append(f.removed, url)
	if f.removeErr != nil {
		return f.removeErr
	}
	delete(f.saved, url)
	return nil
}

type catalog struct {
	store      *memory.Store
	products   *usecase.ProductUseCase
	categories *usecase.CategoryUseCase
	suppliers  *usecase.SupplierUseCase
	images     *fakeImages
}

func newCatalog(t *testing.T) *catalog {
	return newCatalogWithLog(t, nil)
}

func newCatalogWithLog(t *testing.T, log *logger.Logger) *catalog {
	t.Helper()
	store := memory.New()
	repos := store.Repos()
	images := newFakeImages()
	return &catalog{
		store:      store,
		products:   usecase.NewProductUseCase(store, repos.Products, repos.Variants, images, log),
		categories: usecase.NewCategoryUseCase(repos.Categories),
		suppliers:  usecase.NewSupplierUseCase(repos.Suppliers),
		images:     images,
	}
}

func (c *catalog) supplier(t *testing.T, name string) string {
	t.Helper()
	s, err := c.suppliers.Create(context.Background(), dto.CreateSupplierRequest{Name: name, Email: name + "@proveedor.co"})
	require.NoError(t, err)
	return s.ID
}

func (c *catalog) category(t *testing.T, name string) string {
	t.Helper()
	cat, err := c.categories.Create(context.Background(), dto.CategoryRequest{Name: name})
	require.NoError(t, err)
	return cat.ID
}

func TestProduct_CrearConVariantesYCategorias(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	sup := c.supplier(t, "textiles")
	cat := c.category(t, "Camisetas")

	out, err := c.products.Create(ctx, dto.CreateProductRequest{
		Name:        "  Camiseta básica ",
		Price:       decimal.RequireFromString("29.90"),
		SupplierID:  sup,
		CategoryIDs: []string{cat, cat},
		Variants: []dto.CreateVariantRequest{
			{Color: "rojo", Size: "M", Stock: 5},
			{Color: "azul", Size: "L", Stock: 0},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Camiseta básica", out.Name)
	assert.Equal(t, []string{cat}, out.CategoryIDs)
	assert.Len(t, out.Variants, 2)
	require.NotNil(t, out.Supplier)
	assert.Equal(t, "textiles", out.Supplier.Name)

	byCategory, err := c.products.List(ctx, repository.ProductFilter{CategoryID: cat}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Len(t, byCategory.Items, 1)

	none, err := c.products.List(ctx, repository.ProductFilter{SupplierID: "otro"}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, none.Items)
}

func TestProduct_CrearValidaReferencias(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	sup := c.supplier(t, "textiles")

	_, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "X", SupplierID: "no-existe"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{Name: "X", SupplierID: sup, CategoryIDs: []string{"no-existe"}})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{Name: "X", SupplierID: sup, Price: decimal.NewFromInt(-1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{
		Name: "X", SupplierID: sup,
		Variants: []dto.CreateVariantRequest{{Color: "rojo", Size: "M", Stock: -1}},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	list, err := c.products.List(ctx, repository.ProductFilter{}, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, list.Items)
}

func TestProduct_ActualizarReemplazaCategorias(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	sup := c.supplier(t, "textiles")
	a, b := c.category(t, "Hombre"), c.category(t, "Mujer")
	p, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "Jean", SupplierID: sup, CategoryIDs: []string{a}})
	require.NoError(t, err)

	price := decimal.NewFromInt(80)
	cats := []string{b}
	out, err := c.products.Update(ctx, p.ID, dto.UpdateProductRequest{Price: &price, CategoryIDs: &cats})
	require.NoError(t, err)
	assert.True(t, price.Equal(out.Price))
	assert.Equal(t, []string{b}, out.CategoryIDs)
	assert.Equal(t, "Jean", out.Name)

	empty := ""
	_, err = c.products.Update(ctx, p.ID, dto.UpdateProductRequest{Name: &empty})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.Update(ctx, "no-existe", dto.UpdateProductRequest{})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	// La categoría ya no tiene productos y puede eliminarse.
	require.NoError(t, c.categories.Delete(ctx, a))
	assert.ErrorIs(t, c.categories.Delete(ctx, b), domain.ErrConflict)
}

func TestProduct_SubirImagenReemplazaLaAnterior(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "Gorra", SupplierID: c.supplier(t, "s")})
	require.NoError(t, err)

	first, err := c.products.UploadImage(ctx, p.ID, "image/png", strings.NewReader("png-1"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(first.ImageURL, ".png"))
	assert.Equal(t, "png-1", c.images.saved[first.ImageURL])

	second, err := c.products.UploadImage(ctx, p.ID, "IMAGE/JPEG", strings.NewReader("jpg"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(second.ImageURL, ".jpg"))
	assert.Equal(t, []string{first.ImageURL}, c.images.removed)

	_, err = c.products.UploadImage(ctx, p.ID, "application/pdf", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = c.products.UploadImage(ctx, "no-existe", "image/png", strings.NewReader("x"))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	c.images.failOn = ".gif"
	_, err = c.products.UploadImage(ctx, p.ID, "image/gif", strings.NewReader("x"))
	require.Error(t, err)
	current, err := c.products.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ImageURL, current.ImageURL)

	require.NoError(t, c.products.Delete(ctx, p.ID))
	assert.Contains(t, c.images.removed, second.ImageURL)
}

func TestProduct_FalloAlBorrarImagenSeRegistraSinFallar(t *testing.T) {
	var buf bytes.Buffer
	c := newCatalogWithLog(t, logger.New(logger.Config{Level: "warn", Output: &buf}))
	ctx := context.Background()
	p, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "Bolso", SupplierID: c.supplier(t, "s")})
	require.NoError(t, err)

	first, err := c.products.UploadImage(ctx, p.ID, "image/png", strings.NewReader("png"))
	require.NoError(t, err)

	c.images.removeErr = errors.New("permiso denegado")
	second, err := c.products.UploadImage(ctx, p.ID, "image/webp", strings.NewReader("webp"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(second.ImageURL, ".webp"))
	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), first.ImageURL)
	assert.Contains(t, buf.String(), "permiso denegado")

	buf.Reset()
	require.NoError(t, c.products.Delete(ctx, p.ID))
	assert.Contains(t, buf.String(), second.ImageURL)
	assert.Contains(t, buf.String(), `"product_id":"`+p.ID+`"`)
}

func TestVariant_CicloDeVida(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p, err := c.products.Create(ctx, dto.CreateProductRequest{Name: "Buzo", SupplierID: c.supplier(t, "s")})
	require.NoError(t, err)

	v, err := c.products.AddVariant(ctx, p.ID, dto.CreateVariantRequest{Color: "gris", Size: "S", Stock: 3})
	require.NoError(t, err)
	assert.Equal(t, 3, v.Stock)

	_, err = c.products.AddVariant(ctx, p.ID, dto.CreateVariantRequest{Color: "", Size: "S"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = c.products.AddVariant(ctx, "no-existe", dto.CreateVariantRequest{Color: "gris", Size: "S"})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	color := "negro"
	updated, err := c.products.UpdateVariant(ctx, v.ID, dto.UpdateVariantRequest{Color: &color})
	require.NoError(t, err)
	assert.Equal(t, "negro", updated.Color)
	assert.Equal(t, "S", updated.Size)
	assert.Equal(t, 3, updated.Stock, "el parche no toca el stock")

	got, err := c.products.GetVariant(ctx, v.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Product)
	assert.Equal(t, p.ID, got.Product.ID)

	list, err := c.products.ListVariants(ctx, p.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, c.products.DeleteVariant(ctx, v.ID))
	_, err = c.products.GetVariant(ctx, v.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, c.products.DeleteVariant(ctx, v.ID), domain.ErrNotFound)
}

func TestProduct_EliminarConVentasEsConflicto(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	p, err := c.products.Create(ctx, dto.CreateProductRequest{
		Name: "Media", SupplierID: c.supplier(t, "s"),
		Variants: []dto.CreateVariantRequest{{Color: "blanco", Size: "U", Stock: 4}},
	})
	require.NoError(t, err)
	variantID := p.Variants[0].ID

	repos := c.store.Repos()
	now := time.Now().UTC()
	require.NoError(t, repos.Users.Create(ctx, &entity.User{ID: "u-1", Email: "c@x.co", Cedula: "77", Role: entity.RoleClient, IsActive: true}))
	require.NoError(t, repos.Sales.Create(ctx, &entity.Sale{
		ID: "s-1", Code: "ABCDEF12", CustomerID: "u-1", Status: entity.StatusPending, Total: decimal.NewFromInt(5),
		CreatedAt: now, UpdatedAt: now,
		Lines: []*entity.SaleLine{{ID: "l-1", SaleID: "s-1", VariantID: variantID, Quantity: 1, UnitPrice: decimal.NewFromInt(5)}},
	}))

	assert.ErrorIs(t, c.products.Delete(ctx, p.ID), domain.ErrConflict)
	assert.ErrorIs(t, c.products.DeleteVariant(ctx, variantID), domain.ErrConflict)
	assert.ErrorIs(t, c.products.Delete(ctx, "no-existe"), domain.ErrNotFound)
}

func TestCategory_NombreUnicoYLongitud(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	id := c.category(t, "Accesorios")

	_, err := c.categories.Create(ctx, dto.CategoryRequest{Name: " Accesorios "})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = c.categories.Create(ctx, dto.CategoryRequest{Name: "A"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = c.categories.Create(ctx, dto.CategoryRequest{Name: strings.Repeat("x", entity.CategoryNameMax+1)})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	renamed, err := c.categories.Rename(ctx, id, dto.CategoryRequest{Name: "Complementos"})
	require.NoError(t, err)
	assert.Equal(t, "Complementos", renamed.Name)

	c.category(t, "Calzado")
	_, err = c.categories.Rename(ctx, id, dto.CategoryRequest{Name: "Calzado"})
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	list, err := c.categories.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Calzado", list[0].Name)

	_, err = c.categories.GetByID(ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSupplier_ParcheYEliminacion(t *testing.T) {
	c := newCatalog(t)
	ctx := context.Background()
	id := c.supplier(t, "textiles")

	phone := "3001234567"
	out, err := c.suppliers.Update(ctx, id, dto.UpdateSupplierRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, out.Phone)
	assert.Equal(t, "textiles", out.Name)

	_, err = c.products.Create(ctx, dto.CreateProductRequest{Name: "Polo", SupplierID: id})
	require.NoError(t, err)
	assert.ErrorIs(t, c.suppliers.Delete(ctx, id), domain.ErrConflict)

	other := c.supplier(t, "otro")
	require.NoError(t, c.suppliers.Delete(ctx, other))
	_, err = c.suppliers.GetByID(ctx, other)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = c.suppliers.Create(ctx, dto.CreateSupplierRequest{Name: "  "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
