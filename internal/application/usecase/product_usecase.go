package usecase

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/domain/repository"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

// ImageStore puerto de almacenamiento de imágenes de producto.
type ImageStore interface {
	// Save guarda el contenido con el nombre dado y devuelve la URL pública.
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	// Remove borra una imagen previamente guardada a partir de su URL pública.
	Remove(ctx context.Context, url string) error
}

// Tipos de imagen aceptados y su extensión.
var imageExtensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// ProductUseCase catálogo de productos y variantes. El stock de una variante solo se fija al crearla;
// después lo mueven los flujos de venta y de orden de compra.
type ProductUseCase struct {
	tx       ports.TxRunner
	products repository.ProductRepository
	variants repository.VariantRepository
	images   ImageStore
	log      *logger.Logger
}

// NewProductUseCase construye el caso de uso. log puede ser nil.
func NewProductUseCase(
	tx ports.TxRunner,
	products repository.ProductRepository,
	variants repository.VariantRepository,
	images ImageStore,
	log *logger.Logger,
) *ProductUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{tx: tx, products: products, variants: variants, images: images, log: log.Component("products")}
}

// Create crea el producto, sus vínculos con categorías y sus variantes iniciales en una transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest) (*dto.ProductResponse, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" || in.SupplierID == "" {
		return nil, fmt.Errorf("%w: name y supplier_id son requeridos", domain.ErrInvalidInput)
	}
	if in.Price.LessThan(decimal.Zero) {
		return nil, fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
	}
	for i, v := range in.Variants {
		if err := validateVariant(v); err != nil {
			return nil, fmt.Errorf("variante %d: %w", i+1, err)
		}
	}

	now := time.Now().UTC()
	product := &entity.Product{
		ID:          uuid.New().String(),
		Name:        name,
		Description: in.Description,
		Price:       in.Price,
		SupplierID:  in.SupplierID,
		CategoryIDs: dedupe(in.CategoryIDs),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if err := checkReferences(ctx, repos, product.SupplierID, product.CategoryIDs); err != nil {
			return err
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		for _, v := range in.Variants {
			variant := &entity.Variant{
				ID:        uuid.New().String(),
				ProductID: product.ID,
				Color:     strings.TrimSpace(v.Color),
				Size:      strings.TrimSpace(v.Size),
				Stock:     v.Stock,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := repos.Variants.Create(ctx, variant); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, product.ID)
}

// GetByID devuelve el producto con proveedor, categorías y variantes.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	p, err := uc.products.GetByID(ctx, id, repository.FetchFull)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound("producto", id)
	}
	return dto.FromProduct(p), nil
}

// List lista productos con filtros opcionales por categoría y proveedor.
func (uc *ProductUseCase) List(ctx context.Context, filter repository.ProductFilter, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, err := uc.products.List(ctx, filter, page.Limit, page.Offset, repository.FetchCategories|repository.FetchProducts)
	if err != nil {
		return nil, err
	}
	out := &dto.ProductListResponse{
		Items: make([]dto.ProductResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, p := range list {
		out.Items = append(out.Items, *dto.FromProduct(p))
	}
	return out, nil
}

// Update aplica el parche campo a campo; CategoryIDs presente reemplaza el conjunto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		p, err := repos.Products.GetByID(ctx, id, repository.FetchCategories)
		if err != nil {
			return err
		}
		if p == nil {
			return domain.NewNotFound("producto", id)
		}
		if in.Name != nil {
			name := strings.TrimSpace(*in.Name)
			if name == "" {
				return fmt.Errorf("%w: name no puede ser vacío", domain.ErrInvalidInput)
			}
			p.Name = name
		}
		if in.Description != nil {
			p.Description = *in.Description
		}
		if in.Price != nil {
			if in.Price.LessThan(decimal.Zero) {
				return fmt.Errorf("%w: price no puede ser negativo", domain.ErrInvalidInput)
			}
			p.Price = *in.Price
		}
		if in.SupplierID != nil {
			p.SupplierID = *in.SupplierID
		}
		if in.CategoryIDs != nil {
			p.CategoryIDs = dedupe(*in.CategoryIDs)
		}
		if err := checkReferences(ctx, repos, p.SupplierID, p.CategoryIDs); err != nil {
			return err
		}
		p.UpdatedAt = time.Now().UTC()
		return repos.Products.Update(ctx, p)
	})
	if err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// Delete elimina un producto. Si alguna variante figura en ventas u órdenes devuelve ErrConflict.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	p, err := uc.products.GetByID(ctx, id, repository.FetchHeader)
	if err != nil {
		return err
	}
	if p == nil {
		return domain.NewNotFound("producto", id)
	}
	if err := uc.products.Delete(ctx, id); err != nil {
		return err
	}
	if p.ImageURL != "" && uc.images != nil {
		uc.removeImage(ctx, id, p.ImageURL)
	}
	return nil
}

// UploadImage guarda la imagen como <uuid><ext> y actualiza image_url del producto.
func (uc *ProductUseCase) UploadImage(ctx context.Context, id, contentType string, r io.Reader) (*dto.ProductResponse, error) {
	ext, ok := imageExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return nil, fmt.Errorf("%w: tipo de imagen no soportado %q", domain.ErrInvalidInput, contentType)
	}
	p, err := uc.products.GetByID(ctx, id, repository.FetchCategories)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound("producto", id)
	}
	url, err := uc.images.Save(ctx, uuid.New().String()+ext, r)
	if err != nil {
		return nil, err
	}
	previous := p.ImageURL
	p.ImageURL = url
	p.UpdatedAt = time.Now().UTC()
	if err := uc.products.Update(ctx, p); err != nil {
		uc.removeImage(ctx, id, url)
		return nil, err
	}
	if previous != "" {
		uc.removeImage(ctx, id, previous)
	}
	return uc.GetByID(ctx, id)
}

// removeImage borra una imagen ya desvinculada del producto. Los fallos se registran y no se propagan.
func (uc *ProductUseCase) removeImage(ctx context.Context, productID, url string) {
	if err := uc.images.Remove(ctx, url); err != nil {
		uc.log.Warn().Err(err).
			Str("product_id", productID).
			Str("image_url", url).
			Msg("no se pudo borrar la imagen")
	}
}

// AddVariant crea una variante con su stock inicial.
func (uc *ProductUseCase) AddVariant(ctx context.Context, productID string, in dto.CreateVariantRequest) (*dto.VariantResponse, error) {
	if err := validateVariant(in); err != nil {
		return nil, err
	}
	p, err := uc.products.GetByID(ctx, productID, repository.FetchHeader)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound("producto", productID)
	}
	now := time.Now().UTC()
	v := &entity.Variant{
		ID:        uuid.New().String(),
		ProductID: productID,
		Color:     strings.TrimSpace(in.Color),
		Size:      strings.TrimSpace(in.Size),
		Stock:     in.Stock,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.variants.Create(ctx, v); err != nil {
		return nil, err
	}
	return dto.FromVariant(v), nil
}

// ListVariants lista las variantes de un producto existente.
func (uc *ProductUseCase) ListVariants(ctx context.Context, productID string) ([]dto.VariantResponse, error) {
	p, err := uc.products.GetByID(ctx, productID, repository.FetchHeader)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.NewNotFound("producto", productID)
	}
	list, err := uc.variants.ListByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.VariantResponse, 0, len(list))
	for _, v := range list {
		out = append(out, *dto.FromVariant(v))
	}
	return out, nil
}

// GetVariant devuelve la variante con su producto.
func (uc *ProductUseCase) GetVariant(ctx context.Context, id string) (*dto.VariantResponse, error) {
	v, err := uc.variants.GetByID(ctx, id, repository.FetchProducts)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NewNotFound("variante", id)
	}
	return dto.FromVariant(v), nil
}

// UpdateVariant aplica el parche de color y talla.
func (uc *ProductUseCase) UpdateVariant(ctx context.Context, id string, in dto.UpdateVariantRequest) (*dto.VariantResponse, error) {
	v, err := uc.variants.GetByID(ctx, id, repository.FetchHeader)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, domain.NewNotFound("variante", id)
	}
	if in.Color != nil {
		v.Color = strings.TrimSpace(*in.Color)
	}
	if in.Size != nil {
		v.Size = strings.TrimSpace(*in.Size)
	}
	v.UpdatedAt = time.Now().UTC()
	if err := uc.variants.Update(ctx, v); err != nil {
		return nil, err
	}
	return dto.FromVariant(v), nil
}

// DeleteVariant elimina una variante que no figure en ventas ni órdenes.
func (uc *ProductUseCase) DeleteVariant(ctx context.Context, id string) error {
	v, err := uc.variants.GetByID(ctx, id, repository.FetchHeader)
	if err != nil {
		return err
	}
	if v == nil {
		return domain.NewNotFound("variante", id)
	}
	return uc.variants.Delete(ctx, id)
}

func validateVariant(v dto.CreateVariantRequest) error {
	if strings.TrimSpace(v.Color) == "" || strings.TrimSpace(v.Size) == "" {
		return fmt.Errorf("%w: color y size son requeridos", domain.ErrInvalidInput)
	}
	if v.Stock < 0 {
		return fmt.Errorf("%w: stock no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

func checkReferences(ctx context.Context, repos ports.TxRepos, supplierID string, categoryIDs []string) error {
	s, err := repos.Suppliers.GetByID(ctx, supplierID)
	if err != nil {
		return err
	}
	if s == nil {
		return domain.NewNotFound("proveedor", supplierID)
	}
	for _, id := range categoryIDs {
		c, err := repos.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c == nil {
			return domain.NewNotFound("categoría", id)
		}
	}
	return nil
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok || id == "" {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
