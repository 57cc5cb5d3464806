package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CategoryRequest entrada para crear o renombrar una categoría.
type CategoryRequest struct {
	Name string `json:"name"`
}

// CategoryResponse salida de una categoría.
type CategoryResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateSupplierRequest entrada para crear un proveedor.
type CreateSupplierRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Email string `json:"email"`
}

// UpdateSupplierRequest parche de proveedor.
type UpdateSupplierRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
	Email *string `json:"email"`
}

// SupplierResponse salida de un proveedor.
type SupplierResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupplierListResponse lista paginada de proveedores.
type SupplierListResponse struct {
	Items []SupplierResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}

// CreateVariantRequest variante nueva con su stock inicial.
type CreateVariantRequest struct {
	Color string `json:"color"`
	Size  string `json:"size"`
	Stock int    `json:"stock"`
}

// UpdateVariantRequest parche de variante. El stock no es editable aquí.
type UpdateVariantRequest struct {
	Color *string `json:"color"`
	Size  *string `json:"size"`
}

// CreateProductRequest entrada para crear un producto con sus variantes iniciales.
type CreateProductRequest struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	Price       decimal.Decimal        `json:"price"`
	SupplierID  string                 `json:"supplier_id"`
	CategoryIDs []string               `json:"category_ids"`
	Variants    []CreateVariantRequest `json:"variants"`
}

// UpdateProductRequest parche de producto. CategoryIDs, si viene, reemplaza el conjunto completo.
type UpdateProductRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	SupplierID  *string          `json:"supplier_id"`
	CategoryIDs *[]string        `json:"category_ids"`
}

// VariantResponse salida de una variante.
type VariantResponse struct {
	ID        string           `json:"id"`
	ProductID string           `json:"product_id"`
	Color     string           `json:"color"`
	Size      string           `json:"size"`
	Stock     int              `json:"stock"`
	Product   *ProductResponse `json:"product,omitempty"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID          string             `json:"id"`
	Name        string             `json:"name"`
	Description string             `json:"description"`
	Price       decimal.Decimal    `json:"price"`
	SupplierID  string             `json:"supplier_id"`
	ImageURL    string             `json:"image_url,omitempty"`
	CategoryIDs []string           `json:"category_ids"`
	Categories  []CategoryResponse `json:"categories,omitempty"`
	Supplier    *SupplierResponse  `json:"supplier,omitempty"`
	Variants    []VariantResponse  `json:"variants,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// ProductListResponse lista paginada de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}

func decimalInt(n int) decimal.Decimal { return decimal.NewFromInt(int64(n)) }
