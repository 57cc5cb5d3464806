package dto

import (
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// Conversión entidad → respuesta. Las relaciones no cargadas se omiten.

func FromUser(u *entity.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Cedula:    u.Cedula,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

func FromCategory(c *entity.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Name: c.Name, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func FromSupplier(s *entity.Supplier) *SupplierResponse {
	if s == nil {
		return nil
	}
	return &SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Phone:     s.Phone,
		Email:     s.Email,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func FromProduct(p *entity.Product) *ProductResponse {
	if p == nil {
		return nil
	}
	out := &ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		SupplierID:  p.SupplierID,
		ImageURL:    p.ImageURL,
		CategoryIDs: p.CategoryIDs,
		Supplier:    FromSupplier(p.Supplier),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	if out.CategoryIDs == nil {
		out.CategoryIDs = []string{}
	}
	for _, c := range p.Categories {
		out.Categories = append(out.Categories, FromCategory(c))
	}
	for _, v := range p.Variants {
		out.Variants = append(out.Variants, *FromVariant(v))
	}
	return out
}

func FromVariant(v *entity.Variant) *VariantResponse {
	if v == nil {
		return nil
	}
	return &VariantResponse{
		ID:        v.ID,
		ProductID: v.ProductID,
		Color:     v.Color,
		Size:      v.Size,
		Stock:     v.Stock,
		Product:   FromProduct(v.Product),
	}
}

func FromPurchaseOrder(o *entity.PurchaseOrder) *PurchaseOrderResponse {
	out := &PurchaseOrderResponse{
		ID:         o.ID,
		SupplierID: o.SupplierID,
		Date:       o.Date,
		Status:     string(o.Status),
		Total:      o.Total(),
		Supplier:   FromSupplier(o.Supplier),
		Lines:      make([]OrderLineResponse, 0, len(o.Lines)),
		CreatedAt:  o.CreatedAt,
		UpdatedAt:  o.UpdatedAt,
	}
	for _, l := range o.Lines {
		out.Lines = append(out.Lines, OrderLineResponse{
			ID:        l.ID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.UnitPrice.Mul(decimalInt(l.Quantity)),
			Variant:   FromVariant(l.Variant),
		})
	}
	return out
}

func FromSale(s *entity.Sale) *SaleResponse {
	out := &SaleResponse{
		ID:         s.ID,
		Code:       s.Code,
		CustomerID: s.CustomerID,
		Total:      s.Total,
		Status:     string(s.Status),
		Customer:   FromUser(s.Customer),
		Lines:      make([]SaleLineResponse, 0, len(s.Lines)),
		CreatedAt:  s.CreatedAt,
		UpdatedAt:  s.UpdatedAt,
	}
	for _, l := range s.Lines {
		out.Lines = append(out.Lines, SaleLineResponse{
			ID:        l.ID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
			Subtotal:  l.Subtotal(),
			Variant:   FromVariant(l.Variant),
		})
	}
	return out
}
