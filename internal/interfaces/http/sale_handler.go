package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/domain"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
)

// SaleHandler maneja ventas y su comprobante.
type SaleHandler struct {
	uc      *sales.SaleUseCase
	receipt *sales.ReceiptUseCase
}

// NewSaleHandler construye el handler.
func NewSaleHandler(uc *sales.SaleUseCase, receipt *sales.ReceiptUseCase) *SaleHandler {
	return &SaleHandler{uc: uc, receipt: receipt}
}

// Create godoc
// @Summary      Registrar venta
// @Description  Descuenta el stock de cada variante y deja la venta en pending con un código único.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "Cédula del cliente y líneas"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *SaleHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        status  query  string  false  "pending | confirmed | cancelled"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200     {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *SaleHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.Context(), c.Query("status"), pageFrom(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// GetByCode godoc
// @Summary      Obtener venta por código
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        code  path  string  true  "Código de 8 caracteres"
// @Success      200   {object}  dto.SaleResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{code} [get]
func (h *SaleHandler) GetByCode(c *fiber.Ctx) error {
	out, err := h.uc.GetByCode(c.Context(), c.Params("code"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Receipt godoc
// @Summary      Comprobante PDF de la venta
// @Tags         sales
// @Security     Bearer
// @Produce      application/pdf
// @Param        code  path  string  true  "Código de la venta"
// @Success      200
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/sales/{code}/receipt [get]
func (h *SaleHandler) Receipt(c *fiber.Ctx) error {
	code := c.Params("code")
	pdf, err := h.receipt.Receipt(c.Context(), code)
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `inline; filename="venta-`+code+`.pdf"`)
	return c.Send(pdf)
}

// ChangeStatus godoc
// @Summary      Confirmar o cancelar una venta
// @Description  Cancelar restituye el stock de cada línea.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        code  path  string             true  "Código de la venta"
// @Param        body  body  dto.StatusRequest  true  "confirmed | cancelled"
// @Success      200   {object}  dto.SaleResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/sales/{code}/status [patch]
func (h *SaleHandler) ChangeStatus(c *fiber.Ctx) error {
	var in dto.StatusRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	out, err := h.uc.ChangeStatus(c.Context(), c.Params("code"), in.Status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar venta pendiente
// @Tags         sales
// @Security     Bearer
// @Param        id   path  string  true  "ID de la venta"
// @Success      204
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [delete]
func (h *SaleHandler) Delete(c *fiber.Ctx) error {
	if err := h.uc.Delete(c.Context(), c.Params("id")); err != nil {
		return writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByCustomer godoc
// @Summary      Ventas de un cliente
// @Description  manager y admin consultan cualquier cédula; un cliente solo la propia.
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        cedula  path  string  true  "Cédula del cliente"
// @Success      200     {object}  dto.SaleListResponse
// @Failure      403     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/sales/by-cedula/{cedula} [get]
func (h *SaleHandler) ListByCustomer(c *fiber.Ctx) error {
	cedula := c.Params("cedula")
	switch GetRole(c) {
	case entity.RoleManager, entity.RoleAdmin:
	default:
		if GetCedula(c) != cedula {
			return writeError(c, domain.ErrForbidden)
		}
	}
	out, err := h.uc.ListByCustomer(c.Context(), cedula)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
