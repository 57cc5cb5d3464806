package purchasing

import (
	"context"
	"fmt"
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

// OrderUseCase flujo de órdenes de compra: alta, edición mientras está pendiente y transición de estado.
// Confirmar una orden ingresa al stock las cantidades de sus líneas; cancelarla no toca el stock.
type OrderUseCase struct {
	tx        ports.TxRunner
	orders    repository.PurchaseOrderRepository
	publisher ports.EventPublisher
	metrics   ports.Metrics
	log       *logger.Logger
	now       func() time.Time
}

// NewOrderUseCase construye el caso de uso. orders se usa solo para lecturas fuera de transacción.
func NewOrderUseCase(
	tx ports.TxRunner,
	orders repository.PurchaseOrderRepository,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	log *logger.Logger,
) *OrderUseCase {
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{
		tx:        tx,
		orders:    orders,
		publisher: publisher,
		metrics:   metrics,
		log:       log.Component("purchasing"),
		now:       time.Now,
	}
}

// Create valida todas las líneas contra el proveedor y persiste cabecera y líneas en una sola transacción.
func (uc *OrderUseCase) Create(ctx context.Context, in dto.PurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	now := uc.now().UTC()
	order := &entity.PurchaseOrder{
		ID:         uuid.New().String(),
		SupplierID: in.SupplierID,
		Date:       orderDate(in.Date, now),
		Status:     entity.StatusPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		lines, err := resolveLines(ctx, repos, order.ID, in)
		if err != nil {
			return err
		}
		order.Lines = lines
		return repos.Orders.Create(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.log.Info().Str("order_id", order.ID).Int("lines", len(order.Lines)).Msg("orden de compra creada")
	ports.PublishBestEffort(ctx, uc.publisher, uc.log,
		ports.NewEvent(ports.EventOrderCreated, order.ID, orderPayload(order)))
	return uc.Get(ctx, order.ID)
}

// Get devuelve la orden con proveedor, líneas, variantes y productos cargados.
func (uc *OrderUseCase) Get(ctx context.Context, id string) (*dto.PurchaseOrderResponse, error) {
	order, err := uc.orders.GetByID(ctx, id, repository.FetchFull)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound("orden de compra", id)
	}
	return dto.FromPurchaseOrder(order), nil
}

// List lista órdenes con filtros opcionales por proveedor y estado.
func (uc *OrderUseCase) List(ctx context.Context, supplierID, status string, page dto.PageRequest) (*dto.PurchaseOrderListResponse, error) {
	filter := repository.PurchaseOrderFilter{SupplierID: supplierID}
	if status != "" {
		st, ok := entity.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		filter.Status = st
	}
	page.Normalize()
	list, err := uc.orders.List(ctx, filter, page.Limit, page.Offset, repository.FetchLines|repository.FetchParties)
	if err != nil {
		return nil, err
	}
	out := &dto.PurchaseOrderListResponse{
		Items: make([]dto.PurchaseOrderResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, o := range list {
		out.Items = append(out.Items, *dto.FromPurchaseOrder(o))
	}
	return out, nil
}

// Update reemplaza proveedor, fecha y el conjunto completo de líneas. Solo con la orden pendiente.
func (uc *OrderUseCase) Update(ctx context.Context, id string, in dto.PurchaseOrderRequest) (*dto.PurchaseOrderResponse, error) {
	if err := validateRequest(in); err != nil {
		return nil, err
	}
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		order, err := lockPending(ctx, repos, id)
		if err != nil {
			return err
		}
		lines, err := resolveLines(ctx, repos, order.ID, in)
		if err != nil {
			return err
		}
		order.SupplierID = in.SupplierID
		order.Date = orderDate(in.Date, order.Date)
		order.UpdatedAt = uc.now().UTC()
		if err := repos.Orders.UpdateHeader(ctx, order); err != nil {
			return err
		}
		return repos.Orders.ReplaceLines(ctx, order.ID, lines)
	})
	if err != nil {
		return nil, err
	}

	ports.PublishBestEffort(ctx, uc.publisher, uc.log,
		ports.NewEvent(ports.EventOrderUpdated, id, map[string]any{"supplier_id": in.SupplierID, "lines": len(in.Lines)}))
	return uc.Get(ctx, id)
}

// ChangeStatus mueve la orden de pending a confirmed o cancelled.
// Al confirmar, cada línea suma su cantidad al stock de la variante, en la misma transacción.
func (uc *OrderUseCase) ChangeStatus(ctx context.Context, id, status string) (*dto.PurchaseOrderResponse, error) {
	to, ok := entity.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}

	var received int
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		order, err := repos.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.NewNotFound("orden de compra", id)
		}
		if !order.Status.CanTransition(to) {
			return fmt.Errorf("%w: orden %s en estado %s no puede pasar a %s", domain.ErrInvalidState, id, order.Status, to)
		}
		if to == entity.StatusConfirmed {
			received, err = receiveStock(ctx, repos.Variants, order.Lines)
			if err != nil {
				return err
			}
		}
		order.Status = to
		order.UpdatedAt = uc.now().UTC()
		return repos.Orders.UpdateHeader(ctx, order)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.OrderStatusChanged(string(to))
	if received > 0 {
		uc.metrics.StockMoved(ports.StockIn, received)
	}
	uc.log.Info().Str("order_id", id).Str("status", string(to)).Int("units_received", received).Msg("estado de orden actualizado")
	ports.PublishBestEffort(ctx, uc.publisher, uc.log,
		ports.NewEvent(ports.EventOrderStatusChanged, id, map[string]any{"status": to, "units_received": received}))
	return uc.Get(ctx, id)
}

// Delete elimina una orden pendiente y sus líneas. No afecta el stock.
func (uc *OrderUseCase) Delete(ctx context.Context, id string) error {
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		if _, err := lockPending(ctx, repos, id); err != nil {
			return err
		}
		return repos.Orders.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	ports.PublishBestEffort(ctx, uc.publisher, uc.log, ports.NewEvent(ports.EventOrderDeleted, id, nil))
	return nil
}

func lockPending(ctx context.Context, repos ports.TxRepos, id string) (*entity.PurchaseOrder, error) {
	order, err := repos.Orders.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.NewNotFound("orden de compra", id)
	}
	if order.Status != entity.StatusPending {
		return nil, fmt.Errorf("%w: la orden %s está %s", domain.ErrInvalidState, id, order.Status)
	}
	return order, nil
}

func validateRequest(in dto.PurchaseOrderRequest) error {
	if in.SupplierID == "" {
		return fmt.Errorf("%w: supplier_id es requerido", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: la orden debe tener al menos una línea", domain.ErrInvalidInput)
	}
	for i, l := range in.Lines {
		if l.VariantID == "" || l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d requiere variant_id y quantity > 0", domain.ErrInvalidInput, i+1)
		}
		if l.UnitPrice.LessThan(decimal.Zero) {
			return fmt.Errorf("%w: línea %d con precio negativo", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// resolveLines verifica proveedor y variantes antes de escribir nada. Toda variante debe
// pertenecer a un producto del proveedor de la orden; si alguna no, falla con ErrValidation.
func resolveLines(ctx context.Context, repos ports.TxRepos, orderID string, in dto.PurchaseOrderRequest) ([]*entity.OrderLine, error) {
	supplier, err := repos.Suppliers.GetByID(ctx, in.SupplierID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NewNotFound("proveedor", in.SupplierID)
	}

	lines := make([]*entity.OrderLine, 0, len(in.Lines))
	for _, l := range in.Lines {
		variant, err := repos.Variants.GetByID(ctx, l.VariantID, repository.FetchProducts)
		if err != nil {
			return nil, err
		}
		if variant == nil {
			return nil, domain.NewNotFound("variante", l.VariantID)
		}
		if variant.Product == nil || variant.Product.SupplierID != in.SupplierID {
			return nil, fmt.Errorf("%w: la variante %s no pertenece a un producto del proveedor %s",
				domain.ErrValidation, l.VariantID, in.SupplierID)
		}
		lines = append(lines, &entity.OrderLine{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			VariantID: l.VariantID,
			Quantity:  l.Quantity,
			UnitPrice: l.UnitPrice,
		})
	}
	return lines, nil
}

// receiveStock bloquea las variantes de la orden y suma las cantidades recibidas.
func receiveStock(ctx context.Context, variants repository.VariantRepository, lines []*entity.OrderLine) (int, error) {
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.VariantID)
	}
	locked, err := variants.LockForUpdate(ctx, ids)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, l := range lines {
		if _, ok := locked[l.VariantID]; !ok {
			return 0, domain.NewNotFound("variante", l.VariantID)
		}
		if _, err := variants.AdjustStock(ctx, l.VariantID, l.Quantity); err != nil {
			return 0, err
		}
		total += l.Quantity
	}
	return total, nil
}

func orderDate(in *time.Time, def time.Time) time.Time {
	if in == nil || in.IsZero() {
		return def
	}
	return in.UTC()
}

func orderPayload(o *entity.PurchaseOrder) map[string]any {
	return map[string]any{
		"supplier_id": o.SupplierID,
		"status":      o.Status,
		"lines":       len(o.Lines),
		"total":       o.Total(),
	}
}
