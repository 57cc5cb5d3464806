package sales

import (
	"context"
	"fmt"
	"sort"
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

// Config parámetros del flujo de ventas.
type Config struct {
	CodeMaxAttempts int
	CodeGenerator   CodeGenerator // RandomCode si es nil
}

// SaleUseCase flujo de ventas: el stock se descuenta al crear y se restituye al cancelar o
// eliminar una venta pendiente. Confirmar es solo un cambio de estado.
type SaleUseCase struct {
	tx        ports.TxRunner
	sales     repository.SaleRepository
	users     repository.UserRepository
	publisher ports.EventPublisher
	metrics   ports.Metrics
	log       *logger.Logger
	cfg       Config
	now       func() time.Time
}

// NewSaleUseCase construye el caso de uso. sales y users se usan para lecturas fuera de transacción.
func NewSaleUseCase(
	tx ports.TxRunner,
	sales repository.SaleRepository,
	users repository.UserRepository,
	publisher ports.EventPublisher,
	metrics ports.Metrics,
	log *logger.Logger,
	cfg Config,
) *SaleUseCase {
	if cfg.CodeMaxAttempts <= 0 {
		cfg.CodeMaxAttempts = 20
	}
	if cfg.CodeGenerator == nil {
		cfg.CodeGenerator = RandomCode
	}
	if metrics == nil {
		metrics = ports.NopMetrics{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &SaleUseCase{
		tx:        tx,
		sales:     sales,
		users:     users,
		publisher: publisher,
		metrics:   metrics,
		log:       log.Component("sales"),
		cfg:       cfg,
		now:       time.Now,
	}
}

// Create registra la venta. Valida cliente, existencia de variantes y stock de todas las líneas
// antes de escribir; luego persiste cabecera, líneas y descuenta stock en la misma transacción.
func (uc *SaleUseCase) Create(ctx context.Context, in dto.CreateSaleRequest) (*dto.SaleResponse, error) {
	if err := validateCreate(in); err != nil {
		return nil, err
	}
	requested, ids := requestedByVariant(in.Lines)
	now := uc.now().UTC()
	sale := &entity.Sale{
		ID:        uuid.New().String(),
		Status:    entity.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		customer, err := repos.Users.GetByCedula(ctx, in.CustomerCedula)
		if err != nil {
			return err
		}
		if customer == nil {
			return domain.NewNotFound("cliente", in.CustomerCedula)
		}

		locked, err := repos.Variants.LockForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		for _, l := range in.Lines {
			if _, ok := locked[l.VariantID]; !ok {
				return domain.NewNotFound("variante", l.VariantID)
			}
		}
		for _, id := range ids {
			if v := locked[id]; v.Stock < requested[id] {
				return &domain.StockError{VariantID: id, Available: v.Stock, Requested: requested[id]}
			}
		}

		code, err := uniqueCode(ctx, repos.Sales, uc.cfg.CodeGenerator, uc.cfg.CodeMaxAttempts)
		if err != nil {
			return err
		}
		sale.Code = code
		sale.CustomerID = customer.ID
		sale.Total = decimal.Zero
		sale.Lines = make([]*entity.SaleLine, 0, len(in.Lines))
		for _, l := range in.Lines {
			line := &entity.SaleLine{
				ID:        uuid.New().String(),
				SaleID:    sale.ID,
				VariantID: l.VariantID,
				Quantity:  l.Quantity,
				UnitPrice: l.UnitPrice,
			}
			sale.Total = sale.Total.Add(line.Subtotal())
			sale.Lines = append(sale.Lines, line)
		}
		if err := repos.Sales.Create(ctx, sale); err != nil {
			return err
		}

		for _, id := range ids {
			if _, err := repos.Variants.AdjustStock(ctx, id, -requested[id]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	units := sumUnits(in.Lines)
	uc.metrics.SaleCreated()
	uc.metrics.StockMoved(ports.StockOut, units)
	uc.log.Info().Str("code", sale.Code).Str("total", sale.Total.String()).Int("units", units).Msg("venta creada")
	ports.PublishBestEffort(ctx, uc.publisher, uc.log, ports.NewEvent(ports.EventSaleCreated, sale.ID, map[string]any{
		"code":        sale.Code,
		"customer_id": sale.CustomerID,
		"total":       sale.Total,
		"units":       units,
	}))
	return uc.GetByCode(ctx, sale.Code)
}

// GetByID devuelve la venta con cliente, líneas, variantes y productos.
func (uc *SaleUseCase) GetByID(ctx context.Context, id string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByID(ctx, id, repository.FetchFull)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewNotFound("venta", id)
	}
	return dto.FromSale(sale), nil
}

// GetByCode igual que GetByID pero por código legible.
func (uc *SaleUseCase) GetByCode(ctx context.Context, code string) (*dto.SaleResponse, error) {
	sale, err := uc.sales.GetByCode(ctx, code, repository.FetchFull)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, domain.NewNotFound("venta", code)
	}
	return dto.FromSale(sale), nil
}

// ChangeStatus aplica pending→confirmed o pending→cancelled. Cancelar restituye el stock de
// cada línea antes de cambiar el estado, dentro de la misma transacción.
func (uc *SaleUseCase) ChangeStatus(ctx context.Context, code, status string) (*dto.SaleResponse, error) {
	to, ok := entity.ParseStatus(status)
	if !ok {
		return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
	}

	var restored int
	var saleID string
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		sale, err := repos.Sales.LockByCode(ctx, code)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NewNotFound("venta", code)
		}
		if !sale.Status.CanTransition(to) {
			return fmt.Errorf("%w: venta %s en estado %s no puede pasar a %s", domain.ErrInvalidState, code, sale.Status, to)
		}
		saleID = sale.ID
		if to == entity.StatusCancelled {
			if restored, err = restoreStock(ctx, repos.Variants, sale.Lines); err != nil {
				return err
			}
		}
		return repos.Sales.UpdateStatus(ctx, sale.ID, to)
	})
	if err != nil {
		return nil, err
	}

	uc.metrics.SaleStatusChanged(string(to))
	if restored > 0 {
		uc.metrics.StockMoved(ports.StockIn, restored)
	}
	uc.log.Info().Str("code", code).Str("status", string(to)).Int("units_restored", restored).Msg("estado de venta actualizado")
	ports.PublishBestEffort(ctx, uc.publisher, uc.log, ports.NewEvent(ports.EventSaleStatusChanged, saleID,
		map[string]any{"code": code, "status": to, "units_restored": restored}))
	return uc.GetByCode(ctx, code)
}

// Delete elimina una venta pendiente restituyendo su stock. Confirmadas y canceladas no se eliminan.
func (uc *SaleUseCase) Delete(ctx context.Context, id string) error {
	var restored int
	var code string
	err := uc.tx.Run(ctx, func(repos ports.TxRepos) error {
		sale, err := repos.Sales.LockByID(ctx, id)
		if err != nil {
			return err
		}
		if sale == nil {
			return domain.NewNotFound("venta", id)
		}
		if sale.Status != entity.StatusPending {
			return fmt.Errorf("%w: la venta %s está %s", domain.ErrInvalidState, sale.Code, sale.Status)
		}
		code = sale.Code
		if restored, err = restoreStock(ctx, repos.Variants, sale.Lines); err != nil {
			return err
		}
		return repos.Sales.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	if restored > 0 {
		uc.metrics.StockMoved(ports.StockIn, restored)
	}
	uc.log.Info().Str("code", code).Int("units_restored", restored).Msg("venta eliminada")
	ports.PublishBestEffort(ctx, uc.publisher, uc.log, ports.NewEvent(ports.EventSaleDeleted, id,
		map[string]any{"code": code, "units_restored": restored}))
	return nil
}

// List lista todas las ventas, opcionalmente filtradas por estado.
func (uc *SaleUseCase) List(ctx context.Context, status string, page dto.PageRequest) (*dto.SaleListResponse, error) {
	var filter repository.SaleFilter
	if status != "" {
		st, ok := entity.ParseStatus(status)
		if !ok {
			return nil, fmt.Errorf("%w: estado %q", domain.ErrInvalidInput, status)
		}
		filter.Status = st
	}
	page.Normalize()
	list, err := uc.sales.List(ctx, filter, page.Limit, page.Offset, repository.FetchLines|repository.FetchParties)
	if err != nil {
		return nil, err
	}
	return toListResponse(list, page), nil
}

// ListByCustomer devuelve todas las ventas del cliente. Cliente inexistente es NotFound;
// un cliente sin ventas devuelve lista vacía.
func (uc *SaleUseCase) ListByCustomer(ctx context.Context, cedula string) (*dto.SaleListResponse, error) {
	customer, err := uc.users.GetByCedula(ctx, cedula)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.NewNotFound("cliente", cedula)
	}
	list, err := uc.sales.List(ctx, repository.SaleFilter{CustomerID: customer.ID}, 0, 0, repository.FetchFull)
	if err != nil {
		return nil, err
	}
	return toListResponse(list, dto.PageRequest{Limit: len(list)}), nil
}

func toListResponse(list []*entity.Sale, page dto.PageRequest) *dto.SaleListResponse {
	out := &dto.SaleListResponse{
		Items: make([]dto.SaleResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Count: len(list)},
	}
	for _, s := range list {
		out.Items = append(out.Items, *dto.FromSale(s))
	}
	return out
}

// restoreStock devuelve al stock las cantidades de las líneas (bloqueando las variantes primero).
func restoreStock(ctx context.Context, variants repository.VariantRepository, lines []*entity.SaleLine) (int, error) {
	requested := make(map[string]int, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, seen := requested[l.VariantID]; !seen {
			ids = append(ids, l.VariantID)
		}
		requested[l.VariantID] += l.Quantity
	}
	sort.Strings(ids)
	if _, err := variants.LockForUpdate(ctx, ids); err != nil {
		return 0, err
	}
	total := 0
	for _, id := range ids {
		if _, err := variants.AdjustStock(ctx, id, requested[id]); err != nil {
			return 0, err
		}
		total += requested[id]
	}
	return total, nil
}

func validateCreate(in dto.CreateSaleRequest) error {
	if in.CustomerCedula == "" {
		return fmt.Errorf("%w: customer_cedula es requerido", domain.ErrInvalidInput)
	}
	if len(in.Lines) == 0 {
		return fmt.Errorf("%w: la venta debe tener al menos una línea", domain.ErrInvalidInput)
	}
	for i, l := range in.Lines {
		if l.VariantID == "" || l.Quantity <= 0 {
			return fmt.Errorf("%w: línea %d requiere variant_id y quantity > 0", domain.ErrInvalidInput, i+1)
		}
		if !l.UnitPrice.GreaterThan(decimal.Zero) {
			return fmt.Errorf("%w: línea %d requiere unit_price > 0", domain.ErrInvalidInput, i+1)
		}
	}
	return nil
}

// requestedByVariant suma las cantidades por variante; varias líneas pueden repetir la misma.
// Los ids vuelven ordenados para bloquear siempre en el mismo orden.
func requestedByVariant(lines []dto.SaleLineRequest) (map[string]int, []string) {
	requested := make(map[string]int, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, seen := requested[l.VariantID]; !seen {
			ids = append(ids, l.VariantID)
		}
		requested[l.VariantID] += l.Quantity
	}
	sort.Strings(ids)
	return requested, ids
}

func sumUnits(lines []dto.SaleLineRequest) int {
	n := 0
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}
