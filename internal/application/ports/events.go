package ports

import (
	"context"
	"time"

	"github.com/jhoicas/ventas-api/pkg/logger"
)

// Tipos de evento publicados tras confirmar la transacción.
const (
	EventSaleCreated        = "sale.created"
	EventSaleStatusChanged  = "sale.status_changed"
	EventSaleDeleted        = "sale.deleted"
	EventOrderCreated       = "purchase_order.created"
	EventOrderUpdated       = "purchase_order.updated"
	EventOrderStatusChanged = "purchase_order.status_changed"
	EventOrderDeleted       = "purchase_order.deleted"
)

// Event evento de dominio serializable.
type Event struct {
	Type        string    `json:"type"`
	AggregateID string    `json:"aggregate_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Payload     any       `json:"payload"`
}

// NewEvent construye un evento con la hora actual en UTC.
func NewEvent(eventType, aggregateID string, payload any) Event {
	return Event{Type: eventType, AggregateID: aggregateID, OccurredAt: time.Now().UTC(), Payload: payload}
}

// EventPublisher publica eventos de dominio. Los errores no revierten la operación ya confirmada.
type EventPublisher interface {
	Publish(ctx context.Context, event Event) error
}

// Metrics contadores del flujo de órdenes y ventas.
type Metrics interface {
	SaleCreated()
	SaleStatusChanged(status string)
	OrderStatusChanged(status string)
	StockMoved(direction string, units int)
}

// Direcciones de movimiento de stock para Metrics.StockMoved.
const (
	StockIn  = "in"
	StockOut = "out"
)

// NopMetrics implementación vacía de Metrics.
type NopMetrics struct{}

func (NopMetrics) SaleCreated()              {}
func (NopMetrics) SaleStatusChanged(string)  {}
func (NopMetrics) OrderStatusChanged(string) {}
func (NopMetrics) StockMoved(string, int)    {}

// NopPublisher descarta los eventos.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, Event) error { return nil }

// PublishBestEffort publica ev y solo registra el error: la transacción ya fue confirmada.
func PublishBestEffort(ctx context.Context, p EventPublisher, log *logger.Logger, ev Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, ev); err != nil {
		log.Warn().Err(err).
			Str("event", ev.Type).
			Str("aggregate_id", ev.AggregateID).
			Msg("no se pudo publicar el evento")
	}
}
