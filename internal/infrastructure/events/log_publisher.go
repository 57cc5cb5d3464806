package events

import (
	"context"

	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

var _ ports.EventPublisher = (*LogPublisher)(nil)

// LogPublisher registra los eventos en el log. Se usa cuando no hay brokers configurados.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher construye el publicador.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	if log == nil {
		log = logger.Nop()
	}
	return &LogPublisher{log: log.Component("events")}
}

func (p *LogPublisher) Publish(_ context.Context, event ports.Event) error {
	p.log.Info().
		Str("event", event.Type).
		Str("aggregate_id", event.AggregateID).
		Time("occurred_at", event.OccurredAt).
		Interface("payload", event.Payload).
		Msg("evento de dominio")
	return nil
}

// Close no hace nada; existe para tratar ambos publicadores igual al apagar.
func (p *LogPublisher) Close() error { return nil }
