// Package events publica los eventos de dominio de ventas y órdenes de compra.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/jhoicas/ventas-api/internal/application/ports"
)

var _ ports.EventPublisher = (*KafkaPublisher)(nil)

// messageWriter la parte de *kafka.Writer que se usa; permite probar sin broker.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher escribe cada evento como JSON en el topic configurado, con el id del agregado como key
// para que los eventos de una misma venta u orden queden en la misma partición.
type KafkaPublisher struct {
	writer messageWriter
}

// NewKafkaPublisher crea el writer contra los brokers dados.
func NewKafkaPublisher(brokers []string, topic string) *KafkaPublisher {
	return &KafkaPublisher{writer: &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		BatchTimeout:           10 * time.Millisecond,
		RequiredAcks:           kafka.RequireOne,
		AllowAutoTopicCreation: true,
	}}
}

// Publish serializa y envía el evento.
func (p *KafkaPublisher) Publish(ctx context.Context, event ports.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("serializar evento %s: %w", event.Type, err)
	}
	msg := kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: data,
		Time:  event.OccurredAt,
		Headers: []kafka.Header{
			{Key: "event-type", Value: []byte(event.Type)},
		},
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("publicar evento %s: %w", event.Type, err)
	}
	return nil
}

// Close vacía los mensajes pendientes y cierra el writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}
