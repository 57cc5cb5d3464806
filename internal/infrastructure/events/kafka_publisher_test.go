package events

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/ports"
	"github.com/jhoicas/ventas-api/pkg/logger"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func TestKafkaPublisher_UsaAggregateIDComoKey(t *testing.T) {
	w := &fakeWriter{}
	p := &KafkaPublisher{writer: w}

	ev := ports.NewEvent(ports.EventSaleCreated, "sale-1", map[string]any{"code": "ABCD1234"})
	require.NoError(t, p.Publish(context.Background(), ev))

	require.Len(t, w.msgs, 1)
	assert.Equal(t, "sale-1", string(w.msgs[0].Key))
	assert.Equal(t, ports.EventSaleCreated, string(w.msgs[0].Headers[0].Value))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(w.msgs[0].Value, &decoded))
	assert.Equal(t, ports.EventSaleCreated, decoded["type"])
	assert.Equal(t, "sale-1", decoded["aggregate_id"])

	require.NoError(t, p.Close())
	assert.True(t, w.closed)
}

func TestKafkaPublisher_PropagaErrorDelWriter(t *testing.T) {
	p := &KafkaPublisher{writer: &fakeWriter{err: errors.New("broker caído")}}
	err := p.Publish(context.Background(), ports.NewEvent(ports.EventOrderCreated, "po-1", nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker caído")
}

func TestLogPublisher_EscribeEvento(t *testing.T) {
	var buf bytes.Buffer
	p := NewLogPublisher(logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}))

	require.NoError(t, p.Publish(context.Background(), ports.NewEvent(ports.EventSaleDeleted, "sale-9", nil)))
	assert.Contains(t, buf.String(), ports.EventSaleDeleted)
	assert.Contains(t, buf.String(), "sale-9")
}
