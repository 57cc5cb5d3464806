package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/ports"
)

func TestRecorder_Contadores(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRecorderWithRegisterer(reg)

	m.SaleCreated()
	m.SaleCreated()
	m.SaleStatusChanged("confirmed")
	m.OrderStatusChanged("cancelled")
	m.StockMoved(ports.StockOut, 5)
	m.StockMoved(ports.StockIn, 3)
	m.StockMoved(ports.StockIn, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.salesCreated))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.saleStatusChanges.WithLabelValues("confirmed")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.orderStatusChanges.WithLabelValues("cancelled")))
	assert.Equal(t, 5.0, testutil.ToFloat64(m.stockUnitsMoved.WithLabelValues(ports.StockOut)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.stockUnitsMoved.WithLabelValues(ports.StockIn)))
}

func TestRecorder_RegistroRepetidoReutilizaColectores(t *testing.T) {
	reg := prometheus.NewRegistry()
	first := NewRecorderWithRegisterer(reg)
	second := NewRecorderWithRegisterer(reg)

	first.SaleCreated()
	second.SaleCreated()
	assert.Equal(t, 2.0, testutil.ToFloat64(first.salesCreated))
}

func TestRecorder_ObserveHTTP(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewRecorderWithRegisterer(reg)

	m.ObserveHTTP("GET", "/api/sales/:code", 200, 20*time.Millisecond)

	n, err := testutil.GatherAndCount(reg, "ventas_http_request_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}
