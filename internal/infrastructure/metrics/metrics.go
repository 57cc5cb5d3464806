// Package metrics expone contadores Prometheus de ventas, órdenes de compra, stock y HTTP.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/ventas-api/internal/application/ports"
)

var _ ports.Metrics = (*Recorder)(nil)

// Recorder implementa ports.Metrics y el histograma de latencia HTTP.
type Recorder struct {
	salesCreated        prometheus.Counter
	saleStatusChanges   *prometheus.CounterVec
	orderStatusChanges  *prometheus.CounterVec
	stockUnitsMoved     *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

// NewRecorder registra las métricas en el registro por defecto.
func NewRecorder() *Recorder {
	return NewRecorderWithRegisterer(prometheus.DefaultRegisterer)
}

// NewRecorderWithRegisterer registra en registerer; si una métrica ya existe reutiliza la registrada.
func NewRecorderWithRegisterer(registerer prometheus.Registerer) *Recorder {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}
	return &Recorder{
		salesCreated: registerCounter(registerer, prometheus.CounterOpts{
			Name: "ventas_sales_created_total",
			Help: "Ventas creadas",
		}),
		saleStatusChanges: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ventas_sales_status_changes_total",
			Help: "Transiciones de estado de ventas por estado destino",
		}, []string{"status"}),
		orderStatusChanges: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ventas_purchase_orders_status_changes_total",
			Help: "Transiciones de estado de órdenes de compra por estado destino",
		}, []string{"status"}),
		stockUnitsMoved: registerCounterVec(registerer, prometheus.CounterOpts{
			Name: "ventas_stock_units_moved_total",
			Help: "Unidades de stock movidas por dirección (in, out)",
		}, []string{"direction"}),
		httpRequestDuration: registerHistogramVec(registerer, prometheus.HistogramOpts{
			Name:    "ventas_http_request_duration_seconds",
			Help:    "Duración de las peticiones HTTP",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"method", "route", "status"}),
	}
}

func (m *Recorder) SaleCreated() { m.salesCreated.Inc() }

func (m *Recorder) SaleStatusChanged(status string) {
	m.saleStatusChanges.WithLabelValues(status).Inc()
}

func (m *Recorder) OrderStatusChanged(status string) {
	m.orderStatusChanges.WithLabelValues(status).Inc()
}

// StockMoved suma units en la dirección dada; valores no positivos se ignoran.
func (m *Recorder) StockMoved(direction string, units int) {
	if units <= 0 {
		return
	}
	m.stockUnitsMoved.WithLabelValues(direction).Add(float64(units))
}

// ObserveHTTP registra la duración de una petición.
func (m *Recorder) ObserveHTTP(method, route string, status int, d time.Duration) {
	m.httpRequestDuration.WithLabelValues(method, route, fmt.Sprint(status)).Observe(d.Seconds())
}

func registerCounter(registerer prometheus.Registerer, opts prometheus.CounterOpts) prometheus.Counter {
	collector := prometheus.NewCounter(opts)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(prometheus.Counter)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter %q: %v", opts.Name, err))
	}
	return collector
}

func registerCounterVec(registerer prometheus.Registerer, opts prometheus.CounterOpts, labels []string) *prometheus.CounterVec {
	collector := prometheus.NewCounterVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register counter vec %q: %v", opts.Name, err))
	}
	return collector
}

func registerHistogramVec(registerer prometheus.Registerer, opts prometheus.HistogramOpts, labels []string) *prometheus.HistogramVec {
	collector := prometheus.NewHistogramVec(opts, labels)
	if err := registerer.Register(collector); err != nil {
		if alreadyRegistered, ok := err.(prometheus.AlreadyRegisteredError); ok {
			existing, ok := alreadyRegistered.ExistingCollector.(*prometheus.HistogramVec)
			if !ok {
				panic(fmt.Sprintf("collector %q already registered with unexpected type", opts.Name))
			}
			return existing
		}
		panic(fmt.Sprintf("register histogram vec %q: %v", opts.Name, err))
	}
	return collector
}
