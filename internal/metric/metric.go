// Package metric exposes calgrid's Prometheus collectors: store mutation
// outcomes, entity sizes and HTTP request counts.
package metric

import (
	"errors"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	appLog "calgrid/internal/log"
	"calgrid/internal/model"
)

const namespace = "calgrid"

// Sizer is read on every scrape for the size gauges.
type Sizer interface {
	Events() []model.Event
	Categories() []model.Category
	Groups() []model.EventGroup
}

// Metrics records store and HTTP activity. It implements store.Recorder.
type Metrics struct {
	reg       prometheus.Registerer
	mutations *prometheus.CounterVec
	requests  *prometheus.CounterVec
}

// New creates the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		reg: reg,
		mutations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_mutations_total",
			Help:      "Store operations by outcome.",
		}, []string{"op", "result"}),
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}
}

// Mutation counts one store operation.
func (m *Metrics) Mutation(op string, applied bool) {
	result := "rejected"
	if applied {
		result = "applied"
	}
	m.mutations.WithLabelValues(op, result).Inc()
}

// Request counts one HTTP request.
func (m *Metrics) Request(method, route string, code int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}

// Observe registers size gauges reading from s. Registering twice is
// logged and ignored.
func (m *Metrics) Observe(s Sizer) {
	gauges := []prometheus.Collector{
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "events",
			Help:      "Events held by the store.",
		}, func() float64 { return float64(len(s.Events())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "categories",
			Help:      "User categories, excluding the sentinel.",
		}, func() float64 { return float64(model.RegularCount(s.Categories())) }),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "groups",
			Help:      "Event groups held by the store.",
		}, func() float64 { return float64(len(s.Groups())) }),
	}
	for _, g := range gauges {
		if err := m.reg.Register(g); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				appLog.Warn("metric already registered", "err", err)
				continue
			}
			appLog.Error("metric register failed", err)
		}
	}
}
