// Package metrics exposes Prometheus collectors for the chat pipeline.
package metrics

import (
	"net/http"
	"time"

	"github.com/liliang-cn/citelens/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Pipeline stages
const (
	StageAnswer     = "answer"
	StageScreenshot = "screenshot"
	StageVision     = "vision"
)

// Metrics holds the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	stageTotal    *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
	boxesTotal    prometheus.Counter
}

// New creates a registry with the pipeline collectors plus the Go and process
// collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		stageTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "citelens",
			Name:      "stage_requests_total",
			Help:      "External calls made by the chat pipeline, by stage and outcome.",
		}, []string{"stage", "outcome"}),
		stageDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "citelens",
			Name:      "stage_duration_seconds",
			Help:      "Latency of external calls made by the chat pipeline.",
			Buckets:   []float64{0.25, 0.5, 1, 2, 5, 10, 20, 40, 80},
		}, []string{"stage"}),
		boxesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "citelens",
			Name:      "bounding_boxes_total",
			Help:      "Bounding boxes decoded from vision model output.",
		}),
	}
	reg.MustRegister(
		m.stageTotal,
		m.stageDuration,
		m.boxesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Observe records one call to an external stage.
func (m *Metrics) Observe(stage string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = string(domain.KindOf(err))
	}
	m.stageTotal.WithLabelValues(stage, outcome).Inc()
	m.stageDuration.WithLabelValues(stage).Observe(time.Since(start).Seconds())
}

// AddBoxes counts decoded bounding boxes.
func (m *Metrics) AddBoxes(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.boxesTotal.Add(float64(n))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
