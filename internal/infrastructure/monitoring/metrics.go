// Package monitoring 提供 Prometheus 指標
package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"nutritrack/internal/core/recipe"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "nutritrack"

// Metrics 服務指標，使用獨立 registry
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	suggestions *prometheus.CounterVec
	recognized  prometheus.Histogram
}

var _ recipe.MetricsRecorder = (*Metrics)(nil)

// NewMetrics 創建指標並註冊 Go runtime 與 process collector
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"method", "route"},
		),
		suggestions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "recipe",
				Name:      "suggestions_total",
				Help:      "Recipe suggestion requests by outcome",
			},
			[]string{"outcome"},
		),
		recognized: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "recipe",
				Name:      "recognized_ingredients",
				Help:      "Number of ingredients recognized per request",
				Buckets:   prometheus.LinearBuckets(0, 1, 11),
			},
		),
	}
}

// ObserveHTTP 記錄一次 HTTP 請求
func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// RecordSuggestion 記錄建議結果
func (m *Metrics) RecordSuggestion(outcome string) {
	m.suggestions.WithLabelValues(outcome).Inc()
}

// ObserveRecognized 記錄辨識出的食材數
func (m *Metrics) ObserveRecognized(count int) {
	m.recognized.Observe(float64(count))
}

// Registry 底層 registry
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler /metrics 端點
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
