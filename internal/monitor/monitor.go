// Package monitor records client errors, API errors and performance samples
// as structured logs plus Prometheus metrics.
package monitor

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"adboard/internal/logger"
)

// ClientError is an error reported by the browser.
type ClientError struct {
	Message   string         `json:"message" validate:"required,max=2000"`
	Stack     string         `json:"stack,omitempty" validate:"max=20000"`
	URL       string         `json:"url,omitempty" validate:"max=2000"`
	Component string         `json:"component,omitempty" validate:"max=100"`
	UserAgent string         `json:"user_agent,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Extra     map[string]any `json:"extra,omitempty"`
}

// APIError is a failed request as seen by the server.
type APIError struct {
	Method  string
	Path    string
	Status  int
	Code    string
	Message string
	Err     error
}

type Monitor interface {
	LogClientError(ctx context.Context, e ClientError)
	LogAPIError(ctx context.Context, e APIError)
	LogPerformanceMetric(ctx context.Context, name string, value float64)
}

type metrics struct {
	clientErrors *prometheus.CounterVec
	apiErrors    *prometheus.CounterVec
	performance  *prometheus.HistogramVec
}

type monitor struct {
	log     logger.Logger
	metrics *metrics
}

// New registers the monitor's collectors on reg.
func New(log logger.Logger, reg prometheus.Registerer) Monitor {
	factory := promauto.With(reg)
	return &monitor{
		log: log.With(logger.String("component", "monitor")),
		metrics: &metrics{
			clientErrors: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "adboard_client_errors_total",
				Help: "Errors reported by browsers, by component",
			}, []string{"component"}),
			apiErrors: factory.NewCounterVec(prometheus.CounterOpts{
				Name: "adboard_api_errors_total",
				Help: "API requests answered with an error, by status and code",
			}, []string{"status", "code"}),
			performance: factory.NewHistogramVec(prometheus.HistogramOpts{
				Name:    "adboard_performance_metric",
				Help:    "Performance samples such as snapshot load and render plan duration in seconds",
				Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			}, []string{"name"}),
		},
	}
}

func (m *monitor) LogClientError(_ context.Context, e ClientError) {
	component := e.Component
	if component == "" {
		component = "unknown"
	}
	m.metrics.clientErrors.WithLabelValues(component).Inc()
	m.log.Warn("client error",
		logger.String("error_component", component),
		logger.String("message", e.Message),
		logger.String("url", e.URL),
		logger.String("user_agent", e.UserAgent),
		logger.String("stack", e.Stack),
		logger.Any("extra", e.Extra),
	)
}

func (m *monitor) LogAPIError(_ context.Context, e APIError) {
	m.metrics.apiErrors.WithLabelValues(statusLabel(e.Status), e.Code).Inc()

	fields := []logger.Field{
		logger.String("method", e.Method),
		logger.String("path", e.Path),
		logger.Int("status", e.Status),
		logger.String("code", e.Code),
		logger.String("message", e.Message),
	}
	if e.Err != nil {
		fields = append(fields, logger.Error(e.Err))
	}
	if e.Status >= 500 {
		m.log.Error("api error", fields...)
		return
	}
	m.log.Warn("api error", fields...)
}

func (m *monitor) LogPerformanceMetric(_ context.Context, name string, value float64) {
	m.metrics.performance.WithLabelValues(name).Observe(value)
	m.log.Debug("performance metric", logger.String("name", name), logger.Float64("value", value))
}

func statusLabel(status int) string {
	switch {
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	default:
		return "other"
	}
}

type nop struct{}

// Nop discards everything.
func Nop() Monitor { return nop{} }

func (nop) LogClientError(context.Context, ClientError)           {}
func (nop) LogAPIError(context.Context, APIError)                 {}
func (nop) LogPerformanceMetric(context.Context, string, float64) {}
