package service

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the submission
// pipeline and the HTTP surface.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	submissionTotal *prometheus.CounterVec
	answersSaved    prometheus.Counter
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	submissionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "evaluation_submissions_total",
		Help: "Submission attempts by outcome",
	}, []string{"outcome"})

	answersSaved := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "evaluation_answers_saved_total",
		Help: "Answer rows persisted by successful submissions",
	})

	registry.MustRegister(requestDuration, requestTotal, submissionTotal, answersSaved)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		submissionTotal: submissionTotal,
		answersSaved:    answersSaved,
	}
}

// ObserveHTTPRequest records one handled request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	code := strconv.Itoa(status)
	s.requestDuration.WithLabelValues(method, path, code).Observe(duration.Seconds())
	s.requestTotal.WithLabelValues(method, path, code).Inc()
}

// ObserveSubmission records a submission attempt outcome ("accepted" or an
// error code).
func (s *MetricsService) ObserveSubmission(outcome string, savedAnswers int) {
	s.submissionTotal.WithLabelValues(outcome).Inc()
	if savedAnswers > 0 {
		s.answersSaved.Add(float64(savedAnswers))
	}
}

// Handler exposes the Prometheus scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}
