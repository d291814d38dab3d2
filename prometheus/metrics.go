package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mallikarjunadanduba/FitLife360/pkg/config"
)

var (
	// HTTP request metrics
	HttpRequestsTotal   prometheus.CounterVec
	HttpRequestDuration prometheus.HistogramVec

	// Database operation metrics
	DbOperationDuration prometheus.HistogramVec

	// Order workflow metrics
	OrderOperationsCounter prometheus.CounterVec
	PaymentResultsCounter  prometheus.CounterVec

	// Consultation metrics
	ConsultationOperationsCounter prometheus.CounterVec

	// Review metrics
	ReviewOperationsCounter prometheus.CounterVec

	// Inventory metrics
	ProductStockGauge prometheus.GaugeVec
)

// InitMetrics initializes Prometheus metrics with configuration
func InitMetrics(config *config.Config) {
	// Use metric prefix from configuration
	prefix := config.Metrics.Prefix

	// HTTP request metrics
	HttpRequestsTotal = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTP request duration
	HttpRequestDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// Database operation metrics
	DbOperationDuration = *promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    prefix + "_db_operation_duration_seconds",
			Help:    "Duration of database operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation_type"},
	)

	// Order workflow metrics
	OrderOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_order_operations_total",
			Help: "Total number of order operations",
		},
		[]string{"operation", "result"},
	)

	PaymentResultsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_payment_results_total",
			Help: "Total number of payment confirmations by outcome",
		},
		[]string{"result"},
	)

	// Consultation metrics
	ConsultationOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_consultation_operations_total",
			Help: "Total number of consultation operations",
		},
		[]string{"operation", "result"},
	)

	// Review metrics
	ReviewOperationsCounter = *promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: prefix + "_review_operations_total",
			Help: "Total number of product review operations",
		},
		[]string{"operation"},
	)

	// Inventory metrics
	ProductStockGauge = *promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: prefix + "_product_stock",
			Help: "Current available stock for products",
		},
		[]string{"product_id", "category"},
	)
}

// TrackDBOperation returns a function that records the duration of a database operation
func TrackDBOperation(operationType string) func(startTime time.Time) {
	return func(startTime time.Time) {
		duration := time.Since(startTime).Seconds()
		DbOperationDuration.WithLabelValues(operationType).Observe(duration)
	}
}

// RecordOrderOperation increments the counter for order operations
func RecordOrderOperation(operation, result string) {
	OrderOperationsCounter.WithLabelValues(operation, result).Inc()
}

// RecordPaymentResult increments the counter for payment outcomes
func RecordPaymentResult(result string) {
	PaymentResultsCounter.WithLabelValues(result).Inc()
}

// RecordConsultationOperation increments the counter for consultation operations
func RecordConsultationOperation(operation, result string) {
	ConsultationOperationsCounter.WithLabelValues(operation, result).Inc()
}

// RecordReviewOperation increments the counter for review operations
func RecordReviewOperation(operation string) {
	ReviewOperationsCounter.WithLabelValues(operation).Inc()
}

// UpdateProductStock updates the gauge for product stock
func UpdateProductStock(productID string, category string, count float64) {
	ProductStockGauge.WithLabelValues(productID, category).Set(count)
}
