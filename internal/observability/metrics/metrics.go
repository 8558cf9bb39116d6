package metrics

import (
	"log"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// AppMetrics holds the application's metric instruments.
type AppMetrics struct {
	APIRequestsTotal    metric.Int64Counter
	APIRequestDuration  metric.Float64Histogram
	GenerationsTotal    metric.Int64Counter
	GenerationDuration  metric.Float64Histogram
	ActiveSessionsGauge metric.Int64Gauge
}

var (
	appMetrics *AppMetrics
	once       sync.Once
)

// InitAppMetrics initializes the global metrics instruments ONLY ONCE.
// It gets the Meter from the globally configured MeterProvider.
func InitAppMetrics() {
	once.Do(func() {
		meter := otel.GetMeterProvider().Meter("tripwise-web")
		var err error
		m := &AppMetrics{}

		m.APIRequestsTotal, err = meter.Int64Counter(
			"api_requests_total",
			metric.WithDescription("Total number of upstream API requests completed"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create api_requests_total: %v", err)
		}

		m.APIRequestDuration, err = meter.Float64Histogram(
			"api_request_duration_seconds",
			metric.WithDescription("Duration of upstream API requests in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create api_request_duration_seconds: %v", err)
		}

		m.GenerationsTotal, err = meter.Int64Counter(
			"itinerary_generations_total",
			metric.WithDescription("Total number of AI itinerary generations dispatched"),
			metric.WithUnit("{request}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generations_total: %v", err)
		}

		m.GenerationDuration, err = meter.Float64Histogram(
			"itinerary_generation_duration_seconds",
			metric.WithDescription("Duration of AI itinerary generations in seconds"),
			metric.WithUnit("s"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create itinerary_generation_duration_seconds: %v", err)
		}

		m.ActiveSessionsGauge, err = meter.Int64Gauge(
			"active_visitor_sessions",
			metric.WithDescription("Current number of live visitor state stores"),
			metric.WithUnit("{session}"),
		)
		if err != nil {
			log.Fatalf("Metrics: Failed to create active_visitor_sessions: %v", err)
		}

		log.Println("Application metrics instruments initialized.")
		appMetrics = m
	})
}

// Get returns the globally initialized AppMetrics instance.
// Panics if InitAppMetrics was not called first.
func Get() *AppMetrics {
	if appMetrics == nil {
		panic("metrics instruments not initialized. Call metrics.InitAppMetrics() first.")
	}
	return appMetrics
}

// TryGet returns the instruments or nil when observability is not wired,
// e.g. in unit tests.
func TryGet() *AppMetrics {
	return appMetrics
}
