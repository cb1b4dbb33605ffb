package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/attribute"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// OTelExporter provides OpenTelemetry metrics export following OTel standards
type OTelExporter struct {
	meterProvider *sdkmetric.MeterProvider
	registry      *prometheus.Registry
	collector     Collector
	throughput    *Throughput

	// OTel meters and instruments
	meter             metric.Meter
	statusCountGauge  metric.Int64ObservableGauge
	throughputGauge   metric.Int64ObservableGauge
	eventsCounter     metric.Int64Counter
	deliveriesCounter metric.Int64Counter
	deliveryDuration  metric.Float64Histogram
}

// NewOTelExporter creates a new OpenTelemetry metrics exporter with Prometheus format
func NewOTelExporter(collector Collector, throughput *Throughput) (*OTelExporter, error) {
	registry := prometheus.NewRegistry()
	exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("creating prometheus exporter: %w", err)
	}

	meterProvider := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(exporter),
	)

	meter := meterProvider.Meter(
		"session-bridge",
		metric.WithInstrumentationVersion("1.0.0"),
	)

	oe := &OTelExporter{
		meterProvider: meterProvider,
		registry:      registry,
		collector:     collector,
		throughput:    throughput,
		meter:         meter,
	}

	if err := oe.registerInstruments(); err != nil {
		return nil, fmt.Errorf("registering instruments: %w", err)
	}

	return oe, nil
}

// registerInstruments creates and registers all OpenTelemetry metric instruments
func (oe *OTelExporter) registerInstruments() error {
	var err error

	oe.statusCountGauge, err = oe.meter.Int64ObservableGauge(
		"bridge.session.status",
		metric.WithDescription("Number of sessions by status"),
		metric.WithUnit("{sessions}"),
		metric.WithInt64Callback(oe.observeStatusCounts),
	)
	if err != nil {
		return fmt.Errorf("creating status count gauge: %w", err)
	}

	if oe.throughput != nil {
		oe.throughputGauge, err = oe.meter.Int64ObservableGauge(
			"bridge.webhook.throughput",
			metric.WithDescription("Number of webhooks delivered over time window"),
			metric.WithUnit("{webhooks}"),
			metric.WithInt64Callback(oe.observeThroughput),
		)
		if err != nil {
			return fmt.Errorf("creating throughput gauge: %w", err)
		}
	}

	oe.eventsCounter, err = oe.meter.Int64Counter(
		"bridge.events.published",
		metric.WithDescription("Canonical events handed to the dispatcher"),
		metric.WithUnit("{events}"),
	)
	if err != nil {
		return fmt.Errorf("creating events counter: %w", err)
	}

	oe.deliveriesCounter, err = oe.meter.Int64Counter(
		"bridge.webhook.deliveries",
		metric.WithDescription("Webhook delivery attempts by outcome"),
		metric.WithUnit("{attempts}"),
	)
	if err != nil {
		return fmt.Errorf("creating deliveries counter: %w", err)
	}

	oe.deliveryDuration, err = oe.meter.Float64Histogram(
		"bridge.webhook.delivery.duration",
		metric.WithDescription("Duration of webhook delivery attempts"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return fmt.Errorf("creating delivery duration histogram: %w", err)
	}

	return nil
}

// observeStatusCounts is a callback that reports session counts by status
func (oe *OTelExporter) observeStatusCounts(ctx context.Context, observer metric.Int64Observer) error {
	statusCounts, err := oe.collector.GetStatusCounts(ctx)
	if err != nil {
		return err
	}

	for status, count := range statusCounts {
		observer.Observe(count, metric.WithAttributes(
			attribute.String("session.status", status),
		))
	}

	return nil
}

// observeThroughput is a callback that reports throughput metrics
func (oe *OTelExporter) observeThroughput(_ context.Context, observer metric.Int64Observer) error {
	throughput := oe.throughput.Snapshot()

	observer.Observe(throughput.LastMinute, metric.WithAttributes(
		attribute.String("time.window", "1m"),
	))
	observer.Observe(throughput.LastFiveMinutes, metric.WithAttributes(
		attribute.String("time.window", "5m"),
	))
	observer.Observe(throughput.LastFifteenMinutes, metric.WithAttributes(
		attribute.String("time.window", "15m"),
	))

	return nil
}

// RecordEvent counts one event and the number of subscriptions it matched
func (oe *OTelExporter) RecordEvent(ctx context.Context, eventType string, targets int) {
	matched := "true"
	if targets == 0 {
		matched = "false"
	}
	oe.eventsCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event.type", eventType),
		attribute.String("event.matched", matched),
	))
}

// RecordDelivery counts one delivery attempt
func (oe *OTelExporter) RecordDelivery(ctx context.Context, eventType string, delivered bool, d time.Duration) {
	outcome := "failed"
	if delivered {
		outcome = "delivered"
		if oe.throughput != nil {
			oe.throughput.Add()
		}
	}
	attrs := metric.WithAttributes(
		attribute.String("event.type", eventType),
		attribute.String("webhook.outcome", outcome),
	)
	oe.deliveriesCounter.Add(ctx, 1, attrs)
	oe.deliveryDuration.Record(ctx, d.Seconds(), attrs)
}

// ServeHTTP serves Prometheus-formatted metrics
func (oe *OTelExporter) ServeHTTP() http.Handler {
	return promhttp.HandlerFor(oe.registry, promhttp.HandlerOpts{})
}

// Shutdown gracefully shuts down the meter provider
func (oe *OTelExporter) Shutdown(ctx context.Context) error {
	if oe.meterProvider != nil {
		return oe.meterProvider.Shutdown(ctx)
	}
	return nil
}
