package observability

import (
	"context"
	"fmt"
	"sync"
	"time"

	"luckydraw/config"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
)

// MetricsProvider manages OpenTelemetry metrics for the draw engine and event publishing
type MetricsProvider struct {
	config        *config.Config
	meterProvider *sdkmetric.MeterProvider
	meter         metric.Meter
	initialized   bool
	enabled       bool
	mu            sync.RWMutex

	// Metric instruments
	drawsCounter                 metric.Int64Counter
	drawConflictsCounter         metric.Int64Counter
	drawDurationHist             metric.Float64Histogram
	drawAttemptsHist             metric.Int64Histogram
	natsMessagesPublishedCounter metric.Int64Counter
	natsPublishErrorsCounter     metric.Int64Counter
}

// NewMetricsProvider creates a new metrics provider
func NewMetricsProvider(cfg *config.Config) *MetricsProvider {
	return &MetricsProvider{
		config: cfg,
	}
}

// Initialize sets up the OpenTelemetry metrics provider with a periodic stdout exporter
func (mp *MetricsProvider) Initialize(ctx context.Context) error {
	if !mp.config.MetricsEnabled {
		mp.mu.Lock()
		defer mp.mu.Unlock()
		log.Info("OpenTelemetry metrics disabled")
		mp.initialized = true
		return nil
	}

	exporter, err := stdoutmetric.New()
	if err != nil {
		return fmt.Errorf("failed to create console exporter: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(
		exporter,
		sdkmetric.WithInterval(mp.config.MetricsExportInterval),
	)

	return mp.initializeWithReader(reader)
}

// initializeWithReader builds the meter provider on top of the given reader
func (mp *MetricsProvider) initializeWithReader(reader sdkmetric.Reader) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.initialized {
		log.Debug("Metrics provider already initialized")
		return nil
	}

	// Schemaless so the merge never conflicts with the SDK default schema URL
	res, err := resource.Merge(
		resource.Default(),
		resource.NewSchemaless(
			semconv.ServiceName(mp.config.ServiceName),
			attribute.String("environment", mp.config.Environment),
		),
	)
	if err != nil {
		return fmt.Errorf("failed to create resource: %w", err)
	}

	mp.meterProvider = sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
	)

	// Set as global meter provider
	otel.SetMeterProvider(mp.meterProvider)

	mp.meter = mp.meterProvider.Meter("luckydraw")

	if err := mp.createInstruments(); err != nil {
		return fmt.Errorf("failed to create instruments: %w", err)
	}

	mp.initialized = true
	mp.enabled = true
	log.WithField("service", mp.config.ServiceName).Info("Metrics provider initialized")
	return nil
}

// createInstruments creates all metric instruments
func (mp *MetricsProvider) createInstruments() error {
	var err error

	// Draw metrics
	mp.drawsCounter, err = mp.meter.Int64Counter(
		DrawsTotal,
		metric.WithDescription("Total number of draws by outcome"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draws counter: %w", err)
	}

	mp.drawConflictsCounter, err = mp.meter.Int64Counter(
		DrawConflictsTotal,
		metric.WithDescription("Total number of candidates lost to a concurrent draw"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create draw conflicts counter: %w", err)
	}

	mp.drawDurationHist, err = mp.meter.Float64Histogram(
		DrawDuration,
		metric.WithDescription("Duration of draws in milliseconds"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500),
	)
	if err != nil {
		return fmt.Errorf("failed to create draw duration histogram: %w", err)
	}

	mp.drawAttemptsHist, err = mp.meter.Int64Histogram(
		DrawAttempts,
		metric.WithDescription("Candidates tried per draw"),
		metric.WithUnit("1"),
		metric.WithExplicitBucketBoundaries(0, 1, 2, 3, 5, 10),
	)
	if err != nil {
		return fmt.Errorf("failed to create draw attempts histogram: %w", err)
	}

	// NATS metrics
	mp.natsMessagesPublishedCounter, err = mp.meter.Int64Counter(
		NATSMessagesPublishedTotal,
		metric.WithDescription("Total number of NATS messages published"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS messages published counter: %w", err)
	}

	mp.natsPublishErrorsCounter, err = mp.meter.Int64Counter(
		NATSPublishErrorsTotal,
		metric.WithDescription("Total number of failed NATS publishes"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create NATS publish errors counter: %w", err)
	}

	return nil
}

// Shutdown flushes pending measurements and stops the exporter
func (mp *MetricsProvider) Shutdown(ctx context.Context) error {
	mp.mu.Lock()
	defer mp.mu.Unlock()

	if mp.meterProvider != nil {
		return mp.meterProvider.Shutdown(ctx)
	}
	return nil
}

// RecordDraw records the outcome, attempt count and duration of one draw
func (mp *MetricsProvider) RecordDraw(ctx context.Context, outcome string, attempts int, duration time.Duration) {
	if !mp.isEnabled() {
		return
	}

	attrs := metric.WithAttributes(attribute.String(LabelOutcome, outcome))
	mp.drawsCounter.Add(ctx, 1, attrs)
	mp.drawAttemptsHist.Record(ctx, int64(attempts), attrs)
	mp.drawDurationHist.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
}

// RecordWinnerConflict records a candidate that was claimed by a concurrent draw
func (mp *MetricsProvider) RecordWinnerConflict(ctx context.Context) {
	if !mp.isEnabled() {
		return
	}

	mp.drawConflictsCounter.Add(ctx, 1)
}

// RecordNATSMessagePublished records a published NATS message
func (mp *MetricsProvider) RecordNATSMessagePublished(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsMessagesPublishedCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// RecordNATSPublishError records a NATS publish that failed
func (mp *MetricsProvider) RecordNATSPublishError(eventType string) {
	if !mp.isEnabled() {
		return
	}

	mp.natsPublishErrorsCounter.Add(context.Background(), 1,
		metric.WithAttributes(
			attribute.String(LabelEventType, eventType),
		),
	)
}

// isEnabled checks if metrics are enabled and initialized
func (mp *MetricsProvider) isEnabled() bool {
	mp.mu.RLock()
	defer mp.mu.RUnlock()
	return mp.initialized && mp.enabled
}
