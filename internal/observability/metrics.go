package observability

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"lockdesk/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/exemplar"
	"go.opentelemetry.io/otel/sdk/resource"
)

type AppMetrics struct {
	unlockGateCounter        metric.Int64Counter
	unlockReqDuration        metric.Float64Histogram
	identityVerifyCounter    metric.Int64Counter
	roleCacheCounter         metric.Int64Counter
	auditWriteCounter        metric.Int64Counter
	auditChainLength         metric.Float64Histogram
	rateLimitDecisionCounter metric.Int64Counter
	rateLimitRetryAfter      metric.Float64Histogram
	healthCheckResultCounter metric.Int64Counter
	healthCheckDuration      metric.Float64Histogram
}

var (
	metricsMu  sync.RWMutex
	appMetrics *AppMetrics
)

func InitMetrics(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sdkmetric.MeterProvider, error) {
	if !cfg.OTELMetricsEnabled {
		mp := sdkmetric.NewMeterProvider()
		otel.SetMeterProvider(mp)
		logger.Info("otel metrics disabled")
		return mp, nil
	}

	opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithEndpoint(cfg.OTELExporterOTLPEndpoint)}
	if cfg.OTELExporterOTLPInsecure {
		opts = append(opts, otlpmetricgrpc.WithInsecure())
	}
	exporter, err := otlpmetricgrpc.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create otlp metric exporter: %w", err)
	}

	res, err := resource.New(ctx,
		resource.WithAttributes(
			attribute.String("service.name", cfg.OTELServiceName),
			attribute.String("deployment.environment", cfg.OTELEnvironment),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("create metric resource: %w", err)
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(cfg.OTELMetricsExportInterval))
	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithResource(res),
		sdkmetric.WithReader(reader),
		sdkmetric.WithExemplarFilter(exemplar.TraceBasedFilter),
		sdkmetric.WithView(sdkmetric.NewView(
			sdkmetric.Instrument{Name: "admin.unlock.request.duration"},
			sdkmetric.Stream{
				Aggregation: sdkmetric.AggregationExplicitBucketHistogram{
					Boundaries: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
				},
			},
		)),
	)
	otel.SetMeterProvider(mp)

	meter := mp.Meter("lockdesk")
	unlockGateCounter, err := meter.Int64Counter("admin.unlock.gate.decisions")
	if err != nil {
		return nil, err
	}
	unlockReqDuration, err := meter.Float64Histogram(
		"admin.unlock.request.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of admin unlock requests in seconds"),
	)
	if err != nil {
		return nil, err
	}
	identityVerifyCounter, err := meter.Int64Counter("identity.verification.events")
	if err != nil {
		return nil, err
	}
	roleCacheCounter, err := meter.Int64Counter("authz.role.cache.events")
	if err != nil {
		return nil, err
	}
	auditWriteCounter, err := meter.Int64Counter("audit.record.writes")
	if err != nil {
		return nil, err
	}
	auditChainLength, err := meter.Float64Histogram(
		"audit.chain.verified_length",
		metric.WithDescription("Number of records covered per audit chain verification"),
	)
	if err != nil {
		return nil, err
	}
	rateLimitDecisionCounter, err := meter.Int64Counter("http.rate_limit.decisions")
	if err != nil {
		return nil, err
	}
	rateLimitRetryAfter, err := meter.Float64Histogram(
		"http.rate_limit.retry_after",
		metric.WithUnit("s"),
		metric.WithDescription("Retry-after duration in seconds for throttled requests"),
	)
	if err != nil {
		return nil, err
	}
	healthCheckResultCounter, err := meter.Int64Counter("health.check.results")
	if err != nil {
		return nil, err
	}
	healthCheckDuration, err := meter.Float64Histogram(
		"health.check.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Duration of health dependency checks in seconds"),
	)
	if err != nil {
		return nil, err
	}

	metricsMu.Lock()
	appMetrics = &AppMetrics{
		unlockGateCounter:        unlockGateCounter,
		unlockReqDuration:        unlockReqDuration,
		identityVerifyCounter:    identityVerifyCounter,
		roleCacheCounter:         roleCacheCounter,
		auditWriteCounter:        auditWriteCounter,
		auditChainLength:         auditChainLength,
		rateLimitDecisionCounter: rateLimitDecisionCounter,
		rateLimitRetryAfter:      rateLimitRetryAfter,
		healthCheckResultCounter: healthCheckResultCounter,
		healthCheckDuration:      healthCheckDuration,
	}
	metricsMu.Unlock()

	logger.Info("otel metrics initialized", "endpoint", cfg.OTELExporterOTLPEndpoint)
	return mp, nil
}

// RecordUnlockGateDecision counts which gate a request stopped at and with
// what outcome. gate is one of credential, identity, role, payload, mutation,
// audit, success.
func RecordUnlockGateDecision(ctx context.Context, gate, outcome string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.unlockGateCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("gate", gate),
		attribute.String("outcome", outcome),
	))
}

func RecordUnlockRequestDuration(ctx context.Context, status string, duration time.Duration) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.unlockReqDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("status", status),
	))
}

func RecordIdentityVerification(ctx context.Context, mode, outcome string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.identityVerifyCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("mode", mode),
		attribute.String("outcome", outcome),
	))
}

func RecordRoleCacheEvent(ctx context.Context, outcome string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.roleCacheCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

func RecordAuditWrite(ctx context.Context, action, outcome string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.auditWriteCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("action", action),
		attribute.String("outcome", outcome),
	))
}

func RecordAuditChainVerified(ctx context.Context, records int64) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.auditChainLength.Record(ctx, float64(records))
}

func RecordRateLimitDecision(ctx context.Context, scope, outcome, mode, keyType string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.rateLimitDecisionCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("outcome", outcome),
		attribute.String("mode", mode),
		attribute.String("key_type", keyType),
	))
}

func RecordRateLimitRetryAfter(ctx context.Context, scope, reason string, retryAfter time.Duration) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.rateLimitRetryAfter.Record(ctx, retryAfter.Seconds(), metric.WithAttributes(
		attribute.String("scope", scope),
		attribute.String("reason", reason),
	))
}

func RecordHealthCheckResult(ctx context.Context, check, outcome string) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.healthCheckResultCounter.Add(ctx, 1, metric.WithAttributes(
		attribute.String("check", check),
		attribute.String("outcome", outcome),
	))
}

func RecordHealthCheckDuration(ctx context.Context, check string, duration time.Duration) {
	metricsMu.RLock()
	m := appMetrics
	metricsMu.RUnlock()
	if m == nil {
		return
	}
	m.healthCheckDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("check", check),
	))
}
