// Package telemetry provides OpenTelemetry tracer and meter initialization
// with support for stdout (development) and OTLP/HTTP (production) exporters.
//
// Tracer initialization:
//
//	tp, err := telemetry.InitTracer(ctx, "heroject", telemetry.ExporterStdout, "")
//	defer tp.Shutdown(ctx)
//
// Meter initialization:
//
//	mp, err := telemetry.InitMeter(ctx, "heroject", telemetry.ExporterStdout, "")
//	defer mp.Shutdown(ctx)
//
// Pre-registered metrics:
//
//	metrics, err := telemetry.NewMetrics(mp, "heroject")
//	metrics.ActionRecorded(ctx, "comment")
//
// A nil *Metrics is valid and records nothing, so services can be built
// without a meter in tests.
package telemetry

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.39.0"
)

// Supported exporter names.
const (
	ExporterStdout = "stdout"
	ExporterOTLP   = "otlp"
)

// InstrumentationScope is the meter and tracer name used across the module.
const InstrumentationScope = "github.com/yigitunlu/heroject"

// Attribute keys for metric labels.
var (
	AttrActionType = attribute.Key("action.type")
	AttrEntityKind = attribute.Key("entity.kind")
	AttrResult     = attribute.Key("result")
)

// Result attribute values.
const (
	ResultSuccess   = "success"
	ResultNotFound  = "not_found"
	ResultError     = "error"
	ResultRejected  = "rejected"
	ResultCancelled = "cancelled"
)

// Metrics holds pre-registered OpenTelemetry metric instruments.
type Metrics struct {
	ActionsRecorded         metric.Int64Counter
	NotificationsCreated    metric.Int64Counter
	InvitationsAccepted     metric.Int64Counter
	UnrecognizedInviteKinds metric.Int64Counter
	ResolverDuration        metric.Float64Histogram
	ResolverTotal           metric.Int64Counter
}

// InitTracer creates and registers a global TracerProvider.
//
// The exporter parameter selects the span exporter: "otlp" uses OTLP/HTTP
// with the given endpoint and "stdout" uses a pretty-printed stdout exporter
// for development. Any other value is an error.
//
// The returned TracerProvider must be shut down when the application exits.
func InitTracer(ctx context.Context, serviceName, exporter, endpoint string) (*sdktrace.TracerProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	spanExporter, err := newSpanExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating span exporter: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(spanExporter),
		sdktrace.WithResource(res),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	return tp, nil
}

// InitMeter creates and registers a global MeterProvider.
//
// Exporter selection follows InitTracer.
//
// The returned MeterProvider must be shut down when the application exits.
func InitMeter(ctx context.Context, serviceName, exporter, endpoint string) (*sdkmetric.MeterProvider, error) {
	res, err := newResource(serviceName)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	metricExporter, err := newMetricExporter(ctx, exporter, endpoint)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(metricExporter)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	return mp, nil
}

// NewMetrics creates and registers all metric instruments using the given
// MeterProvider. The meter carries serviceName as an instrumentation attribute.
func NewMetrics(mp metric.MeterProvider, serviceName string) (*Metrics, error) {
	meter := mp.Meter(InstrumentationScope,
		metric.WithInstrumentationAttributes(semconv.ServiceName(serviceName)))

	actions, err := meter.Int64Counter(
		"heroject.actions.recorded",
		metric.WithDescription("Actions appended to the activity log"),
		metric.WithUnit("{action}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating heroject.actions.recorded: %w", err)
	}

	notifications, err := meter.Int64Counter(
		"heroject.notifications.created",
		metric.WithDescription("Notifications stored for receivers"),
		metric.WithUnit("{notification}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating heroject.notifications.created: %w", err)
	}

	accepted, err := meter.Int64Counter(
		"heroject.invitations.accepted",
		metric.WithDescription("Invitations accepted into a membership"),
		metric.WithUnit("{invitation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating heroject.invitations.accepted: %w", err)
	}

	unrecognized, err := meter.Int64Counter(
		"heroject.invitation.unrecognized_target",
		metric.WithDescription("Invitation accepts whose target cannot hold members"),
		metric.WithUnit("{invitation}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating heroject.invitation.unrecognized_target: %w", err)
	}

	resolverDuration, err := meter.Float64Histogram(
		"heroject.resolver.duration",
		metric.WithDescription("Duration of entity reference resolution"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating heroject.resolver.duration: %w", err)
	}

	resolverTotal, err := meter.Int64Counter(
		"heroject.resolver.total",
		metric.WithDescription("Total number of entity reference resolutions"),
		metric.WithUnit("{resolution}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating heroject.resolver.total: %w", err)
	}

	return &Metrics{
		ActionsRecorded:         actions,
		NotificationsCreated:    notifications,
		InvitationsAccepted:     accepted,
		UnrecognizedInviteKinds: unrecognized,
		ResolverDuration:        resolverDuration,
		ResolverTotal:           resolverTotal,
	}, nil
}

// ActionRecorded counts one recorded action of the given catalog type.
func (m *Metrics) ActionRecorded(ctx context.Context, actionType string) {
	if m == nil {
		return
	}
	m.ActionsRecorded.Add(ctx, 1, metric.WithAttributes(AttrActionType.String(actionType)))
}

// NotificationCreated counts one stored notification.
func (m *Metrics) NotificationCreated(ctx context.Context) {
	if m == nil {
		return
	}
	m.NotificationsCreated.Add(ctx, 1)
}

// InvitationAccepted counts one accepted invitation for the target kind.
func (m *Metrics) InvitationAccepted(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.InvitationsAccepted.Add(ctx, 1, metric.WithAttributes(AttrEntityKind.String(kind)))
}

// UnrecognizedInvitationTarget counts one accept that was skipped because the
// target kind has no membership.
func (m *Metrics) UnrecognizedInvitationTarget(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	m.UnrecognizedInviteKinds.Add(ctx, 1, metric.WithAttributes(AttrEntityKind.String(kind)))
}

// Resolved records the duration and outcome of one resolver call.
func (m *Metrics) Resolved(ctx context.Context, kind, result string, elapsed time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(AttrEntityKind.String(kind), AttrResult.String(result))
	m.ResolverDuration.Record(ctx, elapsed.Seconds(), attrs)
	m.ResolverTotal.Add(ctx, 1, attrs)
}

func newResource(serviceName string) (*resource.Resource, error) {
	return resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName(serviceName),
		),
	)
}

func newSpanExporter(ctx context.Context, exporter, endpoint string) (sdktrace.SpanExporter, error) {
	switch exporter {
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
		opts := []otlptracehttp.Option{otlptracehttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlptracehttp.WithInsecure())
		}
		return otlptracehttp.New(ctx, opts...)
	case ExporterStdout:
		return stdouttrace.New(stdouttrace.WithPrettyPrint())
	default:
		return nil, fmt.Errorf("unsupported exporter %q", exporter)
	}
}

func newMetricExporter(ctx context.Context, exporter, endpoint string) (sdkmetric.Exporter, error) {
	switch exporter {
	case ExporterOTLP:
		if endpoint == "" {
			return nil, errors.New("otlp exporter requires an endpoint")
		}
		opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(hostPort(endpoint))}
		if !isHTTPS(endpoint) {
			opts = append(opts, otlpmetrichttp.WithInsecure())
		}
		return otlpmetrichttp.New(ctx, opts...)
	case ExporterStdout:
		return stdoutmetric.New()
	default:
		return nil, fmt.Errorf("unsupported exporter %q", exporter)
	}
}

// hostPort extracts the host:port from a URL string
// (e.g., "http://otel-collector:4318" -> "otel-collector:4318").
func hostPort(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil || u.Host == "" {
		return endpoint
	}
	return u.Host
}

// isHTTPS returns true if the endpoint URL uses the https scheme.
func isHTTPS(endpoint string) bool {
	u, err := url.Parse(endpoint)
	if err != nil {
		return false
	}
	return u.Scheme == "https"
}
