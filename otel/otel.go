package otel

import (
	"github.com/terraskye/mediator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const (
	instrumentationName = "github.com/terraskye/mediator"
)

// Semantic attribute keys following OpenTelemetry conventions
const (
	// Request attributes
	AttrRequestType = attribute.Key("mediator.request.type")
	AttrRequestID   = attribute.Key("mediator.request.id")

	// Event attributes
	AttrEventType    = attribute.Key("mediator.event.type")
	AttrListenerName = attribute.Key("mediator.listener.name")

	// Error attributes
	AttrErrorType = attribute.Key("mediator.error.type")
)

// instruments holds the tracer and metrics used by one decorator.
type instruments struct {
	tracer trace.Tracer

	requestsHandled  metric.Int64Counter
	requestsFailed   metric.Int64Counter
	requestsInFlight metric.Int64UpDownCounter
	requestsDuration metric.Float64Histogram

	eventsNotified metric.Int64Counter
	eventsDuration metric.Float64Histogram
}

func newInstruments(cfg *config) *instruments {
	meter := cfg.MeterProvider.Meter(instrumentationName, metric.WithInstrumentationVersion(mediator.InstrumentationVersion))

	in := &instruments{
		tracer: cfg.TracerProvider.Tracer(instrumentationName, trace.WithInstrumentationVersion(mediator.InstrumentationVersion)),
	}

	// Request metrics
	in.requestsHandled, _ = meter.Int64Counter(
		"mediator.requests.handled",
		metric.WithDescription("Total number of requests handled"),
		metric.WithUnit("{request}"),
	)

	in.requestsFailed, _ = meter.Int64Counter(
		"mediator.requests.failed",
		metric.WithDescription("Number of failed requests"),
		metric.WithUnit("{request}"),
	)

	in.requestsInFlight, _ = meter.Int64UpDownCounter(
		"mediator.requests.in_flight",
		metric.WithDescription("Number of requests currently being processed"),
		metric.WithUnit("{request}"),
	)

	in.requestsDuration, _ = meter.Float64Histogram(
		"mediator.requests.duration",
		metric.WithDescription("Request handling duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000, 10000),
	)

	// Event metrics
	in.eventsNotified, _ = meter.Int64Counter(
		"mediator.events.notified",
		metric.WithDescription("Number of events delivered to listeners"),
		metric.WithUnit("{event}"),
	)

	in.eventsDuration, _ = meter.Float64Histogram(
		"mediator.events.duration",
		metric.WithDescription("Listener notification duration"),
		metric.WithUnit("ms"),
		metric.WithExplicitBucketBoundaries(1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000),
	)

	return in
}
