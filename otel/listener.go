package otel

import (
	"context"
	"fmt"
	"time"

	"github.com/terraskye/mediator"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

type telemetryListener[Ev any] struct {
	name string
	next mediator.Listener[Ev]
	cfg  *config
	in   *instruments
}

// WithListenerTelemetry wraps a listener so every notification produces an
// "events.notify <type>" span and is counted per listener and event type.
//
// Listeners carry no context, so each span is a root span.
func WithListenerTelemetry[Ev any](name string, next mediator.Listener[Ev], opts ...Option) mediator.Listener[Ev] {
	cfg := newConfig(opts)
	return &telemetryListener[Ev]{
		name: name,
		next: next,
		cfg:  cfg,
		in:   newInstruments(cfg),
	}
}

func (l *telemetryListener[Ev]) Notify(event Ev) {
	ctx := context.Background()
	eventType := mediator.TypeName(event)

	attr := append([]attribute.KeyValue{
		AttrEventType.String(eventType),
		AttrListenerName.String(l.name),
	}, l.cfg.Attributes...)
	if l.cfg.GetAttributes != nil {
		attr = append(attr, l.cfg.GetAttributes(ctx)...)
	}

	ctx, span := l.in.tracer.Start(ctx, l.cfg.operation(ctx, fmt.Sprintf("events.notify %s", eventType)),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attr...),
	)
	defer span.End()

	metricAttr := metric.WithAttributes(
		AttrEventType.String(eventType),
		AttrListenerName.String(l.name),
	)

	startTime := time.Now()
	defer func() {
		l.in.eventsDuration.Record(ctx, float64(time.Since(startTime).Milliseconds()), metricAttr)
		if r := recover(); r != nil {
			span.SetStatus(codes.Error, fmt.Sprintf("panic: %v", r))
			panic(r)
		}
	}()

	l.next.Notify(event)

	l.in.eventsNotified.Add(ctx, 1, metricAttr)
	span.SetStatus(codes.Ok, "")
}
