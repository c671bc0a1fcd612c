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

// RequestTelemetry returns a middleware that traces and measures every Send.
//
// For each request the middleware:
//  1. Starts an internal span named "request.handle <type>" carrying the
//     request type and request ID.
//  2. Tracks the in-flight gauge around the downstream call.
//  3. Records the handling duration in milliseconds.
//  4. Marks the span Ok, or Error with the recorded error, and counts the
//     request as handled or failed.
//
// A panic in the handler is recorded on the span and re-raised.
//
// Example Usage:
//
//	b := mediator.NewBuilder[Event]().Use(otel.RequestTelemetry())
func RequestTelemetry(opts ...Option) mediator.Middleware {
	cfg := newConfig(opts)
	in := newInstruments(cfg)

	return func(ctx context.Context, req any, next mediator.HandlerFunc) (err error) {
		requestType := mediator.RequestTypeFromContext(ctx)
		if requestType == "" {
			requestType = mediator.TypeName(req)
		}
		typeAttr := metric.WithAttributes(AttrRequestType.String(requestType))

		attr := append([]attribute.KeyValue{
			AttrRequestType.String(requestType),
			AttrRequestID.String(mediator.RequestIDFromContext(ctx).String()),
		}, cfg.Attributes...)
		if cfg.GetAttributes != nil {
			attr = append(attr, cfg.GetAttributes(ctx)...)
		}

		ctx, span := in.tracer.Start(ctx, cfg.operation(ctx, fmt.Sprintf("request.handle %s", requestType)),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attr...),
		)
		defer span.End()

		in.requestsInFlight.Add(ctx, 1, typeAttr)
		defer in.requestsInFlight.Add(ctx, -1, typeAttr)

		startTime := time.Now()
		defer func() {
			in.requestsDuration.Record(ctx, float64(time.Since(startTime).Milliseconds()), typeAttr)
			if r := recover(); r != nil {
				span.SetStatus(codes.Error, fmt.Sprintf("panic: %v", r))
				span.AddEvent("panic", trace.WithAttributes(AttrErrorType.String(fmt.Sprintf("%T", r))))
				in.requestsFailed.Add(ctx, 1, typeAttr)
				panic(r)
			}
		}()

		err = next(ctx, req)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			span.RecordError(err, trace.WithAttributes(AttrErrorType.String(fmt.Sprintf("%T", err))))
			in.requestsFailed.Add(ctx, 1, typeAttr)
			return err
		}

		span.SetStatus(codes.Ok, "")
		in.requestsHandled.Add(ctx, 1, typeAttr)
		return nil
	}
}
