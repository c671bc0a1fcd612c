package otel

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// config holds the options for tracing a mediator.
type config struct {
	// Attributes holds the default attributes for each span created by this middleware.
	Attributes []attribute.KeyValue

	// GetAttributes is an optional function that can extract trace attributes
	// from the context and add them to the span.
	GetAttributes func(ctx context.Context) []attribute.KeyValue

	// GetOperation is an optional function that can set the span name based
	// on the default operation and information in the context.
	//
	// If the function is nil, or the returned operation is empty, the default is used.
	GetOperation func(ctx context.Context, operation string) string

	TracerProvider trace.TracerProvider
	MeterProvider  metric.MeterProvider
}

func newConfig(options []Option) *config {
	cfg := &config{
		TracerProvider: otel.GetTracerProvider(),
		MeterProvider:  otel.GetMeterProvider(),
	}
	for _, o := range options {
		o.apply(cfg)
	}
	return cfg
}

func (c *config) operation(ctx context.Context, operation string) string {
	if c.GetOperation == nil {
		return operation
	}
	if op := c.GetOperation(ctx, operation); op != "" {
		return op
	}
	return operation
}

// Option configures the telemetry decorators.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (o optionFunc) apply(c *config) {
	o(c)
}

// WithOperationGetter sets an operation name getter function in config.
func WithOperationGetter(fn func(ctx context.Context, name string) string) Option {
	return optionFunc(func(o *config) {
		o.GetOperation = fn
	})
}

// WithAttributes sets the default attributes for the spans created by the decorators.
func WithAttributes(attrs ...attribute.KeyValue) Option {
	return optionFunc(func(o *config) {
		o.Attributes = attrs
	})
}

// WithAttributeGetter extracts additional attributes from the context.
func WithAttributeGetter(fn func(ctx context.Context) []attribute.KeyValue) Option {
	return optionFunc(func(o *config) {
		o.GetAttributes = fn
	})
}

// WithTracerProvider overrides the global tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return optionFunc(func(o *config) {
		if tp != nil {
			o.TracerProvider = tp
		}
	})
}

// WithMeterProvider overrides the global meter provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return optionFunc(func(o *config) {
		if mp != nil {
			o.MeterProvider = mp
		}
	})
}
