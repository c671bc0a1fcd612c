package metrics

import (
	"context"
	"strings"
	"time"

	"github.com/terraskye/mediator"
)

// PrometheusMiddleware creates a middleware that records request execution metrics.
//
// Request names are simplified to remove package prefixes, so
// "*commands.PlaceOrder" becomes "PlaceOrder".
func PrometheusMiddleware(collector *Collector) mediator.Middleware {
	return func(ctx context.Context, req any, next mediator.HandlerFunc) error {
		// Skip metrics if collector is nil (metrics disabled)
		if collector == nil {
			return next(ctx, req)
		}

		start := time.Now()
		err := next(ctx, req)
		collector.RecordRequest(shortName(req), time.Since(start).Seconds(), err == nil)
		return err
	}
}

type countingListener[Ev any] struct {
	collector *Collector
	name      string
	next      mediator.Listener[Ev]
}

// WithListenerMetrics counts every event next is notified with. Panicking
// notifications are not counted.
func WithListenerMetrics[Ev any](collector *Collector, name string, next mediator.Listener[Ev]) mediator.Listener[Ev] {
	if collector == nil {
		return next
	}
	return &countingListener[Ev]{collector: collector, name: name, next: next}
}

func (l *countingListener[Ev]) Notify(event Ev) {
	l.next.Notify(event)
	l.collector.RecordNotification(l.name, shortName(event))
}

func shortName(v any) string {
	if v == nil {
		return "Unknown"
	}
	name := strings.TrimPrefix(mediator.TypeName(v), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		return name[i+1:]
	}
	return name
}
