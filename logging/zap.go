package logging

import (
	"context"
	"time"

	"github.com/terraskye/mediator"
	"go.uber.org/zap"
)

// ZapRequestLogging returns a middleware that writes one structured entry
// per Send, at error level when the handler fails.
func ZapRequestLogging(logger *zap.Logger) mediator.Middleware {
	return func(ctx context.Context, req any, next mediator.HandlerFunc) error {
		start := time.Now()
		err := next(ctx, req)

		fields := []zap.Field{
			zap.String("request_type", mediator.TypeName(req)),
			zap.Stringer("request_id", mediator.RequestIDFromContext(ctx)),
			zap.Duration("duration", time.Since(start)),
		}
		if err != nil {
			logger.Error("request failed", append(fields, zap.Error(err))...)
			return err
		}

		logger.Debug("request handled", fields...)
		return nil
	}
}

// WithZapListenerLogging wraps a listener with a debug entry per
// notification.
func WithZapListenerLogging[Ev any](logger *zap.Logger, name string, next mediator.Listener[Ev]) mediator.Listener[Ev] {
	return mediator.NewListenerFunc(func(event Ev) {
		next.Notify(event)
		logger.Debug("event notified",
			zap.String("listener", name),
			zap.String("event_type", mediator.TypeName(event)),
		)
	})
}
