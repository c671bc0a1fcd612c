package logging

import (
	"log/slog"

	"github.com/terraskye/mediator"
)

// WithListenerLogging wraps a listener with debug logging around each
// notification.
func WithListenerLogging[Ev any](logger *slog.Logger, name string, next mediator.Listener[Ev]) mediator.Listener[Ev] {
	return mediator.NewListenerFunc(func(event Ev) {
		l := logger.With(
			"listener", name,
			"event-type", mediator.TypeName(event),
		)

		l.Debug("event notification started")
		next.Notify(event)
		l.Debug("event notified successfully")
	})
}
