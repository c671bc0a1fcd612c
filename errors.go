package mediator

import "errors"

var (
	// ErrNoEvent is returned by Next when the event queue is empty.
	// It is an expected condition; callers poll or schedule Next accordingly.
	ErrNoEvent = errors.New("no event available")

	// ErrNoContext is returned by a context-aware builder when Build is
	// called without a context ever having been added.
	ErrNoContext = errors.New("no context supplied")

	// ErrHandlerNotFound is wrapped by Send when no handler is registered
	// for the concrete request type.
	ErrHandlerNotFound = errors.New("handler not found")

	// ErrDuplicateHandler is the panic value used when a second handler is
	// registered for a request type.
	ErrDuplicateHandler = errors.New("duplicate handler")

	// ErrBuilderConsumed is the panic value used when a builder is touched
	// after Build.
	ErrBuilderConsumed = errors.New("builder already consumed")
)
