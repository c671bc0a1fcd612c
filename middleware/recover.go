package middleware

import (
	"context"
	"errors"
	"fmt"

	"github.com/terraskye/mediator"
)

// ErrPanic is wrapped by errors returned from Recover.
var ErrPanic = errors.New("request handler panicked")

// Recover converts a panic further down the chain into an error wrapping
// ErrPanic. Without it panics propagate to the caller of Send.
func Recover() mediator.Middleware {
	return func(ctx context.Context, req any, next mediator.HandlerFunc) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("%w: %s: %v", ErrPanic, mediator.TypeName(req), r)
			}
		}()
		return next(ctx, req)
	}
}
