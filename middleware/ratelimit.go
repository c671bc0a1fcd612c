package middleware

import (
	"context"
	"fmt"

	"github.com/terraskye/mediator"
	"golang.org/x/time/rate"
)

// RateLimit delays each request until limiter admits it. A request whose
// context ends first fails without reaching the handler.
func RateLimit(limiter *rate.Limiter) mediator.Middleware {
	return func(ctx context.Context, req any, next mediator.HandlerFunc) error {
		if err := limiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		return next(ctx, req)
	}
}
