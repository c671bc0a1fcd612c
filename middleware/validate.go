package middleware

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/go-playground/validator/v10"
	"github.com/terraskye/mediator"
)

// ErrInvalidRequest is wrapped by errors returned from Validate.
var ErrInvalidRequest = errors.New("invalid request")

// Validate checks the `validate` struct tags of every struct request before
// it reaches the handler. Requests that are not structs pass through.
func Validate(v *validator.Validate) mediator.Middleware {
	if v == nil {
		v = validator.New(validator.WithRequiredStructEnabled())
	}
	return func(ctx context.Context, req any, next mediator.HandlerFunc) error {
		if isStruct(req) {
			if err := v.StructCtx(ctx, req); err != nil {
				return fmt.Errorf("%w %s: %w", ErrInvalidRequest, mediator.TypeName(req), err)
			}
		}
		return next(ctx, req)
	}
}

func isStruct(v any) bool {
	t := reflect.TypeOf(v)
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		if reflect.ValueOf(v).IsNil() {
			return false
		}
		t = t.Elem()
	}
	return t.Kind() == reflect.Struct
}
