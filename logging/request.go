package logging

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/terraskye/mediator"
)

// RequestLogging returns a middleware that logs every Send.
// It logs the request type and request ID before execution, and logs
// errors if the handler fails.
func RequestLogging(logger *logrus.Entry) mediator.Middleware {
	return func(ctx context.Context, req any, next mediator.HandlerFunc) error {
		reqType := mediator.TypeName(req)
		requestID := mediator.RequestIDFromContext(ctx)
		logger.Infof("Send: %s (requestID: %s)", reqType, requestID)

		err := next(ctx, req)
		if err != nil {
			logger.Errorf("Send failed: %s (requestID: %s): %v", reqType, requestID, err)
		}

		return err
	}
}
