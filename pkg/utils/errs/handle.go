package errs

import (
	"context"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Handle logs an unexpected error and reports it to Sentry. Reporting is a no-op
// when Sentry has not been initialized.
func Handle(ctx context.Context, msg string, err error) {
	logger := ctxlog.From(ctx)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub().Clone()
	}

	if evID := hub.CaptureException(err); evID != nil {
		logger = logger.With("sentry_event_id", string(*evID))
	}

	logger.Error(msg, "error", err)
}
