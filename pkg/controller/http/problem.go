package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ffbot/pkg/domain/model"
	"github.com/m-mizutani/ffbot/pkg/utils/errs"
)

const titleAPIRequestFailed = "GitHub API request failed"

// problemFromError maps pipeline errors to the response sent to GitHub
func problemFromError(err error) *model.Problem {
	var evErr *model.EventError
	if !errors.As(err, &evErr) {
		return &model.Problem{Status: http.StatusInternalServerError, Title: "Internal server error"}
	}

	switch evErr.Kind {
	case model.EventErrorInvalidHeader:
		return &model.Problem{Status: http.StatusBadRequest, Title: causeMessage(evErr)}

	case model.EventErrorInvalidSignatureHeader:
		return &model.Problem{
			Status: http.StatusBadRequest,
			Title:  "Invalid signature header",
			Detail: causeMessage(evErr),
		}

	case model.EventErrorSignatureInvalid:
		return &model.Problem{Status: http.StatusUnauthorized, Title: "Invalid signature"}

	case model.EventErrorInvalidEventPayload:
		return &model.Problem{
			Status: http.StatusBadRequest,
			Title:  "Invalid event payload",
			Detail: causeMessage(evErr),
		}

	case model.EventErrorAPIRequestFailed:
		var apiErr *model.APIError
		if !errors.As(err, &apiErr) || apiErr.Kind == model.APIErrorUnspecific {
			return &model.Problem{Status: http.StatusInternalServerError, Title: titleAPIRequestFailed}
		}
		return &model.Problem{
			Status: http.StatusBadRequest,
			Title:  titleAPIRequestFailed,
			Detail: apiErr.Error(),
		}
	}

	return &model.Problem{Status: http.StatusInternalServerError, Title: "Internal server error"}
}

func causeMessage(err *model.EventError) string {
	if cause := err.Unwrap(); cause != nil {
		return cause.Error()
	}
	return err.Kind.String()
}

// writeProblem logs err and writes it as a problem response. Unspecific failures are
// reported as errors, everything caused by the request itself as warnings.
func writeProblem(ctx context.Context, w http.ResponseWriter, err error) {
	problem := problemFromError(err)

	if model.IsUnspecific(err) {
		errs.Handle(ctx, "Failed to process webhook event", err)
	} else {
		ctxlog.From(ctx).Warn("Rejected webhook event",
			"status", problem.Status,
			"title", problem.Title,
			"error", err,
		)
	}

	writeProblemBody(ctx, w, problem)
}

func writeProblemBody(ctx context.Context, w http.ResponseWriter, problem *model.Problem) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(problem.Status)
	if err := json.NewEncoder(w).Encode(problem); err != nil {
		ctxlog.From(ctx).Error("Failed to encode problem response", "error", err)
	}
}
