package usecase

import (
	"context"
	"net/http"
	"unicode/utf8"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ffbot/pkg/domain/interfaces"
	"github.com/m-mizutani/ffbot/pkg/domain/model"
	"github.com/m-mizutani/ffbot/pkg/domain/types"
)

// Webhook verifies GitHub webhook deliveries and dispatches them by event type.
// It holds no per-request state and is safe for concurrent use.
type Webhook struct {
	secret      types.WebhookSecret
	workflowRun *WorkflowRun
}

var _ interfaces.WebhookUseCase = (*Webhook)(nil)

// NewWebhook creates a new instance of WebhookUseCase
func NewWebhook(secret types.WebhookSecret, provider interfaces.GitHubAPIProvider) *Webhook {
	return &Webhook{
		secret:      secret,
		workflowRun: NewWorkflowRun(provider),
	}
}

// HandleEvent verifies the signature of body and processes the event it carries.
// Event types other than workflow_run are accepted and ignored.
func (uc *Webhook) HandleEvent(ctx context.Context, header http.Header, body []byte) error {
	logger := ctxlog.From(ctx)

	sigHeader, err := headerValue(header, model.HeaderSignature)
	if err != nil {
		return model.NewEventError(model.EventErrorInvalidHeader, err)
	}

	sig, err := types.ParseWebhookSignature(sigHeader)
	if err != nil {
		return model.NewEventError(model.EventErrorInvalidSignatureHeader, err)
	}

	if !uc.secret.Verify(body, sig) {
		return model.NewEventError(model.EventErrorSignatureInvalid, nil)
	}

	eventType, err := headerValue(header, model.HeaderEvent)
	if err != nil {
		return model.NewEventError(model.EventErrorInvalidHeader, err)
	}

	switch model.WebhookEventType(eventType) {
	case model.EventTypeWorkflowRun:
		event, err := parseWorkflowRunEvent(body)
		if err != nil {
			return model.NewEventError(model.EventErrorInvalidEventPayload, err)
		}
		return uc.workflowRun.HandleEvent(ctx, event)

	default:
		logger.Info("Ignoring unsupported event type", "event_type", eventType)
		return nil
	}
}

func headerValue(header http.Header, name string) (string, error) {
	values := header.Values(name)
	if len(values) == 0 {
		return "", &model.HeaderError{Name: name, Missing: true}
	}
	if !utf8.ValidString(values[0]) {
		return "", &model.HeaderError{Name: name}
	}
	return values[0], nil
}
