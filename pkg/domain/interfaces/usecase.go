package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . WebhookUseCase

import (
	"context"
	"net/http"
)

// WebhookUseCase defines the interface for webhook event processing
type WebhookUseCase interface {
	// HandleEvent verifies and processes one webhook delivery
	HandleEvent(ctx context.Context, header http.Header, body []byte) error
}
