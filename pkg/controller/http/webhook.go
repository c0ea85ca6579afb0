package http

import (
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/ffbot/pkg/domain/interfaces"
	"github.com/m-mizutani/ffbot/pkg/domain/model"
)

// GitHub caps webhook payloads at 25 MB
const defaultMaxBodySize = 25 << 20

// WebhookHandler handles GitHub webhooks
type WebhookHandler struct {
	webhookUC   interfaces.WebhookUseCase
	maxBodySize int64
}

// NewWebhookHandler creates a new WebhookHandler. maxBodySize <= 0 selects the default limit.
func NewWebhookHandler(webhookUC interfaces.WebhookUseCase, maxBodySize int64) *WebhookHandler {
	if maxBodySize <= 0 {
		maxBodySize = defaultMaxBodySize
	}
	return &WebhookHandler{
		webhookUC:   webhookUC,
		maxBodySize: maxBodySize,
	}
}

// Handle processes webhook requests
func (h *WebhookHandler) Handle(w http.ResponseWriter, r *http.Request) {
	deliveryID := r.Header.Get(model.HeaderDelivery)
	if deliveryID == "" {
		deliveryID = uuid.NewString()
	}

	logger := ctxlog.From(r.Context()).With(
		"delivery_id", deliveryID,
		"event_type", r.Header.Get(model.HeaderEvent),
	)
	ctx := ctxlog.With(r.Context(), logger)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodySize))
	if err != nil {
		logger.Warn("Failed to read request body", "error", err)
		writeProblemBody(ctx, w, &model.Problem{
			Status: http.StatusBadRequest,
			Title:  "Failed to read request body",
		})
		return
	}

	if err := h.webhookUC.HandleEvent(ctx, r.Header, body); err != nil {
		writeProblem(ctx, w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}
