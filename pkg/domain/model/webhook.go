package model

// WebhookEventType represents the type of webhook event received
type WebhookEventType string

const (
	EventTypeWorkflowRun WebhookEventType = "workflow_run"
)

const (
	HeaderSignature = "X-Hub-Signature-256"
	HeaderEvent     = "X-GitHub-Event"
	HeaderDelivery  = "X-GitHub-Delivery"
)

const (
	WorkflowRunActionCompleted   = "completed"
	WorkflowRunConclusionSuccess = "success"
)
