package auditlog

import "time"

const (
	KindWorkflowOpened   = "workflow_opened"
	KindFieldsUpdated    = "fields_updated"
	KindPreviewGenerated = "preview_generated"
	KindConsentSubmitted = "consent_submitted"
	KindWorkflowClosed   = "workflow_closed"
)

type Event struct {
	ID            string    `json:"id"`
	Kind          string    `json:"kind"`
	ApplicationID string    `json:"applicationId"`
	WorkflowID    string    `json:"workflowId,omitempty"`
	Actor         string    `json:"actor,omitempty"`
	At            time.Time `json:"at"`
	Offset        uint64    `json:"offset"`
}

type Log interface {
	Append(event Event) (Event, error)
	Read(offset uint64) ([]Event, error)
	Close() error
}
