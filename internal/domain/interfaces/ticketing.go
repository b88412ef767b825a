package interfaces

import (
	"context"
	"encoding/json"

	"lm-gateway/internal/domain/entities"
)

// TicketingClient is the outbound port to the change-management system.
type TicketingClient interface {
	// Token obtains an OAuth access token via client credentials.
	Token(ctx context.Context) (string, error)

	// FindChangeTaskSysID resolves a change task number to its sys_id.
	FindChangeTaskSysID(ctx context.Context, token, number string) (string, error)

	// ListAttachments returns the attachments with the given file name on a
	// change task.
	ListAttachments(ctx context.Context, token, tableSysID, fileName string) ([]entities.Attachment, error)

	// DeleteAttachment removes one attachment.
	DeleteAttachment(ctx context.Context, token, attachmentSysID string) error

	// UploadAttachment attaches a file to a change task and returns the raw
	// upstream response.
	UploadAttachment(ctx context.Context, token, tableSysID, fileName string, payload []byte) (json.RawMessage, error)
}
