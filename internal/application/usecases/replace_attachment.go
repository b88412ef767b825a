package usecases

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"lm-gateway/internal/domain/interfaces"
)

// attachmentFileName is the fixed name under which the payload is attached;
// deduplication keys on it.
const attachmentFileName = "Data.txt"

// ReplaceAttachmentUseCase replaces the data attachment of a change task:
// every existing attachment with the same file name is deleted before the
// fresh payload is uploaded, so the task never accumulates duplicates.
type ReplaceAttachmentUseCase struct {
	client interfaces.TicketingClient
	logger *logrus.Logger
}

// NewReplaceAttachmentUseCase creates a new ReplaceAttachmentUseCase.
func NewReplaceAttachmentUseCase(client interfaces.TicketingClient, logger *logrus.Logger) *ReplaceAttachmentUseCase {
	return &ReplaceAttachmentUseCase{client: client, logger: logger}
}

// ReplaceAttachmentInput is the use case input.
type ReplaceAttachmentInput struct {
	ChangeTaskNumber string
	Content          string
}

// ReplaceAttachmentOutput is the use case output.
type ReplaceAttachmentOutput struct {
	ChangeTaskSysID string          `json:"change_task_sys_id"`
	DeletedCount    int             `json:"deleted_count"`
	Upload          json.RawMessage `json:"upload"`
}

// Execute runs the replace flow: resolve task, delete duplicates, upload.
func (uc *ReplaceAttachmentUseCase) Execute(ctx context.Context, input ReplaceAttachmentInput) (*ReplaceAttachmentOutput, error) {
	token, err := uc.client.Token(ctx)
	if err != nil {
		return nil, err
	}

	sysID, err := uc.client.FindChangeTaskSysID(ctx, token, input.ChangeTaskNumber)
	if err != nil {
		return nil, err
	}

	attachments, err := uc.client.ListAttachments(ctx, token, sysID, attachmentFileName)
	if err != nil {
		return nil, err
	}

	for _, attachment := range attachments {
		if err := uc.client.DeleteAttachment(ctx, token, attachment.SysID); err != nil {
			return nil, err
		}
	}

	upload, err := uc.client.UploadAttachment(ctx, token, sysID, attachmentFileName, []byte(input.Content))
	if err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"change_task": input.ChangeTaskNumber,
		"replaced":    len(attachments),
	}).Info("Attachment replaced")

	return &ReplaceAttachmentOutput{
		ChangeTaskSysID: sysID,
		DeletedCount:    len(attachments),
		Upload:          upload,
	}, nil
}
