package usecases

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"

	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/interfaces"
	"lm-gateway/internal/domain/services"
)

// Per-item and aggregate batch statuses.
const (
	StatusSuccess = "success"
	StatusPartial = "partial"
	StatusError   = "error"
)

// CreateSuppressionUseCase converts human time ranges to epoch milliseconds
// and submits suppression (SDT) requests, single or in bulk.
type CreateSuppressionUseCase struct {
	client interfaces.MonitoringClient
	logger *logrus.Logger
}

// NewCreateSuppressionUseCase creates a new CreateSuppressionUseCase.
func NewCreateSuppressionUseCase(client interfaces.MonitoringClient, logger *logrus.Logger) *CreateSuppressionUseCase {
	return &CreateSuppressionUseCase{client: client, logger: logger}
}

// SuppressionInput is the single-suppression input. InterfaceID arrives as a
// string from the API surface and is parsed here.
type SuppressionInput struct {
	InterfaceID   string
	InterfaceName string
	StartTime     string
	EndTime       string
}

// Execute creates one suppression. Repeated calls for the same window may
// create duplicate suppressions; the upstream API does not deduplicate.
func (uc *CreateSuppressionUseCase) Execute(ctx context.Context, input SuppressionInput) (*entities.SDTConfirmation, error) {
	instanceID, err := strconv.ParseInt(input.InterfaceID, 10, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(
			fmt.Sprintf("invalid interface_id %q", input.InterfaceID), err)
	}

	startMs, err := services.ConvertToEpochMillis(input.StartTime)
	if err != nil {
		return nil, err
	}
	endMs, err := services.ConvertToEpochMillis(input.EndTime)
	if err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"interface_id":   instanceID,
		"interface_name": input.InterfaceName,
		"start_epoch_ms": startMs,
		"end_epoch_ms":   endMs,
	}).Info("Creating suppression")

	comment := "Suppression via API for " + input.InterfaceName
	return uc.client.CreateSDT(ctx, entities.NewSuppressionRequest(instanceID, startMs, endMs, comment))
}

// BulkSuppressionItem is one entry of a bulk request.
type BulkSuppressionItem struct {
	InterfaceID   string
	InterfaceName string
	StartTime     string
	EndTime       string
}

// BulkItemResult is the outcome of one bulk entry, carrying its original
// index and echoed interface identity for caller-side correlation.
type BulkItemResult struct {
	Index         int    `json:"index"`
	InterfaceID   string `json:"interface_id"`
	InterfaceName string `json:"interface_name,omitempty"`
	Status        string `json:"status"`
	Message       string `json:"message"`
	SDTID         string `json:"sdt_id,omitempty"`
}

// BulkSuppressionOutput aggregates a whole batch.
type BulkSuppressionOutput struct {
	Status       string           `json:"status"`
	Message      string           `json:"message"`
	Total        int              `json:"total"`
	SuccessCount int              `json:"success_count"`
	ErrorCount   int              `json:"error_count"`
	Results      []BulkItemResult `json:"results"`
}

// ExecuteBulk processes every item independently; one item's failure never
// aborts the batch. The aggregate status is success with zero failures,
// partial with a mix, error with zero successes.
func (uc *CreateSuppressionUseCase) ExecuteBulk(ctx context.Context, items []BulkSuppressionItem) *BulkSuppressionOutput {
	results := make([]BulkItemResult, 0, len(items))
	successCount := 0
	errorCount := 0

	for idx, item := range items {
		result := BulkItemResult{
			Index:         idx,
			InterfaceID:   item.InterfaceID,
			InterfaceName: item.InterfaceName,
		}

		switch {
		case item.InterfaceID == "":
			result.Status = StatusError
			result.Message = "Missing interface_id"
		case item.StartTime == "" || item.EndTime == "":
			result.Status = StatusError
			result.Message = "Missing start_time or end_time"
		default:
			name := item.InterfaceName
			if name == "" {
				name = "Interface_" + item.InterfaceID
				result.InterfaceName = name
			}

			confirmation, err := uc.Execute(ctx, SuppressionInput{
				InterfaceID:   item.InterfaceID,
				InterfaceName: name,
				StartTime:     item.StartTime,
				EndTime:       item.EndTime,
			})
			if err != nil {
				result.Status = StatusError
				result.Message = err.Error()
			} else {
				result.Status = StatusSuccess
				result.Message = "SDT created successfully"
				result.SDTID = confirmation.ID
			}
		}

		if result.Status == StatusSuccess {
			successCount++
		} else {
			errorCount++
		}
		results = append(results, result)
	}

	status := StatusSuccess
	if errorCount > 0 {
		if successCount > 0 {
			status = StatusPartial
		} else {
			status = StatusError
		}
	}

	return &BulkSuppressionOutput{
		Status:       status,
		Message:      fmt.Sprintf("Processed %d suppressions: %d succeeded, %d failed", len(items), successCount, errorCount),
		Total:        len(items),
		SuccessCount: successCount,
		ErrorCount:   errorCount,
		Results:      results,
	}
}
