package rest

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"lm-gateway/internal/application/usecases"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/interfaces"
	"lm-gateway/internal/infrastructure/health"
	"lm-gateway/internal/infrastructure/metrics"
)

// Handler exposes the gateway's API operations. Request parameters may arrive
// as query parameters or as a JSON object body; query parameters win when
// both are present.
type Handler struct {
	selectInterfaces  *usecases.SelectInterfacesUseCase
	resolveNeighbors  *usecases.ResolveNeighborsUseCase
	suppression       *usecases.CreateSuppressionUseCase
	replaceAttachment *usecases.ReplaceAttachmentUseCase
	credentials       interfaces.CredentialStore
	health            *health.HealthService
	logger            *logrus.Logger
}

// NewHandler creates the API handler.
func NewHandler(
	selectInterfaces *usecases.SelectInterfacesUseCase,
	resolveNeighbors *usecases.ResolveNeighborsUseCase,
	suppression *usecases.CreateSuppressionUseCase,
	replaceAttachment *usecases.ReplaceAttachmentUseCase,
	credentials interfaces.CredentialStore,
	healthService *health.HealthService,
	logger *logrus.Logger,
) *Handler {
	return &Handler{
		selectInterfaces:  selectInterfaces,
		resolveNeighbors:  resolveNeighbors,
		suppression:       suppression,
		replaceAttachment: replaceAttachment,
		credentials:       credentials,
		health:            healthService,
		logger:            logger,
	}
}

// flexibleID accepts a JSON string or number and normalizes to string.
type flexibleID string

func (f *flexibleID) UnmarshalJSON(data []byte) error {
	value := strings.Trim(string(data), `"`)
	if value == "null" {
		value = ""
	}
	*f = flexibleID(value)
	return nil
}

// requestParams merges the query string with an optional JSON object body.
type requestParams struct {
	query url.Values
	body  map[string]json.RawMessage
}

// parseParams reads the query string and, when present, the JSON body. A
// non-object body is a validation failure; an empty body is fine.
func parseParams(r *http.Request) (requestParams, error) {
	params := requestParams{query: r.URL.Query()}

	if r.Body == nil {
		return params, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return params, apperrors.NewValidationError("cannot read request body", err)
	}
	if len(raw) == 0 {
		return params, nil
	}
	if err := json.Unmarshal(raw, &params.body); err != nil {
		return params, apperrors.NewValidationError("request body must be a JSON object", err)
	}
	return params, nil
}

// get returns the named parameter, query first, body second.
func (p requestParams) get(key string) string {
	if value := p.query.Get(key); value != "" {
		return value
	}
	raw, ok := p.body[key]
	if !ok {
		return ""
	}
	var id flexibleID
	if err := id.UnmarshalJSON(raw); err != nil {
		return ""
	}
	return string(id)
}

// DeviceInterfaces handles interface discovery for a device.
func (h *Handler) DeviceInterfaces(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deviceName := params.get("device")
	if deviceName == "" {
		h.writeError(w, r, apperrors.NewValidationError("missing 'device' parameter", nil))
		return
	}

	output, err := h.selectInterfaces.Execute(r.Context(), usecases.SelectInterfacesInput{DeviceName: deviceName})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.health.UpdateUpstreamHealth(true, nil)
	h.writeJSON(w, http.StatusOK, output)
}

// Neighbors handles CDP neighbor resolution for one interface.
func (h *Handler) Neighbors(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	deviceIDParam := params.get("device_id")
	interfaceName := params.get("interface_name")
	if deviceIDParam == "" || interfaceName == "" {
		h.writeError(w, r, apperrors.NewValidationError("device_id and interface_name are required", nil))
		return
	}

	deviceID, err := strconv.ParseInt(deviceIDParam, 10, 64)
	if err != nil {
		h.writeError(w, r, apperrors.NewValidationError("device_id must be numeric", err))
		return
	}

	output, err := h.resolveNeighbors.Execute(r.Context(), usecases.ResolveNeighborsInput{
		DeviceID:      deviceID,
		InterfaceName: interfaceName,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	for _, record := range output.NeighborDetails {
		if record.NeighborInterfaceID != nil {
			metrics.RecordNeighborLookup("found")
		} else {
			metrics.RecordNeighborLookup("not_found")
		}
	}

	h.health.UpdateUpstreamHealth(true, nil)
	h.writeJSON(w, http.StatusOK, output)
}

// Suppression handles a single suppression request.
func (h *Handler) Suppression(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	input := usecases.SuppressionInput{
		InterfaceID:   params.get("interface_id"),
		InterfaceName: params.get("interface_name"),
		StartTime:     params.get("start_time"),
		EndTime:       params.get("end_time"),
	}
	if input.InterfaceID == "" || input.InterfaceName == "" || input.StartTime == "" || input.EndTime == "" {
		h.writeError(w, r, apperrors.NewValidationError("interface_id, interface_name, start_time and end_time are required", nil))
		return
	}

	confirmation, err := h.suppression.Execute(r.Context(), input)
	if err != nil {
		metrics.RecordSuppression("error")
		h.writeError(w, r, err)
		return
	}

	metrics.RecordSuppression("success")
	h.health.UpdateUpstreamHealth(true, nil)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "SDT created successfully",
		"sdt_id":  confirmation.ID,
	})
}

// bulkSuppressionRequest is the bulk endpoint's JSON body.
type bulkSuppressionRequest struct {
	Suppressions []struct {
		InterfaceID   flexibleID `json:"interface_id"`
		InterfaceName string     `json:"interface_name"`
		StartTime     string     `json:"start_time"`
		EndTime       string     `json:"end_time"`
	} `json:"suppressions"`
}

// BulkSuppression handles a batch of suppressions. The batch is processed in
// full; the HTTP status reflects the aggregate outcome, 207 for a mix.
func (h *Handler) BulkSuppression(w http.ResponseWriter, r *http.Request) {
	var request bulkSuppressionRequest
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		h.writeError(w, r, apperrors.NewValidationError("cannot parse bulk suppression body", err))
		return
	}
	if len(request.Suppressions) == 0 {
		h.writeError(w, r, apperrors.NewValidationError("suppressions list is empty", nil))
		return
	}

	items := make([]usecases.BulkSuppressionItem, 0, len(request.Suppressions))
	for _, s := range request.Suppressions {
		items = append(items, usecases.BulkSuppressionItem{
			InterfaceID:   string(s.InterfaceID),
			InterfaceName: s.InterfaceName,
			StartTime:     s.StartTime,
			EndTime:       s.EndTime,
		})
	}

	output := h.suppression.ExecuteBulk(r.Context(), items)
	for _, result := range output.Results {
		metrics.RecordSuppression(result.Status)
	}

	statusCode := http.StatusOK
	switch output.Status {
	case usecases.StatusPartial:
		statusCode = http.StatusMultiStatus
	case usecases.StatusError:
		statusCode = http.StatusBadRequest
	}
	h.writeJSON(w, statusCode, output)
}

// ReplaceAttachment handles the change task attachment replacement flow.
func (h *Handler) ReplaceAttachment(w http.ResponseWriter, r *http.Request) {
	params, err := parseParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	number := params.get("change_task_number")
	content := params.get("content")
	if number == "" {
		h.writeError(w, r, apperrors.NewValidationError("change_task_number is required", nil))
		return
	}

	output, err := h.replaceAttachment.Execute(r.Context(), usecases.ReplaceAttachmentInput{
		ChangeTaskNumber: number,
		Content:          content,
	})
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":             "success",
		"change_task_sys_id": output.ChangeTaskSysID,
		"deleted_count":      output.DeletedCount,
		"upload":             output.Upload,
	})
}

// TestSecrets reports which secrets are loaded, masked. Values are never
// echoed in full.
func (h *Handler) TestSecrets(w http.ResponseWriter, r *http.Request) {
	masked := h.credentials.Current().Masked()
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"secrets": masked,
	})
}

// RefreshSecrets re-reads the secrets from the vault. The cached set stays in
// place when the refresh fails.
func (h *Handler) RefreshSecrets(w http.ResponseWriter, r *http.Request) {
	if err := h.credentials.Refresh(r.Context()); err != nil {
		metrics.RecordCredentialRefresh("error")
		h.writeError(w, r, err)
		return
	}

	metrics.RecordCredentialRefresh("success")
	h.health.SetCredentialsLoaded(true)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Secrets refreshed",
		"secrets": h.credentials.Current().Masked(),
	})
}

// writeJSON writes a JSON response body with the given status.
func (h *Handler) writeJSON(w http.ResponseWriter, statusCode int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.WithError(err).Error("failed to encode response")
	}
}

// writeError maps a domain error to an HTTP status and a JSON error body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	errorType := apperrors.ErrorTypeFetch
	message := err.Error()
	detail := ""

	var domainErr *apperrors.DomainError
	if errors.As(err, &domainErr) {
		errorType = domainErr.Type
		message = domainErr.Message
		detail = domainErr.Detail
	}

	metrics.RecordError(string(errorType))
	if errorType == apperrors.ErrorTypeFetch {
		h.health.UpdateUpstreamHealth(false, err)
	}

	h.logger.WithFields(logrus.Fields{
		"path":       r.URL.Path,
		"error_type": string(errorType),
		"error":      message,
	}).Warn("Request failed")

	body := map[string]interface{}{
		"status":     "error",
		"error_type": string(errorType),
		"message":    message,
	}
	if detail != "" {
		body["detail"] = detail
	}
	h.writeJSON(w, statusForErrorType(errorType), body)
}

// statusForErrorType maps the error taxonomy onto HTTP statuses.
func statusForErrorType(errorType apperrors.ErrorType) int {
	switch errorType {
	case apperrors.ErrorTypeValidation,
		apperrors.ErrorTypeInvalidTimeFormat,
		apperrors.ErrorTypeAmbiguousMatch:
		return http.StatusBadRequest
	case apperrors.ErrorTypeNotFound,
		apperrors.ErrorTypeNoMatchingDatasource:
		return http.StatusNotFound
	case apperrors.ErrorTypeFetch,
		apperrors.ErrorTypeInvalidResponse,
		apperrors.ErrorTypeUpstream:
		return http.StatusBadGateway
	case apperrors.ErrorTypeCredential:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
