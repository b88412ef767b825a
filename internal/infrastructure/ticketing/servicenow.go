package ticketing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/interfaces"
	"lm-gateway/internal/infrastructure/config"
	"lm-gateway/internal/infrastructure/metrics"
)

// Resource paths on the change-management API.
const (
	tokenPath       = "/oauth_token.do"
	changeTaskPath  = "/api/now/v2/table/change_task"
	attachmentsPath = "/api/now/table/sys_attachment"
	uploadPath      = "/api/now/attachment/file"
)

// Client talks to the change-management system's REST API. A fresh OAuth
// token is obtained per request flow; tokens are never cached across calls.
type Client struct {
	httpClient *http.Client
	baseURL    string
	creds      interfaces.CredentialStore
	logger     *logrus.Logger
}

// NewClient creates a change-management API client.
func NewClient(cfg config.ServiceNowConfig, creds interfaces.CredentialStore, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		creds:      creds,
		logger:     logger,
	}
}

// Token obtains an OAuth access token via the client-credentials grant.
func (c *Client) Token(ctx context.Context) (string, error) {
	creds := c.creds.Current()
	if creds.SnowClientID == "" || creds.SnowClientSecret == "" {
		return "", apperrors.NewCredentialError("change-management client credentials not loaded", nil)
	}

	form := url.Values{
		"grant_type":    {"client_credentials"},
		"client_id":     {creds.SnowClientID},
		"client_secret": {creds.SnowClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+tokenPath,
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", apperrors.NewFetchError("cannot build token request", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	body, err := c.do(req, "snow_token")
	if err != nil {
		return "", err
	}

	var envelope struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", apperrors.NewInvalidResponseError("invalid JSON returned from token endpoint", string(body))
	}
	if envelope.AccessToken == "" {
		return "", apperrors.NewInvalidResponseError("access token missing in token response", string(body))
	}
	return envelope.AccessToken, nil
}

// FindChangeTaskSysID resolves a change task number to its sys_id.
func (c *Client) FindChangeTaskSysID(ctx context.Context, token, number string) (string, error) {
	query := url.Values{
		"sysparm_query":  {"number=" + number},
		"sysparm_fields": {"sys_id"},
		"sysparm_limit":  {"1"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+changeTaskPath+"?"+query.Encode(), nil)
	if err != nil {
		return "", apperrors.NewFetchError("cannot build change task lookup request", err)
	}
	c.authorize(req, token)

	body, err := c.do(req, "snow_change_task")
	if err != nil {
		return "", err
	}

	var envelope struct {
		Result []struct {
			SysID string `json:"sys_id"`
		} `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", apperrors.NewInvalidResponseError("invalid JSON returned from change task lookup", string(body))
	}
	if len(envelope.Result) == 0 || envelope.Result[0].SysID == "" {
		return "", apperrors.NewNotFoundError(fmt.Sprintf("change task %q not found", number))
	}
	return envelope.Result[0].SysID, nil
}

// ListAttachments returns the attachments carrying the given file name on a
// change task.
func (c *Client) ListAttachments(ctx context.Context, token, tableSysID, fileName string) ([]entities.Attachment, error) {
	query := url.Values{
		"sysparm_query": {fmt.Sprintf("table_name=change_task^table_sys_id=%s^file_name=%s", tableSysID, fileName)},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.baseURL+attachmentsPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, apperrors.NewFetchError("cannot build attachment list request", err)
	}
	c.authorize(req, token)

	body, err := c.do(req, "snow_attachments")
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Result []entities.Attachment `json:"result"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewInvalidResponseError("invalid JSON returned from attachment list", string(body))
	}
	return envelope.Result, nil
}

// DeleteAttachment removes one attachment by sys_id.
func (c *Client) DeleteAttachment(ctx context.Context, token, attachmentSysID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+attachmentsPath+"/"+attachmentSysID, nil)
	if err != nil {
		return apperrors.NewFetchError("cannot build attachment delete request", err)
	}
	c.authorize(req, token)

	if _, err := c.do(req, "snow_attachments"); err != nil {
		return err
	}

	c.logger.WithField("attachment_sys_id", attachmentSysID).Info("Attachment deleted")
	return nil
}

// UploadAttachment attaches a plain-text payload to a change task and returns
// the raw upstream response.
func (c *Client) UploadAttachment(ctx context.Context, token, tableSysID, fileName string, payload []byte) (json.RawMessage, error) {
	query := url.Values{
		"table_name":   {"change_task"},
		"table_sys_id": {tableSysID},
		"file_name":    {fileName},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+uploadPath+"?"+query.Encode(), bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewFetchError("cannot build attachment upload request", err)
	}
	c.authorize(req, token)
	req.Header.Set("Content-Type", "text/plain")

	body, err := c.do(req, "snow_upload")
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

func (c *Client) authorize(req *http.Request, token string) {
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")
}

// do runs one request and returns the body. Any status outside 2xx is a
// fetch failure carrying the response body as detail.
func (c *Client) do(req *http.Request, resource string) ([]byte, error) {
	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(resource, "error", time.Since(started).Seconds())
		return nil, apperrors.NewFetchError("change-management API request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamRequest(resource, "error", time.Since(started).Seconds())
		return nil, apperrors.NewFetchError("cannot read change-management API response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		metrics.RecordUpstreamRequest(resource, "error", time.Since(started).Seconds())
		return nil, apperrors.NewFetchErrorWithDetail(
			fmt.Sprintf("HTTP error %d from change-management API", resp.StatusCode), string(body))
	}
	metrics.RecordUpstreamRequest(resource, "ok", time.Since(started).Seconds())
	return body, nil
}
