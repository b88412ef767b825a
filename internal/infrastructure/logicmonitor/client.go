package logicmonitor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/interfaces"
	"lm-gateway/internal/infrastructure/config"
	"lm-gateway/internal/infrastructure/metrics"
)

// Resource paths on the monitoring API.
const (
	devicesPath     = "/device/devices"
	datasourcesPath = "/device/devices/%d/devicedatasources"
	instancesPath   = "/device/devices/%d/devicedatasources/%d/instances"
	sdtPath         = "/sdt/sdts"
)

// Client talks to the monitoring platform's REST API. Every call is signed,
// blocking, and bounded by the configured request timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	pageSize   int
	signer     interfaces.RequestSigner
	logger     *logrus.Logger
}

// NewClient creates a monitoring API client.
func NewClient(cfg config.LogicMonitorConfig, signer interfaces.RequestSigner, logger *logrus.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		pageSize:   cfg.PageSize,
		signer:     signer,
		logger:     logger,
	}
}

// listEnvelope is the common list response wrapper.
type listEnvelope struct {
	Data struct {
		Items []json.RawMessage `json:"items"`
	} `json:"data"`
}

// SearchDevicesByName queries devices with an exact display-name filter.
func (c *Client) SearchDevicesByName(ctx context.Context, displayName string) ([]entities.Device, error) {
	query := url.Values{
		"filter": {"displayName:" + displayName},
		"fields": {"name,id,displayName"},
	}

	body, err := c.get(ctx, "devices", devicesPath, query)
	if err != nil {
		return nil, err
	}

	var envelope struct {
		Data struct {
			Items []entities.Device `json:"items"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewInvalidResponseError("cannot parse device search response", string(body))
	}
	return envelope.Data.Items, nil
}

// ListDeviceDatasources pages through every datasource of a device.
func (c *Client) ListDeviceDatasources(ctx context.Context, deviceID int64) ([]entities.Datasource, error) {
	items, err := FetchAll(ctx, c, fmt.Sprintf(datasourcesPath, deviceID), c.pageSize)
	if err != nil {
		return nil, err
	}

	datasources := make([]entities.Datasource, 0, len(items))
	for _, raw := range items {
		var ds entities.Datasource
		if err := json.Unmarshal(raw, &ds); err != nil {
			return nil, apperrors.NewInvalidResponseError("cannot parse datasource item", string(raw))
		}
		datasources = append(datasources, ds)
	}
	return datasources, nil
}

// ListActiveInstances pages through a datasource's instances, keeping only
// those still monitored. The active-state filter is applied here, at fetch
// time, independently of any later selection filter.
func (c *Client) ListActiveInstances(ctx context.Context, deviceID, datasourceID int64) ([]entities.InterfaceInstance, error) {
	items, err := FetchAll(ctx, c, fmt.Sprintf(instancesPath, deviceID, datasourceID), c.pageSize)
	if err != nil {
		return nil, err
	}

	var instances []entities.InterfaceInstance
	for _, raw := range items {
		var inst entities.InterfaceInstance
		if err := json.Unmarshal(raw, &inst); err != nil {
			return nil, apperrors.NewInvalidResponseError("cannot parse instance item", string(raw))
		}
		if inst.Active() {
			instances = append(instances, inst)
		}
	}
	return instances, nil
}

// CreateSDT submits a suppression request. The response is validated in
// order: transport failure, HTTP status, JSON shape, upstream status field,
// presence of the SDT id. Only a response passing all checks is a success.
func (c *Client) CreateSDT(ctx context.Context, req entities.SuppressionRequest) (*entities.SDTConfirmation, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, apperrors.NewValidationError("cannot encode suppression request", err)
	}

	authHeader, err := c.signer.Sign(http.MethodPost, sdtPath, payload)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+sdtPath, bytes.NewReader(payload))
	if err != nil {
		return nil, apperrors.NewFetchError("cannot build suppression request", err)
	}
	httpReq.Header.Set("Authorization", authHeader)
	httpReq.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		metrics.RecordUpstreamRequest("sdt", "error", time.Since(started).Seconds())
		return nil, apperrors.NewFetchError("suppression request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamRequest("sdt", "error", time.Since(started).Seconds())
		return nil, apperrors.NewFetchError("cannot read suppression response", err)
	}
	metrics.RecordUpstreamRequest("sdt", statusLabel(resp.StatusCode), time.Since(started).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewFetchErrorWithDetail(
			fmt.Sprintf("HTTP error %d from monitoring API", resp.StatusCode), string(body))
	}

	var envelope struct {
		Status int    `json:"status"`
		Errmsg string `json:"errmsg"`
		Data   struct {
			// Returned as either a JSON string or a number depending on API
			// version, so it is kept raw and normalized below.
			ID json.RawMessage `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewInvalidResponseError("invalid JSON returned from monitoring API", string(body))
	}

	if envelope.Status != 200 || envelope.Errmsg != "OK" {
		return nil, apperrors.NewUpstreamError("monitoring API returned error", string(body))
	}

	sdtID := strings.Trim(string(envelope.Data.ID), `"`)
	if sdtID == "" || sdtID == "null" {
		return nil, apperrors.NewInvalidResponseError("SDT id missing in monitoring API response", string(body))
	}

	c.logger.WithField("sdt_id", sdtID).Info("SDT created")
	return &entities.SDTConfirmation{ID: sdtID, Raw: body}, nil
}

// FetchPage fetches one page of a list resource. Implements the PageFetcher
// port used by FetchAll.
func (c *Client) FetchPage(ctx context.Context, resourcePath string, offset, size int) ([]json.RawMessage, error) {
	query := url.Values{
		"offset": {strconv.Itoa(offset)},
		"size":   {strconv.Itoa(size)},
	}

	body, err := c.get(ctx, resourceLabel(resourcePath), resourcePath, query)
	if err != nil {
		return nil, err
	}

	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, apperrors.NewInvalidResponseError("cannot parse list response", string(body))
	}

	metrics.RecordPageFetched()
	return envelope.Data.Items, nil
}

// get performs one signed GET. The LMv1 signature covers the resource path
// only, never the query string. Each call is issued exactly once; a transient
// failure surfaces to the caller immediately.
func (c *Client) get(ctx context.Context, resource, resourcePath string, query url.Values) ([]byte, error) {
	authHeader, err := c.signer.Sign(http.MethodGet, resourcePath, nil)
	if err != nil {
		return nil, err
	}

	requestURL := c.baseURL + resourcePath
	if len(query) > 0 {
		requestURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	if err != nil {
		return nil, apperrors.NewFetchError("cannot build monitoring API request", err)
	}
	req.Header.Set("Authorization", authHeader)
	req.Header.Set("Content-Type", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordUpstreamRequest(resource, "error", time.Since(started).Seconds())
		return nil, apperrors.NewFetchError("monitoring API request failed", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.RecordUpstreamRequest(resource, "error", time.Since(started).Seconds())
		return nil, apperrors.NewFetchError("cannot read monitoring API response", err)
	}
	metrics.RecordUpstreamRequest(resource, statusLabel(resp.StatusCode), time.Since(started).Seconds())

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewFetchErrorWithDetail(
			fmt.Sprintf("HTTP error %d from monitoring API", resp.StatusCode), string(body))
	}
	return body, nil
}

func statusLabel(code int) string {
	if code == http.StatusOK {
		return "ok"
	}
	return "error"
}

// resourceLabel keeps the upstream metric label low-cardinality.
func resourceLabel(resourcePath string) string {
	switch {
	case strings.HasSuffix(resourcePath, "/instances"):
		return "instances"
	case strings.HasSuffix(resourcePath, "/devicedatasources"):
		return "datasources"
	default:
		return "devices"
	}
}
