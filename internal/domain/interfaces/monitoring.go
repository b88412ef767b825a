package interfaces

import (
	"context"
	"encoding/json"

	"lm-gateway/internal/domain/entities"
)

// MonitoringClient is the outbound port to the monitoring platform's REST
// API. Implementations perform blocking I/O with a finite timeout and return
// domain errors from the FETCH / INVALID_RESPONSE / UPSTREAM taxonomy.
type MonitoringClient interface {
	// SearchDevicesByName queries devices with an exact display-name filter.
	// Zero and multiple results are returned as-is; deciding between them is
	// the caller's policy.
	SearchDevicesByName(ctx context.Context, displayName string) ([]entities.Device, error)

	// ListDeviceDatasources pages through every datasource of a device.
	ListDeviceDatasources(ctx context.Context, deviceID int64) ([]entities.Datasource, error)

	// ListActiveInstances pages through a datasource's instances, discarding
	// any with stopMonitoring set. The active-state filter is applied at fetch
	// time, independently of any later selection filter.
	ListActiveInstances(ctx context.Context, deviceID, datasourceID int64) ([]entities.InterfaceInstance, error)

	// CreateSDT submits a suppression request and returns the created SDT.
	CreateSDT(ctx context.Context, req entities.SuppressionRequest) (*entities.SDTConfirmation, error)
}

// PageFetcher fetches one page of a list resource. An empty page is the end
// signal; transport and HTTP failures surface as errors.
type PageFetcher interface {
	FetchPage(ctx context.Context, resourcePath string, offset, size int) ([]json.RawMessage, error)
}

// RequestSigner produces the Authorization header value for a monitoring API
// request. Deterministic for a fixed clock.
type RequestSigner interface {
	Sign(verb, resourcePath string, body []byte) (string, error)
}
