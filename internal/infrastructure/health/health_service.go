package health

import (
	"encoding/json"
	"fmt"
	"lm-gateway/internal/domain/interfaces"
	"net/http"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// HealthService tracks the gateway's runtime condition and serves it over
// HTTP. Upstream health reflects the outcome of the most recent monitoring
// API call; before any call has been made the gateway reports healthy.
type HealthService struct {
	mu                sync.RWMutex
	clock             interfaces.Clock
	logger            *logrus.Logger
	startTime         time.Time
	upstreamHealthy   bool
	upstreamError     error
	credentialsLoaded bool
	processedRequests int64
	failedRequests    int64
}

// HealthStatus represents health check status
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// HealthResponse is the health check response struct
type HealthResponse struct {
	Status     HealthStatus           `json:"status"`
	Timestamp  string                 `json:"timestamp"`
	LastCheck  string                 `json:"last_check"`
	Components map[string]interface{} `json:"components"`
	Statistics map[string]interface{} `json:"statistics"`
}

// NewHealthService creates a new HealthService
func NewHealthService(clock interfaces.Clock, logger *logrus.Logger) *HealthService {
	return &HealthService{
		clock:           clock,
		logger:          logger,
		startTime:       clock.Now(),
		upstreamHealthy: true,
	}
}

// UpdateUpstreamHealth records the outcome of the latest monitoring API call.
func (h *HealthService) UpdateUpstreamHealth(healthy bool, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.upstreamHealthy = healthy
	h.upstreamError = err
}

// SetCredentialsLoaded records whether the secret store delivered a full
// credential set.
func (h *HealthService) SetCredentialsLoaded(loaded bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.credentialsLoaded = loaded
}

// IncrementProcessedRequests increments the handled request count.
func (h *HealthService) IncrementProcessedRequests() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.processedRequests++
}

// IncrementFailedRequests increments the failed request count.
func (h *HealthService) IncrementFailedRequests() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.failedRequests++
}

// ServeHTTP handles the HTTP health check endpoint
func (h *HealthService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := h.buildHealthResponse()

	statusCode := http.StatusOK
	if response.Status == StatusUnhealthy {
		statusCode = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.WithError(err).Error("failed to encode health check response")
	}
}

// buildHealthResponse constructs the health check response
func (h *HealthService) buildHealthResponse() HealthResponse {
	h.mu.RLock()
	defer h.mu.RUnlock()

	now := h.clock.Now()

	status := h.determineOverallStatus()

	components := map[string]interface{}{
		"monitoring_api": map[string]interface{}{
			"healthy": h.upstreamHealthy,
			"error":   h.formatError(h.upstreamError),
		},
		"credentials": map[string]interface{}{
			"loaded": h.credentialsLoaded,
		},
	}

	statistics := map[string]interface{}{
		"processed_requests": h.processedRequests,
		"failed_requests":    h.failedRequests,
		"uptime":             h.formatUptime(now.Sub(h.startTime)),
	}

	return HealthResponse{
		Status:     status,
		Timestamp:  now.Format(time.RFC3339),
		LastCheck:  now.Format(time.RFC3339),
		Components: components,
		Statistics: statistics,
	}
}

// determineOverallStatus determines the overall health status
func (h *HealthService) determineOverallStatus() HealthStatus {
	if !h.credentialsLoaded {
		return StatusUnhealthy
	}

	if !h.upstreamHealthy {
		return StatusDegraded
	}

	// Half or more of the handled requests failing also degrades the gateway.
	if h.processedRequests > 0 && h.failedRequests > 0 {
		failureRate := float64(h.failedRequests) / float64(h.processedRequests+h.failedRequests)
		if failureRate >= 0.5 {
			return StatusDegraded
		}
	}

	return StatusHealthy
}

// formatError formats an error to string
func (h *HealthService) formatError(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// formatUptime formats uptime duration to human-readable format
func (h *HealthService) formatUptime(duration time.Duration) string {
	days := int(duration.Hours()) / 24
	hours := int(duration.Hours()) % 24
	minutes := int(duration.Minutes()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd%dh%dm", days, hours, minutes)
	} else if hours > 0 {
		return fmt.Sprintf("%dh%dm", hours, minutes)
	} else {
		return fmt.Sprintf("%dm", minutes)
	}
}
