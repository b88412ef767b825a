package rest

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"lm-gateway/internal/infrastructure/config"
	"lm-gateway/internal/infrastructure/health"
	"lm-gateway/internal/infrastructure/metrics"
)

// API endpoint paths. Names are kept as deployed; existing callers depend on
// them verbatim.
const (
	DeviceInterfacesPath  = "/api/Lm_Device_Interfaces"
	NeighborsPath         = "/api/Lm_Get_Neighbors"
	SuppressionPath       = "/api/Lm_Alert_Suppression"
	BulkSuppressionPath   = "/api/Lm_Bulk_Alert_Suppression"
	ReplaceAttachmentPath = "/api/Snow_Replace_Attachment"
	TestSecretsPath       = "/api/test-secrets"
	RefreshSecretsPath    = "/api/refresh-secrets"
	MetricsPath           = "/metrics"
)

// NewServer wires the routes and middleware into an http.Server bound to the
// configured port.
func NewServer(cfg config.ServerConfig, handler *Handler, healthService *health.HealthService, logger *logrus.Logger) *http.Server {
	mux := http.NewServeMux()

	mux.Handle(DeviceInterfacesPath, methods(handler.DeviceInterfaces, http.MethodGet, http.MethodPost))
	mux.Handle(NeighborsPath, methods(handler.Neighbors, http.MethodGet, http.MethodPost))
	mux.Handle(SuppressionPath, methods(handler.Suppression, http.MethodPost))
	mux.Handle(BulkSuppressionPath, methods(handler.BulkSuppression, http.MethodPost))
	mux.Handle(ReplaceAttachmentPath, methods(handler.ReplaceAttachment, http.MethodPost))
	mux.Handle(TestSecretsPath, methods(handler.TestSecrets, http.MethodGet))
	mux.Handle(RefreshSecretsPath, methods(handler.RefreshSecrets, http.MethodPost))
	mux.Handle(MetricsPath, promhttp.Handler())

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		healthService.ServeHTTP(w, r)
	})

	return &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: instrument(mux, healthService, logger),
	}
}

// methods restricts a handler to the given HTTP methods.
func methods(next http.HandlerFunc, allowed ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, method := range allowed {
			if r.Method == method {
				next(w, r)
				return
			}
		}
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
	})
}

// statusRecorder captures the response status for logging and metrics.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument tags every request with an id and records its outcome in the
// log, the metrics and the health counters.
func instrument(next http.Handler, healthService *health.HealthService, logger *logrus.Logger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)

		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		started := time.Now()
		next.ServeHTTP(recorder, r)
		elapsed := time.Since(started)

		// The health endpoint and the metrics scrape are not counted as
		// gateway work.
		if r.URL.Path == "/" || r.URL.Path == MetricsPath {
			return
		}

		metrics.RecordHTTPRequest(r.URL.Path, strconv.Itoa(recorder.status), elapsed.Seconds())
		healthService.IncrementProcessedRequests()
		if recorder.status >= http.StatusBadRequest {
			healthService.IncrementFailedRequests()
		}

		logger.WithFields(logrus.Fields{
			"request_id": requestID,
			"method":     r.Method,
			"path":       r.URL.Path,
			"status":     recorder.status,
			"duration":   elapsed.String(),
		}).Info("Request handled")
	})
}
