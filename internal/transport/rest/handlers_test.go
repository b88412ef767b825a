package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lm-gateway/internal/application/usecases"
	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/services"
	"lm-gateway/internal/infrastructure/adapters"
	"lm-gateway/internal/infrastructure/health"
)

type fakeMonitoringClient struct {
	devices     []entities.Device
	datasources []entities.Datasource
	instances   []entities.InterfaceInstance
	sdt         *entities.SDTConfirmation
	err         error
}

func (f *fakeMonitoringClient) SearchDevicesByName(_ context.Context, _ string) ([]entities.Device, error) {
	return f.devices, f.err
}

func (f *fakeMonitoringClient) ListDeviceDatasources(_ context.Context, _ int64) ([]entities.Datasource, error) {
	return f.datasources, f.err
}

func (f *fakeMonitoringClient) ListActiveInstances(_ context.Context, _, _ int64) ([]entities.InterfaceInstance, error) {
	return f.instances, f.err
}

func (f *fakeMonitoringClient) CreateSDT(_ context.Context, _ entities.SuppressionRequest) (*entities.SDTConfirmation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.sdt, nil
}

type fakeTicketingClient struct{}

func (f *fakeTicketingClient) Token(_ context.Context) (string, error) { return "tok", nil }

func (f *fakeTicketingClient) FindChangeTaskSysID(_ context.Context, _, _ string) (string, error) {
	return "sys-abc", nil
}

func (f *fakeTicketingClient) ListAttachments(_ context.Context, _, _, _ string) ([]entities.Attachment, error) {
	return nil, nil
}

func (f *fakeTicketingClient) DeleteAttachment(_ context.Context, _, _ string) error { return nil }

func (f *fakeTicketingClient) UploadAttachment(_ context.Context, _, _, _ string, _ []byte) (json.RawMessage, error) {
	return json.RawMessage(`{"result":{}}`), nil
}

type fakeCredentialStore struct {
	creds      entities.Credentials
	refreshErr error
}

func (f *fakeCredentialStore) Current() entities.Credentials   { return f.creds }
func (f *fakeCredentialStore) Refresh(_ context.Context) error { return f.refreshErr }

func newTestHandler(client *fakeMonitoringClient, store *fakeCredentialStore) *Handler {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	matcher := services.NewInterfaceMatcher([]string{"Gig", "Ethernet", "Port-channel"})
	interfaceDS := []string{"SNMP_Network_Interfaces"}
	cdpDS := []string{"CDP_Neighbors"}
	healthService := health.NewHealthService(adapters.NewRealClock(), logger)

	return NewHandler(
		usecases.NewSelectInterfacesUseCase(client, matcher, interfaceDS, logger),
		usecases.NewResolveNeighborsUseCase(client, matcher, interfaceDS, cdpDS, ".genpact.com", logger),
		usecases.NewCreateSuppressionUseCase(client, logger),
		usecases.NewReplaceAttachmentUseCase(&fakeTicketingClient{}, logger),
		store,
		healthService,
		logger,
	)
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func TestHandler_DeviceInterfaces(t *testing.T) {
	t.Run("missing device parameter is a validation failure", func(t *testing.T) {
		handler := newTestHandler(&fakeMonitoringClient{}, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		handler.DeviceInterfaces(recorder, httptest.NewRequest(http.MethodGet, DeviceInterfacesPath, nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "VALIDATION", decodeBody(t, recorder)["error_type"])
	})

	t.Run("unknown device maps to 404", func(t *testing.T) {
		handler := newTestHandler(&fakeMonitoringClient{devices: []entities.Device{}}, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		handler.DeviceInterfaces(recorder, httptest.NewRequest(
			http.MethodGet, DeviceInterfacesPath+"?device=ghost", nil))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
		assert.Equal(t, "NOT_FOUND", decodeBody(t, recorder)["error_type"])
	})

	t.Run("returns matched interfaces", func(t *testing.T) {
		client := &fakeMonitoringClient{
			devices:     []entities.Device{{ID: 42, Name: "SW-CORE-1"}},
			datasources: []entities.Datasource{{ID: 7, DataSourceName: "SNMP_Network_Interfaces"}},
			instances: []entities.InterfaceInstance{
				{ID: 100, DisplayName: "GigabitEthernet0/1", Description: "uplink"},
			},
		}
		handler := newTestHandler(client, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		handler.DeviceInterfaces(recorder, httptest.NewRequest(
			http.MethodGet, DeviceInterfacesPath+"?device=SW-CORE-1", nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, float64(42), body["deviceId"])
	})

	t.Run("device may arrive in the JSON body", func(t *testing.T) {
		client := &fakeMonitoringClient{
			devices:     []entities.Device{{ID: 42, Name: "SW-CORE-1"}},
			datasources: []entities.Datasource{{ID: 7, DataSourceName: "SNMP_Network_Interfaces"}},
		}
		handler := newTestHandler(client, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, DeviceInterfacesPath,
			strings.NewReader(`{"device":"SW-CORE-1"}`))
		handler.DeviceInterfaces(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestHandler_Neighbors(t *testing.T) {
	t.Run("missing parameters fail validation", func(t *testing.T) {
		handler := newTestHandler(&fakeMonitoringClient{}, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		handler.Neighbors(recorder, httptest.NewRequest(http.MethodGet, NeighborsPath+"?device_id=42", nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("non numeric device_id fails validation", func(t *testing.T) {
		handler := newTestHandler(&fakeMonitoringClient{}, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		handler.Neighbors(recorder, httptest.NewRequest(
			http.MethodGet, NeighborsPath+"?device_id=abc&interface_name=Gi0/1", nil))

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("missing CDP datasource maps to 404", func(t *testing.T) {
		client := &fakeMonitoringClient{
			datasources: []entities.Datasource{{ID: 7, DataSourceName: "SNMP_Network_Interfaces"}},
		}
		handler := newTestHandler(client, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		handler.Neighbors(recorder, httptest.NewRequest(
			http.MethodGet, NeighborsPath+"?device_id=42&interface_name=Gi0/1", nil))

		assert.Equal(t, http.StatusNotFound, recorder.Code)
	})
}

func TestHandler_Suppression(t *testing.T) {
	t.Run("creates one suppression", func(t *testing.T) {
		client := &fakeMonitoringClient{sdt: &entities.SDTConfirmation{ID: "SDT_1"}}
		handler := newTestHandler(client, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, SuppressionPath, strings.NewReader(
			`{"interface_id":12345,"interface_name":"Gi0/1","start_time":"2025-03-10 09:00","end_time":"2025-03-10 10:00"}`))
		handler.Suppression(recorder, request)

		require.Equal(t, http.StatusOK, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, "success", body["status"])
		assert.Equal(t, "SDT_1", body["sdt_id"])
	})

	t.Run("malformed time maps to 400", func(t *testing.T) {
		handler := newTestHandler(&fakeMonitoringClient{}, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, SuppressionPath, strings.NewReader(
			`{"interface_id":"12345","interface_name":"Gi0/1","start_time":"bogus","end_time":"2025-03-10 10:00"}`))
		handler.Suppression(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.Equal(t, "INVALID_TIME_FORMAT", decodeBody(t, recorder)["error_type"])
	})

	t.Run("upstream rejection maps to 502", func(t *testing.T) {
		client := &fakeMonitoringClient{err: apperrors.NewUpstreamError("rejected", `{"status":1403}`)}
		handler := newTestHandler(client, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, SuppressionPath, strings.NewReader(
			`{"interface_id":"12345","interface_name":"Gi0/1","start_time":"2025-03-10 09:00","end_time":"2025-03-10 10:00"}`))
		handler.Suppression(recorder, request)

		assert.Equal(t, http.StatusBadGateway, recorder.Code)
	})
}

func TestHandler_BulkSuppression(t *testing.T) {
	t.Run("mixed outcomes yield 207", func(t *testing.T) {
		client := &fakeMonitoringClient{sdt: &entities.SDTConfirmation{ID: "SDT_1"}}
		handler := newTestHandler(client, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, BulkSuppressionPath, strings.NewReader(
			`{"suppressions":[
				{"interface_id":"100","start_time":"2025-03-10 09:00","end_time":"2025-03-10 10:00"},
				{"interface_id":"","start_time":"2025-03-10 09:00","end_time":"2025-03-10 10:00"}
			]}`))
		handler.BulkSuppression(recorder, request)

		require.Equal(t, http.StatusMultiStatus, recorder.Code)
		body := decodeBody(t, recorder)
		assert.Equal(t, "partial", body["status"])
		assert.Equal(t, float64(1), body["success_count"])
		assert.Equal(t, float64(1), body["error_count"])
	})

	t.Run("empty batch fails validation", func(t *testing.T) {
		handler := newTestHandler(&fakeMonitoringClient{}, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, BulkSuppressionPath, strings.NewReader(`{"suppressions":[]}`))
		handler.BulkSuppression(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("numeric interface ids are accepted", func(t *testing.T) {
		client := &fakeMonitoringClient{sdt: &entities.SDTConfirmation{ID: "SDT_1"}}
		handler := newTestHandler(client, &fakeCredentialStore{})

		recorder := httptest.NewRecorder()
		request := httptest.NewRequest(http.MethodPost, BulkSuppressionPath, strings.NewReader(
			`{"suppressions":[{"interface_id":100,"start_time":"2025-03-10 09:00","end_time":"2025-03-10 10:00"}]}`))
		handler.BulkSuppression(recorder, request)

		assert.Equal(t, http.StatusOK, recorder.Code)
	})
}

func TestHandler_Secrets(t *testing.T) {
	t.Run("test-secrets returns masked values only", func(t *testing.T) {
		store := &fakeCredentialStore{creds: entities.Credentials{
			LMAccessID: "abcdefghijkl",
		}}
		handler := newTestHandler(&fakeMonitoringClient{}, store)

		recorder := httptest.NewRecorder()
		handler.TestSecrets(recorder, httptest.NewRequest(http.MethodGet, TestSecretsPath, nil))

		require.Equal(t, http.StatusOK, recorder.Code)
		secrets := decodeBody(t, recorder)["secrets"].(map[string]interface{})
		assert.Equal(t, "abcd****ijkl", secrets["lm_access_id"])
		assert.Equal(t, "NOT SET", secrets["lm_access_key"])
	})

	t.Run("refresh failure keeps the endpoint honest", func(t *testing.T) {
		store := &fakeCredentialStore{
			refreshErr: apperrors.NewCredentialError("vault unreachable", nil),
		}
		handler := newTestHandler(&fakeMonitoringClient{}, store)

		recorder := httptest.NewRecorder()
		handler.RefreshSecrets(recorder, httptest.NewRequest(http.MethodPost, RefreshSecretsPath, nil))

		assert.Equal(t, http.StatusServiceUnavailable, recorder.Code)
	})
}

func TestStatusForErrorType(t *testing.T) {
	tests := []struct {
		errorType apperrors.ErrorType
		want      int
	}{
		{apperrors.ErrorTypeValidation, http.StatusBadRequest},
		{apperrors.ErrorTypeInvalidTimeFormat, http.StatusBadRequest},
		{apperrors.ErrorTypeAmbiguousMatch, http.StatusBadRequest},
		{apperrors.ErrorTypeNotFound, http.StatusNotFound},
		{apperrors.ErrorTypeNoMatchingDatasource, http.StatusNotFound},
		{apperrors.ErrorTypeFetch, http.StatusBadGateway},
		{apperrors.ErrorTypeInvalidResponse, http.StatusBadGateway},
		{apperrors.ErrorTypeUpstream, http.StatusBadGateway},
		{apperrors.ErrorTypeCredential, http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(string(tt.errorType), func(t *testing.T) {
			assert.Equal(t, tt.want, statusForErrorType(tt.errorType))
		})
	}
}
