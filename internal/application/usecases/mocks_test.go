package usecases

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"lm-gateway/internal/domain/entities"
)

// Mock implementations of the outbound ports.

type MockMonitoringClient struct {
	mock.Mock
}

func (m *MockMonitoringClient) SearchDevicesByName(ctx context.Context, displayName string) ([]entities.Device, error) {
	args := m.Called(ctx, displayName)
	return args.Get(0).([]entities.Device), args.Error(1)
}

func (m *MockMonitoringClient) ListDeviceDatasources(ctx context.Context, deviceID int64) ([]entities.Datasource, error) {
	args := m.Called(ctx, deviceID)
	return args.Get(0).([]entities.Datasource), args.Error(1)
}

func (m *MockMonitoringClient) ListActiveInstances(ctx context.Context, deviceID, datasourceID int64) ([]entities.InterfaceInstance, error) {
	args := m.Called(ctx, deviceID, datasourceID)
	return args.Get(0).([]entities.InterfaceInstance), args.Error(1)
}

func (m *MockMonitoringClient) CreateSDT(ctx context.Context, req entities.SuppressionRequest) (*entities.SDTConfirmation, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.SDTConfirmation), args.Error(1)
}

type MockTicketingClient struct {
	mock.Mock
}

func (m *MockTicketingClient) Token(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

func (m *MockTicketingClient) FindChangeTaskSysID(ctx context.Context, token, number string) (string, error) {
	args := m.Called(ctx, token, number)
	return args.String(0), args.Error(1)
}

func (m *MockTicketingClient) ListAttachments(ctx context.Context, token, tableSysID, fileName string) ([]entities.Attachment, error) {
	args := m.Called(ctx, token, tableSysID, fileName)
	return args.Get(0).([]entities.Attachment), args.Error(1)
}

func (m *MockTicketingClient) DeleteAttachment(ctx context.Context, token, attachmentSysID string) error {
	args := m.Called(ctx, token, attachmentSysID)
	return args.Error(0)
}

func (m *MockTicketingClient) UploadAttachment(ctx context.Context, token, tableSysID, fileName string, payload []byte) (json.RawMessage, error) {
	args := m.Called(ctx, token, tableSysID, fileName, payload)
	return args.Get(0).(json.RawMessage), args.Error(1)
}

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testKeywords() []string {
	return []string{
		"Gig", "Ethernet", "Port-channel", "Serial", "T1",
		"StackSub", "StackPort", "tunnel", "ae", "interface",
	}
}
