package usecases

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/services"
)

func newResolveNeighborsUseCase(client *MockMonitoringClient) *ResolveNeighborsUseCase {
	return NewResolveNeighborsUseCase(
		client,
		services.NewInterfaceMatcher(testKeywords()),
		[]string{"SNMP_Network_Interfaces_acc_sw", "SNMP_Network_Interfaces"},
		[]string{"CDP_Neighbors"},
		".genpact.com",
		testLogger(),
	)
}

func cdpInstance(id int64, localInterface, neighborDevice, neighborPort string) entities.InterfaceInstance {
	return entities.InterfaceInstance{
		ID: id,
		AutoProperties: []entities.AutoProperty{
			{Name: entities.AutoPropCDPInterfaceName, Value: localInterface},
			{Name: entities.AutoPropCDPCacheDeviceID, Value: neighborDevice},
			{Name: entities.AutoPropCDPCacheDevicePort, Value: neighborPort},
		},
	}
}

func TestResolveNeighborsUseCase_Execute(t *testing.T) {
	t.Run("missing CDP datasource yields not found", func(t *testing.T) {
		client := new(MockMonitoringClient)
		client.On("ListDeviceDatasources", mock.Anything, int64(42)).Return(
			[]entities.Datasource{{ID: 7, DataSourceName: "SNMP_Network_Interfaces"}}, nil)

		uc := newResolveNeighborsUseCase(client)
		_, err := uc.Execute(context.Background(), ResolveNeighborsInput{DeviceID: 42, InterfaceName: "Gi0/1"})

		assert.True(t, apperrors.IsNotFoundError(err))
	})

	t.Run("zero neighbors is a successful empty result", func(t *testing.T) {
		client := new(MockMonitoringClient)
		client.On("ListDeviceDatasources", mock.Anything, int64(42)).Return(
			[]entities.Datasource{{ID: 20, DataSourceName: "CDP_Neighbors"}}, nil)
		client.On("ListActiveInstances", mock.Anything, int64(42), int64(20)).Return(
			[]entities.InterfaceInstance{
				cdpInstance(1, "Gi0/5", "other-device", "Gi0/9"),
			}, nil)

		uc := newResolveNeighborsUseCase(client)
		output, err := uc.Execute(context.Background(), ResolveNeighborsInput{DeviceID: 42, InterfaceName: "Gi0/1"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.NeighborsFound)
		assert.Empty(t, output.NeighborDetails)
	})

	t.Run("resolves a neighbor interface one hop away", func(t *testing.T) {
		client := new(MockMonitoringClient)
		client.On("ListDeviceDatasources", mock.Anything, int64(42)).Return(
			[]entities.Datasource{{ID: 20, DataSourceName: "CDP_Neighbors"}}, nil)
		client.On("ListActiveInstances", mock.Anything, int64(42), int64(20)).Return(
			[]entities.InterfaceInstance{
				cdpInstance(1, "Gi0/1", "sw-access-2.genpact.com", "Gi0/24"),
			}, nil)
		client.On("SearchDevicesByName", mock.Anything, "sw-access-2").Return(
			[]entities.Device{{ID: 77, Name: "sw-access-2", DisplayName: "sw-access-2"}}, nil)
		client.On("ListDeviceDatasources", mock.Anything, int64(77)).Return(
			[]entities.Datasource{{ID: 30, DataSourceName: "SNMP_Network_Interfaces"}}, nil)
		client.On("ListActiveInstances", mock.Anything, int64(77), int64(30)).Return(
			[]entities.InterfaceInstance{
				{ID: 900, Name: "Gi0/23", DisplayName: "Gi0/23"},
				{ID: 901, Name: "Gi0/24", DisplayName: "GigabitEthernet0/24"},
			}, nil)

		uc := newResolveNeighborsUseCase(client)
		output, err := uc.Execute(context.Background(), ResolveNeighborsInput{DeviceID: 42, InterfaceName: "gi0/1"})

		require.NoError(t, err)
		require.Equal(t, 1, output.NeighborsFound)

		record := output.NeighborDetails[0]
		assert.Equal(t, "Gi0/1", record.LocalInterface)
		assert.Equal(t, "sw-access-2", record.NeighborDeviceName)
		assert.Equal(t, "Gi0/24", record.NeighborInterfaceName)
		require.NotNil(t, record.NeighborDeviceID)
		assert.Equal(t, int64(77), *record.NeighborDeviceID)
		require.NotNil(t, record.NeighborInterfaceID)
		assert.Equal(t, int64(901), *record.NeighborInterfaceID)
		assert.Equal(t, "GigabitEthernet0/24", record.NeighborInterfaceDisplayName)
		assert.Equal(t, int64(30), record.DatasourceID)
		assert.Equal(t, "SNMP_Network_Interfaces", record.DatasourceName)
		assert.Empty(t, record.LookupMessage)

		client.AssertExpectations(t)
	})

	t.Run("falls back to bare hostname when the FQDN is not registered", func(t *testing.T) {
		client := new(MockMonitoringClient)
		client.On("ListDeviceDatasources", mock.Anything, int64(42)).Return(
			[]entities.Datasource{{ID: 20, DataSourceName: "CDP_Neighbors"}}, nil)
		client.On("ListActiveInstances", mock.Anything, int64(42), int64(20)).Return(
			[]entities.InterfaceInstance{
				cdpInstance(1, "Gi0/1", "rtr-wan-1.example.net", "Serial0/0"),
			}, nil)
		client.On("SearchDevicesByName", mock.Anything, "rtr-wan-1.example.net").Return(
			[]entities.Device{}, nil)
		client.On("SearchDevicesByName", mock.Anything, "rtr-wan-1").Return(
			[]entities.Device{{ID: 88, Name: "rtr-wan-1"}}, nil)
		client.On("ListDeviceDatasources", mock.Anything, int64(88)).Return(
			[]entities.Datasource{{ID: 31, DataSourceName: "SNMP_Network_Interfaces"}}, nil)
		client.On("ListActiveInstances", mock.Anything, int64(88), int64(31)).Return(
			[]entities.InterfaceInstance{{ID: 950, Name: "Serial0/0", DisplayName: "Serial0/0"}}, nil)

		uc := newResolveNeighborsUseCase(client)
		output, err := uc.Execute(context.Background(), ResolveNeighborsInput{DeviceID: 42, InterfaceName: "Gi0/1"})

		require.NoError(t, err)
		require.Equal(t, 1, output.NeighborsFound)
		record := output.NeighborDetails[0]
		require.NotNil(t, record.NeighborDeviceID)
		assert.Equal(t, int64(88), *record.NeighborDeviceID)
	})

	t.Run("unmonitored neighbor yields a record with a lookup message", func(t *testing.T) {
		client := new(MockMonitoringClient)
		client.On("ListDeviceDatasources", mock.Anything, int64(42)).Return(
			[]entities.Datasource{{ID: 20, DataSourceName: "CDP_Neighbors"}}, nil)
		client.On("ListActiveInstances", mock.Anything, int64(42), int64(20)).Return(
			[]entities.InterfaceInstance{
				cdpInstance(1, "Gi0/1", "unmanaged-sw", "Gi0/48"),
			}, nil)
		client.On("SearchDevicesByName", mock.Anything, "unmanaged-sw").Return(
			[]entities.Device{}, nil)

		uc := newResolveNeighborsUseCase(client)
		output, err := uc.Execute(context.Background(), ResolveNeighborsInput{DeviceID: 42, InterfaceName: "Gi0/1"})

		require.NoError(t, err)
		require.Equal(t, 1, output.NeighborsFound)
		record := output.NeighborDetails[0]
		assert.Nil(t, record.NeighborDeviceID)
		assert.Nil(t, record.NeighborInterfaceID)
		assert.Contains(t, record.LookupMessage, "unmanaged-sw")
	})

	t.Run("only the first CDP datasource is consulted", func(t *testing.T) {
		client := new(MockMonitoringClient)
		client.On("ListDeviceDatasources", mock.Anything, int64(42)).Return(
			[]entities.Datasource{
				{ID: 20, DataSourceName: "CDP_Neighbors"},
				{ID: 21, DataSourceName: "CDP_Neighbors"},
			}, nil)
		client.On("ListActiveInstances", mock.Anything, int64(42), int64(20)).Return(
			[]entities.InterfaceInstance{}, nil)

		uc := newResolveNeighborsUseCase(client)
		output, err := uc.Execute(context.Background(), ResolveNeighborsInput{DeviceID: 42, InterfaceName: "Gi0/1"})

		require.NoError(t, err)
		assert.Equal(t, 0, output.NeighborsFound)
		client.AssertNotCalled(t, "ListActiveInstances", mock.Anything, int64(42), int64(21))
	})

	t.Run("fetch failure during neighbor lookup fails the call", func(t *testing.T) {
		client := new(MockMonitoringClient)
		client.On("ListDeviceDatasources", mock.Anything, int64(42)).Return(
			[]entities.Datasource{{ID: 20, DataSourceName: "CDP_Neighbors"}}, nil)
		client.On("ListActiveInstances", mock.Anything, int64(42), int64(20)).Return(
			[]entities.InterfaceInstance{
				cdpInstance(1, "Gi0/1", "sw-access-2", "Gi0/24"),
			}, nil)
		client.On("SearchDevicesByName", mock.Anything, "sw-access-2").Return(
			[]entities.Device(nil), apperrors.NewFetchError("device search failed", nil))

		uc := newResolveNeighborsUseCase(client)
		_, err := uc.Execute(context.Background(), ResolveNeighborsInput{DeviceID: 42, InterfaceName: "Gi0/1"})

		assert.True(t, apperrors.IsFetchError(err))
	})
}
