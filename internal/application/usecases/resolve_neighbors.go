package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/interfaces"
	"lm-gateway/internal/domain/services"
)

// ResolveNeighborsUseCase correlates a local interface with its CDP-reported
// neighbors and resolves each neighbor's own interface id on the neighbor
// device. Resolution is bounded to exactly one hop: a neighbor's neighbors
// are never traversed.
type ResolveNeighborsUseCase struct {
	client               interfaces.MonitoringClient
	matcher              *services.InterfaceMatcher
	interfaceDatasources []string
	cdpDatasources       []string
	domainSuffix         string
	logger               *logrus.Logger
}

// NewResolveNeighborsUseCase creates a new ResolveNeighborsUseCase.
func NewResolveNeighborsUseCase(
	client interfaces.MonitoringClient,
	matcher *services.InterfaceMatcher,
	interfaceDatasources []string,
	cdpDatasources []string,
	domainSuffix string,
	logger *logrus.Logger,
) *ResolveNeighborsUseCase {
	return &ResolveNeighborsUseCase{
		client:               client,
		matcher:              matcher,
		interfaceDatasources: interfaceDatasources,
		cdpDatasources:       cdpDatasources,
		domainSuffix:         domainSuffix,
		logger:               logger,
	}
}

// ResolveNeighborsInput is the use case input.
type ResolveNeighborsInput struct {
	DeviceID      int64
	InterfaceName string
}

// ResolveNeighborsOutput is the use case output. Zero neighbors found is a
// successful outcome, distinct from the CDP datasource missing entirely.
type ResolveNeighborsOutput struct {
	DeviceID        int64                     `json:"device_id"`
	InterfaceName   string                    `json:"interface_name"`
	NeighborsFound  int                       `json:"neighbors_found"`
	NeighborDetails []entities.NeighborRecord `json:"neighbor_details"`
}

// Execute scans the device's CDP instances for entries whose local interface
// matches and resolves each discovered neighbor. Unresolvable neighbors yield
// records with a lookup message, never a request failure; only a missing CDP
// datasource or an unexpected fetch error fails the call.
func (uc *ResolveNeighborsUseCase) Execute(ctx context.Context, input ResolveNeighborsInput) (*ResolveNeighborsOutput, error) {
	datasources, err := uc.client.ListDeviceDatasources(ctx, input.DeviceID)
	if err != nil {
		return nil, err
	}

	cdp := filterDatasourcesByName(datasources, uc.cdpDatasources)
	if len(cdp) == 0 {
		return nil, apperrors.NewNotFoundError("CDP neighbors datasource not found for this device")
	}

	// Multiple CDP datasources are possible; only the first is consulted.
	cdpDatasource := cdp[0]

	instances, err := uc.client.ListActiveInstances(ctx, input.DeviceID, cdpDatasource.ID)
	if err != nil {
		return nil, err
	}

	records := []entities.NeighborRecord{}
	for _, inst := range instances {
		localInterface, ok := inst.AutoProperty(entities.AutoPropCDPInterfaceName)
		if !ok || !uc.matcher.NamesEquivalent(localInterface, input.InterfaceName) {
			continue
		}

		neighborDevice, _ := inst.AutoProperty(entities.AutoPropCDPCacheDeviceID)
		neighborDevice = strings.TrimSuffix(neighborDevice, uc.domainSuffix)
		neighborPort, _ := inst.AutoProperty(entities.AutoPropCDPCacheDevicePort)

		uc.logger.WithFields(logrus.Fields{
			"local_interface":    localInterface,
			"neighbor_device":    neighborDevice,
			"neighbor_interface": neighborPort,
		}).Info("CDP neighbor found")

		record := entities.NeighborRecord{
			LocalInterface:        localInterface,
			NeighborDeviceName:    neighborDevice,
			NeighborInterfaceName: neighborPort,
		}

		lookup, err := uc.resolveNeighborInterface(ctx, neighborDevice, neighborPort)
		if err != nil {
			return nil, err
		}

		if lookup.Status == entities.NeighborFound {
			deviceID := lookup.DeviceID
			interfaceID := lookup.InterfaceID
			record.NeighborDeviceID = &deviceID
			record.NeighborInterfaceID = &interfaceID
			record.NeighborInterfaceDisplayName = lookup.InterfaceDisplayName
			record.DatasourceID = lookup.DatasourceID
			record.DatasourceName = lookup.DatasourceName
		} else {
			record.LookupMessage = lookup.Message
		}

		records = append(records, record)
	}

	return &ResolveNeighborsOutput{
		DeviceID:        input.DeviceID,
		InterfaceName:   input.InterfaceName,
		NeighborsFound:  len(records),
		NeighborDetails: records,
	}, nil
}

// neighborLookup is the outcome of resolving one neighbor's interface.
type neighborLookup struct {
	Status               entities.NeighborStatus
	DeviceID             int64
	DeviceName           string
	InterfaceID          int64
	InterfaceName        string
	InterfaceDisplayName string
	DatasourceID         int64
	DatasourceName       string
	Message              string
}

// resolveNeighborInterface finds the neighbor device and the instance id of
// the reported port on it. A neighbor that is not monitored is an expected
// not_found outcome; only fetch errors propagate.
func (uc *ResolveNeighborsUseCase) resolveNeighborInterface(ctx context.Context, deviceName, interfaceName string) (neighborLookup, error) {
	devices, err := uc.client.SearchDevicesByName(ctx, deviceName)
	if err != nil {
		return neighborLookup{}, err
	}

	// CDP reports FQDNs for devices registered by bare hostname.
	if len(devices) == 0 && strings.Contains(deviceName, ".") {
		hostname := deviceName[:strings.Index(deviceName, ".")]
		devices, err = uc.client.SearchDevicesByName(ctx, hostname)
		if err != nil {
			return neighborLookup{}, err
		}
	}

	if len(devices) == 0 {
		return neighborLookup{
			Status:  entities.NeighborNotFound,
			Message: fmt.Sprintf("neighbor device %q not found in monitoring", deviceName),
		}, nil
	}

	device := devices[0]

	datasources, err := uc.client.ListDeviceDatasources(ctx, device.ID)
	if err != nil {
		return neighborLookup{}, err
	}

	filtered := filterDatasourcesByName(datasources, uc.interfaceDatasources)
	if len(filtered) == 0 {
		return neighborLookup{
			Status:  entities.NeighborNotFound,
			Message: fmt.Sprintf("no interface datasources found on neighbor device %q", device.Name),
		}, nil
	}

	// Datasources and instances are scanned in upstream order; the first
	// equivalent instance wins and ends the search.
	for _, ds := range filtered {
		instances, err := uc.client.ListActiveInstances(ctx, device.ID, ds.ID)
		if err != nil {
			return neighborLookup{}, err
		}

		for _, inst := range instances {
			if uc.matcher.NamesEquivalent(interfaceName, inst.Name) ||
				uc.matcher.NamesEquivalent(interfaceName, inst.DisplayName) {
				return neighborLookup{
					Status:               entities.NeighborFound,
					DeviceID:             device.ID,
					DeviceName:           device.Name,
					InterfaceID:          inst.ID,
					InterfaceName:        inst.Name,
					InterfaceDisplayName: inst.DisplayName,
					DatasourceID:         ds.ID,
					DatasourceName:       ds.DataSourceName,
				}, nil
			}
		}
	}

	return neighborLookup{
		Status:  entities.NeighborNotFound,
		Message: fmt.Sprintf("interface %q not found on neighbor device %q", interfaceName, device.Name),
	}, nil
}
