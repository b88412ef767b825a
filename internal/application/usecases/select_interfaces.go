package usecases

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/interfaces"
	"lm-gateway/internal/domain/services"
)

// SelectInterfacesUseCase resolves a device by display name and returns its
// keyword-matched active interfaces, grouped by allow-listed datasource.
type SelectInterfacesUseCase struct {
	client               interfaces.MonitoringClient
	matcher              *services.InterfaceMatcher
	interfaceDatasources []string
	logger               *logrus.Logger
}

// NewSelectInterfacesUseCase creates a new SelectInterfacesUseCase.
func NewSelectInterfacesUseCase(
	client interfaces.MonitoringClient,
	matcher *services.InterfaceMatcher,
	interfaceDatasources []string,
	logger *logrus.Logger,
) *SelectInterfacesUseCase {
	return &SelectInterfacesUseCase{
		client:               client,
		matcher:              matcher,
		interfaceDatasources: interfaceDatasources,
		logger:               logger,
	}
}

// SelectInterfacesInput is the use case input.
type SelectInterfacesInput struct {
	DeviceName string
}

// DatasourceInterfaces groups the matched interfaces of one datasource. A
// datasource stays in the result even when nothing matched; the zero count is
// informative.
type DatasourceInterfaces struct {
	DatasourceID   int64                       `json:"dsId"`
	DatasourceName string                      `json:"dsName"`
	Interfaces     []entities.InterfaceSummary `json:"interfaces"`
	TotalMatched   int                         `json:"totalMatched"`
}

// SelectInterfacesOutput is the use case output.
type SelectInterfacesOutput struct {
	DeviceID    int64                  `json:"deviceId"`
	DeviceName  string                 `json:"deviceName"`
	Datasources []DatasourceInterfaces `json:"datasources"`
}

// Execute resolves the device and collects its matching interfaces. Expected
// business conditions surface as typed errors: NOT_FOUND, AMBIGUOUS_MATCH,
// NO_MATCHING_DATASOURCE.
func (uc *SelectInterfacesUseCase) Execute(ctx context.Context, input SelectInterfacesInput) (*SelectInterfacesOutput, error) {
	device, err := findSingleDevice(ctx, uc.client, input.DeviceName)
	if err != nil {
		return nil, err
	}

	uc.logger.WithFields(logrus.Fields{
		"device_id":   device.ID,
		"device_name": device.Name,
	}).Info("Device resolved")

	datasources, err := uc.client.ListDeviceDatasources(ctx, device.ID)
	if err != nil {
		return nil, err
	}

	filtered := filterDatasourcesByName(datasources, uc.interfaceDatasources)
	if len(filtered) == 0 {
		return nil, apperrors.NewNoMatchingDatasourceError(
			fmt.Sprintf("no matching datasources found for device %q", device.Name))
	}

	output := &SelectInterfacesOutput{
		DeviceID:   device.ID,
		DeviceName: device.Name,
	}

	for _, ds := range filtered {
		instances, err := uc.client.ListActiveInstances(ctx, device.ID, ds.ID)
		if err != nil {
			return nil, err
		}

		matched := []entities.InterfaceSummary{}
		for _, inst := range instances {
			// Instances without an id or display name are unusable downstream.
			if inst.ID == 0 || inst.DisplayName == "" {
				continue
			}
			if !uc.matcher.MatchesKeyword(inst.DisplayName) {
				continue
			}
			matched = append(matched, entities.InterfaceSummary{
				ID:          inst.ID,
				DisplayName: inst.DisplayName,
				Description: inst.BestDescription(),
			})
		}

		output.Datasources = append(output.Datasources, DatasourceInterfaces{
			DatasourceID:   ds.ID,
			DatasourceName: ds.DataSourceName,
			Interfaces:     matched,
			TotalMatched:   len(matched),
		})
	}

	return output, nil
}
