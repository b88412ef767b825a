package usecases

import (
	"context"
	"fmt"

	"lm-gateway/internal/domain/entities"
	apperrors "lm-gateway/internal/domain/errors"
	"lm-gateway/internal/domain/interfaces"
)

// findSingleDevice resolves a display name to exactly one device. Zero and
// multiple matches are both explicit failures; an ambiguous name is never
// silently narrowed to one of its candidates.
func findSingleDevice(ctx context.Context, client interfaces.MonitoringClient, name string) (entities.Device, error) {
	devices, err := client.SearchDevicesByName(ctx, name)
	if err != nil {
		return entities.Device{}, err
	}

	switch {
	case len(devices) == 0:
		return entities.Device{}, apperrors.NewNotFoundError(
			fmt.Sprintf("no device found with name %q", name))
	case len(devices) > 1:
		return entities.Device{}, apperrors.NewAmbiguousMatchError(
			fmt.Sprintf("multiple devices found with name %q", name))
	}
	return devices[0], nil
}

// filterDatasourcesByName keeps the datasources whose name is on the
// allow-list, preserving upstream order.
func filterDatasourcesByName(datasources []entities.Datasource, allowed []string) []entities.Datasource {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		allowedSet[name] = struct{}{}
	}

	var filtered []entities.Datasource
	for _, ds := range datasources {
		if _, ok := allowedSet[ds.DataSourceName]; ok {
			filtered = append(filtered, ds)
		}
	}
	return filtered
}
