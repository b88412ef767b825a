package entities

// CDP auto property keys carried on neighbor instances.
const (
	AutoPropCDPInterfaceName   = "auto.cdpinterfacename"
	AutoPropCDPCacheDeviceID   = "auto.cdpcachedeviceid"
	AutoPropCDPCacheDevicePort = "auto.cdpcachedeviceport"
)

// NeighborStatus is the outcome of resolving a neighbor's own interface on
// the neighbor device. A neighbor that is not monitored resolves to
// NeighborNotFound; that is an expected outcome, not a failure.
type NeighborStatus string

const (
	NeighborFound    NeighborStatus = "found"
	NeighborNotFound NeighborStatus = "not_found"
)

// NeighborRecord correlates a local interface with one CDP-discovered
// neighbor device/interface pair. Derived per request, never persisted.
type NeighborRecord struct {
	LocalInterface        string `json:"local_interface"`
	NeighborDeviceName    string `json:"neighbor_device_name"`
	NeighborInterfaceName string `json:"neighbor_interface_name"`

	// Set only when the neighbor's interface resolved on the neighbor device.
	NeighborDeviceID             *int64 `json:"neighbor_device_id"`
	NeighborInterfaceID          *int64 `json:"neighbor_interface_id"`
	NeighborInterfaceDisplayName string `json:"neighbor_interface_display_name,omitempty"`
	DatasourceID                 int64  `json:"datasource_id,omitempty"`
	DatasourceName               string `json:"datasource_name,omitempty"`

	// Set when resolution did not succeed, explaining why.
	LookupMessage string `json:"lookup_message,omitempty"`
}
