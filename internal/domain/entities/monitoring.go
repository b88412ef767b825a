package entities

// Device is a monitored device as returned by the monitoring platform's
// device search. Devices are looked up by exact display-name filter and are
// immutable for the duration of a request.
type Device struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
}

// Datasource is a named category of collected instances attached to a device.
type Datasource struct {
	ID             int64  `json:"id"`
	DataSourceName string `json:"dataSourceName"`
}

// AutoProperty is a vendor/protocol-derived key/value attribute attached to
// an instance. The sequence order is as reported upstream.
type AutoProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// InterfaceInstance is one monitored entity (typically an interface) under a
// device datasource.
type InterfaceInstance struct {
	ID             int64          `json:"id"`
	Name           string         `json:"name"`
	DisplayName    string         `json:"displayName"`
	Description    string         `json:"description"`
	IfDescr        string         `json:"ifDescr"`
	IfAlias        string         `json:"ifAlias"`
	StopMonitoring bool           `json:"stopMonitoring"`
	AutoProperties []AutoProperty `json:"autoProperties"`
}

// Active reports whether the instance is still monitored. Only active
// instances participate in interface discovery and neighbor resolution.
func (i InterfaceInstance) Active() bool {
	return !i.StopMonitoring
}

// AutoProperty returns the value of the named auto property. Lookup is by
// exact key match, first hit wins; a missing key is an absent value, not an
// error.
func (i InterfaceInstance) AutoProperty(name string) (string, bool) {
	for _, p := range i.AutoProperties {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// BestDescription returns the first non-empty of description, ifDescr and
// ifAlias, mirroring the precedence the upstream UI applies.
func (i InterfaceInstance) BestDescription() string {
	if i.Description != "" {
		return i.Description
	}
	if i.IfDescr != "" {
		return i.IfDescr
	}
	return i.IfAlias
}

// InterfaceSummary is the caller-facing projection of a matched interface
// instance.
type InterfaceSummary struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Description string `json:"description"`
}
