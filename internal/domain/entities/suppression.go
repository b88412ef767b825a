package entities

import "encoding/json"

// SDT request constants for the monitoring platform.
const (
	SDTTypeInstance = "DeviceDataSourceInstanceSDT"
	SDTOneTime      = 1
)

// SuppressionRequest is the scheduled-down-time payload submitted to the
// monitoring platform for a single datasource instance.
type SuppressionRequest struct {
	Type                 string `json:"type"`
	DataSourceInstanceID int64  `json:"dataSourceInstanceId"`
	StartDateTime        int64  `json:"startDateTime"`
	EndDateTime          int64  `json:"endDateTime"`
	Comment              string `json:"comment"`
	SDTType              int    `json:"sdtType"`
}

// NewSuppressionRequest builds a one-time instance SDT request.
func NewSuppressionRequest(instanceID, startEpochMs, endEpochMs int64, comment string) SuppressionRequest {
	return SuppressionRequest{
		Type:                 SDTTypeInstance,
		DataSourceInstanceID: instanceID,
		StartDateTime:        startEpochMs,
		EndDateTime:          endEpochMs,
		Comment:              comment,
		SDTType:              SDTOneTime,
	}
}

// SDTConfirmation is a successfully created suppression. ID is opaque; the
// upstream returns it as either a JSON string or a number depending on API
// version, so it is normalized to a string.
type SDTConfirmation struct {
	ID  string          `json:"sdt_id"`
	Raw json.RawMessage `json:"full_response"`
}
