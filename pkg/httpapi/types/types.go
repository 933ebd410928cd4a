// Package types holds the JSON request/response shapes exposed by the
// deconz HTTP API.
package types

import "time"

// ErrorResponse is the shared error body for every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse reports whether the serial link to the module is up.
type HealthResponse struct {
	Status    string    `json:"status"`
	Serial    string    `json:"serial"`
	Timestamp time.Time `json:"timestamp"`
}

// ParameterResponse is returned by GET and PUT /parameters/:name.
type ParameterResponse struct {
	Parameter string `json:"parameter"`
	Value     uint64 `json:"value"`
	Timestamp time.Time `json:"timestamp"`
}

// WriteParameterRequest is the body of PUT /parameters/:name.
type WriteParameterRequest struct {
	Value uint64 `json:"value"`
}

// DeviceStateResponse describes the module's current device-state flags.
type DeviceStateResponse struct {
	State                string    `json:"state"`
	ApsdeDataConfirm     bool      `json:"apsde_data_confirm"`
	ApsdeDataIndication  bool      `json:"apsde_data_indication"`
	ConfigurationChanged bool      `json:"configuration_changed"`
	ApsdeDataRequest     bool      `json:"apsde_data_request"`
	Timestamp            time.Time `json:"timestamp"`
}

// ChangeNetworkStateRequest is the body of POST /network-state.
type ChangeNetworkStateRequest struct {
	State string `json:"state"`
}

// NetworkStateResponse reports the network state the module transitioned to.
type NetworkStateResponse struct {
	State     string    `json:"state"`
	Timestamp time.Time `json:"timestamp"`
}

// ApsIndicationResponse is a pulled inbound APS data frame.
type ApsIndicationResponse struct {
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	ProfileID   uint16    `json:"profile_id"`
	ClusterID   uint16    `json:"cluster_id"`
	Asdu        []byte    `json:"asdu"`
	Lqi         uint8     `json:"lqi"`
	Rssi        int8      `json:"rssi"`
	Timestamp   time.Time `json:"timestamp"`
}
