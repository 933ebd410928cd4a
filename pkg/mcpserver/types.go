// Package mcpserver exposes a deconz Client as a set of MCP tools, so an
// LLM agent can read and write module parameters and drive the network
// over the same request/response multiplexer the HTTP API uses.
package mcpserver

// ReadParameterInput is the input for the read_parameter tool.
type ReadParameterInput struct {
	Parameter string `json:"parameter" jsonschema:"required,description=Parameter name, e.g. MacAddress or ChannelMask"`
}

// ReadParameterOutput is the output for the read_parameter tool.
type ReadParameterOutput struct {
	Parameter string `json:"parameter" jsonschema:"description=Parameter name"`
	Value     uint64 `json:"value" jsonschema:"description=Current parameter value"`
}

// WriteParameterInput is the input for the write_parameter tool.
type WriteParameterInput struct {
	Parameter string `json:"parameter" jsonschema:"required,description=Parameter name, e.g. ApsDesignedCoordinator"`
	Value     uint64 `json:"value" jsonschema:"required,description=Value to write, bounded by the parameter's declared width"`
}

// WriteParameterOutput is the output for the write_parameter tool.
type WriteParameterOutput struct {
	Success   bool   `json:"success" jsonschema:"description=Whether the write succeeded"`
	Parameter string `json:"parameter" jsonschema:"description=Parameter name"`
	Value     uint64 `json:"value" jsonschema:"description=Value that was written"`
}

// DeviceStateInput is the input for the device_state tool.
type DeviceStateInput struct{}

// DeviceStateOutput is the output for the device_state tool.
type DeviceStateOutput struct {
	State                string `json:"state" jsonschema:"description=Network state: Offline, Joining, Connected, or Leaving"`
	ApsdeDataConfirm     bool   `json:"apsde_data_confirm" jsonschema:"description=An APS data confirm is queued"`
	ApsdeDataIndication  bool   `json:"apsde_data_indication" jsonschema:"description=An APS data indication is queued"`
	ConfigurationChanged bool   `json:"configuration_changed" jsonschema:"description=Module configuration changed"`
	ApsdeDataRequest     bool   `json:"apsde_data_request" jsonschema:"description=Module is ready to accept an APS data request"`
}

// ChangeNetworkStateInput is the input for the change_network_state tool.
type ChangeNetworkStateInput struct {
	State string `json:"state" jsonschema:"required,description=Target network state: Offline, Joining, Connected, or Leaving"`
}

// ChangeNetworkStateOutput is the output for the change_network_state tool.
type ChangeNetworkStateOutput struct {
	State string `json:"state" jsonschema:"description=Network state the module reported after the transition"`
}

// ApsDataIndicationOutput is the output for the aps_data_indication tool.
type ApsDataIndicationOutput struct {
	Source      string `json:"source" jsonschema:"description=Source address"`
	Destination string `json:"destination" jsonschema:"description=Destination address"`
	ProfileID   uint16 `json:"profile_id" jsonschema:"description=ZigBee profile id"`
	ClusterID   uint16 `json:"cluster_id" jsonschema:"description=ZigBee cluster id"`
	AsduHex     string `json:"asdu_hex" jsonschema:"description=Application payload, hex-encoded"`
	Lqi         uint8  `json:"lqi" jsonschema:"description=Link quality indicator"`
	Rssi        int8   `json:"rssi" jsonschema:"description=Received signal strength indicator"`
}

// ReadAllParametersOutput is the output for the read_all_parameters tool.
type ReadAllParametersOutput struct {
	Parameters []ReadParameterOutput `json:"parameters" jsonschema:"description=Every known parameter and its current value"`
	Failed     []string              `json:"failed,omitempty" jsonschema:"description=Parameter names that could not be read"`
}
