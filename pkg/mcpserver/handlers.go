package mcpserver

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
)

func (s *Server) handleReadParameter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "parameter")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	parameter, ok := deconz.ParameterCodeByName(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown parameter: %s", name)), nil
	}

	value, err := s.client.ReadParameter(ctx, parameter)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read parameter: %s", err)), nil
	}

	out := ReadParameterOutput{Parameter: parameter.String(), Value: value.Uint64()}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleWriteParameter(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "parameter")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawValue, ok := request.GetArguments()["value"].(float64)
	if !ok {
		return mcp.NewToolResultError(`required parameter "value" must be a number`), nil
	}

	parameter, ok := deconz.ParameterCodeByName(name)
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("unknown parameter: %s", name)), nil
	}

	width, _ := parameter.Len()
	if rawValue < 0 || rawValue != float64(uint64(rawValue)) || (width < 8 && uint64(rawValue) > uint64(1)<<(8*width)-1) {
		return mcp.NewToolResultError(fmt.Sprintf("value must be an integer that fits in %d byte(s)", width)), nil
	}
	value, ok := deconz.NewParameterValue(uint64(rawValue), int(width))
	if !ok {
		return mcp.NewToolResultError("parameter has no matching value width"), nil
	}

	if err := s.client.WriteParameter(ctx, parameter, value); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to write parameter: %s", err)), nil
	}

	out := WriteParameterOutput{Success: true, Parameter: parameter.String(), Value: value.Uint64()}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleDeviceState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	state, err := s.client.DeviceState(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to read device state: %s", err)), nil
	}

	out := DeviceStateOutput{
		State:                state.State.String(),
		ApsdeDataConfirm:     state.ApsdeDataConfirm,
		ApsdeDataIndication:  state.ApsdeDataIndication,
		ConfigurationChanged: state.ConfigurationChanged,
		ApsdeDataRequest:     state.ApsdeDataRequest,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleChangeNetworkState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	name, err := requiredString(request, "state")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	state, ok := networkStateByName(name)
	if !ok {
		return mcp.NewToolResultError("state must be one of Offline, Joining, Connected, Leaving"), nil
	}

	result, err := s.client.ChangeNetworkState(ctx, state)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to change network state: %s", err)), nil
	}

	out := ChangeNetworkStateOutput{State: result.String()}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleApsDataIndication(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	indication, err := s.client.ApsDataIndication(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to pull APS data indication: %s", err)), nil
	}

	out := ApsDataIndicationOutput{
		Source:      indication.Source.String(),
		Destination: indication.Destination.String(),
		ProfileID:   indication.ProfileID,
		ClusterID:   indication.ClusterID,
		AsduHex:     hex.EncodeToString(indication.Asdu),
		Lqi:         indication.Lqi,
		Rssi:        indication.Rssi,
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

func (s *Server) handleReadAllParameters(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var out ReadAllParametersOutput
	for _, parameter := range deconz.AllParameterCodes() {
		value, err := s.client.ReadParameter(ctx, parameter)
		if err != nil {
			out.Failed = append(out.Failed, parameter.String())
			continue
		}
		out.Parameters = append(out.Parameters, ReadParameterOutput{Parameter: parameter.String(), Value: value.Uint64()})
	}
	return mcp.NewToolResultText(formatJSON(out)), nil
}

// --- helpers ---

func networkStateByName(name string) (deconz.NetworkStateCode, bool) {
	switch name {
	case "Offline":
		return deconz.NetworkStateOffline, true
	case "Joining":
		return deconz.NetworkStateJoining, true
	case "Connected":
		return deconz.NetworkStateConnected, true
	case "Leaving":
		return deconz.NetworkStateLeaving, true
	default:
		return 0, false
	}
}

func requiredString(request mcp.CallToolRequest, key string) (string, error) {
	args := request.GetArguments()
	v, ok := args[key]
	if !ok || v == nil {
		return "", fmt.Errorf("required parameter %q is missing", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("parameter %q must be a non-empty string", key)
	}
	return s, nil
}

func formatJSON(v any) string {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal response: %s"}`, err)
	}
	return string(b)
}
