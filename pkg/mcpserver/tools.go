package mcpserver

import "github.com/mark3labs/mcp-go/mcp"

// registerTools registers all MCP tools with the server.
func (s *Server) registerTools() {
	s.mcpServer.AddTool(
		mcp.NewTool("read_parameter",
			mcp.WithDescription("Read a module configuration parameter's current value"),
			mcp.WithString("parameter",
				mcp.Required(),
				mcp.Description("Parameter name, e.g. MacAddress or ChannelMask"),
			),
		),
		s.handleReadParameter,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("write_parameter",
			mcp.WithDescription("Write a module configuration parameter"),
			mcp.WithString("parameter",
				mcp.Required(),
				mcp.Description("Parameter name, e.g. ApsDesignedCoordinator"),
			),
			mcp.WithNumber("value",
				mcp.Required(),
				mcp.Description("Value to write, bounded by the parameter's declared width"),
			),
		),
		s.handleWriteParameter,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("device_state",
			mcp.WithDescription("Query the module's current device state and pending-flag bits"),
		),
		s.handleDeviceState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("change_network_state",
			mcp.WithDescription("Request a network state transition"),
			mcp.WithString("state",
				mcp.Required(),
				mcp.Description("Target network state: Offline, Joining, Connected, or Leaving"),
			),
		),
		s.handleChangeNetworkState,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("aps_data_indication",
			mcp.WithDescription("Pull the next queued inbound APS data frame"),
		),
		s.handleApsDataIndication,
	)

	s.mcpServer.AddTool(
		mcp.NewTool("read_all_parameters",
			mcp.WithDescription("Read every known module configuration parameter"),
		),
		s.handleReadAllParameters,
	)
}
