package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
	"github.com/go-deconz/deconz-sp/pkg/httpapi/types"
)

var networkStateNames = map[string]deconz.NetworkStateCode{
	"Offline":   deconz.NetworkStateOffline,
	"Joining":   deconz.NetworkStateJoining,
	"Connected": deconz.NetworkStateConnected,
	"Leaving":   deconz.NetworkStateLeaving,
}

// NetworkHandler handles the device-state and network-state endpoints.
type NetworkHandler struct {
	client *deconz.Client
}

// NewNetworkHandler creates a new network handler.
func NewNetworkHandler(client *deconz.Client) *NetworkHandler {
	return &NetworkHandler{client: client}
}

// @Summary      Get device state
// @Description  Returns the module's current device-state flags
// @Tags         network
// @Produce      json
// @Success      200  {object}  types.DeviceStateResponse
// @Failure      502  {object}  types.ErrorResponse  "Module rejected the request"
// @Failure      504  {object}  types.ErrorResponse  "Request timed out"
// @Router       /device-state [get]
func (h *NetworkHandler) GetDeviceState(c *gin.Context) {
	state, err := h.client.DeviceState(c.Request.Context())
	if err != nil {
		writeClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.DeviceStateResponse{
		State:                state.State.String(),
		ApsdeDataConfirm:     state.ApsdeDataConfirm,
		ApsdeDataIndication:  state.ApsdeDataIndication,
		ConfigurationChanged: state.ConfigurationChanged,
		ApsdeDataRequest:     state.ApsdeDataRequest,
		Timestamp:            time.Now(),
	})
}

// @Summary      Change network state
// @Description  Requests a network join, leave, or other state transition
// @Tags         network
// @Accept       json
// @Produce      json
// @Param        request  body      types.ChangeNetworkStateRequest  true  "Target state"
// @Success      200      {object}  types.NetworkStateResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid or unknown state"
// @Failure      502      {object}  types.ErrorResponse  "Module rejected the request"
// @Failure      504      {object}  types.ErrorResponse  "Request timed out"
// @Router       /network-state [post]
func (h *NetworkHandler) SetNetworkState(c *gin.Context) {
	var req types.ChangeNetworkStateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "invalid_request", Message: "invalid request body"})
		return
	}

	state, ok := networkStateNames[req.State]
	if !ok {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_state",
			Message: "state must be one of Offline, Joining, Connected, Leaving",
		})
		return
	}

	result, err := h.client.ChangeNetworkState(c.Request.Context(), state)
	if err != nil {
		writeClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.NetworkStateResponse{
		State:     result.String(),
		Timestamp: time.Now(),
	})
}
