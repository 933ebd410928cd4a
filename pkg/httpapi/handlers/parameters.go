package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
	"github.com/go-deconz/deconz-sp/pkg/httpapi/types"
	"github.com/go-deconz/deconz-sp/pkg/schema"
)

// ParametersHandler handles GET/PUT /parameters/:name.
type ParametersHandler struct {
	client    *deconz.Client
	validator *schema.Validator
}

// NewParametersHandler creates a new parameters handler.
func NewParametersHandler(client *deconz.Client, validator *schema.Validator) *ParametersHandler {
	return &ParametersHandler{client: client, validator: validator}
}

func (h *ParametersHandler) lookupParameter(c *gin.Context) (deconz.ParameterCode, bool) {
	name := c.Param("name")
	parameter, ok := deconz.ParameterCodeByName(name)
	if !ok {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Error:   "unknown_parameter",
			Message: "no such parameter: " + name,
		})
		return 0, false
	}
	return parameter, true
}

// @Summary      Read a parameter
// @Description  Reads the current value of a named network or device parameter
// @Tags         parameters
// @Produce      json
// @Param        name  path      string  true  "Parameter name"
// @Success      200   {object}  types.ParameterResponse
// @Failure      404   {object}  types.ErrorResponse  "Unknown parameter"
// @Failure      502   {object}  types.ErrorResponse  "Module rejected the request"
// @Failure      504   {object}  types.ErrorResponse  "Request timed out"
// @Router       /parameters/{name} [get]
func (h *ParametersHandler) GetParameter(c *gin.Context) {
	parameter, ok := h.lookupParameter(c)
	if !ok {
		return
	}

	value, err := h.client.ReadParameter(c.Request.Context(), parameter)
	if err != nil {
		writeClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ParameterResponse{
		Parameter: parameter.String(),
		Value:     value.Uint64(),
		Timestamp: time.Now(),
	})
}

// @Summary      Write a parameter
// @Description  Writes a new value to a named network or device parameter
// @Tags         parameters
// @Accept       json
// @Produce      json
// @Param        name     path      string                       true  "Parameter name"
// @Param        request  body      types.WriteParameterRequest  true  "Value to write"
// @Success      200      {object}  types.ParameterResponse
// @Failure      400      {object}  types.ErrorResponse  "Invalid request body or out-of-range value"
// @Failure      404      {object}  types.ErrorResponse  "Unknown parameter"
// @Failure      502      {object}  types.ErrorResponse  "Module rejected the request"
// @Failure      504      {object}  types.ErrorResponse  "Request timed out"
// @Router       /parameters/{name} [put]
func (h *ParametersHandler) SetParameter(c *gin.Context) {
	parameter, ok := h.lookupParameter(c)
	if !ok {
		return
	}

	var body map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{
			Error:   "invalid_request",
			Message: "invalid request body",
		})
		return
	}

	if err := h.validator.ValidateWriteParameter(parameter, body); err != nil {
		c.JSON(http.StatusBadRequest, types.ErrorResponse{Error: "validation_error", Message: err.Error()})
		return
	}

	width, _ := parameter.Len()
	raw, _ := body["value"].(float64)
	value, ok := deconz.NewParameterValue(uint64(raw), int(width))
	if !ok {
		c.JSON(http.StatusInternalServerError, types.ErrorResponse{
			Error:   "unsupported_width",
			Message: "parameter has no matching value width",
		})
		return
	}

	if err := h.client.WriteParameter(c.Request.Context(), parameter, value); err != nil {
		writeClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ParameterResponse{
		Parameter: parameter.String(),
		Value:     value.Uint64(),
		Timestamp: time.Now(),
	})
}

// writeClientError maps a deconz client error to an HTTP status and body.
func writeClientError(c *gin.Context, err error) {
	switch e := err.(type) {
	case *deconz.NonSuccessResponseError:
		c.JSON(http.StatusBadGateway, types.ErrorResponse{Error: "device_error", Message: e.Error()})
	case *deconz.UnexpectedResponsePayloadError:
		c.JSON(http.StatusBadGateway, types.ErrorResponse{Error: "unexpected_response", Message: e.Error()})
	default:
		if err == deconz.ErrChannelCanceled {
			c.JSON(http.StatusServiceUnavailable, types.ErrorResponse{Error: "client_closed", Message: err.Error()})
			return
		}
		c.JSON(http.StatusGatewayTimeout, types.ErrorResponse{Error: "timeout", Message: err.Error()})
	}
}
