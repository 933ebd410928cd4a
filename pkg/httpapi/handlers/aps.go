package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
	"github.com/go-deconz/deconz-sp/pkg/httpapi/types"
)

// ApsHandler handles GET /aps/indication.
type ApsHandler struct {
	client *deconz.Client
}

// NewApsHandler creates a new APS handler.
func NewApsHandler(client *deconz.Client) *ApsHandler {
	return &ApsHandler{client: client}
}

// @Summary      Pull an APS data indication
// @Description  Returns the next queued inbound APS data frame, blocking until one arrives or the request times out
// @Tags         aps
// @Produce      json
// @Success      200  {object}  types.ApsIndicationResponse
// @Failure      504  {object}  types.ErrorResponse  "Request timed out"
// @Router       /aps/indication [get]
func (h *ApsHandler) GetIndication(c *gin.Context) {
	indication, err := h.client.ApsDataIndication(c.Request.Context())
	if err != nil {
		writeClientError(c, err)
		return
	}

	c.JSON(http.StatusOK, types.ApsIndicationResponse{
		Source:      indication.Source.String(),
		Destination: indication.Destination.String(),
		ProfileID:   indication.ProfileID,
		ClusterID:   indication.ClusterID,
		Asdu:        indication.Asdu,
		Lqi:         indication.Lqi,
		Rssi:        indication.Rssi,
		Timestamp:   time.Now(),
	})
}
