package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
	"github.com/go-deconz/deconz-sp/pkg/httpapi/types"
)

// HealthHandler reports whether the serial link to the module is alive.
type HealthHandler struct {
	client *deconz.Client
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(client *deconz.Client) *HealthHandler {
	return &HealthHandler{client: client}
}

// @Summary      Health check
// @Description  Reports whether the serial link to the module is up
// @Tags         health
// @Produce      json
// @Success      200  {object}  types.HealthResponse
// @Failure      503  {object}  types.HealthResponse  "Serial link is down"
// @Router       /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	serialStatus := "connected"
	httpStatus := http.StatusOK
	status := "healthy"

	if h.client.Closed() {
		serialStatus = "disconnected"
		httpStatus = http.StatusServiceUnavailable
		status = "degraded"
	}

	c.JSON(httpStatus, types.HealthResponse{
		Status:    status,
		Serial:    serialStatus,
		Timestamp: time.Now(),
	})
}
