package handlers

import (
	"encoding/json"
	"io"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
)

// NotificationsHandler streams unsolicited DeviceStateChanged notifications
// to the client over Server-Sent Events.
type NotificationsHandler struct {
	notifications <-chan deconz.IncomingPayload
}

// NewNotificationsHandler creates a new notifications handler.
func NewNotificationsHandler(notifications <-chan deconz.IncomingPayload) *NotificationsHandler {
	return &NotificationsHandler{notifications: notifications}
}

// @Summary      Subscribe to notifications
// @Description  Server-Sent Events stream of unsolicited DeviceStateChanged notifications, plus a periodic heartbeat
// @Tags         notifications
// @Produce      text/event-stream
// @Success      200  {string}  string  "SSE event stream"
// @Router       /notifications [get]
func (h *NotificationsHandler) Events(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	sendSSEEvent(c.Writer, "connected", map[string]any{"timestamp": time.Now()})
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-clientGone:
			return

		case payload, ok := <-h.notifications:
			if !ok {
				return
			}
			state, isDeviceState := payload.(deconz.DeviceStatePayload)
			if !isDeviceState {
				continue
			}
			sendSSEEvent(c.Writer, "device_state_changed", map[string]any{
				"state":                  state.State.String(),
				"apsde_data_confirm":     state.ApsdeDataConfirm,
				"apsde_data_indication":  state.ApsdeDataIndication,
				"configuration_changed":  state.ConfigurationChanged,
				"apsde_data_request":     state.ApsdeDataRequest,
				"timestamp":              time.Now(),
			})
			c.Writer.Flush()

		case <-ticker.C:
			sendSSEEvent(c.Writer, "heartbeat", map[string]any{"timestamp": time.Now()})
			c.Writer.Flush()
		}
	}
}

func sendSSEEvent(w io.Writer, eventType string, data any) {
	jsonData, _ := json.Marshal(data)
	io.WriteString(w, "event: "+eventType+"\n")
	io.WriteString(w, "data: "+string(jsonData)+"\n\n")
}
