// Package httpapi exposes a deconz Client over HTTP: parameter read/write,
// device and network state, a pull endpoint for queued APS indications,
// and an SSE stream of unsolicited DeviceStateChanged notifications.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/go-deconz/deconz-sp/pkg/deconz"
	"github.com/go-deconz/deconz-sp/pkg/httpapi/handlers"
	"github.com/go-deconz/deconz-sp/pkg/schema"
)

// Router holds the Gin engine and its dependencies.
type Router struct {
	engine *gin.Engine
	client *deconz.Client
}

// NewRouter creates a new API router over client, streaming notifications
// from the given channel.
func NewRouter(client *deconz.Client, notifications <-chan deconz.IncomingPayload, validator *schema.Validator) *Router {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	setupMiddleware(engine)

	router := &Router{engine: engine, client: client}
	router.setupRoutes(notifications, validator)
	return router
}

func (r *Router) setupRoutes(notifications <-chan deconz.IncomingPayload, validator *schema.Validator) {
	healthHandler := handlers.NewHealthHandler(r.client)
	r.engine.GET("/health", healthHandler.Health)

	v1 := r.engine.Group("/api/v1")
	{
		v1.GET("/health", healthHandler.Health)

		parametersHandler := handlers.NewParametersHandler(r.client, validator)
		parameters := v1.Group("/parameters")
		{
			parameters.GET("/:name", parametersHandler.GetParameter)
			parameters.PUT("/:name", parametersHandler.SetParameter)
		}

		networkHandler := handlers.NewNetworkHandler(r.client)
		v1.GET("/device-state", networkHandler.GetDeviceState)
		v1.POST("/network-state", networkHandler.SetNetworkState)

		apsHandler := handlers.NewApsHandler(r.client)
		v1.GET("/aps/indication", apsHandler.GetIndication)

		notificationsHandler := handlers.NewNotificationsHandler(notifications)
		v1.GET("/notifications", notificationsHandler.Events)
	}
}

// Run starts the HTTP server, blocking until it stops or errors.
func (r *Router) Run(addr string) error {
	return r.engine.Run(addr)
}
