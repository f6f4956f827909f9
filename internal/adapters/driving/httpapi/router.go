// Package httpapi exposes the sync service over a JSON REST API.
package httpapi

import (
	"github.com/gin-gonic/gin"

	"github.com/contargo/s3sync/internal/core/ports/driven"
	"github.com/contargo/s3sync/internal/core/ports/driving"
)

// Deps bundles everything the API needs from the core.
type Deps struct {
	Runner    driving.SyncRunner
	Monitor   driving.SyncMonitor
	Scheduler driving.ScheduleController
	Objects   driven.ObjectStore
	Customers driven.CustomerRepository
	Orders    driven.OrderRepository
}

// NewRouter builds the gin engine with all routes registered.
func NewRouter(deps Deps) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	syncHandler := NewSyncHandler(deps.Runner, deps.Monitor, deps.Scheduler)
	objectsHandler := NewObjectsHandler(deps.Objects)
	dataHandler := NewDataHandler(deps.Customers, deps.Orders)

	api := router.Group("/api")
	{
		sync := api.Group("/sync")
		{
			sync.POST("/run", syncHandler.TriggerSync)
			sync.GET("/runs", syncHandler.ListRuns)
			sync.GET("/state", syncHandler.ListStates)
			sync.GET("/schedule", syncHandler.GetSchedule)
			sync.PUT("/schedule", syncHandler.UpdateSchedule)
		}

		s3 := api.Group("/s3")
		{
			s3.GET("/objects", objectsHandler.ListObjects)
			s3.GET("/objects/content", objectsHandler.GetObjectContent)
		}

		api.GET("/customers", dataHandler.ListCustomers)
		api.GET("/orders", dataHandler.ListOrders)
	}

	return router
}
