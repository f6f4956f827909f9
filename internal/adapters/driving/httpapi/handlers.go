package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/contargo/s3sync/internal/core/domain"
	"github.com/contargo/s3sync/internal/core/ports/driven"
	"github.com/contargo/s3sync/internal/core/ports/driving"
)

// SyncHandler serves the sync trigger, run history, watermark, and
// schedule endpoints.
type SyncHandler struct {
	runner    driving.SyncRunner
	monitor   driving.SyncMonitor
	scheduler driving.ScheduleController
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(runner driving.SyncRunner, monitor driving.SyncMonitor, scheduler driving.ScheduleController) *SyncHandler {
	return &SyncHandler{runner: runner, monitor: monitor, scheduler: scheduler}
}

// TriggerSync starts a sync run and reports its outcome.
func (h *SyncHandler) TriggerSync(c *gin.Context) {
	run, err := h.runner.RunSync(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrSyncInProgress) {
			c.JSON(http.StatusConflict, gin.H{"error": "a sync run is already in progress"})
			return
		}
		resp := gin.H{"error": err.Error()}
		if run != nil {
			resp["run"] = toRunResponse(run)
		}
		c.JSON(http.StatusInternalServerError, resp)
		return
	}

	c.JSON(http.StatusAccepted, toRunResponse(run))
}

// ListRuns returns the most recent sync runs, newest first.
func (h *SyncHandler) ListRuns(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = parsed
	}

	runs, err := h.monitor.RecentRuns(c.Request.Context(), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]syncRunResponse, len(runs))
	for i, run := range runs {
		resp[i] = toRunResponse(&run)
	}
	c.JSON(http.StatusOK, resp)
}

// ListStates returns the per-table watermarks.
func (h *SyncHandler) ListStates(c *gin.Context) {
	states, err := h.monitor.SyncStates(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]syncStateResponse, len(states))
	for i, state := range states {
		resp[i] = syncStateResponse{
			TableName:          state.TableName,
			LastSuccessfulSync: state.LastSuccessfulSync,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// GetSchedule returns the current scheduler configuration.
func (h *SyncHandler) GetSchedule(c *gin.Context) {
	c.JSON(http.StatusOK, toScheduleResponse(h.scheduler.Schedule()))
}

// UpdateSchedule changes the sync interval and re-enables the scheduler.
func (h *SyncHandler) UpdateSchedule(c *gin.Context) {
	var req scheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	interval := time.Duration(req.Hours)*time.Hour + time.Duration(req.Minutes)*time.Minute
	if err := h.scheduler.UpdateInterval(interval); err != nil {
		if errors.Is(err, domain.ErrInvalidInterval) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "interval must be at least one second"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, toScheduleResponse(h.scheduler.Schedule()))
}

// ObjectsHandler serves the object store inspection endpoints.
type ObjectsHandler struct {
	objects driven.ObjectStore
}

// NewObjectsHandler creates an ObjectsHandler.
func NewObjectsHandler(objects driven.ObjectStore) *ObjectsHandler {
	return &ObjectsHandler{objects: objects}
}

// ListObjects returns metadata for every exported object.
func (h *ObjectsHandler) ListObjects(c *gin.Context) {
	infos, err := h.objects.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]objectResponse, len(infos))
	for i, info := range infos {
		resp[i] = objectResponse{Key: info.Key, Size: info.Size, LastModified: info.LastModified}
	}
	c.JSON(http.StatusOK, resp)
}

// GetObjectContent streams the raw CSV content of one exported object.
func (h *ObjectsHandler) GetObjectContent(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "key is required"})
		return
	}

	content, err := h.objects.Get(c.Request.Context(), key)
	if err != nil {
		if errors.Is(err, domain.ErrObjectNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "object not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Data(http.StatusOK, content.ContentType, content.Data)
}

// DataHandler serves read-only views of the source tables.
type DataHandler struct {
	customers driven.CustomerRepository
	orders    driven.OrderRepository
}

// NewDataHandler creates a DataHandler.
func NewDataHandler(customers driven.CustomerRepository, orders driven.OrderRepository) *DataHandler {
	return &DataHandler{customers: customers, orders: orders}
}

// ListCustomers returns every customer row.
func (h *DataHandler) ListCustomers(c *gin.Context) {
	customers, err := h.customers.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]customerResponse, len(customers))
	for i, cust := range customers {
		resp[i] = customerResponse{
			ID:          cust.ID,
			CompanyName: cust.CompanyName,
			Street:      cust.Street,
			StreetExtra: cust.StreetExtra,
			City:        cust.City,
			Country:     cust.Country,
			PostalCode:  cust.PostalCode,
			FirstName:   cust.FirstName,
			LastName:    cust.LastName,
			UpdatedAt:   cust.UpdatedAt,
		}
	}
	c.JSON(http.StatusOK, resp)
}

// ListOrders returns every order row.
func (h *DataHandler) ListOrders(c *gin.Context) {
	orders, err := h.orders.FindAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]orderResponse, len(orders))
	for i, order := range orders {
		item := orderResponse{
			ID:            order.ID,
			ArticleNumber: order.ArticleNumber,
			LastChange:    order.LastChange,
		}
		if order.Customer != nil {
			item.CustomerID = order.Customer.ID
		}
		resp[i] = item
	}
	c.JSON(http.StatusOK, resp)
}
