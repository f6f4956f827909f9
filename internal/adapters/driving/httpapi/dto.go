package httpapi

import (
	"time"

	"github.com/contargo/s3sync/internal/core/domain"
)

// syncRunResponse is the wire form of one run with its batches.
type syncRunResponse struct {
	ID           string                `json:"id"`
	StartedAt    time.Time             `json:"startedAt"`
	FinishedAt   *time.Time            `json:"finishedAt,omitempty"`
	Status       string                `json:"status"`
	ErrorMessage string                `json:"errorMessage,omitempty"`
	Items        []syncRunItemResponse `json:"items"`
}

// syncRunItemResponse is the wire form of one uploaded batch.
type syncRunItemResponse struct {
	TableName   string `json:"tableName"`
	Country     string `json:"country"`
	RecordCount int    `json:"recordCount"`
	ObjectKey   string `json:"objectKey"`
}

// syncStateResponse is the wire form of one watermark.
type syncStateResponse struct {
	TableName          string    `json:"tableName"`
	LastSuccessfulSync time.Time `json:"lastSuccessfulSync"`
}

// scheduleResponse is the wire form of the scheduler configuration.
type scheduleResponse struct {
	Hours   int  `json:"hours"`
	Minutes int  `json:"minutes"`
	Enabled bool `json:"enabled"`
}

// scheduleRequest updates the schedule interval.
type scheduleRequest struct {
	Hours   int `json:"hours"`
	Minutes int `json:"minutes"`
}

// objectResponse is the wire form of stored object metadata.
type objectResponse struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
}

// customerResponse is the wire form of a customer row.
type customerResponse struct {
	ID          string    `json:"id"`
	CompanyName string    `json:"companyName"`
	Street      string    `json:"street"`
	StreetExtra string    `json:"streetExtra"`
	City        string    `json:"city"`
	Country     string    `json:"country"`
	PostalCode  string    `json:"postalCode"`
	FirstName   string    `json:"firstName"`
	LastName    string    `json:"lastName"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// orderResponse is the wire form of an order row.
type orderResponse struct {
	ID            string    `json:"id"`
	ArticleNumber string    `json:"articleNumber"`
	CustomerID    string    `json:"customerId"`
	LastChange    time.Time `json:"lastChange"`
}

// toRunResponse maps a domain run to its wire form.
func toRunResponse(run *domain.SyncRun) syncRunResponse {
	items := make([]syncRunItemResponse, len(run.Items))
	for i, item := range run.Items {
		items[i] = syncRunItemResponse{
			TableName:   item.TableName,
			Country:     item.Country,
			RecordCount: item.RecordCount,
			ObjectKey:   item.ObjectKey,
		}
	}

	resp := syncRunResponse{
		ID:           run.ID,
		StartedAt:    run.StartedAt,
		Status:       string(run.Status),
		ErrorMessage: run.ErrorMessage,
		Items:        items,
	}
	if !run.FinishedAt.IsZero() {
		finished := run.FinishedAt
		resp.FinishedAt = &finished
	}
	return resp
}

// toScheduleResponse maps a domain schedule to its wire form.
func toScheduleResponse(schedule domain.Schedule) scheduleResponse {
	hours := int(schedule.Interval.Hours())
	minutes := int(schedule.Interval.Minutes()) - hours*60
	return scheduleResponse{Hours: hours, Minutes: minutes, Enabled: schedule.Enabled}
}
