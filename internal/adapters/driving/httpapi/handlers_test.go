package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/contargo/s3sync/internal/core/domain"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// --- Mock implementations ---

type mockRunner struct {
	run *domain.SyncRun
	err error
}

func (m *mockRunner) RunSync(_ context.Context) (*domain.SyncRun, error) {
	return m.run, m.err
}

type mockMonitor struct {
	runs      []domain.SyncRun
	states    []domain.SyncState
	lastLimit int
	err       error
}

func (m *mockMonitor) RecentRuns(_ context.Context, limit int) ([]domain.SyncRun, error) {
	m.lastLimit = limit
	return m.runs, m.err
}

func (m *mockMonitor) SyncStates(_ context.Context) ([]domain.SyncState, error) {
	return m.states, m.err
}

type mockScheduler struct {
	schedule     domain.Schedule
	updateErr    error
	lastInterval time.Duration
	disabled     bool
}

func (m *mockScheduler) Schedule() domain.Schedule { return m.schedule }

func (m *mockScheduler) UpdateInterval(interval time.Duration) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	m.lastInterval = interval
	m.schedule.Interval = interval
	m.schedule.Enabled = true
	return nil
}

func (m *mockScheduler) Disable() { m.disabled = true }

type mockObjects struct {
	infos   []domain.ObjectInfo
	content *domain.ObjectContent
	listErr error
	getErr  error
	lastKey string
}

func (m *mockObjects) EnsureBucket(_ context.Context) error { return nil }

func (m *mockObjects) Put(_ context.Context, _ string, _ []byte, _ string) error { return nil }

func (m *mockObjects) IsEmpty(_ context.Context) (bool, error) { return false, nil }

func (m *mockObjects) List(_ context.Context) ([]domain.ObjectInfo, error) {
	return m.infos, m.listErr
}

func (m *mockObjects) Get(_ context.Context, key string) (*domain.ObjectContent, error) {
	m.lastKey = key
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.content, nil
}

type mockCustomers struct {
	customers []domain.Customer
	err       error
}

func (m *mockCustomers) FindAll(_ context.Context) ([]domain.Customer, error) {
	return m.customers, m.err
}

func (m *mockCustomers) FindUpdatedAfter(_ context.Context, _ time.Time) ([]domain.Customer, error) {
	return m.customers, m.err
}

type mockOrders struct {
	orders []domain.Order
	err    error
}

func (m *mockOrders) FindAll(_ context.Context) ([]domain.Order, error) {
	return m.orders, m.err
}

func (m *mockOrders) FindChangedAfter(_ context.Context, _ time.Time) ([]domain.Order, error) {
	return m.orders, m.err
}

type routerFixture struct {
	runner    *mockRunner
	monitor   *mockMonitor
	scheduler *mockScheduler
	objects   *mockObjects
	customers *mockCustomers
	orders    *mockOrders
	router    *gin.Engine
}

func newRouterFixture() *routerFixture {
	f := &routerFixture{
		runner:    &mockRunner{},
		monitor:   &mockMonitor{},
		scheduler: &mockScheduler{schedule: domain.Schedule{Interval: 3 * time.Hour, Enabled: true}},
		objects:   &mockObjects{},
		customers: &mockCustomers{},
		orders:    &mockOrders{},
	}
	f.router = NewRouter(Deps{
		Runner:    f.runner,
		Monitor:   f.monitor,
		Scheduler: f.scheduler,
		Objects:   f.objects,
		Customers: f.customers,
		Orders:    f.orders,
	})
	return f
}

func (f *routerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func successfulRun() *domain.SyncRun {
	started := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	return &domain.SyncRun{
		ID:         "run-1",
		StartedAt:  started,
		FinishedAt: started.Add(time.Minute),
		Status:     domain.StatusSuccess,
		Items: []domain.SyncRunItem{
			{TableName: domain.TableCustomers, Country: "DE", RecordCount: 3, ObjectKey: "kunde/2025-03-10/DE/customers_DE_2025-03-10.csv"},
		},
	}
}

// --- Sync endpoint tests ---

func TestTriggerSyncSuccess(t *testing.T) {
	f := newRouterFixture()
	f.runner.run = successfulRun()

	rec := f.do(t, http.MethodPost, "/api/sync/run", nil)

	assert.Equal(t, http.StatusAccepted, rec.Code)

	var resp syncRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "run-1", resp.ID)
	assert.Equal(t, "SUCCESS", resp.Status)
	require.NotNil(t, resp.FinishedAt)
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "DE", resp.Items[0].Country)
}

func TestTriggerSyncConflictWhileRunning(t *testing.T) {
	f := newRouterFixture()
	f.runner.err = domain.ErrSyncInProgress

	rec := f.do(t, http.MethodPost, "/api/sync/run", nil)

	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestTriggerSyncFailureReturnsRun(t *testing.T) {
	f := newRouterFixture()
	failed := successfulRun()
	failed.Status = domain.StatusFailed
	failed.ErrorMessage = "upload failed"
	f.runner.run = failed
	f.runner.err = errors.New("upload failed")

	rec := f.do(t, http.MethodPost, "/api/sync/run", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp, "error")
	assert.Contains(t, resp, "run", "failed run details are included")
}

func TestListRuns(t *testing.T) {
	f := newRouterFixture()
	f.monitor.runs = []domain.SyncRun{*successfulRun()}

	rec := f.do(t, http.MethodGet, "/api/sync/runs?limit=5", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 5, f.monitor.lastLimit)

	var resp []syncRunResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "run-1", resp[0].ID)
}

func TestListRunsRejectsBadLimit(t *testing.T) {
	f := newRouterFixture()

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/sync/runs?limit=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodGet, "/api/sync/runs?limit=0", nil).Code)
}

func TestListStates(t *testing.T) {
	f := newRouterFixture()
	mark := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)
	f.monitor.states = []domain.SyncState{
		{TableName: domain.TableCustomers, LastSuccessfulSync: mark},
	}

	rec := f.do(t, http.MethodGet, "/api/sync/state", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []syncStateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, domain.TableCustomers, resp[0].TableName)
	assert.True(t, resp[0].LastSuccessfulSync.Equal(mark))
}

// --- Schedule endpoint tests ---

func TestGetSchedule(t *testing.T) {
	f := newRouterFixture()
	f.scheduler.schedule = domain.Schedule{Interval: 90 * time.Minute, Enabled: true}

	rec := f.do(t, http.MethodGet, "/api/sync/schedule", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp scheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 1, resp.Hours)
	assert.Equal(t, 30, resp.Minutes)
	assert.True(t, resp.Enabled)
}

func TestUpdateSchedule(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodPut, "/api/sync/schedule", scheduleRequest{Hours: 2, Minutes: 15})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2*time.Hour+15*time.Minute, f.scheduler.lastInterval)

	var resp scheduleResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Hours)
	assert.Equal(t, 15, resp.Minutes)
}

func TestUpdateScheduleRejectsInvalidInterval(t *testing.T) {
	f := newRouterFixture()
	f.scheduler.updateErr = domain.ErrInvalidInterval

	rec := f.do(t, http.MethodPut, "/api/sync/schedule", scheduleRequest{Hours: 0, Minutes: 0})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateScheduleRejectsMalformedBody(t *testing.T) {
	f := newRouterFixture()

	req := httptest.NewRequest(http.MethodPut, "/api/sync/schedule", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// --- Object endpoint tests ---

func TestListObjects(t *testing.T) {
	f := newRouterFixture()
	f.objects.infos = []domain.ObjectInfo{
		{Key: "kunde/2025-03-10/DE/customers_DE_2025-03-10.csv", Size: 128, LastModified: time.Now()},
	}

	rec := f.do(t, http.MethodGet, "/api/s3/objects", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []objectResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, int64(128), resp[0].Size)
}

func TestGetObjectContent(t *testing.T) {
	f := newRouterFixture()
	f.objects.content = &domain.ObjectContent{Data: []byte("a,b,c"), ContentType: "text/csv"}

	rec := f.do(t, http.MethodGet, "/api/s3/objects/content?key=kunde/2025-03-10/DE/customers_DE_2025-03-10.csv", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "a,b,c", rec.Body.String())
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, "kunde/2025-03-10/DE/customers_DE_2025-03-10.csv", f.objects.lastKey)
}

func TestGetObjectContentMissingKey(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(t, http.MethodGet, "/api/s3/objects/content", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetObjectContentNotFound(t *testing.T) {
	f := newRouterFixture()
	f.objects.getErr = domain.ErrObjectNotFound

	rec := f.do(t, http.MethodGet, "/api/s3/objects/content?key=missing.csv", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// --- Data endpoint tests ---

func TestListCustomers(t *testing.T) {
	f := newRouterFixture()
	f.customers.customers = []domain.Customer{
		{ID: "c1", CompanyName: "Alpha GmbH", Country: "DE"},
	}

	rec := f.do(t, http.MethodGet, "/api/customers", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []customerResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	assert.Equal(t, "Alpha GmbH", resp[0].CompanyName)
}

func TestListOrders(t *testing.T) {
	f := newRouterFixture()
	f.orders.orders = []domain.Order{
		{ID: "o1", ArticleNumber: "ART-1", Customer: &domain.Customer{ID: "c1"}},
		{ID: "o2", ArticleNumber: "ART-2"},
	}

	rec := f.do(t, http.MethodGet, "/api/orders", nil)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []orderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp, 2)
	assert.Equal(t, "c1", resp[0].CustomerID)
	assert.Empty(t, resp[1].CustomerID, "order without customer serializes an empty customer id")
}

func TestListOrdersFailure(t *testing.T) {
	f := newRouterFixture()
	f.orders.err = errors.New("database locked")

	rec := f.do(t, http.MethodGet, "/api/orders", nil)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
