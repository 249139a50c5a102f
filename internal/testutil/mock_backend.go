// Package testutil provides test doubles for the remote monitoring API.
package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/waterwatch/dashboard/internal/backend"
	"github.com/waterwatch/dashboard/internal/models"
)

// MockBackend is a configurable in-memory stand-in for the remote
// monitoring API. Zero value is not usable; create with NewMockBackend.
type MockBackend struct {
	mu sync.Mutex

	Stations        []models.Station
	ParamsByStation map[int64][]models.Parameter
	SeriesResp      *backend.SeriesResponse
	Dashboards      map[string]*backend.DashboardDocument
	LoginResult     *backend.LoginResult

	// Err, when set, is returned by every call.
	Err error

	// Recorded calls for assertions.
	SeriesRequests  []*backend.SeriesRequest
	SaveRequests    []*backend.SaveDashboardRequest
	ParamCalls      []int64
	DeletedUIDs     []string
	nextCreatedUID  int
}

// NewMockBackend creates an empty mock.
func NewMockBackend() *MockBackend {
	return &MockBackend{
		ParamsByStation: make(map[int64][]models.Parameter),
		Dashboards:      make(map[string]*backend.DashboardDocument),
		LoginResult:     &backend.LoginResult{Token: "test-token", UserID: 1, Name: "Test User"},
	}
}

func (m *MockBackend) Login(ctx context.Context, email, password string) (*backend.LoginResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.LoginResult, nil
}

func (m *MockBackend) ListStations(ctx context.Context, token string) ([]models.Station, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Stations, nil
}

func (m *MockBackend) ParametersByTarget(ctx context.Context, token string, stationID int64) ([]models.Parameter, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.ParamCalls = append(m.ParamCalls, stationID)
	return m.ParamsByStation[stationID], nil
}

func (m *MockBackend) QuerySeries(ctx context.Context, token string, req *backend.SeriesRequest) (*backend.SeriesResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.SeriesRequests = append(m.SeriesRequests, req)
	if m.SeriesResp != nil {
		return m.SeriesResp, nil
	}
	return &backend.SeriesResponse{Results: []backend.SeriesResult{}}, nil
}

// SeriesCallCount returns how many series queries were issued.
func (m *MockBackend) SeriesCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.SeriesRequests)
}

// LastSeriesRequest returns the most recent series query, or nil.
func (m *MockBackend) LastSeriesRequest() *backend.SeriesRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SeriesRequests) == 0 {
		return nil
	}
	return m.SeriesRequests[len(m.SeriesRequests)-1]
}

func (m *MockBackend) ListDashboards(ctx context.Context, token string, createdBy int64) ([]models.DashboardMeta, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	var list []models.DashboardMeta
	for uid, doc := range m.Dashboards {
		list = append(list, models.DashboardMeta{
			UID:       uid,
			Name:      doc.Name,
			CreatedBy: doc.CreatedBy,
			Version:   doc.Version,
		})
	}
	return list, nil
}

func (m *MockBackend) GetDashboard(ctx context.Context, token, uid string, createdBy int64) (*backend.DashboardDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	doc, ok := m.Dashboards[uid]
	if !ok {
		return nil, fmt.Errorf("dashboard not found: %s", uid)
	}
	return doc, nil
}

func (m *MockBackend) CreateDashboard(ctx context.Context, token string, req *backend.SaveDashboardRequest) (*backend.DashboardDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.SaveRequests = append(m.SaveRequests, req)
	m.nextCreatedUID++
	uid := fmt.Sprintf("uid-%d", m.nextCreatedUID)
	doc := &backend.DashboardDocument{
		UID:                 uid,
		Name:                req.Dashboard.Name,
		LayoutConfiguration: req.Dashboard.LayoutConfiguration,
		Version:             req.Dashboard.Version,
		CreatedBy:           req.Dashboard.CreatedBy,
	}
	m.Dashboards[uid] = doc
	return doc, nil
}

func (m *MockBackend) UpdateDashboard(ctx context.Context, token, uid string, req *backend.SaveDashboardRequest) (*backend.DashboardDocument, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	m.SaveRequests = append(m.SaveRequests, req)
	doc := &backend.DashboardDocument{
		UID:                 uid,
		Name:                req.Dashboard.Name,
		LayoutConfiguration: req.Dashboard.LayoutConfiguration,
		Version:             req.Dashboard.Version,
		CreatedBy:           req.Dashboard.CreatedBy,
	}
	m.Dashboards[uid] = doc
	return doc, nil
}

func (m *MockBackend) DeleteDashboard(ctx context.Context, token, uid string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.Dashboards[uid]; !ok {
		return fmt.Errorf("dashboard not found: %s", uid)
	}
	delete(m.Dashboards, uid)
	m.DeletedUIDs = append(m.DeletedUIDs, uid)
	return nil
}

// LastSaveRequest returns the most recent create/update payload, or nil.
func (m *MockBackend) LastSaveRequest() *backend.SaveDashboardRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.SaveRequests) == 0 {
		return nil
	}
	return m.SaveRequests[len(m.SaveRequests)-1]
}
