package handlers

import (
	"context"
	"net/http"

	"labclimate/internal/models"
	"labclimate/internal/service"

	"github.com/gin-gonic/gin"
)

// ---- Service Mocks ----

type mockAuth struct {
	genTokenToken string
	genTokenErr   error
	parseSubject  string
	parseErr      error

	lastGenPassword string
	lastParseToken  string
}

func (m *mockAuth) GenerateToken(password string) (string, error) {
	m.lastGenPassword = password
	return m.genTokenToken, m.genTokenErr
}
func (m *mockAuth) ParseToken(token string) (string, error) {
	m.lastParseToken = token
	return m.parseSubject, m.parseErr
}

type mockDashboard struct {
	err   error
	calls []string

	lastTarget        float64
	lastThreshold     float64
	lastAutomation    *bool
	lastNotifications *bool
}

func (m *mockDashboard) record(name string) error {
	m.calls = append(m.calls, name)
	return m.err
}

func (m *mockDashboard) Start(ctx context.Context) error         { return m.record("start") }
func (m *mockDashboard) Stop(ctx context.Context) error          { return m.record("stop") }
func (m *mockDashboard) ToggleCooling(ctx context.Context) error { return m.record("cooling") }
func (m *mockDashboard) ToggleHeating(ctx context.Context) error { return m.record("heating") }
func (m *mockDashboard) ToggleFans(ctx context.Context) error    { return m.record("fans") }
func (m *mockDashboard) SetTarget(ctx context.Context, c float64) error {
	m.lastTarget = c
	return m.record("target")
}
func (m *mockDashboard) SetThreshold(ctx context.Context, c float64) error {
	m.lastThreshold = c
	return m.record("threshold")
}
func (m *mockDashboard) SetAutomation(ctx context.Context, on bool) error {
	m.lastAutomation = &on
	return m.record("automation")
}
func (m *mockDashboard) SetNotifications(ctx context.Context, on bool) error {
	m.lastNotifications = &on
	return m.record("notifications")
}

type mockMonitoring struct {
	state models.Snapshot
	err   error
}

func (m *mockMonitoring) GetState(ctx context.Context) (models.Snapshot, error) {
	return m.state, m.err
}

type mockJournal struct {
	entries    []models.LogEntry
	listErr    error
	lastFilter service.LogFilter

	clearErr   error
	clearCalls int

	exportRes  models.ExportResult
	exportErr  error
	lastExport models.ExportRequest
}

func (m *mockJournal) List(ctx context.Context, f service.LogFilter) ([]models.LogEntry, error) {
	m.lastFilter = f
	return m.entries, m.listErr
}
func (m *mockJournal) Clear(ctx context.Context) error {
	m.clearCalls++
	return m.clearErr
}
func (m *mockJournal) Export(ctx context.Context, req models.ExportRequest) (models.ExportResult, error) {
	m.lastExport = req
	return m.exportRes, m.exportErr
}

// ---- Shared Test Helpers ----

func newTestRouter(s *service.Service) *gin.Engine {
	h := NewHandler(s, nil)
	gin.SetMode(gin.TestMode)
	return h.InitRoutes()
}

func authHeader(token string) http.Header {
	h := http.Header{}
	if token != "" {
		h.Set("Authorization", "Bearer "+token)
	}
	return h
}

func withAuth(req *http.Request, token string) *http.Request {
	for k, vv := range authHeader(token) {
		for _, v := range vv {
			req.Header.Add(k, v)
		}
	}
	return req
}
