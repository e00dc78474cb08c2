package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"labclimate/internal/models"
	"labclimate/internal/service"
	"labclimate/internal/simulation"
)

func TestHealth(t *testing.T) {
	r := newTestRouter(&service.Service{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status=%d", w.Code)
	}
}

func TestDashboardHandlers_CommandsAndState(t *testing.T) {
	mon := &mockMonitoring{state: models.Snapshot{
		Reading:  models.Reading{TemperatureC: 24.1, HumidityPct: 47},
		Controls: models.Controls{Running: true},
		Band:     models.BandDrift,
	}}
	dash := &mockDashboard{}
	s := &service.Service{
		Authorization: &mockAuth{parseSubject: "operator"},
		Monitoring:    mon,
		Dashboard:     dash,
	}
	r := newTestRouter(s)

	// state requires auth
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/state", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without auth, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodGet, "/api/v1/state", nil), "valid"))
	if w.Code != http.StatusOK {
		t.Fatalf("state status=%d, body=%s", w.Code, w.Body.String())
	}
	var st models.Snapshot
	if err := json.Unmarshal(w.Body.Bytes(), &st); err != nil {
		t.Fatalf("unmarshal state: %v", err)
	}
	if st.Reading.TemperatureC != 24.1 || !st.Controls.Running {
		t.Fatalf("unexpected state: %+v", st)
	}

	posts := []struct {
		path   string
		call   string
		status string
	}{
		{"/api/v1/system/start", "start", statusStarted},
		{"/api/v1/hvac/cooling", "cooling", statusToggled},
		{"/api/v1/hvac/heating", "heating", statusToggled},
		{"/api/v1/hvac/fans", "fans", statusToggled},
		{"/api/v1/system/stop", "stop", statusStopped},
	}
	for _, p := range posts {
		w = httptest.NewRecorder()
		r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, p.path, nil), "valid"))
		if w.Code != http.StatusOK {
			t.Fatalf("%s status=%d body=%s", p.path, w.Code, w.Body.String())
		}
		var resp struct {
			Status  string          `json:"status"`
			Command string          `json:"command"`
			State   models.Snapshot `json:"state"`
		}
		_ = json.Unmarshal(w.Body.Bytes(), &resp)
		if resp.Status != p.status || resp.Command != p.call {
			t.Fatalf("%s: unexpected response %+v", p.path, resp)
		}
		if resp.State.Reading.HumidityPct != 47 {
			t.Fatalf("%s: state missing from response", p.path)
		}
	}
	if fmt.Sprint(dash.calls) != "[start cooling heating fans stop]" {
		t.Fatalf("unexpected call order: %v", dash.calls)
	}
}

func TestDashboardHandlers_Settings(t *testing.T) {
	dash := &mockDashboard{}
	s := &service.Service{
		Authorization: &mockAuth{},
		Monitoring:    &mockMonitoring{},
		Dashboard:     dash,
	}
	r := newTestRouter(s)

	put := func(path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, withAuth(req, "valid"))
		return w
	}

	if w := put("/api/v1/settings/target", `{"value":26}`); w.Code != http.StatusOK {
		t.Fatalf("target status=%d", w.Code)
	}
	if dash.lastTarget != 26 {
		t.Fatalf("target not passed: %v", dash.lastTarget)
	}
	if w := put("/api/v1/settings/threshold", `{"value":3}`); w.Code != http.StatusOK || dash.lastThreshold != 3 {
		t.Fatalf("threshold status=%d value=%v", w.Code, dash.lastThreshold)
	}
	if w := put("/api/v1/settings/automation", `{"value":false}`); w.Code != http.StatusOK || dash.lastAutomation == nil || *dash.lastAutomation {
		t.Fatalf("automation status=%d", w.Code)
	}
	if w := put("/api/v1/settings/notifications", `{"value":true}`); w.Code != http.StatusOK || dash.lastNotifications == nil || !*dash.lastNotifications {
		t.Fatalf("notifications status=%d", w.Code)
	}

	// missing value → 400 before reaching the service
	before := len(dash.calls)
	if w := put("/api/v1/settings/target", `{}`); w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing value, got %d", w.Code)
	}
	if len(dash.calls) != before {
		t.Fatal("service must not be called on bad body")
	}
}

func TestDashboardHandlers_ErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{simulation.ErrSystemStopped, http.StatusConflict},
		{simulation.ErrAlreadyRunning, http.StatusConflict},
		{simulation.ErrTargetOutOfRange, http.StatusBadRequest},
		{fmt.Errorf("loop: %w", simulation.ErrThresholdOutOfRange), http.StatusBadRequest},
		{simulation.ErrLoopStopped, http.StatusServiceUnavailable},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		dash := &mockDashboard{err: tc.err}
		r := newTestRouter(&service.Service{Authorization: &mockAuth{}, Monitoring: &mockMonitoring{}, Dashboard: dash})

		w := httptest.NewRecorder()
		r.ServeHTTP(w, withAuth(httptest.NewRequest(http.MethodPost, "/api/v1/hvac/fans", nil), "valid"))
		if w.Code != tc.want {
			t.Errorf("%v: got %d, want %d", tc.err, w.Code, tc.want)
		}
	}
}
