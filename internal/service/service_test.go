package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"labclimate/internal/export"
	"labclimate/internal/journal"
	"labclimate/internal/models"
	"labclimate/internal/simulation"
)

// ---- Test doubles ----

// directExec runs commands inline, standing in for the loop goroutine.
type directExec struct {
	engine *simulation.Engine
	err    error
	calls  int
}

func (d *directExec) Do(ctx context.Context, fn func(*simulation.Engine)) error {
	d.calls++
	if d.err != nil {
		return d.err
	}
	fn(d.engine)
	return nil
}

type halfRand struct{}

func (halfRand) Float64() float64 { return 0.5 }

type exporterStub struct {
	path string
	err  error
	req  models.ExportRequest
}

func (x *exporterStub) Export(req models.ExportRequest, entries []models.LogEntry) (string, error) {
	x.req = req
	return x.path, x.err
}

func newTestExec(t *testing.T) (*directExec, *exporterStub) {
	t.Helper()
	x := &exporterStub{path: "/tmp/log.txt"}
	now := func() time.Time { return time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC) }
	e := simulation.NewEngine(journal.New(journal.DefaultCapacity, now), x, simulation.Options{
		Automation: true,
		Rand:       halfRand{},
		Now:        now,
	})
	return &directExec{engine: e}, x
}

// ---- Dashboard ----

func TestDashboardService_CommandsReachEngine(t *testing.T) {
	ctx := context.Background()
	exec, _ := newTestExec(t)
	d := NewDashboardService(exec)

	if err := d.ToggleFans(ctx); !errors.Is(err, simulation.ErrSystemStopped) {
		t.Fatalf("expected ErrSystemStopped, got %v", err)
	}
	if err := d.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := d.Start(ctx); !errors.Is(err, simulation.ErrAlreadyRunning) {
		t.Fatalf("expected ErrAlreadyRunning, got %v", err)
	}
	for name, fn := range map[string]func(context.Context) error{
		"cooling": d.ToggleCooling,
		"heating": d.ToggleHeating,
		"fans":    d.ToggleFans,
	} {
		if err := fn(ctx); err != nil {
			t.Fatalf("%s: %v", name, err)
		}
	}
	if err := d.SetTarget(ctx, 26); err != nil {
		t.Fatalf("SetTarget: %v", err)
	}
	if err := d.SetTarget(ctx, 40); !errors.Is(err, simulation.ErrTargetOutOfRange) {
		t.Fatalf("expected ErrTargetOutOfRange, got %v", err)
	}
	if err := d.SetThreshold(ctx, 3); err != nil {
		t.Fatalf("SetThreshold: %v", err)
	}
	if err := d.SetAutomation(ctx, false); err != nil {
		t.Fatalf("SetAutomation: %v", err)
	}
	if err := d.SetNotifications(ctx, false); err != nil {
		t.Fatalf("SetNotifications: %v", err)
	}
	if err := d.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}

	snap := exec.engine.Snapshot()
	if snap.Controls.Running || !snap.Controls.Cooling || !snap.Controls.Heating || !snap.Controls.Fans {
		t.Errorf("unexpected controls: %+v", snap.Controls)
	}
	if snap.Setpoint.TargetC != 26 || snap.Setpoint.ThresholdC != 3 || snap.Setpoint.Automation {
		t.Errorf("unexpected setpoint: %+v", snap.Setpoint)
	}
	if snap.Controls.Notifications {
		t.Error("notifications should be off")
	}
}

func TestDashboardService_PropagatesExecutorError(t *testing.T) {
	exec, _ := newTestExec(t)
	exec.err = context.Canceled
	d := NewDashboardService(exec)

	if err := d.Start(context.Background()); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if exec.engine.Snapshot().Controls.Running {
		t.Fatal("engine must not change when the executor fails")
	}
}

// ---- Monitoring ----

func TestMonitoringService_GetState(t *testing.T) {
	exec, _ := newTestExec(t)
	m := NewMonitoringService(exec)

	st, err := m.GetState(context.Background())
	if err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if st.Reading.TemperatureC != simulation.InitialTempC || st.Status != "System Ready" {
		t.Fatalf("unexpected snapshot: %+v", st)
	}

	exec.err = errors.New("loop down")
	if _, err := m.GetState(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

// ---- Journal ----

func TestJournalService_ListFilterAndLimit(t *testing.T) {
	ctx := context.Background()
	exec, _ := newTestExec(t)
	j := NewJournalService(exec)

	all, err := j.List(ctx, LogFilter{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(all) != 5 {
		t.Fatalf("want 5 boot lines, got %d", len(all))
	}

	hits, _ := j.List(ctx, LogFilter{Contains: "  TEMPERATURE "})
	if len(hits) != 2 {
		t.Fatalf("want 2 matches, got %d: %+v", len(hits), hits)
	}

	last, _ := j.List(ctx, LogFilter{Limit: 2})
	if len(last) != 2 || last[1].Message != "System running in automatic mode" {
		t.Fatalf("unexpected tail: %+v", last)
	}
}

func TestJournalService_Clear(t *testing.T) {
	exec, _ := newTestExec(t)
	j := NewJournalService(exec)

	if err := j.Clear(context.Background()); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	got, _ := j.List(context.Background(), LogFilter{})
	if len(got) != 1 || !strings.HasPrefix(got[0].Message, "Log cleared at") {
		t.Fatalf("unexpected log after clear: %+v", got)
	}
}

func TestJournalService_Export(t *testing.T) {
	ctx := context.Background()

	t.Run("normalizes format", func(t *testing.T) {
		exec, x := newTestExec(t)
		res, err := NewJournalService(exec).Export(ctx, models.ExportRequest{Format: "TXT"})
		if err != nil {
			t.Fatalf("Export: %v", err)
		}
		if !res.OK || x.req.Format != models.FormatText {
			t.Fatalf("unexpected result %+v / req %+v", res, x.req)
		}
	})

	t.Run("rejects unknown format before touching the engine", func(t *testing.T) {
		exec, _ := newTestExec(t)
		_, err := NewJournalService(exec).Export(ctx, models.ExportRequest{Format: "xls"})
		if !errors.Is(err, export.ErrUnknownFormat) {
			t.Fatalf("expected ErrUnknownFormat, got %v", err)
		}
		if exec.calls != 0 {
			t.Fatalf("executor should not be called, got %d calls", exec.calls)
		}
	})

	t.Run("write failure is a result, not an error", func(t *testing.T) {
		exec, x := newTestExec(t)
		x.err = errors.New("read-only file system")
		res, err := NewJournalService(exec).Export(ctx, models.ExportRequest{Format: models.FormatCSV})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.OK || !strings.Contains(res.Status, "Error exporting") {
			t.Fatalf("unexpected result: %+v", res)
		}
	})
}

func TestJournalService_ExportToUnwritablePathWithRealExporter(t *testing.T) {
	now := func() time.Time { return time.Date(2025, 2, 3, 8, 0, 0, 0, time.UTC) }
	x := export.NewExporter(t.TempDir())
	e := simulation.NewEngine(journal.New(journal.DefaultCapacity, now), x, simulation.Options{Rand: halfRand{}, Now: now})
	j := NewJournalService(&directExec{engine: e})
	before := len(e.Entries())

	res, err := j.Export(context.Background(), models.ExportRequest{
		Format: models.FormatCSV,
		Path:   "/nonexistent-dir/sub/log",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.OK {
		t.Fatal("expected failed result")
	}
	entries := e.Entries()
	if len(entries) != before+1 || !strings.Contains(entries[len(entries)-1].Message, "Error exporting") {
		t.Fatalf("expected one error entry, got %+v", entries[before:])
	}
}

// ---- Wiring ----

func TestNewService_WiresLoop(t *testing.T) {
	exec, _ := newTestExec(t)
	loop := simulation.NewLoop(exec.engine)
	auth := newTestAuth(t)

	s := NewService(loop, auth)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Simulator.Run(ctx, time.Hour)

	if err := s.Dashboard.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	st, err := s.Monitoring.GetState(ctx)
	if err != nil || !st.Controls.Running {
		t.Fatalf("state after start: %+v, %v", st, err)
	}
}
