package simulation

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	"labclimate/internal/journal"
	"labclimate/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Test doubles ----

// seqRand replays fixed values, cycling when exhausted.
type seqRand struct {
	vals []float64
	i    int
}

func (r *seqRand) Float64() float64 {
	v := r.vals[r.i%len(r.vals)]
	r.i++
	return v
}

// noJitter yields zero jitter and never triggers the random log line.
func noJitter() *seqRand { return &seqRand{vals: []float64{0.5}} }

type exporterStub struct {
	path    string
	err     error
	calls   int
	lastReq models.ExportRequest
	lastLen int
}

func (x *exporterStub) Export(req models.ExportRequest, entries []models.LogEntry) (string, error) {
	x.calls++
	x.lastReq = req
	x.lastLen = len(entries)
	return x.path, x.err
}

var testNow = time.Date(2025, time.January, 2, 12, 0, 0, 0, time.UTC)

func clock() time.Time { return testNow }

func newTestEngine(t *testing.T, r Rand, automation bool) (*Engine, *exporterStub) {
	t.Helper()
	x := &exporterStub{path: "/tmp/out.csv"}
	e := NewEngine(journal.New(journal.DefaultCapacity, clock), x, Options{
		Automation: automation,
		Rand:       r,
		Now:        clock,
	})
	return e, x
}

func lastMessage(t *testing.T, e *Engine) string {
	t.Helper()
	entries := e.Entries()
	require.NotEmpty(t, entries)
	return entries[len(entries)-1].Message
}

// ---- Tests ----

func TestNewEngine_PowerOnState(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)

	s := e.Snapshot()
	assert.Equal(t, InitialTempC, s.Reading.TemperatureC)
	assert.Equal(t, InitialHumidity, s.Reading.HumidityPct)
	assert.Equal(t, DefaultTargetC, s.Setpoint.TargetC)
	assert.Equal(t, DefaultThreshold, s.Setpoint.ThresholdC)
	assert.False(t, s.Controls.Running)
	assert.True(t, s.Controls.Notifications)
	assert.Equal(t, "System Ready", s.Status)
	assert.Len(t, s.History, HistoryLen)
	assert.Equal(t, models.BandDrift, s.Band) // 24.5 - 23

	lines := e.Entries()
	require.Len(t, lines, 5)
	assert.Equal(t, "System started at 2025-01-02 12:00:00", lines[0].String())
	assert.Equal(t, "Target temperature set to 23°C", lines[3].String())
	assert.Equal(t, "System running in automatic mode", lines[4].String())
}

func TestClassify(t *testing.T) {
	cases := []struct {
		err  float64
		want models.Band
	}{
		{2.1, models.BandHigh},
		{-2.1, models.BandLow},
		{0.4, models.BandOK},
		{-0.4, models.BandOK},
		{0.5, models.BandDrift},
		{2.0, models.BandDrift},
		{-2.0, models.BandDrift},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Classify(tc.err), "error %.1f", tc.err)
	}
}

func TestCorrection_FixedStepOutsideDeadband(t *testing.T) {
	assert.Equal(t, -CorrectionStepC, correction(25, 23))
	assert.Equal(t, CorrectionStepC, correction(21, 23))
	assert.Equal(t, 0.0, correction(23.2, 23))
	assert.Equal(t, 0.0, correction(22.8, 23))
}

func TestTick_IgnoredWhileStopped(t *testing.T) {
	e, _ := newTestEngine(t, &seqRand{vals: []float64{0.99}}, true)
	before := e.Snapshot()

	e.Tick()

	after := e.Snapshot()
	assert.Equal(t, before.Reading, after.Reading)
	assert.Len(t, e.Entries(), 5)
}

func TestTick_AutomationAppliesExactlyMinusStepAboveTarget(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)
	require.NoError(t, e.Start())
	e.reading.TemperatureC = e.setpoint.TargetC + 2

	e.Tick()

	s := e.Snapshot()
	assert.InDelta(t, e.setpoint.TargetC+2-CorrectionStepC, s.Reading.TemperatureC, 1e-9)
	assert.InDelta(t, 2.0, s.ErrorC, 1e-9)
	assert.Equal(t, models.BandDrift, s.Band)
}

func TestTick_AutomationHeatsBelowTarget(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)
	require.NoError(t, e.Start())
	e.reading.TemperatureC = 20

	e.Tick()

	assert.InDelta(t, 20.1, e.Snapshot().Reading.TemperatureC, 1e-9)
	assert.Equal(t, models.BandLow, e.Snapshot().Band)
}

func TestTick_NoCorrectionWithoutAutomation(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), false)
	require.NoError(t, e.Start())
	e.reading.TemperatureC = 25

	e.Tick()

	assert.InDelta(t, 25.0, e.Snapshot().Reading.TemperatureC, 1e-9)
}

func TestTick_JitterBounds(t *testing.T) {
	// 0.0 is the lowest value a uniform source can return
	e, _ := newTestEngine(t, &seqRand{vals: []float64{0.0}}, false)
	require.NoError(t, e.Start())

	e.Tick()

	s := e.Snapshot()
	assert.InDelta(t, InitialTempC-TempJitterC, s.Reading.TemperatureC, 1e-9)
	assert.InDelta(t, InitialHumidity-HumidityJitter, s.Reading.HumidityPct, 1e-9)
}

func TestTick_HumidityStaysClamped(t *testing.T) {
	for _, v := range []float64{0.0, 0.999999} {
		e, _ := newTestEngine(t, &seqRand{vals: []float64{v}}, true)
		require.NoError(t, e.Start())
		for i := 0; i < 200; i++ {
			e.Tick()
			h := e.Snapshot().Reading.HumidityPct
			require.GreaterOrEqual(t, h, MinHumidity)
			require.LessOrEqual(t, h, MaxHumidity)
		}
	}
}

func TestTick_LogsReadingOnLowRoll(t *testing.T) {
	// temp jitter, humidity jitter, log roll
	e, _ := newTestEngine(t, &seqRand{vals: []float64{0.5, 0.5, 0.1}}, false)
	require.NoError(t, e.Start())

	e.Tick()

	assert.Equal(t, "Temperature: 24.5°C, Humidity: 45%", lastMessage(t, e))
	assert.Equal(t, "Current: 24.5°C, Target: 23°C, Humidity: 45%", e.Snapshot().Status)
}

func TestTick_HistoryRollsAtFifty(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)
	require.NoError(t, e.Start())

	for i := 0; i < 3; i++ {
		e.Tick()
	}

	h := e.Snapshot().History
	require.Len(t, h, HistoryLen)
	assert.Equal(t, 3, h[0].Tick)
	assert.Equal(t, HistoryLen+2, h[len(h)-1].Tick)
	assert.Equal(t, HistoryLen+2, e.Snapshot().Reading.Tick)
}

func TestLogNeverExceedsCapacity(t *testing.T) {
	e, _ := newTestEngine(t, &seqRand{vals: []float64{0.0}}, true) // logs on every tick
	require.NoError(t, e.Start())

	for i := 0; i < 120; i++ {
		e.Tick()
		require.LessOrEqual(t, len(e.Entries()), journal.DefaultCapacity)
	}
	assert.Len(t, e.Entries(), journal.DefaultCapacity)
}

func TestStartStop(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)

	require.NoError(t, e.Start())
	assert.Equal(t, "System started", lastMessage(t, e))
	assert.ErrorIs(t, e.Start(), ErrAlreadyRunning)

	require.NoError(t, e.Stop())
	assert.Equal(t, "System stopped", lastMessage(t, e))
	assert.ErrorIs(t, e.Stop(), ErrAlreadyStopped)
}

func TestHVACToggles_RequireRunningSystem(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)

	assert.ErrorIs(t, e.ToggleCooling(), ErrSystemStopped)
	assert.ErrorIs(t, e.ToggleHeating(), ErrSystemStopped)
	assert.ErrorIs(t, e.ToggleFans(), ErrSystemStopped)

	require.NoError(t, e.Start())

	require.NoError(t, e.ToggleCooling())
	assert.Equal(t, "Cooling started", lastMessage(t, e))
	require.NoError(t, e.ToggleCooling())
	assert.Equal(t, "Cooling stopped", lastMessage(t, e))

	require.NoError(t, e.ToggleHeating())
	assert.Equal(t, "Heating started", lastMessage(t, e))
	assert.True(t, e.Snapshot().Controls.Heating)

	require.NoError(t, e.ToggleFans())
	assert.Equal(t, "Fans toggled", lastMessage(t, e))
	assert.True(t, e.Snapshot().Controls.Fans)
}

func TestSetTarget(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)

	require.NoError(t, e.SetTarget(25))
	assert.Equal(t, 25.0, e.Snapshot().Setpoint.TargetC)
	assert.Equal(t, "Target temperature changed to 25°C", lastMessage(t, e))

	for _, bad := range []float64{17, 31, 22.5, math.NaN(), math.Inf(1)} {
		assert.ErrorIs(t, e.SetTarget(bad), ErrTargetOutOfRange, "target %v", bad)
	}
	assert.Equal(t, 25.0, e.Snapshot().Setpoint.TargetC)
}

func TestSetThreshold(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)
	n := len(e.Entries())

	require.NoError(t, e.SetThreshold(4))
	assert.Equal(t, 4.0, e.Snapshot().Setpoint.ThresholdC)
	assert.Len(t, e.Entries(), n, "threshold changes are not logged")

	assert.ErrorIs(t, e.SetThreshold(0), ErrThresholdOutOfRange)
	assert.ErrorIs(t, e.SetThreshold(6), ErrThresholdOutOfRange)
	assert.ErrorIs(t, e.SetThreshold(math.NaN()), ErrThresholdOutOfRange)
	assert.ErrorIs(t, e.SetThreshold(math.Inf(-1)), ErrThresholdOutOfRange)
	assert.Equal(t, 4.0, e.Snapshot().Setpoint.ThresholdC)

	_, err := json.Marshal(e.Snapshot())
	assert.NoError(t, err, "snapshot must stay encodable")
}

func TestSetAutomationAndNotifications(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)

	e.SetAutomation(false)
	assert.False(t, e.Snapshot().Setpoint.Automation)
	assert.Equal(t, "Automation disabled", lastMessage(t, e))

	e.SetNotifications(false)
	assert.False(t, e.Snapshot().Controls.Notifications)
	assert.Equal(t, "Notifications disabled", lastMessage(t, e))

	e.SetNotifications(true)
	assert.Equal(t, "Notifications enabled", lastMessage(t, e))
}

func TestClearLog(t *testing.T) {
	e, _ := newTestEngine(t, noJitter(), true)

	e.ClearLog()

	entries := e.Entries()
	require.Len(t, entries, 1)
	assert.True(t, strings.HasPrefix(entries[0].Message, "Log cleared at "))
}

func TestExport_SuccessLogsBaseName(t *testing.T) {
	e, x := newTestEngine(t, noJitter(), true)

	res := e.Export(models.ExportRequest{Format: models.FormatCSV, Path: "/tmp/out"})

	assert.True(t, res.OK)
	assert.Equal(t, "/tmp/out.csv", res.Path)
	assert.Equal(t, 5, res.Entries)
	assert.Equal(t, 1, x.calls)
	assert.Equal(t, models.FormatCSV, x.lastReq.Format)
	assert.Equal(t, "Log exported to out.csv", lastMessage(t, e))
	assert.Equal(t, "Log successfully exported to /tmp/out.csv", e.Snapshot().Status)
}

func TestExport_FailureIsLoggedNotRaised(t *testing.T) {
	e, x := newTestEngine(t, noJitter(), true)
	x.err = errors.New("permission denied")
	before := len(e.Entries())

	res := e.Export(models.ExportRequest{Format: models.FormatText, Path: "/root/nope"})

	assert.False(t, res.OK)
	assert.Equal(t, "permission denied", res.Error)
	entries := e.Entries()
	require.Len(t, entries, before+1)
	assert.Contains(t, entries[len(entries)-1].Message, "Error exporting")
	assert.Equal(t, "Error exporting log: permission denied", e.Snapshot().Status)
}
