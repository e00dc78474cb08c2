// Package simulation holds the dashboard state and the rules that advance it.
// Nothing here knows about HTTP or any display; callers drive the Engine through
// commands and read it through Snapshot.
package simulation

import (
	"fmt"
	"math"
	"time"

	"labclimate/internal/journal"
	"labclimate/internal/models"
)

// ----------- Simulation constants -----------
const (
	InitialTempC     = 24.5
	InitialHumidity  = 45.0
	DefaultTargetC   = 23.0
	DefaultThreshold = 2.0

	TempJitterC     = 0.5 // temperature += uniform(-0.5, 0.5)
	HumidityJitter  = 1.0 // humidity += uniform(-1, 1)
	MinHumidity     = 30.0
	MaxHumidity     = 70.0
	DeadbandC       = 0.2 // automation leaves ±0.2 around the target alone
	CorrectionStepC = 0.1 // single fixed nudge per tick
	LogProbability  = 0.2 // chance a tick writes a reading to the log

	BandWideC   = 2.0
	BandNarrowC = 0.5

	HistoryLen    = 50
	historySeedC  = 20.0
	historySeedRH = 45.0
)

const dateTimeLayout = "2006-01-02 15:04:05"

// Rand is the source of uniform [0,1) numbers used for jitter.
type Rand interface {
	Float64() float64
}

// Exporter serializes log entries. See package export.
type Exporter interface {
	Export(req models.ExportRequest, entries []models.LogEntry) (string, error)
}

// Options configures a new Engine. A zero TargetC or ThresholdC falls back to
// the defaults above.
type Options struct {
	TargetC    float64
	ThresholdC float64
	Automation bool
	Rand       Rand
	Now        func() time.Time
}

// Engine is not safe for concurrent use; see Loop.
type Engine struct {
	reading   models.Reading
	setpoint  models.Setpoint
	controls  models.Controls
	errorC    float64
	band      models.Band
	status    string
	history   []models.Point
	updatedAt time.Time

	log      *journal.Journal
	exporter Exporter
	rnd      Rand
	now      func() time.Time
}

// NewEngine builds the dashboard in its power-on state: system stopped,
// notifications on, and the boot lines in the log.
func NewEngine(log *journal.Journal, exporter Exporter, opts Options) *Engine {
	if opts.TargetC == 0 {
		opts.TargetC = DefaultTargetC
	}
	if opts.ThresholdC == 0 {
		opts.ThresholdC = DefaultThreshold
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Rand == nil {
		opts.Rand = NewRand(0)
	}

	e := &Engine{
		reading:  models.Reading{TemperatureC: InitialTempC, HumidityPct: InitialHumidity, Tick: HistoryLen - 1},
		setpoint: models.Setpoint{TargetC: opts.TargetC, ThresholdC: opts.ThresholdC, Automation: opts.Automation},
		controls: models.Controls{Notifications: true},
		status:   "System Ready",
		history:  make([]models.Point, 0, HistoryLen),
		log:      log,
		exporter: exporter,
		rnd:      opts.Rand,
		now:      opts.Now,
	}
	for i := 0; i < HistoryLen; i++ {
		e.history = append(e.history, models.Point{Tick: i, TemperatureC: historySeedC, HumidityPct: historySeedRH})
	}
	e.errorC = e.reading.TemperatureC - e.setpoint.TargetC
	e.band = Classify(e.errorC)
	e.updatedAt = e.now().UTC()
	e.bootLog()
	return e
}

func (e *Engine) bootLog() {
	e.log.AppendLine("System started at " + e.now().Format(dateTimeLayout))
	e.log.AppendLine("Temperature sensors initialized")
	e.log.AppendLine("HVAC system connected")
	e.log.AppendLine(fmt.Sprintf("Target temperature set to %s", formatDegrees(e.setpoint.TargetC)))
	if e.setpoint.Automation {
		e.log.AppendLine("System running in automatic mode")
	} else {
		e.log.AppendLine("System running in manual mode")
	}
}

// Classify maps a temperature error onto its display band.
func Classify(errC float64) models.Band {
	switch {
	case errC > BandWideC:
		return models.BandHigh
	case errC < -BandWideC:
		return models.BandLow
	case math.Abs(errC) < BandNarrowC:
		return models.BandOK
	default:
		return models.BandDrift
	}
}

// correction returns the automation nudge for a jittered temperature.
func correction(tempC, targetC float64) float64 {
	switch {
	case tempC > targetC+DeadbandC:
		return -CorrectionStepC
	case tempC < targetC-DeadbandC:
		return CorrectionStepC
	default:
		return 0
	}
}

func (e *Engine) uniform(span float64) float64 {
	return -span + 2*span*e.rnd.Float64()
}

// Tick advances the simulation by one period. Ticks while stopped are ignored.
func (e *Engine) Tick() {
	if !e.controls.Running {
		return
	}

	// error is taken before this tick's jitter, as displayed
	e.errorC = e.reading.TemperatureC - e.setpoint.TargetC
	e.band = Classify(e.errorC)

	temp := e.reading.TemperatureC + e.uniform(TempJitterC)
	if e.setpoint.Automation {
		temp += correction(temp, e.setpoint.TargetC)
	}

	humidity := clamp(e.reading.HumidityPct+e.uniform(HumidityJitter), MinHumidity, MaxHumidity)

	e.reading.TemperatureC = roundTo(temp, 1)
	e.reading.HumidityPct = roundTo(humidity, 0)
	e.reading.Tick++
	e.pushHistory()

	if e.rnd.Float64() < LogProbability {
		e.log.Append(fmt.Sprintf("Temperature: %.1f°C, Humidity: %.0f%%", e.reading.TemperatureC, e.reading.HumidityPct))
	}

	e.status = fmt.Sprintf("Current: %.1f°C, Target: %s, Humidity: %.0f%%",
		e.reading.TemperatureC, formatDegrees(e.setpoint.TargetC), e.reading.HumidityPct)
	e.updatedAt = e.now().UTC()
}

func (e *Engine) pushHistory() {
	e.history = append(e.history, models.Point{
		Tick:         e.reading.Tick,
		TemperatureC: e.reading.TemperatureC,
		HumidityPct:  e.reading.HumidityPct,
	})
	if over := len(e.history) - HistoryLen; over > 0 {
		e.history = append(e.history[:0], e.history[over:]...)
	}
}

// Snapshot copies the current state for the display layer.
func (e *Engine) Snapshot() models.Snapshot {
	hist := make([]models.Point, len(e.history))
	copy(hist, e.history)
	return models.Snapshot{
		Reading:   e.reading,
		Setpoint:  e.setpoint,
		Controls:  e.controls,
		ErrorC:    roundTo(e.errorC, 1),
		Band:      e.band,
		Status:    e.status,
		History:   hist,
		UpdatedAt: e.updatedAt,
	}
}

// Entries returns a copy of the system log.
func (e *Engine) Entries() []models.LogEntry {
	return e.log.Entries()
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundTo(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// formatDegrees prints whole setpoints without decimals ("23°C") and keeps one
// decimal otherwise.
func formatDegrees(c float64) string {
	if c == math.Trunc(c) {
		return fmt.Sprintf("%.0f°C", c)
	}
	return fmt.Sprintf("%.1f°C", c)
}
