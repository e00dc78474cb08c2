package simulation

import (
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"labclimate/internal/models"
)

// Setpoint limits.
const (
	MinTargetC    = 18.0
	MaxTargetC    = 30.0
	MinThresholdC = 1.0
	MaxThresholdC = 5.0
)

// Command errors.
var (
	ErrAlreadyRunning      = errors.New("system is already running")
	ErrAlreadyStopped      = errors.New("system is already stopped")
	ErrSystemStopped       = errors.New("system is stopped, start it first")
	ErrTargetOutOfRange    = fmt.Errorf("target temperature must be a whole number between %.0f and %.0f °C", MinTargetC, MaxTargetC)
	ErrThresholdOutOfRange = fmt.Errorf("threshold must be between %.0f and %.0f °C", MinThresholdC, MaxThresholdC)
)

// Start turns the system on and enables the HVAC toggles.
func (e *Engine) Start() error {
	if e.controls.Running {
		return ErrAlreadyRunning
	}
	e.controls.Running = true
	e.log.Append("System started")
	e.touch()
	return nil
}

// Stop turns the system off. Ticks are ignored until the next Start.
func (e *Engine) Stop() error {
	if !e.controls.Running {
		return ErrAlreadyStopped
	}
	e.controls.Running = false
	e.log.Append("System stopped")
	e.touch()
	return nil
}

// ToggleCooling flips the cooling unit.
func (e *Engine) ToggleCooling() error {
	if !e.controls.Running {
		return ErrSystemStopped
	}
	e.controls.Cooling = !e.controls.Cooling
	e.log.Append("Cooling " + startedOrStopped(e.controls.Cooling))
	e.touch()
	return nil
}

// ToggleHeating flips the heating unit.
func (e *Engine) ToggleHeating() error {
	if !e.controls.Running {
		return ErrSystemStopped
	}
	e.controls.Heating = !e.controls.Heating
	e.log.Append("Heating " + startedOrStopped(e.controls.Heating))
	e.touch()
	return nil
}

// ToggleFans flips the fans.
func (e *Engine) ToggleFans() error {
	if !e.controls.Running {
		return ErrSystemStopped
	}
	e.controls.Fans = !e.controls.Fans
	e.log.Append("Fans toggled")
	e.touch()
	return nil
}

// SetTarget changes the setpoint. Only whole degrees in range are accepted.
func (e *Engine) SetTarget(c float64) error {
	if !(c >= MinTargetC && c <= MaxTargetC) || c != math.Trunc(c) {
		return ErrTargetOutOfRange
	}
	e.setpoint.TargetC = c
	e.log.Append("Target temperature changed to " + formatDegrees(c))
	e.touch()
	return nil
}

// SetThreshold changes the tolerated band around the target. Not logged.
func (e *Engine) SetThreshold(c float64) error {
	// written so NaN fails too
	if !(c >= MinThresholdC && c <= MaxThresholdC) {
		return ErrThresholdOutOfRange
	}
	e.setpoint.ThresholdC = c
	e.touch()
	return nil
}

// SetAutomation enables or disables the setpoint nudge.
func (e *Engine) SetAutomation(on bool) {
	e.setpoint.Automation = on
	e.log.Append("Automation " + enabledOrDisabled(on))
	e.touch()
}

// SetNotifications enables or disables operator notifications.
func (e *Engine) SetNotifications(on bool) {
	e.controls.Notifications = on
	e.log.Append("Notifications " + enabledOrDisabled(on))
	e.touch()
}

// ClearLog empties the log, leaving a marker line.
func (e *Engine) ClearLog() {
	e.log.Clear()
	e.touch()
}

// Export writes the current log. It never fails: errors end up in the log
// and in the status line of the returned result.
func (e *Engine) Export(req models.ExportRequest) models.ExportResult {
	entries := e.log.Entries()
	path, err := e.exporter.Export(req, entries)
	if err != nil {
		msg := "Error exporting log: " + err.Error()
		e.log.Append(msg)
		e.status = msg
		e.touch()
		return models.ExportResult{Path: path, Entries: len(entries), Status: msg, Error: err.Error()}
	}

	e.log.Append("Log exported to " + filepath.Base(path))
	e.status = "Log successfully exported to " + path
	e.touch()
	return models.ExportResult{OK: true, Path: path, Entries: len(entries), Status: e.status}
}

func (e *Engine) touch() {
	e.updatedAt = e.now().UTC()
}

func startedOrStopped(on bool) string {
	if on {
		return "started"
	}
	return "stopped"
}

func enabledOrDisabled(on bool) string {
	if on {
		return "enabled"
	}
	return "disabled"
}
