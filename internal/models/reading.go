package models

import "time"

// Reading is the simulated sensor value at a given tick.
type Reading struct {
	TemperatureC float64 `json:"temperature_c"` // °C
	HumidityPct  float64 `json:"humidity_pct"`  // %
	Tick         int     `json:"tick"`
}

// Setpoint is what the automation tracks. Changed only by the operator.
type Setpoint struct {
	TargetC    float64 `json:"target_c"`    // °C
	ThresholdC float64 `json:"threshold_c"` // ±°C
	Automation bool    `json:"automation"`
}

// Controls mirrors the dashboard toggles.
type Controls struct {
	Running       bool `json:"running"`
	Cooling       bool `json:"cooling"`
	Heating       bool `json:"heating"`
	Fans          bool `json:"fans"`
	Notifications bool `json:"notifications"`
}

// Band classifies the temperature error for display.
type Band string

const (
	BandHigh  Band = "high"  // error > 2
	BandLow   Band = "low"   // error < -2
	BandOK    Band = "ok"    // |error| < 0.5
	BandDrift Band = "drift" // anything else
)

// Point is one sample of the trend history.
type Point struct {
	Tick         int     `json:"tick"`
	TemperatureC float64 `json:"temperature_c"`
	HumidityPct  float64 `json:"humidity_pct"`
}

// Snapshot is a read-only copy of the dashboard handed to the display layer.
type Snapshot struct {
	Reading   Reading   `json:"reading"`
	Setpoint  Setpoint  `json:"setpoint"`
	Controls  Controls  `json:"controls"`
	ErrorC    float64   `json:"error_c"`
	Band      Band      `json:"band"`
	Status    string    `json:"status"`
	History   []Point   `json:"history,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
