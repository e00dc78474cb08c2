package service

import (
	"context"
	"time"

	"labclimate/internal/models"
	"labclimate/internal/simulation"
)

// Authorization guards the control API with the operator password.
type Authorization interface {
	GenerateToken(password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Dashboard exposes the operator commands (the buttons and sliders).
type Dashboard interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	ToggleCooling(ctx context.Context) error
	ToggleHeating(ctx context.Context) error
	ToggleFans(ctx context.Context) error
	SetTarget(ctx context.Context, c float64) error
	SetThreshold(ctx context.Context, c float64) error
	SetAutomation(ctx context.Context, on bool) error
	SetNotifications(ctx context.Context, on bool) error
}

// Monitoring exposes read-only state (reading, setpoint, controls, trend).
type Monitoring interface {
	GetState(ctx context.Context) (models.Snapshot, error)
}

// Journal exposes the system log: listing, clearing and exporting.
type Journal interface {
	List(ctx context.Context, f LogFilter) ([]models.LogEntry, error)
	Clear(ctx context.Context) error
	Export(ctx context.Context, req models.ExportRequest) (models.ExportResult, error)
}

// Simulator runs the loop that owns the engine.
// Stop via context cancellation in main() for graceful shutdown.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Executor runs fn against the engine on its owning goroutine.
type Executor interface {
	Do(ctx context.Context, fn func(*simulation.Engine)) error
}

// Service aggregates all sub-services.
type Service struct {
	Dashboard
	Monitoring
	Journal
	Simulator
	Authorization
}

// NewService wires the simulation loop and auth into concrete services.
func NewService(loop *simulation.Loop, auth Authorization) *Service {
	return &Service{
		Dashboard:     NewDashboardService(loop),
		Monitoring:    NewMonitoringService(loop),
		Journal:       NewJournalService(loop),
		Simulator:     loop,
		Authorization: auth,
	}
}
