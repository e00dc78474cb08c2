package service

import (
	"context"

	"labclimate/internal/simulation"
)

type DashboardService struct {
	exec Executor
}

func NewDashboardService(exec Executor) *DashboardService {
	return &DashboardService{exec: exec}
}

// run executes a fallible command on the loop, returning either the context
// error or the command's own error.
func (s *DashboardService) run(ctx context.Context, cmd func(*simulation.Engine) error) error {
	var cmdErr error
	if err := s.exec.Do(ctx, func(e *simulation.Engine) { cmdErr = cmd(e) }); err != nil {
		return err
	}
	return cmdErr
}

func (s *DashboardService) Start(ctx context.Context) error {
	return s.run(ctx, (*simulation.Engine).Start)
}

func (s *DashboardService) Stop(ctx context.Context) error {
	return s.run(ctx, (*simulation.Engine).Stop)
}

func (s *DashboardService) ToggleCooling(ctx context.Context) error {
	return s.run(ctx, (*simulation.Engine).ToggleCooling)
}

func (s *DashboardService) ToggleHeating(ctx context.Context) error {
	return s.run(ctx, (*simulation.Engine).ToggleHeating)
}

func (s *DashboardService) ToggleFans(ctx context.Context) error {
	return s.run(ctx, (*simulation.Engine).ToggleFans)
}

func (s *DashboardService) SetTarget(ctx context.Context, c float64) error {
	return s.run(ctx, func(e *simulation.Engine) error { return e.SetTarget(c) })
}

func (s *DashboardService) SetThreshold(ctx context.Context, c float64) error {
	return s.run(ctx, func(e *simulation.Engine) error { return e.SetThreshold(c) })
}

func (s *DashboardService) SetAutomation(ctx context.Context, on bool) error {
	return s.exec.Do(ctx, func(e *simulation.Engine) { e.SetAutomation(on) })
}

func (s *DashboardService) SetNotifications(ctx context.Context, on bool) error {
	return s.exec.Do(ctx, func(e *simulation.Engine) { e.SetNotifications(on) })
}
