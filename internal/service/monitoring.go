package service

import (
	"context"

	"labclimate/internal/models"
	"labclimate/internal/simulation"
)

type MonitoringService struct {
	exec Executor
}

func NewMonitoringService(exec Executor) *MonitoringService {
	return &MonitoringService{exec: exec}
}

// GetState returns a copy of the dashboard taken on the loop goroutine.
func (s *MonitoringService) GetState(ctx context.Context) (models.Snapshot, error) {
	var snap models.Snapshot
	if err := s.exec.Do(ctx, func(e *simulation.Engine) { snap = e.Snapshot() }); err != nil {
		return models.Snapshot{}, err
	}
	return snap, nil
}
