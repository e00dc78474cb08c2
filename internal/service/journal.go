package service

import (
	"context"
	"strings"

	"labclimate/internal/export"
	"labclimate/internal/models"
	"labclimate/internal/simulation"
)

type JournalService struct {
	exec Executor
}

func NewJournalService(exec Executor) *JournalService {
	return &JournalService{exec: exec}
}

// normalizeFilter trims the search term and lowercases it for matching.
func normalizeFilter(f LogFilter) LogFilter {
	f.Contains = strings.ToLower(strings.TrimSpace(f.Contains))
	if f.Limit < 0 {
		f.Limit = 0
	}
	return f
}

// List returns log entries oldest first, filtered and limited.
func (s *JournalService) List(ctx context.Context, f LogFilter) ([]models.LogEntry, error) {
	var entries []models.LogEntry
	if err := s.exec.Do(ctx, func(e *simulation.Engine) { entries = e.Entries() }); err != nil {
		return nil, err
	}

	f = normalizeFilter(f)
	if f.Contains != "" {
		kept := entries[:0]
		for _, e := range entries {
			if strings.Contains(strings.ToLower(e.String()), f.Contains) {
				kept = append(kept, e)
			}
		}
		entries = kept
	}
	if f.Limit > 0 && len(entries) > f.Limit {
		entries = entries[len(entries)-f.Limit:]
	}
	return entries, nil
}

// Clear empties the log, leaving the "Log cleared at" marker.
func (s *JournalService) Clear(ctx context.Context) error {
	return s.exec.Do(ctx, (*simulation.Engine).ClearLog)
}

// Export validates the format up front; write failures after that are
// reported in the result, not as an error.
func (s *JournalService) Export(ctx context.Context, req models.ExportRequest) (models.ExportResult, error) {
	format, err := export.ParseFormat(string(req.Format))
	if err != nil {
		return models.ExportResult{}, err
	}
	req.Format = format

	var res models.ExportResult
	if err := s.exec.Do(ctx, func(e *simulation.Engine) { res = e.Export(req) }); err != nil {
		return models.ExportResult{}, err
	}
	return res, nil
}
