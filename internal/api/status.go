package api

import (
	"sync"
	"time"

	"ytcommentsync/internal/model"
)

// StatusStore holds the latest per-channel reports for the status endpoint.
// Written by the sync loop after each cycle, read by HTTP handlers.
type StatusStore struct {
	mu        sync.RWMutex
	lastRunID string
	updatedAt time.Time
	reports   []model.ChannelReport
}

// StatusResponse is the /status payload.
type StatusResponse struct {
	LastRunID string                `json:"last_run_id,omitempty"`
	UpdatedAt *time.Time            `json:"updated_at,omitempty"`
	Channels  []model.ChannelReport `json:"channels"`
}

func NewStatusStore() *StatusStore {
	return &StatusStore{}
}

// Update replaces the stored reports with the outcome of a finished cycle.
func (s *StatusStore) Update(reports []model.ChannelReport) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reports = reports
	s.updatedAt = time.Now()
	if len(reports) > 0 {
		s.lastRunID = reports[0].RunID
	}
}

// Snapshot returns a copy of the current status.
func (s *StatusStore) Snapshot() StatusResponse {
	s.mu.RLock()
	defer s.mu.RUnlock()

	resp := StatusResponse{
		LastRunID: s.lastRunID,
		Channels:  make([]model.ChannelReport, len(s.reports)),
	}
	copy(resp.Channels, s.reports)
	if !s.updatedAt.IsZero() {
		t := s.updatedAt
		resp.UpdatedAt = &t
	}
	return resp
}
