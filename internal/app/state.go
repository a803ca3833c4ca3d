// Package app holds the state shared by every request of a running server.
package app

import (
	"sync"

	"github.com/jmoiron/sqlx"
)

// State is created once at startup and injected into handlers.
type State struct {
	HealthCheckResponse string
	DB                  *sqlx.DB

	mu     sync.Mutex
	visits int
}

// NewState builds the shared state around an open pool.
func NewState(healthMessage string, db *sqlx.DB) *State {
	return &State{HealthCheckResponse: healthMessage, DB: db}
}

// RecordVisit increments the visit counter and returns the new value.
func (s *State) RecordVisit() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visits++
	return s.visits
}

// VisitCount returns the current counter value.
func (s *State) VisitCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visits
}
