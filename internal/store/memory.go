package store

import (
	"context"
	"sort"
	"sync"
)

// MemoryStore implements Store with in-memory storage. The calculator keeps
// no durable state; scenarios live for the lifetime of the process.
type MemoryStore struct {
	mu        sync.RWMutex
	scenarios map[string]*Scenario
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		scenarios: make(map[string]*Scenario),
	}
}

// CreateScenario stores a scenario. The caller is responsible for assigning
// the ID and CreatedAt.
func (s *MemoryStore) CreateScenario(_ context.Context, scenario *Scenario) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *scenario
	s.scenarios[scenario.ID] = &cp
	return nil
}

// GetScenario retrieves a scenario by ID.
func (s *MemoryStore) GetScenario(_ context.Context, id string) (*Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	scenario, ok := s.scenarios[id]
	if !ok {
		return nil, ErrScenarioNotFound
	}
	cp := *scenario
	return &cp, nil
}

// ListScenarios returns all scenarios, oldest first, with ID as tiebreaker.
func (s *MemoryStore) ListScenarios(_ context.Context) ([]*Scenario, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Scenario, 0, len(s.scenarios))
	for _, scenario := range s.scenarios {
		cp := *scenario
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// DeleteScenario removes a scenario by ID.
func (s *MemoryStore) DeleteScenario(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.scenarios[id]; !ok {
		return ErrScenarioNotFound
	}
	delete(s.scenarios, id)
	return nil
}
