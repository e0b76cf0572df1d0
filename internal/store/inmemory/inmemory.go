// Package inmemory is a Store backed by plain slices, used by tests and by
// single-process deployments with no durable audit requirement.
package inmemory

import (
	"context"
	"sync"

	"github.com/fabricwire/rewire/internal/store"
)

type Store struct {
	mu         sync.Mutex
	switches   []store.SwitchRecord
	links      []store.LinkRecord
	expansions []store.ExpansionRecord
}

func New() *Store {
	return &Store{}
}

func (s *Store) RecordSwitch(_ context.Context, rec store.SwitchRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.switches = append(s.switches, rec)
	return nil
}

func (s *Store) RecordLink(_ context.Context, rec store.LinkRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.links = append(s.links, rec)
	return nil
}

func (s *Store) RecordExpansion(_ context.Context, rec store.ExpansionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expansions = append(s.expansions, rec)
	return nil
}

func (s *Store) ListSwitches(_ context.Context) ([]store.SwitchRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.SwitchRecord, len(s.switches))
	copy(out, s.switches)
	return out, nil
}

func (s *Store) ListExpansions(_ context.Context) ([]store.ExpansionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]store.ExpansionRecord, len(s.expansions))
	copy(out, s.expansions)
	return out, nil
}

func (s *Store) Health(_ context.Context) error { return nil }
func (s *Store) Migrate() error                 { return nil }
func (s *Store) Close() error                   { return nil }
