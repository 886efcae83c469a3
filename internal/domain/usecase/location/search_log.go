package location

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"weather-api/internal/domain/gateway/file"
)

// SearchLog remembers which normalized terms were already sent to the geocoder.
// It is written back only when a term was added since the last successful persist.
type SearchLog struct {
	gateway file.SearchTermGateway

	mu        sync.RWMutex
	terms     map[string]struct{}
	version   uint64
	persisted uint64
}

func NewSearchLog(gateway file.SearchTermGateway) *SearchLog {
	return &SearchLog{
		gateway: gateway,
		terms:   make(map[string]struct{}),
	}
}

func (s *SearchLog) Contains(term string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.terms[term]
	return ok
}

// Add records term and reports whether it was new.
func (s *SearchLog) Add(term string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.terms[term]; ok {
		return false
	}
	s.terms[term] = struct{}{}
	s.version++
	return true
}

func (s *SearchLog) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.terms)
}

// Load merges the persisted terms into the log without marking it modified.
func (s *SearchLog) Load(ctx context.Context) (int, error) {
	if s.gateway == nil {
		return 0, nil
	}
	terms, err := s.gateway.Load(ctx)
	if err != nil {
		return 0, fmt.Errorf("load search log: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, term := range terms {
		s.terms[term] = struct{}{}
	}
	return len(terms), nil
}

// Persist writes the terms when the log changed. It reports whether a write happened.
func (s *SearchLog) Persist(ctx context.Context) (bool, error) {
	if s.gateway == nil {
		return false, nil
	}

	s.mu.RLock()
	if s.version == s.persisted {
		s.mu.RUnlock()
		return false, nil
	}
	version := s.version
	terms := make([]string, 0, len(s.terms))
	for term := range s.terms {
		terms = append(terms, term)
	}
	s.mu.RUnlock()

	sort.Strings(terms)
	if err := s.gateway.Save(ctx, terms); err != nil {
		return false, fmt.Errorf("persist search log: %w", err)
	}

	s.mu.Lock()
	if version > s.persisted {
		s.persisted = version
	}
	s.mu.Unlock()
	return true, nil
}
