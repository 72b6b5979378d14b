// Package session keeps the last analysis result of each browser session in a
// bounded in-memory cache.
package session

import (
	"fmt"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/KaramelBytes/reportdesk/internal/report"
)

// DefaultSize is the number of sessions kept before the least recently used
// one is evicted.
const DefaultSize = 128

// Store maps session ids to results. It is safe for concurrent use.
type Store struct {
	cache *lru.Cache[uuid.UUID, *report.Result]
}

// NewStore creates a store holding at most size sessions.
func NewStore(size int) (*Store, error) {
	if size <= 0 {
		size = DefaultSize
	}
	c, err := lru.New[uuid.UUID, *report.Result](size)
	if err != nil {
		return nil, fmt.Errorf("session cache: %w", err)
	}
	return &Store{cache: c}, nil
}

// New returns a fresh session id. Nothing is stored until Replace.
func (s *Store) New() uuid.UUID { return uuid.New() }

// Load returns the result for id, if any.
func (s *Store) Load(id uuid.UUID) (*report.Result, bool) {
	return s.cache.Get(id)
}

// Replace stores r as the current result for id, dropping the previous one.
func (s *Store) Replace(id uuid.UUID, r *report.Result) {
	if r == nil {
		s.cache.Remove(id)
		return
	}
	s.cache.Add(id, r)
}

// Clear forgets id.
func (s *Store) Clear(id uuid.UUID) { s.cache.Remove(id) }

// Len is the number of cached sessions.
func (s *Store) Len() int { return s.cache.Len() }
