package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is a mutex-guarded in-process Store. It backs tests and
// redis-less development runs; a single process is its consistency
// boundary.
type MemoryStore struct {
	mu           sync.Mutex
	byToken      map[string]Record
	byRespondent map[string]string
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken:      make(map[string]Record),
		byRespondent: make(map[string]string),
	}
}

// Put saves the record, dropping any prior live token for the respondent.
func (s *MemoryStore) Put(_ context.Context, record Record, _ time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prior, ok := s.byRespondent[record.RespondentID]; ok {
		delete(s.byToken, prior)
	}
	s.byToken[record.Token] = record
	s.byRespondent[record.RespondentID] = record.Token
	return nil
}

// Get returns the record without consuming it.
func (s *MemoryStore) Get(_ context.Context, token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byToken[token]
	if !ok {
		return nil, nil
	}
	return &record, nil
}

// TakeAndDelete removes and returns the record under the store lock, so
// exactly one of any set of concurrent callers wins.
func (s *MemoryStore) TakeAndDelete(_ context.Context, token string) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byToken[token]
	if !ok {
		return nil, nil
	}
	delete(s.byToken, token)
	if s.byRespondent[record.RespondentID] == token {
		delete(s.byRespondent, record.RespondentID)
	}
	return &record, nil
}

// Delete removes the record if present.
func (s *MemoryStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byToken[token]
	if !ok {
		return nil
	}
	delete(s.byToken, token)
	if s.byRespondent[record.RespondentID] == token {
		delete(s.byRespondent, record.RespondentID)
	}
	return nil
}
