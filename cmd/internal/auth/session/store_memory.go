package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-memory Store implementation used in tests.
// All operations are guarded by a single mutex, which gives ConsumeByHash
// the same exactly-one-winner semantics as the SQL conditional delete.
type MemoryStore struct {
	mu     sync.Mutex
	byHash map[string]Record
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{byHash: make(map[string]Record)}
}

// Insert persists a new record.
func (s *MemoryStore) Insert(_ context.Context, rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[rec.TokenHash] = rec
	return nil
}

// ConsumeByHash atomically removes and returns the record for hash.
func (s *MemoryStore) ConsumeByHash(_ context.Context, hash string) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byHash[hash]
	if !ok {
		return Record{}, false, nil
	}
	delete(s.byHash, hash)
	return rec, true, nil
}

// DeleteExpired removes dead records.
func (s *MemoryStore) DeleteExpired(_ context.Context, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for h, rec := range s.byHash {
		if !rec.ExpiresAt.After(now) {
			delete(s.byHash, h)
			n++
		}
	}
	return n, nil
}

// DeleteByUser removes all records owned by userID.
func (s *MemoryStore) DeleteByUser(_ context.Context, userID string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for h, rec := range s.byHash {
		if rec.UserID == userID {
			delete(s.byHash, h)
			n++
		}
	}
	return n, nil
}

// Len reports how many records are live (test helper).
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.byHash)
}

// Get returns the record for hash without consuming it (test helper).
func (s *MemoryStore) Get(hash string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.byHash[hash]
	return rec, ok
}

// Put overwrites a record directly (test helper for expiry setups).
func (s *MemoryStore) Put(rec Record) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byHash[rec.TokenHash] = rec
}
