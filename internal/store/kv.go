// Package store owns the canonical in-memory collections (expenses,
// budgets, savings goals) and their persistence. All state flows
// through a small key-value port so the stores are testable without a
// real storage backend.
package store

import (
	"context"
	"sync"
)

// Persisted state layout: one independent entry per logical collection.
const (
	KeyExpenses             = "expenses"
	KeyBudgets              = "budgets"
	KeySavingsGoals         = "savingsGoals"
	KeyUserPoints           = "userPoints"
	KeyCompletedChallenges  = "completedChallenges"
	KeyUnlockedAchievements = "unlockedAchievements"
)

// KV is the persistence port. Values are self-contained serialized
// documents; writes replace the whole entry.
type KV interface {
	// Get returns the stored value for key, or found=false when the
	// key has never been written.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Set stores value under key, overwriting any previous entry.
	Set(ctx context.Context, key string, value []byte) error
}

// MemoryKV is an in-memory KV implementation. It backs the default
// data backend and doubles as the test fake.
type MemoryKV struct {
	mu sync.Mutex
	m  map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{m: make(map[string][]byte)}
}

func (s *MemoryKV) Get(_ context.Context, key string) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.m[key]
	if !ok {
		return nil, false, nil
	}
	out := append([]byte(nil), v...)
	return out, true, nil
}

func (s *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[key] = append([]byte(nil), value...)
	return nil
}
