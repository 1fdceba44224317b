package learning

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

//go:generate mockgen -source=store.go -destination=../mocks/learning/mock_backend.go -package=mock_learning

// Backend persists a whole StatusMap under a fixed storage key.
type Backend interface {
	Load(ctx context.Context) (StatusMap, error)
	Save(ctx context.Context, statuses StatusMap) error
	Close() error
}

// Store holds the in-memory statuses and writes them through to a Backend.
type Store struct {
	backend Backend

	mu       sync.RWMutex
	statuses StatusMap
}

// NewStore creates an empty store. Call Load once at startup.
func NewStore(backend Backend) *Store {
	return &Store{
		backend:  backend,
		statuses: StatusMap{},
	}
}

// Load reads the persisted statuses. On failure the store starts empty and
// the failure is logged.
func (s *Store) Load(ctx context.Context) StatusMap {
	statuses, err := s.backend.Load(ctx)
	if err == nil {
		err = statuses.validate()
	}
	if err != nil {
		slog.Default().Error("failed to load word statuses, starting empty",
			"error", &PersistenceError{Op: "load", Err: err},
		)
		statuses = StatusMap{}
	}
	if statuses == nil {
		statuses = StatusMap{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.statuses = statuses
	return s.statuses.Clone()
}

// Get returns the status of word, defaulting to StatusNotStarted.
func (s *Store) Get(word string) LearningStatus {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statuses.Get(word)
}

// Snapshot returns a copy of the current statuses.
func (s *Store) Snapshot() StatusMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.statuses.Clone()
}

// SetStatus updates word and persists the entire map before returning.
// A persistence failure is logged and does not undo the in-memory update.
func (s *Store) SetStatus(ctx context.Context, word string, status LearningStatus) (StatusMap, error) {
	if word == "" {
		return nil, fmt.Errorf("word must not be empty")
	}
	if !status.Valid() {
		return nil, fmt.Errorf("invalid learning status %q", status)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated := s.statuses.Clone()
	updated[word] = status
	s.statuses = updated

	if err := s.backend.Save(ctx, updated); err != nil {
		slog.Default().Error("failed to save word statuses",
			"word", word,
			"status", status,
			"error", &PersistenceError{Op: "save", Err: err},
		)
	}
	return updated.Clone(), nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

// MemoryBackend keeps statuses in memory only.
type MemoryBackend struct {
	mu       sync.Mutex
	statuses StatusMap
}

// NewMemoryBackend creates a MemoryBackend seeded with statuses.
func NewMemoryBackend(statuses StatusMap) *MemoryBackend {
	return &MemoryBackend{statuses: statuses.Clone()}
}

func (b *MemoryBackend) Load(_ context.Context) (StatusMap, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.statuses.Clone(), nil
}

func (b *MemoryBackend) Save(_ context.Context, statuses StatusMap) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.statuses = statuses.Clone()
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
