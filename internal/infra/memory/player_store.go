package memory

import (
	"context"
	"sync"

	"live-quiz-service/internal/domain"
)

// PlayerStore is an in-memory implementation of app.PlayerStore.
type PlayerStore struct {
	mu      sync.RWMutex
	players []domain.Player
	saves   int
}

func NewPlayerStore(initial ...domain.Player) *PlayerStore {
	return &PlayerStore{players: clonePlayers(initial)}
}

func (s *PlayerStore) Load(_ context.Context) ([]domain.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return clonePlayers(s.players), nil
}

func (s *PlayerStore) Save(_ context.Context, players []domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.players = clonePlayers(players)
	s.saves++
	return nil
}

// Saves reports how many times Save was called.
func (s *PlayerStore) Saves() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saves
}

func clonePlayers(players []domain.Player) []domain.Player {
	out := make([]domain.Player, len(players))
	copy(out, players)
	return out
}
