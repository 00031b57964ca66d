package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"live-quiz-service/internal/domain"
)

// PlayerStore keeps the player list as an indented JSON array on disk.
type PlayerStore struct {
	path string
	mu   sync.Mutex
}

func NewPlayerStore(path string) *PlayerStore {
	return &PlayerStore{path: path}
}

// Load reads the player list, creating an empty file when none exists.
func (s *PlayerStore) Load(_ context.Context) ([]domain.Player, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		if err := s.writeLocked(nil); err != nil {
			return nil, err
		}
		return []domain.Player{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read players: %w", err)
	}

	var players []domain.Player
	if err := json.Unmarshal(data, &players); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	if players == nil {
		players = []domain.Player{}
	}
	return players, nil
}

func (s *PlayerStore) Save(_ context.Context, players []domain.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeLocked(players)
}

// writeLocked replaces the file via rename; readers never see a partial list.
func (s *PlayerStore) writeLocked(players []domain.Player) error {
	if players == nil {
		players = []domain.Player{}
	}
	data, err := json.MarshalIndent(players, "", "  ")
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write players: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write players: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write players: %w", err)
	}
	// CreateTemp uses 0600; the players file stays world-readable.
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("write players: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("write players: %w", err)
	}
	return nil
}
