package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"live-quiz-service/internal/domain"
	"github.com/redis/go-redis/v9"
)

const playersKey = "quiz:players"

// PlayerStore keeps the ordered player list as one JSON value in Redis.
// A zero ttl keeps the key forever.
type PlayerStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewPlayerStore(client *redis.Client, ttl time.Duration) *PlayerStore {
	return &PlayerStore{client: client, ttl: ttl}
}

func (s *PlayerStore) Load(ctx context.Context) ([]domain.Player, error) {
	raw, err := s.client.Get(ctx, playersKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return []domain.Player{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	var players []domain.Player
	if err := json.Unmarshal(raw, &players); err != nil {
		return nil, fmt.Errorf("decode players: %w", err)
	}
	if players == nil {
		players = []domain.Player{}
	}
	return players, nil
}

func (s *PlayerStore) Save(ctx context.Context, players []domain.Player) error {
	if players == nil {
		players = []domain.Player{}
	}
	raw, err := json.Marshal(players)
	if err != nil {
		return fmt.Errorf("encode players: %w", err)
	}
	if err := s.client.Set(ctx, playersKey, raw, s.ttl).Err(); err != nil {
		return fmt.Errorf("save players: %w", err)
	}
	return nil
}
