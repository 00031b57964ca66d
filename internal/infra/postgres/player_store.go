package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"live-quiz-service/internal/domain"
)

// PlayerStore persists the ordered player list in the players table.
type PlayerStore struct {
	pool *pgxpool.Pool
}

func NewPlayerStore(pool *pgxpool.Pool) *PlayerStore {
	return &PlayerStore{pool: pool}
}

func (s *PlayerStore) Load(ctx context.Context) ([]domain.Player, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name, avatar, score, total_time_ms FROM players ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	defer rows.Close()

	players := []domain.Player{}
	for rows.Next() {
		var (
			p  domain.Player
			ms int64
		)
		if err := rows.Scan(&p.ID, &p.Name, &p.Avatar, &p.Score, &ms); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.TotalTime = time.Duration(ms) * time.Millisecond
		players = append(players, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load players: %w", err)
	}
	return players, nil
}

// Save replaces the stored list in one transaction.
func (s *PlayerStore) Save(ctx context.Context, players []domain.Player) error {
	return s.pool.BeginFunc(ctx, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM players`); err != nil {
			return fmt.Errorf("clear players: %w", err)
		}
		if len(players) == 0 {
			return nil
		}
		batch := &pgx.Batch{}
		for i, p := range players {
			batch.Queue(
				`INSERT INTO players (position, id, name, avatar, score, total_time_ms) VALUES ($1, $2, $3, $4, $5, $6)`,
				i, p.ID, p.Name, p.Avatar, p.Score, p.TotalTime.Milliseconds(),
			)
		}
		results := tx.SendBatch(ctx, batch)
		for range players {
			if _, err := results.Exec(); err != nil {
				results.Close()
				return fmt.Errorf("insert players: %w", err)
			}
		}
		return results.Close()
	})
}
