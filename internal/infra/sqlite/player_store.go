package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"live-quiz-service/internal/domain"
	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// PlayerStore persists the ordered player list in a SQLite file.
type PlayerStore struct {
	sqlDB *sql.DB
}

// Open opens (creating when needed) a SQLite player store at path.
func Open(path string) (*PlayerStore, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	dsn := filepath.Clean(path) + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlDB.Exec(schemaSQL); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &PlayerStore{sqlDB: sqlDB}, nil
}

// Close closes the underlying SQLite database.
func (s *PlayerStore) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

func (s *PlayerStore) Load(ctx context.Context) ([]domain.Player, error) {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT id, name, avatar, score, total_time_ms FROM players ORDER BY position`)
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
	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM players`); err != nil {
		return fmt.Errorf("clear players: %w", err)
	}
	for i, p := range players {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO players (position, id, name, avatar, score, total_time_ms) VALUES (?, ?, ?, ?, ?, ?)`,
			i, p.ID, p.Name, p.Avatar, p.Score, p.TotalTime.Milliseconds(),
		); err != nil {
			return fmt.Errorf("insert player %s: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit save: %w", err)
	}
	return nil
}
