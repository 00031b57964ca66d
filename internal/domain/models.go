package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// NoAnswer is what the round statistics report for a player who did not answer.
const NoAnswer = "No answer"

// Phase is the lifecycle stage of the quiz session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseResolved
	PhaseFinished
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseResolved:
		return "resolved"
	case PhaseFinished:
		return "finished"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Question is a catalog entry. Its identity is its position in the catalog.
type Question struct {
	Text    string   `json:"question"`
	Options []string `json:"options"`
	Correct string   `json:"correct"`
	Image   string   `json:"image,omitempty"`
	Audio   string   `json:"audio,omitempty"`
}

// Validate reports whether the question can be played.
func (q Question) Validate() error {
	switch {
	case q.Text == "":
		return fmt.Errorf("%w: empty text", ErrInvalidQuestion)
	case len(q.Options) == 0:
		return fmt.Errorf("%w: no options for %q", ErrInvalidQuestion, q.Text)
	case q.Correct == "":
		return fmt.Errorf("%w: no correct option for %q", ErrInvalidQuestion, q.Text)
	}
	return nil
}

// ValidateCatalog checks every question and reports the first invalid one by position.
func ValidateCatalog(questions []Question) error {
	for i, q := range questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}

// Player is a connected participant. Identity is the connection id, not the name.
// TotalTime only accumulates over correctly answered rounds.
type Player struct {
	ID        string
	Name      string
	Avatar    string
	Score     int
	TotalTime time.Duration
}

type playerJSON struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Avatar    string `json:"avatar"`
	Score     int    `json:"score"`
	TotalTime int64  `json:"totalTime"` // milliseconds
}

func (p Player) MarshalJSON() ([]byte, error) {
	return json.Marshal(playerJSON{
		ID:        p.ID,
		Name:      p.Name,
		Avatar:    p.Avatar,
		Score:     p.Score,
		TotalTime: p.TotalTime.Milliseconds(),
	})
}

func (p *Player) UnmarshalJSON(data []byte) error {
	var raw playerJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*p = Player{
		ID:        raw.ID,
		Name:      raw.Name,
		Avatar:    raw.Avatar,
		Score:     raw.Score,
		TotalTime: time.Duration(raw.TotalTime) * time.Millisecond,
	}
	return nil
}

// PendingAnswer is the latest answer a player submitted during the active round.
type PendingAnswer struct {
	DisplayName string
	Option      string
	Elapsed     time.Duration
}

// PlayerAnswer is one line of the per-round answer report.
type PlayerAnswer struct {
	Name   string `json:"name"`
	Answer string `json:"answer"`
}

// RoundResult summarizes a resolved round. It is computed, never stored.
type RoundResult struct {
	TotalCorrect  int            `json:"totalCorrect"`
	TotalWrong    int            `json:"totalWrong"`
	CorrectAnswer string         `json:"correctAnswer"`
	PlayerAnswers []PlayerAnswer `json:"playerAnswers"`
}
