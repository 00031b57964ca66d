package app_test

import (
	"testing"
	"time"

	"live-quiz-service/internal/app"
	"live-quiz-service/internal/domain"
)

func TestResolveRoundCountsEveryPlayer(t *testing.T) {
	players := []domain.Player{
		{ID: "c1", Name: "Ann"},
		{ID: "c2", Name: "Bob", Score: 2, TotalTime: time.Second},
		{ID: "c3", Name: "Cid"},
	}
	pending := map[string]domain.PendingAnswer{
		"c2":   {DisplayName: "Bob", Option: "4", Elapsed: 300 * time.Millisecond},
		"c3":   {DisplayName: "Cid", Option: "5", Elapsed: 100 * time.Millisecond},
		"gone": {DisplayName: "Ghost", Option: "4"},
	}
	question := domain.Question{Text: "2+2", Options: []string{"4", "5"}, Correct: "4"}

	updated, result := app.ResolveRound(players, pending, question)

	if result.TotalCorrect != 1 || result.TotalWrong != 2 {
		t.Fatalf("expected 1 correct / 2 wrong, got %+v", result)
	}
	if result.TotalCorrect+result.TotalWrong != len(players) {
		t.Fatalf("tally must cover every player")
	}
	want := []domain.PlayerAnswer{
		{Name: "Ann", Answer: domain.NoAnswer},
		{Name: "Bob", Answer: "4"},
		{Name: "Cid", Answer: "5"},
	}
	for i, w := range want {
		if result.PlayerAnswers[i] != w {
			t.Fatalf("answer %d: expected %+v, got %+v", i, w, result.PlayerAnswers[i])
		}
	}
	if updated[1].Score != 3 || updated[1].TotalTime != 1300*time.Millisecond {
		t.Fatalf("expected Bob scored, got %+v", updated[1])
	}
	if updated[2].Score != 0 || updated[2].TotalTime != 0 {
		t.Fatalf("wrong answers must not accumulate time, got %+v", updated[2])
	}
	if players[1].Score != 2 {
		t.Fatalf("input players must not be mutated")
	}
}

func TestResolveRoundExactComparison(t *testing.T) {
	players := []domain.Player{{ID: "c1", Name: "Ann"}, {ID: "c2", Name: "Bob"}}
	pending := map[string]domain.PendingAnswer{
		"c1": {Option: "paris"},
		"c2": {Option: "Paris "},
	}
	_, result := app.ResolveRound(players, pending, domain.Question{Correct: "Paris"})
	if result.TotalCorrect != 0 {
		t.Fatalf("expected no normalization, got %+v", result)
	}
}

func TestResolveRoundSentinelNeverMatches(t *testing.T) {
	players := []domain.Player{{ID: "c1", Name: "Ann"}}
	_, result := app.ResolveRound(players, nil, domain.Question{Correct: domain.NoAnswer})
	if result.TotalCorrect != 0 || result.TotalWrong != 1 {
		t.Fatalf("missing answer must be wrong, got %+v", result)
	}
}

func TestRankTopTieBreak(t *testing.T) {
	players := []domain.Player{
		{ID: "a", Score: 3, TotalTime: 10},
		{ID: "b", Score: 3, TotalTime: 5},
		{ID: "c", Score: 2, TotalTime: 1},
		{ID: "d", Score: 3, TotalTime: 5},
	}
	tests := []struct {
		name string
		k    int
		want []string
	}{
		{name: "top three", k: 3, want: []string{"b", "d", "a"}},
		{name: "all", k: 10, want: []string{"b", "d", "a", "c"}},
		{name: "none", k: 0, want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := app.RankTop(players, tt.k)
			if len(got) != len(tt.want) {
				t.Fatalf("expected %d players, got %d", len(tt.want), len(got))
			}
			for i, id := range tt.want {
				if got[i].ID != id {
					t.Fatalf("position %d: expected %s, got %s", i, id, got[i].ID)
				}
			}
		})
	}
	if players[0].ID != "a" {
		t.Fatalf("RankTop must not reorder its input")
	}
}
