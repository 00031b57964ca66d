package app

import (
	"sort"

	"live-quiz-service/internal/domain"
)

// ResolveRound scores one round. Every player is reported, in store order;
// players without a pending answer are recorded as domain.NoAnswer and counted
// wrong. The input slice is not modified.
func ResolveRound(players []domain.Player, pending map[string]domain.PendingAnswer, question domain.Question) ([]domain.Player, domain.RoundResult) {
	updated := make([]domain.Player, len(players))
	result := domain.RoundResult{
		CorrectAnswer: question.Correct,
		PlayerAnswers: make([]domain.PlayerAnswer, 0, len(players)),
	}

	for i, player := range players {
		answer, ok := pending[player.ID]
		recorded := domain.NoAnswer
		if ok {
			recorded = answer.Option
		}
		result.PlayerAnswers = append(result.PlayerAnswers, domain.PlayerAnswer{
			Name:   player.Name,
			Answer: recorded,
		})

		// Exact comparison: no trimming or case folding.
		if ok && answer.Option == question.Correct {
			player.Score++
			player.TotalTime += answer.Elapsed
			result.TotalCorrect++
		} else {
			result.TotalWrong++
		}
		updated[i] = player
	}
	return updated, result
}

// RankTop returns the k best players: score descending, then cumulative
// correct-answer time ascending, then join order.
func RankTop(players []domain.Player, k int) []domain.Player {
	if k <= 0 {
		return []domain.Player{}
	}
	ranked := make([]domain.Player, len(players))
	copy(ranked, players)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].TotalTime < ranked[j].TotalTime
	})
	if k < len(ranked) {
		ranked = ranked[:k]
	}
	return ranked
}
