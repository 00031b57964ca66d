package postgres

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
	"live-quiz-service/internal/domain"
)

type questionRow struct {
	bun.BaseModel `bun:"table:questions"`

	Position int      `bun:"position,pk"`
	Question string   `bun:"question,notnull"`
	Options  []string `bun:"options,type:jsonb,notnull"`
	Correct  string   `bun:"correct,notnull"`
	Image    string   `bun:"image,nullzero"`
	Audio    string   `bun:"audio,nullzero"`
}

// ImportCatalog replaces the questions table with the given catalog.
func ImportCatalog(ctx context.Context, db *bun.DB, questions []domain.Question) error {
	if err := domain.ValidateCatalog(questions); err != nil {
		return err
	}
	rows := make([]questionRow, len(questions))
	for i, q := range questions {
		rows[i] = questionRow{
			Position: i,
			Question: q.Text,
			Options:  q.Options,
			Correct:  q.Correct,
			Image:    q.Image,
			Audio:    q.Audio,
		}
	}

	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*questionRow)(nil)).Where("TRUE").Exec(ctx); err != nil {
			return fmt.Errorf("clear questions: %w", err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("insert questions: %w", err)
		}
		return nil
	})
}
