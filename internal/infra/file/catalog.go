package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"live-quiz-service/internal/domain"
)

// CatalogLoader reads an ordered JSON array of questions.
type CatalogLoader struct {
	path string
}

func NewCatalogLoader(path string) *CatalogLoader {
	return &CatalogLoader{path: path}
}

func (l *CatalogLoader) LoadCatalog(_ context.Context) ([]domain.Question, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	var questions []domain.Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	if err := domain.ValidateCatalog(questions); err != nil {
		return nil, err
	}
	return questions, nil
}
