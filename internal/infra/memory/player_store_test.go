package memory

import (
	"context"
	"testing"

	"live-quiz-service/internal/domain"
)

func TestPlayerStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewPlayerStore()

	players, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("expected empty store, got %+v", players)
	}

	in := []domain.Player{{ID: "c1", Name: "Ann", Score: 2}}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	in[0].Score = 99 // caller mutations must not leak into the store

	players, _ = store.Load(ctx)
	if len(players) != 1 || players[0].Score != 2 {
		t.Fatalf("expected saved copy, got %+v", players)
	}
	if store.Saves() != 1 {
		t.Fatalf("expected 1 save, got %d", store.Saves())
	}
}

func TestStaticCatalogLoaderReturnsCopy(t *testing.T) {
	loader := NewStaticCatalogLoader([]domain.Question{{Text: "q", Options: []string{"a"}, Correct: "a"}})
	first, _ := loader.LoadCatalog(context.Background())
	first[0].Text = "changed"

	second, _ := loader.LoadCatalog(context.Background())
	if second[0].Text != "q" {
		t.Fatalf("expected loader to be unaffected, got %q", second[0].Text)
	}
}
