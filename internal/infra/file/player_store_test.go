package file

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"live-quiz-service/internal/domain"
)

func TestPlayerStoreCreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	store := NewPlayerStore(path)

	players, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("expected no players, got %+v", players)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("expected file created: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected empty array, got %q", data)
	}
}

func TestPlayerStoreSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "players.json")
	store := NewPlayerStore(path)

	in := []domain.Player{
		{ID: "c1", Name: "Ann", Avatar: "a.png", Score: 2, TotalTime: 3500 * time.Millisecond},
		{ID: "c2", Name: "Bob"},
	}
	if err := store.Save(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), `"totalTime": 3500`) {
		t.Fatalf("expected millisecond totalTime on disk, got %s", data)
	}

	out, err := NewPlayerStore(path).Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(out) != 2 || out[0] != in[0] || out[1] != in[1] {
		t.Fatalf("expected %+v, got %+v", in, out)
	}

	if err := store.Save(ctx, nil); err != nil {
		t.Fatalf("save empty: %v", err)
	}
	if data, _ := os.ReadFile(path); string(data) != "[]" {
		t.Fatalf("expected cleared file, got %q", data)
	}
}

func TestPlayerStoreFileMode(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	store := NewPlayerStore(path)
	if err := store.Save(context.Background(), []domain.Player{{ID: "c1", Name: "Ann"}}); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if mode := info.Mode().Perm(); mode != 0o644 {
		t.Fatalf("expected 0644, got %o", mode)
	}
}

func TestPlayerStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "players.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if _, err := NewPlayerStore(path).Load(context.Background()); err == nil {
		t.Fatalf("expected decode error")
	}
}

func TestCatalogLoader(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "questions.json")
	if err := os.WriteFile(good, []byte(`[
  {"question": "2+2?", "options": ["3", "4"], "correct": "4", "image": "img/math.png"},
  {"question": "Sky?", "options": ["blue", "green"], "correct": "blue", "audio": "sky.mp3"}
]`), 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	questions, err := NewCatalogLoader(good).LoadCatalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(questions) != 2 || questions[0].Image != "img/math.png" || questions[1].Audio != "sky.mp3" {
		t.Fatalf("unexpected catalog %+v", questions)
	}

	bad := filepath.Join(dir, "bad.json")
	_ = os.WriteFile(bad, []byte(`[{"question": "no options", "correct": "x"}]`), 0o644)
	if _, err := NewCatalogLoader(bad).LoadCatalog(context.Background()); err == nil {
		t.Fatalf("expected validation error")
	}
}
