package storage

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func mustSave(t *testing.T, store *Store, gameID string, score int) {
	t.Helper()
	if _, err := store.SaveScore(ScoreEntry{GameID: gameID, Score: score, MaxTile: 2, Moves: 1}); err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
}

func TestStoreOpenCreatesNestedPath(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "subdir", "deep", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() with nested path failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreSaveAndRetrieve(t *testing.T) {
	store := openTestStore(t)

	id, err := store.SaveScore(ScoreEntry{GameID: "2048", Score: 100, MaxTile: 64, Moves: 40})
	if err != nil {
		t.Fatalf("SaveScore() failed: %v", err)
	}
	if id <= 0 {
		t.Errorf("expected positive row id, got %d", id)
	}
	mustSave(t, store, "2048", 50)
	mustSave(t, store, "2048", 200)
	mustSave(t, store, "2048-5x5", 500)

	scores, err := store.TopScores("2048", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores, got %d", len(scores))
	}

	want := []int{200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, expected %d", i, scores[i].Score, w)
		}
	}
	if scores[1].MaxTile != 64 || scores[1].Moves != 40 {
		t.Errorf("max tile/moves not stored: %+v", scores[1])
	}
	if scores[0].CreatedAt.IsZero() {
		t.Error("created_at should be parsed")
	}

	other, err := store.TopScores("2048-5x5", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(other) != 1 {
		t.Errorf("expected 1 score for 5x5, got %d", len(other))
	}
}

func TestStoreTopScoresLimit(t *testing.T) {
	store := openTestStore(t)
	for i := 1; i <= 5; i++ {
		mustSave(t, store, "2048", i*100)
	}

	scores, err := store.TopScores("2048", 3)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("expected 3 scores with limit, got %d", len(scores))
	}
	if scores[0].Score != 500 || scores[1].Score != 400 || scores[2].Score != 300 {
		t.Errorf("scores not in expected order: %v", scores)
	}

	all, err := store.AllScores("2048")
	if err != nil {
		t.Fatalf("AllScores() failed: %v", err)
	}
	if len(all) != 5 {
		t.Errorf("expected 5 scores, got %d", len(all))
	}
}

func TestStoreHighScoreAndClear(t *testing.T) {
	store := openTestStore(t)

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.HighScore != 0 {
		t.Errorf("expected 0 for empty game, got %d", stats.HighScore)
	}

	mustSave(t, store, "2048", 100)
	mustSave(t, store, "2048", 300)
	mustSave(t, store, "2048-3x3", 40)

	if stats, _ = store.GetGameStats("2048"); stats.HighScore != 300 {
		t.Errorf("expected high score 300, got %d", stats.HighScore)
	}

	if err := store.ClearScores("2048"); err != nil {
		t.Fatalf("ClearScores() failed: %v", err)
	}
	if scores, _ := store.TopScores("2048", 10); len(scores) != 0 {
		t.Errorf("expected no scores after clear, got %d", len(scores))
	}
	if scores, _ := store.TopScores("2048-3x3", 10); len(scores) != 1 {
		t.Error("clearing one game should not touch another")
	}
}

func TestStoreBestScorePrefs(t *testing.T) {
	store := openTestStore(t)

	best, err := store.BestScore("highScore")
	if err != nil {
		t.Fatalf("BestScore() failed: %v", err)
	}
	if best != 0 {
		t.Errorf("missing pref should read as 0, got %d", best)
	}

	if err := store.SetBestScore("highScore", 128); err != nil {
		t.Fatalf("SetBestScore() failed: %v", err)
	}
	if err := store.SetBestScore("highScore", 256); err != nil {
		t.Fatalf("SetBestScore() overwrite failed: %v", err)
	}
	if err := store.SetBestScore("highScore:2048-5x5", 16); err != nil {
		t.Fatalf("SetBestScore() failed: %v", err)
	}

	if best, _ = store.BestScore("highScore"); best != 256 {
		t.Errorf("BestScore() = %d, expected 256", best)
	}
	if best, _ = store.BestScore("highScore:2048-5x5"); best != 16 {
		t.Errorf("BestScore() = %d, expected 16", best)
	}
}

func TestStoreBestScoreSurvivesReopen(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "prefs.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	if err := store.SetBestScore("highScore", 512); err != nil {
		t.Fatalf("SetBestScore() failed: %v", err)
	}
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}
	defer store.Close()

	if best, _ := store.BestScore("highScore"); best != 512 {
		t.Errorf("BestScore() after reopen = %d, expected 512", best)
	}
}

func TestStoreGameStats(t *testing.T) {
	store := openTestStore(t)

	empty, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() on empty failed: %v", err)
	}
	if empty.GamesCount != 0 || !empty.LastPlayed.IsZero() {
		t.Errorf("unexpected stats for empty game: %+v", empty)
	}

	if _, err := store.SaveScore(ScoreEntry{GameID: "2048", Score: 100, MaxTile: 128}); err != nil {
		t.Fatal(err)
	}
	if _, err := store.SaveScore(ScoreEntry{GameID: "2048", Score: 300, MaxTile: 256}); err != nil {
		t.Fatal(err)
	}

	stats, err := store.GetGameStats("2048")
	if err != nil {
		t.Fatalf("GetGameStats() failed: %v", err)
	}
	if stats.GamesCount != 2 || stats.HighScore != 300 || stats.TotalScore != 400 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if stats.AvgScore != 200 {
		t.Errorf("AvgScore = %v, expected 200", stats.AvgScore)
	}
	if stats.MaxTile != 256 {
		t.Errorf("MaxTile = %d, expected 256", stats.MaxTile)
	}

	all, err := store.GetAllGamesStats()
	if err != nil {
		t.Fatalf("GetAllGamesStats() failed: %v", err)
	}
	if len(all) != 1 || all["2048"] == nil {
		t.Errorf("expected stats for exactly one game, got %v", all)
	}
}

func TestMemoryPrefs(t *testing.T) {
	prefs := NewMemoryPrefs()

	if v, err := prefs.BestScore("k"); err != nil || v != 0 {
		t.Errorf("BestScore() = (%d, %v), expected (0, nil)", v, err)
	}

	var wg sync.WaitGroup
	for i := 1; i <= 10; i++ {
		wg.Add(1)
		go func(v int) {
			defer wg.Done()
			_ = prefs.SetBestScore("k", v)
		}(i)
	}
	wg.Wait()

	if v, _ := prefs.BestScore("k"); v < 1 || v > 10 {
		t.Errorf("BestScore() = %d, expected one of the written values", v)
	}
}
