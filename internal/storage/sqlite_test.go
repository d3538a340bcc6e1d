package storage

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/vovakirdan/skyline-sprint/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func recordScore(t *testing.T, store *Store, mode engine.Mode, seed uint32, score int) {
	t.Helper()
	if err := store.RecordRun(engine.Summary{Mode: mode, Seed: seed, Score: score}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}
}

func TestStoreOpenClose(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "nested", "dir", "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("database file was not created")
	}
}

func TestStoreReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "test.db")

	store, err := Open(dbPath)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	recordScore(t, store, engine.ModeNormal, 1, 420)
	store.Close()

	store, err = Open(dbPath)
	if err != nil {
		t.Fatalf("second Open() failed: %v", err)
	}
	defer store.Close()

	high, err := store.HighScore("normal")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 420 {
		t.Errorf("HighScore() = %d, want 420", high)
	}
}

func TestStoreTopScores(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{100, 50, 200} {
		recordScore(t, store, engine.ModeNormal, 7, score)
	}
	recordScore(t, store, engine.ModeDaily, 20260305, 500)

	scores, err := store.TopScores("normal", 10)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 3 {
		t.Fatalf("TopScores() returned %d entries, want 3", len(scores))
	}
	want := []int{200, 100, 50}
	for i, w := range want {
		if scores[i].Score != w {
			t.Errorf("scores[%d] = %d, want %d", i, scores[i].Score, w)
		}
		if scores[i].Mode != "normal" || scores[i].Seed != 7 {
			t.Errorf("scores[%d] = %+v, want mode normal seed 7", i, scores[i])
		}
	}

	limited, err := store.TopScores("normal", 2)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("TopScores(limit 2) returned %d entries", len(limited))
	}
}

func TestStoreHighScoreEmpty(t *testing.T) {
	store := openTestStore(t)

	high, err := store.HighScore("daily")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("HighScore() on empty store = %d, want 0", high)
	}
}

func TestStoreRecordRunKeepsRecent(t *testing.T) {
	store := openTestStore(t)

	for i := 1; i <= 8; i++ {
		sum := engine.Summary{
			Mode:          engine.ModeDaily,
			Seed:          20260305,
			Score:         i * 100,
			Shards:        i,
			Elapsed:       float64(i) * 1.5,
			MaxMultiplier: 2,
			Completed:     true,
		}
		if err := store.RecordRun(sum); err != nil {
			t.Fatalf("RecordRun() #%d failed: %v", i, err)
		}
	}
	if err := store.RecordRun(engine.Summary{Mode: engine.ModeNormal, Seed: 9, Score: 5}); err != nil {
		t.Fatalf("RecordRun() failed: %v", err)
	}

	runs, err := store.RecentRuns("daily")
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(runs) != RecentRunLimit {
		t.Fatalf("RecentRuns() returned %d runs, want %d", len(runs), RecentRunLimit)
	}
	if runs[0].Score != 800 || runs[len(runs)-1].Score != 400 {
		t.Errorf("runs span %d..%d, want newest 800 to oldest 400", runs[0].Score, runs[len(runs)-1].Score)
	}
	if !runs[0].Completed || runs[0].Seed != 20260305 || runs[0].Shards != 8 {
		t.Errorf("runs[0] = %+v", runs[0])
	}

	// Scores are never trimmed.
	scores, err := store.TopScores("daily", 100)
	if err != nil {
		t.Fatalf("TopScores() failed: %v", err)
	}
	if len(scores) != 8 {
		t.Errorf("daily scores = %d, want 8", len(scores))
	}

	normal, err := store.RecentRuns("normal")
	if err != nil {
		t.Fatalf("RecentRuns() failed: %v", err)
	}
	if len(normal) != 1 {
		t.Errorf("normal runs = %d, want 1", len(normal))
	}
}

func TestStoreRejectsUnrankedRun(t *testing.T) {
	store := openTestStore(t)

	practice := engine.Summary{Mode: engine.ModeDaily, Seed: 7, Score: 900, SeedOverride: true}
	if err := store.RecordRun(practice); !errors.Is(err, ErrUnranked) {
		t.Fatalf("RecordRun() = %v, want ErrUnranked", err)
	}
	high, err := store.HighScore("daily")
	if err != nil {
		t.Fatalf("HighScore() failed: %v", err)
	}
	if high != 0 {
		t.Errorf("daily high score = %d, want 0", high)
	}

	// A pinned seed outside the daily challenge is still ranked.
	recordScore(t, store, engine.ModeNormal, 7, 300)
	runs, _ := store.RecentRuns("normal")
	if len(runs) != 1 {
		t.Errorf("normal runs = %d, want 1", len(runs))
	}
}

func TestStoreClearMode(t *testing.T) {
	store := openTestStore(t)

	_ = store.RecordRun(engine.Summary{Mode: engine.ModeNormal, Score: 10})
	_ = store.RecordRun(engine.Summary{Mode: engine.ModeDaily, Score: 20})

	if err := store.ClearMode("normal"); err != nil {
		t.Fatalf("ClearMode() failed: %v", err)
	}

	high, _ := store.HighScore("normal")
	if high != 0 {
		t.Errorf("normal high score after clear = %d", high)
	}
	runs, _ := store.RecentRuns("normal")
	if len(runs) != 0 {
		t.Errorf("normal runs after clear = %d", len(runs))
	}
	high, _ = store.HighScore("daily")
	if high != 20 {
		t.Errorf("daily high score = %d, want 20", high)
	}
}

func TestStoreStats(t *testing.T) {
	store := openTestStore(t)

	for _, score := range []int{10, 30} {
		recordScore(t, store, engine.ModeNormal, 1, score)
	}
	recordScore(t, store, engine.ModeDaily, 2, 40)

	stats, err := store.Stats()
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("Stats() has %d modes, want 2", len(stats))
	}
	n := stats["normal"]
	if n == nil {
		t.Fatal("missing normal stats")
	}
	if n.RunsCount != 2 || n.HighScore != 30 || n.TotalScore != 40 || n.AvgScore != 20 {
		t.Errorf("normal stats = %+v", n)
	}
	if n.LastPlayed.IsZero() {
		t.Error("LastPlayed not parsed")
	}
}
