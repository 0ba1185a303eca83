package session

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"sort"
	"testing"
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/internal/storage"
	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// keepOrderSource returns the largest possible draw every time, which
// makes rand.Shuffle swap each element with itself. Fixtures built on it
// keep items in selection order, so tests can address them by position.
type keepOrderSource struct{}

func (keepOrderSource) Int63() int64 { return 1<<63 - 1 }
func (keepOrderSource) Seed(int64)   {}

// flakyStore passes through to a MemoryStore until a failure switch is
// armed, so tests can fail exactly one persistence step.
type flakyStore struct {
	*storage.MemoryStore
	failSaveSession bool
	failSetState    bool
	failSetPerf     bool
}

var errBoom = errors.New("boom")

func (f *flakyStore) SaveSession(s *models.Session) error {
	if f.failSaveSession {
		return errBoom
	}
	return f.MemoryStore.SaveSession(s)
}

func (f *flakyStore) SetSchedulerState(vocabID string, state models.SchedulerState) error {
	if f.failSetState {
		return errBoom
	}
	return f.MemoryStore.SetSchedulerState(vocabID, state)
}

func (f *flakyStore) SetPerformance(vocabID string, perf models.Performance) error {
	if f.failSetPerf {
		return errBoom
	}
	return f.MemoryStore.SetPerformance(vocabID, perf)
}

type env struct {
	store  *flakyStore
	engine *Engine
	clock  *fakeClock
}

func newEnv(t *testing.T) *env {
	t.Helper()
	return newEnvWithRand(t, rand.New(keepOrderSource{}))
}

// newSeededEnv builds an env whose engine shuffles with a real seeded
// source, for tests exercising ordering randomness.
func newSeededEnv(t *testing.T, seed int64) *env {
	t.Helper()
	return newEnvWithRand(t, rand.New(rand.NewSource(seed)))
}

func newEnvWithRand(t *testing.T, rng *rand.Rand) *env {
	t.Helper()
	store := &flakyStore{MemoryStore: storage.NewMemoryStore()}
	clock := &fakeClock{now: t0}

	var n int
	newID := func() string {
		n++
		return fmt.Sprintf("id-%03d", n)
	}

	engine, err := New(Config{
		Sessions: store,
		Vocab:    store,
		Now:      clock.Now,
		NewID:    newID,
		Rand:     rng,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return &env{store: store, engine: engine, clock: clock}
}

func testConfig(mode models.ReviewMode, count int) models.SessionConfig {
	return models.SessionConfig{
		TargetLanguage: "es",
		NativeLanguage: "en",
		Difficulty:     3,
		Mode:           mode,
		ItemCount:      count,
		Side:           models.SideTerm,
	}
}

func unseenEntry(id string) models.PoolEntry {
	return models.PoolEntry{Word: models.Word{
		ID:          id,
		Term:        id + "-term",
		Translation: id + "-meaning",
		Topic:       "general",
		Difficulty:  2,
	}}
}

func dueEntry(id string, ease float64, reviewedAgo time.Duration) models.PoolEntry {
	entry := unseenEntry(id)
	reviewed := t0.Add(-reviewedAgo)
	entry.State = &models.SchedulerState{
		Streak:         1,
		IntervalHours:  1,
		EaseFactor:     ease,
		DueAt:          reviewed.Add(time.Hour),
		LastReviewedAt: &reviewed,
	}
	return entry
}

// createSession builds and persists an n-item new-only session over fresh
// vocabulary v1..vn.
func createSession(t *testing.T, v *env, n int) *models.Session {
	t.Helper()
	pool := make([]models.PoolEntry, n)
	for i := range pool {
		pool[i] = unseenEntry(fmt.Sprintf("v%d", i+1))
	}
	s, err := v.engine.Create("p1", testConfig(models.NewOnly, n), pool)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return s
}

func vocabOrder(s *models.Session) []string {
	order := make([]string, len(s.Items))
	for i, item := range s.Items {
		order[i] = item.VocabID
	}
	return order
}

func correctOutcome() models.Outcome {
	return models.Outcome{Answer: "right", Correct: true, Score: 1, DurationSeconds: 2}
}

func wrongOutcome() models.Outcome {
	return models.Outcome{Answer: "wrong", Correct: false, Score: 0, DurationSeconds: 3}
}

// mustGrade grades the session's current item. It reads the stored record
// directly so the engine's undo stack is left alone.
func mustGrade(t *testing.T, v *env, sessionID string, outcome models.Outcome) *models.Session {
	t.Helper()
	s, err := v.store.LoadSession(sessionID)
	if err != nil {
		t.Fatalf("LoadSession: %v", err)
	}
	current := s.CurrentItem()
	if current == nil {
		t.Fatal("no current item to grade")
	}
	got, err := v.engine.Grade(sessionID, current.ItemID, outcome)
	if err != nil {
		t.Fatalf("Grade: %v", err)
	}
	return got
}

// --- Create ---

func TestCreateNewOnly(t *testing.T) {
	v := newEnv(t)
	pool := []models.PoolEntry{unseenEntry("v1"), dueEntry("v2", 2.5, 2*time.Hour), unseenEntry("v3")}

	s, err := v.engine.Create("p1", testConfig(models.NewOnly, 2), pool)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if len(s.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(s.Items))
	}
	if s.Items[0].VocabID != "v1" || s.Items[1].VocabID != "v3" {
		t.Errorf("vocab = [%s %s], want unseen only [v1 v3]", s.Items[0].VocabID, s.Items[1].VocabID)
	}
	if s.Progress.CurrentIndex != 0 || s.Progress.IsComplete {
		t.Errorf("Progress = %+v, want fresh", s.Progress)
	}
	if !s.Progress.LastOpenedAt.Equal(t0) {
		t.Errorf("LastOpenedAt = %v, want %v", s.Progress.LastOpenedAt, t0)
	}
	if s.Recap != nil {
		t.Error("Recap present on new session")
	}
	if s.State() != models.NotStarted {
		t.Errorf("State = %v, want NotStarted", s.State())
	}

	stored, err := v.store.LoadSession(s.SessionID)
	if err != nil {
		t.Fatalf("session not persisted: %v", err)
	}
	if len(stored.Items) != 2 {
		t.Errorf("stored items = %d, want 2", len(stored.Items))
	}
}

func TestCreateReviewOnlyDueFirst(t *testing.T) {
	v := newEnv(t)
	pool := []models.PoolEntry{
		dueEntry("easy", 2.8, 3*time.Hour),
		unseenEntry("fresh"),
		dueEntry("hard", 1.4, 2*time.Hour),
	}

	s, err := v.engine.Create("p1", testConfig(models.ReviewOnly, 2), pool)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	// The fixture rand keeps presentation in selection order: hardest
	// (lowest ease) first, unseen never selected in review-only.
	if s.Items[0].VocabID != "hard" || s.Items[1].VocabID != "easy" {
		t.Errorf("vocab = [%s %s], want [hard easy]", s.Items[0].VocabID, s.Items[1].VocabID)
	}
}

func TestCreateShufflesItemOrder(t *testing.T) {
	poolOrder := []string{"v1", "v2", "v3", "v4", "v5", "v6", "v7", "v8"}

	shuffled := false
	for seed := int64(1); seed <= 6; seed++ {
		s := createSession(t, newSeededEnv(t, seed), 8)
		got := vocabOrder(s)

		members := append([]string(nil), got...)
		sort.Strings(members)
		if !reflect.DeepEqual(members, poolOrder) {
			t.Fatalf("seed %d: vocab set = %v, want exactly v1..v8", seed, got)
		}
		if !reflect.DeepEqual(got, poolOrder) {
			shuffled = true
		}

		// Same seed, same order.
		again := createSession(t, newSeededEnv(t, seed), 8)
		if !reflect.DeepEqual(vocabOrder(again), got) {
			t.Errorf("seed %d: order = %v then %v, want reproducible", seed, got, vocabOrder(again))
		}
	}
	if !shuffled {
		t.Error("every seed preserved pool order, want shuffled presentation")
	}
}

func TestCreateMixedShares(t *testing.T) {
	v := newEnv(t)
	var pool []models.PoolEntry
	for i := 0; i < 10; i++ {
		pool = append(pool, dueEntry(fmt.Sprintf("seen%d", i), 2.5, 2*time.Hour))
	}
	for i := 0; i < 10; i++ {
		pool = append(pool, unseenEntry(fmt.Sprintf("new%d", i)))
	}

	s, err := v.engine.Create("p1", testConfig(models.Mixed, 10), pool)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	var seen, unseen int
	for _, item := range s.Items {
		if len(item.VocabID) >= 4 && item.VocabID[:4] == "seen" {
			seen++
		} else {
			unseen++
		}
	}
	if seen != 7 || unseen != 3 {
		t.Errorf("mix = %d seen / %d new, want 7/3", seen, unseen)
	}
}

func TestCreateMixedTopsUpFromNew(t *testing.T) {
	v := newEnv(t)
	pool := []models.PoolEntry{
		dueEntry("seen0", 2.5, 2*time.Hour),
		dueEntry("seen1", 2.5, 2*time.Hour),
	}
	for i := 0; i < 10; i++ {
		pool = append(pool, unseenEntry(fmt.Sprintf("new%d", i)))
	}

	s, err := v.engine.Create("p1", testConfig(models.Mixed, 10), pool)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(s.Items) != 10 {
		t.Fatalf("items = %d, want 10", len(s.Items))
	}
}

func TestCreateInsufficientContent(t *testing.T) {
	v := newEnv(t)
	pool := []models.PoolEntry{unseenEntry("v1")}

	_, err := v.engine.Create("p1", testConfig(models.NewOnly, 5), pool)
	if !errors.Is(err, ErrInsufficientContent) {
		t.Fatalf("err = %v, want ErrInsufficientContent", err)
	}

	// Review-only can't use unseen words at all.
	_, err = v.engine.Create("p1", testConfig(models.ReviewOnly, 1), pool)
	if !errors.Is(err, ErrInsufficientContent) {
		t.Errorf("err = %v, want ErrInsufficientContent", err)
	}
}

func TestCreateZeroCountCompleteAtBirth(t *testing.T) {
	v := newEnv(t)
	s, err := v.engine.Create("p1", testConfig(models.NewOnly, 0), nil)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !s.Progress.IsComplete || s.Progress.CurrentIndex != 0 || len(s.Items) != 0 {
		t.Errorf("session = %+v, want empty complete", s.Progress)
	}
	if s.Recap != nil {
		t.Error("Recap present, want absent (never graded to completion)")
	}
}

func TestCreateSideTranslationSwapsPrompt(t *testing.T) {
	v := newEnv(t)
	cfg := testConfig(models.NewOnly, 1)
	cfg.Side = models.SideTranslation

	s, err := v.engine.Create("p1", cfg, []models.PoolEntry{unseenEntry("v1")})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.Items[0].Prompt != "v1-meaning" || s.Items[0].Rubric != "v1-term" {
		t.Errorf("item = %q/%q, want meaning prompted, term expected", s.Items[0].Prompt, s.Items[0].Rubric)
	}
}

func TestCreatePersistFailure(t *testing.T) {
	v := newEnv(t)
	v.store.failSaveSession = true

	_, err := v.engine.Create("p1", testConfig(models.NewOnly, 1), []models.PoolEntry{unseenEntry("v1")})
	if !errors.Is(err, ErrPersistence) {
		t.Fatalf("err = %v, want ErrPersistence", err)
	}
}

// --- Open ---

func TestOpenClampsStaleCursor(t *testing.T) {
	v := newEnv(t)
	s := createSession(t, v, 2)

	// Corrupt the stored cursor beyond the item list.
	stored, _ := v.store.LoadSession(s.SessionID)
	stored.Progress.CurrentIndex = 99
	if err := v.store.MemoryStore.SaveSession(stored); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}

	v.clock.Advance(time.Hour)
	opened, err := v.engine.Open(s.SessionID)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if opened.Progress.CurrentIndex != 2 {
		t.Errorf("CurrentIndex = %d, want clamped to 2", opened.Progress.CurrentIndex)
	}
	if !opened.Progress.LastOpenedAt.Equal(t0.Add(time.Hour)) {
		t.Errorf("LastOpenedAt = %v, want stamped", opened.Progress.LastOpenedAt)
	}
}

func TestOpenMissingSession(t *testing.T) {
	v := newEnv(t)
	_, err := v.engine.Open("nope")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("err = %v, want storage.ErrNotFound", err)
	}
}

func TestOpenClearsUndoStack(t *testing.T) {
	v := newEnv(t)
	s := createSession(t, v, 2)
	mustGrade(t, v, s.SessionID, correctOutcome())

	if !v.engine.CanUndo(s.SessionID) {
		t.Fatal("CanUndo = false after grade, want true")
	}

	if _, err := v.engine.Open(s.SessionID); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if v.engine.CanUndo(s.SessionID) {
		t.Error("CanUndo = true after reopen, want false")
	}

	// Undo across the boundary is a no-op.
	got, err := v.engine.Undo(s.SessionID)
	if err != nil {
		t.Fatalf("Undo: %v", err)
	}
	if got.Progress.CurrentIndex != 1 {
		t.Errorf("CurrentIndex = %d, want 1 (undo refused)", got.Progress.CurrentIndex)
	}
	if len(got.Items[0].History) != 1 {
		t.Error("history modified by refused undo")
	}
}

func TestEffectiveIndex(t *testing.T) {
	s := &models.Session{Items: []models.Item{{ItemID: "a"}, {ItemID: "b"}, {ItemID: "c"}}}

	s.Progress = models.Progress{CurrentIndex: 1}
	if got := EffectiveIndex(s); got != 1 {
		t.Errorf("in progress: EffectiveIndex = %d, want 1", got)
	}

	s.Progress = models.Progress{CurrentIndex: 3, IsComplete: true}
	if got := EffectiveIndex(s); got != 2 {
		t.Errorf("complete: EffectiveIndex = %d, want last item 2", got)
	}

	s.Progress = models.Progress{CurrentIndex: 7}
	if got := EffectiveIndex(s); got != 2 {
		t.Errorf("stale cursor: EffectiveIndex = %d, want clamped 2", got)
	}
}

func TestCanGrade(t *testing.T) {
	if CanGrade(nil) {
		t.Error("CanGrade(nil) = true")
	}

	s := &models.Session{Items: []models.Item{{ItemID: "a"}}}
	if !CanGrade(s) {
		t.Error("CanGrade = false for in-progress session")
	}

	s.Progress.IsComplete = true
	s.Progress.CurrentIndex = 1
	if CanGrade(s) {
		t.Error("CanGrade = true for complete session")
	}
}
