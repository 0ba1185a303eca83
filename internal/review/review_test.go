package review

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/Stephen-Garner/UniLexApp2-sub001/pkg/models"
)

var t0 = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func answered(id string, outcomes ...bool) models.Item {
	it := models.Item{ItemID: id, VocabID: "v-" + id, Prompt: id}
	for i, ok := range outcomes {
		it.History = append(it.History, models.Attempt{
			AttemptID:       id,
			Correct:         ok,
			DurationSeconds: float64(i + 1),
			AnsweredAt:      t0.Add(time.Duration(i) * time.Minute),
		})
	}
	return it
}

// --- ComputeOutcomes ---

func TestComputeOutcomesCountsLastAttemptOnly(t *testing.T) {
	items := []models.Item{
		answered("a", true),
		answered("b", false),
		answered("c", true),
		answered("d", false),
		answered("e", true),
	}
	got := ComputeOutcomes(items)
	if got.Correct != 3 || got.Incorrect != 2 {
		t.Errorf("counts = %+v, want {Correct:3 Incorrect:2}", got)
	}
}

func TestComputeOutcomesIgnoresEarlierAttempts(t *testing.T) {
	// First attempt wrong, retried correct: counts as correct.
	items := []models.Item{answered("a", false, true)}
	got := ComputeOutcomes(items)
	if got.Correct != 1 || got.Incorrect != 0 {
		t.Errorf("counts = %+v, want {Correct:1 Incorrect:0}", got)
	}
}

func TestComputeOutcomesSkipsUnanswered(t *testing.T) {
	items := []models.Item{
		answered("a", true),
		{ItemID: "b"},
	}
	got := ComputeOutcomes(items)
	if got.Correct != 1 || got.Incorrect != 0 {
		t.Errorf("counts = %+v, want {Correct:1 Incorrect:0}", got)
	}
}

func TestComputeOutcomesOrderInvariant(t *testing.T) {
	a := []models.Item{answered("a", true), answered("b", false), answered("c", true)}
	b := []models.Item{answered("c", true), answered("a", true), answered("b", false)}
	if ComputeOutcomes(a) != ComputeOutcomes(b) {
		t.Errorf("counts differ across orderings: %+v vs %+v", ComputeOutcomes(a), ComputeOutcomes(b))
	}
}

func TestAccuracyEmptyIsZero(t *testing.T) {
	var c OutcomeCounts
	got := c.Accuracy()
	if got != 0 || math.IsNaN(got) {
		t.Errorf("Accuracy() = %v, want 0", got)
	}
}

// --- Missed ---

func TestMissed(t *testing.T) {
	items := []models.Item{
		answered("a", true),
		answered("b", false),
		answered("c", true),
		answered("d", false),
		answered("e", true),
	}
	got := Missed(items)
	if len(got) != 2 || got[0].ItemID != "b" || got[1].ItemID != "d" {
		t.Errorf("Missed = %d items, want [b d]", len(got))
	}
}

func TestMissedRetriedItemNotMissed(t *testing.T) {
	items := []models.Item{answered("a", false, true)}
	if got := Missed(items); len(got) != 0 {
		t.Errorf("Missed = %d items, want 0", len(got))
	}
}

func TestMissedSkipsUnanswered(t *testing.T) {
	items := []models.Item{{ItemID: "a"}}
	if got := Missed(items); len(got) != 0 {
		t.Errorf("Missed = %d items, want 0", len(got))
	}
}

// --- BuildRecap ---

func TestBuildRecapDurationsInItemOrder(t *testing.T) {
	items := []models.Item{
		answered("a", true),        // duration 1
		{ItemID: "b"},              // never answered
		answered("c", false, true), // last attempt duration 2
	}
	recap := BuildRecap(items, nil)

	want := []float64{1, 0, 2}
	if !reflect.DeepEqual(recap.PerItemDurationsSeconds, want) {
		t.Errorf("durations = %v, want %v", recap.PerItemDurationsSeconds, want)
	}
}

func TestBuildRecapLowAccuracyRecommendsRepeat(t *testing.T) {
	items := []models.Item{answered("a", false), answered("b", false), answered("c", true)}
	recap := BuildRecap(items, nil)
	if len(recap.RecommendedActions) != 1 || recap.RecommendedActions[0] != ActionRepeatSet {
		t.Errorf("actions = %v, want [%q]", recap.RecommendedActions, ActionRepeatSet)
	}
}

func TestBuildRecapHighAccuracyRecommendsAdvance(t *testing.T) {
	items := []models.Item{answered("a", true), answered("b", true)}
	recap := BuildRecap(items, nil)
	if len(recap.RecommendedActions) != 1 || recap.RecommendedActions[0] != ActionIncreaseDifficulty {
		t.Errorf("actions = %v, want [%q]", recap.RecommendedActions, ActionIncreaseDifficulty)
	}
}

func TestBuildRecapMidAccuracyRecommendsNothing(t *testing.T) {
	items := []models.Item{
		answered("a", true), answered("b", true), answered("c", true), answered("d", false),
	}
	recap := BuildRecap(items, nil)
	if len(recap.RecommendedActions) != 0 {
		t.Errorf("actions = %v, want none", recap.RecommendedActions)
	}
}

func TestBuildRecapEmptySessionRecommendsNothing(t *testing.T) {
	recap := BuildRecap(nil, nil)
	if recap.Accuracy != 0 {
		t.Errorf("Accuracy = %v, want 0", recap.Accuracy)
	}
	if len(recap.RecommendedActions) != 0 {
		t.Errorf("actions = %v, want none", recap.RecommendedActions)
	}
}

func TestBuildRecapFlaggedItems(t *testing.T) {
	it := answered("a", true)
	it.IsFlagged = true
	recap := BuildRecap([]models.Item{it, answered("b", false)}, nil)

	found := false
	for _, a := range recap.RecommendedActions {
		if a == ActionReviewFlagged {
			found = true
		}
	}
	if !found {
		t.Errorf("actions = %v, want %q present", recap.RecommendedActions, ActionReviewFlagged)
	}
}

func TestBuildRecapDueQueuePreservesCaptureOrder(t *testing.T) {
	captures := []models.DueEntry{
		{VocabID: "v2", DueAt: t0.Add(48 * time.Hour)},
		{VocabID: "v1", DueAt: t0.Add(4 * time.Hour)},
	}
	recap := BuildRecap([]models.Item{answered("a", true)}, captures)

	if len(recap.DueQueue) != 2 || recap.DueQueue[0].VocabID != "v2" || recap.DueQueue[1].VocabID != "v1" {
		t.Errorf("DueQueue = %+v, want capture order preserved", recap.DueQueue)
	}

	// The recap owns its queue: mutating the capture slice afterwards must
	// not show through.
	captures[0].VocabID = "mutated"
	if recap.DueQueue[0].VocabID != "v2" {
		t.Error("DueQueue aliases the caller's capture slice")
	}
}

func TestBuildRecapIdempotent(t *testing.T) {
	items := []models.Item{answered("a", true), answered("b", false), {ItemID: "c"}}
	captures := []models.DueEntry{{VocabID: "v-a", DueAt: t0.Add(24 * time.Hour)}}

	first := BuildRecap(items, captures)
	second := BuildRecap(items, captures)

	if !reflect.DeepEqual(first, second) {
		t.Errorf("recaps differ:\n%+v\n%+v", first, second)
	}
}
