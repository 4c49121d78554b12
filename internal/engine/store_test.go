package engine_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/Wossito/gym-ai/internal/engine"
	"github.com/Wossito/gym-ai/internal/gym"
	"github.com/google/go-cmp/cmp"
)

func testProfile(t *testing.T, level gym.Level, goal gym.Goal, days int) gym.Profile {
	t.Helper()
	p, err := gym.NewProfile(30, 80, 1.8, level, goal, days)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func testExperience(t *testing.T, userID string, satisfaction int) engine.Experience {
	t.Helper()
	return engine.Experience{
		UserID:       userID,
		Profile:      testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4),
		RoutineID:    "routine-" + userID,
		Satisfaction: satisfaction,
		Timestamp:    time.Now(),
	}
}

func TestGenerationEvolvesEveryTenExperiences(t *testing.T) {
	store := engine.NewStore()

	for i := range 25 {
		store.AddExperience(testExperience(t, "u", 3))
		wantGeneration := (i + 1) / 10
		if got := store.Generation(); got != wantGeneration {
			t.Fatalf("after %d experiences: generation = %d, want %d", i+1, got, wantGeneration)
		}
	}
}

func TestEvolutionTunesExploration(t *testing.T) {
	t.Run("satisfied window narrows exploration", func(t *testing.T) {
		store := engine.NewStore()
		for range 10 {
			store.AddExperience(testExperience(t, "u", 5))
		}
		if got := store.ExplorationFactor(); math.Abs(got-0.19) > 1e-9 {
			t.Errorf("exploration factor = %g, want 0.19", got)
		}
	})

	t.Run("dissatisfied window widens exploration", func(t *testing.T) {
		store := engine.NewStore()
		for range 10 {
			store.AddExperience(testExperience(t, "u", 2))
		}
		if got := store.ExplorationFactor(); math.Abs(got-0.22) > 1e-9 {
			t.Errorf("exploration factor = %g, want 0.22", got)
		}
	})

	t.Run("neutral window leaves the factor alone", func(t *testing.T) {
		store := engine.NewStore()
		for range 10 {
			store.AddExperience(testExperience(t, "u", 4))
		}
		for range 10 {
			store.AddExperience(testExperience(t, "u", 3))
		}
		// 0.2 - 0.01 after the first window, 3.0 avg hits the widen rule.
		if got := store.ExplorationFactor(); math.Abs(got-0.21) > 1e-9 {
			t.Errorf("exploration factor = %g, want 0.21", got)
		}
	})
}

func TestExplorationBounds(t *testing.T) {
	store := engine.NewStore()

	for range 100 {
		store.DecreaseExploration(0.01)
	}
	if got := store.ExplorationFactor(); got != 0.1 {
		t.Errorf("floor: exploration factor = %g, want 0.1", got)
	}
	if store.DecreaseExploration(0.01) {
		t.Error("decrease at the floor must report no change")
	}

	for range 100 {
		store.IncreaseExploration(0.02)
	}
	if got := store.ExplorationFactor(); got != 0.4 {
		t.Errorf("ceiling: exploration factor = %g, want 0.4", got)
	}
	if store.IncreaseExploration(0.02) {
		t.Error("increase at the ceiling must report no change")
	}
}

func TestPopularExercises(t *testing.T) {
	store := engine.NewStore()
	for range 3 {
		store.IncrementExerciseCombination(gym.MuscleGroupChest, "Bench press")
	}
	for range 2 {
		store.IncrementExerciseCombination(gym.MuscleGroupChest, "Dumbbell flyes")
	}
	store.IncrementExerciseCombination(gym.MuscleGroupChest, "Pullover")
	store.IncrementExerciseCombination(gym.MuscleGroupChest, "Cable crossovers")

	got := store.PopularExercises(gym.MuscleGroupChest, 3)
	want := []string{"Bench press", "Dumbbell flyes", "Cable crossovers"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("PopularExercises mismatch (-want +got):\n%s", diff)
	}

	if got := store.PopularExercises(gym.MuscleGroupLegs, 3); len(got) != 0 {
		t.Errorf("unknown group: want empty, got %v", got)
	}
}

func TestUserHistoryFilters(t *testing.T) {
	store := engine.NewStore()
	store.AddExperience(testExperience(t, "alice", 4))
	store.AddExperience(testExperience(t, "bob", 2))
	store.AddExperience(testExperience(t, "alice", 5))

	if got := len(store.UserHistory("alice")); got != 2 {
		t.Errorf("alice history = %d, want 2", got)
	}
	if got := len(store.UserHistory("carol")); got != 0 {
		t.Errorf("carol history = %d, want 0", got)
	}
}

func TestStatistics(t *testing.T) {
	store := engine.NewStore()
	store.AddExperience(testExperience(t, "alice", 5))
	store.AddExperience(testExperience(t, "alice", 4))
	store.AddExperience(testExperience(t, "bob", 2))

	got := store.Statistics()
	if got.TotalUsers != 2 {
		t.Errorf("TotalUsers = %d, want 2", got.TotalUsers)
	}
	if got.TotalExperiences != 3 {
		t.Errorf("TotalExperiences = %d, want 3", got.TotalExperiences)
	}
	if want := (5.0 + 4 + 2) / 3; got.AverageSatisfaction != want {
		t.Errorf("AverageSatisfaction = %g, want %g", got.AverageSatisfaction, want)
	}
	if want := 2.0 / 3 * 100; got.SuccessRate != want {
		t.Errorf("SuccessRate = %g, want %g", got.SuccessRate, want)
	}
}

func TestDocumentRoundTrip(t *testing.T) {
	store := engine.NewStore()
	profile := testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4)

	exercise, err := gym.NewStrengthExercise("Bench press", gym.MuscleGroupChest, 4, "8-12", "60-90s")
	if err != nil {
		t.Fatal(err)
	}
	routine, err := gym.NewRoutine(profile, []gym.RoutineDay{
		{Label: "Day 1", Exercises: []gym.Exercise{exercise}},
	}, gym.StructureUpperLower, map[string]any{gym.MetadataGenerationMode: "exploration"})
	if err != nil {
		t.Fatal(err)
	}

	store.AddExperience(testExperience(t, "alice", 4))
	store.AddSuccessfulPattern(engine.PatternKey(profile.Level, profile.Goal), engine.Pattern{
		Routine:      routine,
		Satisfaction: 4,
		Timestamp:    time.Now(),
	})
	store.IncrementExerciseCombination(gym.MuscleGroupChest, "Bench press")

	doc := store.Document()
	payload, err := json.Marshal(doc)
	if err != nil {
		t.Fatal(err)
	}
	var decoded engine.Document
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(doc.LearningSystem, decoded.LearningSystem); diff != "" {
		t.Errorf("learning state round-trip mismatch (-want +got):\n%s", diff)
	}

	rebuilt := engine.StoreFromDocument(decoded)
	if diff := cmp.Diff(store.Statistics(), rebuilt.Statistics()); diff != "" {
		t.Errorf("statistics after reload mismatch (-want +got):\n%s", diff)
	}
}

func TestStoreFromDocumentRepairsState(t *testing.T) {
	rebuilt := engine.StoreFromDocument(engine.Document{
		LearningSystem: engine.LearningState{
			ExplorationFactor: 0.95,
		},
	})
	if got := rebuilt.ExplorationFactor(); got != 0.4 {
		t.Errorf("exploration factor = %g, want clamped 0.4", got)
	}
	// Nil maps must come back usable.
	rebuilt.IncrementExerciseCombination(gym.MuscleGroupChest, "Bench press")
	rebuilt.AddSuccessfulPattern("x", engine.Pattern{})
}
