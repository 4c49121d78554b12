package engine_test

import (
	"math"
	"testing"
	"time"

	"github.com/Wossito/gym-ai/internal/engine"
	"github.com/Wossito/gym-ai/internal/gym"
	"github.com/google/go-cmp/cmp"
)

// seedExperience adds one experience for a clone of the given profile.
func seedExperience(t *testing.T, store *engine.Store, profile gym.Profile, satisfaction int, successful *gym.Routine) {
	t.Helper()
	store.AddExperience(engine.Experience{
		UserID:            "seed",
		Profile:           profile,
		RoutineID:         "seed-routine",
		SuccessfulRoutine: successful,
		Satisfaction:      satisfaction,
		Timestamp:         time.Now(),
	})
}

func successfulRoutine(t *testing.T, profile gym.Profile, sets int, repRange string) gym.Routine {
	t.Helper()
	bench, err := gym.NewStrengthExercise("Bench press", gym.MuscleGroupChest, sets, repRange, "60-90s")
	if err != nil {
		t.Fatal(err)
	}
	squat, err := gym.NewStrengthExercise("Squat", gym.MuscleGroupLegs, sets, repRange, "60-90s")
	if err != nil {
		t.Fatal(err)
	}
	routine, err := gym.NewRoutine(profile, []gym.RoutineDay{
		{Label: "Day 1", Exercises: []gym.Exercise{bench}},
		{Label: "Day 2", Exercises: []gym.Exercise{squat}},
	}, gym.StructureUpperLower, nil)
	if err != nil {
		t.Fatal(err)
	}
	return routine
}

func TestPredictSatisfactionBaseline(t *testing.T) {
	store := engine.NewStore()
	inferencer := engine.NewInferencer(store)
	profile := testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4)

	got := inferencer.PredictSatisfaction(profile, nil)

	if got.Method != engine.MethodBaseline {
		t.Errorf("Method = %q, want baseline", got.Method)
	}
	if got.Satisfaction != 3.5 || got.Confidence != 0.3 {
		t.Errorf("baseline = %.2f/%.2f, want 3.50/0.30", got.Satisfaction, got.Confidence)
	}
	if !got.Recommend {
		t.Error("baseline must still recommend")
	}
	if !got.Factors.NoData {
		t.Error("baseline factors must flag no data")
	}
}

func TestPredictSatisfactionWithNeighbours(t *testing.T) {
	store := engine.NewStore()
	inferencer := engine.NewInferencer(store)
	profile := testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4)

	// Identical profiles (similarity 1.0) with uniform high ratings.
	for range 5 {
		seedExperience(t, store, profile, 5, nil)
	}

	got := inferencer.PredictSatisfaction(profile, nil)

	if got.Method != engine.MethodBayesian {
		t.Fatalf("Method = %q, want bayesian", got.Method)
	}
	if got.SimilarUsers != 5 {
		t.Errorf("SimilarUsers = %d, want 5", got.SimilarUsers)
	}
	// Prior 5.0 plus a positive adjustment, clamped to the scale.
	if got.Satisfaction != 5.0 {
		t.Errorf("Satisfaction = %g, want clamped 5.0", got.Satisfaction)
	}
	// n=5 (+0.2), similarity 1.0 (+0.3), stddev 0 (+0.2): saturated.
	if got.Confidence != 1.0 {
		t.Errorf("Confidence = %g, want 1.0", got.Confidence)
	}
	if !got.Recommend {
		t.Error("high prediction with high confidence must recommend")
	}
}

func TestPredictSatisfactionTopTenCap(t *testing.T) {
	store := engine.NewStore()
	inferencer := engine.NewInferencer(store)
	profile := testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4)

	for range 15 {
		seedExperience(t, store, profile, 4, nil)
	}

	if got := inferencer.PredictSatisfaction(profile, nil); got.SimilarUsers != 10 {
		t.Errorf("SimilarUsers = %d, want capped at 10", got.SimilarUsers)
	}
}

func TestInferOptimalParametersHeuristic(t *testing.T) {
	store := engine.NewStore()
	inferencer := engine.NewInferencer(store)

	tests := []struct {
		name    string
		profile gym.Profile
		want    engine.OptimalParameters
	}{
		{
			name:    "intermediate gain_mass",
			profile: testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4),
			want: engine.OptimalParameters{
				Series: 4, RepsMin: 8, RepsMax: 12, Rest: "60-90s",
				Confidence: 0.5, BasedOn: 0, Method: engine.MethodHeuristic,
			},
		},
		{
			name:    "advanced strength",
			profile: testProfile(t, gym.LevelAdvanced, gym.GoalStrength, 5),
			want: engine.OptimalParameters{
				Series: 5, RepsMin: 4, RepsMax: 8, Rest: "120-180s",
				Confidence: 0.5, BasedOn: 0, Method: engine.MethodHeuristic,
			},
		},
		{
			name:    "beginner lose_weight",
			profile: testProfile(t, gym.LevelBeginner, gym.GoalLoseWeight, 3),
			want: engine.OptimalParameters{
				Series: 3, RepsMin: 12, RepsMax: 20, Rest: "30-60s",
				Confidence: 0.5, BasedOn: 0, Method: engine.MethodHeuristic,
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferencer.InferOptimalParameters(tt.profile)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("parameters mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestInferOptimalParametersFromData(t *testing.T) {
	store := engine.NewStore()
	inferencer := engine.NewInferencer(store)
	profile := testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4)

	// Four successful neighbours who all trained 4x10 (range 8-12).
	for range 4 {
		routine := successfulRoutine(t, profile, 4, "8-12")
		seedExperience(t, store, profile, 5, &routine)
	}
	// A dissatisfied neighbour must not contribute.
	badRoutine := successfulRoutine(t, profile, 6, "2-4")
	seedExperience(t, store, profile, 2, &badRoutine)

	got := inferencer.InferOptimalParameters(profile)

	if got.Method != engine.MethodDataInference {
		t.Fatalf("Method = %q, want data_inference", got.Method)
	}
	if got.Series != 4 {
		t.Errorf("Series = %d, want median 4", got.Series)
	}
	// Median rep midpoint 10 widens to 8-12.
	if got.RepsMin != 8 || got.RepsMax != 12 {
		t.Errorf("reps = %d-%d, want 8-12", got.RepsMin, got.RepsMax)
	}
	if got.Rest != "60-90s" {
		t.Errorf("Rest = %q, want gain_mass band 60-90s", got.Rest)
	}
	if got.BasedOn != 4 {
		t.Errorf("BasedOn = %d, want 4", got.BasedOn)
	}
	if math.Abs(got.Confidence-0.4) > 1e-9 {
		t.Errorf("Confidence = %g, want 0.4", got.Confidence)
	}
}

func TestClassifyUser(t *testing.T) {
	store := engine.NewStore()
	inferencer := engine.NewInferencer(store)
	profile := testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4)

	history := func(ratings ...int) []engine.Experience {
		out := make([]engine.Experience, len(ratings))
		for i, rating := range ratings {
			out[i] = engine.Experience{UserID: "u", Profile: profile, Satisfaction: rating}
		}
		return out
	}

	tests := []struct {
		name            string
		history         []engine.Experience
		wantCategory    string
		wantPerformance string
	}{
		{"no history is a novice", nil, engine.CategoryNovice, engine.PerformanceNeedsAdjustment},
		{"three experiences is regular", history(5, 5, 4), engine.CategoryRegular, engine.PerformanceExcellent},
		{"six experiences is experienced", history(4, 4, 4, 4, 4, 4), engine.CategoryExperienced, engine.PerformanceGood},
		{"sixteen experiences is veteran", history(3, 3, 4, 3, 4, 3, 4, 3, 4, 3, 4, 3, 4, 3, 4, 3), engine.CategoryVeteran, engine.PerformanceNeedsAdjustment},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inferencer.ClassifyUser(profile, tt.history)
			if got.Category != tt.wantCategory {
				t.Errorf("Category = %q, want %q", got.Category, tt.wantCategory)
			}
			if got.Performance != tt.wantPerformance {
				t.Errorf("Performance = %q, want %q", got.Performance, tt.wantPerformance)
			}
			if len(got.Recommendations) == 0 {
				t.Error("want at least one recommendation")
			}
			if got.Experiences != len(tt.history) {
				t.Errorf("Experiences = %d, want %d", got.Experiences, len(tt.history))
			}
		})
	}
}

func TestDetectAnomalies(t *testing.T) {
	store := engine.NewStore()
	inferencer := engine.NewInferencer(store)
	profile := testProfile(t, gym.LevelIntermediate, gym.GoalGainMass, 4)

	history := func(ratings ...int) []engine.Experience {
		out := make([]engine.Experience, len(ratings))
		for i, rating := range ratings {
			out[i] = engine.Experience{UserID: "u", Profile: profile, Satisfaction: rating}
		}
		return out
	}

	hasAnomaly := func(report engine.AnomalyReport, anomalyType string) bool {
		for _, a := range report.Anomalies {
			if a.Type == anomalyType {
				return true
			}
		}
		return false
	}

	t.Run("short history is always normal", func(t *testing.T) {
		got := inferencer.DetectAnomalies(history(1, 1))
		if got.State != engine.StateNormal || len(got.Anomalies) != 0 {
			t.Errorf("want normal with no anomalies, got %+v", got)
		}
	})

	t.Run("strictly declining last three", func(t *testing.T) {
		got := inferencer.DetectAnomalies(history(5, 4, 3))
		if !hasAnomaly(got, engine.AnomalyDecliningTrend) {
			t.Error("want declining_trend")
		}
		if got.State != engine.StateAnomalous {
			t.Errorf("State = %q, want anomalous", got.State)
		}
	})

	t.Run("rising ratings are normal", func(t *testing.T) {
		got := inferencer.DetectAnomalies(history(3, 4, 5))
		if got.State != engine.StateNormal {
			t.Errorf("State = %q, want normal", got.State)
		}
	})

	t.Run("abrupt drop from satisfied to dissatisfied", func(t *testing.T) {
		got := inferencer.DetectAnomalies(history(4, 4, 2))
		if !hasAnomaly(got, engine.AnomalyAbruptDrop) {
			t.Error("want abrupt_drop")
		}
	})

	t.Run("moderate dip is not abrupt", func(t *testing.T) {
		got := inferencer.DetectAnomalies(history(4, 4, 3))
		if hasAnomaly(got, engine.AnomalyAbruptDrop) {
			t.Error("4 to 3 must not count as abrupt drop")
		}
	})

	t.Run("plateau needs five middling ratings", func(t *testing.T) {
		got := inferencer.DetectAnomalies(history(3, 3, 4, 3, 3))
		if !hasAnomaly(got, engine.AnomalyPlateau) {
			t.Error("want plateau")
		}
		if got := inferencer.DetectAnomalies(history(3, 3, 4)); hasAnomaly(got, engine.AnomalyPlateau) {
			t.Error("plateau must not fire under five ratings")
		}
	})
}
