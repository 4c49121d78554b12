package gym

import (
	"math"
	"testing"
)

func mustProfile(t *testing.T) Profile {
	t.Helper()
	p, err := NewProfile(30, 80, 1.8, LevelIntermediate, GoalGainMass, 4)
	if err != nil {
		t.Fatal(err)
	}
	return p
}

func mustStrength(t *testing.T, name, group string) Exercise {
	t.Helper()
	e, err := NewStrengthExercise(name, group, 4, "8-12", "60-90s")
	if err != nil {
		t.Fatal(err)
	}
	return e
}

func TestExerciseShapes(t *testing.T) {
	t.Run("strength constructor", func(t *testing.T) {
		e, err := NewStrengthExercise("Bench press", MuscleGroupChest, 4, "8-12", "60s")
		if err != nil {
			t.Fatal(err)
		}
		if e.IsCardio() {
			t.Error("strength exercise reported as cardio")
		}
		if !e.IsCompound() {
			t.Error("bench press should be compound")
		}
	})

	t.Run("cardio constructor", func(t *testing.T) {
		e, err := NewCardioExercise("Jogging", "25 min", IntensityModerate)
		if err != nil {
			t.Fatal(err)
		}
		if !e.IsCardio() {
			t.Error("cardio exercise not detected")
		}
		if e.IsCompound() {
			t.Error("cardio must not be compound")
		}
	})

	t.Run("mixed shape rejected", func(t *testing.T) {
		bad := Exercise{
			Name:        "Frankenpress",
			MuscleGroup: MuscleGroupChest,
			Sets:        3,
			RepRange:    "8-12",
			RestRange:   "60s",
			Duration:    "10 min",
			Intensity:   IntensityHigh,
		}
		if err := bad.Validate(); err == nil {
			t.Error("want error for mixed strength/cardio fields")
		}
	})

	t.Run("strength without sets rejected", func(t *testing.T) {
		if _, err := NewStrengthExercise("Squat", MuscleGroupLegs, 0, "8-12", "60s"); err == nil {
			t.Error("want error for zero sets")
		}
	})
}

func TestRoutineFeedback(t *testing.T) {
	r, err := NewRoutine(mustProfile(t), []RoutineDay{
		{Label: "Day 1", Exercises: []Exercise{mustStrength(t, "Squat", MuscleGroupLegs)}},
	}, StructureFullBody, nil)
	if err != nil {
		t.Fatal(err)
	}

	if r.HasFeedback() {
		t.Error("fresh routine must not have feedback")
	}
	if err := r.SetFeedback(0, ""); err == nil {
		t.Error("want error for out-of-range rating")
	}
	if err := r.SetFeedback(4, "solid week"); err != nil {
		t.Fatal(err)
	}
	if !r.IsSuccessful() {
		t.Error("rating 4 should count as successful")
	}
	if err := r.SetFeedback(5, "again"); err == nil {
		t.Error("feedback must be one-shot")
	}
}

func TestRoutineAggregates(t *testing.T) {
	cardio, err := NewCardioExercise("HIIT", "20 min", IntensityHIIT)
	if err != nil {
		t.Fatal(err)
	}
	r, err := NewRoutine(mustProfile(t), []RoutineDay{
		{Label: "Day 1", Exercises: []Exercise{
			mustStrength(t, "Bench press", MuscleGroupChest),
			mustStrength(t, "Barbell row", MuscleGroupBack),
			cardio,
		}},
		{Label: "Day 2", Exercises: []Exercise{
			mustStrength(t, "Squat", MuscleGroupLegs),
		}},
	}, StructureUpperLower, map[string]any{MetadataGenerationMode: "exploration"})
	if err != nil {
		t.Fatal(err)
	}

	if got := r.TotalDays(); got != 2 {
		t.Errorf("TotalDays = %d", got)
	}
	if got := r.TotalExercises(); got != 4 {
		t.Errorf("TotalExercises = %d", got)
	}
	if got := r.ExercisesPerDay(); got != 2 {
		t.Errorf("ExercisesPerDay = %g", got)
	}
	if got := len(r.MuscleGroupsWorked()); got != 3 {
		t.Errorf("MuscleGroupsWorked = %d, want 3 (cardio excluded)", got)
	}
	if !r.HasCardio() || r.CardioFrequency() != 1 {
		t.Error("cardio accounting broken")
	}

	want := (2.0/7)*0.4 + (3.0/6)*0.4 + 0.2
	if math.Abs(r.ComplexityScore()-want) > 1e-9 {
		t.Errorf("ComplexityScore = %g, want %g", r.ComplexityScore(), want)
	}
}

func TestNewRoutineValidation(t *testing.T) {
	profile := mustProfile(t)

	if _, err := NewRoutine(profile, nil, StructureFullBody, nil); err == nil {
		t.Error("want error for empty day list")
	}
	if _, err := NewRoutine(profile, []RoutineDay{{Label: "Day 1"}}, Structure("circuit"), nil); err == nil {
		t.Error("want error for unknown structure")
	}

	r1, err := NewRoutine(profile, []RoutineDay{{Label: "Day 1", Exercises: []Exercise{mustStrength(t, "Squat", MuscleGroupLegs)}}}, StructureFullBody, nil)
	if err != nil {
		t.Fatal(err)
	}
	r2, err := NewRoutine(profile, []RoutineDay{{Label: "Day 1", Exercises: []Exercise{mustStrength(t, "Squat", MuscleGroupLegs)}}}, StructureFullBody, nil)
	if err != nil {
		t.Fatal(err)
	}
	if r1.ID == r2.ID {
		t.Error("routine IDs must be unique")
	}
}
