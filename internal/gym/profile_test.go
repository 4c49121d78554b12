package gym

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestNewProfile(t *testing.T) {
	t.Run("valid profile", func(t *testing.T) {
		p, err := NewProfile(30, 80, 1.8, LevelIntermediate, GoalGainMass, 4)
		if err != nil {
			t.Fatal(err)
		}
		want := 80 / (1.8 * 1.8)
		if math.Abs(p.BMI()-want) > 1e-9 {
			t.Errorf("BMI = %g, want %g", p.BMI(), want)
		}
		if p.CreatedAt.IsZero() {
			t.Error("CreatedAt not set")
		}
	})

	t.Run("all violations reported at once", func(t *testing.T) {
		_, err := NewProfile(5, 10, 0.5, Level("couch"), Goal("swole"), 9)
		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("want ValidationErrors, got %T", err)
		}
		if len(verrs) != 6 {
			t.Errorf("want 6 violations, got %d: %v", len(verrs), verrs)
		}
	})

	t.Run("boundary values accepted", func(t *testing.T) {
		cases := []struct {
			age  int
			days int
		}{
			{AgeMin, TrainingDaysMin},
			{AgeMax, TrainingDaysMax},
		}
		for _, tc := range cases {
			if _, err := NewProfile(tc.age, 80, 1.8, LevelBeginner, GoalStrength, tc.days); err != nil {
				t.Errorf("age=%d days=%d: %v", tc.age, tc.days, err)
			}
		}
	})
}

func TestLevelAndGoalCodes(t *testing.T) {
	if LevelBeginner.Code() != 1 || LevelIntermediate.Code() != 2 || LevelAdvanced.Code() != 3 {
		t.Error("level codes drifted")
	}
	if GoalLoseWeight.Code() != 1 || GoalGainMass.Code() != 2 || GoalEndurance.Code() != 3 || GoalStrength.Code() != 4 {
		t.Error("goal codes drifted")
	}

	if _, err := ParseLevel("expert"); err == nil {
		t.Error("want error for unknown level")
	}
	if _, err := ParseGoal("bulk"); err == nil {
		t.Error("want error for unknown goal")
	}
}

func TestProfileSimilarityUsesTraits(t *testing.T) {
	a, err := NewProfile(30, 80, 1.8, LevelIntermediate, GoalGainMass, 4)
	if err != nil {
		t.Fatal(err)
	}
	b, err := NewProfile(30, 80, 1.8, LevelIntermediate, GoalGainMass, 4)
	if err != nil {
		t.Fatal(err)
	}
	if got := a.Similarity(b); got != 1.0 {
		t.Errorf("identical profiles: want 1.0, got %g", got)
	}

	c, err := NewProfile(55, 95, 1.7, LevelBeginner, GoalLoseWeight, 2)
	if err != nil {
		t.Fatal(err)
	}
	if a.Similarity(c) >= a.Similarity(b) {
		t.Error("distant profile should score lower")
	}
}

func TestNewUser(t *testing.T) {
	profile, err := NewProfile(30, 80, 1.8, LevelIntermediate, GoalGainMass, 4)
	if err != nil {
		t.Fatal(err)
	}

	t.Run("empty name rejected", func(t *testing.T) {
		if _, err := NewUser("   ", profile, ""); err == nil {
			t.Error("want error for blank name")
		}
	})

	t.Run("limitations sanitized and capped", func(t *testing.T) {
		u, err := NewUser("Ana", profile, "knee pain\x00"+strings.Repeat("x", 600))
		if err != nil {
			t.Fatal(err)
		}
		if strings.ContainsRune(u.Limitations, '\x00') {
			t.Error("control character survived sanitization")
		}
		if len(u.Limitations) > 500 {
			t.Errorf("limitations not capped: %d chars", len(u.Limitations))
		}
		if u.ID == "" {
			t.Error("user ID not assigned")
		}
	})
}
