// Package gym defines the validated domain records of the routine
// recommendation system (profiles, exercises, routines, users) together
// with the static content tables the generator draws from.
package gym

import (
	"fmt"
	"time"

	"github.com/Wossito/gym-ai/internal/stats"
)

type Level string

const (
	LevelBeginner     Level = "beginner"
	LevelIntermediate Level = "intermediate"
	LevelAdvanced     Level = "advanced"
)

// Code returns the ordinal used by the similarity metric. Unknown levels
// map to the intermediate code.
func (l Level) Code() int {
	switch l {
	case LevelBeginner:
		return 1
	case LevelIntermediate:
		return 2
	case LevelAdvanced:
		return 3
	default:
		return 2
	}
}

func (l Level) Valid() bool {
	switch l {
	case LevelBeginner, LevelIntermediate, LevelAdvanced:
		return true
	}
	return false
}

func ParseLevel(s string) (Level, error) {
	l := Level(s)
	if !l.Valid() {
		return "", fmt.Errorf("unknown experience level %q", s)
	}
	return l, nil
}

type Goal string

const (
	GoalLoseWeight Goal = "lose_weight"
	GoalGainMass   Goal = "gain_mass"
	GoalEndurance  Goal = "endurance"
	GoalStrength   Goal = "strength"
)

// Code returns the ordinal used by the similarity metric. Unknown goals
// map to the gain_mass code.
func (g Goal) Code() int {
	switch g {
	case GoalLoseWeight:
		return 1
	case GoalGainMass:
		return 2
	case GoalEndurance:
		return 3
	case GoalStrength:
		return 4
	default:
		return 2
	}
}

func (g Goal) Valid() bool {
	switch g {
	case GoalLoseWeight, GoalGainMass, GoalEndurance, GoalStrength:
		return true
	}
	return false
}

func ParseGoal(s string) (Goal, error) {
	g := Goal(s)
	if !g.Valid() {
		return "", fmt.Errorf("unknown training goal %q", s)
	}
	return g, nil
}

// Profile is the validated physical and preference description of a user.
// Construct through NewProfile so every stored profile satisfies the
// validation ranges.
type Profile struct {
	Age          int       `json:"age"`
	WeightKg     float64   `json:"weight_kg"`
	HeightM      float64   `json:"height_m"`
	Level        Level     `json:"level"`
	Goal         Goal      `json:"goal"`
	TrainingDays int       `json:"training_days"`
	CreatedAt    time.Time `json:"created_at"`
}

// NewProfile validates all fields and returns every violation at once as a
// ValidationErrors value.
func NewProfile(age int, weightKg, heightM float64, level Level, goal Goal, trainingDays int) (Profile, error) {
	var errs ValidationErrors
	if age < AgeMin || age > AgeMax {
		errs = append(errs, fmt.Sprintf("age must be between %d and %d, got %d", AgeMin, AgeMax, age))
	}
	if weightKg < WeightMinKg || weightKg > WeightMaxKg {
		errs = append(errs, fmt.Sprintf("weight must be between %g and %g kg, got %g", WeightMinKg, WeightMaxKg, weightKg))
	}
	if heightM < HeightMinM || heightM > HeightMaxM {
		errs = append(errs, fmt.Sprintf("height must be between %g and %g m, got %g", HeightMinM, HeightMaxM, heightM))
	}
	if !level.Valid() {
		errs = append(errs, fmt.Sprintf("unknown experience level %q", level))
	}
	if !goal.Valid() {
		errs = append(errs, fmt.Sprintf("unknown training goal %q", goal))
	}
	if trainingDays < TrainingDaysMin || trainingDays > TrainingDaysMax {
		errs = append(errs, fmt.Sprintf("training days must be between %d and %d, got %d", TrainingDaysMin, TrainingDaysMax, trainingDays))
	}
	if len(errs) > 0 {
		return Profile{}, errs
	}
	return Profile{
		Age:          age,
		WeightKg:     weightKg,
		HeightM:      heightM,
		Level:        level,
		Goal:         goal,
		TrainingDays: trainingDays,
		CreatedAt:    time.Now(),
	}, nil
}

// BMI is derived from weight and height. Height is validated positive at
// construction so no error return is needed.
func (p Profile) BMI() float64 {
	return p.WeightKg / (p.HeightM * p.HeightM)
}

func (p Profile) BMICategory() stats.BMICategory {
	return stats.CategoryForBMI(p.BMI())
}

// Traits projects the profile onto the numeric vector used by the
// similarity metric.
func (p Profile) Traits() stats.Traits {
	return stats.Traits{
		Age:          p.Age,
		BMI:          p.BMI(),
		LevelCode:    p.Level.Code(),
		Goal:         string(p.Goal),
		TrainingDays: p.TrainingDays,
	}
}

// Similarity scores this profile against another in (0, 1].
func (p Profile) Similarity(other Profile) float64 {
	return stats.ProfileSimilarity(p.Traits(), other.Traits())
}
