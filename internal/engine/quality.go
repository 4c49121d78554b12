package engine

import (
	"fmt"

	"github.com/Wossito/gym-ai/internal/gym"
)

// ValidateQuality checks a generated routine for structural problems. It
// flags instead of rejecting: a flagged routine is still delivered, the
// issues are surfaced for display and logging.
func ValidateQuality(routine gym.Routine) (bool, []string) {
	var problems []string

	if routine.TotalExercises() == 0 {
		problems = append(problems, "the routine has no exercises")
	}

	worked := map[string]bool{}
	for _, group := range routine.MuscleGroupsWorked() {
		worked[group] = true
	}
	for _, major := range []string{gym.MuscleGroupChest, gym.MuscleGroupBack, gym.MuscleGroupLegs} {
		if !worked[major] {
			problems = append(problems, fmt.Sprintf("missing work for %s", major))
		}
	}

	perDay := routine.ExercisesPerDay()
	if perDay < 3 {
		problems = append(problems, "too few exercises per day")
	} else if perDay > 8 {
		problems = append(problems, "too many exercises per day")
	}

	for _, day := range routine.Days {
		for _, exercise := range day.Exercises {
			if !exercise.IsCardio() && exercise.Sets < 2 {
				problems = append(problems, fmt.Sprintf("%s: %s has too few sets", day.Label, exercise.Name))
			}
		}
	}

	return len(problems) == 0, problems
}

// EffectivenessAnalysis summarises the structural properties of a routine
// that matter for feedback-driven adjustments.
type EffectivenessAnalysis struct {
	HasFeedback     bool    `json:"has_feedback"`
	IsSuccessful    bool    `json:"is_successful"`
	Satisfaction    *int    `json:"satisfaction,omitempty"`
	Complexity      float64 `json:"complexity"`
	TotalDays       int     `json:"total_days"`
	TotalExercises  int     `json:"total_exercises"`
	ExercisesPerDay float64 `json:"exercises_per_day"`
	GroupsWorked    int     `json:"groups_worked"`
	HasCardio       bool    `json:"has_cardio"`
	CardioFrequency int     `json:"cardio_frequency"`
	// MuscleBalance is the covered share of the four major groups
	// (chest, back, legs, shoulders).
	MuscleBalance float64 `json:"muscle_balance"`
}

// AnalyzeEffectiveness computes the structural analysis of a routine.
func AnalyzeEffectiveness(routine gym.Routine) EffectivenessAnalysis {
	majorGroups := []string{gym.MuscleGroupChest, gym.MuscleGroupBack, gym.MuscleGroupLegs, gym.MuscleGroupShoulders}
	worked := map[string]bool{}
	for _, group := range routine.MuscleGroupsWorked() {
		worked[group] = true
	}
	var coveredMajor int
	for _, major := range majorGroups {
		if worked[major] {
			coveredMajor++
		}
	}

	return EffectivenessAnalysis{
		HasFeedback:     routine.HasFeedback(),
		IsSuccessful:    routine.IsSuccessful(),
		Satisfaction:    routine.Satisfaction,
		Complexity:      round2(routine.ComplexityScore()),
		TotalDays:       routine.TotalDays(),
		TotalExercises:  routine.TotalExercises(),
		ExercisesPerDay: round2(routine.ExercisesPerDay()),
		GroupsWorked:    len(routine.MuscleGroupsWorked()),
		HasCardio:       routine.HasCardio(),
		CardioFrequency: routine.CardioFrequency(),
		MuscleBalance:   float64(coveredMajor) / float64(len(majorGroups)),
	}
}

// RecommendAdjustments turns a feedback rating into concrete advice keyed
// on the rating band and the user's goal.
func RecommendAdjustments(profile gym.Profile, routine gym.Routine, satisfaction int) []string {
	var recommendations []string
	analysis := AnalyzeEffectiveness(routine)

	switch {
	case satisfaction <= 2:
		recommendations = append(recommendations,
			"Reduce intensity: fewer sets or less weight",
			"Increase rest time between sets")
		if analysis.ExercisesPerDay > 6 {
			recommendations = append(recommendations, "Reduce the number of exercises per day")
		}
	case satisfaction == 3:
		if analysis.MuscleBalance < 0.75 {
			recommendations = append(recommendations, "Improve balance: add the missing muscle groups")
		}
		if !analysis.HasCardio && profile.Goal == gym.GoalLoseWeight {
			recommendations = append(recommendations, "Add cardio to improve results")
		}
	default:
		recommendations = append(recommendations, "Great! Keep up the consistency")
		if profile.Level == gym.LevelBeginner {
			recommendations = append(recommendations, "Consider progressing to more challenging exercises")
		}
	}

	if profile.Goal == gym.GoalGainMass && analysis.ExercisesPerDay < 4 {
		recommendations = append(recommendations, "Consider increasing training volume")
	}
	if profile.Goal == gym.GoalEndurance && analysis.CardioFrequency < 2 {
		recommendations = append(recommendations, "Increase cardio frequency")
	}

	return recommendations
}
