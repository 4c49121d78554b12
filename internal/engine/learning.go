package engine

import (
	"time"

	"github.com/Wossito/gym-ai/internal/gym"
	"github.com/Wossito/gym-ai/internal/stats"
)

// LearningResults reports which parts of the learning state a feedback
// event actually changed.
type LearningResults struct {
	PatternsUpdated     bool `json:"patterns_updated"`
	CombinationsUpdated bool `json:"combinations_updated"`
	ExplorationAdjusted bool `json:"exploration_adjusted"`
	GenerationEvolved   bool `json:"generation_evolved"`
}

// processFeedback records one feedback cycle: it appends the experience
// to the history, reinforces patterns and exercise combinations when the
// routine succeeded, and re-tunes the exploration factor.
func processFeedback(store *Store, user gym.User, routine gym.Routine) LearningResults {
	var results LearningResults

	satisfaction := 0
	if routine.Satisfaction != nil {
		satisfaction = *routine.Satisfaction
	}

	experience := Experience{
		UserID:       user.ID,
		Profile:      user.Profile,
		RoutineID:    routine.ID,
		Satisfaction: satisfaction,
		Comments:     routine.Comments,
		Timestamp:    time.Now(),
	}
	successful := routine.IsSuccessful()
	if successful {
		// Snapshot the full routine only when it is worth learning from.
		snapshot := routine
		experience.SuccessfulRoutine = &snapshot
	}

	generationBefore := store.Generation()
	store.AddExperience(experience)
	results.GenerationEvolved = store.Generation() > generationBefore

	if successful {
		store.AddSuccessfulPattern(PatternKey(user.Profile.Level, user.Profile.Goal), Pattern{
			Routine:      routine,
			Satisfaction: satisfaction,
			Timestamp:    experience.Timestamp,
		})
		results.PatternsUpdated = true

		for _, day := range routine.Days {
			for _, exercise := range day.Exercises {
				if exercise.IsCardio() {
					continue
				}
				store.IncrementExerciseCombination(exercise.MuscleGroup, exercise.Name)
				results.CombinationsUpdated = true
			}
		}
	}

	// Successful exploitation narrows the search; a clear failure widens
	// it. The two moves are exclusive per feedback event.
	mode, _ := routine.Metadata[gym.MetadataGenerationMode].(string)
	switch {
	case satisfaction >= 4 && mode == string(ModeExploitation):
		results.ExplorationAdjusted = store.DecreaseExploration(0.01)
	case satisfaction <= 2:
		results.ExplorationAdjusted = store.IncreaseExploration(0.02)
	}

	return results
}

// LearningProgress compares recent satisfaction with the all-time
// average.
type LearningProgress struct {
	TotalExperiences    int            `json:"total_experiences"`
	OverallSatisfaction float64        `json:"overall_satisfaction"`
	RecentSatisfaction  float64        `json:"recent_satisfaction"`
	Trend               string         `json:"trend"`
	PatternsPerBucket   map[string]int `json:"patterns_per_bucket"`
	Generation          int            `json:"generation"`
	ExplorationFactor   float64        `json:"exploration_factor"`
}

// Trend labels.
const (
	TrendImproving = "improving"
	TrendStable    = "stable"
	TrendDeclining = "declining"
)

// AnalyzeLearningProgress compares the trailing ten ratings against the
// overall average to label the system's trajectory.
func AnalyzeLearningProgress(store *Store) LearningProgress {
	history := store.History()

	all := make([]float64, len(history))
	for i, exp := range history {
		all[i] = float64(exp.Satisfaction)
	}
	recent := all
	if len(recent) > experiencesPerGeneration {
		recent = recent[len(recent)-experiencesPerGeneration:]
	}

	overall := stats.Average(all)
	recentAvg := stats.Average(recent)

	trend := TrendStable
	switch {
	case len(all) == 0:
		trend = TrendStable
	case recentAvg > overall+0.2:
		trend = TrendImproving
	case recentAvg < overall-0.2:
		trend = TrendDeclining
	}

	return LearningProgress{
		TotalExperiences:    len(history),
		OverallSatisfaction: round2(overall),
		RecentSatisfaction:  round2(recentAvg),
		Trend:               trend,
		PatternsPerBucket:   store.PatternCounts(),
		Generation:          store.Generation(),
		ExplorationFactor:   store.ExplorationFactor(),
	}
}
