package engine

import (
	"time"

	"github.com/Wossito/gym-ai/internal/stats"
)

// Document is the persisted form of the learning state. It wraps the raw
// state with derived metrics and the save timestamp so an exported file is
// useful on its own.
type Document struct {
	LearningSystem LearningState `json:"learning_system"`
	Metrics        Metrics       `json:"metrics"`
	LastUpdate     time.Time     `json:"last_update"`
}

// LearningState is the serialised Store.
type LearningState struct {
	GeneratedRoutines    []GenerationRecord        `json:"generated_routines"`
	History              []Experience              `json:"history"`
	SuccessPatterns      map[string][]Pattern      `json:"success_patterns"`
	ExerciseCombinations map[string]map[string]int `json:"exercise_combinations"`
	Generation           int                       `json:"generation"`
	ExplorationFactor    float64                   `json:"exploration_factor"`
}

// Metrics are derived at save time.
type Metrics struct {
	SatisfactionByGeneration []GenerationSatisfaction `json:"satisfaction_by_generation"`
}

// GenerationSatisfaction tags each historical rating with the generation
// it was recorded under.
type GenerationSatisfaction struct {
	Generation   int `json:"generation"`
	Satisfaction int `json:"satisfaction"`
}

// Document snapshots the store into its persisted form.
func (s *Store) Document() Document {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := LearningState{
		GeneratedRoutines:    append([]GenerationRecord(nil), s.generatedRoutines...),
		History:              append([]Experience(nil), s.history...),
		SuccessPatterns:      map[string][]Pattern{},
		ExerciseCombinations: map[string]map[string]int{},
		Generation:           s.generation,
		ExplorationFactor:    s.explorationFactor,
	}
	for key, patterns := range s.successPatterns {
		state.SuccessPatterns[key] = append([]Pattern(nil), patterns...)
	}
	for group, counts := range s.exerciseCombinations {
		copied := make(map[string]int, len(counts))
		for name, count := range counts {
			copied[name] = count
		}
		state.ExerciseCombinations[group] = copied
	}

	// Ratings are bucketed under the generation that was current when
	// they arrived: the counter advances after every full batch.
	satisfaction := make([]GenerationSatisfaction, len(s.history))
	for i, exp := range s.history {
		satisfaction[i] = GenerationSatisfaction{
			Generation:   i / experiencesPerGeneration,
			Satisfaction: exp.Satisfaction,
		}
	}

	return Document{
		LearningSystem: state,
		Metrics:        Metrics{SatisfactionByGeneration: satisfaction},
		LastUpdate:     time.Now(),
	}
}

// StoreFromDocument rebuilds a store from a persisted document. Missing
// maps become empty and an out-of-bounds exploration factor is pulled back
// into its legal range, so documents from older versions stay loadable.
func StoreFromDocument(doc Document) *Store {
	s := NewStore()
	state := doc.LearningSystem
	s.generatedRoutines = state.GeneratedRoutines
	s.history = state.History
	if state.SuccessPatterns != nil {
		s.successPatterns = state.SuccessPatterns
	}
	if state.ExerciseCombinations != nil {
		s.exerciseCombinations = state.ExerciseCombinations
	}
	s.generation = state.Generation
	if state.ExplorationFactor != 0 {
		s.explorationFactor = stats.Clamp(state.ExplorationFactor, minExplorationFactor, maxExplorationFactor)
	}
	return s
}
