// Package engine implements the adaptive recommendation core: the
// in-memory learning state, the inference engine that predicts
// satisfaction from similar users, the routine generator with its
// exploration/exploitation split, and the feedback learning loop.
package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Wossito/gym-ai/internal/gym"
	"github.com/Wossito/gym-ai/internal/stats"
)

const (
	initialExplorationFactor = 0.2
	minExplorationFactor     = 0.1
	maxExplorationFactor     = 0.4

	// A generation is a batch of experiences after which the system
	// re-evaluates its exploration appetite.
	experiencesPerGeneration = 10
)

// Experience is one completed feedback cycle: the profile the routine was
// generated for, the rating it received, and a snapshot of the routine
// itself when it was good enough to learn from.
type Experience struct {
	UserID  string      `json:"user_id"`
	Profile gym.Profile `json:"profile"`

	RoutineID string `json:"routine_id"`
	// SuccessfulRoutine is only set for ratings of 4 or 5.
	SuccessfulRoutine *gym.Routine `json:"successful_routine,omitempty"`

	Satisfaction int       `json:"satisfaction"`
	Comments     string    `json:"comments,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Pattern is a routine that worked, stored under its (level, goal) bucket.
type Pattern struct {
	Routine      gym.Routine `json:"routine"`
	Satisfaction int         `json:"satisfaction"`
	Timestamp    time.Time   `json:"timestamp"`
}

// GenerationRecord captures everything the engine knew when it produced a
// routine, so feedback can be traced back to the decision.
type GenerationRecord struct {
	RoutineID      string            `json:"routine_id"`
	UserID         string            `json:"user_id"`
	Routine        gym.Routine       `json:"routine"`
	Mode           Mode              `json:"mode"`
	Generation     int               `json:"generation"`
	Params         OptimalParameters `json:"params"`
	Classification Classification    `json:"classification"`
	Prediction     Prediction        `json:"prediction"`
	CreatedAt      time.Time         `json:"created_at"`
}

// Store holds the complete learning state. All exported methods are safe
// for concurrent use.
type Store struct {
	mu                   sync.Mutex
	generatedRoutines    []GenerationRecord
	history              []Experience
	successPatterns      map[string][]Pattern
	exerciseCombinations map[string]map[string]int
	generation           int
	explorationFactor    float64
}

func NewStore() *Store {
	return &Store{
		successPatterns:      map[string][]Pattern{},
		exerciseCombinations: map[string]map[string]int{},
		explorationFactor:    initialExplorationFactor,
	}
}

// PatternKey buckets patterns by experience level and training goal.
func PatternKey(level gym.Level, goal gym.Goal) string {
	return fmt.Sprintf("%s_%s", level, goal)
}

func (s *Store) AddGeneratedRoutine(rec GenerationRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generatedRoutines = append(s.generatedRoutines, rec)
}

// FindRoutine returns a copy of the most recent generated routine with the
// given ID.
func (s *Store) FindRoutine(id string) (gym.Routine, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.generatedRoutines) - 1; i >= 0; i-- {
		if s.generatedRoutines[i].RoutineID == id {
			return s.generatedRoutines[i].Routine, true
		}
	}
	return gym.Routine{}, false
}

// Records returns a copy of all generation records, oldest first.
func (s *Store) Records() []GenerationRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]GenerationRecord, len(s.generatedRoutines))
	copy(out, s.generatedRoutines)
	return out
}

// replaceWith swaps in the state of another store.
func (s *Store) replaceWith(other *Store) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generatedRoutines = other.generatedRoutines
	s.history = other.history
	s.successPatterns = other.successPatterns
	s.exerciseCombinations = other.exerciseCombinations
	s.generation = other.generation
	s.explorationFactor = other.explorationFactor
}

// AttachFeedback records the rating on the stored routine copy and returns
// the updated routine.
func (s *Store) AttachFeedback(routineID string, satisfaction int, comments string) (gym.Routine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := len(s.generatedRoutines) - 1; i >= 0; i-- {
		if s.generatedRoutines[i].RoutineID != routineID {
			continue
		}
		if err := s.generatedRoutines[i].Routine.SetFeedback(satisfaction, comments); err != nil {
			return gym.Routine{}, err
		}
		return s.generatedRoutines[i].Routine, nil
	}
	return gym.Routine{}, fmt.Errorf("routine %s not found", routineID)
}

// AddExperience appends a feedback event to the history. Every
// experiencesPerGeneration appends the generation counter advances and the
// exploration factor is re-tuned from the trailing window.
func (s *Store) AddExperience(exp Experience) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, exp)
	if len(s.history)%experiencesPerGeneration == 0 {
		s.evolveGeneration()
	}
}

// evolveGeneration advances the generation counter and nudges the
// exploration factor based on the trailing window average: a satisfied
// window exploits more, a dissatisfied one explores more. Caller holds the
// lock.
func (s *Store) evolveGeneration() {
	s.generation++

	window := s.history
	if len(window) > experiencesPerGeneration {
		window = window[len(window)-experiencesPerGeneration:]
	}
	ratings := make([]float64, len(window))
	for i, exp := range window {
		ratings[i] = float64(exp.Satisfaction)
	}
	avg := stats.Average(ratings)
	switch {
	case avg >= 4:
		s.explorationFactor = stats.Clamp(s.explorationFactor-0.01, minExplorationFactor, maxExplorationFactor)
	case avg <= 3:
		s.explorationFactor = stats.Clamp(s.explorationFactor+0.02, minExplorationFactor, maxExplorationFactor)
	}
}

func (s *Store) AddSuccessfulPattern(key string, p Pattern) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.successPatterns[key] = append(s.successPatterns[key], p)
}

func (s *Store) IncrementExerciseCombination(group, exercise string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exerciseCombinations[group] == nil {
		s.exerciseCombinations[group] = map[string]int{}
	}
	s.exerciseCombinations[group][exercise]++
}

// PatternsFor returns a copy of the success patterns for a bucket.
func (s *Store) PatternsFor(level gym.Level, goal gym.Goal) []Pattern {
	s.mu.Lock()
	defer s.mu.Unlock()
	patterns := s.successPatterns[PatternKey(level, goal)]
	out := make([]Pattern, len(patterns))
	copy(out, patterns)
	return out
}

// PatternCounts returns the number of success patterns per bucket.
func (s *Store) PatternCounts() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := make(map[string]int, len(s.successPatterns))
	for key, patterns := range s.successPatterns {
		counts[key] = len(patterns)
	}
	return counts
}

// PopularExercises returns the topN most reinforced exercises for a muscle
// group, most popular first. Ties break alphabetically so the order is
// stable.
func (s *Store) PopularExercises(group string, topN int) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	counts := s.exerciseCombinations[group]
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if counts[names[i]] != counts[names[j]] {
			return counts[names[i]] > counts[names[j]]
		}
		return names[i] < names[j]
	})
	if len(names) > topN {
		names = names[:topN]
	}
	return names
}

// History returns a copy of all experiences, oldest first.
func (s *Store) History() []Experience {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Experience, len(s.history))
	copy(out, s.history)
	return out
}

// UserHistory returns the experiences of one user, oldest first.
func (s *Store) UserHistory(userID string) []Experience {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Experience
	for _, exp := range s.history {
		if exp.UserID == userID {
			out = append(out, exp)
		}
	}
	return out
}

func (s *Store) Generation() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

func (s *Store) ExplorationFactor() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.explorationFactor
}

// DecreaseExploration lowers the exploration factor by delta, bounded at
// the floor. Returns true when the factor actually moved.
func (s *Store) DecreaseExploration(delta float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.explorationFactor
	s.explorationFactor = stats.Clamp(s.explorationFactor-delta, minExplorationFactor, maxExplorationFactor)
	return s.explorationFactor != before
}

// IncreaseExploration raises the exploration factor by delta, bounded at
// the ceiling. Returns true when the factor actually moved.
func (s *Store) IncreaseExploration(delta float64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	before := s.explorationFactor
	s.explorationFactor = stats.Clamp(s.explorationFactor+delta, minExplorationFactor, maxExplorationFactor)
	return s.explorationFactor != before
}

// Statistics summarises the learning state for display and export.
type Statistics struct {
	Generation          int     `json:"generation"`
	TotalUsers          int     `json:"total_users"`
	TotalRoutines       int     `json:"total_routines"`
	TotalExperiences    int     `json:"total_experiences"`
	AverageSatisfaction float64 `json:"average_satisfaction"`
	// SuccessRate is the percentage of experiences rated 4 or better.
	SuccessRate       float64 `json:"success_rate"`
	PatternBuckets    int     `json:"pattern_buckets"`
	TotalPatterns     int     `json:"total_patterns"`
	ExplorationFactor float64 `json:"exploration_factor"`
}

func (s *Store) Statistics() Statistics {
	s.mu.Lock()
	defer s.mu.Unlock()

	users := map[string]bool{}
	var successes int
	ratings := make([]float64, len(s.history))
	for i, exp := range s.history {
		users[exp.UserID] = true
		ratings[i] = float64(exp.Satisfaction)
		if exp.Satisfaction >= 4 {
			successes++
		}
	}
	successRate := 0.0
	if len(s.history) > 0 {
		successRate = float64(successes) / float64(len(s.history)) * 100
	}
	var totalPatterns int
	for _, patterns := range s.successPatterns {
		totalPatterns += len(patterns)
	}

	return Statistics{
		Generation:          s.generation,
		TotalUsers:          len(users),
		TotalRoutines:       len(s.generatedRoutines),
		TotalExperiences:    len(s.history),
		AverageSatisfaction: stats.Average(ratings),
		SuccessRate:         successRate,
		PatternBuckets:      len(s.successPatterns),
		TotalPatterns:       totalPatterns,
		ExplorationFactor:   s.explorationFactor,
	}
}
