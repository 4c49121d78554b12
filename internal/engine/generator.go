package engine

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"

	"github.com/Wossito/gym-ai/internal/gym"
)

// Mode names how a routine was generated.
type Mode string

const (
	ModeExploration  Mode = "exploration"
	ModeExploitation Mode = "exploitation"
)

const (
	// Exploitation needs this many success patterns for the user's
	// (level, goal) bucket before trusting them.
	minPatternsForExploitation = 3
	// Chance of reusing a learned exercise instead of innovating while
	// exploiting.
	learnedExerciseProbability = 0.7
	// Inferred parameters are only applied above this confidence.
	applyParamsConfidenceMin = 0.6
	topPopularExercises      = 3
)

// generator produces weekly routines. Randomness flows through the
// injected rng; exploreDraw is separate so tests can force the
// explore/exploit decision deterministically.
type generator struct {
	store       *Store
	inferencer  *Inferencer
	rng         *rand.Rand
	exploreDraw func() float64
}

func newGenerator(store *Store, inferencer *Inferencer, rng *rand.Rand) *generator {
	return &generator{
		store:       store,
		inferencer:  inferencer,
		rng:         rng,
		exploreDraw: rng.Float64,
	}
}

// Generate builds a routine for the profile and records the decision. It
// exploits accumulated patterns when the bucket is mature and the
// exploration draw allows it, otherwise it explores fresh combinations.
func (g *generator) Generate(user gym.User, history []Experience) (gym.Routine, GenerationRecord, error) {
	profile := user.Profile

	params := g.inferencer.InferOptimalParameters(profile)
	classification := g.inferencer.ClassifyUser(profile, history)

	patterns := g.store.PatternsFor(profile.Level, profile.Goal)
	mode := ModeExploration
	if len(patterns) >= minPatternsForExploitation && g.exploreDraw() >= g.store.ExplorationFactor() {
		mode = ModeExploitation
	}

	var (
		days      []gym.RoutineDay
		structure gym.Structure
		metadata  map[string]any
		err       error
	)
	if mode == ModeExploitation {
		days, structure, metadata, err = g.exploitationPlan(profile, patterns)
	} else {
		days, structure, metadata, err = g.explorationPlan(profile)
	}
	if err != nil {
		return gym.Routine{}, GenerationRecord{}, fmt.Errorf("build plan: %w", err)
	}

	if params.Confidence >= applyParamsConfidenceMin {
		applyOptimalParameters(days, params)
		metadata[gym.MetadataParamsOptimized] = true
		metadata[gym.MetadataParamsConfidence] = params.Confidence
	}

	routine, err := gym.NewRoutine(profile, days, structure, metadata)
	if err != nil {
		return gym.Routine{}, GenerationRecord{}, fmt.Errorf("assemble routine: %w", err)
	}

	prediction := g.inferencer.PredictSatisfaction(profile, &routine)

	record := GenerationRecord{
		RoutineID:      routine.ID,
		UserID:         user.ID,
		Routine:        routine,
		Mode:           mode,
		Generation:     g.store.Generation(),
		Params:         params,
		Classification: classification,
		Prediction:     prediction,
		CreatedAt:      routine.CreatedAt,
	}
	g.store.AddGeneratedRoutine(record)

	return routine, record, nil
}

// explorationPlan builds a routine from scratch with experimental
// parameters and randomly sampled exercises.
func (g *generator) explorationPlan(profile gym.Profile) ([]gym.RoutineDay, gym.Structure, map[string]any, error) {
	structure := gym.StructureForDays(profile.TrainingDays)
	days, err := g.buildDays(profile, structure, nil)
	if err != nil {
		return nil, "", nil, err
	}
	metadata := map[string]any{
		gym.MetadataGenerationMode:  string(ModeExploration),
		gym.MetadataInnovationLevel: "high",
	}
	return days, structure, metadata, nil
}

// exploitationPlan reuses what worked for this bucket: the most common
// structure among success patterns and mostly their popular exercises.
func (g *generator) exploitationPlan(profile gym.Profile, patterns []Pattern) ([]gym.RoutineDay, gym.Structure, map[string]any, error) {
	structure := mostCommonStructure(patterns)
	popular := popularExercisesFromPatterns(patterns)

	days, err := g.buildDays(profile, structure, popular)
	if err != nil {
		return nil, "", nil, err
	}
	metadata := map[string]any{
		gym.MetadataGenerationMode:  string(ModeExploitation),
		gym.MetadataBasedOnPatterns: len(patterns),
		gym.MetadataConfidence:      math.Min(1.0, float64(len(patterns))/10.0),
	}
	return days, structure, metadata, nil
}

// buildDays assembles the per-day exercise lists. With popular exercise
// data each group prefers learned picks with probability
// learnedExerciseProbability; without it every pick is innovative.
func (g *generator) buildDays(profile gym.Profile, structure gym.Structure, popular map[string][]string) ([]gym.RoutineDay, error) {
	assignment := gym.DayGroups(structure, profile.TrainingDays)
	cardioProbability := gym.ParamsForGoal(profile.Goal).CardioProbability

	days := make([]gym.RoutineDay, len(assignment))
	for i, groups := range assignment {
		var exercises []gym.Exercise
		for _, group := range groups {
			count := gym.ExercisesPerGroup(structure, profile.Level, group)

			var names []string
			if learned, ok := popular[group]; ok && g.rng.Float64() < learnedExerciseProbability {
				names = g.pickLearned(group, count, learned)
			} else {
				names = g.pickInnovative(group, count, profile.Level)
			}

			for _, name := range names {
				exercise, err := g.experimentalExercise(name, group, profile)
				if err != nil {
					return nil, err
				}
				exercises = append(exercises, exercise)
			}
		}

		if g.rng.Float64() < cardioProbability {
			cardio, err := g.cardioExercise(profile.Goal)
			if err != nil {
				return nil, err
			}
			exercises = append(exercises, cardio)
		}

		days[i] = gym.RoutineDay{
			Label:     fmt.Sprintf("Day %d", i+1),
			Exercises: exercises,
		}
	}
	return days, nil
}

// pickInnovative samples fresh exercises from the catalog. Beginners only
// draw compound movements; everyone else mixes compound and isolation.
func (g *generator) pickInnovative(group string, count int, level gym.Level) []string {
	pool, ok := gym.Pool(group)
	if !ok {
		return nil
	}
	candidates := pool.All()
	if level == gym.LevelBeginner {
		candidates = pool.Compound
	}
	return g.sample(candidates, count)
}

// pickLearned samples from the popular list and tops up with innovative
// picks when the list is too short.
func (g *generator) pickLearned(group string, count int, popular []string) []string {
	picks := g.sample(popular, count)
	if len(picks) < count {
		seen := map[string]bool{}
		for _, name := range picks {
			seen[name] = true
		}
		for _, name := range g.pickInnovative(group, count, gym.LevelIntermediate) {
			if len(picks) == count {
				break
			}
			if !seen[name] {
				picks = append(picks, name)
				seen[name] = true
			}
		}
	}
	return picks
}

// sample draws up to count distinct values from candidates.
func (g *generator) sample(candidates []string, count int) []string {
	shuffled := make([]string, len(candidates))
	copy(shuffled, candidates)
	g.rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count > len(shuffled) {
		count = len(shuffled)
	}
	return shuffled[:count]
}

// experimentalExercise rolls training parameters inside the goal band:
// the rep range endpoints wobble around the band edges and the rest time
// is drawn uniformly from the band.
func (g *generator) experimentalExercise(name, group string, profile gym.Profile) (gym.Exercise, error) {
	band := gym.ParamsForGoal(profile.Goal)
	reps := fmt.Sprintf("%d-%d",
		g.randBetween(band.RepsMin, band.RepsMin+2),
		g.randBetween(band.RepsMax-2, band.RepsMax))
	rest := fmt.Sprintf("%ds", g.randBetween(band.RestMinSec, band.RestMaxSec))
	return gym.NewStrengthExercise(name, group, gym.SeriesForLevel(profile.Level), reps, rest)
}

// cardioExercise picks a cardio activity with goal-specific duration and
// intensity.
func (g *generator) cardioExercise(goal gym.Goal) (gym.Exercise, error) {
	options := gym.CardioOptions()
	name := options[g.rng.IntN(len(options))]

	var (
		duration  string
		intensity gym.Intensity
	)
	switch goal {
	case gym.GoalLoseWeight:
		duration = fmt.Sprintf("%d min", g.randBetween(20, 30))
		intensity = g.pickIntensity(gym.IntensityHigh, gym.IntensityHIIT)
	case gym.GoalEndurance:
		duration = fmt.Sprintf("%d min", g.randBetween(25, 40))
		intensity = g.pickIntensity(gym.IntensityModerate, gym.IntensityHigh)
	default:
		duration = fmt.Sprintf("%d min", g.randBetween(15, 20))
		intensity = gym.IntensityModerate
	}
	return gym.NewCardioExercise(name, duration, intensity)
}

func (g *generator) pickIntensity(options ...gym.Intensity) gym.Intensity {
	return options[g.rng.IntN(len(options))]
}

// randBetween returns a uniform value in [lo, hi].
func (g *generator) randBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.rng.IntN(hi-lo+1)
}

// applyOptimalParameters overwrites the experimental parameters of every
// strength exercise with the inferred ones.
func applyOptimalParameters(days []gym.RoutineDay, params OptimalParameters) {
	for i := range days {
		for j := range days[i].Exercises {
			exercise := &days[i].Exercises[j]
			if exercise.IsCardio() {
				continue
			}
			exercise.Sets = params.Series
			exercise.RepRange = fmt.Sprintf("%d-%d", params.RepsMin, params.RepsMax)
			exercise.RestRange = params.Rest
		}
	}
}

// mostCommonStructure returns the structure that appears most often in
// the patterns, defaulting to full body.
func mostCommonStructure(patterns []Pattern) gym.Structure {
	counts := map[gym.Structure]int{}
	for _, p := range patterns {
		counts[p.Routine.Structure]++
	}
	best := gym.StructureFullBody
	bestCount := 0
	for structure, count := range counts {
		if count > bestCount || (count == bestCount && structure < best) {
			best = structure
			bestCount = count
		}
	}
	return best
}

// popularExercisesFromPatterns tallies exercise usage across the patterns
// and keeps the top picks per muscle group.
func popularExercisesFromPatterns(patterns []Pattern) map[string][]string {
	frequency := map[string]map[string]int{}
	for _, p := range patterns {
		for _, day := range p.Routine.Days {
			for _, exercise := range day.Exercises {
				if exercise.IsCardio() {
					continue
				}
				if frequency[exercise.MuscleGroup] == nil {
					frequency[exercise.MuscleGroup] = map[string]int{}
				}
				frequency[exercise.MuscleGroup][exercise.Name]++
			}
		}
	}

	popular := map[string][]string{}
	for group, counts := range frequency {
		names := make([]string, 0, len(counts))
		for name := range counts {
			names = append(names, name)
		}
		// Most used first, alphabetical tie-break for stability.
		sort.Slice(names, func(i, j int) bool {
			if counts[names[i]] != counts[names[j]] {
				return counts[names[i]] > counts[names[j]]
			}
			return names[i] < names[j]
		})
		if len(names) > topPopularExercises {
			names = names[:topPopularExercises]
		}
		popular[group] = names
	}
	return popular
}
