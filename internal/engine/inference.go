package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/Wossito/gym-ai/internal/gym"
	"github.com/Wossito/gym-ai/internal/stats"
)

const (
	// Minimum similarity for an experience to count as a neighbour.
	predictionSimilarityThreshold = 0.7
	// Parameter inference only trusts closer neighbours.
	parameterSimilarityThreshold = 0.75
	maxSimilarUsers              = 10

	// Predictions below this satisfaction are not recommended.
	recommendSatisfactionMin = 3.5
	recommendConfidenceMin   = stats.ConfidenceLow
)

// Method names how an inference result was produced.
type Method string

const (
	MethodBayesian      Method = "bayesian"
	MethodBaseline      Method = "baseline"
	MethodDataInference Method = "data_inference"
	MethodHeuristic     Method = "heuristic"
)

// Inferencer answers questions about a profile using the accumulated
// history: predicted satisfaction, optimal training parameters, user
// classification and anomaly detection.
type Inferencer struct {
	store *Store
}

func NewInferencer(store *Store) *Inferencer {
	return &Inferencer{store: store}
}

// SimilarUser pairs an experience with its similarity to the query
// profile.
type SimilarUser struct {
	Experience Experience
	Similarity float64
}

// FindSimilarUsers returns up to maxSimilarUsers experiences whose profile
// similarity meets the threshold, most similar first.
func (inf *Inferencer) FindSimilarUsers(profile gym.Profile, threshold float64) []SimilarUser {
	var similar []SimilarUser
	for _, exp := range inf.store.History() {
		similarity := stats.ProfileSimilarity(profile.Traits(), exp.Profile.Traits())
		if similarity >= threshold {
			similar = append(similar, SimilarUser{Experience: exp, Similarity: similarity})
		}
	}
	sort.SliceStable(similar, func(i, j int) bool {
		return similar[i].Similarity > similar[j].Similarity
	})
	if len(similar) > maxSimilarUsers {
		similar = similar[:maxSimilarUsers]
	}
	return similar
}

// Factors is the evidence behind a prediction, kept for display and
// debugging.
type Factors struct {
	AvgSatisfaction float64 `json:"avg_satisfaction"`
	SimilarCount    int     `json:"similar_count"`
	AvgSimilarity   float64 `json:"avg_similarity"`
	ComplexityFit   float64 `json:"complexity_fit"`
	PatternsExist   bool    `json:"patterns_exist"`
	PatternCount    int     `json:"pattern_count"`
	NoData          bool    `json:"no_data,omitempty"`
}

// Prediction is the expected satisfaction for a profile (and optionally a
// concrete routine) before any feedback exists.
type Prediction struct {
	Satisfaction float64 `json:"satisfaction"`
	Confidence   float64 `json:"confidence"`
	Factors      Factors `json:"factors"`
	Recommend    bool    `json:"recommend"`
	SimilarUsers int     `json:"similar_users"`
	Method       Method  `json:"method"`
}

// PredictSatisfaction estimates how the profile will rate a routine. The
// prior is the average rating of similar users, corrected by a staged
// Bayesian adjustment. Without neighbours it falls back to a neutral
// baseline. routine may be nil to score the profile alone.
func (inf *Inferencer) PredictSatisfaction(profile gym.Profile, routine *gym.Routine) Prediction {
	similar := inf.FindSimilarUsers(profile, predictionSimilarityThreshold)
	if len(similar) == 0 {
		return baselinePrediction()
	}

	ratings := make([]float64, len(similar))
	similarities := make([]float64, len(similar))
	for i, su := range similar {
		ratings[i] = float64(su.Experience.Satisfaction)
		similarities[i] = su.Similarity
	}

	factors := Factors{
		AvgSatisfaction: stats.Average(ratings),
		SimilarCount:    len(similar),
		AvgSimilarity:   stats.Average(similarities),
		ComplexityFit:   complexityFit(profile, routine),
	}
	patterns := inf.store.PatternsFor(profile.Level, profile.Goal)
	factors.PatternsExist = len(patterns) > 0
	factors.PatternCount = len(patterns)

	adjustment := stats.BayesianAdjustment(stats.AdjustmentFactors{
		SimilarCount:  factors.SimilarCount,
		AvgSimilarity: factors.AvgSimilarity,
		ComplexityFit: factors.ComplexityFit,
		PatternsExist: factors.PatternsExist,
		PatternCount:  factors.PatternCount,
	})
	predicted := round2(stats.Clamp(factors.AvgSatisfaction+adjustment, 1, 5))

	var spread *float64
	if len(ratings) > 1 {
		sd := stats.StdDev(ratings)
		spread = &sd
	}
	confidence := round2(stats.ConfidenceScore(len(similar), factors.AvgSimilarity, spread))

	return Prediction{
		Satisfaction: predicted,
		Confidence:   confidence,
		Factors:      factors,
		Recommend:    predicted >= recommendSatisfactionMin && confidence >= recommendConfidenceMin,
		SimilarUsers: len(similar),
		Method:       MethodBayesian,
	}
}

// baselinePrediction is the cold-start answer: neutral-positive rating,
// low confidence, still recommended so new systems keep generating.
func baselinePrediction() Prediction {
	return Prediction{
		Satisfaction: 3.5,
		Confidence:   0.3,
		Factors:      Factors{NoData: true},
		Recommend:    true,
		SimilarUsers: 0,
		Method:       MethodBaseline,
	}
}

// complexityFit scores how well the routine's daily volume matches the
// ideal for the user's level. Without a routine the fit is perfect: the
// prediction then judges the profile's prospects, not a concrete plan.
func complexityFit(profile gym.Profile, routine *gym.Routine) float64 {
	if routine == nil {
		return 1.0
	}
	ideal := gym.IdealExercisesPerDay(profile.Level)
	fit := 1.0 - math.Abs(routine.ExercisesPerDay()-ideal)/ideal
	return stats.Clamp(fit, 0, 1)
}

// OptimalParameters are the training parameters inferred from successful
// neighbours, or the heuristic defaults when the data is too thin.
type OptimalParameters struct {
	Series     int     `json:"series"`
	RepsMin    int     `json:"reps_min"`
	RepsMax    int     `json:"reps_max"`
	Rest       string  `json:"rest"`
	Confidence float64 `json:"confidence"`
	BasedOn    int     `json:"based_on"`
	Method     Method  `json:"method"`
}

// InferOptimalParameters derives series, rep range and rest from the
// successful routines of close neighbours. It takes the median over the
// observed values and widens the rep midpoint into a range.
func (inf *Inferencer) InferOptimalParameters(profile gym.Profile) OptimalParameters {
	similar := inf.FindSimilarUsers(profile, parameterSimilarityThreshold)

	var seriesValues, repMidpoints []float64
	var samples int
	for _, su := range similar {
		exp := su.Experience
		if exp.Satisfaction < 4 || exp.SuccessfulRoutine == nil {
			continue
		}
		samples++
		for _, day := range exp.SuccessfulRoutine.Days {
			for _, exercise := range day.Exercises {
				if exercise.IsCardio() {
					continue
				}
				seriesValues = append(seriesValues, float64(exercise.Sets))
				if mid, ok := repRangeMidpoint(exercise.RepRange); ok {
					repMidpoints = append(repMidpoints, mid)
				}
			}
		}
	}

	if samples == 0 {
		return heuristicParameters(profile)
	}

	series := 4
	if len(seriesValues) > 0 {
		series = int(math.Round(stats.Median(seriesValues)))
	}
	repMid := 10
	if len(repMidpoints) > 0 {
		repMid = int(math.Round(stats.Median(repMidpoints)))
	}
	repsMin := repMid - 2
	if repsMin < 4 {
		repsMin = 4
	}
	repsMax := repMid + 2

	return OptimalParameters{
		Series:     series,
		RepsMin:    repsMin,
		RepsMax:    repsMax,
		Rest:       restForLoad(profile.Goal, series, repMid),
		Confidence: math.Min(1.0, float64(samples)/10.0),
		BasedOn:    samples,
		Method:     MethodDataInference,
	}
}

// heuristicParameters falls back to the per-goal bands and
// series-by-level defaults.
func heuristicParameters(profile gym.Profile) OptimalParameters {
	band := gym.ParamsForGoal(profile.Goal)
	return OptimalParameters{
		Series:     gym.SeriesForLevel(profile.Level),
		RepsMin:    band.RepsMin,
		RepsMax:    band.RepsMax,
		Rest:       fmt.Sprintf("%d-%ds", band.RestMinSec, band.RestMaxSec),
		Confidence: 0.5,
		BasedOn:    0,
		Method:     MethodHeuristic,
	}
}

// restForLoad maps the inferred load onto a rest band: heavy work rests
// long, metabolic work rests short.
func restForLoad(goal gym.Goal, series, repMid int) string {
	switch {
	case goal == gym.GoalStrength || series >= 5:
		return "120-180s"
	case goal == gym.GoalGainMass:
		return "60-90s"
	case goal == gym.GoalEndurance || repMid >= 15:
		return "30-45s"
	default:
		return "45-60s"
	}
}

// repRangeMidpoint parses "8-12" style rep ranges into their midpoint.
// Single values like "10" count as-is.
func repRangeMidpoint(repRange string) (float64, bool) {
	var lo, hi int
	if n, err := fmt.Sscanf(repRange, "%d-%d", &lo, &hi); err == nil && n == 2 {
		return float64(lo+hi) / 2, true
	}
	if n, err := fmt.Sscanf(repRange, "%d", &lo); err == nil && n == 1 {
		return float64(lo), true
	}
	return 0, false
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
