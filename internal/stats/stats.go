// Package stats holds the numeric primitives behind the recommendation
// engine: BMI, profile similarity, descriptive statistics and the staged
// confidence and adjustment scores used by the inference code.
package stats

import (
	"fmt"
	"math"
	"sort"
)

// Similarity and confidence cutoffs shared by the inference code. The
// staged scoring functions below bucket their inputs against these.
const (
	SimilarityHigh   = 0.85
	SimilarityMedium = 0.70
	SimilarityLow    = 0.50

	ConfidenceHigh   = 0.80
	ConfidenceMedium = 0.60
	ConfidenceLow    = 0.40
)

// Normalisation divisors for the profile trait distance. Each trait is
// scaled so that the largest plausible difference maps to roughly 1.0.
const (
	ageSpan   = 100.0
	bmiSpan   = 20.0
	levelSpan = 3.0
	daysSpan  = 7.0
)

// BMI computes body mass index from weight in kilograms and height in
// metres.
func BMI(weightKg, heightM float64) (float64, error) {
	if heightM <= 0 {
		return 0, fmt.Errorf("height must be greater than zero, got %g", heightM)
	}
	return weightKg / (heightM * heightM), nil
}

type BMICategory string

const (
	Underweight  BMICategory = "underweight"
	NormalWeight BMICategory = "normal"
	Overweight   BMICategory = "overweight"
	Obese        BMICategory = "obese"
)

// CategoryForBMI buckets a BMI value using the WHO cutoffs.
func CategoryForBMI(bmi float64) BMICategory {
	switch {
	case bmi < 18.5:
		return Underweight
	case bmi < 25:
		return NormalWeight
	case bmi < 30:
		return Overweight
	default:
		return Obese
	}
}

// Traits is the numeric description of a user profile used for the
// similarity metric. Goal is compared as equal/unequal, everything else as
// a normalised absolute difference.
type Traits struct {
	Age          int
	BMI          float64
	LevelCode    int
	Goal         string
	TrainingDays int
}

// ProfileSimilarity returns 1/(1+d) where d is the Euclidean distance over
// the normalised trait differences. Identical traits yield 1.0. Non-finite
// inputs degrade to the neutral score 0.5 rather than poisoning the
// ranking.
func ProfileSimilarity(a, b Traits) float64 {
	goalDiff := 0.0
	if a.Goal != b.Goal {
		goalDiff = 1.0
	}
	dAge := math.Abs(float64(a.Age-b.Age)) / ageSpan
	dBMI := math.Abs(a.BMI-b.BMI) / bmiSpan
	dLevel := math.Abs(float64(a.LevelCode-b.LevelCode)) / levelSpan
	dDays := math.Abs(float64(a.TrainingDays-b.TrainingDays)) / daysSpan

	distance := math.Sqrt(dAge*dAge + dBMI*dBMI + dLevel*dLevel + goalDiff*goalDiff + dDays*dDays)
	similarity := 1.0 / (1.0 + distance)
	if math.IsNaN(similarity) || math.IsInf(similarity, 0) {
		return 0.5
	}
	return similarity
}

// Average returns the arithmetic mean, or zero for an empty slice.
func Average(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Median returns the middle value (or the mean of the two middle values)
// without mutating the input.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

// StdDev returns the sample standard deviation. Fewer than two samples
// yield zero.
func StdDev(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Average(values)
	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

// ConfidenceScore combines sample count, average similarity and optional
// satisfaction spread into a score in [0.5, 1.0]. Each input contributes a
// staged bonus on top of the 0.5 base; stdDev is nil when fewer than two
// samples exist.
func ConfidenceScore(samples int, avgSimilarity float64, stdDev *float64) float64 {
	confidence := 0.5

	switch {
	case samples >= 10:
		confidence += 0.3
	case samples >= 5:
		confidence += 0.2
	case samples >= 3:
		confidence += 0.1
	}

	switch {
	case avgSimilarity > SimilarityHigh:
		confidence += 0.3
	case avgSimilarity > SimilarityMedium:
		confidence += 0.2
	case avgSimilarity > SimilarityLow:
		confidence += 0.1
	}

	if stdDev != nil {
		switch {
		case *stdDev < 0.5:
			confidence += 0.2
		case *stdDev < 1.0:
			confidence += 0.1
		}
	}

	return math.Min(1.0, confidence)
}

// AdjustmentFactors carries the evidence that shifts a satisfaction
// prediction away from the similar-user average.
type AdjustmentFactors struct {
	SimilarCount  int
	AvgSimilarity float64
	// ComplexityFit is 1.0 when the routine's volume matches the user's
	// level exactly and decreases towards 0 as it drifts.
	ComplexityFit float64
	PatternsExist bool
	PatternCount  int
}

// BayesianAdjustment converts the factors into an additive correction on
// the prior satisfaction. Strong similarity, many neighbours, a good
// complexity fit and a proven pattern bucket all push the prediction up;
// weak similarity or a poor fit push it down.
func BayesianAdjustment(f AdjustmentFactors) float64 {
	var adjustment float64

	switch {
	case f.AvgSimilarity > SimilarityHigh:
		adjustment += 0.3
	case f.AvgSimilarity > SimilarityMedium:
		adjustment += 0.1
	default:
		adjustment -= 0.1
	}

	switch {
	case f.SimilarCount >= 5:
		adjustment += 0.2
	case f.SimilarCount >= 3:
		adjustment += 0.1
	}

	switch {
	case f.ComplexityFit > 0.8:
		adjustment += 0.2
	case f.ComplexityFit > 0.6:
		// neutral band
	default:
		adjustment -= 0.2
	}

	if f.PatternsExist && f.PatternCount >= 5 {
		adjustment += 0.3
	}

	return adjustment
}
