package engine

import (
	"github.com/Wossito/gym-ai/internal/gym"
	"github.com/Wossito/gym-ai/internal/stats"
)

// User categories by number of recorded experiences.
const (
	CategoryNovice      = "novice"
	CategoryRegular     = "regular"
	CategoryExperienced = "experienced"
	CategoryVeteran     = "veteran"
	CategoryExpert      = "expert"
)

// Performance levels by average satisfaction.
const (
	PerformanceExcellent       = "excellent"
	PerformanceGood            = "good"
	PerformanceAcceptable      = "acceptable"
	PerformanceNeedsAdjustment = "needs_adjustment"
)

// Classification describes where a user sits in their journey with the
// system and what they should focus on next.
type Classification struct {
	Category        string   `json:"category"`
	Description     string   `json:"description"`
	Experiences     int      `json:"experiences"`
	AvgSatisfaction float64  `json:"avg_satisfaction"`
	Performance     string   `json:"performance"`
	Recommendations []string `json:"recommendations"`
}

// ClassifyUser buckets the user by how many feedback cycles they have
// completed and how satisfied they have been, then attaches matching
// recommendations. Classification keys on history alone; the profile is
// accepted for symmetry with the other inference operations.
func (inf *Inferencer) ClassifyUser(_ gym.Profile, history []Experience) Classification {
	ratings := make([]float64, len(history))
	for i, exp := range history {
		ratings[i] = float64(exp.Satisfaction)
	}
	avg := 0.0
	if len(ratings) > 0 {
		avg = round2(stats.Average(ratings))
	}

	category, description := userCategory(len(history))
	performance := performanceLevel(avg)

	return Classification{
		Category:        category,
		Description:     description,
		Experiences:     len(history),
		AvgSatisfaction: avg,
		Performance:     performance,
		Recommendations: recommendationsFor(category, performance),
	}
}

func userCategory(experiences int) (string, string) {
	switch {
	case experiences == 0:
		return CategoryNovice, "First time using the system"
	case experiences <= 5:
		return CategoryRegular, "Regular user with some experience"
	case experiences <= 15:
		return CategoryExperienced, "Experienced user with a solid history"
	case experiences <= 50:
		return CategoryVeteran, "Veteran user with extensive experience"
	default:
		return CategoryExpert, "Expert user of the system"
	}
}

func performanceLevel(avgSatisfaction float64) string {
	switch {
	case avgSatisfaction >= 4.5:
		return PerformanceExcellent
	case avgSatisfaction >= 4.0:
		return PerformanceGood
	case avgSatisfaction >= 3.5:
		return PerformanceAcceptable
	default:
		return PerformanceNeedsAdjustment
	}
}

// recommendationSet carries either a flat list or per-performance lists
// with a default.
type recommendationSet struct {
	flat          []string
	byPerformance map[string][]string
	fallback      []string
}

var userRecommendations = map[string]recommendationSet{
	CategoryNovice: {
		flat: []string{
			"Start with full body routines 3 days a week",
			"Focus on learning correct technique",
			"Give detailed feedback to help the system learn",
		},
	},
	CategoryRegular: {
		byPerformance: map[string][]string{
			PerformanceNeedsAdjustment: {
				"Consider adjusting your training days",
				"Check whether the intensity suits you",
			},
		},
		fallback: []string{
			"Keep up the consistency",
			"Consider adding a training day",
		},
	},
	CategoryExperienced: {
		byPerformance: map[string][]string{
			PerformanceExcellent: {
				"Excellent progress, keep the pace",
				"Consider advanced techniques",
			},
		},
		fallback: []string{
			"Review your goals every 4-6 weeks",
		},
	},
	CategoryVeteran: {
		byPerformance: map[string][]string{
			PerformanceExcellent: {
				"Excellent progress, keep the pace",
				"Consider advanced techniques",
			},
		},
		fallback: []string{
			"Review your goals every 4-6 weeks",
		},
	},
	CategoryExpert: {
		flat: []string{
			"Long-time user of the system",
			"Consider sharing detailed feedback",
			"Experiment with advanced variations",
		},
	},
}

func recommendationsFor(category, performance string) []string {
	set, ok := userRecommendations[category]
	if !ok {
		return nil
	}
	if set.flat != nil {
		return set.flat
	}
	if recs, ok := set.byPerformance[performance]; ok {
		return recs
	}
	return set.fallback
}
