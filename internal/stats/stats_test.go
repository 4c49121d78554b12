package stats

import (
	"math"
	"testing"
)

func TestProfileSimilarity(t *testing.T) {
	base := Traits{Age: 30, BMI: 24.2, LevelCode: 2, Goal: "gain_mass", TrainingDays: 4}

	t.Run("identical traits score 1.0", func(t *testing.T) {
		if got := ProfileSimilarity(base, base); got != 1.0 {
			t.Errorf("want 1.0, got %g", got)
		}
	})

	t.Run("symmetric", func(t *testing.T) {
		other := Traits{Age: 45, BMI: 28.0, LevelCode: 1, Goal: "lose_weight", TrainingDays: 2}
		if ProfileSimilarity(base, other) != ProfileSimilarity(other, base) {
			t.Error("similarity is not symmetric")
		}
	})

	t.Run("closer profiles score higher", func(t *testing.T) {
		near := Traits{Age: 32, BMI: 24.8, LevelCode: 2, Goal: "gain_mass", TrainingDays: 4}
		far := Traits{Age: 60, BMI: 31.0, LevelCode: 1, Goal: "strength", TrainingDays: 7}
		if ProfileSimilarity(base, near) <= ProfileSimilarity(base, far) {
			t.Error("near profile should score higher than far profile")
		}
	})

	t.Run("non-finite input degrades to neutral", func(t *testing.T) {
		broken := base
		broken.BMI = math.NaN()
		if got := ProfileSimilarity(base, broken); got != 0.5 {
			t.Errorf("want neutral 0.5, got %g", got)
		}
	})
}

func TestCategoryForBMI(t *testing.T) {
	tests := []struct {
		bmi  float64
		want BMICategory
	}{
		{16.0, Underweight},
		{18.4, Underweight},
		{18.5, NormalWeight},
		{24.9, NormalWeight},
		{25.0, Overweight},
		{29.9, Overweight},
		{30.0, Obese},
		{42.0, Obese},
	}
	for _, tt := range tests {
		if got := CategoryForBMI(tt.bmi); got != tt.want {
			t.Errorf("CategoryForBMI(%g) = %q, want %q", tt.bmi, got, tt.want)
		}
	}
}

func TestBMI(t *testing.T) {
	got, err := BMI(80, 1.8)
	if err != nil {
		t.Fatal(err)
	}
	if want := 80 / (1.8 * 1.8); math.Abs(got-want) > 1e-9 {
		t.Errorf("BMI(80, 1.8) = %g, want %g", got, want)
	}

	if _, err := BMI(80, 0); err == nil {
		t.Error("want error for zero height")
	}
}

func TestConfidenceScore(t *testing.T) {
	ref := func(v float64) *float64 { return &v }

	tests := []struct {
		name          string
		samples       int
		avgSimilarity float64
		stdDev        *float64
		want          float64
	}{
		{"no evidence stays at base", 0, 0, nil, 0.5},
		{"maximal evidence saturates", 12, 0.9, ref(0.3), 1.0},
		{"few samples, medium similarity", 3, 0.75, nil, 0.8},
		{"spread reduces bonus", 5, 0.6, ref(0.9), 0.9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConfidenceScore(tt.samples, tt.avgSimilarity, tt.stdDev)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestBayesianAdjustment(t *testing.T) {
	tests := []struct {
		name    string
		factors AdjustmentFactors
		want    float64
	}{
		{
			name:    "weak evidence pulls the prior down",
			factors: AdjustmentFactors{SimilarCount: 1, AvgSimilarity: 0.3, ComplexityFit: 0.4},
			want:    -0.1 - 0.2,
		},
		{
			name: "strong evidence with proven patterns",
			factors: AdjustmentFactors{
				SimilarCount:  6,
				AvgSimilarity: 0.9,
				ComplexityFit: 0.95,
				PatternsExist: true,
				PatternCount:  7,
			},
			want: 0.3 + 0.2 + 0.2 + 0.3,
		},
		{
			name:    "medium band is nearly neutral",
			factors: AdjustmentFactors{SimilarCount: 3, AvgSimilarity: 0.75, ComplexityFit: 0.7},
			want:    0.1 + 0.1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := BayesianAdjustment(tt.factors)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("got %g, want %g", got, tt.want)
			}
		})
	}
}

func TestDescriptiveStatistics(t *testing.T) {
	t.Run("average of empty slice is zero", func(t *testing.T) {
		if got := Average(nil); got != 0 {
			t.Errorf("got %g", got)
		}
	})

	t.Run("median of even count averages middle pair", func(t *testing.T) {
		if got := Median([]float64{1, 2, 3, 4}); got != 2.5 {
			t.Errorf("got %g, want 2.5", got)
		}
	})

	t.Run("median does not mutate input", func(t *testing.T) {
		in := []float64{3, 1, 2}
		Median(in)
		if in[0] != 3 || in[1] != 1 || in[2] != 2 {
			t.Errorf("input mutated: %v", in)
		}
	})

	t.Run("stddev of single sample is zero", func(t *testing.T) {
		if got := StdDev([]float64{4}); got != 0 {
			t.Errorf("got %g", got)
		}
	})

	t.Run("sample stddev", func(t *testing.T) {
		got := StdDev([]float64{2, 4, 4, 4, 5, 5, 7, 9})
		want := math.Sqrt(32.0 / 7.0)
		if math.Abs(got-want) > 1e-9 {
			t.Errorf("got %g, want %g", got, want)
		}
	})

	t.Run("clamp", func(t *testing.T) {
		if got := Clamp(6.2, 1, 5); got != 5 {
			t.Errorf("got %g", got)
		}
		if got := Clamp(0.4, 1, 5); got != 1 {
			t.Errorf("got %g", got)
		}
	})
}
