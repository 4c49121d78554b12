package gym

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Structure string

const (
	StructureFullBody   Structure = "fullbody"
	StructureUpperLower Structure = "upper_lower"
	StructureSplit      Structure = "split"
)

func (s Structure) Valid() bool {
	switch s {
	case StructureFullBody, StructureUpperLower, StructureSplit:
		return true
	}
	return false
}

// Metadata keys attached to generated routines.
const (
	MetadataGenerationMode   = "generation_mode"
	MetadataInnovationLevel  = "innovation_level"
	MetadataBasedOnPatterns  = "based_on_patterns"
	MetadataConfidence       = "confidence"
	MetadataParamsOptimized  = "parameters_optimized"
	MetadataParamsConfidence = "parameters_confidence"
)

// RoutineDay is one labelled training day. A slice of days keeps the plan
// ordered, unlike a map keyed by label.
type RoutineDay struct {
	Label     string     `json:"label"`
	Exercises []Exercise `json:"exercises"`
}

// Routine is a complete weekly plan produced by the generator together
// with the feedback the user eventually attaches to it.
type Routine struct {
	ID           string         `json:"id"`
	Profile      Profile        `json:"profile"`
	Days         []RoutineDay   `json:"days"`
	Structure    Structure      `json:"structure"`
	Metadata     map[string]any `json:"metadata,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
	Satisfaction *int           `json:"satisfaction,omitempty"`
	Comments     string         `json:"comments,omitempty"`
}

func NewRoutine(profile Profile, days []RoutineDay, structure Structure, metadata map[string]any) (Routine, error) {
	if !structure.Valid() {
		return Routine{}, fmt.Errorf("unknown routine structure %q", structure)
	}
	if len(days) == 0 {
		return Routine{}, fmt.Errorf("a routine needs at least one training day")
	}
	for _, day := range days {
		for _, e := range day.Exercises {
			if err := e.Validate(); err != nil {
				return Routine{}, fmt.Errorf("day %q: %w", day.Label, err)
			}
		}
	}
	return Routine{
		ID:        uuid.NewString(),
		Profile:   profile,
		Days:      days,
		Structure: structure,
		Metadata:  metadata,
		CreatedAt: time.Now(),
	}, nil
}

func (r Routine) TotalDays() int {
	return len(r.Days)
}

func (r Routine) TotalExercises() int {
	var total int
	for _, day := range r.Days {
		total += len(day.Exercises)
	}
	return total
}

func (r Routine) ExercisesPerDay() float64 {
	if len(r.Days) == 0 {
		return 0
	}
	return float64(r.TotalExercises()) / float64(len(r.Days))
}

// MuscleGroupsWorked returns the distinct non-cardio groups the plan hits.
func (r Routine) MuscleGroupsWorked() []string {
	seen := map[string]bool{}
	var groups []string
	for _, day := range r.Days {
		for _, e := range day.Exercises {
			if e.IsCardio() || seen[e.MuscleGroup] {
				continue
			}
			seen[e.MuscleGroup] = true
			groups = append(groups, e.MuscleGroup)
		}
	}
	return groups
}

func (r Routine) HasCardio() bool {
	for _, day := range r.Days {
		for _, e := range day.Exercises {
			if e.IsCardio() {
				return true
			}
		}
	}
	return false
}

// CardioFrequency counts the days that include at least one cardio slot.
func (r Routine) CardioFrequency() int {
	var count int
	for _, day := range r.Days {
		for _, e := range day.Exercises {
			if e.IsCardio() {
				count++
				break
			}
		}
	}
	return count
}

func (r Routine) HasFeedback() bool {
	return r.Satisfaction != nil
}

// IsSuccessful reports whether the user rated the routine 4 or better.
func (r Routine) IsSuccessful() bool {
	return r.Satisfaction != nil && *r.Satisfaction >= 4
}

// SetFeedback attaches the user's rating. Feedback is one-shot: a routine
// that already has a rating rejects a second one.
func (r *Routine) SetFeedback(satisfaction int, comments string) error {
	if !ValidSatisfaction(satisfaction) {
		return fmt.Errorf("satisfaction must be between %d and %d, got %d", SatisfactionMin, SatisfactionMax, satisfaction)
	}
	if r.Satisfaction != nil {
		return fmt.Errorf("routine %s already has feedback", r.ID)
	}
	r.Satisfaction = &satisfaction
	r.Comments = sanitizeFreeText(comments, limitationsMaxLen)
	return nil
}

// ComplexityScore summarises routine volume into [0, 1]: exercise density,
// muscle-group variety and cardio presence, weighted 0.4/0.4/0.2.
func (r Routine) ComplexityScore() float64 {
	cardioScore := 0.0
	if r.HasCardio() {
		cardioScore = 1.0
	}
	score := (r.ExercisesPerDay()/7)*0.4 +
		(float64(len(r.MuscleGroupsWorked()))/6)*0.4 +
		cardioScore*0.2
	if score > 1.0 {
		return 1.0
	}
	return score
}

// Summary is a one-line description used by logs and views.
func (r Routine) Summary() string {
	return fmt.Sprintf("%s routine, %d days, %d exercises, %d muscle groups",
		r.Structure, r.TotalDays(), r.TotalExercises(), len(r.MuscleGroupsWorked()))
}
