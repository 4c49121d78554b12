package gym

import (
	"fmt"
	"strings"
)

type Intensity string

const (
	IntensityLow      Intensity = "low"
	IntensityModerate Intensity = "moderate"
	IntensityHigh     Intensity = "high"
	IntensityHIIT     Intensity = "HIIT"
)

// Exercise is one slot in a routine day. It comes in exactly two shapes:
// strength work (sets, rep range, rest range) and cardio (duration,
// intensity). The constructors enforce the shape; Validate rechecks it
// after deserialisation.
type Exercise struct {
	Name        string `json:"name"`
	MuscleGroup string `json:"muscle_group"`

	// Strength shape.
	Sets      int    `json:"sets,omitempty"`
	RepRange  string `json:"rep_range,omitempty"`
	RestRange string `json:"rest_range,omitempty"`

	// Cardio shape.
	Duration  string    `json:"duration,omitempty"`
	Intensity Intensity `json:"intensity,omitempty"`
}

func NewStrengthExercise(name, muscleGroup string, sets int, repRange, restRange string) (Exercise, error) {
	e := Exercise{
		Name:        name,
		MuscleGroup: muscleGroup,
		Sets:        sets,
		RepRange:    repRange,
		RestRange:   restRange,
	}
	if err := e.Validate(); err != nil {
		return Exercise{}, err
	}
	return e, nil
}

func NewCardioExercise(name, duration string, intensity Intensity) (Exercise, error) {
	e := Exercise{
		Name:        name,
		MuscleGroup: MuscleGroupCardio,
		Duration:    duration,
		Intensity:   intensity,
	}
	if err := e.Validate(); err != nil {
		return Exercise{}, err
	}
	return e, nil
}

func (e Exercise) IsCardio() bool {
	return e.MuscleGroup == MuscleGroupCardio
}

// Validate checks that the exercise carries exactly one shape and that the
// populated shape is complete.
func (e Exercise) Validate() error {
	if e.Name == "" {
		return fmt.Errorf("exercise name must not be empty")
	}
	if e.MuscleGroup == "" {
		return fmt.Errorf("exercise %q has no muscle group", e.Name)
	}
	if e.IsCardio() {
		if e.Sets != 0 || e.RepRange != "" || e.RestRange != "" {
			return fmt.Errorf("cardio exercise %q carries strength fields", e.Name)
		}
		if e.Duration == "" || e.Intensity == "" {
			return fmt.Errorf("cardio exercise %q is missing duration or intensity", e.Name)
		}
		return nil
	}
	if e.Duration != "" || e.Intensity != "" {
		return fmt.Errorf("strength exercise %q carries cardio fields", e.Name)
	}
	if e.Sets < 1 {
		return fmt.Errorf("strength exercise %q must have at least one set", e.Name)
	}
	if e.RepRange == "" || e.RestRange == "" {
		return fmt.Errorf("strength exercise %q is missing rep or rest range", e.Name)
	}
	return nil
}

// compoundMarkers are name fragments that identify multi-joint movements.
var compoundMarkers = []string{"press", "squat", "deadlift", "pull-up", "row", "dip", "thrust"}

// IsCompound reports whether the exercise is a multi-joint movement.
// Cardio is never compound.
func (e Exercise) IsCompound() bool {
	if e.IsCardio() {
		return false
	}
	name := strings.ToLower(e.Name)
	for _, marker := range compoundMarkers {
		if strings.Contains(name, marker) {
			return true
		}
	}
	return false
}
