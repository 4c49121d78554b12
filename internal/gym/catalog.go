package gym

import "fmt"

// Muscle group identifiers used across the catalog and the generator.
const (
	MuscleGroupChest     = "chest"
	MuscleGroupBack      = "back"
	MuscleGroupLegs      = "legs"
	MuscleGroupShoulders = "shoulders"
	MuscleGroupArms      = "arms"
	MuscleGroupCore      = "core"
	MuscleGroupCardio    = "cardio"
)

// MuscleGroups lists every known group, cardio last.
var MuscleGroups = []string{
	MuscleGroupChest,
	MuscleGroupBack,
	MuscleGroupLegs,
	MuscleGroupShoulders,
	MuscleGroupArms,
	MuscleGroupCore,
	MuscleGroupCardio,
}

// ExercisePool is the selectable catalog for one muscle group. Groups
// without an isolation list (core) only offer compound work.
type ExercisePool struct {
	Compound  []string
	Isolation []string
}

// All returns compound and isolation movements combined.
func (p ExercisePool) All() []string {
	out := make([]string, 0, len(p.Compound)+len(p.Isolation))
	out = append(out, p.Compound...)
	out = append(out, p.Isolation...)
	return out
}

var exerciseCatalog = map[string]ExercisePool{
	MuscleGroupChest: {
		Compound:  []string{"Bench press", "Incline bench press", "Parallel bar dips", "Decline bench press"},
		Isolation: []string{"Dumbbell flyes", "Cable crossovers", "Pullover", "Dumbbell press"},
	},
	MuscleGroupBack: {
		Compound:  []string{"Pull-ups", "Deadlift", "Barbell row", "Cable row"},
		Isolation: []string{"Lat pulldown", "Dumbbell row", "Face pulls", "Straight-arm pullover"},
	},
	MuscleGroupLegs: {
		Compound:  []string{"Squat", "Leg press", "Romanian deadlift", "Bulgarian split squat"},
		Isolation: []string{"Leg extensions", "Leg curl", "Calf raises", "Hip thrust"},
	},
	MuscleGroupShoulders: {
		Compound:  []string{"Overhead press", "Arnold press", "Upright row"},
		Isolation: []string{"Lateral raises", "Front raises", "Reverse flyes", "Face pulls"},
	},
	MuscleGroupArms: {
		Compound:  []string{"Close-grip bench press", "Close-grip pull-ups"},
		Isolation: []string{"Barbell curl", "Triceps extensions", "Hammer curl", "Concentration curl", "Triceps dips"},
	},
	MuscleGroupCore: {
		Compound: []string{"Plank", "Crunches", "Leg raises", "Russian twists"},
	},
}

var cardioCatalog = []string{
	"Walking", "Jogging", "HIIT", "Cycling", "Rowing machine", "Elliptical", "Stair climber", "Sprints",
}

// Pool returns the exercise catalog for a strength muscle group.
func Pool(group string) (ExercisePool, bool) {
	pool, ok := exerciseCatalog[group]
	return pool, ok
}

// CardioOptions returns the cardio exercise names.
func CardioOptions() []string {
	out := make([]string, len(cardioCatalog))
	copy(out, cardioCatalog)
	return out
}

// GoalParams are the per-goal training parameter bands the generator draws
// experimental values from.
type GoalParams struct {
	RepsMin           int
	RepsMax           int
	RestMinSec        int
	RestMaxSec        int
	CardioProbability float64
}

var paramsByGoal = map[Goal]GoalParams{
	GoalLoseWeight: {RepsMin: 12, RepsMax: 20, RestMinSec: 30, RestMaxSec: 60, CardioProbability: 0.8},
	GoalGainMass:   {RepsMin: 8, RepsMax: 12, RestMinSec: 60, RestMaxSec: 90, CardioProbability: 0.3},
	GoalEndurance:  {RepsMin: 15, RepsMax: 25, RestMinSec: 20, RestMaxSec: 45, CardioProbability: 0.9},
	GoalStrength:   {RepsMin: 4, RepsMax: 8, RestMinSec: 120, RestMaxSec: 180, CardioProbability: 0.3},
}

// ParamsForGoal returns the parameter band for a goal, defaulting to the
// gain_mass band for unknown goals.
func ParamsForGoal(g Goal) GoalParams {
	if params, ok := paramsByGoal[g]; ok {
		return params
	}
	return paramsByGoal[GoalGainMass]
}

// SeriesForLevel returns the default set count per exercise by level.
func SeriesForLevel(l Level) int {
	switch l {
	case LevelBeginner:
		return 3
	case LevelAdvanced:
		return 5
	default:
		return 4
	}
}

// IdealExercisesPerDay is the per-day exercise count that fits a level
// best. The prediction engine scores routines against it.
func IdealExercisesPerDay(l Level) float64 {
	switch l {
	case LevelBeginner:
		return 4
	case LevelAdvanced:
		return 6
	default:
		return 5
	}
}

// ExercisesPerGroup returns how many exercises a single muscle group gets
// per day under a structure and level. Cardio is always a single slot.
func ExercisesPerGroup(s Structure, l Level, group string) int {
	if group == MuscleGroupCardio {
		return 1
	}
	if s == StructureSplit {
		if l == LevelAdvanced {
			return 3
		}
		return 2
	}
	if l == LevelBeginner {
		return 1
	}
	return 2
}

// StructureForDays maps the weekly training frequency onto a routine
// structure: up to 3 days full body, 4 days upper/lower, 5+ a split.
func StructureForDays(days int) Structure {
	switch {
	case days <= 3:
		return StructureFullBody
	case days == 4:
		return StructureUpperLower
	default:
		return StructureSplit
	}
}

var fullBodyGroups = []string{
	MuscleGroupChest, MuscleGroupBack, MuscleGroupLegs, MuscleGroupShoulders, MuscleGroupArms,
}

var upperLowerBaseDays = [][]string{
	{MuscleGroupChest, MuscleGroupBack, MuscleGroupShoulders, MuscleGroupArms},
	{MuscleGroupLegs, MuscleGroupCore},
	{MuscleGroupChest, MuscleGroupBack, MuscleGroupArms},
	{MuscleGroupLegs, MuscleGroupShoulders, MuscleGroupCore},
}

var splitBaseDays = [][]string{
	{MuscleGroupChest, MuscleGroupArms},
	{MuscleGroupBack},
	{MuscleGroupLegs},
	{MuscleGroupShoulders, MuscleGroupArms},
	{MuscleGroupChest, MuscleGroupBack},
	{MuscleGroupLegs, MuscleGroupCore},
}

// DayGroups assigns muscle groups to each of the requested training days.
// Base tables shorter than the requested day count wrap around so every
// day resolves to a non-empty group list.
func DayGroups(s Structure, days int) [][]string {
	var base [][]string
	switch s {
	case StructureUpperLower:
		base = upperLowerBaseDays
	case StructureSplit:
		base = splitBaseDays
	default:
		base = [][]string{fullBodyGroups}
	}

	out := make([][]string, days)
	for i := range out {
		row := base[i%len(base)]
		groups := make([]string, len(row))
		copy(groups, row)
		out[i] = groups
	}
	return out
}

// ValidateDayTables checks every structure and supported day count
// resolves to non-empty group lists over known groups. Run at startup so a
// broken table edit fails fast instead of producing empty routines.
func ValidateDayTables() error {
	known := map[string]bool{}
	for _, g := range MuscleGroups {
		known[g] = true
	}
	for _, s := range []Structure{StructureFullBody, StructureUpperLower, StructureSplit} {
		for days := TrainingDaysMin; days <= TrainingDaysMax; days++ {
			assignment := DayGroups(s, days)
			if len(assignment) != days {
				return fmt.Errorf("structure %s: want %d days, got %d", s, days, len(assignment))
			}
			for i, groups := range assignment {
				if len(groups) == 0 {
					return fmt.Errorf("structure %s day %d has no muscle groups", s, i+1)
				}
				for _, g := range groups {
					if !known[g] {
						return fmt.Errorf("structure %s day %d references unknown group %q", s, i+1, g)
					}
				}
			}
		}
	}
	return nil
}
