package gym

import (
	"strings"
	"unicode"
)

// Validation ranges for user-supplied fields.
const (
	AgeMin          = 10
	AgeMax          = 100
	WeightMinKg     = 30.0
	WeightMaxKg     = 300.0
	HeightMinM      = 1.0
	HeightMaxM      = 2.5
	TrainingDaysMin = 2
	TrainingDaysMax = 7
	SatisfactionMin = 1
	SatisfactionMax = 5

	nameMaxLen        = 60
	limitationsMaxLen = 500
)

// ValidationErrors collects every constraint violation found in one input
// so callers can render the full list instead of the first failure.
type ValidationErrors []string

func (e ValidationErrors) Error() string {
	return strings.Join(e, "; ")
}

// ValidSatisfaction reports whether a rating is inside the 1..5 scale.
func ValidSatisfaction(rating int) bool {
	return rating >= SatisfactionMin && rating <= SatisfactionMax
}

// SatisfactionLabel names a rating for display.
func SatisfactionLabel(rating int) string {
	switch rating {
	case 1:
		return "very dissatisfied"
	case 2:
		return "dissatisfied"
	case 3:
		return "neutral"
	case 4:
		return "satisfied"
	case 5:
		return "very satisfied"
	default:
		return "unknown"
	}
}

// sanitizeFreeText strips control characters and caps the length of
// user-entered text fields.
func sanitizeFreeText(s string, maxLen int) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(s) {
		if unicode.IsControl(r) && r != '\n' {
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if len(out) > maxLen {
		out = out[:maxLen]
	}
	return out
}
