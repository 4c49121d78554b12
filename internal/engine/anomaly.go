package engine

import (
	"github.com/Wossito/gym-ai/internal/stats"
)

const (
	StateNormal    = "normal"
	StateAnomalous = "anomalous"
)

// Anomaly types.
const (
	AnomalyDecliningTrend = "declining_trend"
	AnomalyAbruptDrop     = "abrupt_drop"
	AnomalyPlateau        = "plateau"
)

type Anomaly struct {
	Type           string `json:"type"`
	Description    string `json:"description"`
	Recommendation string `json:"recommendation"`
}

// AnomalyReport is the result of scanning a user's feedback history for
// warning signs.
type AnomalyReport struct {
	Anomalies       []Anomaly `json:"anomalies"`
	State           string    `json:"state"`
	AvgSatisfaction float64   `json:"avg_satisfaction"`
}

// DetectAnomalies scans a user's feedback history for three warning
// signs: a strictly declining trend over the last three ratings, an
// abrupt drop from satisfied to dissatisfied, and a plateau around the
// middle of the scale. Fewer than three ratings is always normal.
func (inf *Inferencer) DetectAnomalies(history []Experience) AnomalyReport {
	if len(history) < 3 {
		return AnomalyReport{State: StateNormal}
	}

	ratings := make([]float64, len(history))
	for i, exp := range history {
		ratings[i] = float64(exp.Satisfaction)
	}

	var anomalies []Anomaly

	last3 := ratings[len(ratings)-3:]
	if last3[0] > last3[1] && last3[1] > last3[2] {
		anomalies = append(anomalies, Anomaly{
			Type:           AnomalyDecliningTrend,
			Description:    "Satisfaction has dropped three times in a row",
			Recommendation: "Review exercise intensity or variety",
		})
	}

	if ratings[len(ratings)-2] >= 4 && ratings[len(ratings)-1] <= 2 {
		anomalies = append(anomalies, Anomaly{
			Type:           AnomalyAbruptDrop,
			Description:    "Sudden drop in satisfaction",
			Recommendation: "Check for possible injury or overtraining",
		})
	}

	avg := stats.Average(ratings)
	if avg >= 3.0 && avg <= 3.5 && len(ratings) >= 5 {
		anomalies = append(anomalies, Anomaly{
			Type:           AnomalyPlateau,
			Description:    "Satisfaction stuck at a middling level",
			Recommendation: "Consider a change of approach or methodology",
		})
	}

	state := StateNormal
	if len(anomalies) > 0 {
		state = StateAnomalous
	}
	return AnomalyReport{
		Anomalies:       anomalies,
		State:           state,
		AvgSatisfaction: round2(avg),
	}
}
