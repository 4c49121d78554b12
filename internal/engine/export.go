package engine

import (
	"time"

	"github.com/Wossito/gym-ai/internal/gym"
)

// StatisticsExport is the standalone statistics document offered for
// download and archived in the stats_exports table.
type StatisticsExport struct {
	Timestamp  time.Time     `json:"timestamp"`
	Statistics Statistics    `json:"statistics"`
	Details    ExportDetails `json:"details"`
}

type ExportDetails struct {
	SatisfactionHistory []SatisfactionEntry `json:"satisfaction_history"`
	PatternCounts       map[string]int      `json:"pattern_counts"`
}

// SatisfactionEntry tags each rating with the level and goal it belongs
// to so exports can be sliced without the full history.
type SatisfactionEntry struct {
	Timestamp    time.Time `json:"timestamp"`
	Satisfaction int       `json:"satisfaction"`
	Level        gym.Level `json:"level"`
	Goal         gym.Goal  `json:"goal"`
}

// buildStatisticsExport snapshots the store into an export document.
func buildStatisticsExport(store *Store) StatisticsExport {
	history := store.History()
	entries := make([]SatisfactionEntry, len(history))
	for i, exp := range history {
		entries[i] = SatisfactionEntry{
			Timestamp:    exp.Timestamp,
			Satisfaction: exp.Satisfaction,
			Level:        exp.Profile.Level,
			Goal:         exp.Profile.Goal,
		}
	}

	return StatisticsExport{
		Timestamp:  time.Now(),
		Statistics: store.Statistics(),
		Details: ExportDetails{
			SatisfactionHistory: entries,
			PatternCounts:       store.PatternCounts(),
		},
	}
}
