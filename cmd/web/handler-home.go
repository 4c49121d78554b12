package main

import (
	"net/http"
	"time"

	"github.com/Wossito/gym-ai/internal/engine"
	"github.com/Wossito/gym-ai/internal/gym"
)

type homeTemplateData struct {
	BaseTemplateData
	User           gym.User
	Classification engine.Classification
	Routines       []routineListItem
	Statistics     engine.Statistics
	Description    string
}

// systemDescription introduces the engine to users without a profile yet.
// Rendered as markdown.
const systemDescription = `Gym AI builds a weekly training routine from your
profile and improves its recommendations with every rating you give:

- routines are predicted against the experience of similar users
- well-rated structures and exercises are reused more often
- declining or stagnating satisfaction triggers concrete adjustments`

// routineListItem is one row in the generated routine history.
type routineListItem struct {
	ID           string
	CreatedAt    time.Time
	Structure    string
	Mode         string
	Days         int
	Satisfaction *int
	HasFeedback  bool
}

func toRoutineList(records []engine.GenerationRecord) []routineListItem {
	// Latest first.
	items := make([]routineListItem, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		rec := records[i]
		items = append(items, routineListItem{
			ID:           rec.RoutineID,
			CreatedAt:    rec.CreatedAt,
			Structure:    string(rec.Routine.Structure),
			Mode:         string(rec.Mode),
			Days:         rec.Routine.TotalDays(),
			Satisfaction: rec.Routine.Satisfaction,
			HasFeedback:  rec.Routine.HasFeedback(),
		})
	}
	return items
}

func (app *application) home(w http.ResponseWriter, r *http.Request) {
	data := homeTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Statistics:       app.engine.Statistics(),
		Description:      systemDescription,
	}

	if user, ok := app.currentUser(r); ok {
		report := app.engine.Report(user)

		var records []engine.GenerationRecord
		for _, rec := range app.engine.Records() {
			if rec.UserID == user.ID {
				records = append(records, rec)
			}
		}

		data.User = user
		data.Classification = report.Classification
		data.Routines = toRoutineList(records)
	}

	app.render(w, r, http.StatusOK, "home", data)
}
