package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Wossito/gym-ai/internal/engine"
)

type statisticsTemplateData struct {
	BaseTemplateData
	Statistics engine.Statistics
	Progress   engine.LearningProgress
}

func (app *application) statisticsGET(w http.ResponseWriter, r *http.Request) {
	data := statisticsTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Statistics:       app.engine.Statistics(),
		Progress:         app.engine.Progress(),
	}

	app.render(w, r, http.StatusOK, "statistics", data)
}

// statisticsExportGET serves the statistics export as a JSON download and
// archives a copy server-side.
func (app *application) statisticsExportGET(w http.ResponseWriter, r *http.Request) {
	payload, err := app.engine.ExportStatistics(r.Context())
	if err != nil {
		app.serverError(w, r, fmt.Errorf("export statistics: %w", err))
		return
	}

	filename := fmt.Sprintf("gym-statistics-%s.json", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	_, _ = w.Write(payload)
}
