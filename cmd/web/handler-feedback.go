package main

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/Wossito/gym-ai/internal/engine"
	"github.com/Wossito/gym-ai/internal/errors"
	"github.com/Wossito/gym-ai/internal/gym"
)

type feedbackTemplateData struct {
	BaseTemplateData
	Routine     gym.Routine
	Results     engine.LearningResults
	Anomalies   engine.AnomalyReport
	Adjustments string
}

// adjustmentsMarkdown turns the adjustment advice into a markdown list for
// rendering.
func adjustmentsMarkdown(adjustments []string) string {
	var b strings.Builder
	for _, adjustment := range adjustments {
		fmt.Fprintf(&b, "- %s\n", adjustment)
	}
	return b.String()
}

func (app *application) routineFeedbackPOST(w http.ResponseWriter, r *http.Request) {
	user, ok := app.currentUser(r)
	if !ok {
		redirect(w, r, "/profile")
		return
	}
	record, ok := app.findOwnRecord(w, r, user)
	if !ok {
		return
	}

	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	satisfaction, err := strconv.Atoi(r.PostForm.Get("satisfaction"))
	if err != nil || !gym.ValidSatisfaction(satisfaction) {
		http.Error(w, "satisfaction must be a rating from 1 to 5", http.StatusUnprocessableEntity)
		return
	}
	comments := r.PostForm.Get("comments")

	outcome, err := app.engine.SubmitFeedback(r.Context(), user, record.RoutineID, satisfaction, comments)
	if err != nil {
		if errors.Is(err, engine.ErrRoutineNotFound) {
			app.notFound(w, r)
			return
		}
		// Repeated feedback and other validation failures are user errors.
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	data := feedbackTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Routine:          outcome.Routine,
		Results:          outcome.Results,
		Anomalies:        outcome.Anomalies,
		Adjustments:      adjustmentsMarkdown(outcome.Adjustments),
	}

	app.render(w, r, http.StatusOK, "feedback", data)
}
