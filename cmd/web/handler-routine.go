package main

import (
	"fmt"
	"net/http"

	"github.com/Wossito/gym-ai/internal/engine"
	"github.com/Wossito/gym-ai/internal/gym"
)

type routineTemplateData struct {
	BaseTemplateData
	Routine        gym.Routine
	Mode           string
	Prediction     engine.Prediction
	Params         engine.OptimalParameters
	Classification engine.Classification
	Satisfactions  []satisfactionOption
}

// satisfactionOption is one choice on the 1-5 rating scale.
type satisfactionOption struct {
	Value int
	Label string
}

func satisfactionOptions() []satisfactionOption {
	options := make([]satisfactionOption, 0, gym.SatisfactionMax)
	for value := gym.SatisfactionMin; value <= gym.SatisfactionMax; value++ {
		options = append(options, satisfactionOption{Value: value, Label: gym.SatisfactionLabel(value)})
	}
	return options
}

func (app *application) routineGeneratePOST(w http.ResponseWriter, r *http.Request) {
	user, ok := app.currentUser(r)
	if !ok {
		redirect(w, r, "/profile")
		return
	}

	routine, _, err := app.engine.Generate(r.Context(), user)
	if err != nil {
		app.serverError(w, r, fmt.Errorf("generate routine: %w", err))
		return
	}

	redirect(w, r, "/routines/"+routine.ID)
}

// findOwnRecord loads the generation record for the routine ID in the URL
// and verifies it belongs to the session user.
func (app *application) findOwnRecord(w http.ResponseWriter, r *http.Request, user gym.User) (engine.GenerationRecord, bool) {
	id := r.PathValue("id")
	record, ok := app.engine.FindRecord(id)
	if !ok || record.UserID != user.ID {
		app.notFound(w, r)
		return engine.GenerationRecord{}, false
	}
	return record, true
}

func (app *application) routineGET(w http.ResponseWriter, r *http.Request) {
	user, ok := app.currentUser(r)
	if !ok {
		redirect(w, r, "/profile")
		return
	}
	record, ok := app.findOwnRecord(w, r, user)
	if !ok {
		return
	}

	// The stored copy carries any feedback attached after generation.
	routine, ok := app.engine.FindRoutine(record.RoutineID)
	if !ok {
		app.notFound(w, r)
		return
	}

	data := routineTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Routine:          routine,
		Mode:             string(record.Mode),
		Prediction:       record.Prediction,
		Params:           record.Params,
		Classification:   record.Classification,
		Satisfactions:    satisfactionOptions(),
	}

	app.render(w, r, http.StatusOK, "routine", data)
}
