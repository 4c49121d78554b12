package main

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Wossito/gym-ai/internal/errors"
	"github.com/Wossito/gym-ai/internal/gym"
)

type profileTemplateData struct {
	BaseTemplateData
	// Form echoes the submitted values so the user does not lose input on
	// a validation failure.
	Form   profileForm
	Errors []string
	Levels []string
	Goals  []string
}

type profileForm struct {
	Name         string
	Age          string
	Weight       string
	Height       string
	Level        string
	Goal         string
	TrainingDays string
	Limitations  string
}

func profileFormFromUser(user gym.User) profileForm {
	return profileForm{
		Name:         user.Name,
		Age:          strconv.Itoa(user.Profile.Age),
		Weight:       formatFloat(user.Profile.WeightKg),
		Height:       formatFloat(user.Profile.HeightM),
		Level:        string(user.Profile.Level),
		Goal:         string(user.Profile.Goal),
		TrainingDays: strconv.Itoa(user.Profile.TrainingDays),
		Limitations:  user.Limitations,
	}
}

func (app *application) newProfileTemplateData(r *http.Request) profileTemplateData {
	data := profileTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Levels:           []string{string(gym.LevelBeginner), string(gym.LevelIntermediate), string(gym.LevelAdvanced)},
		Goals: []string{
			string(gym.GoalLoseWeight), string(gym.GoalGainMass),
			string(gym.GoalEndurance), string(gym.GoalStrength),
		},
	}
	if user, ok := app.currentUser(r); ok {
		data.Form = profileFormFromUser(user)
	}
	return data
}

func (app *application) profileGET(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusOK, "profile", app.newProfileTemplateData(r))
}

func (app *application) profilePOST(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		app.serverError(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	form := profileForm{
		Name:         r.PostForm.Get("name"),
		Age:          r.PostForm.Get("age"),
		Weight:       r.PostForm.Get("weight"),
		Height:       r.PostForm.Get("height"),
		Level:        r.PostForm.Get("level"),
		Goal:         r.PostForm.Get("goal"),
		TrainingDays: r.PostForm.Get("training_days"),
		Limitations:  r.PostForm.Get("limitations"),
	}

	// Numeric parse failures surface as validation errors alongside the
	// range checks; the zero values fail those checks anyway.
	age, _ := strconv.Atoi(form.Age)
	weight, _ := strconv.ParseFloat(form.Weight, 64)
	height, _ := strconv.ParseFloat(form.Height, 64)
	trainingDays, _ := strconv.Atoi(form.TrainingDays)

	user, err := app.engine.CreateUser(form.Name, age, weight, height, form.Level, form.Goal, trainingDays, form.Limitations)
	if err != nil {
		var verrs gym.ValidationErrors
		if errors.As(err, &verrs) {
			data := app.newProfileTemplateData(r)
			data.Form = form
			data.Errors = verrs
			app.render(w, r, http.StatusUnprocessableEntity, "profile", data)
			return
		}
		app.serverError(w, r, err)
		return
	}

	// An existing profile keeps its identity so the history stays attached.
	if existing, ok := app.currentUser(r); ok {
		user.ID = existing.ID
		user.StartDate = existing.StartDate
	}

	if err = app.setCurrentUser(r, user); err != nil {
		app.serverError(w, r, err)
		return
	}

	redirect(w, r, "/")
}
