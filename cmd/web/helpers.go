package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/Wossito/gym-ai/internal/errors"
	"github.com/Wossito/gym-ai/internal/gym"
)

// sessionKeyUser holds the JSON-encoded gym.User for this session.
const sessionKeyUser = "user"

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", errors.SlogError(err))
	app.render(w, r, http.StatusInternalServerError, "error", nil)
}

func (app *application) notFound(w http.ResponseWriter, r *http.Request) {
	app.render(w, r, http.StatusNotFound, "not-found", app.newBaseTemplateData(r))
}

// redirect detects if the request is originating from a fetch API call or a top-level navigation and points the user
// to the correct URL.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("Sec-Fetch-Dest") == "empty" {
		w.Header().Set("Content-Location", path)
		w.WriteHeader(http.StatusOK)
		return
	}

	http.Redirect(w, r, path, http.StatusSeeOther)
}

// currentUser loads the session's profile owner, if one has been created.
func (app *application) currentUser(r *http.Request) (gym.User, bool) {
	payload := app.sessionManager.GetString(r.Context(), sessionKeyUser)
	if payload == "" {
		return gym.User{}, false
	}
	var user gym.User
	if err := json.Unmarshal([]byte(payload), &user); err != nil {
		// A corrupt session entry is dropped so the user can start over.
		app.sessionManager.Remove(r.Context(), sessionKeyUser)
		app.logger.LogAttrs(r.Context(), slog.LevelWarn, "dropped corrupt session user",
			slog.Any("error", err))
		return gym.User{}, false
	}
	return user, true
}

// setCurrentUser stores the profile owner in the session.
func (app *application) setCurrentUser(r *http.Request, user gym.User) error {
	payload, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal session user: %w", err)
	}
	app.sessionManager.Put(r.Context(), sessionKeyUser, string(payload))
	return nil
}
