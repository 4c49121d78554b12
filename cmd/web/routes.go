package main

import (
	"net/http"
)

func (app *application) routes() (*http.ServeMux, error) {
	mux := http.NewServeMux()

	var (
		standard = func(next http.Handler) http.Handler {
			return app.logAndTraceRequest(secureHeaders(app.crossOriginProtection(
				commonContext(app.timeout(next)))))
		}
		noSession = func(next http.Handler) http.Handler {
			return app.recoverPanic(standard(next))
		}
		session = func(next http.Handler) http.Handler {
			return app.recoverPanic(noCache(app.sessionManager.LoadAndSave(standard(next))))
		}
		mustProfile = func(next http.Handler) http.Handler {
			return session(app.mustHaveProfile(next))
		}
	)

	mux.Handle("GET /profile", session(http.HandlerFunc(app.profileGET)))
	mux.Handle("POST /profile", session(http.HandlerFunc(app.profilePOST)))

	mux.Handle("POST /routines", mustProfile(http.HandlerFunc(app.routineGeneratePOST)))
	mux.Handle("GET /routines/{id}", mustProfile(http.HandlerFunc(app.routineGET)))
	mux.Handle("POST /routines/{id}/feedback", mustProfile(http.HandlerFunc(app.routineFeedbackPOST)))

	mux.Handle("GET /statistics", session(http.HandlerFunc(app.statisticsGET)))
	mux.Handle("GET /statistics/export", session(http.HandlerFunc(app.statisticsExportGET)))

	mux.Handle("GET /api/healthy", noSession(http.HandlerFunc(app.healthy)))

	// Home route (most specific)
	mux.Handle("GET /{$}", session(http.HandlerFunc(app.home)))

	// Everything else is a 404 rendered with the site chrome.
	mux.Handle("/", session(http.HandlerFunc(app.notFound)))

	return mux, nil
}
