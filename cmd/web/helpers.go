package main

import (
	"log/slog"
	"net/http"
	"strconv"
)

func (app *application) serverError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.LogAttrs(r.Context(), slog.LevelError, "server error", slog.Any("error", err))
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

// parseIDParam parses the "id" path parameter from the request URL.
// Returns the parsed identity and true if successful, or zero and false if parsing fails.
// On failure, sends HTTP 404 response automatically.
func (app *application) parseIDParam(w http.ResponseWriter, r *http.Request) (int, bool) {
	idStr := r.PathValue("id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		http.NotFound(w, r)
		return 0, false
	}
	return id, true
}

const flashSessionKey = "flash"

// flash queues a one-time notification shown on the next rendered page.
func (app *application) flash(r *http.Request, message string) {
	app.sessionManager.Put(r.Context(), flashSessionKey, message)
}

// popFlash consumes the queued notification, if any.
func (app *application) popFlash(r *http.Request) string {
	return app.sessionManager.PopString(r.Context(), flashSessionKey)
}

// parseOptionalFloat parses a form value that may be left empty, defaulting to zero.
func parseOptionalFloat(value string) (float64, error) {
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, err //nolint:wrapcheck // the caller reports the offending field.
	}
	return parsed, nil
}
