package routes

import (
	"net/http"

	"github.com/go-chi/render"

	"github.com/akirse/survey-sessions/app"
	"github.com/akirse/survey-sessions/httpx"
	"github.com/akirse/survey-sessions/log"
)

// StartSession lets a respondent enter with a session id of their choosing,
// or hands out a fresh one when the form leaves it blank.
func StartSession(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}

		sessionID, err := app.StartSession(r.Context(), r.Form.Get("session_id"), r.Form.Get("name"))
		if err != nil {
			httpx.LogInternalError(w, "db.start_session", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"session_id": sessionID,
		})
	}
}
