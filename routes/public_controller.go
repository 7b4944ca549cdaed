package routes

import (
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/akirse/survey-sessions/app"
	"github.com/akirse/survey-sessions/httpx"
	"github.com/akirse/survey-sessions/log"
	"github.com/akirse/survey-sessions/store"
)

func ListSurveys(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveys, err := app.ListSurveys(r.Context())
		if err != nil {
			httpx.LogInternalError(w, "db.list_surveys", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"surveys": surveys,
		})
	}
}

func SessionSurveyList(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")

		surveys, participated, err := app.ListSurveysWithParticipation(r.Context(), sessionID)
		if err != nil {
			httpx.LogInternalError(w, "db.list_surveys_with_participation", err)
			return
		}

		ids := make([]int64, 0, len(participated))
		for id := range participated {
			ids = append(ids, id)
		}
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

		render.JSON(w, r, map[string]any{
			"session_id":              sessionID,
			"surveys":                 surveys,
			"participated_survey_ids": ids,
		})
	}
}

func TakeSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID, err := surveyIDParam(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.surveyId")
			return
		}

		survey, err := app.GetSurvey(r.Context(), surveyID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, "take_survey", surveyID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"session_id": chi.URLParam(r, "sessionId"),
			"survey":     survey,
		})
	}
}

func SubmitSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sessionID := chi.URLParam(r, "sessionId")
		surveyID, err := surveyIDParam(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.surveyId")
			return
		}

		err = r.ParseForm()
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}

		// the form has one field per question, keyed by question id
		answers := make(map[int64]string, len(r.PostForm))
		for key, values := range r.PostForm {
			questionID, err := strconv.ParseInt(key, 10, 64)
			if err != nil {
				continue
			}
			if len(values) > 0 {
				answers[questionID] = values[0]
			}
		}

		recorded, err := app.SubmitResponses(r.Context(), sessionID, surveyID, answers)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, "submit_survey", surveyID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.submit_responses", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"session_id": sessionID,
			"survey_id":  surveyID,
			"recorded":   recorded,
		})
	}
}
