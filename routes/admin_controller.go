package routes

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/akirse/survey-sessions/app"
	"github.com/akirse/survey-sessions/httpx"
	"github.com/akirse/survey-sessions/log"
	"github.com/akirse/survey-sessions/model"
	"github.com/akirse/survey-sessions/store"
)

func CreateSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := r.ParseForm()
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_form")
			return
		}

		title := r.PostForm.Get("title")
		entries := parseQuestionEntries(r.PostForm)

		surveyID, err := app.CreateSurvey(r.Context(), title, entries)
		var ve store.ValidationError
		switch {
		case errors.As(err, &ve):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "create_survey.validate", "%s", ve)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.create_survey", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, map[string]any{
			"id": surveyID,
		})
	}
}

func GetSurveyForEdit(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID, err := surveyIDParam(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.surveyId")
			return
		}

		survey, err := app.GetSurvey(r.Context(), surveyID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, "edit_survey", surveyID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.get_survey", err)
			return
		}

		render.JSON(w, r, survey)
	}
}

func EditSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
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

		title := r.PostForm.Get("title")
		entries := parseQuestionEntries(r.PostForm)

		err = app.UpdateSurvey(r.Context(), surveyID, title, entries)
		var ve store.ValidationError
		switch {
		case errors.As(err, &ve):
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "edit_survey.validate", "%s", ve)
			return
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, "edit_survey", surveyID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.update_survey", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func DeleteSurvey(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		surveyID, err := surveyIDParam(r)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.surveyId")
			return
		}

		err = app.DeleteSurvey(r.Context(), surveyID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			httpx.LogNotFound(w, "delete_survey", surveyID)
			return
		case err != nil:
			httpx.LogInternalError(w, "db.delete_survey", err)
			return
		}

		w.WriteHeader(http.StatusNoContent)
	}
}

func surveyIDParam(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "surveyId"), 10, 64)
}

// parseQuestionEntries zips the form's parallel arrays (questions, comments,
// markdowns, likert_scales) into structured entries. The questions array
// drives the count; the optional arrays pad out with blanks instead of
// truncating the zip on a length mismatch.
func parseQuestionEntries(form url.Values) []model.QuestionEntry {
	questions := form["questions"]
	comments := form["comments"]
	markdowns := form["markdowns"]
	likerts := form["likert_scales"]

	entries := make([]model.QuestionEntry, len(questions))
	for i := range questions {
		e := model.QuestionEntry{Text: questions[i]}
		if i < len(comments) {
			e.Comment = comments[i]
		}
		if i < len(markdowns) {
			e.MarkdownText = markdowns[i]
		}
		if i < len(likerts) {
			e.LikertCSV = likerts[i]
		}
		entries[i] = e
	}
	return entries
}
