package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/akirse/survey-sessions/app"
)

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Post("/create", CreateSurvey(app))
	root.Get("/surveys", ListSurveys(app))

	root.Get("/start", StartSession(app))
	root.Post("/start", StartSession(app))

	root.Route("/survey", func(r chi.Router) {
		r.Get(`/{surveyId:^\d+$}/edit`, GetSurveyForEdit(app))
		r.Post(`/{surveyId:^\d+$}/edit`, EditSurvey(app))
		// POST only: a GET-triggered prefetch must never delete anything
		r.Post(`/{surveyId:^\d+$}/delete`, DeleteSurvey(app))

		r.Get("/{sessionId}", SessionSurveyList(app))
		r.Get(`/{sessionId}/{surveyId:^\d+$}`, TakeSurvey(app))
		r.Post(`/{sessionId}/{surveyId:^\d+$}`, SubmitSurvey(app))
	})

	return root
}
