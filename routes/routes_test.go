package routes_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/akirse/survey-sessions/app"
	"github.com/akirse/survey-sessions/config"
	"github.com/akirse/survey-sessions/database"
	"github.com/akirse/survey-sessions/model"
	"github.com/akirse/survey-sessions/routes"
	"github.com/akirse/survey-sessions/store"
)

func newTestServer(t *testing.T) (http.Handler, *store.Store) {
	t.Helper()

	cfg := config.Config{DBUrl: filepath.Join(t.TempDir(), "surveys.sqlite")}
	db, err := database.Open(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st := store.New(db)
	return routes.Wire(app.App{Store: st, Config: cfg}), st
}

func getPath(t *testing.T, handler http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func postForm(t *testing.T, handler http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, dst any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), dst))
}

func createTestSurvey(t *testing.T, handler http.Handler) int64 {
	t.Helper()

	rec := postForm(t, handler, "/create", url.Values{
		"title":         {"Satisfaction"},
		"questions":     {"How satisfied are you?", "Anything else?"},
		"comments":      {"pick one", ""},
		"markdowns":     {"", ""},
		"likert_scales": {"Agree,Neutral,Disagree", ""},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var created struct {
		ID int64 `json:"id"`
	}
	decodeBody(t, rec, &created)
	require.NotZero(t, created.ID)
	return created.ID
}

func TestCreateSurvey(t *testing.T) {
	handler, _ := newTestServer(t)

	surveyID := createTestSurvey(t, handler)

	rec := getPath(t, handler, fmt.Sprintf("/survey/42/%d", surveyID))
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SessionID string       `json:"session_id"`
		Survey    model.Survey `json:"survey"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "42", body.SessionID)
	assert.Equal(t, "Satisfaction", body.Survey.Title)
	require.Len(t, body.Survey.Questions, 2)
	assert.Len(t, body.Survey.Questions[0].Scales, 3)
	assert.Empty(t, body.Survey.Questions[1].Scales)
}

func TestCreateSurveyEmptyTitle(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := postForm(t, handler, "/create", url.Values{
		"questions": {"Orphaned question"},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitAndParticipation(t *testing.T) {
	handler, st := newTestServer(t)

	surveyID := createTestSurvey(t, handler)
	survey, err := st.GetSurvey(context.Background(), surveyID)
	require.NoError(t, err)

	likert := survey.Questions[0]
	freeText := survey.Questions[1]

	rec := postForm(t, handler, fmt.Sprintf("/survey/42/%d", surveyID), url.Values{
		strconv.FormatInt(likert.ID, 10):   {strconv.FormatInt(likert.Scales[1].ID, 10)},
		strconv.FormatInt(freeText.ID, 10): {"all good"},
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var submitted struct {
		Recorded int `json:"recorded"`
	}
	decodeBody(t, rec, &submitted)
	assert.Equal(t, 2, submitted.Recorded)

	rec = getPath(t, handler, "/survey/42")
	require.Equal(t, http.StatusOK, rec.Code)

	var listing struct {
		SessionID    string         `json:"session_id"`
		Surveys      []model.Survey `json:"surveys"`
		Participated []int64        `json:"participated_survey_ids"`
	}
	decodeBody(t, rec, &listing)
	assert.Equal(t, "42", listing.SessionID)
	require.Len(t, listing.Surveys, 1)
	assert.Equal(t, []int64{surveyID}, listing.Participated)

	// a session with no responses has an empty participation set
	rec = getPath(t, handler, "/survey/99")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &listing)
	assert.Empty(t, listing.Participated)
}

func TestSubmitSurveyNotFound(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := postForm(t, handler, "/survey/42/999", url.Values{"1": {"x"}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEditSurvey(t *testing.T) {
	handler, _ := newTestServer(t)

	surveyID := createTestSurvey(t, handler)

	rec := getPath(t, handler, fmt.Sprintf("/survey/%d/edit", surveyID))
	require.Equal(t, http.StatusOK, rec.Code)

	var before model.Survey
	decodeBody(t, rec, &before)
	require.Len(t, before.Questions, 2)

	rec = postForm(t, handler, fmt.Sprintf("/survey/%d/edit", surveyID), url.Values{
		"title":         {"Renamed"},
		"questions":     {"Only one now"},
		"comments":      {""},
		"markdowns":     {""},
		"likert_scales": {""},
	})
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = getPath(t, handler, fmt.Sprintf("/survey/%d/edit", surveyID))
	require.Equal(t, http.StatusOK, rec.Code)

	var after model.Survey
	decodeBody(t, rec, &after)
	assert.Equal(t, "Renamed", after.Title)
	require.Len(t, after.Questions, 1)
	assert.Equal(t, "Only one now", after.Questions[0].Text)
}

func TestEditSurveyNotFound(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := postForm(t, handler, "/survey/999/edit", url.Values{
		"title":     {"Ghost"},
		"questions": {"Anyone?"},
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSurvey(t *testing.T) {
	handler, _ := newTestServer(t)

	surveyID := createTestSurvey(t, handler)

	rec := postForm(t, handler, fmt.Sprintf("/survey/%d/delete", surveyID), nil)
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = getPath(t, handler, fmt.Sprintf("/survey/42/%d", surveyID))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteSurveyRejectsGet(t *testing.T) {
	handler, _ := newTestServer(t)

	surveyID := createTestSurvey(t, handler)

	rec := getPath(t, handler, fmt.Sprintf("/survey/%d/delete", surveyID))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)

	// the GET did not delete anything
	rec = getPath(t, handler, fmt.Sprintf("/survey/42/%d", surveyID))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListSurveys(t *testing.T) {
	handler, _ := newTestServer(t)

	createTestSurvey(t, handler)
	createTestSurvey(t, handler)

	rec := getPath(t, handler, "/surveys")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Surveys []model.Survey `json:"surveys"`
	}
	decodeBody(t, rec, &body)
	assert.Len(t, body.Surveys, 2)
}

func TestStartSession(t *testing.T) {
	handler, _ := newTestServer(t)

	rec := postForm(t, handler, "/start", url.Values{"session_id": {"abc"}})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		SessionID string `json:"session_id"`
	}
	decodeBody(t, rec, &body)
	assert.Equal(t, "abc", body.SessionID)

	// a blank id gets minted server-side
	rec = postForm(t, handler, "/start", url.Values{"session_id": {""}})
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &body)
	assert.NotEmpty(t, body.SessionID)
}
