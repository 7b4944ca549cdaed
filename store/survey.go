package store

import (
	"context"
	"database/sql"
	"strings"

	"github.com/pkg/errors"

	"github.com/akirse/survey-sessions/model"
)

// blankText stands in for question text when an entry carries only markdown,
// so the text column's non-empty constraint still holds.
const blankText = " "

// CreateSurvey persists a survey with its question set and returns the new
// survey id. Entries with neither text nor markdown are dropped; a non-empty
// likert CSV becomes one scale row per trimmed token, in the order given.
func (s *Store) CreateSurvey(ctx context.Context, title string, entries []model.QuestionEntry) (int64, error) {
	if strings.TrimSpace(title) == "" {
		return 0, ValidationError{Field: "title", Msg: "must not be empty"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	var surveyID int64
	err = tx.QueryRowContext(ctx, `
		INSERT INTO survey (title) VALUES (?)
		RETURNING id`,
		title,
	).Scan(&surveyID)
	if err != nil {
		return 0, errors.Wrap(err, "insert survey")
	}

	err = insertQuestions(ctx, tx, surveyID, entries)
	if err != nil {
		return 0, err
	}

	return surveyID, errors.Wrap(tx.Commit(), "commit")
}

// UpdateSurvey replaces a survey's title and its entire question set. The old
// questions, their scale options and their responses are deleted and the new
// set is inserted with the same policy as CreateSurvey. This is a full
// replace, not a merge.
func (s *Store) UpdateSurvey(ctx context.Context, surveyID int64, title string, entries []model.QuestionEntry) error {
	if strings.TrimSpace(title) == "" {
		return ValidationError{Field: "title", Msg: "must not be empty"}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		UPDATE survey SET title = ? WHERE id = ?`,
		title, surveyID,
	)
	if err != nil {
		return errors.Wrap(err, "update survey")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "update survey")
	}
	if n < 1 {
		return ErrNotFound
	}

	err = deleteQuestionSet(ctx, tx, surveyID)
	if err != nil {
		return err
	}
	err = insertQuestions(ctx, tx, surveyID, entries)
	if err != nil {
		return err
	}

	return errors.Wrap(tx.Commit(), "commit")
}

// DeleteSurvey removes a survey and everything hanging off it: responses,
// scale options, questions, then the survey row itself, all in one
// transaction.
func (s *Store) DeleteSurvey(ctx context.Context, surveyID int64) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	err = deleteQuestionSet(ctx, tx, surveyID)
	if err != nil {
		return err
	}

	res, err := tx.ExecContext(ctx, `DELETE FROM survey WHERE id = ?`, surveyID)
	if err != nil {
		return errors.Wrap(err, "delete survey")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "delete survey")
	}
	if n < 1 {
		return ErrNotFound
	}

	return errors.Wrap(tx.Commit(), "commit")
}

// GetSurvey loads a survey with its questions in creation order and each
// question's scale options, for taking or for the edit form.
func (s *Store) GetSurvey(ctx context.Context, surveyID int64) (model.Survey, error) {
	survey := model.Survey{ID: surveyID}
	err := s.db.
		QueryRowContext(ctx, `SELECT title FROM survey WHERE id = ?`, surveyID).
		Scan(&survey.Title)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Survey{}, ErrNotFound
	}
	if err != nil {
		return model.Survey{}, errors.Wrap(err, "get survey")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, markdown_text, comment
		FROM question
		WHERE survey_id = ?
		ORDER BY id`,
		surveyID,
	)
	if err != nil {
		return model.Survey{}, errors.Wrap(err, "get survey questions")
	}
	defer rows.Close()

	byID := map[int64]int{}
	for rows.Next() {
		q := model.Question{SurveyID: surveyID}
		err = rows.Scan(&q.ID, &q.Text, &q.MarkdownText, &q.Comment)
		if err != nil {
			return model.Survey{}, errors.Wrap(err, "scan question")
		}
		byID[q.ID] = len(survey.Questions)
		survey.Questions = append(survey.Questions, q)
	}
	if err = rows.Err(); err != nil {
		return model.Survey{}, errors.Wrap(err, "get survey questions")
	}

	srows, err := s.db.QueryContext(ctx, `
		SELECT l.id, l.question_id, l.scale_text
		FROM likert_scale l
		INNER JOIN question q ON (l.question_id = q.id)
		WHERE q.survey_id = ?
		ORDER BY l.question_id, l.id`,
		surveyID,
	)
	if err != nil {
		return model.Survey{}, errors.Wrap(err, "get scale options")
	}
	defer srows.Close()

	for srows.Next() {
		sc := model.LikertScale{}
		err = srows.Scan(&sc.ID, &sc.QuestionID, &sc.ScaleText)
		if err != nil {
			return model.Survey{}, errors.Wrap(err, "scan scale option")
		}
		if i, ok := byID[sc.QuestionID]; ok {
			survey.Questions[i].Scales = append(survey.Questions[i].Scales, sc)
		}
	}
	if err = srows.Err(); err != nil {
		return model.Survey{}, errors.Wrap(err, "get scale options")
	}

	return survey, nil
}

// ListSurveys returns every survey, without question sets.
func (s *Store) ListSurveys(ctx context.Context) ([]model.Survey, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, title FROM survey ORDER BY id`)
	if err != nil {
		return nil, errors.Wrap(err, "list surveys")
	}
	defer rows.Close()

	surveys := []model.Survey{}
	for rows.Next() {
		sv := model.Survey{}
		err = rows.Scan(&sv.ID, &sv.Title)
		if err != nil {
			return nil, errors.Wrap(err, "scan survey")
		}
		surveys = append(surveys, sv)
	}
	return surveys, errors.Wrap(rows.Err(), "list surveys")
}

func insertQuestions(ctx context.Context, tx *sql.Tx, surveyID int64, entries []model.QuestionEntry) error {
	qstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO question (survey_id, text, markdown_text, comment)
		VALUES (?, ?, ?, ?)
		RETURNING id`)
	if err != nil {
		return errors.Wrap(err, "prepare question")
	}
	defer qstmt.Close()

	lstmt, err := tx.PrepareContext(ctx, `
		INSERT INTO likert_scale (question_id, scale_text)
		VALUES (?, ?)`)
	if err != nil {
		return errors.Wrap(err, "prepare scale option")
	}
	defer lstmt.Close()

	for _, e := range entries {
		text := e.Text
		if text == "" {
			if e.MarkdownText == "" {
				// nothing to ask: drop the entry
				continue
			}
			text = blankText
		}

		var questionID int64
		err = qstmt.QueryRowContext(ctx, surveyID, text, e.MarkdownText, e.Comment).Scan(&questionID)
		if err != nil {
			return errors.Wrap(err, "insert question")
		}

		for _, label := range strings.Split(e.LikertCSV, ",") {
			label = strings.TrimSpace(label)
			if label == "" {
				continue
			}
			_, err = lstmt.ExecContext(ctx, questionID, label)
			if err != nil {
				return errors.Wrap(err, "insert scale option")
			}
		}
	}
	return nil
}

// deleteQuestionSet removes a survey's questions together with every row
// referencing them, children first so the foreign keys hold at each step.
func deleteQuestionSet(ctx context.Context, tx *sql.Tx, surveyID int64) error {
	_, err := tx.ExecContext(ctx, `
		DELETE FROM response
		WHERE question_id IN (SELECT id FROM question WHERE survey_id = ?)`,
		surveyID,
	)
	if err != nil {
		return errors.Wrap(err, "delete responses")
	}

	_, err = tx.ExecContext(ctx, `
		DELETE FROM likert_scale
		WHERE question_id IN (SELECT id FROM question WHERE survey_id = ?)`,
		surveyID,
	)
	if err != nil {
		return errors.Wrap(err, "delete scale options")
	}

	_, err = tx.ExecContext(ctx, `DELETE FROM question WHERE survey_id = ?`, surveyID)
	return errors.Wrap(err, "delete questions")
}
