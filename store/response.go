package store

import (
	"context"
	"database/sql"
	"strconv"

	"github.com/pkg/errors"
)

// SubmitResponses records one submission for a session against a survey.
// Answers are keyed by question id. For a question with scale options the
// submitted value must be the id of one of that question's own options and
// the recorded answer is the option's label; a value that does not resolve
// is skipped without error. Questions without options record the value
// verbatim. The question's comment is snapshotted onto each response row.
// Returns the number of responses inserted.
func (s *Store) SubmitResponses(ctx context.Context, sessionID string, surveyID int64, answers map[int64]string) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "begin")
	}
	defer tx.Rollback()

	var one int
	err = tx.
		QueryRowContext(ctx, `SELECT 1 FROM survey WHERE id = ?`, surveyID).
		Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, errors.Wrap(err, "get survey")
	}

	questions, err := loadQuestionSet(ctx, tx, surveyID)
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO response (question_id, answer, comment, session_id)
		VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, errors.Wrap(err, "prepare response")
	}
	defer stmt.Close()

	inserted := 0
	for _, q := range questions {
		value := answers[q.id]
		if value == "" {
			continue
		}

		answer := value
		if len(q.options) > 0 {
			optionID, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				// not an option id: skip, the submission goes on
				continue
			}
			label, ok := q.options[optionID]
			if !ok {
				// option does not belong to this question: skip
				continue
			}
			answer = label
		}

		_, err = stmt.ExecContext(ctx, q.id, answer, q.comment, sessionID)
		if err != nil {
			return 0, errors.Wrap(err, "insert response")
		}
		inserted++
	}

	return inserted, errors.Wrap(tx.Commit(), "commit")
}

type answerableQuestion struct {
	id      int64
	comment string
	options map[int64]string
}

func loadQuestionSet(ctx context.Context, tx *sql.Tx, surveyID int64) ([]answerableQuestion, error) {
	rows, err := tx.QueryContext(ctx, `
		SELECT id, comment
		FROM question
		WHERE survey_id = ?
		ORDER BY id`,
		surveyID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get questions")
	}
	defer rows.Close()

	var questions []answerableQuestion
	byID := map[int64]int{}
	for rows.Next() {
		q := answerableQuestion{}
		err = rows.Scan(&q.id, &q.comment)
		if err != nil {
			return nil, errors.Wrap(err, "scan question")
		}
		byID[q.id] = len(questions)
		questions = append(questions, q)
	}
	if err = rows.Err(); err != nil {
		return nil, errors.Wrap(err, "get questions")
	}

	srows, err := tx.QueryContext(ctx, `
		SELECT l.id, l.question_id, l.scale_text
		FROM likert_scale l
		INNER JOIN question q ON (l.question_id = q.id)
		WHERE q.survey_id = ?`,
		surveyID,
	)
	if err != nil {
		return nil, errors.Wrap(err, "get scale options")
	}
	defer srows.Close()

	for srows.Next() {
		var id, questionID int64
		var label string
		err = srows.Scan(&id, &questionID, &label)
		if err != nil {
			return nil, errors.Wrap(err, "scan scale option")
		}
		if i, ok := byID[questionID]; ok {
			if questions[i].options == nil {
				questions[i].options = map[int64]string{}
			}
			questions[i].options[id] = label
		}
	}
	return questions, errors.Wrap(srows.Err(), "get scale options")
}
