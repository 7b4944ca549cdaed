package store

import (
	"context"

	"github.com/pkg/errors"

	"github.com/akirse/survey-sessions/model"
)

// ListSurveysWithParticipation returns every survey together with the set of
// survey ids the given session has at least one response in. The session id
// is taken as-is; an unknown id just yields an empty participation set.
func (s *Store) ListSurveysWithParticipation(ctx context.Context, sessionID string) ([]model.Survey, map[int64]bool, error) {
	surveys, err := s.ListSurveys(ctx)
	if err != nil {
		return nil, nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT q.survey_id
		FROM response r
		INNER JOIN question q ON (r.question_id = q.id)
		WHERE r.session_id = ?`,
		sessionID,
	)
	if err != nil {
		return nil, nil, errors.Wrap(err, "get participation")
	}
	defer rows.Close()

	participated := map[int64]bool{}
	for rows.Next() {
		var surveyID int64
		err = rows.Scan(&surveyID)
		if err != nil {
			return nil, nil, errors.Wrap(err, "scan participation")
		}
		participated[surveyID] = true
	}
	if err = rows.Err(); err != nil {
		return nil, nil, errors.Wrap(err, "get participation")
	}

	return surveys, participated, nil
}
