package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// StartSession records an ad-hoc respondent session and returns its id. A
// blank id gets a freshly minted one. Session rows are informational only:
// nothing ever checks a submission's session id against them.
func (s *Store) StartSession(ctx context.Context, id, name string) (string, error) {
	if id == "" {
		id = uuid.NewString()
	}
	if name == "" {
		name = id
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT OR IGNORE INTO session (id, name) VALUES (?, ?)`,
		id, name,
	)
	return id, errors.Wrap(err, "insert session")
}
