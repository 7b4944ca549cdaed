package store_test

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/akirse/survey-sessions/config"
	"github.com/akirse/survey-sessions/database"
	"github.com/akirse/survey-sessions/model"
	"github.com/akirse/survey-sessions/store"
)

func newTestStore(t *testing.T) (*store.Store, *sql.DB) {
	t.Helper()

	db, err := database.Open(config.Config{DBUrl: filepath.Join(t.TempDir(), "surveys.sqlite")})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return store.New(db), db
}

func countRows(t *testing.T, db *sql.DB, table string) int {
	t.Helper()

	var n int
	err := db.QueryRow(`SELECT count(*) FROM ` + table).Scan(&n)
	require.NoError(t, err)
	return n
}

func likertEntry(text, csv string) model.QuestionEntry {
	return model.QuestionEntry{Text: text, LikertCSV: csv}
}

func freeTextEntry(text string) model.QuestionEntry {
	return model.QuestionEntry{Text: text}
}
