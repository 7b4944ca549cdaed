package store

import (
	"errors"
	"fmt"
)

// ErrNotFound reports that a survey id did not resolve to a persisted row.
var ErrNotFound = errors.New("not found")

type ValidationError struct {
	Field string
	Msg   string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Msg)
}
