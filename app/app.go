package app

import (
	"github.com/akirse/survey-sessions/config"
	"github.com/akirse/survey-sessions/store"
)

type App struct {
	*store.Store
	config.Config
}
