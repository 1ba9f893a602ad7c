package app

import (
	"database/sql"

	"github.com/aarnt28/survey-response-Host/config"
)

type App struct {
	*sql.DB
	config.Config
}
