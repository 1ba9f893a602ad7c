package httpx

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/aarnt28/survey-response-Host/log"
	"github.com/aarnt28/survey-response-Host/survey"
)

// Will log an error, and send an HTTP response with status 500 and default text
func LogInternalError(w http.ResponseWriter, code string, err error) {
	log.Errorf("%s: %s", code, err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

// Will log an error code at the given level, and send
// an HTTP response with status and default text
func LogStatus(w http.ResponseWriter, status int, level log.Level, code string) {
	log.Log(level, code)
	http.Error(w, http.StatusText(status), status)
}

// Will log an error code and message at the given level,
// and send an HTTP response with the given status and formatted message
func LogStatusMsg(w http.ResponseWriter, status int, level log.Level, code string, msg string, args ...any) {
	errMsg := fmt.Sprintf(msg, args...)
	log.Log(level, code+":", errMsg)
	http.Error(w, errMsg, status)
}

// LogUserError logs a caller-correctable failure at debug level and sends its
// message with the status matching the survey error taxonomy.
func LogUserError(w http.ResponseWriter, code string, err error) {
	status := http.StatusBadRequest
	switch {
	case errors.Is(err, survey.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, survey.ErrDuplicateSlug),
		errors.Is(err, survey.ErrFormArchived),
		errors.Is(err, survey.ErrVersionConflict):
		status = http.StatusConflict
	}
	log.Debugf("%s: %s", code, err)
	http.Error(w, err.Error(), status)
}
