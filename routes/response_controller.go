package routes

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/aarnt28/survey-response-Host/app"
	"github.com/aarnt28/survey-response-Host/httpx"
	"github.com/aarnt28/survey-response-Host/log"
	"github.com/aarnt28/survey-response-Host/model"
	"github.com/aarnt28/survey-response-Host/survey"
)

func SubmitResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := model.ResponseSpec{}
		err := render.DecodeJSON(r.Body, &spec)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}
		if err := validate.Struct(spec); err != nil {
			httpx.LogStatusMsg(w, http.StatusBadRequest, log.DebugLevel, "request.validate_body", "%s", err)
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		group, err := survey.SubmitResponse(r.Context(), tx, chi.URLParam(r, "slug"), spec)
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "response.submit", err)
			} else {
				httpx.LogInternalError(w, "db.insert_response", err)
			}
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.insert_response.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, group)
	}
}

func ListResponses(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))

		groups, err := survey.ListResponses(r.Context(), app.DB, chi.URLParam(r, "slug"), includeArchived)
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "response.list", err)
			} else {
				httpx.LogInternalError(w, "db.get_responses", err)
			}
			return
		}

		render.JSON(w, r, map[string]any{
			"responses": groups,
		})
	}
}

func GetResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		group, err := survey.GetResponse(r.Context(), app.DB, chi.URLParam(r, "slug"), id)
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "response.get", err)
			} else {
				httpx.LogInternalError(w, "db.get_response", err)
			}
			return
		}

		render.JSON(w, r, group)
	}
}

func ArchiveResponse(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(chi.URLParam(r, "id"))
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.get_url_param.id")
			return
		}

		action := model.ArchiveAction{}
		err = render.DecodeJSON(r.Body, &action)
		if err != nil {
			httpx.LogStatus(w, http.StatusBadRequest, log.DebugLevel, "request.parse_body")
			return
		}

		tx, err := app.BeginTx(r.Context(), nil)
		if err != nil {
			httpx.LogInternalError(w, "db.begin_tx", err)
			return
		}
		defer tx.Rollback()

		group, err := survey.SetResponseArchived(r.Context(), tx, chi.URLParam(r, "slug"), id, action.Archived)
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "response.archive", err)
			} else {
				httpx.LogInternalError(w, "db.archive_response", err)
			}
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.archive_response.commit", err)
			return
		}

		render.JSON(w, r, group)
	}
}
