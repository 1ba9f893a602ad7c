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

func CreateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := model.FormSpec{}
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

		form, err := survey.CreateForm(r.Context(), tx, spec)
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "form.create", err)
			} else {
				httpx.LogInternalError(w, "db.insert_form", err)
			}
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.insert_form.commit", err)
			return
		}

		w.WriteHeader(http.StatusCreated)
		render.JSON(w, r, form)
	}
}

func ListForms(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		includeArchived, _ := strconv.ParseBool(r.URL.Query().Get("include_archived"))

		forms, err := survey.ListForms(r.Context(), app.DB, includeArchived)
		if err != nil {
			httpx.LogInternalError(w, "db.get_forms", err)
			return
		}

		render.JSON(w, r, map[string]any{
			"forms": forms,
		})
	}
}

func GetForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		form, err := survey.GetForm(r.Context(), app.DB, chi.URLParam(r, "slug"))
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "form.get", err)
			} else {
				httpx.LogInternalError(w, "db.get_form", err)
			}
			return
		}

		render.JSON(w, r, form)
	}
}

func UpdateForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		spec := model.FormUpdate{}
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

		form, err := survey.UpdateForm(r.Context(), tx, chi.URLParam(r, "slug"), spec)
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "form.update", err)
			} else {
				httpx.LogInternalError(w, "db.update_form", err)
			}
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.update_form.commit", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func ArchiveForm(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		action := model.ArchiveAction{}
		err := render.DecodeJSON(r.Body, &action)
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

		form, err := survey.SetFormArchived(r.Context(), tx, chi.URLParam(r, "slug"), action.Archived)
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "form.archive", err)
			} else {
				httpx.LogInternalError(w, "db.archive_form", err)
			}
			return
		}

		if err := tx.Commit(); err != nil {
			httpx.LogInternalError(w, "db.archive_form.commit", err)
			return
		}

		render.JSON(w, r, form)
	}
}

func ListFormVersions(app app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		versions, err := survey.ListFormVersions(r.Context(), app.DB, chi.URLParam(r, "slug"))
		if err != nil {
			if survey.IsUserError(err) {
				httpx.LogUserError(w, "form.versions", err)
			} else {
				httpx.LogInternalError(w, "db.get_form_versions", err)
			}
			return
		}

		render.JSON(w, r, map[string]any{
			"versions": versions,
		})
	}
}
