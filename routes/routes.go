package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"

	"github.com/aarnt28/survey-response-Host/app"
)

var validate = validator.New()

func Wire(app app.App) http.Handler {
	root := chi.NewRouter()
	root.Use(middleware.Logger, middleware.Recoverer)

	root.Mount("/api", apiRouter(app))

	return root
}

func apiRouter(app app.App) http.Handler {
	api := chi.NewRouter()

	api.Route("/forms", func(r chi.Router) {
		r.Post("/", CreateForm(app))
		r.Get("/", ListForms(app))

		r.Route("/{slug}", func(r chi.Router) {
			r.Get("/", GetForm(app))
			r.Put("/", UpdateForm(app))
			r.Post("/archive", ArchiveForm(app))
			r.Get("/versions", ListFormVersions(app))

			r.Post("/responses", SubmitResponse(app))
			r.Get("/responses", ListResponses(app))
			r.Get(`/responses/{id:^\d+$}`, GetResponse(app))
			r.Post(`/responses/{id:^\d+$}/archive`, ArchiveResponse(app))
		})
	})

	return api
}
