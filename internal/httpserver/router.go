package httpserver

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"cipherlab/internal/auth"
	"cipherlab/internal/catalogue"
	"cipherlab/internal/demo"
	"cipherlab/internal/httpserver/handlers"
)

type Deps struct {
	Catalogue  *catalogue.Catalogue
	Registry   *demo.Registry
	Controller *demo.Controller
	Signer     *auth.Signer
	Logs       handlers.AuditReader
	Metrics    http.Handler
	Log        *zap.SugaredLogger
}

func NewRouter(d Deps) http.Handler {
	lg := d.Log
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, middleware.Recoverer, middleware.Logger)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}
	r.Get("/v1/algorithms", handlers.ListAlgorithms(d.Catalogue))
	r.Get("/v1/algorithms/{id}", handlers.GetAlgorithm(d.Catalogue, lg))
	r.Post("/v1/sessions", handlers.CreateSession(d.Catalogue, d.Registry, d.Signer, lg))
	r.Route("/v1/sessions/{id}", func(owned chi.Router) {
		owned.Use(auth.BearerAuth(d.Signer), auth.RequireOwner("id"))
		owned.Get("/", handlers.GetSession(d.Registry))
		owned.Delete("/", handlers.DeleteSession(d.Registry, lg))
		owned.Patch("/", handlers.EditSession(d.Registry, lg))
		owned.Post("/process", handlers.Process(d.Registry, d.Controller))
		owned.Post("/generate", handlers.Generate(d.Registry, d.Controller))
		owned.Post("/switch-mode", handlers.SwitchMode(d.Registry, d.Controller))
		owned.Post("/key-size", handlers.ChangeKeySize(d.Registry, d.Controller))
		if d.Logs != nil {
			owned.Get("/logs", handlers.SessionLogs(d.Logs, lg))
		}
	})
	return r
}
