package router

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/keyfleet/sftp-provisioner/internal/api/http/handler"
	"github.com/keyfleet/sftp-provisioner/internal/api/http/middleware"
	"github.com/keyfleet/sftp-provisioner/internal/logger"
	"github.com/keyfleet/sftp-provisioner/internal/token"
)

// Router wires the admin API handlers and middleware.
type Router struct {
	provisioner handler.Provisioner
	db          handler.Pinger
	tokens      token.Manager
	logger      *logger.Logger
}

// New creates a new Router instance.
func New(
	provisioner handler.Provisioner,
	db handler.Pinger,
	tokens token.Manager,
	logger *logger.Logger,
) *Router {
	return &Router{
		provisioner: provisioner,
		db:          db,
		tokens:      tokens,
		logger:      logger,
	}
}

// Register builds the route table. The health endpoint is open; everything
// under /api/v1 requires an admin bearer token.
func (r *Router) Register() http.Handler {
	h := handler.NewProvision(r.provisioner, r.db, r.logger)
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.tokens, r.logger)

	root := mux.NewRouter()
	root.Use(logging.Middleware)
	root.HandleFunc("/healthz", h.HealthHandler).Methods(http.MethodGet)

	api := root.PathPrefix("/api/v1").Subrouter()
	api.Use(authenticate.Middleware)
	api.HandleFunc("/plan", h.PlanHandler).Methods(http.MethodPost)
	api.HandleFunc("/apply", h.ApplyHandler).Methods(http.MethodPost)
	api.HandleFunc("/accounts", h.ListAccountsHandler).Methods(http.MethodGet)
	api.HandleFunc("/accounts/{username}/keys", h.ListAccountKeysHandler).Methods(http.MethodGet)

	return root
}
