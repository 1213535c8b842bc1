package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/keyfleet/sftp-provisioner/internal/logger"
	"github.com/keyfleet/sftp-provisioner/internal/manifest"
	"github.com/keyfleet/sftp-provisioner/internal/model"
)

// Provisioner is the service surface the handlers need.
type Provisioner interface {
	Plan(ctx context.Context, users []model.UserSpec) (model.Plan, error)
	Reconcile(ctx context.Context, users []model.UserSpec) (model.Plan, error)
	Accounts(ctx context.Context) ([]model.Account, error)
	AccountKeys(ctx context.Context, username string) ([]model.Credential, error)
}

// Pinger reports database liveness for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Provision serves the admin API endpoints.
type Provision struct {
	provisioner Provisioner
	db          Pinger
	logger      *logger.Logger
}

// NewProvision creates a Provision handler.
func NewProvision(provisioner Provisioner, db Pinger, logger *logger.Logger) *Provision {
	return &Provision{
		provisioner: provisioner,
		db:          db,
		logger:      logger,
	}
}

type usersRequest struct {
	Users []model.UserSpec `json:"users"`
}

type accountResponse struct {
	Username  string    `json:"username"`
	HomeDir   string    `json:"home_dir"`
	CreatedAt time.Time `json:"created_at"`
}

type credentialResponse struct {
	CompositeID string    `json:"composite_id"`
	Username    string    `json:"username"`
	PublicKey   string    `json:"public_key"`
	Fingerprint string    `json:"fingerprint"`
	KeyIndex    int       `json:"key_index"`
	CreatedAt   time.Time `json:"created_at"`
}

// PlanHandler computes and returns the plan for the submitted users
// without applying it.
func (h *Provision) PlanHandler(w http.ResponseWriter, r *http.Request) {
	users, ok := h.decodeUsers(w, r)
	if !ok {
		return
	}

	plan, err := h.provisioner.Plan(r.Context(), users)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, plan)
}

// ApplyHandler plans and applies the submitted users, returning the plan
// that was executed.
func (h *Provision) ApplyHandler(w http.ResponseWriter, r *http.Request) {
	users, ok := h.decodeUsers(w, r)
	if !ok {
		return
	}

	plan, err := h.provisioner.Reconcile(r.Context(), users)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, plan)
}

// ListAccountsHandler returns all live accounts.
func (h *Provision) ListAccountsHandler(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.provisioner.Accounts(r.Context())
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, accountResponse{
			Username:  a.Username,
			HomeDir:   a.HomeDir,
			CreatedAt: a.CreatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, out)
}

// ListAccountKeysHandler returns the live credentials of one account.
func (h *Provision) ListAccountKeysHandler(w http.ResponseWriter, r *http.Request) {
	username := mux.Vars(r)["username"]

	credentials, err := h.provisioner.AccountKeys(r.Context(), username)
	if err != nil {
		h.writeError(w, err)
		return
	}

	out := make([]credentialResponse, 0, len(credentials))
	for _, c := range credentials {
		out = append(out, credentialResponse{
			CompositeID: c.CompositeID,
			Username:    c.Username,
			PublicKey:   c.PublicKey,
			Fingerprint: c.Fingerprint,
			KeyIndex:    c.KeyIndex,
			CreatedAt:   c.CreatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, out)
}

// HealthHandler pings the database.
func (h *Provision) HealthHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.logger.Error("health check failed", "error", err)
		h.writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Provision) decodeUsers(w http.ResponseWriter, r *http.Request) ([]model.UserSpec, bool) {
	var req usersRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return nil, false
	}

	if err := manifest.Validate(req.Users); err != nil {
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
		return nil, false
	}

	return req.Users, true
}

func (h *Provision) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}
