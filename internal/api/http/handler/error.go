package handler

import (
	"errors"
	"net/http"

	"github.com/keyfleet/sftp-provisioner/internal/model"
)

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Provision) writeError(w http.ResponseWriter, err error) {
	var dupUser *model.DuplicateUsernameError
	var dupKey *model.DuplicateKeyError

	switch {
	case errors.Is(err, model.ErrNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "not found"})
	case errors.As(err, &dupUser), errors.As(err, &dupKey):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error()})
	default:
		h.logger.Error("request failed", "error", err)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
	}
}
