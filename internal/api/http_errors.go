package api

import (
	"errors"
	"net/http"

	"github.com/hugo-lorenzo-mato/council-ai/internal/core"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorResponse{Error: message})
}

// respondDomainError maps domain error categories onto HTTP statuses.
func respondDomainError(w http.ResponseWriter, err error) {
	var domErr *core.DomainError
	if !errors.As(err, &domErr) || domErr == nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}

	status := http.StatusInternalServerError
	switch domErr.Category {
	case core.ErrCatValidation:
		status = http.StatusUnprocessableEntity
	case core.ErrCatNotFound:
		status = http.StatusNotFound
	case core.ErrCatTimeout:
		status = http.StatusGatewayTimeout
	case core.ErrCatGeneration, core.ErrCatTool, core.ErrCatState:
		status = http.StatusBadGateway
	}
	respondJSON(w, status, errorResponse{Error: domErr.Message, Code: domErr.Code})
}
