package handler

import (
	"errors"
	"net/http"

	"dossier/internal/domain"
	"dossier/internal/httputil"
	"dossier/internal/service"
)

// handleError maps domain errors to HTTP responses. Messages stay short
// and classified; raw backend errors never leak to the client.
func handleError(w http.ResponseWriter, err error) {
	var httpErr domain.HTTPError
	if errors.As(err, &httpErr) {
		httputil.RespondError(w, httpErr.StatusCode(), httpErr.Error())
		return
	}

	switch {
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, "resource not found")
	case errors.Is(err, service.ErrSecondFactorRequired):
		httputil.RespondError(w, http.StatusForbidden, "second factor required")
	case errors.Is(err, domain.ErrForbidden):
		httputil.RespondError(w, http.StatusForbidden, "forbidden")
	case errors.Is(err, domain.ErrUnauthorized):
		httputil.RespondError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrConflict):
		httputil.RespondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrSlotUnmatched):
		httputil.RespondError(w, http.StatusUnprocessableEntity, "document matched no profile attachment")
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}
