package httputil

import (
	"context"
	"net/http"

	"dossier/internal/domain/models"
)

// Context key type to avoid collisions
type contextKey string

const callerKey contextKey = "caller"

// WithCaller adds the authenticated caller to the request context
func WithCaller(r *http.Request, caller models.Caller) *http.Request {
	ctx := context.WithValue(r.Context(), callerKey, caller)
	return r.WithContext(ctx)
}

// GetCaller retrieves the caller from context; zero value if unset
func GetCaller(r *http.Request) models.Caller {
	caller, _ := r.Context().Value(callerKey).(models.Caller)
	return caller
}
