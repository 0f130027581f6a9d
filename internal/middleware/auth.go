package middleware

import (
	"net/http"
	"strings"

	"dossier/internal/auth"
	"dossier/internal/domain/models"
	"dossier/internal/httputil"
)

// Auth validates the bearer token and stores the caller identity (user,
// role, structure) in the request context.
func Auth(verifier auth.JWTVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid token")
				return
			}

			caller := models.Caller{
				UserID:      claims.Subject,
				Role:        claims.Role,
				StructureID: claims.StructureID,
			}
			next.ServeHTTP(w, httputil.WithCaller(r, caller))
		})
	}
}
