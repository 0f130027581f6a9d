package auth

import (
	"dossier/internal/domain/models"
)

// JWTVerifier validates bearer tokens and extracts claims.
type JWTVerifier interface {
	// VerifyToken validates a JWT and returns its claims
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases background resources (JWKS refresh)
	Close()
}
