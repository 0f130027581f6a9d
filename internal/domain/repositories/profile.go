package repositories

import (
	"context"

	"dossier/internal/domain/models"
)

// ProfileRepository reads and writes the per-user attachment fields that
// personal documents are synthesized from.
type ProfileRepository interface {
	// ListByStructure returns every student profile of the structure
	ListByStructure(ctx context.Context, structureID string) ([]models.StudentProfile, error)

	// GetByUser retrieves one profile
	GetByUser(ctx context.Context, userID, structureID string) (*models.StudentProfile, error)

	// Update persists the attachment slots and the custom attachment list
	Update(ctx context.Context, profile *models.StudentProfile) error
}
