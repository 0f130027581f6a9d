package repositories

import (
	"context"

	"dossier/internal/domain/models"
)

// FolderRepository defines data access for persisted folder rows. Virtual
// folders (missions root, missions, student docs root) never appear here.
type FolderRepository interface {
	// Create creates a new folder
	Create(ctx context.Context, folder *models.Folder) error

	// GetByID retrieves a folder by ID
	GetByID(ctx context.Context, id, structureID string) (*models.Folder, error)

	// Update persists name, parent and color changes
	Update(ctx context.Context, folder *models.Folder) error

	// Delete removes only the folder row; children are not cascaded
	Delete(ctx context.Context, id, structureID string) error

	// ListChildren lists immediate child folders (nil parent = root level)
	ListChildren(ctx context.Context, parentID *string, structureID string) ([]models.Folder, error)
}
