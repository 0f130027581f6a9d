package repositories

import (
	"context"

	"dossier/internal/domain/models"
)

// DocumentRepository defines data access for persisted document rows.
// Ordinary uploads create rows through an external collaborator; this side
// only reads and mutates them.
type DocumentRepository interface {
	// Query returns the documents matching the filter, ordered by sort when
	// sort is non-nil. Implementations return domain.ErrIndexUnavailable
	// (wrapped) when the backing store cannot serve the compound
	// filter+sort path; callers go through the resilient query layer,
	// which owns the fallback chain.
	Query(ctx context.Context, filter DocumentFilter, sort *Sort) ([]models.Document, error)

	// ListAll returns every document of the structure with no filter and no
	// ordering guarantee. This is the full-scan fallback path.
	ListAll(ctx context.Context, structureID string) ([]models.Document, error)

	// GetByID retrieves a document by ID
	GetByID(ctx context.Context, id, structureID string) (*models.Document, error)

	// Update persists the mutable fields (name, attachment, pinned)
	Update(ctx context.Context, doc *models.Document) error

	// Delete removes the document row; domain.ErrNotFound when already gone
	Delete(ctx context.Context, id, structureID string) error
}
