package repositories

import (
	"context"

	"dossier/internal/domain/models"
)

// MissionRepository reads and annotates the external work-order records the
// namespace projects into virtual folders.
type MissionRepository interface {
	// ListByStructure returns the structure's missions, newest first
	ListByStructure(ctx context.Context, structureID string) ([]models.Mission, error)

	// GetByID retrieves a mission by ID
	GetByID(ctx context.Context, id, structureID string) (*models.Mission, error)

	// SetFolderColor stores the user-assigned color on the mission record
	SetFolderColor(ctx context.Context, id, structureID, color string) error
}

// ArtifactRepository is read-only access to generated files attached to
// missions by the document-generation pipeline.
type ArtifactRepository interface {
	// ListByMission returns the artifacts generated for one mission
	ListByMission(ctx context.Context, missionID string) ([]models.Artifact, error)

	// ListByStructure returns every artifact of the structure's missions
	ListByStructure(ctx context.Context, structureID string) ([]models.Artifact, error)
}
