package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// PostgresArtifactRepository implements the read-only ArtifactRepository
// over the generation pipeline's output table.
type PostgresArtifactRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewArtifactRepository creates a new artifact repository
func NewArtifactRepository(config *RepositoryConfig) repositories.ArtifactRepository {
	return &PostgresArtifactRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const artifactColumns = `id, mission_id, file_name, file_size, file_url, created_at`

// ListByMission returns the artifacts generated for one mission
func (r *PostgresArtifactRepository) ListByMission(ctx context.Context, missionID string) ([]models.Artifact, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE mission_id = $1
		ORDER BY created_at DESC
	`, artifactColumns, r.tables.Artifacts)

	rows, err := r.pool.Query(ctx, query, missionID)
	if err != nil {
		return nil, fmt.Errorf("list artifacts: %w", err)
	}
	defer rows.Close()

	return collectArtifacts(rows)
}

// ListByStructure returns every artifact of the structure's missions
func (r *PostgresArtifactRepository) ListByStructure(ctx context.Context, structureID string) ([]models.Artifact, error) {
	query := fmt.Sprintf(`
		SELECT a.id, a.mission_id, a.file_name, a.file_size, a.file_url, a.created_at
		FROM %s a
		JOIN %s m ON m.id = a.mission_id
		WHERE m.structure_id = $1
	`, r.tables.Artifacts, r.tables.Missions)

	rows, err := r.pool.Query(ctx, query, structureID)
	if err != nil {
		return nil, fmt.Errorf("list structure artifacts: %w", err)
	}
	defer rows.Close()

	return collectArtifacts(rows)
}

func collectArtifacts(rows pgx.Rows) ([]models.Artifact, error) {
	var artifacts []models.Artifact
	for rows.Next() {
		var a models.Artifact
		if err := rows.Scan(
			&a.ID,
			&a.MissionID,
			&a.FileName,
			&a.FileSize,
			&a.FileURL,
			&a.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan artifact: %w", err)
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}
