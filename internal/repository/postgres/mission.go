package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"dossier/internal/domain"
	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// PostgresMissionRepository implements the MissionRepository interface
type PostgresMissionRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewMissionRepository creates a new mission repository
func NewMissionRepository(config *RepositoryConfig) repositories.MissionRepository {
	return &PostgresMissionRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const missionColumns = `id, number, description, company, folder_color, structure_id, created_at`

func scanMission(row interface{ Scan(...any) error }, m *models.Mission) error {
	return row.Scan(
		&m.ID,
		&m.Number,
		&m.Description,
		&m.Company,
		&m.FolderColor,
		&m.StructureID,
		&m.CreatedAt,
	)
}

// ListByStructure returns the structure's missions, newest first
func (r *PostgresMissionRepository) ListByStructure(ctx context.Context, structureID string) ([]models.Mission, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE structure_id = $1
		ORDER BY created_at DESC
	`, missionColumns, r.tables.Missions)

	rows, err := r.pool.Query(ctx, query, structureID)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	defer rows.Close()

	var missions []models.Mission
	for rows.Next() {
		var m models.Mission
		if err := scanMission(rows, &m); err != nil {
			return nil, fmt.Errorf("scan mission: %w", err)
		}
		missions = append(missions, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate missions: %w", err)
	}

	return missions, nil
}

// GetByID retrieves a mission by ID
func (r *PostgresMissionRepository) GetByID(ctx context.Context, id, structureID string) (*models.Mission, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND structure_id = $2
	`, missionColumns, r.tables.Missions)

	var m models.Mission
	if err := scanMission(r.pool.QueryRow(ctx, query, id, structureID), &m); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("mission %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get mission: %w", err)
	}

	return &m, nil
}

// SetFolderColor stores the user-assigned color on the mission record
func (r *PostgresMissionRepository) SetFolderColor(ctx context.Context, id, structureID, color string) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET folder_color = $1
		WHERE id = $2 AND structure_id = $3
	`, r.tables.Missions)

	result, err := r.pool.Exec(ctx, query, color, id, structureID)
	if err != nil {
		return fmt.Errorf("set mission color: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("mission %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
