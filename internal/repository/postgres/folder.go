package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"dossier/internal/domain"
	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// PostgresFolderRepository implements the FolderRepository interface
type PostgresFolderRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewFolderRepository creates a new folder repository
func NewFolderRepository(config *RepositoryConfig) repositories.FolderRepository {
	return &PostgresFolderRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const folderColumns = `id, structure_id, parent_id, name, owner_id, restricted, allowed_roles, color, created_at, updated_at`

func scanFolder(row interface{ Scan(...any) error }, folder *models.Folder) error {
	if err := row.Scan(
		&folder.ID,
		&folder.StructureID,
		&folder.ParentID,
		&folder.Name,
		&folder.OwnerID,
		&folder.Restricted,
		&folder.AllowedRoles,
		&folder.Color,
		&folder.CreatedAt,
		&folder.UpdatedAt,
	); err != nil {
		return err
	}
	folder.Kind = models.FolderPersisted
	return nil
}

// Create creates a new folder
func (r *PostgresFolderRepository) Create(ctx context.Context, folder *models.Folder) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, structure_id, parent_id, name, owner_id, restricted, allowed_roles, color, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, r.tables.Folders)

	_, err := r.pool.Exec(ctx, query,
		folder.ID,
		folder.StructureID,
		folder.ParentID,
		folder.Name,
		folder.OwnerID,
		folder.Restricted,
		folder.AllowedRoles,
		folder.Color,
		folder.CreatedAt,
	)
	if err != nil {
		if isPgDuplicateError(err) {
			return fmt.Errorf("folder '%s': %w", folder.Name, domain.ErrConflict)
		}
		return fmt.Errorf("create folder: %w", err)
	}

	return nil
}

// GetByID retrieves a folder by ID
func (r *PostgresFolderRepository) GetByID(ctx context.Context, id, structureID string) (*models.Folder, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND structure_id = $2
	`, folderColumns, r.tables.Folders)

	var folder models.Folder
	if err := scanFolder(r.pool.QueryRow(ctx, query, id, structureID), &folder); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get folder: %w", err)
	}

	return &folder, nil
}

// Update persists name, parent and color changes
func (r *PostgresFolderRepository) Update(ctx context.Context, folder *models.Folder) error {
	now := time.Now()
	folder.UpdatedAt = &now

	query := fmt.Sprintf(`
		UPDATE %s
		SET parent_id = $1, name = $2, color = $3, restricted = $4, allowed_roles = $5, updated_at = $6
		WHERE id = $7 AND structure_id = $8
	`, r.tables.Folders)

	result, err := r.pool.Exec(ctx, query,
		folder.ParentID,
		folder.Name,
		folder.Color,
		folder.Restricted,
		folder.AllowedRoles,
		folder.UpdatedAt,
		folder.ID,
		folder.StructureID,
	)
	if err != nil {
		return fmt.Errorf("update folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes only the folder row. Children keep their parent_id and
// become unreachable through listings; see the mutation service.
func (r *PostgresFolderRepository) Delete(ctx context.Context, id, structureID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND structure_id = $2
	`, r.tables.Folders)

	result, err := r.pool.Exec(ctx, query, id, structureID)
	if err != nil {
		return fmt.Errorf("delete folder: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}

	return nil
}

// ListChildren lists immediate child folders
func (r *PostgresFolderRepository) ListChildren(ctx context.Context, parentID *string, structureID string) ([]models.Folder, error) {
	var query string
	var args []any

	if parentID == nil {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE structure_id = $1 AND parent_id IS NULL
			ORDER BY created_at DESC
		`, folderColumns, r.tables.Folders)
		args = append(args, structureID)
	} else {
		query = fmt.Sprintf(`
			SELECT %s
			FROM %s
			WHERE structure_id = $1 AND parent_id = $2
			ORDER BY created_at DESC
		`, folderColumns, r.tables.Folders)
		args = append(args, structureID, *parentID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list folder children: %w", err)
	}
	defer rows.Close()

	var folders []models.Folder
	for rows.Next() {
		var folder models.Folder
		if err := scanFolder(rows, &folder); err != nil {
			return nil, fmt.Errorf("scan folder: %w", err)
		}
		folders = append(folders, folder)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate folders: %w", err)
	}

	return folders, nil
}
