package postgres

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"dossier/internal/domain"
	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// PostgresDocumentRepository implements the DocumentRepository interface
type PostgresDocumentRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewDocumentRepository creates a new document repository
func NewDocumentRepository(config *RepositoryConfig) repositories.DocumentRepository {
	return &PostgresDocumentRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const documentColumns = `id, structure_id, name, size, mime_type, url, storage_path, parent_id, mission_id, owner_id, restricted, allowed_roles, pinned, created_at`

func scanDocument(row interface{ Scan(...any) error }, doc *models.Document) error {
	return row.Scan(
		&doc.ID,
		&doc.StructureID,
		&doc.Name,
		&doc.Size,
		&doc.MimeType,
		&doc.URL,
		&doc.StoragePath,
		&doc.ParentID,
		&doc.MissionID,
		&doc.OwnerID,
		&doc.Restricted,
		&doc.AllowedRoles,
		&doc.Pinned,
		&doc.CreatedAt,
	)
}

// buildFilter renders the filter into a WHERE clause and its arguments.
func buildFilter(filter repositories.DocumentFilter) (string, []any) {
	conds := []string{"structure_id = $1"}
	args := []any{filter.StructureID}

	next := func() string { return "$" + strconv.Itoa(len(args)+1) }

	switch {
	case filter.ParentID != nil:
		conds = append(conds, "parent_id = "+next())
		args = append(args, *filter.ParentID)
	case filter.NullParent:
		conds = append(conds, "parent_id IS NULL")
	}

	switch {
	case filter.MissionID != nil:
		conds = append(conds, "mission_id = "+next())
		args = append(args, *filter.MissionID)
	case filter.NullMission:
		conds = append(conds, "mission_id IS NULL")
	case filter.AnyMission:
		conds = append(conds, "mission_id IS NOT NULL")
	}

	return strings.Join(conds, " AND "), args
}

// Query returns the documents matching the filter. A wrapped
// domain.ErrIndexUnavailable is returned when the store refuses the
// compound filter+sort path; the resilient query layer owns the fallback.
func (r *PostgresDocumentRepository) Query(ctx context.Context, filter repositories.DocumentFilter, sort *repositories.Sort) ([]models.Document, error) {
	where, args := buildFilter(filter)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s`, documentColumns, r.tables.Documents, where)
	if sort != nil {
		dir := "ASC"
		if sort.Desc {
			dir = "DESC"
		}
		query += fmt.Sprintf(" ORDER BY %s %s", sort.Field, dir)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		if isPgIndexUnavailableError(err) {
			return nil, fmt.Errorf("query documents: %w", domain.ErrIndexUnavailable)
		}
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

// ListAll returns every document of the structure, no ordering guarantee.
func (r *PostgresDocumentRepository) ListAll(ctx context.Context, structureID string) ([]models.Document, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE structure_id = $1`, documentColumns, r.tables.Documents)

	rows, err := r.pool.Query(ctx, query, structureID)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	return collectDocuments(rows)
}

func collectDocuments(rows interface {
	Next() bool
	Scan(...any) error
	Err() error
}) ([]models.Document, error) {
	var docs []models.Document
	for rows.Next() {
		var doc models.Document
		if err := scanDocument(rows, &doc); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

// GetByID retrieves a document by ID
func (r *PostgresDocumentRepository) GetByID(ctx context.Context, id, structureID string) (*models.Document, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE id = $1 AND structure_id = $2
	`, documentColumns, r.tables.Documents)

	var doc models.Document
	if err := scanDocument(r.pool.QueryRow(ctx, query, id, structureID), &doc); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get document: %w", err)
	}

	return &doc, nil
}

// Update persists the mutable fields (name, attachment, pinned)
func (r *PostgresDocumentRepository) Update(ctx context.Context, doc *models.Document) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET name = $1, parent_id = $2, mission_id = $3, pinned = $4
		WHERE id = $5 AND structure_id = $6
	`, r.tables.Documents)

	result, err := r.pool.Exec(ctx, query,
		doc.Name,
		doc.ParentID,
		doc.MissionID,
		doc.Pinned,
		doc.ID,
		doc.StructureID,
	)
	if err != nil {
		return fmt.Errorf("update document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}

	return nil
}

// Delete removes the document row
func (r *PostgresDocumentRepository) Delete(ctx context.Context, id, structureID string) error {
	query := fmt.Sprintf(`
		DELETE FROM %s
		WHERE id = $1 AND structure_id = $2
	`, r.tables.Documents)

	result, err := r.pool.Exec(ctx, query, id, structureID)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}

	return nil
}
