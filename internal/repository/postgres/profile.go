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

// PostgresProfileRepository implements the ProfileRepository interface.
// The custom attachment list is stored as jsonb.
type PostgresProfileRepository struct {
	pool   *pgxpool.Pool
	tables *TableNames
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(config *RepositoryConfig) repositories.ProfileRepository {
	return &PostgresProfileRepository{
		pool:   config.Pool,
		tables: config.Tables,
	}
}

const profileColumns = `user_id, structure_id, first_name, last_name, cv_url, identity_front_url, identity_back_url, rib_url, school_certificate_url, health_card_url, custom_attachments, updated_at`

func scanProfile(row interface{ Scan(...any) error }, p *models.StudentProfile) error {
	return row.Scan(
		&p.UserID,
		&p.StructureID,
		&p.FirstName,
		&p.LastName,
		&p.CVURL,
		&p.IdentityFrontURL,
		&p.IdentityBackURL,
		&p.RIBURL,
		&p.SchoolCertificateURL,
		&p.HealthCardURL,
		&p.CustomAttachments,
		&p.UpdatedAt,
	)
}

// ListByStructure returns every student profile of the structure
func (r *PostgresProfileRepository) ListByStructure(ctx context.Context, structureID string) ([]models.StudentProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE structure_id = $1
		ORDER BY last_name ASC
	`, profileColumns, r.tables.Profiles)

	rows, err := r.pool.Query(ctx, query, structureID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []models.StudentProfile
	for rows.Next() {
		var p models.StudentProfile
		if err := scanProfile(rows, &p); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}

// GetByUser retrieves one profile
func (r *PostgresProfileRepository) GetByUser(ctx context.Context, userID, structureID string) (*models.StudentProfile, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE user_id = $1 AND structure_id = $2
	`, profileColumns, r.tables.Profiles)

	var p models.StudentProfile
	if err := scanProfile(r.pool.QueryRow(ctx, query, userID, structureID), &p); err != nil {
		if isPgNoRowsError(err) {
			return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
		}
		return nil, fmt.Errorf("get profile: %w", err)
	}

	return &p, nil
}

// Update persists the attachment slots and the custom attachment list
func (r *PostgresProfileRepository) Update(ctx context.Context, profile *models.StudentProfile) error {
	profile.UpdatedAt = time.Now()

	query := fmt.Sprintf(`
		UPDATE %s
		SET cv_url = $1, identity_front_url = $2, identity_back_url = $3,
		    rib_url = $4, school_certificate_url = $5, health_card_url = $6,
		    custom_attachments = $7, updated_at = $8
		WHERE user_id = $9 AND structure_id = $10
	`, r.tables.Profiles)

	result, err := r.pool.Exec(ctx, query,
		profile.CVURL,
		profile.IdentityFrontURL,
		profile.IdentityBackURL,
		profile.RIBURL,
		profile.SchoolCertificateURL,
		profile.HealthCardURL,
		profile.CustomAttachments,
		profile.UpdatedAt,
		profile.UserID,
		profile.StructureID,
	)
	if err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", profile.UserID, domain.ErrNotFound)
	}

	return nil
}
