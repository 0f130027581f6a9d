package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dossier/internal/domain"
	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// Colors assigns a user-chosen color label to any folder-like node. Three
// storage strategies, by node kind: virtual roots have no backing row and
// persist into the keyed side-table; mission folders persist onto the
// mission record's folder_color attribute; persisted folders carry their
// own color column. Mission and folder writes read the primary record
// first: a vanished record is NotFound, not an upsert.
type Colors struct {
	folderRepo  repositories.FolderRepository
	missionRepo repositories.MissionRepository
	sideTable   repositories.ColorSideTable
	logger      *slog.Logger
}

// NewColors creates a new color registry
func NewColors(
	folderRepo repositories.FolderRepository,
	missionRepo repositories.MissionRepository,
	sideTable repositories.ColorSideTable,
	logger *slog.Logger,
) *Colors {
	return &Colors{
		folderRepo:  folderRepo,
		missionRepo: missionRepo,
		sideTable:   sideTable,
		logger:      logger,
	}
}

var colorRule = validation.Match(regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)).
	Error("color must be a #rrggbb value")

// SetColor stores the color for the node. Empty clears it.
func (s *Colors) SetColor(ctx context.Context, kind models.FolderKind, nodeID, color string, caller models.Caller) error {
	if color != "" {
		if err := validation.Validate(color, colorRule); err != nil {
			return fmt.Errorf("%w: %v", domain.ErrValidation, err)
		}
	}

	switch kind {
	case models.FolderMissionsRoot, models.FolderStudentDocsRoot:
		// Only the two well-known roots live in the side-table; any other
		// claimed ID would accumulate entries for nodes that don't exist.
		if nodeID != models.MissionsRootID && nodeID != models.StudentDocsRootID {
			return fmt.Errorf("%w: %q is not a virtual root", domain.ErrValidation, nodeID)
		}
		if err := s.sideTable.Set(ctx, caller.StructureID, nodeID, color); err != nil {
			return err
		}

	case models.FolderMission:
		if _, err := s.missionRepo.GetByID(ctx, nodeID, caller.StructureID); err != nil {
			return err
		}
		if err := s.missionRepo.SetFolderColor(ctx, nodeID, caller.StructureID, color); err != nil {
			return err
		}

	case models.FolderPersisted:
		folder, err := s.folderRepo.GetByID(ctx, nodeID, caller.StructureID)
		if err != nil {
			return err
		}
		folder.Color = color
		if err := s.folderRepo.Update(ctx, folder); err != nil {
			return err
		}

	default:
		return fmt.Errorf("%w: unknown node kind %q", domain.ErrValidation, kind)
	}

	s.logger.Info("color set", "node_id", nodeID, "kind", string(kind), "color", color)
	return nil
}
