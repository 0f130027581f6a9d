package service

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"dossier/internal/config"
	"dossier/internal/domain"
	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// Folders is the mutation service for persisted folders.
type Folders struct {
	folderRepo repositories.FolderRepository
	guard      *AccessGuard
	logger     *slog.Logger
}

// NewFolders creates a new folder mutation service
func NewFolders(folderRepo repositories.FolderRepository, guard *AccessGuard, logger *slog.Logger) *Folders {
	return &Folders{folderRepo: folderRepo, guard: guard, logger: logger}
}

// CreateFolderRequest is the input for folder creation.
type CreateFolderRequest struct {
	ParentID *string `json:"parent_id,omitempty"`
	Name     string  `json:"name"`
}

var folderNameRule = validation.Match(regexp.MustCompile(`^[^/]+$`)).
	Error("folder name cannot contain slashes")

// CreateFolder creates a new folder under the given parent (nil = root).
func (s *Folders) CreateFolder(ctx context.Context, req *CreateFolderRequest, caller models.Caller) (*models.Folder, error) {
	if err := validation.ValidateStruct(req,
		validation.Field(&req.Name,
			validation.Required,
			validation.Length(1, config.MaxFolderNameLength),
			folderNameRule,
		),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	// Normalize empty string to nil for root-level folders
	if req.ParentID != nil && *req.ParentID == "" {
		req.ParentID = nil
	}

	if req.ParentID != nil {
		parent, err := s.folderRepo.GetByID(ctx, *req.ParentID, caller.StructureID)
		if err != nil {
			return nil, fmt.Errorf("parent folder: %w", err)
		}
		s.logger.Debug("parent folder found", "parent_id", parent.ID, "parent_name", parent.Name)
	}

	folder := &models.Folder{
		ID:          uuid.NewString(),
		StructureID: caller.StructureID,
		ParentID:    req.ParentID,
		Name:        req.Name,
		OwnerID:     caller.UserID,
		Kind:        models.FolderPersisted,
		CreatedAt:   time.Now(),
	}

	if err := s.folderRepo.Create(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder created",
		"id", folder.ID,
		"name", folder.Name,
		"structure_id", folder.StructureID,
		"parent_id", req.ParentID,
	)

	return folder, nil
}

// RenameFolder updates the folder name in place. Read-before-write: a
// vanished row is a hard NotFound.
func (s *Folders) RenameFolder(ctx context.Context, id, newName string, caller models.Caller) (*models.Folder, error) {
	if err := validation.Validate(newName,
		validation.Required,
		validation.Length(1, config.MaxFolderNameLength),
		folderNameRule,
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	folder, err := s.folderRepo.GetByID(ctx, id, caller.StructureID)
	if err != nil {
		return nil, err
	}

	folder.Name = newName
	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder renamed", "id", id, "name", newName)
	return folder, nil
}

// DeleteFolder removes only the folder row. There is no cascade: child
// folders and documents keep their parent_id and become unreachable, since
// no visible parent resolves to them anymore. Known gap, kept deliberately.
func (s *Folders) DeleteFolder(ctx context.Context, id string, caller models.Caller) error {
	folder, err := s.folderRepo.GetByID(ctx, id, caller.StructureID)
	if err != nil {
		return err
	}
	if err := s.guard.RequireFolder(folder, caller); err != nil {
		return err
	}

	if err := s.folderRepo.Delete(ctx, id, caller.StructureID); err != nil {
		return err
	}

	s.logger.Info("folder deleted", "id", id, "structure_id", caller.StructureID)
	return nil
}

// MoveFolder reparents a folder. Only persisted-folder targets (or the
// root) are valid: missions cannot contain sub-folders, and nothing moves
// directly into the missions root. Moves into the folder's own subtree are
// rejected; the original behavior was unguarded, the ancestor walk is a
// deliberate addition.
func (s *Folders) MoveFolder(ctx context.Context, id string, target models.Location, caller models.Caller) (*models.Folder, error) {
	folder, err := s.folderRepo.GetByID(ctx, id, caller.StructureID)
	if err != nil {
		return nil, err
	}

	switch target.Kind {
	case models.LocationRoot:
		folder.ParentID = nil
	case models.LocationFolder:
		if target.ID == id {
			return nil, fmt.Errorf("%w: cannot move a folder into itself", domain.ErrValidation)
		}
		parent, err := s.folderRepo.GetByID(ctx, target.ID, caller.StructureID)
		if err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
		if err := s.ensureNoCycle(ctx, id, parent.ID, caller.StructureID); err != nil {
			return nil, err
		}
		folder.ParentID = &parent.ID
	case models.LocationMissionsRoot:
		s.logger.Warn("rejected move into missions root", "folder_id", id)
		return nil, fmt.Errorf("%w: nothing can be moved into the missions root", domain.ErrValidation)
	case models.LocationMission:
		return nil, fmt.Errorf("%w: missions cannot contain sub-folders", domain.ErrValidation)
	default:
		return nil, fmt.Errorf("%w: invalid move target", domain.ErrValidation)
	}

	if err := s.folderRepo.Update(ctx, folder); err != nil {
		return nil, err
	}

	s.logger.Info("folder moved", "id", id, "target", target.String())
	return folder, nil
}

// ensureNoCycle walks the target's ancestor chain and rejects the move when
// the moved folder appears in it.
func (s *Folders) ensureNoCycle(ctx context.Context, folderID, newParentID, structureID string) error {
	currentID := newParentID
	for {
		parent, err := s.folderRepo.GetByID(ctx, currentID, structureID)
		if err != nil {
			return err
		}
		if parent.ParentID == nil {
			return nil
		}
		if *parent.ParentID == folderID {
			return fmt.Errorf("%w: cannot move a folder into its own subtree", domain.ErrValidation)
		}
		currentID = *parent.ParentID
	}
}
