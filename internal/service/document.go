package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"dossier/internal/config"
	"dossier/internal/domain"
	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
	"dossier/internal/metrics"
)

// Documents is the mutation service for document nodes, including the
// profile-backed personal documents that have no row of their own.
type Documents struct {
	docRepo     repositories.DocumentRepository
	folderRepo  repositories.FolderRepository
	missionRepo repositories.MissionRepository
	profileRepo repositories.ProfileRepository
	blobs       repositories.BlobStore
	slots       *SlotRegistry
	guard       *AccessGuard
	logger      *slog.Logger
}

// NewDocuments creates a new document mutation service
func NewDocuments(
	docRepo repositories.DocumentRepository,
	folderRepo repositories.FolderRepository,
	missionRepo repositories.MissionRepository,
	profileRepo repositories.ProfileRepository,
	blobs repositories.BlobStore,
	slots *SlotRegistry,
	guard *AccessGuard,
	logger *slog.Logger,
) *Documents {
	return &Documents{
		docRepo:     docRepo,
		folderRepo:  folderRepo,
		missionRepo: missionRepo,
		profileRepo: profileRepo,
		blobs:       blobs,
		slots:       slots,
		guard:       guard,
		logger:      logger,
	}
}

const downloadURLTTL = 15 * time.Minute

// GetDocument loads a persisted document and checks access.
func (s *Documents) GetDocument(ctx context.Context, id string, caller models.Caller) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id, caller.StructureID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireDocument(doc, caller); err != nil {
		return nil, err
	}
	return doc, nil
}

// DownloadURL returns a short-lived presigned URL for the document blob.
func (s *Documents) DownloadURL(ctx context.Context, id string, caller models.Caller) (string, error) {
	doc, err := s.GetDocument(ctx, id, caller)
	if err != nil {
		return "", err
	}
	if doc.StoragePath == "" {
		return "", fmt.Errorf("%w: document has no stored object", domain.ErrValidation)
	}
	return s.blobs.PresignedURL(ctx, doc.StoragePath, downloadURLTTL)
}

// ResolvePersonal re-synthesizes the owner's personal documents from the
// profile record and returns the one carrying the given ID. Clients claiming
// a personal node are only trusted for the owner and ID used in the lookup;
// every other field (storage path, name, URL) comes from the profile, so a
// fabricated node cannot steer the deletion heuristics or the blob cleanup.
func (s *Documents) ResolvePersonal(ctx context.Context, ownerID, id string, caller models.Caller) (*models.Document, error) {
	profile, err := s.profileRepo.GetByUser(ctx, ownerID, caller.StructureID)
	if err != nil {
		return nil, err
	}

	for _, doc := range s.slots.Synthesize(profile) {
		if doc.ID == id {
			out := doc
			return &out, nil
		}
	}
	return nil, fmt.Errorf("personal document %s: %w", id, domain.ErrNotFound)
}

// RenameDocument updates the document name in place. Read-before-write: a
// vanished row is a hard NotFound.
func (s *Documents) RenameDocument(ctx context.Context, id, newName string, caller models.Caller) (*models.Document, error) {
	if err := validation.Validate(newName,
		validation.Required,
		validation.Length(1, config.MaxDocumentNameLength),
	); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}

	doc, err := s.docRepo.GetByID(ctx, id, caller.StructureID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireDocument(doc, caller); err != nil {
		return nil, err
	}

	doc.Name = newName
	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document renamed", "id", id, "name", newName)
	return doc, nil
}

// MoveDocument reattaches a document to a mission, a persisted folder, or
// the root. Setting one attachment clears the other; at most one of
// parent/mission is ever set. Moves into the missions root are rejected.
func (s *Documents) MoveDocument(ctx context.Context, id string, target models.Location, caller models.Caller) (*models.Document, error) {
	doc, err := s.docRepo.GetByID(ctx, id, caller.StructureID)
	if err != nil {
		return nil, err
	}
	if err := s.guard.RequireDocument(doc, caller); err != nil {
		return nil, err
	}

	switch target.Kind {
	case models.LocationRoot:
		doc.AttachToFolder(nil)
	case models.LocationFolder:
		folder, err := s.folderRepo.GetByID(ctx, target.ID, caller.StructureID)
		if err != nil {
			return nil, fmt.Errorf("target folder: %w", err)
		}
		doc.AttachToFolder(&folder.ID)
	case models.LocationMission:
		mission, err := s.missionRepo.GetByID(ctx, target.ID, caller.StructureID)
		if err != nil {
			return nil, fmt.Errorf("target mission: %w", err)
		}
		doc.AttachToMission(mission.ID)
	case models.LocationMissionsRoot:
		s.logger.Warn("rejected move into missions root", "document_id", id)
		return nil, fmt.Errorf("%w: nothing can be moved into the missions root", domain.ErrValidation)
	default:
		return nil, fmt.Errorf("%w: invalid move target", domain.ErrValidation)
	}

	if err := s.docRepo.Update(ctx, doc); err != nil {
		return nil, err
	}

	s.logger.Info("document moved", "id", id, "target", target.String())
	return doc, nil
}

// DeleteDocument removes a document node. The value comes from a listing:
// personal documents have no row, so the node itself carries everything the
// deletion needs.
//
// Personal documents are traced back to their profile field through the
// slot matcher; an unmatched node leaves the profile untouched and reports
// domain.ErrSlotUnmatched after the blob cleanup ran. Blob deletion is
// best-effort throughout: not-found and access-denied are tolerated, other
// failures are logged and do not block. Row deletion is idempotent: a row
// already gone counts as success.
func (s *Documents) DeleteDocument(ctx context.Context, doc *models.Document, caller models.Caller) error {
	if err := s.guard.RequireDocument(doc, caller); err != nil {
		return err
	}

	var unmatched error
	if doc.Personal {
		unmatched = s.clearProfileSlot(ctx, doc, caller)
	}

	s.deleteBlob(ctx, doc)

	if !doc.Personal {
		if err := s.docRepo.Delete(ctx, doc.ID, caller.StructureID); err != nil {
			if !errors.Is(err, domain.ErrNotFound) {
				return err
			}
			// Row vanished between list and delete: already gone.
			s.logger.Debug("document row already deleted", "id", doc.ID)
		}
	}

	s.logger.Info("document deleted", "id", doc.ID, "personal", doc.Personal)
	return unmatched
}

// clearProfileSlot resolves the profile field the personal document came
// from and clears it.
func (s *Documents) clearProfileSlot(ctx context.Context, doc *models.Document, caller models.Caller) error {
	profile, err := s.profileRepo.GetByUser(ctx, doc.OwnerID, caller.StructureID)
	if err != nil {
		return fmt.Errorf("owning profile: %w", err)
	}

	match, ok := s.slots.Match(doc, profile)
	if !ok {
		metrics.UnmatchedSlots.Inc()
		s.logger.Warn("personal document matched no profile slot",
			"document_id", doc.ID,
			"owner_id", doc.OwnerID,
			"storage_path", doc.StoragePath,
		)
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrSlotUnmatched)
	}

	match.Clear(profile)
	if err := s.profileRepo.Update(ctx, profile); err != nil {
		return fmt.Errorf("update profile: %w", err)
	}

	s.logger.Info("profile slot cleared",
		"owner_id", doc.OwnerID,
		"slot", string(match.Slot),
		"custom_index", match.CustomIndex,
	)
	return nil
}

// deleteBlob removes the underlying object, tolerating the classes that
// mean the blob is not ours to remove anymore.
func (s *Documents) deleteBlob(ctx context.Context, doc *models.Document) {
	if doc.StoragePath == "" {
		return
	}

	err := s.blobs.Delete(ctx, doc.StoragePath)
	if err == nil {
		return
	}

	var se *domain.StorageError
	if errors.As(err, &se) && se.Tolerable() {
		metrics.BlobDeleteTolerated.Inc()
		s.logger.Debug("blob delete tolerated", "path", doc.StoragePath, "error", err)
		return
	}

	s.logger.Error("blob delete failed", "path", doc.StoragePath, "error", err)
}
