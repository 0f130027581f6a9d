package service

import (
	"context"
	"fmt"
	"log/slog"

	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// Listing is the resolved content of one location. Degraded mirrors the
// resilient query flag: when set, document order is client-side only.
type Listing struct {
	Location  models.Location   `json:"location"`
	Folders   []models.Folder   `json:"folders"`
	Documents []models.Document `json:"documents"`
	Degraded  bool              `json:"degraded,omitempty"`
}

// Namespace resolves the children of any location in the virtual document
// tree, merging persisted rows with mission folders and profile-sourced
// personal documents. Listings are always access-filtered: nodes the guard
// rejects are silently dropped, never an error.
type Namespace struct {
	folderRepo   repositories.FolderRepository
	missionRepo  repositories.MissionRepository
	artifactRepo repositories.ArtifactRepository
	profileRepo  repositories.ProfileRepository
	colors       repositories.ColorSideTable
	query        *ResilientQuery
	slots        *SlotRegistry
	guard        *AccessGuard
	logger       *slog.Logger
}

// NewNamespace creates a new namespace resolver
func NewNamespace(
	folderRepo repositories.FolderRepository,
	missionRepo repositories.MissionRepository,
	artifactRepo repositories.ArtifactRepository,
	profileRepo repositories.ProfileRepository,
	colors repositories.ColorSideTable,
	query *ResilientQuery,
	slots *SlotRegistry,
	guard *AccessGuard,
	logger *slog.Logger,
) *Namespace {
	return &Namespace{
		folderRepo:   folderRepo,
		missionRepo:  missionRepo,
		artifactRepo: artifactRepo,
		profileRepo:  profileRepo,
		colors:       colors,
		query:        query,
		slots:        slots,
		guard:        guard,
		logger:       logger,
	}
}

var newestFirst = &repositories.Sort{Field: repositories.SortCreatedAt, Desc: true}

// ResolveChildren returns the ordered child folders and documents of the
// location, for the given caller.
func (s *Namespace) ResolveChildren(ctx context.Context, loc models.Location, caller models.Caller) (*Listing, error) {
	var (
		listing *Listing
		err     error
	)

	switch loc.Kind {
	case models.LocationRoot:
		listing, err = s.resolveRoot(ctx, caller)
	case models.LocationMissionsRoot:
		listing, err = s.resolveMissionsRoot(ctx, caller)
	case models.LocationMission:
		listing, err = s.resolveMission(ctx, loc.ID, caller)
	case models.LocationStudentDocs:
		listing, err = s.resolveStudentDocs(ctx, caller)
	case models.LocationFolder:
		listing, err = s.resolveFolder(ctx, loc.ID, caller)
	default:
		return nil, fmt.Errorf("unknown location kind %d", loc.Kind)
	}
	if err != nil {
		return nil, err
	}

	listing.Location = loc
	listing.Folders = s.filterFolders(listing.Folders, caller)
	listing.Documents = s.filterDocuments(listing.Documents, caller)
	return listing, nil
}

func (s *Namespace) resolveRoot(ctx context.Context, caller models.Caller) (*Listing, error) {
	folders := []models.Folder{s.missionsRoot(ctx, caller.StructureID)}

	// The student docs root only appears when at least one personal
	// document would synthesize under it.
	personal, err := s.synthesizePersonal(ctx, caller.StructureID)
	if err != nil {
		return nil, err
	}
	if len(personal) > 0 {
		color, _ := s.colors.Get(ctx, caller.StructureID, models.StudentDocsRootID)
		folders = append(folders, models.NewStudentDocsRoot(caller.StructureID, color))
	}

	persisted, err := s.folderRepo.ListChildren(ctx, nil, caller.StructureID)
	if err != nil {
		return nil, fmt.Errorf("list root folders: %w", err)
	}
	folders = append(folders, persisted...)

	// Root documents carry neither a folder nor a mission attachment.
	result, err := s.query.Documents(ctx, repositories.DocumentFilter{
		StructureID: caller.StructureID,
		NullParent:  true,
		NullMission: true,
	}, newestFirst)
	if err != nil {
		return nil, err
	}

	return &Listing{Folders: folders, Documents: result.Documents, Degraded: result.Degraded}, nil
}

func (s *Namespace) resolveMissionsRoot(ctx context.Context, caller models.Caller) (*Listing, error) {
	missions, err := s.missionRepo.ListByStructure(ctx, caller.StructureID)
	if err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}

	folders := make([]models.Folder, 0, len(missions))
	for i := range missions {
		folders = append(folders, models.NewMissionFolder(&missions[i]))
	}

	// Missions root holds only mission folders, never loose documents.
	return &Listing{Folders: folders, Documents: nil}, nil
}

func (s *Namespace) resolveMission(ctx context.Context, missionID string, caller models.Caller) (*Listing, error) {
	mission, err := s.missionRepo.GetByID(ctx, missionID, caller.StructureID)
	if err != nil {
		return nil, err
	}

	result, err := s.query.Documents(ctx, repositories.DocumentFilter{
		StructureID: caller.StructureID,
		MissionID:   &mission.ID,
	}, newestFirst)
	if err != nil {
		return nil, err
	}
	docs := result.Documents

	artifacts, err := s.artifactRepo.ListByMission(ctx, mission.ID)
	if err != nil {
		return nil, fmt.Errorf("list mission artifacts: %w", err)
	}
	for i := range artifacts {
		docs = append(docs, artifacts[i].AsDocument(caller.StructureID))
	}

	// Missions are one level deep: no sub-folders.
	return &Listing{Documents: docs, Degraded: result.Degraded}, nil
}

func (s *Namespace) resolveStudentDocs(ctx context.Context, caller models.Caller) (*Listing, error) {
	personal, err := s.synthesizePersonal(ctx, caller.StructureID)
	if err != nil {
		return nil, err
	}
	return &Listing{Documents: personal}, nil
}

func (s *Namespace) resolveFolder(ctx context.Context, folderID string, caller models.Caller) (*Listing, error) {
	folder, err := s.folderRepo.GetByID(ctx, folderID, caller.StructureID)
	if err != nil {
		return nil, err
	}

	subfolders, err := s.folderRepo.ListChildren(ctx, &folder.ID, caller.StructureID)
	if err != nil {
		return nil, fmt.Errorf("list subfolders: %w", err)
	}

	result, err := s.query.Documents(ctx, repositories.DocumentFilter{
		StructureID: caller.StructureID,
		ParentID:    &folder.ID,
		NullMission: true,
	}, newestFirst)
	if err != nil {
		return nil, err
	}

	return &Listing{Folders: subfolders, Documents: result.Documents, Degraded: result.Degraded}, nil
}

// missionsRoot synthesizes the virtual missions root. A side-table read
// failure only costs the color.
func (s *Namespace) missionsRoot(ctx context.Context, structureID string) models.Folder {
	color, err := s.colors.Get(ctx, structureID, models.MissionsRootID)
	if err != nil {
		s.logger.Warn("color side-table read failed", "node_id", models.MissionsRootID, "error", err)
	}
	return models.NewMissionsRoot(structureID, color)
}

// synthesizePersonal recomputes every personal document of the structure
// from the profile records. Nothing here is persisted.
func (s *Namespace) synthesizePersonal(ctx context.Context, structureID string) ([]models.Document, error) {
	profiles, err := s.profileRepo.ListByStructure(ctx, structureID)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	var docs []models.Document
	for i := range profiles {
		docs = append(docs, s.slots.Synthesize(&profiles[i])...)
	}
	return docs, nil
}

func (s *Namespace) filterFolders(folders []models.Folder, caller models.Caller) []models.Folder {
	out := make([]models.Folder, 0, len(folders))
	for i := range folders {
		if s.guard.CanAccessFolder(&folders[i], caller) {
			out = append(out, folders[i])
		}
	}
	return out
}

func (s *Namespace) filterDocuments(docs []models.Document, caller models.Caller) []models.Document {
	out := make([]models.Document, 0, len(docs))
	for i := range docs {
		if s.guard.CanAccessDocument(&docs[i], caller) {
			out = append(out, docs[i])
		}
	}
	return out
}
