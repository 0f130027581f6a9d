package service

import (
	"context"
	"fmt"
	"log/slog"

	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// SizeAggregator recursively computes the total bytes stored under a
// location. Results are best-effort snapshots: no cache and no coherence
// guarantee against concurrent mutations; a stale sum is corrected by the
// next full reload.
//
// The persisted-folder parent relation is assumed acyclic; no cycle
// detection is performed here (the mutation service rejects moves that
// would create one).
type SizeAggregator struct {
	folderRepo   repositories.FolderRepository
	artifactRepo repositories.ArtifactRepository
	query        *ResilientQuery
	logger       *slog.Logger
}

// NewSizeAggregator creates a new size aggregator
func NewSizeAggregator(
	folderRepo repositories.FolderRepository,
	artifactRepo repositories.ArtifactRepository,
	query *ResilientQuery,
	logger *slog.Logger,
) *SizeAggregator {
	return &SizeAggregator{
		folderRepo:   folderRepo,
		artifactRepo: artifactRepo,
		query:        query,
		logger:       logger,
	}
}

// ComputeSize returns the total bytes under the location.
func (s *SizeAggregator) ComputeSize(ctx context.Context, loc models.Location, structureID string) (int64, error) {
	switch loc.Kind {
	case models.LocationRoot:
		return s.rootSize(ctx, structureID)
	case models.LocationMissionsRoot:
		return s.missionsRootSize(ctx, structureID)
	case models.LocationMission:
		return s.missionSize(ctx, loc.ID, structureID)
	case models.LocationStudentDocs:
		// Personal documents carry no length metadata; never aggregated.
		return 0, nil
	case models.LocationFolder:
		return s.folderSize(ctx, loc.ID, structureID)
	default:
		return 0, fmt.Errorf("unknown location kind %d", loc.Kind)
	}
}

// FolderSizes computes the size of each listed folder, returned as an
// explicit map keyed by node ID. The map is owned by the caller's session;
// nothing is cached here.
func (s *SizeAggregator) FolderSizes(ctx context.Context, folders []models.Folder, structureID string) (map[string]int64, error) {
	sizes := make(map[string]int64, len(folders))
	for i := range folders {
		f := &folders[i]
		var loc models.Location
		switch f.Kind {
		case models.FolderMissionsRoot:
			loc = models.MissionsRoot()
		case models.FolderStudentDocsRoot:
			loc = models.StudentDocs()
		case models.FolderMission:
			loc = models.MissionLocation(f.ID)
		default:
			loc = models.FolderLocation(f.ID)
		}
		size, err := s.ComputeSize(ctx, loc, structureID)
		if err != nil {
			return nil, err
		}
		sizes[f.ID] = size
	}
	return sizes, nil
}

// folderSize sums the direct child documents (mission-attached documents
// are excluded from any folder sum) plus each subfolder, recursively.
func (s *SizeAggregator) folderSize(ctx context.Context, folderID, structureID string) (int64, error) {
	result, err := s.query.Documents(ctx, repositories.DocumentFilter{
		StructureID: structureID,
		ParentID:    &folderID,
		NullMission: true,
	}, nil)
	if err != nil {
		return 0, err
	}

	total := sumSizes(result.Documents)

	subfolders, err := s.folderRepo.ListChildren(ctx, &folderID, structureID)
	if err != nil {
		return 0, fmt.Errorf("list subfolders: %w", err)
	}
	for i := range subfolders {
		sub, err := s.folderSize(ctx, subfolders[i].ID, structureID)
		if err != nil {
			return 0, err
		}
		total += sub
	}

	return total, nil
}

// rootSize covers the persisted part of the tree: root-level documents plus
// every root folder recursively. Mission documents are counted by the
// missions root, not here.
func (s *SizeAggregator) rootSize(ctx context.Context, structureID string) (int64, error) {
	result, err := s.query.Documents(ctx, repositories.DocumentFilter{
		StructureID: structureID,
		NullParent:  true,
		NullMission: true,
	}, nil)
	if err != nil {
		return 0, err
	}
	total := sumSizes(result.Documents)

	folders, err := s.folderRepo.ListChildren(ctx, nil, structureID)
	if err != nil {
		return 0, fmt.Errorf("list root folders: %w", err)
	}
	for i := range folders {
		sub, err := s.folderSize(ctx, folders[i].ID, structureID)
		if err != nil {
			return 0, err
		}
		total += sub
	}

	return total, nil
}

// missionsRootSize sums every mission-attached document of the structure,
// from both document sources.
func (s *SizeAggregator) missionsRootSize(ctx context.Context, structureID string) (int64, error) {
	result, err := s.query.Documents(ctx, repositories.DocumentFilter{
		StructureID: structureID,
		AnyMission:  true,
	}, nil)
	if err != nil {
		return 0, err
	}
	total := sumSizes(result.Documents)

	artifacts, err := s.artifactRepo.ListByStructure(ctx, structureID)
	if err != nil {
		return 0, fmt.Errorf("list structure artifacts: %w", err)
	}
	for i := range artifacts {
		total += artifacts[i].FileSize
	}

	return total, nil
}

func (s *SizeAggregator) missionSize(ctx context.Context, missionID, structureID string) (int64, error) {
	result, err := s.query.Documents(ctx, repositories.DocumentFilter{
		StructureID: structureID,
		MissionID:   &missionID,
	}, nil)
	if err != nil {
		return 0, err
	}
	total := sumSizes(result.Documents)

	artifacts, err := s.artifactRepo.ListByMission(ctx, missionID)
	if err != nil {
		return 0, fmt.Errorf("list mission artifacts: %w", err)
	}
	for i := range artifacts {
		total += artifacts[i].FileSize
	}

	return total, nil
}

func sumSizes(docs []models.Document) int64 {
	var total int64
	for i := range docs {
		total += docs[i].Size
	}
	return total
}
