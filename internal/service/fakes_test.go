package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"dossier/internal/domain"
	"dossier/internal/domain/models"
	"dossier/internal/domain/repositories"
)

// ============================================================================
// IN-MEMORY FAKES - shared by the service tests
// ============================================================================

type fakeFolderRepo struct {
	mu      sync.Mutex
	folders map[string]models.Folder
}

func newFakeFolderRepo() *fakeFolderRepo {
	return &fakeFolderRepo{folders: make(map[string]models.Folder)}
}

func (r *fakeFolderRepo) Create(_ context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrConflict)
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) GetByID(_ context.Context, id, structureID string) (*models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.StructureID != structureID {
		return nil, fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	out := f
	return &out, nil
}

func (r *fakeFolderRepo) Update(_ context.Context, folder *models.Folder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.folders[folder.ID]; !ok {
		return fmt.Errorf("folder %s: %w", folder.ID, domain.ErrNotFound)
	}
	r.folders[folder.ID] = *folder
	return nil
}

func (r *fakeFolderRepo) Delete(_ context.Context, id, structureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.folders[id]
	if !ok || f.StructureID != structureID {
		return fmt.Errorf("folder %s: %w", id, domain.ErrNotFound)
	}
	delete(r.folders, id)
	return nil
}

func (r *fakeFolderRepo) ListChildren(_ context.Context, parentID *string, structureID string) ([]models.Folder, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Folder
	for _, f := range r.folders {
		if f.StructureID != structureID {
			continue
		}
		switch {
		case parentID == nil:
			if f.ParentID == nil {
				out = append(out, f)
			}
		default:
			if f.ParentID != nil && *f.ParentID == *parentID {
				out = append(out, f)
			}
		}
	}
	return out, nil
}

// fakeDocRepo simulates the store's index behavior: with indexDown set, any
// query carrying a server-side sort fails; with filterDown set, every
// filtered query fails and only the full scan succeeds.
type fakeDocRepo struct {
	mu         sync.Mutex
	docs       map[string]models.Document
	indexDown  bool
	filterDown bool

	queryCalls   int
	listAllCalls int
}

func newFakeDocRepo() *fakeDocRepo {
	return &fakeDocRepo{docs: make(map[string]models.Document)}
}

func (r *fakeDocRepo) put(docs ...models.Document) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, d := range docs {
		r.docs[d.ID] = d
	}
}

func (r *fakeDocRepo) Query(_ context.Context, filter repositories.DocumentFilter, sort *repositories.Sort) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.queryCalls++
	if r.filterDown {
		return nil, fmt.Errorf("filtered read: %w", domain.ErrIndexUnavailable)
	}
	if r.indexDown && sort != nil {
		return nil, fmt.Errorf("compound read: %w", domain.ErrIndexUnavailable)
	}
	all := make([]models.Document, 0, len(r.docs))
	for _, d := range r.docs {
		all = append(all, d)
	}
	out := filterDocuments(all, filter)
	sortDocuments(out, sort)
	return out, nil
}

func (r *fakeDocRepo) ListAll(_ context.Context, structureID string) ([]models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listAllCalls++
	var out []models.Document
	for _, d := range r.docs {
		if d.StructureID == structureID {
			out = append(out, d)
		}
	}
	return out, nil
}

func (r *fakeDocRepo) GetByID(_ context.Context, id, structureID string) (*models.Document, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.StructureID != structureID {
		return nil, fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	out := d
	return &out, nil
}

func (r *fakeDocRepo) Update(_ context.Context, doc *models.Document) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[doc.ID]; !ok {
		return fmt.Errorf("document %s: %w", doc.ID, domain.ErrNotFound)
	}
	r.docs[doc.ID] = *doc
	return nil
}

func (r *fakeDocRepo) Delete(_ context.Context, id, structureID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.docs[id]
	if !ok || d.StructureID != structureID {
		return fmt.Errorf("document %s: %w", id, domain.ErrNotFound)
	}
	delete(r.docs, id)
	return nil
}

type fakeMissionRepo struct {
	mu       sync.Mutex
	missions []models.Mission
	colors   map[string]string
}

func newFakeMissionRepo(missions ...models.Mission) *fakeMissionRepo {
	return &fakeMissionRepo{missions: missions, colors: make(map[string]string)}
}

func (r *fakeMissionRepo) ListByStructure(_ context.Context, structureID string) ([]models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Mission
	for _, m := range r.missions {
		if m.StructureID == structureID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (r *fakeMissionRepo) GetByID(_ context.Context, id, structureID string) (*models.Mission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.missions {
		if m.ID == id && m.StructureID == structureID {
			out := m
			return &out, nil
		}
	}
	return nil, fmt.Errorf("mission %s: %w", id, domain.ErrNotFound)
}

func (r *fakeMissionRepo) SetFolderColor(_ context.Context, id, structureID, color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, m := range r.missions {
		if m.ID == id && m.StructureID == structureID {
			r.missions[i].FolderColor = color
			r.colors[id] = color
			return nil
		}
	}
	return fmt.Errorf("mission %s: %w", id, domain.ErrNotFound)
}

type fakeArtifactRepo struct {
	byMission map[string][]models.Artifact
}

func newFakeArtifactRepo() *fakeArtifactRepo {
	return &fakeArtifactRepo{byMission: make(map[string][]models.Artifact)}
}

func (r *fakeArtifactRepo) put(a models.Artifact) {
	r.byMission[a.MissionID] = append(r.byMission[a.MissionID], a)
}

func (r *fakeArtifactRepo) ListByMission(_ context.Context, missionID string) ([]models.Artifact, error) {
	return r.byMission[missionID], nil
}

func (r *fakeArtifactRepo) ListByStructure(_ context.Context, _ string) ([]models.Artifact, error) {
	var out []models.Artifact
	for _, list := range r.byMission {
		out = append(out, list...)
	}
	return out, nil
}

type fakeProfileRepo struct {
	mu       sync.Mutex
	profiles map[string]models.StudentProfile
}

func newFakeProfileRepo(profiles ...models.StudentProfile) *fakeProfileRepo {
	r := &fakeProfileRepo{profiles: make(map[string]models.StudentProfile)}
	for _, p := range profiles {
		r.profiles[p.UserID] = p
	}
	return r
}

func (r *fakeProfileRepo) ListByStructure(_ context.Context, structureID string) ([]models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.StudentProfile
	for _, p := range r.profiles {
		if p.StructureID == structureID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *fakeProfileRepo) GetByUser(_ context.Context, userID, structureID string) (*models.StudentProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.profiles[userID]
	if !ok || p.StructureID != structureID {
		return nil, fmt.Errorf("profile %s: %w", userID, domain.ErrNotFound)
	}
	out := p
	return &out, nil
}

func (r *fakeProfileRepo) Update(_ context.Context, profile *models.StudentProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.profiles[profile.UserID]; !ok {
		return fmt.Errorf("profile %s: %w", profile.UserID, domain.ErrNotFound)
	}
	r.profiles[profile.UserID] = *profile
	return nil
}

type fakeColorTable struct {
	mu     sync.Mutex
	colors map[string]string
}

func newFakeColorTable() *fakeColorTable {
	return &fakeColorTable{colors: make(map[string]string)}
}

func (t *fakeColorTable) Get(_ context.Context, structureID, nodeID string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.colors[structureID+"/"+nodeID], nil
}

func (t *fakeColorTable) Set(_ context.Context, structureID, nodeID, color string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.colors[structureID+"/"+nodeID] = color
	return nil
}

type fakeBlobStore struct {
	mu      sync.Mutex
	deleted []string
	err     error
}

func (b *fakeBlobStore) Delete(_ context.Context, path string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.deleted = append(b.deleted, path)
	return nil
}

func (b *fakeBlobStore) PresignedURL(_ context.Context, path string, _ time.Duration) (string, error) {
	return "https://blobs.test/" + path, nil
}

// ============================================================================
// TEST FIXTURE HELPERS
// ============================================================================

const testStructure = "structure-1"

var (
	testAdmin   = models.Caller{UserID: "admin-1", Role: models.RoleAdmin, StructureID: testStructure}
	testMember  = models.Caller{UserID: "member-1", Role: models.RoleMember, StructureID: testStructure}
	testStudent = models.Caller{UserID: "student-1", Role: models.RoleStudent, StructureID: testStructure}
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func strPtr(s string) *string { return &s }

func testDoc(id string, size int64, opts ...func(*models.Document)) models.Document {
	d := models.Document{
		ID:          id,
		StructureID: testStructure,
		Name:        id,
		Size:        size,
		OwnerID:     "member-1",
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

func inFolder(folderID string) func(*models.Document) {
	return func(d *models.Document) { d.AttachToFolder(strPtr(folderID)) }
}

func inMission(missionID string) func(*models.Document) {
	return func(d *models.Document) { d.AttachToMission(missionID) }
}

func testFolder(id string, parentID *string) models.Folder {
	return models.Folder{
		ID:          id,
		StructureID: testStructure,
		ParentID:    parentID,
		Name:        id,
		OwnerID:     "admin-1",
		Kind:        models.FolderPersisted,
		CreatedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func mustSlotRegistry(t *testing.T) *SlotRegistry {
	t.Helper()
	reg, err := NewSlotRegistry()
	if err != nil {
		t.Fatalf("NewSlotRegistry: %v", err)
	}
	return reg
}

// newTestNamespace wires a namespace resolver over the given fakes.
func newTestNamespace(folders *fakeFolderRepo, docs *fakeDocRepo, missions *fakeMissionRepo, artifacts *fakeArtifactRepo, profiles *fakeProfileRepo, t *testing.T) *Namespace {
	t.Helper()
	return NewNamespace(
		folders,
		missions,
		artifacts,
		profiles,
		newFakeColorTable(),
		NewResilientQuery(docs, testLogger()),
		mustSlotRegistry(t),
		NewAccessGuard(),
		testLogger(),
	)
}
