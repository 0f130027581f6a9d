package service

import (
	"context"
	"testing"
	"time"

	"dossier/internal/domain/models"
)

func TestNamespace_ResolveRoot(t *testing.T) {
	folders := newFakeFolderRepo()
	folders.folders["f1"] = testFolder("f1", nil)
	folders.folders["f2"] = testFolder("f2", strPtr("f1")) // nested, not at root

	docs := newFakeDocRepo()
	docs.put(
		testDoc("root-doc", 10),
		testDoc("foldered-doc", 20, inFolder("f1")),
		testDoc("mission-doc", 30, inMission("m1")),
	)

	missions := newFakeMissionRepo(models.Mission{
		ID: "m1", Number: "M-2025-001", StructureID: testStructure,
	})

	ns := newTestNamespace(folders, docs, missions, newFakeArtifactRepo(), newFakeProfileRepo(), t)

	listing, err := ns.ResolveChildren(context.Background(), models.Root(), testAdmin)
	if err != nil {
		t.Fatalf("ResolveChildren(root) error = %v", err)
	}

	// Missions root always present; student docs root absent (no profiles);
	// one persisted root folder.
	var kinds []models.FolderKind
	for _, f := range listing.Folders {
		kinds = append(kinds, f.Kind)
	}
	if len(listing.Folders) != 2 {
		t.Fatalf("root folders = %v, want missions root + f1", kinds)
	}
	if listing.Folders[0].Kind != models.FolderMissionsRoot {
		t.Errorf("first folder kind = %s, want missions root", listing.Folders[0].Kind)
	}

	// Only unattached documents surface at the root.
	if len(listing.Documents) != 1 || listing.Documents[0].ID != "root-doc" {
		t.Errorf("root documents = %v, want [root-doc]", listing.Documents)
	}
}

func TestNamespace_StudentDocsRootAppearsWithPersonalDocs(t *testing.T) {
	profiles := newFakeProfileRepo(models.StudentProfile{
		UserID:      "student-1",
		StructureID: testStructure,
		FirstName:   "Ana",
		LastName:    "Diaz",
		CVURL:       "https://files.test/uploads/cv.pdf",
		UpdatedAt:   time.Now(),
	})

	ns := newTestNamespace(newFakeFolderRepo(), newFakeDocRepo(), newFakeMissionRepo(), newFakeArtifactRepo(), profiles, t)

	listing, err := ns.ResolveChildren(context.Background(), models.Root(), testAdmin)
	if err != nil {
		t.Fatalf("ResolveChildren(root) error = %v", err)
	}

	found := false
	for _, f := range listing.Folders {
		if f.Kind == models.FolderStudentDocsRoot {
			found = true
		}
	}
	if !found {
		t.Error("student docs root missing although a personal document exists")
	}

	// And the student docs listing carries the synthesized document.
	sd, err := ns.ResolveChildren(context.Background(), models.StudentDocs(), testAdmin)
	if err != nil {
		t.Fatalf("ResolveChildren(student-docs) error = %v", err)
	}
	if len(sd.Documents) != 1 {
		t.Fatalf("student docs = %d documents, want 1", len(sd.Documents))
	}
	if !sd.Documents[0].Personal {
		t.Error("synthesized document not flagged personal")
	}
}

func TestNamespace_ResolveMissionMergesArtifacts(t *testing.T) {
	missions := newFakeMissionRepo(models.Mission{
		ID: "m1", Number: "M-2025-001", StructureID: testStructure,
	})

	docs := newFakeDocRepo()
	docs.put(testDoc("uploaded", 100, inMission("m1")))

	artifacts := newFakeArtifactRepo()
	artifacts.put(models.Artifact{
		ID: "art-1", MissionID: "m1", FileName: "agreement.pdf", FileSize: 50,
	})

	ns := newTestNamespace(newFakeFolderRepo(), docs, missions, artifacts, newFakeProfileRepo(), t)

	listing, err := ns.ResolveChildren(context.Background(), models.MissionLocation("m1"), testAdmin)
	if err != nil {
		t.Fatalf("ResolveChildren(mission) error = %v", err)
	}
	if len(listing.Folders) != 0 {
		t.Errorf("mission listing has %d folders, want 0", len(listing.Folders))
	}
	if len(listing.Documents) != 2 {
		t.Fatalf("mission listing has %d documents, want uploaded + artifact", len(listing.Documents))
	}

	ids := map[string]bool{}
	for _, d := range listing.Documents {
		ids[d.ID] = true
	}
	if !ids["uploaded"] || !ids["art-1"] {
		t.Errorf("mission documents = %v, want uploaded and art-1", ids)
	}
}

func TestNamespace_MissionsRootListsMissionFolders(t *testing.T) {
	missions := newFakeMissionRepo(
		models.Mission{ID: "m1", Number: "M-2025-001", StructureID: testStructure},
		models.Mission{ID: "m2", Description: "unnamed audit", StructureID: testStructure},
		models.Mission{ID: "m3", Number: "X-1", StructureID: "other-structure"},
	)

	ns := newTestNamespace(newFakeFolderRepo(), newFakeDocRepo(), missions, newFakeArtifactRepo(), newFakeProfileRepo(), t)

	listing, err := ns.ResolveChildren(context.Background(), models.MissionsRoot(), testAdmin)
	if err != nil {
		t.Fatalf("ResolveChildren(missions) error = %v", err)
	}
	if len(listing.Documents) != 0 {
		t.Errorf("missions root holds %d loose documents, want 0", len(listing.Documents))
	}
	if len(listing.Folders) != 2 {
		t.Fatalf("missions root holds %d folders, want 2 (same structure only)", len(listing.Folders))
	}
	// The mission number names the folder; description is the fallback.
	if listing.Folders[0].Name != "M-2025-001" {
		t.Errorf("folder name = %s, want mission number", listing.Folders[0].Name)
	}
	if listing.Folders[1].Name != "unnamed audit" {
		t.Errorf("folder name = %s, want description fallback", listing.Folders[1].Name)
	}
}

func TestNamespace_ListingsAreAccessFiltered(t *testing.T) {
	folders := newFakeFolderRepo()
	restricted := testFolder("secret", nil)
	restricted.Restricted = true
	folders.folders["secret"] = restricted
	folders.folders["open"] = testFolder("open", nil)

	docs := newFakeDocRepo()
	hidden := testDoc("hidden", 10)
	hidden.Restricted = true
	hidden.OwnerID = "someone-else"
	docs.put(hidden, testDoc("visible", 10))

	ns := newTestNamespace(folders, docs, newFakeMissionRepo(), newFakeArtifactRepo(), newFakeProfileRepo(), t)

	listing, err := ns.ResolveChildren(context.Background(), models.Root(), testStudent)
	if err != nil {
		t.Fatalf("ResolveChildren(root) error = %v", err)
	}

	for _, f := range listing.Folders {
		if f.ID == "secret" {
			t.Error("restricted folder leaked into a student listing")
		}
	}
	if len(listing.Documents) != 1 || listing.Documents[0].ID != "visible" {
		t.Errorf("student sees %v, want [visible]", listing.Documents)
	}

	// Admins see everything.
	adminListing, err := ns.ResolveChildren(context.Background(), models.Root(), testAdmin)
	if err != nil {
		t.Fatalf("ResolveChildren(root, admin) error = %v", err)
	}
	if len(adminListing.Documents) != 2 {
		t.Errorf("admin sees %d documents, want 2", len(adminListing.Documents))
	}
}

func TestNamespace_DegradedFlagPropagates(t *testing.T) {
	docs := newFakeDocRepo()
	docs.indexDown = true
	docs.put(testDoc("root-doc", 10))

	ns := newTestNamespace(newFakeFolderRepo(), docs, newFakeMissionRepo(), newFakeArtifactRepo(), newFakeProfileRepo(), t)

	listing, err := ns.ResolveChildren(context.Background(), models.Root(), testAdmin)
	if err != nil {
		t.Fatalf("ResolveChildren(root) error = %v", err)
	}
	if !listing.Degraded {
		t.Error("Degraded flag not propagated from the resilient query")
	}
}
