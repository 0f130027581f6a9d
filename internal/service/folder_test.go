package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"dossier/internal/domain"
	"dossier/internal/domain/models"
)

func TestFolders_CreateFolder(t *testing.T) {
	tests := []struct {
		name    string
		req     CreateFolderRequest
		wantErr error
	}{
		{
			name: "valid root folder",
			req:  CreateFolderRequest{Name: "Contracts"},
		},
		{
			name: "empty parent string normalizes to root",
			req:  CreateFolderRequest{Name: "Contracts", ParentID: strPtr("")},
		},
		{
			name:    "empty name rejected",
			req:     CreateFolderRequest{Name: ""},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "slash in name rejected",
			req:     CreateFolderRequest{Name: "a/b"},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "overlong name rejected",
			req:     CreateFolderRequest{Name: strings.Repeat("x", 256)},
			wantErr: domain.ErrValidation,
		},
		{
			name:    "missing parent rejected",
			req:     CreateFolderRequest{Name: "ok", ParentID: strPtr("ghost")},
			wantErr: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFolders(newFakeFolderRepo(), NewAccessGuard(), testLogger())
			folder, err := svc.CreateFolder(context.Background(), &tt.req, testAdmin)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("CreateFolder() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("CreateFolder() error = %v", err)
			}
			if folder.ID == "" {
				t.Error("created folder has no ID")
			}
			if folder.StructureID != testStructure {
				t.Errorf("structure = %s, want caller's", folder.StructureID)
			}
			if folder.ParentID != nil {
				t.Errorf("parent = %v, want nil for a root folder", *folder.ParentID)
			}
			if folder.Kind != models.FolderPersisted {
				t.Errorf("kind = %s, want persisted", folder.Kind)
			}
		})
	}
}

func TestFolders_CreateFolderUnderParent(t *testing.T) {
	repo := newFakeFolderRepo()
	repo.folders["p1"] = testFolder("p1", nil)
	svc := NewFolders(repo, NewAccessGuard(), testLogger())

	folder, err := svc.CreateFolder(context.Background(), &CreateFolderRequest{
		Name: "child", ParentID: strPtr("p1"),
	}, testAdmin)
	if err != nil {
		t.Fatalf("CreateFolder() error = %v", err)
	}
	if folder.ParentID == nil || *folder.ParentID != "p1" {
		t.Errorf("parent = %v, want p1", folder.ParentID)
	}
}

func TestFolders_RenameFolder(t *testing.T) {
	repo := newFakeFolderRepo()
	repo.folders["f1"] = testFolder("f1", nil)
	svc := NewFolders(repo, NewAccessGuard(), testLogger())

	folder, err := svc.RenameFolder(context.Background(), "f1", "Renamed", testAdmin)
	if err != nil {
		t.Fatalf("RenameFolder() error = %v", err)
	}
	if folder.Name != "Renamed" {
		t.Errorf("name = %s, want Renamed", folder.Name)
	}

	if _, err := svc.RenameFolder(context.Background(), "ghost", "x", testAdmin); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("rename of missing folder = %v, want ErrNotFound", err)
	}
	if _, err := svc.RenameFolder(context.Background(), "f1", "a/b", testAdmin); !errors.Is(err, domain.ErrValidation) {
		t.Errorf("rename with slash = %v, want ErrValidation", err)
	}
}

func TestFolders_MoveFolder(t *testing.T) {
	setup := func() (*fakeFolderRepo, *Folders) {
		repo := newFakeFolderRepo()
		repo.folders["a"] = testFolder("a", nil)
		repo.folders["b"] = testFolder("b", strPtr("a"))
		repo.folders["c"] = testFolder("c", strPtr("b"))
		repo.folders["other"] = testFolder("other", nil)
		return repo, NewFolders(repo, NewAccessGuard(), testLogger())
	}

	t.Run("move to another folder", func(t *testing.T) {
		_, svc := setup()
		folder, err := svc.MoveFolder(context.Background(), "c", models.FolderLocation("other"), testAdmin)
		if err != nil {
			t.Fatalf("MoveFolder() error = %v", err)
		}
		if folder.ParentID == nil || *folder.ParentID != "other" {
			t.Errorf("parent = %v, want other", folder.ParentID)
		}
	})

	t.Run("move to root clears the parent", func(t *testing.T) {
		_, svc := setup()
		folder, err := svc.MoveFolder(context.Background(), "c", models.Root(), testAdmin)
		if err != nil {
			t.Fatalf("MoveFolder() error = %v", err)
		}
		if folder.ParentID != nil {
			t.Errorf("parent = %v, want nil", *folder.ParentID)
		}
	})

	t.Run("self move rejected", func(t *testing.T) {
		_, svc := setup()
		if _, err := svc.MoveFolder(context.Background(), "a", models.FolderLocation("a"), testAdmin); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("self move = %v, want ErrValidation", err)
		}
	})

	t.Run("move into own subtree rejected", func(t *testing.T) {
		repo, svc := setup()
		_, err := svc.MoveFolder(context.Background(), "a", models.FolderLocation("c"), testAdmin)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("cycle move = %v, want ErrValidation", err)
		}
		// Parent must be untouched after the rejection.
		stored := repo.folders["a"]
		if stored.ParentID != nil {
			t.Errorf("parent changed to %v after rejected move", *stored.ParentID)
		}
	})

	t.Run("move into missions root rejected", func(t *testing.T) {
		repo, svc := setup()
		_, err := svc.MoveFolder(context.Background(), "b", models.MissionsRoot(), testAdmin)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("move into missions root = %v, want ErrValidation", err)
		}
		stored := repo.folders["b"]
		if stored.ParentID == nil || *stored.ParentID != "a" {
			t.Error("parent changed after rejected move into missions root")
		}
	})

	t.Run("move into a mission rejected", func(t *testing.T) {
		_, svc := setup()
		if _, err := svc.MoveFolder(context.Background(), "b", models.MissionLocation("m1"), testAdmin); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("move into mission = %v, want ErrValidation", err)
		}
	})
}

func TestFolders_DeleteFolderRequiresAccess(t *testing.T) {
	repo := newFakeFolderRepo()
	restricted := testFolder("secret", nil)
	restricted.Restricted = true
	restricted.AllowedRoles = []string{models.RoleAdmin}
	repo.folders["secret"] = restricted
	svc := NewFolders(repo, NewAccessGuard(), testLogger())

	err := svc.DeleteFolder(context.Background(), "secret", testStudent)
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("DeleteFolder(student) = %v, want ErrForbidden", err)
	}
	if _, ok := repo.folders["secret"]; !ok {
		t.Fatal("restricted folder was deleted despite the rejected access")
	}

	// An allowed role still deletes it.
	if err := svc.DeleteFolder(context.Background(), "secret", testAdmin); err != nil {
		t.Fatalf("DeleteFolder(admin) error = %v", err)
	}
	if _, ok := repo.folders["secret"]; ok {
		t.Error("folder row still present after an authorized delete")
	}
}

func TestFolders_DeleteFolderLeavesChildren(t *testing.T) {
	repo := newFakeFolderRepo()
	repo.folders["a"] = testFolder("a", nil)
	repo.folders["b"] = testFolder("b", strPtr("a"))
	svc := NewFolders(repo, NewAccessGuard(), testLogger())

	if err := svc.DeleteFolder(context.Background(), "a", testAdmin); err != nil {
		t.Fatalf("DeleteFolder() error = %v", err)
	}

	if _, ok := repo.folders["a"]; ok {
		t.Error("folder row still present after delete")
	}
	// No cascade: the child keeps its dangling parent reference.
	child := repo.folders["b"]
	if child.ParentID == nil || *child.ParentID != "a" {
		t.Error("child parent reference was altered by the delete")
	}
}
