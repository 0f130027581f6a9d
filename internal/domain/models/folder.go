package models

import (
	"time"
)

// FolderKind distinguishes persisted folder rows from the listing entries
// synthesized at resolve time.
type FolderKind string

const (
	FolderPersisted       FolderKind = "persisted"
	FolderMissionsRoot    FolderKind = "missions_root"
	FolderMission         FolderKind = "mission"
	FolderStudentDocsRoot FolderKind = "student_docs_root"
)

// Well-known IDs for the per-structure virtual roots. They identify the
// nodes toward the UI and the color side-table; they never appear as folder
// rows in the store.
const (
	MissionsRootID    = "missions-root"
	StudentDocsRootID = "student-docs-root"
)

type Folder struct {
	ID           string     `json:"id" db:"id"`
	StructureID  string     `json:"structure_id" db:"structure_id"`
	ParentID     *string    `json:"parent_id" db:"parent_id"` // NULL = structure root
	Name         string     `json:"name" db:"name"`
	OwnerID      string     `json:"owner_id" db:"owner_id"`
	Kind         FolderKind `json:"kind"`
	Restricted   bool       `json:"restricted" db:"restricted"`
	AllowedRoles []string   `json:"allowed_roles" db:"allowed_roles"`
	Color        string     `json:"color,omitempty" db:"color"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at"`
}

// IsVirtual reports whether the folder has no backing row.
func (f *Folder) IsVirtual() bool {
	return f.Kind != FolderPersisted
}

// NewMissionsRoot synthesizes the per-structure missions root. Only its
// color comes from storage; everything else is fixed.
func NewMissionsRoot(structureID, color string) Folder {
	return Folder{
		ID:          MissionsRootID,
		StructureID: structureID,
		Name:        "Missions",
		Kind:        FolderMissionsRoot,
		Color:       color,
	}
}

// NewStudentDocsRoot synthesizes the per-structure student documents root.
func NewStudentDocsRoot(structureID, color string) Folder {
	return Folder{
		ID:          StudentDocsRootID,
		StructureID: structureID,
		Name:        "Documents étudiants",
		Kind:        FolderStudentDocsRoot,
		Color:       color,
	}
}

// NewMissionFolder projects a mission record into the namespace as a
// one-level-deep virtual folder. The folder ID equals the mission ID and the
// parent is pinned to the missions root.
func NewMissionFolder(m *Mission) Folder {
	parent := MissionsRootID
	name := m.Number
	if name == "" {
		name = m.Description
	}
	return Folder{
		ID:          m.ID,
		StructureID: m.StructureID,
		ParentID:    &parent,
		Name:        name,
		Kind:        FolderMission,
		Color:       m.FolderColor,
		CreatedAt:   m.CreatedAt,
	}
}
