package models

import (
	"time"
)

// Mission is the external work-order record. Missions hold documents
// directly without being folders themselves; the namespace projects each one
// into a virtual folder under the missions root.
type Mission struct {
	ID          string    `json:"id" db:"id"`
	Number      string    `json:"number" db:"number"` // e.g. "M-2024-031"
	Description string    `json:"description" db:"description"`
	Company     string    `json:"company" db:"company"`
	FolderColor string    `json:"folder_color" db:"folder_color"`
	StructureID string    `json:"structure_id" db:"structure_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Artifact is a generated file (e.g. a rendered agreement) attached to a
// mission by the generation pipeline. Read-only from the namespace's point
// of view.
type Artifact struct {
	ID        string    `json:"id" db:"id"`
	MissionID string    `json:"mission_id" db:"mission_id"`
	FileName  string    `json:"file_name" db:"file_name"`
	FileSize  int64     `json:"file_size" db:"file_size"`
	FileURL   string    `json:"file_url" db:"file_url"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// AsDocument normalizes an artifact into the document shape used by
// listings. Artifacts carry no storage path of their own and stay pinned to
// their mission.
func (a *Artifact) AsDocument(structureID string) Document {
	d := Document{
		ID:          a.ID,
		StructureID: structureID,
		Name:        a.FileName,
		Size:        a.FileSize,
		MimeType:    "application/pdf",
		URL:         a.FileURL,
		CreatedAt:   a.CreatedAt,
	}
	d.AttachToMission(a.MissionID)
	return d
}
