package models

import (
	"time"
)

type Document struct {
	ID           string    `json:"id" db:"id"`
	StructureID  string    `json:"structure_id" db:"structure_id"`
	Name         string    `json:"name" db:"name"`
	Size         int64     `json:"size" db:"size"` // bytes
	MimeType     string    `json:"mime_type" db:"mime_type"`
	URL          string    `json:"url" db:"url"`
	StoragePath  string    `json:"storage_path" db:"storage_path"`
	ParentID     *string   `json:"parent_id" db:"parent_id"`   // folder attachment
	MissionID    *string   `json:"mission_id" db:"mission_id"` // mission attachment
	OwnerID      string    `json:"owner_id" db:"owner_id"`
	Restricted   bool      `json:"restricted" db:"restricted"`
	AllowedRoles []string  `json:"allowed_roles" db:"allowed_roles"`
	Personal     bool      `json:"personal"` // synthesized from a profile, never persisted
	Pinned       bool      `json:"pinned" db:"pinned"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// AttachToFolder points the document at a persisted folder (nil = structure
// root) and clears any mission attachment. At most one of parent/mission is
// ever set.
func (d *Document) AttachToFolder(folderID *string) {
	d.ParentID = folderID
	d.MissionID = nil
}

// AttachToMission points the document at a mission and clears the folder
// attachment.
func (d *Document) AttachToMission(missionID string) {
	d.MissionID = &missionID
	d.ParentID = nil
}

// AtStructureRoot reports whether the document sits directly under the
// structure root (no folder, no mission).
func (d *Document) AtStructureRoot() bool {
	return d.ParentID == nil && d.MissionID == nil
}
