package models

import (
	"fmt"
	"strings"
)

// LocationKind discriminates the places a listing can be anchored at.
type LocationKind int

const (
	LocationRoot LocationKind = iota
	LocationMissionsRoot
	LocationMission
	LocationStudentDocs
	LocationFolder
)

// Location is a tagged reference to a position in the virtual namespace.
// Mission and Folder carry the referenced ID; the other kinds are singletons
// per structure. Dispatching on Kind replaces the sentinel-id string
// comparisons the namespace otherwise invites.
type Location struct {
	Kind LocationKind
	ID   string // mission ID or folder ID, empty otherwise
}

func Root() Location         { return Location{Kind: LocationRoot} }
func MissionsRoot() Location { return Location{Kind: LocationMissionsRoot} }
func StudentDocs() Location  { return Location{Kind: LocationStudentDocs} }

func MissionLocation(missionID string) Location {
	return Location{Kind: LocationMission, ID: missionID}
}

func FolderLocation(folderID string) Location {
	return Location{Kind: LocationFolder, ID: folderID}
}

// ParseLocation parses the wire form used by the HTTP surface:
// "root", "missions", "student-docs", "mission:<id>", "folder:<id>".
func ParseLocation(s string) (Location, error) {
	switch s {
	case "", "root":
		return Root(), nil
	case "missions":
		return MissionsRoot(), nil
	case "student-docs":
		return StudentDocs(), nil
	}

	if id, ok := strings.CutPrefix(s, "mission:"); ok && id != "" {
		return MissionLocation(id), nil
	}
	if id, ok := strings.CutPrefix(s, "folder:"); ok && id != "" {
		return FolderLocation(id), nil
	}

	return Location{}, fmt.Errorf("invalid location %q", s)
}

// String renders the wire form; the inverse of ParseLocation.
func (l Location) String() string {
	switch l.Kind {
	case LocationRoot:
		return "root"
	case LocationMissionsRoot:
		return "missions"
	case LocationStudentDocs:
		return "student-docs"
	case LocationMission:
		return "mission:" + l.ID
	case LocationFolder:
		return "folder:" + l.ID
	default:
		return "root"
	}
}

// IsVirtual reports whether the location has no backing folder row.
func (l Location) IsVirtual() bool {
	return l.Kind != LocationFolder
}
