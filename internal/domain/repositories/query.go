package repositories

// DocumentFilter describes an equality filter over the document attachment
// columns. The zero value matches every document of the structure.
type DocumentFilter struct {
	StructureID string

	// ParentID constrains parent_id to the given folder; NullParent
	// constrains it to NULL. At most one of the two is set.
	ParentID   *string
	NullParent bool

	// MissionID constrains mission_id to the given mission; NullMission
	// constrains it to NULL; AnyMission matches any non-null mission_id.
	MissionID   *string
	NullMission bool
	AnyMission  bool
}

// SortField names a server-side sortable column.
type SortField string

const (
	SortCreatedAt SortField = "created_at"
	SortName      SortField = "name"
)

// Sort describes the requested server-side ordering. A nil *Sort means the
// caller accepts store order.
type Sort struct {
	Field SortField
	Desc  bool
}
