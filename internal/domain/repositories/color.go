package repositories

import (
	"context"
)

// ColorSideTable stores colors for nodes that have no backing primary
// record (the virtual roots). Keyed by structure and node ID.
type ColorSideTable interface {
	// Get returns the stored color, empty string when none is set
	Get(ctx context.Context, structureID, nodeID string) (string, error)

	// Set stores the color for a node
	Set(ctx context.Context, structureID, nodeID, color string) error
}
