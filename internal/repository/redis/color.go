// Package redis holds the small keyed side-tables that have no home in the
// primary store.
package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"dossier/internal/domain/repositories"
)

// ColorSideTable stores node colors in a per-structure hash under
// "colors:<structureID>". Virtual roots have no backing row to carry a
// color column, so their color lives here.
type ColorSideTable struct {
	client *redis.Client
	prefix string
}

// NewColorSideTable creates a redis-backed color side-table. Prefix may be empty.
func NewColorSideTable(client *redis.Client, prefix string) repositories.ColorSideTable {
	if prefix == "" {
		prefix = "colors:"
	}
	return &ColorSideTable{client: client, prefix: prefix}
}

func (t *ColorSideTable) key(structureID string) string {
	return t.prefix + structureID
}

// Get returns the stored color, empty string when none is set
func (t *ColorSideTable) Get(ctx context.Context, structureID, nodeID string) (string, error) {
	color, err := t.client.HGet(ctx, t.key(structureID), nodeID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("get color %s/%s: %w", structureID, nodeID, err)
	}
	return color, nil
}

// Set stores the color for a node
func (t *ColorSideTable) Set(ctx context.Context, structureID, nodeID, color string) error {
	if err := t.client.HSet(ctx, t.key(structureID), nodeID, color).Err(); err != nil {
		return fmt.Errorf("set color %s/%s: %w", structureID, nodeID, err)
	}
	return nil
}
