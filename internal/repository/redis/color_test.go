package redis

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestTable(t *testing.T) *ColorSideTable {
	t.Helper()
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewColorSideTable(client, "").(*ColorSideTable)
}

func TestColorSideTable_GetUnset(t *testing.T) {
	table := newTestTable(t)

	color, err := table.Get(context.Background(), "s1", "missions-root")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if color != "" {
		t.Errorf("expected empty color for unset node, got %q", color)
	}
}

func TestColorSideTable_SetGet(t *testing.T) {
	table := newTestTable(t)
	ctx := context.Background()

	if err := table.Set(ctx, "s1", "missions-root", "#ff8800"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := table.Set(ctx, "s1", "student-docs-root", "#0088ff"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	color, err := table.Get(ctx, "s1", "missions-root")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if color != "#ff8800" {
		t.Errorf("expected #ff8800, got %q", color)
	}

	// Structures are isolated from each other
	color, err = table.Get(ctx, "s2", "missions-root")
	if err != nil {
		t.Fatalf("Get other structure: %v", err)
	}
	if color != "" {
		t.Errorf("expected empty color for other structure, got %q", color)
	}
}

func TestColorSideTable_Overwrite(t *testing.T) {
	table := newTestTable(t)
	ctx := context.Background()

	if err := table.Set(ctx, "s1", "missions-root", "#111111"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if err := table.Set(ctx, "s1", "missions-root", "#222222"); err != nil {
		t.Fatalf("Set again: %v", err)
	}

	color, err := table.Get(ctx, "s1", "missions-root")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if color != "#222222" {
		t.Errorf("expected overwritten color, got %q", color)
	}
}
