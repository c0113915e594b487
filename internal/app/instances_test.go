package app_test

import (
	"context"
	"testing"

	"lockbox/internal/app"
)

func TestInstanceDir_AddListRemove(t *testing.T) {
	ctx := context.Background()
	dir := app.NewInstanceDir(t.TempDir())

	recs, err := dir.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 0 {
		t.Fatal("fresh directory should be empty")
	}

	a, err := dir.Add("alpha")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	b, err := dir.Add("beta")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if a.ID == b.ID {
		t.Fatal("workspace ids must be unique")
	}

	ids, err := dir.IDs()
	if err != nil {
		t.Fatalf("ids: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("ids = %v, want two entries", ids)
	}

	if err := dir.Remove(ctx, ids[0]); err != nil {
		t.Fatalf("remove: %v", err)
	}
	recs, err = dir.List()
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(recs) != 1 || recs[0].ID != b.ID {
		t.Fatalf("recs = %v, want only %s", recs, b.ID)
	}

	// Removing an unknown id is a no-op.
	if err := dir.Remove(ctx, "missing"); err != nil {
		t.Fatalf("remove missing: %v", err)
	}
}
