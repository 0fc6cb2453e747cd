package editor

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/orin-ai/agentdash/pkg/flow"
)

func TestFileCatalog(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tools.json")
	if err := os.WriteFile(path, []byte(`{"or_idle":{"name":"Idle"},"broken":1}`), 0o644); err != nil {
		t.Fatal(err)
	}

	c, err := FileCatalog(path).Catalog(context.Background())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	keys := c.Keys()
	if len(keys) != 2 || keys[0] != "or_idle" || keys[1] != flow.NoTool {
		t.Fatalf("keys = %v", keys)
	}

	if _, err := FileCatalog(filepath.Join(dir, "missing.json")).Catalog(context.Background()); err == nil {
		t.Fatal("expected error for missing file")
	}
}
