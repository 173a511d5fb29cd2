// Package testutil provides shared test helpers for setting up vaults and indexes.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/starford/fmstat/internal/index"
	"github.com/starford/fmstat/internal/storage"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// WriteFile writes content to a slash-separated path under root, creating
// parent directories.
func WriteFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// TestVault creates a temporary vault holding files (path to content) and
// returns its directory with a storage provider over it.
func TestVault(t *testing.T, files map[string]string) (string, *storage.FS) {
	t.Helper()
	vaultDir := t.TempDir()
	for rel, content := range files {
		WriteFile(t, vaultDir, rel, content)
	}
	store, err := storage.NewFS(vaultDir, storage.WithLogger(Logger()))
	if err != nil {
		t.Fatal(err)
	}
	return vaultDir, store
}

// TestIndex scans a temporary vault holding files.
func TestIndex(t *testing.T, files map[string]string) *index.Index {
	t.Helper()
	_, store := TestVault(t, files)
	ix, err := index.Build(context.Background(), store, nil, Logger())
	if err != nil {
		t.Fatal(err)
	}
	return ix
}

// HubVault holds two parent children, two refs notes, and a few notes that
// exercise the other queries.
var HubVault = map[string]string{
	"hub.md":         "---\ntitle: Hub\ntags: [index]\n---\n# Hub\n",
	"c1.md":          "---\nparent: \"[[Hub]]\"\nstatus: draft\ntags: [go, notes]\n---\nbody\n",
	"c2.md":          "---\nparent: \"[[Hub]]\"\nstatus: published\ntags: [go]\n---\n",
	"r/r1.md":        "---\nrefs:\n  - \"[[Hub]]\"\n  - \"[[Other]]\"\nstatus: draft\n---\n",
	"r/r2.md":        "---\nrefs: [\"[[Hub]]\"]\n---\n",
	"plain.md":       "no frontmatter here\n",
	"broken.md":      "---\ntitle: [unclosed\n---\n",
	".obsidian/x.md": "---\ntitle: hidden\n---\n",
}
