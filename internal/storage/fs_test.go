package storage

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/starford/fmstat/internal/apperr"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func tempVault(t *testing.T, opts ...Option) (string, *FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := NewFS(dir, opts...)
	if err != nil {
		t.Fatalf("NewFS: %v", err)
	}
	return dir, fs
}

func TestWalk_FiltersAndOrders(t *testing.T) {
	dir, s := tempVault(t)
	writeFile(t, dir, "b.md", "b")
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "sub/c.markdown", "c")
	writeFile(t, dir, "sub/deep/d.MD", "d")
	writeFile(t, dir, "readme.txt", "not a note")
	writeFile(t, dir, ".hidden.md", "hidden")

	got := slices.Collect(s.Walk())
	want := []string{"a.md", "b.md", "sub/c.markdown", "sub/deep/d.MD"}
	if !slices.Equal(got, want) {
		t.Errorf("walk = %v, want %v", got, want)
	}
}

func TestWalk_SkipDirs(t *testing.T) {
	dir, s := tempVault(t)
	writeFile(t, dir, "keep.md", "x")
	for _, skipped := range []string{".obsidian", ".trash", ".git", "__pycache__", "node_modules", ".custom"} {
		writeFile(t, dir, skipped+"/note.md", "x")
	}

	got := slices.Collect(s.Walk())
	if !slices.Equal(got, []string{"keep.md"}) {
		t.Errorf("walk = %v, want [keep.md]", got)
	}
}

func TestWalk_CustomPolicy(t *testing.T) {
	dir, s := tempVault(t, WithSkipDirs("archive"), WithExtensions("txt"))
	writeFile(t, dir, "a.txt", "x")
	writeFile(t, dir, "a.md", "x")
	writeFile(t, dir, "archive/b.txt", "x")
	writeFile(t, dir, "node_modules/c.txt", "x")

	got := slices.Collect(s.Walk())
	want := []string{"a.txt", "node_modules/c.txt"}
	if !slices.Equal(got, want) {
		t.Errorf("walk = %v, want %v", got, want)
	}
}

func TestWalk_IsLazyAndRestartable(t *testing.T) {
	dir, s := tempVault(t)
	writeFile(t, dir, "a.md", "a")
	writeFile(t, dir, "b.md", "b")
	writeFile(t, dir, "c.md", "c")

	var first []string
	for p := range s.Walk() {
		first = append(first, p)
		break
	}
	if len(first) != 1 || first[0] != "a.md" {
		t.Errorf("early stop = %v", first)
	}
	if n := s.Count(); n != 3 {
		t.Errorf("count = %d, want 3", n)
	}
}

func TestWalk_UnreadableDirSkipped(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced for root")
	}
	dir, s := tempVault(t)
	writeFile(t, dir, "ok.md", "x")
	writeFile(t, dir, "locked/secret.md", "x")
	locked := filepath.Join(dir, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	got := slices.Collect(s.Walk())
	if !slices.Equal(got, []string{"ok.md"}) {
		t.Errorf("walk = %v, want [ok.md]", got)
	}
}

func TestWalk_FollowsSymlinkedDirs(t *testing.T) {
	dir, s := tempVault(t)
	outside := t.TempDir()
	writeFile(t, outside, "linked.md", "x")
	writeFile(t, dir, "a/note.md", "x")
	if err := os.Symlink(outside, filepath.Join(dir, "ext")); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	// A link back to an ancestor must not loop.
	if err := os.Symlink(dir, filepath.Join(dir, "a", "loop")); err != nil {
		t.Fatal(err)
	}

	got := slices.Collect(s.Walk())
	want := []string{"a/note.md", "ext/linked.md"}
	if !slices.Equal(got, want) {
		t.Errorf("walk = %v, want %v", got, want)
	}
	if data, err := s.Read("ext/linked.md"); err != nil || string(data) != "x" {
		t.Errorf("Read through link = %q, %v", data, err)
	}
}

func TestRead(t *testing.T) {
	dir, s := tempVault(t)
	writeFile(t, dir, "a/b/c.md", "deep")
	got, err := s.Read("a/b/c.md")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if string(got) != "deep" {
		t.Errorf("content = %q", got)
	}
	if _, err := s.Read("missing.md"); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing: err = %v", err)
	}
}

func TestTraversalBlocked(t *testing.T) {
	_, s := tempVault(t)

	cases := []string{
		"../../etc/passwd",
		"../outside.md",
		"/etc/shadow",
	}
	for _, p := range cases {
		if _, err := s.Read(p); err == nil {
			t.Errorf("expected error for path %q", p)
		}
	}
}

func TestNewFS_NonExistentDir(t *testing.T) {
	_, err := NewFS(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, apperr.ErrRootNotFound) {
		t.Errorf("err = %v, want ErrRootNotFound", err)
	}
}

func TestNewFS_FileNotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.md")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := NewFS(f)
	if !errors.Is(err, apperr.ErrRootNotADirectory) {
		t.Errorf("err = %v, want ErrRootNotADirectory", err)
	}
}
