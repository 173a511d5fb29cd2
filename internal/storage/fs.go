package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/starford/fmstat/internal/apperr"
)

// DefaultSkipDirs lists entry names never descended into or yielded.
var DefaultSkipDirs = []string{".obsidian", ".trash", ".git", "__pycache__", "node_modules"}

// DefaultExtensions lists the recognised note suffixes.
var DefaultExtensions = []string{".md", ".markdown"}

// FS implements Provider backed by the local file system.
type FS struct {
	root   string // absolute path to vault directory
	skip   map[string]struct{}
	exts   map[string]struct{}
	logger *slog.Logger
}

// Option configures an FS.
type Option func(*FS)

// WithSkipDirs replaces the skip set.
func WithSkipDirs(names ...string) Option {
	return func(f *FS) {
		f.skip = toSet(names, false)
	}
}

// WithExtensions replaces the recognised note suffixes. Matching is
// case-insensitive and a missing leading dot is added.
func WithExtensions(exts ...string) Option {
	return func(f *FS) {
		norm := make([]string, 0, len(exts))
		for _, e := range exts {
			if e == "" {
				continue
			}
			if !strings.HasPrefix(e, ".") {
				e = "." + e
			}
			norm = append(norm, e)
		}
		f.exts = toSet(norm, true)
	}
}

// WithLogger sets the logger used to report skipped directories.
func WithLogger(logger *slog.Logger) Option {
	return func(f *FS) {
		f.logger = logger
	}
}

// NewFS creates a new FS provider rooted at the given directory.
// It fails with apperr.ErrRootNotFound or apperr.ErrRootNotADirectory.
func NewFS(root string, opts ...Option) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("storage: %s: %w", root, apperr.ErrRootNotFound)
		}
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: %s: %w", root, apperr.ErrRootNotADirectory)
	}

	f := &FS{
		root:   abs,
		skip:   toSet(DefaultSkipDirs, false),
		exts:   toSet(DefaultExtensions, true),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f, nil
}

// Root returns the absolute vault path.
func (f *FS) Root() string {
	return f.root
}

// safePath resolves a relative path against the vault root and rejects
// any result that escapes it (directory traversal).
func (f *FS) safePath(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	joined := filepath.Join(f.root, cleaned)
	abs, err := filepath.Abs(joined)
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	// Ensure the resolved path is still under root.
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes vault root: %s", rel)
	}
	return abs, nil
}

// Walk yields every note file under the root as a slash-separated path
// relative to it. Entries are visited depth first in lexical order. Hidden
// entries and names in the skip set are pruned. Symlinked directories are
// followed unless they lead back into a directory already being walked.
// Directories that cannot be read are skipped. Each call starts a fresh walk.
func (f *FS) Walk() iter.Seq[string] {
	return func(yield func(string) bool) {
		f.walkDir(f.root, "", make(map[string]struct{}), yield)
	}
}

// walkDir visits dir, whose slash path relative to the root is rel. open
// holds the resolved paths of dir's ancestors. It reports false once yield
// asked to stop.
func (f *FS) walkDir(dir, rel string, open map[string]struct{}, yield func(string) bool) bool {
	real, err := filepath.EvalSymlinks(dir)
	if err != nil {
		real = dir
	}
	if _, cycle := open[real]; cycle {
		f.logger.Debug("storage: skipping symlink cycle", slog.String("path", dir))
		return true
	}
	open[real] = struct{}{}
	defer delete(open, real)

	// ReadDir returns the entries read before any error.
	entries, err := os.ReadDir(dir)
	if err != nil {
		if rel == "" {
			f.logger.Warn("storage: root unreadable", slog.String("path", dir), slog.String("error", err.Error()))
		} else {
			f.logger.Debug("storage: skipping unreadable entry", slog.String("path", dir), slog.String("error", err.Error()))
		}
	}

	for _, d := range entries {
		if f.skipped(d.Name()) {
			continue
		}
		p := filepath.Join(dir, d.Name())
		r := path.Join(rel, d.Name())

		isDir := d.IsDir()
		if d.Type()&fs.ModeSymlink != 0 {
			info, err := os.Stat(p)
			if err != nil {
				continue
			}
			isDir = info.IsDir()
		}
		if isDir {
			if !f.walkDir(p, r, open, yield) {
				return false
			}
			continue
		}
		if f.isNote(p, d) && !yield(r) {
			return false
		}
	}
	return true
}

// Count returns the number of note files Walk would yield.
func (f *FS) Count() int {
	n := 0
	for range f.Walk() {
		n++
	}
	return n
}

// Read returns the raw bytes of a vault file.
func (f *FS) Read(path string) ([]byte, error) {
	abs, err := f.safePath(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: read %s: %w", path, err)
	}
	return data, nil
}

func (f *FS) skipped(name string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}
	_, ok := f.skip[name]
	return ok
}

// isNote reports whether d is a regular file (or a link to one) with a
// recognised suffix.
func (f *FS) isNote(p string, d fs.DirEntry) bool {
	if _, ok := f.exts[strings.ToLower(filepath.Ext(d.Name()))]; !ok {
		return false
	}
	if d.Type().IsRegular() {
		return true
	}
	if d.Type()&fs.ModeSymlink != 0 {
		info, err := os.Stat(p)
		return err == nil && info.Mode().IsRegular()
	}
	return false
}

func toSet(items []string, lower bool) map[string]struct{} {
	out := make(map[string]struct{}, len(items))
	for _, it := range items {
		if lower {
			it = strings.ToLower(it)
		}
		out[it] = struct{}{}
	}
	return out
}
