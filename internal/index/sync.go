package index

import (
	"context"
	"log/slog"

	"github.com/starford/fmstat/internal/parser"
	"github.com/starford/fmstat/internal/storage"
	"github.com/starford/fmstat/internal/value"
)

// DecodeFunc turns raw note bytes into a frontmatter mapping.
type DecodeFunc func(data []byte) (value.Value, error)

// Build walks the vault once and ingests the frontmatter of every note.
// Files that cannot be read or decoded are logged and left out. A nil decode
// uses parser.Decode. Cancelling ctx stops the walk between files.
func Build(ctx context.Context, store storage.Provider, decode DecodeFunc, logger *slog.Logger) (*Index, error) {
	if decode == nil {
		decode = parser.Decode
	}
	if logger == nil {
		logger = slog.Default()
	}

	ix := New()
	scanned, skipped := 0, 0
	for p := range store.Walk() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		scanned++

		data, err := store.Read(p)
		if err != nil {
			skipped++
			logger.Warn("scan: read failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(ix, p, data, decode); err != nil {
			skipped++
			logger.Warn("scan: decode failed", slog.String("path", p), slog.String("error", err.Error()))
			continue
		}
		logger.Debug("scan: indexed", slog.String("path", p))
	}

	logger.Info("scan: done",
		slog.Int("scanned", scanned),
		slog.Int("indexed", ix.Len()),
		slog.Int("skipped", skipped),
	)
	return ix, nil
}

// indexFile decodes data and ingests it under path.
func indexFile(ix *Index, path string, data []byte, decode DecodeFunc) error {
	fm, err := decode(data)
	if err != nil {
		return err
	}
	ix.Ingest(path, fm)
	return nil
}
