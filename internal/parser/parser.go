// Package parser extracts YAML frontmatter from Markdown content.
package parser

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/starford/fmstat/internal/apperr"
	"github.com/starford/fmstat/internal/value"
)

var bom = []byte{0xEF, 0xBB, 0xBF}

// Result holds the output of parsing a Markdown file.
type Result struct {
	// Frontmatter is always a mapping; it is empty when the file has no block.
	Frontmatter value.Value
	Body        string
}

// Parse splits raw Markdown bytes into frontmatter and body.
//
// A file without a frontmatter block yields an empty mapping. Invalid UTF-8,
// invalid YAML, and blocks that are not a mapping are reported as
// apperr.ErrUndecodable.
func Parse(data []byte) (*Result, error) {
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("invalid utf-8: %w", apperr.ErrUndecodable)
	}
	block, body, ok := splitFrontmatter(data)
	if !ok {
		return &Result{Frontmatter: value.Mapping(), Body: string(data)}, nil
	}

	fm, err := decodeBlock(block)
	if err != nil {
		return nil, err
	}
	return &Result{Frontmatter: fm, Body: body}, nil
}

// Decode returns only the frontmatter mapping of data.
func Decode(data []byte) (value.Value, error) {
	res, err := Parse(data)
	if err != nil {
		return value.Value{}, err
	}
	return res.Frontmatter, nil
}

func decodeBlock(block []byte) (value.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(block, &doc); err != nil {
		return value.Value{}, fmt.Errorf("%w: %v", apperr.ErrUndecodable, err)
	}
	if doc.Kind == 0 {
		// Blank or comment-only block.
		return value.Mapping(), nil
	}
	fm, err := value.FromNode(&doc)
	if err != nil {
		return value.Value{}, fmt.Errorf("%w: %v", apperr.ErrUndecodable, err)
	}
	switch fm.Kind() {
	case value.KindNull:
		return value.Mapping(), nil
	case value.KindMapping:
		return fm, nil
	default:
		return value.Value{}, fmt.Errorf("frontmatter is a %s, not a mapping: %w", fm.Kind(), apperr.ErrUndecodable)
	}
}

// splitFrontmatter separates the YAML block between a leading "---" line and
// the next "---" line from the Markdown body. ok is false when either
// delimiter is missing.
func splitFrontmatter(data []byte) (block []byte, body string, ok bool) {
	rest := bytes.TrimPrefix(data, bom)

	line, after := nextLine(rest)
	if !isDelimiter(line) {
		return nil, "", false
	}

	start := after
	for len(after) > 0 {
		line, next := nextLine(after)
		if isDelimiter(line) {
			block = start[:len(start)-len(after)]
			return block, string(next), true
		}
		after = next
	}
	return nil, "", false
}

// nextLine returns the first line of b without its terminator, and the rest.
func nextLine(b []byte) (line, rest []byte) {
	i := bytes.IndexByte(b, '\n')
	if i < 0 {
		return b, nil
	}
	return b[:i], b[i+1:]
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t\r")) == "---"
}
