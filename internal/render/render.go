// Package render writes query results as terminal tables or YAML.
package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/starford/fmstat/internal/apperr"
)

// Format selects how results are written.
type Format string

const (
	FormatTable Format = "table"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates a format name case-insensitively. An empty name
// selects FormatTable.
func ParseFormat(name string) (Format, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return FormatTable, nil
	}
	err := validation.Validate(name, validation.In(string(FormatTable), string(FormatYAML)))
	if err != nil {
		return "", fmt.Errorf("format %q: %w", name, apperr.ErrInvalidArgument)
	}
	return Format(name), nil
}

// Table draws rows under headers with an optional title line. Columns whose
// cells are all integers are right-aligned.
func Table(w io.Writer, title string, headers []string, rows [][]string) error {
	numeric := numericColumns(len(headers), rows)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col < len(numeric) && numeric[col]:
				return numberStyle
			default:
				return cellStyle
			}
		})

	var sb strings.Builder
	if title != "" {
		sb.WriteString(TitleStyle.Render(title))
		sb.WriteByte('\n')
	}
	sb.WriteString(t.Render())
	sb.WriteByte('\n')
	_, err := io.WriteString(w, sb.String())
	return err
}

// Note writes a muted footnote line.
func Note(w io.Writer, format string, args ...any) error {
	_, err := fmt.Fprintln(w, MutedStyle.Render(fmt.Sprintf(format, args...)))
	return err
}

// YAML encodes v as a YAML document with two-space indentation.
func YAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("render: yaml: %w", err)
	}
	return enc.Close()
}

func numericColumns(n int, rows [][]string) []bool {
	out := make([]bool, n)
	if len(rows) == 0 {
		return out
	}
	for c := range out {
		out[c] = true
		for _, r := range rows {
			if c >= len(r) {
				continue
			}
			if _, err := strconv.Atoi(r[c]); err != nil {
				out[c] = false
				break
			}
		}
	}
	return out
}
