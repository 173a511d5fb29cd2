package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/starford/fmstat/internal/apperr"
	"github.com/starford/fmstat/internal/value"
)

func TestParseFormat(t *testing.T) {
	cases := map[string]Format{
		"":       FormatTable,
		"table":  FormatTable,
		"TABLE":  FormatTable,
		" Yaml ": FormatYAML,
		"yaml":   FormatYAML,
	}
	for in, want := range cases {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %q, %v; want %q", in, got, err, want)
		}
	}
	if _, err := ParseFormat("json"); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("json: err = %v, want ErrInvalidArgument", err)
	}
}

func TestTable(t *testing.T) {
	var buf bytes.Buffer
	rows := [][]string{
		{"status", "3"},
		{"tags", "12"},
	}
	if err := Table(&buf, "Attributes", []string{"Attribute", "Notes"}, rows); err != nil {
		t.Fatalf("Table: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Attributes", "Attribute", "Notes", "status", "tags", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.HasSuffix(out, "\n") {
		t.Error("output not newline-terminated")
	}
}

func TestNumericColumns(t *testing.T) {
	got := numericColumns(3, [][]string{{"a", "1", "x"}, {"b", "22", "3"}})
	if got[0] || !got[1] || got[2] {
		t.Errorf("numeric = %v", got)
	}
	if got := numericColumns(2, nil); got[0] || got[1] {
		t.Errorf("empty rows = %v", got)
	}
}

func TestYAML(t *testing.T) {
	type row struct {
		Value value.Value `yaml:"value"`
		Count int         `yaml:"count"`
	}
	rows := []row{
		{Value: value.Strings("a", "b"), Count: 2},
		{Value: value.Mapping(value.P("z", value.Int(1)), value.P("a", value.Bool(true))), Count: 1},
	}

	var buf bytes.Buffer
	if err := YAML(&buf, rows); err != nil {
		t.Fatalf("YAML: %v", err)
	}
	want := "- value:\n    - a\n    - b\n  count: 2\n- value:\n    z: 1\n    a: true\n  count: 1\n"
	if buf.String() != want {
		t.Errorf("yaml =\n%s\nwant\n%s", buf.String(), want)
	}
}
