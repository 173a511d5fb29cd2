package noteservice

import (
	"context"
	"errors"
	"testing"

	"github.com/starford/fmstat/internal/apperr"
	"github.com/starford/fmstat/internal/index"
	"github.com/starford/fmstat/internal/testutil"
	"github.com/starford/fmstat/internal/value"
)

func testService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	_, store := testutil.TestVault(t, testutil.HubVault)
	ix, err := index.Build(context.Background(), store, nil, testutil.Logger())
	if err != nil {
		t.Fatal(err)
	}
	return NewService(ix, store, opts...)
}

func TestStats(t *testing.T) {
	svc := testService(t)
	st := svc.Stats(context.Background())
	if st.TotalNotes != 6 || st.WithFrontmatter != 5 {
		t.Errorf("stats = %+v", st)
	}
	if len(st.Attributes) == 0 || st.Attributes[0].Name != "status" || st.Attributes[0].Count != 3 {
		t.Errorf("top attribute = %+v", st.Attributes)
	}
}

func TestValuesAndGroups(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	vals := svc.Values(ctx, "tags", 0, true)
	if len(vals) != 3 || vals[0].Value.String() != "go" || vals[0].Count != 2 {
		t.Errorf("values = %+v", vals)
	}

	groups := svc.Groups(ctx, "status", 0, 1)
	if len(groups) != 2 || groups[0].Count != 2 || len(groups[0].Notes) != 1 {
		t.Errorf("groups = %+v", groups)
	}

	if got := svc.Values(ctx, "missing", 0, false); got == nil || len(got) != 0 {
		t.Errorf("missing attribute = %#v", got)
	}
}

func TestNotes(t *testing.T) {
	svc := testService(t)
	want := value.String("go")
	got := svc.Notes(context.Background(), "tags", &want, 0)
	if len(got) != 2 || got[0] != "c1.md" || got[1] != "c2.md" {
		t.Errorf("notes = %v", got)
	}
}

func TestChildCountAndHubs(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	if n := svc.ChildCount(ctx, value.String("[[Hub]]"), "", ""); n != 4 {
		t.Errorf("child count = %d, want 4", n)
	}
	if n := svc.ChildCount(ctx, value.String("[[Hub]]"), "parent", "none"); n != 2 {
		t.Errorf("parent only = %d, want 2", n)
	}

	hubs := svc.Hubs(ctx, "", "", 1)
	if len(hubs) != 1 || hubs[0].Hub.String() != "[[Hub]]" || hubs[0].Total != 4 {
		t.Errorf("hubs = %+v", hubs)
	}
}

func TestHubAttributesOption(t *testing.T) {
	svc := testService(t, WithHubAttributes("status", ""))
	parent, refs := svc.HubAttributes()
	if parent != "status" || refs != index.DefaultRefsAttribute {
		t.Errorf("attributes = %s, %s", parent, refs)
	}
	if n := svc.ChildCount(context.Background(), value.String("draft"), "", ""); n != 2 {
		t.Errorf("child count = %d, want 2", n)
	}
}

func TestGetNote(t *testing.T) {
	svc := testService(t)
	ctx := context.Background()

	note, err := svc.GetNote(ctx, "c1.md")
	if err != nil {
		t.Fatalf("GetNote: %v", err)
	}
	if note.Body != "body\n" {
		t.Errorf("body = %q", note.Body)
	}
	if len(note.Checksum) != 64 {
		t.Errorf("checksum = %q", note.Checksum)
	}
	if v, _ := note.Frontmatter.Lookup("status"); v.String() != "draft" {
		t.Errorf("status = %v", v)
	}

	if _, err := svc.GetNote(ctx, "broken.md"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("broken.md: err = %v, want ErrNotFound", err)
	}
}
