package index

import (
	"maps"
	"slices"
	"testing"

	"github.com/starford/fmstat/internal/parser"
	"github.com/starford/fmstat/internal/value"
)

func m(pairs ...value.Pair) value.Value { return value.Mapping(pairs...) }

var (
	s  = value.String
	p  = value.P
	ss = value.Strings
)

func testIndex(t *testing.T, notes ...any) *Index {
	t.Helper()
	if len(notes)%2 != 0 {
		t.Fatal("testIndex: want path/frontmatter pairs")
	}
	ix := New()
	for i := 0; i < len(notes); i += 2 {
		ix.Ingest(notes[i].(string), notes[i+1].(value.Value))
	}
	return ix
}

func hubIndex(t *testing.T) *Index {
	return testIndex(t,
		"c1.md", m(p("parent", s("[[Hub]]"))),
		"c2.md", m(p("parent", s("[[Hub]]"))),
		"r1.md", m(p("refs", ss("[[Hub]]", "[[Other]]"))),
		"r2.md", m(p("refs", ss("[[Hub]]"))),
	)
}

func TestIngest(t *testing.T) {
	ix := New()
	if ix.Ingest("null.md", value.Null()) {
		t.Error("null frontmatter stored")
	}
	if ix.Ingest("list.md", ss("a")) {
		t.Error("sequence frontmatter stored")
	}
	if !ix.Ingest("empty.md", m()) {
		t.Error("empty mapping not stored")
	}
	if !ix.Ingest("a.md", m(p("k", s("v")))) {
		t.Error("mapping not stored")
	}
	if ix.Len() != 2 {
		t.Errorf("len = %d, want 2", ix.Len())
	}
	if ix.WithFrontmatter() != 1 {
		t.Errorf("with frontmatter = %d, want 1", ix.WithFrontmatter())
	}
	if _, ok := ix.Get("null.md"); ok {
		t.Error("null.md present")
	}
}

func TestIngest_ReplaceKeepsPosition(t *testing.T) {
	ix := testIndex(t,
		"a.md", m(p("x", s("1"))),
		"b.md", m(p("x", s("2"))),
	)
	ix.Ingest("a.md", m(p("y", s("3"))))

	if got := ix.Paths(); !slices.Equal(got, []string{"a.md", "b.md"}) {
		t.Errorf("paths = %v", got)
	}
	fm, _ := ix.Get("a.md")
	if fm.Has("x") || !fm.Has("y") {
		t.Errorf("a.md = %v, want replaced mapping", fm)
	}
}

func TestIngest_Idempotent(t *testing.T) {
	fm := m(p("status", s("draft")), p("tags", ss("a", "b")))
	once := testIndex(t, "a.md", fm)
	twice := testIndex(t, "a.md", fm, "a.md", fm)

	if !maps.Equal(once.AttributeCounts(), twice.AttributeCounts()) {
		t.Errorf("counts differ: %v vs %v", once.AttributeCounts(), twice.AttributeCounts())
	}
	if twice.Len() != 1 {
		t.Errorf("len = %d, want 1", twice.Len())
	}
}

func TestAttributes(t *testing.T) {
	ix := testIndex(t,
		"a.md", m(p("title", s("A")), p("tags", ss("x"))),
		"b.md", m(p("status", value.Null()), p("title", s(""))),
		"c.md", m(),
	)

	if got := ix.Attributes(); !slices.Equal(got, []string{"status", "tags", "title"}) {
		t.Errorf("attributes = %v", got)
	}

	want := map[string]int{"title": 2, "tags": 1, "status": 1}
	if got := ix.AttributeCounts(); !maps.Equal(got, want) {
		t.Errorf("counts = %v, want %v", got, want)
	}

	stats := ix.AttributeStats()
	names := make([]string, len(stats))
	for i, st := range stats {
		names[i] = st.Name
	}
	// tags seen before status, both count 1.
	if !slices.Equal(names, []string{"title", "tags", "status"}) {
		t.Errorf("stats order = %v", names)
	}
}

func TestAttributeCounts_MatchesBruteForce(t *testing.T) {
	notes := []value.Value{
		m(p("a", s("1")), p("b", s("2"))),
		m(p("b", value.Null())),
		m(p("c", ss()), p("a", value.Bool(false))),
		m(),
	}
	ix := New()
	for i, fm := range notes {
		ix.Ingest(string(rune('a'+i))+".md", fm)
	}

	counts := ix.AttributeCounts()
	for _, k := range []string{"a", "b", "c", "d", ""} {
		want := 0
		for _, fm := range notes {
			if fm.Has(k) {
				want++
			}
		}
		if counts[k] != want {
			t.Errorf("count[%q] = %d, want %d", k, counts[k], want)
		}
	}
}

func TestFilesWithAttribute(t *testing.T) {
	ix := testIndex(t,
		"draft.md", m(p("status", s("draft"))),
		"pub.md", m(p("status", s("published"))),
		"multi.md", m(p("status", ss("draft", "review"))),
		"nested.md", m(p("status", value.Sequence(ss("draft")))),
		"none.md", m(p("title", s("x"))),
	)

	if got := ix.FilesWithAttribute("status", nil, 0); len(got) != 4 {
		t.Errorf("all = %v", got)
	}

	want := s("draft")
	got := ix.FilesWithAttribute("status", &want, 0)
	if !slices.Equal(got, []string{"draft.md", "multi.md"}) {
		t.Errorf("status=draft = %v", got)
	}

	if got := ix.FilesWithAttribute("status", nil, 2); !slices.Equal(got, []string{"draft.md", "pub.md"}) {
		t.Errorf("limit 2 = %v", got)
	}

	if got := ix.FilesWithAttribute("", nil, 0); len(got) != 0 {
		t.Errorf("empty attribute = %v", got)
	}
}

func TestFilesWithAttribute_StatusExample(t *testing.T) {
	ix := testIndex(t,
		"1.md", m(p("status", s("draft"))),
		"2.md", m(p("status", s("published"))),
	)
	want := s("draft")
	if got := ix.FilesWithAttribute("status", &want, 0); !slices.Equal(got, []string{"1.md"}) {
		t.Errorf("got %v, want [1.md]", got)
	}
}

func countsOf(vc []ValueCount) map[value.Canonical]int {
	out := make(map[value.Canonical]int, len(vc))
	for _, c := range vc {
		out[c.Value] = c.Count
	}
	return out
}

func TestValueCounts_Explode(t *testing.T) {
	ix := testIndex(t,
		"n1.md", m(p("refs", ss("[[A]]", "[[B]]"))),
		"n2.md", m(p("refs", ss("[[A]]"))),
		"n3.md", m(p("refs", ss())),
	)

	got := ix.ValueCounts("refs", 0, true)
	want := map[value.Canonical]int{
		value.Normalize(s("[[A]]")): 2,
		value.Normalize(s("[[B]]")): 1,
	}
	if !maps.Equal(countsOf(got), want) {
		t.Errorf("explode = %v, want %v", got, want)
	}
	if got[0].Value != value.Normalize(s("[[A]]")) {
		t.Errorf("first = %v, want [[A]]", got[0].Value)
	}
}

func TestValueCounts_ExplodeSkipsEmpty(t *testing.T) {
	ix := testIndex(t,
		"a.md", m(p("tags", value.Sequence(
			value.Null(), s(""), ss(), m(), s("x"), value.Int(0), value.Bool(false),
		))),
		"b.md", m(p("tags", s("scalar"))),
	)

	got := countsOf(ix.ValueCounts("tags", 0, true))
	want := map[value.Canonical]int{
		value.Normalize(s("x")):            1,
		value.Normalize(value.Int(0)):      1,
		value.Normalize(value.Bool(false)): 1,
		value.Normalize(s("scalar")):       1,
	}
	if !maps.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestValueCounts_Whole(t *testing.T) {
	ix := testIndex(t,
		"a.md", m(p("tags", ss("x", "y"))),
		"b.md", m(p("tags", ss("x", "y"))),
		"c.md", m(p("tags", ss("y", "x"))),
		"d.md", m(p("tags", ss())),
		"e.md", m(p("tags", m())),
	)

	got := ix.ValueCounts("tags", 0, false)
	if len(got) != 3 {
		t.Fatalf("got %d groups: %v", len(got), got)
	}
	if got[0].Value != value.Normalize(ss("x", "y")) || got[0].Count != 2 {
		t.Errorf("first = %v", got[0])
	}
	// Empty list and empty mapping share one canonical form.
	if got[1].Value != value.Normalize(ss()) || got[1].Count != 2 {
		t.Errorf("empty group = %v", got[1])
	}
	if got[2].Count != 1 {
		t.Errorf("reordered list = %v", got[2])
	}
}

func TestValueCounts_LargeIntegersStayDistinct(t *testing.T) {
	ix := New()
	for path, doc := range map[string]string{
		"a.md": "---\nid: 20240101120000001\n---\n",
		"b.md": "---\nid: 20240101120000002\n---\n",
	} {
		fm, err := parser.Decode([]byte(doc))
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		ix.Ingest(path, fm)
	}

	got := ix.ValueCounts("id", 0, false)
	if len(got) != 2 {
		t.Fatalf("values = %v, want two distinct ids", got)
	}
	var ids []string
	for _, vc := range got {
		ids = append(ids, vc.Value.String())
	}
	slices.Sort(ids)
	if !slices.Equal(ids, []string{"20240101120000001", "20240101120000002"}) {
		t.Errorf("ids = %v", ids)
	}
}

func TestValueCounts_TieBreakAndLimit(t *testing.T) {
	ix := testIndex(t,
		"1.md", m(p("k", s("c"))),
		"2.md", m(p("k", s("a"))),
		"3.md", m(p("k", s("b"))),
		"4.md", m(p("k", s("b"))),
	)

	got := ix.ValueCounts("k", 0, false)
	var order []string
	for _, vc := range got {
		order = append(order, vc.Value.String())
	}
	if !slices.Equal(order, []string{"b", "c", "a"}) {
		t.Errorf("order = %v, want [b c a]", order)
	}

	if got := ix.ValueCounts("k", 2, false); len(got) != 2 || got[1].Value.String() != "c" {
		t.Errorf("limit 2 = %v", got)
	}
}

func TestValueNotes(t *testing.T) {
	ix := testIndex(t,
		"1.md", m(p("status", s("draft"))),
		"2.md", m(p("status", s("draft"))),
		"3.md", m(p("status", s("draft"))),
		"4.md", m(p("status", s("done"))),
		"5.md", m(p("other", s("x"))),
	)

	got := ix.ValueNotes("status", 0, 2)
	if len(got) != 2 {
		t.Fatalf("groups = %v", got)
	}
	if got[0].Count != 3 || !slices.Equal(got[0].Notes, []string{"1.md", "2.md"}) {
		t.Errorf("draft = %+v", got[0])
	}
	if got[1].Count != 1 || !slices.Equal(got[1].Notes, []string{"4.md"}) {
		t.Errorf("done = %+v", got[1])
	}

	if got := ix.ValueNotes("status", 1, 0); len(got) != 1 || len(got[0].Notes) != 3 {
		t.Errorf("limit values = %+v", got)
	}
}

func TestChildCount(t *testing.T) {
	ix := hubIndex(t)

	cases := map[string]int{
		"[[Hub]]":     4,
		"[[Other]]":   1,
		"[[Missing]]": 0,
	}
	for hub, want := range cases {
		if got := ix.ChildCount(s(hub), DefaultParentAttribute, DefaultRefsAttribute); got != want {
			t.Errorf("ChildCount(%s) = %d, want %d", hub, got, want)
		}
	}
}

func TestChildCount_ParentAndRefsOnSameNote(t *testing.T) {
	ix := testIndex(t,
		"a.md", m(p("up", s("H")), p("links", ss("H", "H", "X"))),
	)
	if got := ix.ChildCount(s("H"), "up", "links"); got != 2 {
		t.Errorf("got %d, want 2", got)
	}
	// A scalar refs value holds no elements.
	ix.Ingest("b.md", m(p("links", s("X"))))
	if got := ix.ChildCount(s("X"), "up", "links"); got != 1 {
		t.Errorf("scalar refs: got %d, want 1", got)
	}
}

func bruteChildCount(ix *Index, hub value.Value, parentAttr, refsAttr string) int {
	n := 0
	for _, path := range ix.Paths() {
		fm, _ := ix.Get(path)
		if v, ok := fm.Lookup(parentAttr); ok && v.Equal(hub) {
			n++
		}
		if v, ok := fm.Lookup(refsAttr); ok && v.Kind() == value.KindSequence && v.Contains(hub) {
			n++
		}
	}
	return n
}

func TestChildCount_EmptyHubValues(t *testing.T) {
	ix := testIndex(t,
		"a.md", m(p("refs", value.Sequence(s(""), s("x"), value.Null(), ss()))),
		"b.md", m(p("parent", s(""))),
		"c.md", m(p("parent", value.Null())),
		"d.md", m(p("parent", ss())),
	)
	for _, hub := range []value.Value{s(""), value.Null(), ss()} {
		got := ix.ChildCount(hub, DefaultParentAttribute, DefaultRefsAttribute)
		if brute := bruteChildCount(ix, hub, DefaultParentAttribute, DefaultRefsAttribute); got != brute || got != 2 {
			t.Errorf("ChildCount(%#v) = %d, brute force %d, want 2", value.Normalize(hub), got, brute)
		}
	}
	for _, hc := range ix.ChildCounts(DefaultParentAttribute, DefaultRefsAttribute) {
		if want := ix.ChildCount(hc.Hub.Denormalize(), DefaultParentAttribute, DefaultRefsAttribute); hc.Total != want {
			t.Errorf("%#v: total %d, ChildCount %d", hc.Hub, hc.Total, want)
		}
	}
}

func TestChildCounts_AgreesWithChildCount(t *testing.T) {
	ix := hubIndex(t)
	ix.Ingest("mixed.md", m(p("parent", s("[[Other]]")), p("refs", ss("[[Third]]", "[[Hub]]"))))
	ix.Ingest("nested.md", m(p("parent", ss("[[Hub]]"))))

	all := ix.ChildCounts(DefaultParentAttribute, DefaultRefsAttribute)
	if len(all) != 4 {
		t.Fatalf("hubs = %v", all)
	}
	for _, hc := range all {
		hub := hc.Hub.Denormalize()
		single := ix.ChildCount(hub, DefaultParentAttribute, DefaultRefsAttribute)
		if hc.Total != single {
			t.Errorf("%v: total %d, ChildCount %d", hc.Hub, hc.Total, single)
		}
		if hc.Total != hc.Parent+hc.Refs {
			t.Errorf("%v: total %d != %d + %d", hc.Hub, hc.Total, hc.Parent, hc.Refs)
		}
		if brute := bruteChildCount(ix, hub, DefaultParentAttribute, DefaultRefsAttribute); brute != single {
			t.Errorf("%v: brute force %d, ChildCount %d", hc.Hub, brute, single)
		}
	}

	top := all[0]
	if top.Hub != value.Normalize(s("[[Hub]]")) || top.Parent != 2 || top.Refs != 3 || top.Total != 5 {
		t.Errorf("top = %+v", top)
	}
}

func TestChildCounts_TieBreak(t *testing.T) {
	ix := testIndex(t,
		"a.md", m(p("refs", ss("R")), p("parent", s("P"))),
		"b.md", m(p("refs", ss("Q"))),
	)
	all := ix.ChildCounts(DefaultParentAttribute, DefaultRefsAttribute)
	var order []string
	for _, hc := range all {
		order = append(order, hc.Hub.String())
	}
	if !slices.Equal(order, []string{"P", "R", "Q"}) {
		t.Errorf("order = %v, want [P R Q]", order)
	}
}

func TestQueries_EmptyIndex(t *testing.T) {
	ix := New()
	if len(ix.Attributes()) != 0 || len(ix.AttributeStats()) != 0 {
		t.Error("attributes on empty index")
	}
	if len(ix.ValueCounts("x", 0, true)) != 0 || len(ix.ValueNotes("x", 0, 0)) != 0 {
		t.Error("values on empty index")
	}
	if ix.ChildCount(s("H"), "parent", "refs") != 0 || len(ix.ChildCounts("parent", "refs")) != 0 {
		t.Error("hubs on empty index")
	}
}
