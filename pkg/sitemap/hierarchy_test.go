package sitemap

import (
	"reflect"
	"strings"
	"testing"
)

func servicePages(urls ...string) []Page {
	pages := make([]Page, 0, len(urls))
	for _, u := range urls {
		pages = append(pages, Page{
			Record:     URLRecord{URL: u},
			Assignment: TypeAssignment{ContainerType: "WebContent", Type: "Service"},
		})
	}
	return pages
}

func TestDetectHierarchyParentChildSiblings(t *testing.T) {
	pages := servicePages(
		"https://ex.com/services/a/",
		"https://ex.com/services/a/b/",
		"https://ex.com/services/a/c/",
	)

	h := DetectHierarchy(pages)

	a := h["https://ex.com/services/a/"]
	b := h["https://ex.com/services/a/b/"]
	c := h["https://ex.com/services/a/c/"]

	if b.Parent != a.URL || c.Parent != a.URL {
		t.Errorf("parents = %q, %q, want both %q", b.Parent, c.Parent, a.URL)
	}
	wantChildren := []string{"https://ex.com/services/a/b/", "https://ex.com/services/a/c/"}
	if !reflect.DeepEqual(a.Children, wantChildren) {
		t.Errorf("children of a = %v, want %v", a.Children, wantChildren)
	}
	if !reflect.DeepEqual(b.Siblings, []string{c.URL}) {
		t.Errorf("siblings of b = %v, want [%s]", b.Siblings, c.URL)
	}
	if !reflect.DeepEqual(c.Siblings, []string{b.URL}) {
		t.Errorf("siblings of c = %v, want [%s]", c.Siblings, b.URL)
	}
	if b.Parent == c.URL || c.Parent == b.URL {
		t.Error("b and c must not be parent/child of each other")
	}
}

func TestDetectHierarchyClosestAncestor(t *testing.T) {
	// /services/ is a valid prefix of /services/a/b/, but /services/a/ is
	// longer; the closest ancestor wins.
	pages := servicePages(
		"https://ex.com/services/",
		"https://ex.com/services/a/",
		"https://ex.com/services/a/b/",
	)

	h := DetectHierarchy(pages)

	if got := h["https://ex.com/services/a/b/"].Parent; got != "https://ex.com/services/a/" {
		t.Errorf("parent of deep page = %q, want closest ancestor", got)
	}
	if got := h["https://ex.com/services/a/"].Parent; got != "https://ex.com/services/" {
		t.Errorf("parent of mid page = %q, want the services index", got)
	}
}

func TestDetectHierarchySkipsGaps(t *testing.T) {
	// No /services/a/ in the set: /services/ is still an ancestor of the
	// deeper page even though the intermediate level is missing.
	pages := servicePages(
		"https://ex.com/services/",
		"https://ex.com/services/a/b/",
	)

	h := DetectHierarchy(pages)

	if got := h["https://ex.com/services/a/b/"].Parent; got != "https://ex.com/services/" {
		t.Errorf("parent across gap = %q, want the services index", got)
	}
}

func TestDetectHierarchySeparatesTypeFamilies(t *testing.T) {
	pages := []Page{
		{
			Record:     URLRecord{URL: "https://ex.com/services/"},
			Assignment: TypeAssignment{ContainerType: "WebContent", Type: "Service"},
		},
		{
			Record:     URLRecord{URL: "https://ex.com/services/people/jane/"},
			Assignment: TypeAssignment{ContainerType: "WebContent", Type: "Person"},
		},
	}

	h := DetectHierarchy(pages)

	if got := h["https://ex.com/services/people/jane/"].Parent; got != "" {
		t.Errorf("cross-family parent = %q, want none", got)
	}
}

func TestDetectHierarchySeparatesDomains(t *testing.T) {
	pages := servicePages(
		"https://ex.com/services/",
		"https://other.com/services/plumbing/",
	)

	h := DetectHierarchy(pages)

	if got := h["https://other.com/services/plumbing/"].Parent; got != "" {
		t.Errorf("cross-domain parent = %q, want none", got)
	}
	if got := h["https://ex.com/services/"].Children; len(got) != 0 {
		t.Errorf("cross-domain children = %v, want none", got)
	}
}

func TestHierarchyEdges(t *testing.T) {
	pages := servicePages(
		"https://ex.com/services/a/",
		"https://ex.com/services/a/b/",
		"https://ex.com/services/a/c/",
	)

	edges := DetectHierarchy(pages).Edges()

	want := []HierarchyEdge{
		{ParentURL: "https://ex.com/services/a/", ChildURL: "https://ex.com/services/a/b/", Relation: RelationChild},
		{ParentURL: "https://ex.com/services/a/b/", ChildURL: "https://ex.com/services/a/c/", Relation: RelationSibling},
	}
	if !reflect.DeepEqual(edges, want) {
		t.Errorf("Edges() = %v, want %v", edges, want)
	}
}

func TestHierarchyContextFor(t *testing.T) {
	pages := servicePages(
		"https://ex.com/services/a/",
		"https://ex.com/services/a/b/",
	)
	h := DetectHierarchy(pages)

	ctx := h.ContextFor("https://ex.com/services/a/b/")
	if got := h.ContextFor("https://ex.com/not-present/"); got != "No service hierarchy relationships." {
		t.Errorf("ContextFor(missing) = %q", got)
	}
	for _, fragment := range []string{"depth 3", "Parent page: https://ex.com/services/a/", "isRelatedTo"} {
		if !strings.Contains(ctx, fragment) {
			t.Errorf("ContextFor() missing %q in:\n%s", fragment, ctx)
		}
	}
}
