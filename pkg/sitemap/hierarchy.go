package sitemap

import (
	"sort"
	"strconv"
	"strings"
)

// Relation describes one hierarchy edge between two URLs.
type Relation string

const (
	// RelationChild records that ChildURL's path nests under ParentURL's.
	RelationChild Relation = "child"
	// RelationSibling records two URLs sharing the same immediate parent.
	// The pair is stored once, lexicographically ordered.
	RelationSibling Relation = "sibling"
)

// HierarchyEdge is one derived relationship between two same-family URLs.
type HierarchyEdge struct {
	ParentURL string
	ChildURL  string
	Relation  Relation
}

// Node holds the hierarchy position of one URL within its type family.
type Node struct {
	URL      string
	Type     string
	Depth    int
	Parent   string
	Children []string
	Siblings []string
}

// Hierarchy indexes hierarchy nodes by URL.
type Hierarchy map[string]*Node

// DetectHierarchy infers parent/child/sibling structure from URL paths.
// Only URLs on the same host and sharing the same primary type are compared
// with each other; a Service page never parents a Person page, and a page on
// another domain never parents anything.
//
// The parent of a URL is its closest ancestor in the set: the URL whose path
// segments form the longest strict prefix of its own, ties broken by the
// lexicographically first full path. Siblings share an immediate parent.
func DetectHierarchy(pages []Page) Hierarchy {
	type familyKey struct {
		domain  string
		primary string
	}
	families := make(map[familyKey][]Page)
	for _, page := range pages {
		key := familyKey{
			domain:  Domain(page.Record.URL),
			primary: page.Assignment.PrimaryType(),
		}
		families[key] = append(families[key], page)
	}

	hierarchy := make(Hierarchy)
	for key, family := range families {
		detectFamily(hierarchy, key.primary, family)
	}
	return hierarchy
}

func detectFamily(hierarchy Hierarchy, typeName string, family []Page) {
	segments := make(map[string][]string, len(family))
	for _, page := range family {
		u := page.Record.URL
		segments[u] = PathSegments(u)
		hierarchy[u] = &Node{
			URL:   u,
			Type:  typeName,
			Depth: len(segments[u]),
		}
	}

	for _, page := range family {
		u := page.Record.URL
		parent := closestAncestor(u, segments)
		if parent == "" {
			continue
		}
		hierarchy[u].Parent = parent
		hierarchy[parent].Children = append(hierarchy[parent].Children, u)
	}

	byParent := make(map[string][]string)
	for _, page := range family {
		node := hierarchy[page.Record.URL]
		if node.Parent != "" {
			byParent[node.Parent] = append(byParent[node.Parent], node.URL)
		}
	}
	for _, group := range byParent {
		sort.Strings(group)
		for _, u := range group {
			for _, other := range group {
				if other != u {
					hierarchy[u].Siblings = append(hierarchy[u].Siblings, other)
				}
			}
		}
	}

	for _, page := range family {
		sort.Strings(hierarchy[page.Record.URL].Children)
	}
}

// closestAncestor picks the URL whose segments form the longest strict prefix
// of u's segments. Length ties go to the lexicographically first full path.
func closestAncestor(u string, segments map[string][]string) string {
	own := segments[u]
	best := ""
	bestLen := -1
	for candidate, candidateSegs := range segments {
		if candidate == u {
			continue
		}
		if len(candidateSegs) >= len(own) {
			continue
		}
		if !isSegmentPrefix(candidateSegs, own) {
			continue
		}
		if len(candidateSegs) > bestLen ||
			(len(candidateSegs) == bestLen && candidate < best) {
			best = candidate
			bestLen = len(candidateSegs)
		}
	}
	return best
}

func isSegmentPrefix(prefix, full []string) bool {
	if len(prefix) >= len(full) {
		return false
	}
	for i := range prefix {
		if !strings.EqualFold(prefix[i], full[i]) {
			return false
		}
	}
	return true
}

// Edges flattens the hierarchy into a deterministic edge list: one child edge
// per parent/child pair, one sibling edge per unordered sibling pair.
func (h Hierarchy) Edges() []HierarchyEdge {
	var edges []HierarchyEdge
	seenSibling := make(map[string]struct{})

	urls := make([]string, 0, len(h))
	for u := range h {
		urls = append(urls, u)
	}
	sort.Strings(urls)

	for _, u := range urls {
		node := h[u]
		for _, child := range node.Children {
			edges = append(edges, HierarchyEdge{
				ParentURL: u,
				ChildURL:  child,
				Relation:  RelationChild,
			})
		}
		for _, sibling := range node.Siblings {
			a, b := u, sibling
			if b < a {
				a, b = b, a
			}
			key := a + "\x00" + b
			if _, seen := seenSibling[key]; seen {
				continue
			}
			seenSibling[key] = struct{}{}
			edges = append(edges, HierarchyEdge{
				ParentURL: a,
				ChildURL:  b,
				Relation:  RelationSibling,
			})
		}
	}
	return edges
}

// ContextFor renders the hierarchy position of a URL as prompt context for
// the fragment generator.
func (h Hierarchy) ContextFor(u string) string {
	node, ok := h[u]
	if !ok {
		return "No service hierarchy relationships."
	}
	var b strings.Builder
	b.WriteString("This page is at depth ")
	b.WriteString(strconv.Itoa(node.Depth))
	b.WriteString(".")
	if node.Parent != "" {
		b.WriteString("\nParent page: " + node.Parent)
	}
	if len(node.Children) > 0 {
		b.WriteString("\nChild pages: " + strings.Join(node.Children, ", "))
	}
	if len(node.Siblings) > 0 {
		b.WriteString("\nSibling pages: " + strings.Join(node.Siblings, ", "))
	}
	b.WriteString("\n\nWire isRelatedTo for parent-child connections.")
	b.WriteString("\nWire isSimilarTo for sibling connections.")
	b.WriteString("\nOnly reference URLs that exist in this batch.")
	return b.String()
}
