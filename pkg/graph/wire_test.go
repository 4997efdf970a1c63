package graph

import (
	"errors"
	"testing"

	"schemaforge/pkg/jsonld"
	"schemaforge/pkg/sitemap"
)

func resolvedPage(t *testing.T, url, override string) sitemap.Page {
	t.Helper()
	assignment, err := sitemap.Resolve(url, override)
	if err != nil {
		t.Fatalf("Resolve(%q, %q): %v", url, override, err)
	}
	return sitemap.Page{
		Record:     sitemap.URLRecord{URL: url, OverrideType: override},
		Assignment: assignment,
	}
}

func fragmentRow(t *testing.T, page sitemap.Page, entities ...jsonld.Entity) RowFragment {
	t.Helper()
	return RowFragment{
		Page:     page,
		Raw:      "{}",
		Fragment: &jsonld.Fragment{Context: jsonld.ContextURI, Entities: entities},
	}
}

func TestWireSingleRowCanonicalID(t *testing.T) {
	page := resolvedPage(t, "https://example.com/", "")
	row := fragmentRow(t, page, jsonld.Entity{
		"@type": "Organization",
		"@id":   "https://example.com#org", // model-invented id
		"name":  "Acme",
	})

	result := Wire("https://example.com", []RowFragment{row}, sitemap.Hierarchy{})

	orgID := "https://example.com/#Organization"
	org, ok := result.Graph.Get(orgID)
	if !ok {
		t.Fatalf("organization not at canonical id, graph ids: %v", result.Graph.IDs())
	}
	if org["name"] != "Acme" {
		t.Errorf("name = %v", org["name"])
	}
	if result.Rows[0].EntityID != orgID {
		t.Errorf("row EntityID = %q", result.Rows[0].EntityID)
	}
}

func TestWireDualRowSplitsAndLinks(t *testing.T) {
	page := resolvedPage(t, "https://example.com/services/seo/", "")
	// model emitted only the nested Service with a page property misplaced
	row := fragmentRow(t, page, jsonld.Entity{
		"@type":       "Service",
		"name":        "SEO",
		"headline":    "SEO in Atlanta",
		"serviceType": "Search engine optimization",
	})

	result := Wire("https://example.com", []RowFragment{row}, sitemap.Hierarchy{})

	containerID := "https://example.com/services/seo/#WebContent"
	nestedID := "https://example.com/services/seo/#Service"

	container, ok := result.Graph.Get(containerID)
	if !ok {
		t.Fatalf("container missing, ids: %v", result.Graph.IDs())
	}
	nested, ok := result.Graph.Get(nestedID)
	if !ok {
		t.Fatal("nested missing")
	}

	if refs := container.RefIDs("mainEntity"); len(refs) != 1 || refs[0] != nestedID {
		t.Errorf("mainEntity = %v", refs)
	}
	if refs := nested.RefIDs("subjectOf"); len(refs) != 1 || refs[0] != containerID {
		t.Errorf("subjectOf = %v", refs)
	}

	// page property moved to the container side
	if container["headline"] != "SEO in Atlanta" {
		t.Errorf("headline on container = %v", container["headline"])
	}
	if _, misplaced := nested["headline"]; misplaced {
		t.Error("headline left on nested entity")
	}
	if nested["serviceType"] != "Search engine optimization" {
		t.Errorf("serviceType = %v", nested["serviceType"])
	}
}

func TestWireDualRowBothTypesOnOneEntity(t *testing.T) {
	page := resolvedPage(t, "https://example.com/services/seo/", "")
	// model collapsed the pair into a single entity declaring both types
	row := fragmentRow(t, page, jsonld.Entity{
		"@type":       []any{"WebContent", "Service"},
		"name":        "SEO",
		"headline":    "SEO in Atlanta",
		"serviceType": "Search engine optimization",
	})

	result := Wire("https://example.com", []RowFragment{row}, sitemap.Hierarchy{})

	containerID := "https://example.com/services/seo/#WebContent"
	nestedID := "https://example.com/services/seo/#Service"

	container, ok := result.Graph.Get(containerID)
	if !ok {
		t.Fatalf("container missing, ids: %v", result.Graph.IDs())
	}
	nested, ok := result.Graph.Get(nestedID)
	if !ok {
		t.Fatal("nested missing")
	}

	if nested.Type() != "Service" {
		t.Errorf("nested @type = %v", nested["@type"])
	}
	if refs := container.RefIDs("mainEntity"); len(refs) != 1 || refs[0] != nestedID {
		t.Errorf("mainEntity = %v", refs)
	}
	if refs := nested.RefIDs("subjectOf"); len(refs) != 1 || refs[0] != containerID {
		t.Errorf("subjectOf = %v", refs)
	}
	if container["headline"] != "SEO in Atlanta" {
		t.Errorf("headline on container = %v", container["headline"])
	}
	if nested["serviceType"] != "Search engine optimization" {
		t.Errorf("serviceType = %v", nested["serviceType"])
	}
}

func TestWireFailedRowPlaceholder(t *testing.T) {
	page := resolvedPage(t, "https://example.com/services/seo/", "")
	row := RowFragment{Page: page, GenerationErr: errors.New("timeout")}

	result := Wire("https://example.com", []RowFragment{row}, sitemap.Hierarchy{})

	nested, ok := result.Graph.Get("https://example.com/services/seo/#Service")
	if !ok {
		t.Fatal("placeholder nested entity missing")
	}
	if nested["error"] != "generation_failed" {
		t.Errorf("marker = %v", nested["error"])
	}
	// both dual sides exist and are linked even for placeholders
	container, ok := result.Graph.Get("https://example.com/services/seo/#WebContent")
	if !ok {
		t.Fatal("placeholder container missing")
	}
	if refs := container.RefIDs("mainEntity"); len(refs) != 1 {
		t.Errorf("mainEntity = %v", refs)
	}
	if result.Rows[0].GenerationErr == nil {
		t.Error("generation error not carried to validator input")
	}
}

func TestWireDeduplicatesOrganization(t *testing.T) {
	home := resolvedPage(t, "https://example.com/", "")
	about := resolvedPage(t, "https://example.com/about/", "AboutPage")

	rows := []RowFragment{
		fragmentRow(t, home, jsonld.Entity{
			"@type": "Organization", "name": "Acme", "telephone": "+14045551234",
		}),
		fragmentRow(t, about,
			jsonld.Entity{
				"@type": "AboutPage", "name": "About Acme",
				"about": map[string]any{"@id": "https://example.com/#Organization"},
			},
			// second fragment re-describes the organization
			jsonld.Entity{
				"@type": "Organization", "@id": "https://example.com#Organization",
				"name": "Acme", "email": "info@example.com", "telephone": "",
			},
		),
	}

	result := Wire("https://example.com", rows, sitemap.Hierarchy{})

	count := 0
	for _, entity := range result.Graph.Entities() {
		if entity.Type() == "Organization" {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("organization count = %d, want 1", count)
	}

	org, _ := result.Graph.Get("https://example.com/#Organization")
	if org["telephone"] != "+14045551234" {
		t.Errorf("non-empty telephone lost: %v", org["telephone"])
	}
	if org["email"] != "info@example.com" {
		t.Errorf("merged email missing: %v", org["email"])
	}
}

func TestWireMaterializesHierarchy(t *testing.T) {
	pages := []sitemap.Page{
		resolvedPage(t, "https://example.com/services/a/", ""),
		resolvedPage(t, "https://example.com/services/a/b/", ""),
		resolvedPage(t, "https://example.com/services/a/c/", ""),
	}
	hierarchy := sitemap.DetectHierarchy(pages)

	var rows []RowFragment
	for _, page := range pages {
		rows = append(rows, fragmentRow(t, page, jsonld.Entity{
			"@type": "Service", "name": page.Record.URL,
		}))
	}

	result := Wire("https://example.com", rows, hierarchy)

	a, _ := result.Graph.Get("https://example.com/services/a/#Service")
	b, _ := result.Graph.Get("https://example.com/services/a/b/#Service")
	c, _ := result.Graph.Get("https://example.com/services/a/c/#Service")
	if a == nil || b == nil || c == nil {
		t.Fatalf("service entities missing: %v", result.Graph.IDs())
	}

	wantRef := func(e jsonld.Entity, property, id string) {
		t.Helper()
		for _, ref := range e.RefIDs(property) {
			if ref == id {
				return
			}
		}
		t.Errorf("%s missing %s -> %s (have %v)", e.ID(), property, id, e.RefIDs(property))
	}

	wantRef(a, "isRelatedTo", b.ID())
	wantRef(b, "isRelatedTo", a.ID())
	wantRef(a, "isRelatedTo", c.ID())
	wantRef(b, "isSimilarTo", c.ID())
	wantRef(c, "isSimilarTo", b.ID())

	for _, ref := range b.RefIDs("isRelatedTo") {
		if ref == c.ID() {
			t.Error("siblings wired as parent/child")
		}
	}
}

func TestWireLocationRelationships(t *testing.T) {
	home := resolvedPage(t, "https://example.com/", "")
	loc := resolvedPage(t, "https://example.com/locations/atlanta/", "LocalBusiness")

	rows := []RowFragment{
		fragmentRow(t, home, jsonld.Entity{"@type": "Organization", "name": "Acme"}),
		fragmentRow(t, loc, jsonld.Entity{"@type": "LocalBusiness", "name": "Acme Atlanta"}),
	}

	result := Wire("https://example.com", rows, sitemap.Hierarchy{})

	orgID := "https://example.com/#Organization"
	lbID := "https://example.com/locations/atlanta/#LocalBusiness"

	org, _ := result.Graph.Get(orgID)
	lb, _ := result.Graph.Get(lbID)
	if org == nil || lb == nil {
		t.Fatalf("entities missing: %v", result.Graph.IDs())
	}
	if refs := org.RefIDs("subOrganization"); len(refs) != 1 || refs[0] != lbID {
		t.Errorf("subOrganization = %v", refs)
	}
	if refs := lb.RefIDs("parentOrganization"); len(refs) != 1 || refs[0] != orgID {
		t.Errorf("parentOrganization = %v", refs)
	}
}

func TestWireEnrichment(t *testing.T) {
	page := resolvedPage(t, "https://example.com/services/plumbing/", "")
	row := fragmentRow(t, page, jsonld.Entity{
		"@type": "Service",
		"name":  "Plumbing",
		"areaServed": []any{
			map[string]any{"@type": "City", "name": "Atlanta, GA"},
		},
	})

	result := Wire("https://example.com", []RowFragment{row}, sitemap.Hierarchy{})

	nested, _ := result.Graph.Get("https://example.com/services/plumbing/#Service")
	if nested == nil {
		t.Fatal("nested entity missing")
	}

	areas := nested["areaServed"].([]any)
	atlanta := areas[0].(map[string]any)
	if id, _ := atlanta["@id"].(string); id == "" {
		t.Error("known city not enriched with Wikidata id")
	}

	// service concept sameAs from the knowledge base
	if refs := nested.RefIDs("sameAs"); len(refs) == 0 {
		t.Error("known service concept not enriched with sameAs")
	}
}

func TestWireRewritesAliasedReferences(t *testing.T) {
	home := resolvedPage(t, "https://example.com/", "")
	about := resolvedPage(t, "https://example.com/about/", "AboutPage")

	rows := []RowFragment{
		fragmentRow(t, home, jsonld.Entity{
			"@type": "Organization", "@id": "https://example.com#MyOrg", "name": "Acme",
		}),
		fragmentRow(t, about, jsonld.Entity{
			"@type": "AboutPage", "name": "About",
			"about": map[string]any{"@id": "https://example.com#MyOrg"},
		}),
	}

	result := Wire("https://example.com", rows, sitemap.Hierarchy{})

	aboutEntity, _ := result.Graph.Get("https://example.com/about/#AboutPage")
	if aboutEntity == nil {
		t.Fatal("about entity missing")
	}
	if refs := aboutEntity.RefIDs("about"); len(refs) != 1 || refs[0] != "https://example.com/#Organization" {
		t.Errorf("about ref not rewritten: %v", refs)
	}
}
