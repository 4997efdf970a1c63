package validate

import (
	"errors"
	"strings"
	"testing"

	"schemaforge/pkg/jsonld"
	"schemaforge/pkg/sitemap"
)

func singleRow(url, entityID string) RowInput {
	assignment, _ := sitemap.Resolve(url, "")
	return RowInput{
		URL:        url,
		Assignment: assignment,
		Context:    jsonld.ContextURI,
		Raw:        "{}",
		EntityID:   entityID,
	}
}

func TestValidateCleanGraph(t *testing.T) {
	orgID := "https://example.com/#Organization"
	g := jsonld.FromEntities([]jsonld.Entity{
		{
			"@id":   orgID,
			"@type": "Organization",
			"name":  "Acme",
			"address": map[string]any{
				"@type": "PostalAddress",
				"addressCountry": map[string]any{
					"@type": "Country",
					"name":  "United States",
					"@id":   "http://www.wikidata.org/entity/Q30",
				},
			},
		},
	})

	rep := ValidateGraph(g, []RowInput{singleRow("https://example.com/", orgID)})
	if got := rep.Overall(); got != StatusClean {
		t.Errorf("Overall = %q, want clean: %+v", got, rep.Entities[orgID].Issues)
	}
}

func TestDeprecatedPropertyBlocks(t *testing.T) {
	id := "https://example.com/services/ac/#Service"
	g := jsonld.FromEntities([]jsonld.Entity{
		{"@id": id, "@type": "Service", "name": "AC Repair", "serviceArea": "Atlanta"},
	})

	rep := ValidateGraph(g, nil)
	if rep.StatusFor(id) != StatusBlock {
		t.Fatalf("status = %q, want block", rep.StatusFor(id))
	}
	found := false
	for _, issue := range rep.Entities[id].Issues {
		if issue.Rule == 6 && issue.Severity == SeverityFail {
			found = true
		}
	}
	if !found {
		t.Errorf("no Rule 6 FAIL recorded: %+v", rep.Entities[id].Issues)
	}
}

func TestFabricatedTypeBlocks(t *testing.T) {
	id := "https://example.com/x/#HVACBusiness"
	g := jsonld.FromEntities([]jsonld.Entity{
		{"@id": id, "@type": "HVACBusiness", "name": "Fix-It"},
	})
	rep := ValidateGraph(g, nil)
	if rep.StatusFor(id) != StatusBlock {
		t.Errorf("fabricated type not blocked")
	}
}

func TestDeprecatedTypeBlocks(t *testing.T) {
	id := "https://example.com/p/#WebPage"
	g := jsonld.FromEntities([]jsonld.Entity{
		{"@id": id, "@type": "WebPage"},
	})
	rep := ValidateGraph(g, nil)
	issues := rep.Entities[id].Issues
	if len(issues) == 0 || issues[0].Rule != 5 {
		t.Errorf("issues = %+v, want Rule 5", issues)
	}
}

func TestMissingIDOnMajorEntity(t *testing.T) {
	// nested typed Person without @id, attached to a page entity
	id := "https://example.com/team/#WebContent"
	g := jsonld.FromEntities([]jsonld.Entity{
		{
			"@id":   id,
			"@type": "WebContent",
			"about": map[string]any{"@type": "Person", "name": "Jane"},
		},
	})
	rep := ValidateGraph(g, nil)
	found := false
	for _, issue := range rep.Entities[id].Issues {
		if issue.Rule == 4 {
			found = true
		}
	}
	if !found {
		t.Errorf("missing @id not flagged: %+v", rep.Entities[id].Issues)
	}
}

func TestPhoneAutoFix(t *testing.T) {
	id := "https://example.com/#Organization"
	entity := jsonld.Entity{"@id": id, "@type": "Organization", "telephone": "404.555.1234"}
	g := jsonld.FromEntities([]jsonld.Entity{entity})

	rep := ValidateGraph(g, nil)
	if entity["telephone"] != "+14045551234" {
		t.Errorf("telephone = %v", entity["telephone"])
	}
	if len(rep.Entities[id].AutoFixes) == 0 {
		t.Error("auto-fix not recorded")
	}
	for _, issue := range rep.Entities[id].Issues {
		if issue.Rule == 10 {
			t.Error("Rule 10 warning despite successful fix")
		}
	}
}

func TestPhoneElevenDigits(t *testing.T) {
	entity := jsonld.Entity{"@id": "x", "@type": "Organization", "telephone": "1-404-555-1234"}
	ValidateGraph(jsonld.FromEntities([]jsonld.Entity{entity}), nil)
	if entity["telephone"] != "+14045551234" {
		t.Errorf("telephone = %v", entity["telephone"])
	}
}

func TestPhoneUnfixableWarns(t *testing.T) {
	id := "https://example.com/#Organization"
	entity := jsonld.Entity{"@id": id, "@type": "Organization", "telephone": "555-1234"}
	rep := ValidateGraph(jsonld.FromEntities([]jsonld.Entity{entity}), nil)

	if entity["telephone"] != "555-1234" {
		t.Errorf("short phone mutated to %v", entity["telephone"])
	}
	if rep.StatusFor(id) != StatusWarn {
		t.Errorf("status = %q, want allow-with-warnings", rep.StatusFor(id))
	}
}

func TestTextualDateWarnsNotFixed(t *testing.T) {
	id := "https://example.com/#Organization"
	entity := jsonld.Entity{"@id": id, "@type": "Organization", "foundingDate": "March 3, 2024"}
	rep := ValidateGraph(jsonld.FromEntities([]jsonld.Entity{entity}), nil)

	if entity["foundingDate"] != "March 3, 2024" {
		t.Errorf("textual date mutated to %v", entity["foundingDate"])
	}
	found := false
	for _, issue := range rep.Entities[id].Issues {
		if issue.Rule == 11 && issue.Severity == SeverityWarn {
			found = true
		}
	}
	if !found {
		t.Errorf("no Rule 11 warning: %+v", rep.Entities[id].Issues)
	}
}

func TestNumericDateAutoFixes(t *testing.T) {
	entity := jsonld.Entity{"@id": "x", "@type": "Organization", "foundingDate": "2008/03/15"}
	rep := ValidateGraph(jsonld.FromEntities([]jsonld.Entity{entity}), nil)
	if entity["foundingDate"] != "2008-03-15" {
		t.Errorf("foundingDate = %v", entity["foundingDate"])
	}
	if len(rep.Entities["x"].AutoFixes) == 0 {
		t.Error("auto-fix not recorded")
	}
}

func TestContextVariantsAndScriptTags(t *testing.T) {
	id := "https://example.com/#Organization"
	g := jsonld.FromEntities([]jsonld.Entity{{"@id": id, "@type": "Organization", "name": "Acme"}})

	row := singleRow("https://example.com/", id)
	row.Context = "http://schema.org"
	row.Raw = `<script type="application/ld+json">{}</script>`
	rep := ValidateGraph(g, []RowInput{row})

	result := rep.Entities[id]
	if len(result.AutoFixes) < 2 {
		t.Errorf("AutoFixes = %v, want context fix and script strip", result.AutoFixes)
	}
	if rep.StatusFor(id) != StatusWarn {
		t.Errorf("status = %q", rep.StatusFor(id))
	}

	row.Context = "https://notschema.org"
	rep = ValidateGraph(g, []RowInput{row})
	if rep.StatusFor(id) != StatusBlock {
		t.Error("wrong context not blocked")
	}
}

func TestGenerationFailureBlocksRow(t *testing.T) {
	id := "https://example.com/a/#Service"
	row := singleRow("https://example.com/a/", id)
	row.GenerationErr = errors.New("timeout")
	rep := ValidateGraph(jsonld.NewGraph(), []RowInput{row})
	if rep.StatusFor(id) != StatusBlock {
		t.Errorf("status = %q, want block", rep.StatusFor(id))
	}
}

func TestUnresolvedReference(t *testing.T) {
	id := "https://example.com/a/#Service"
	g := jsonld.FromEntities([]jsonld.Entity{
		{
			"@id":      id,
			"@type":    "Service",
			"name":     "A",
			"provider": map[string]any{"@id": "https://example.com/#Organization"},
		},
	})
	rep := ValidateGraph(g, nil)
	found := false
	for _, issue := range rep.Entities[id].Issues {
		if issue.Rule == 13 {
			found = true
		}
	}
	if !found {
		t.Errorf("dangling reference not flagged: %+v", rep.Entities[id].Issues)
	}
}

func TestExternalURIsNotDangling(t *testing.T) {
	id := "https://example.com/a/#Service"
	g := jsonld.FromEntities([]jsonld.Entity{
		{
			"@id":    id,
			"@type":  "Service",
			"name":   "A",
			"sameAs": map[string]any{"@id": "http://www.wikidata.org/entity/Q186424"},
		},
	})
	rep := ValidateGraph(g, nil)
	for _, issue := range rep.Entities[id].Issues {
		if issue.Rule == 13 {
			t.Errorf("external URI flagged as dangling: %+v", issue)
		}
	}
}

func TestInlineTypedIDResolvesReference(t *testing.T) {
	orgID := "https://example.com/#Organization"
	addressID := "https://example.com/#PostalAddress"
	g := jsonld.FromEntities([]jsonld.Entity{
		{
			"@id":   orgID,
			"@type": "Organization",
			"name":  "Acme",
			"address": map[string]any{
				"@type":           "PostalAddress",
				"@id":             addressID,
				"streetAddress":   "1 Main St",
				"addressLocality": "Atlanta",
				"addressCountry": map[string]any{
					"@type": "Country",
					"name":  "United States",
					"@id":   "http://www.wikidata.org/entity/Q30",
				},
			},
			"location": map[string]any{"@id": addressID},
			"knowsAbout": []any{
				map[string]any{"@id": "https://example.com/#Nowhere"},
			},
		},
	})

	rep := ValidateGraph(g, nil)
	for _, issue := range rep.Entities[orgID].Issues {
		if issue.Rule == 13 && strings.Contains(issue.Message, addressID) {
			t.Errorf("inline-declared id flagged as dangling: %+v", issue)
		}
	}
	found := false
	for _, issue := range rep.Entities[orgID].Issues {
		if issue.Rule == 13 && strings.Contains(issue.Message, "#Nowhere") {
			found = true
		}
	}
	if !found {
		t.Errorf("genuinely dangling reference not flagged: %+v", rep.Entities[orgID].Issues)
	}
}

func TestBidirectionalMirror(t *testing.T) {
	a := "https://example.com/a/#Service"
	b := "https://example.com/b/#Service"
	g := jsonld.FromEntities([]jsonld.Entity{
		{"@id": a, "@type": "Service", "name": "A", "isRelatedTo": []any{map[string]any{"@id": b}}},
		{"@id": b, "@type": "Service", "name": "B"},
	})
	rep := ValidateGraph(g, nil)
	found := false
	for _, issue := range rep.Entities[a].Issues {
		if issue.Rule == 14 {
			found = true
		}
	}
	if !found {
		t.Error("missing mirror not flagged")
	}

	// add the mirror, warning disappears
	entityB, _ := g.Get(b)
	entityB.AddRef("isRelatedTo", a)
	rep = ValidateGraph(g, nil)
	for _, issue := range rep.Entities[a].Issues {
		if issue.Rule == 14 {
			t.Error("mirror present but still flagged")
		}
	}
}

func TestOrphanDetection(t *testing.T) {
	pageID := "https://example.com/a/#Service"
	g := jsonld.FromEntities([]jsonld.Entity{
		{"@id": pageID, "@type": "Service", "name": "A"},
		{"@id": "https://example.com/stray/#Thing", "@type": "Thing", "name": "stray"},
	})
	rep := ValidateGraph(g, []RowInput{singleRow("https://example.com/a/", pageID)})
	found := false
	for _, issue := range rep.Graph.Issues {
		if issue.Rule == 15 && strings.Contains(issue.Message, "stray") {
			found = true
		}
	}
	if !found {
		t.Errorf("orphan not flagged: %+v", rep.Graph.Issues)
	}
}

func TestDualWiring(t *testing.T) {
	url := "https://ex.com/services/ac/"
	containerID := "https://ex.com/services/ac/#WebContent"
	nestedID := "https://ex.com/services/ac/#Service"

	assignment, err := sitemap.Resolve(url, "Service")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if !assignment.IsDual() || assignment.Type != "Service" {
		t.Fatalf("assignment = %+v, want Dual(WebContent, Service)", assignment)
	}

	row := RowInput{
		URL:         url,
		Assignment:  assignment,
		Context:     jsonld.ContextURI,
		Raw:         "{}",
		EntityID:    containerID,
		ContainerID: containerID,
		NestedID:    nestedID,
	}

	// nested side missing subjectOf
	g := jsonld.FromEntities([]jsonld.Entity{
		{"@id": containerID, "@type": "WebContent", "headline": "AC Repair",
			"mainEntity": map[string]any{"@id": nestedID}},
		{"@id": nestedID, "@type": "Service", "name": "AC Repair"},
	})
	rep := ValidateGraph(g, []RowInput{row})

	if rep.RowStatus(row) != StatusWarn {
		t.Errorf("RowStatus = %q, want allow-with-warnings", rep.RowStatus(row))
	}
	found := false
	for _, issue := range rep.Entities[containerID].Issues {
		if issue.Rule == 16 && strings.Contains(issue.Message, "subjectOf") {
			found = true
		}
	}
	if !found {
		t.Errorf("missing subjectOf not flagged: %+v", rep.Entities[containerID].Issues)
	}
}

func TestDualPropertyOwnership(t *testing.T) {
	url := "https://ex.com/services/ac/"
	containerID := "https://ex.com/services/ac/#WebContent"
	nestedID := "https://ex.com/services/ac/#Service"
	assignment, _ := sitemap.Resolve(url, "")

	row := RowInput{
		URL: url, Assignment: assignment, Context: jsonld.ContextURI, Raw: "{}",
		EntityID: containerID, ContainerID: containerID, NestedID: nestedID,
	}

	g := jsonld.FromEntities([]jsonld.Entity{
		{"@id": containerID, "@type": "WebContent",
			"mainEntity": map[string]any{"@id": nestedID},
			"areaServed": []any{map[string]any{"@id": "http://www.wikidata.org/entity/Q23556"}}},
		{"@id": nestedID, "@type": "Service", "name": "AC Repair",
			"subjectOf": map[string]any{"@id": containerID},
			"headline":  "AC Repair in Atlanta"},
	})
	rep := ValidateGraph(g, []RowInput{row})

	var misplaced []string
	for _, issue := range rep.Entities[containerID].Issues {
		if issue.Rule == 16 {
			misplaced = append(misplaced, issue.Message)
		}
	}
	if len(misplaced) != 2 {
		t.Errorf("ownership violations = %v, want areaServed-on-container and headline-on-nested", misplaced)
	}
}

func TestReportMarkdown(t *testing.T) {
	id := "https://example.com/#Organization"
	g := jsonld.FromEntities([]jsonld.Entity{
		{"@id": id, "@type": "Organization", "name": "Acme", "telephone": "404.555.1234"},
	})
	row := singleRow("https://example.com/", id)
	rep := ValidateGraph(g, []RowInput{row})

	md := rep.Markdown([]RowInput{row})
	for _, want := range []string{
		"# Structured Data Validation Report",
		"| URL | Type | Status | Issues |",
		"https://example.com/",
		"## Auto-Fixes Applied",
		"+14045551234",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("report missing %q", want)
		}
	}
}
