package ai

import (
	"strings"
	"testing"

	"schemaforge/pkg/knowledge"
	"schemaforge/pkg/loader"
	"schemaforge/pkg/sitemap"
)

func TestUnmarshalFlexible(t *testing.T) {
	type out struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"standard", `{"name": "test"}`, "test"},
		{"double encoded", `"{\"name\": \"test\"}"`, "test"},
		{"malformed", `{name: 'test'}`, "test"},
		{"duplicate brace", `{{"name": "test"}`, "test"},
		{"trailing comma", `{"name": "test",}`, "test"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var result out
			if err := UnmarshalFlexible(tt.input, &result); err != nil {
				t.Fatalf("UnmarshalFlexible: %v", err)
			}
			if result.Name != tt.want {
				t.Errorf("Name = %q, want %q", result.Name, tt.want)
			}
		})
	}
}

func TestUnmarshalFlexibleRejectsGarbage(t *testing.T) {
	var result map[string]any
	if err := UnmarshalFlexible("", &result); err == nil {
		t.Error("empty input accepted")
	}
}

func TestRowPromptBuild(t *testing.T) {
	assignment, err := sitemap.Resolve("https://example.com/services/seo/", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	prompt := RowPrompt{
		Page: sitemap.Page{
			Record: sitemap.URLRecord{
				URL:            "https://example.com/services/seo/",
				OverrideFields: map[string]string{"name": "SEO Consulting"},
			},
			Assignment: assignment,
		},
		Domain:           "https://example.com",
		PageData:         &loader.PageData{URL: "https://example.com/services/seo/", Title: "SEO"},
		HierarchyContext: "This page is at depth 2.",
	}.Build()

	for _, want := range []string{
		"https://example.com/services/seo/",
		"WebContent|Service",
		"dual-type page",
		"mainEntity and subjectOf",
		"CSV Override Values:\nname: SEO Consulting",
		"This page is at depth 2.",
		"Known Wikidata URIs",
		knowledge.WikidataUSCountryURI,
		"Title: SEO",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if strings.Contains(prompt, "No page data available") {
		t.Error("page data marker rendered despite data present")
	}
}

func TestRowPromptBuildSingleType(t *testing.T) {
	assignment, err := sitemap.Resolve("https://example.com/", "")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	prompt := RowPrompt{
		Page: sitemap.Page{
			Record:     sitemap.URLRecord{URL: "https://example.com/"},
			Assignment: assignment,
		},
		Domain: "https://example.com",
	}.Build()

	if strings.Contains(prompt, "dual-type page") {
		t.Error("single type rendered dual instructions")
	}
	if !strings.Contains(prompt, "## Schema Type\nOrganization") {
		t.Error("prompt missing schema type section")
	}
	if !strings.Contains(prompt, "[No page data available]") {
		t.Error("prompt missing page data marker")
	}
	if !strings.Contains(prompt, "No CSV overrides provided.") {
		t.Error("prompt missing overrides marker")
	}
}

func TestFormatPageDataFetchError(t *testing.T) {
	data := &loader.PageData{URL: "https://example.com/x/"}
	data.Err = errFake{}
	got := FormatPageData(data)
	if !strings.Contains(got, "[Page fetch failed:") {
		t.Errorf("FormatPageData = %q", got)
	}
}

type errFake struct{}

func (errFake) Error() string { return "connection refused" }
