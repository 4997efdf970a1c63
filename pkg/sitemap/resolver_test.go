package sitemap

import (
	"errors"
	"testing"

	"schemaforge/pkg/knowledge"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name          string
		url           string
		override      string
		wantContainer string
		wantType      string
		wantErr       bool
	}{
		{
			name:     "root resolves to organization",
			url:      "https://ex.com/",
			wantType: "Organization",
		},
		{
			name:     "about page",
			url:      "https://ex.com/about",
			wantType: "AboutPage",
		},
		{
			name:          "service page infers dual",
			url:           "https://ex.com/services/water-damage/",
			wantContainer: "WebContent",
			wantType:      "Service",
		},
		{
			name:          "team page infers dual person",
			url:           "https://ex.com/team/jane-doe/",
			wantContainer: "WebContent",
			wantType:      "Person",
		},
		{
			name:     "location page stays single",
			url:      "https://ex.com/locations/atlanta/",
			wantType: "LocalBusiness",
		},
		{
			name:     "unmatched path falls back to webcontent",
			url:      "https://ex.com/careers/",
			wantType: "WebContent",
		},
		{
			name:          "single override of dual-eligible type promotes to dual",
			url:           "https://ex.com/services/ac/",
			override:      "Service",
			wantContainer: "WebContent",
			wantType:      "Service",
		},
		{
			name:     "override wins over pattern",
			url:      "https://ex.com/services/contact/",
			override: "LocalBusiness",
			wantType: "LocalBusiness",
		},
		{
			name:          "dual override syntax",
			url:           "https://ex.com/anything/",
			override:      "WebContent|Person",
			wantContainer: "WebContent",
			wantType:      "Person",
		},
		{
			name:     "unknown override type",
			url:      "https://ex.com/",
			override: "PlumbingService",
			wantErr:  true,
		},
		{
			name:     "invalid dual combination",
			url:      "https://ex.com/",
			override: "Organization|Service",
			wantErr:  true,
		},
		{
			name:     "same type twice",
			url:      "https://ex.com/",
			override: "WebContent|WebContent",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Resolve(tt.url, tt.override)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve(%q, %q) expected error, got %+v", tt.url, tt.override, got)
				}
				var unknownType *UnknownTypeError
				if !errors.As(err, &unknownType) {
					t.Errorf("Resolve() error = %T, want *UnknownTypeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve(%q, %q) unexpected error: %v", tt.url, tt.override, err)
			}
			if got.ContainerType != tt.wantContainer {
				t.Errorf("Resolve() container = %q, want %q", got.ContainerType, tt.wantContainer)
			}
			if got.Type != tt.wantType {
				t.Errorf("Resolve() type = %q, want %q", got.Type, tt.wantType)
			}
		})
	}
}

func TestResolveDeterministic(t *testing.T) {
	first, err := Resolve("https://ex.com/services/ac/", "")
	if err != nil {
		t.Fatal(err)
	}
	second, err := Resolve("https://ex.com/services/ac/", "")
	if err != nil {
		t.Fatal(err)
	}
	if first != second {
		t.Errorf("Resolve() not deterministic: %+v vs %+v", first, second)
	}
}

func TestResolveOverrideConfidence(t *testing.T) {
	got, err := Resolve("https://ex.com/blog/post/", "Organization")
	if err != nil {
		t.Fatal(err)
	}
	if got.Confidence != knowledge.ConfidenceOverride {
		t.Errorf("override confidence = %q, want %q", got.Confidence, knowledge.ConfidenceOverride)
	}
}

func TestResolveAllCollectsRowErrors(t *testing.T) {
	records := []URLRecord{
		{URL: "https://ex.com/"},
		{URL: "https://ex.com/bad/", OverrideType: "MadeUpType"},
		{URL: "https://ex.com/services/a/"},
	}
	pages, failed := ResolveAll(records)
	if len(pages) != 2 {
		t.Errorf("ResolveAll() pages = %d, want 2", len(pages))
	}
	if len(failed) != 1 {
		t.Fatalf("ResolveAll() failed = %d, want 1", len(failed))
	}
	if _, ok := failed["https://ex.com/bad/"]; !ok {
		t.Error("ResolveAll() should record the failing URL")
	}
}

func TestAssignmentString(t *testing.T) {
	dual := TypeAssignment{ContainerType: "WebContent", Type: "Service"}
	if dual.String() != "WebContent|Service" {
		t.Errorf("String() = %q", dual.String())
	}
	single := TypeAssignment{Type: "LocalBusiness"}
	if single.String() != "LocalBusiness" {
		t.Errorf("String() = %q", single.String())
	}
}
