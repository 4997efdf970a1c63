// Package sitemap resolves schema types for a batch of URLs and infers the
// parent/child/sibling structure of same-type pages from their paths.
package sitemap

import (
	"fmt"
	"net/url"
	"strings"

	"schemaforge/pkg/knowledge"
)

// URLRecord is one input row: the page URL, an optional schema type override
// and any remaining CSV columns carried as opaque override fields for the
// generation prompt. Immutable after parse.
type URLRecord struct {
	URL            string
	OverrideType   string
	OverrideFields map[string]string
}

// TypeAssignment is the resolved schema type of a URL. A dual assignment
// pairs a WebContent container with a nested domain entity; everything else
// is a single type.
type TypeAssignment struct {
	// ContainerType is set only for dual assignments (always WebContent).
	ContainerType string
	// Type is the single type, or the nested type of a dual assignment.
	Type       string
	Confidence knowledge.Confidence
}

// IsDual reports whether the assignment pairs a container with a nested entity.
func (a TypeAssignment) IsDual() bool {
	return a.ContainerType != ""
}

// String renders the assignment in the Container|Nested form used by CSV
// overrides, or the bare type name for single assignments.
func (a TypeAssignment) String() string {
	if a.IsDual() {
		return a.ContainerType + "|" + a.Type
	}
	return a.Type
}

// PrimaryType is the type used for hierarchy and relationship grouping.
// For dual assignments this is the nested entity type.
func (a TypeAssignment) PrimaryType() string {
	return a.Type
}

// Page pairs an input record with its resolved assignment.
type Page struct {
	Record     URLRecord
	Assignment TypeAssignment
}

// UnknownTypeError reports a CSV override naming a type outside the knowledge
// base, or an invalid dual-type combination. It is row-scoped: the batch
// continues without the row's output.
type UnknownTypeError struct {
	TypeName string
	Reason   string
}

func (e *UnknownTypeError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("unknown schema type %q: %s", e.TypeName, e.Reason)
	}
	return fmt.Sprintf("unknown schema type %q", e.TypeName)
}

// Domain returns the scheme://host origin of a URL with the scheme and host
// lowercased, so the same site always yields the same origin string.
func Domain(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return strings.TrimSuffix(rawURL, "/")
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host)
}

// Path returns the URL path normalized to a trailing-slash form, with the
// root path as "/".
func Path(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "/"
	}
	p := parsed.Path
	if p == "" || p == "/" {
		return "/"
	}
	return strings.TrimRight(p, "/") + "/"
}

// PathSegments returns the non-empty path segments of a URL.
func PathSegments(rawURL string) []string {
	p := strings.Trim(Path(rawURL), "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}
