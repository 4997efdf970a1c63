// Package jsonld models JSON-LD entities and graphs as flat collections
// keyed by @id, with explicit reference values instead of nesting. Fragments
// arriving from the model are untrusted: parsing repairs what it can and
// reports what it cannot.
package jsonld

import (
	"net/url"
	"strings"
)

// ContextURI is the only accepted @context value.
const ContextURI = "https://schema.org"

// Entity is one node in the graph: a property map carrying @id, @type and
// schema.org properties. Values are scalars, lists, nested objects or
// {"@id": ...} references.
type Entity map[string]any

// ID returns the entity's @id, or the empty string.
func (e Entity) ID() string {
	id, _ := e["@id"].(string)
	return id
}

// Type returns the entity's primary @type. Multi-typed entities return the
// first listed type.
func (e Entity) Type() string {
	types := e.Types()
	if len(types) == 0 {
		return ""
	}
	return types[0]
}

// Types returns all declared @type values.
func (e Entity) Types() []string {
	switch v := e["@type"].(type) {
	case string:
		return []string{v}
	case []any:
		var types []string
		for _, item := range v {
			if s, ok := item.(string); ok {
				types = append(types, s)
			}
		}
		return types
	}
	return nil
}

// Has reports whether the entity carries the property with a non-nil value.
func (e Entity) Has(property string) bool {
	v, ok := e[property]
	return ok && v != nil
}

// SetRef sets property to a bare {"@id": id} reference.
func (e Entity) SetRef(property, id string) {
	e[property] = map[string]any{"@id": id}
}

// AddRef appends a bare {"@id": id} reference to a list-valued property,
// skipping duplicates. A scalar or object value already present is folded
// into the list first.
func (e Entity) AddRef(property, id string) {
	ref := map[string]any{"@id": id}
	existing, ok := e[property]
	if !ok || existing == nil {
		e[property] = []any{ref}
		return
	}
	list, ok := existing.([]any)
	if !ok {
		list = []any{existing}
	}
	for _, item := range list {
		if refID(item) == id {
			return
		}
	}
	e[property] = append(list, ref)
}

// RefIDs returns every @id referenced from the property: a bare reference, a
// list of references, or the @id of a nested object.
func (e Entity) RefIDs(property string) []string {
	return collectRefIDs(e[property])
}

func collectRefIDs(value any) []string {
	switch v := value.(type) {
	case map[string]any:
		if id, ok := v["@id"].(string); ok && id != "" {
			return []string{id}
		}
	case []any:
		var ids []string
		for _, item := range v {
			ids = append(ids, collectRefIDs(item)...)
		}
		return ids
	}
	return nil
}

// refID returns the @id of a reference value, or "".
func refID(value any) string {
	if m, ok := value.(map[string]any); ok {
		if id, ok := m["@id"].(string); ok {
			return id
		}
	}
	return ""
}

// IsBareRef reports whether value is a reference object carrying only an @id
// (no @type, no name) and returns that id.
func IsBareRef(value any) (string, bool) {
	m, ok := value.(map[string]any)
	if !ok {
		return "", false
	}
	id, ok := m["@id"].(string)
	if !ok || id == "" {
		return "", false
	}
	if _, hasType := m["@type"]; hasType {
		return "", false
	}
	if _, hasName := m["name"]; hasName {
		return "", false
	}
	return id, true
}

// NestedTyped returns the direct object values of the entity that declare
// their own @type (an inline PostalAddress, ImageObject and the like).
func (e Entity) NestedTyped() []Entity {
	var nested []Entity
	for key, value := range e {
		if strings.HasPrefix(key, "@") {
			continue
		}
		if m, ok := value.(map[string]any); ok {
			if _, typed := m["@type"]; typed {
				nested = append(nested, Entity(m))
			}
		}
	}
	return nested
}

// NormalizeURL canonicalizes a page URL: scheme and host lowercased, query
// dropped, path in trailing-slash form. The wirer and validator both key by
// this form so the same page always resolves to the same @id.
func NormalizeURL(raw string) string {
	parsed, err := url.Parse(raw)
	if err != nil || parsed.Host == "" {
		return strings.TrimRight(raw, "/") + "/"
	}
	path := parsed.Path
	if path == "" || path == "/" {
		path = "/"
	} else {
		path = strings.TrimRight(path, "/") + "/"
	}
	return strings.ToLower(parsed.Scheme) + "://" + strings.ToLower(parsed.Host) + path
}

// CanonicalID builds the canonical @id for a page-bound entity:
// the normalized URL plus a #Type fragment.
func CanonicalID(pageURL, typeName string) string {
	return NormalizeURL(pageURL) + "#" + typeName
}

// OrganizationID builds the canonical site-level Organization @id for a
// domain origin.
func OrganizationID(domain string) string {
	return strings.TrimRight(domain, "/") + "/#Organization"
}
