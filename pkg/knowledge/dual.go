package knowledge

import "strings"

// DualEligibleTypes are the nested types that pair with a WebContent container
// when inferred from a URL. All other inferred types resolve single.
var DualEligibleTypes = map[string]struct{}{
	"Service": {},
	"Person":  {},
}

// ValidDualTypes are the accepted pipe-delimited container|nested overrides.
var ValidDualTypes = map[string]struct{}{
	"WebContent|Service": {},
	"WebContent|Person":  {},
}

// InvalidDualTypes maps known-bad dual combinations to an explanation.
var InvalidDualTypes = map[string]string{
	"Service|WebContent":      "Container type must be WebContent, nested type second",
	"Organization|Service":    "Container type must be WebContent for dual-type",
	"LocalBusiness|Service":   "Container type must be WebContent for dual-type",
	"WebContent|Organization": "Organization is a site-level entity, not a nested page entity",
	"WebContent|WebContent":   "Same type twice",
}

// IsDualEligible reports whether an inferred type pairs with a WebContent container.
func IsDualEligible(typeName string) bool {
	_, ok := DualEligibleTypes[typeName]
	return ok
}

// IsDualSyntax reports whether a type string uses the Container|Nested form.
func IsDualSyntax(typeName string) bool {
	return strings.Contains(typeName, "|")
}

// SplitDualType parses a pipe-delimited type string into container and nested
// parts. For a single type it returns (type, "").
func SplitDualType(typeName string) (container, nested string) {
	if i := strings.Index(typeName, "|"); i >= 0 {
		return strings.TrimSpace(typeName[:i]), strings.TrimSpace(typeName[i+1:])
	}
	return typeName, ""
}

// CheckDualType validates a Container|Nested combination. It returns an empty
// string when the combination is acceptable, otherwise the reason it is not.
func CheckDualType(typeName string) string {
	if !IsDualSyntax(typeName) {
		return ""
	}
	if _, ok := ValidDualTypes[typeName]; ok {
		return ""
	}
	if reason, ok := InvalidDualTypes[typeName]; ok {
		return reason
	}
	container, nested := SplitDualType(typeName)
	if container == nested {
		return "Same type twice"
	}
	if container != "WebContent" {
		return "Container type must be WebContent for dual-type"
	}
	return ""
}

// ContainerProperties are page-metadata properties that belong on the
// WebContent container side of a dual-typed page.
var ContainerProperties = map[string]struct{}{
	"headline":      {},
	"keywords":      {},
	"dateCreated":   {},
	"dateModified":  {},
	"datePublished": {},
	"creator":       {},
	"contributor":   {},
	"maintainer":    {},
	"mentions":      {},
	"about":         {},
}

// NestedProperties are domain properties that belong on the nested entity side
// of a dual-typed page.
var NestedProperties = map[string]struct{}{
	"provider":        {},
	"brand":           {},
	"areaServed":      {},
	"serviceType":     {},
	"hasOfferCatalog": {},
	"offers":          {},
	"isRelatedTo":     {},
	"isSimilarTo":     {},
	"worksFor":        {},
	"jobTitle":        {},
	"givenName":       {},
	"familyName":      {},
	"alumniOf":        {},
	"knowsAbout":      {},
}

// IsContainerProperty reports whether the property belongs on the container
// side of a dual-typed page.
func IsContainerProperty(property string) bool {
	_, ok := ContainerProperties[property]
	return ok
}

// IsNestedProperty reports whether the property belongs on the nested entity
// side of a dual-typed page.
func IsNestedProperty(property string) bool {
	_, ok := NestedProperties[property]
	return ok
}
