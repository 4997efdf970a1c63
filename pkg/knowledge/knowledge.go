// Package knowledge holds the static registry behind type resolution, graph
// wiring and validation: schema.org type templates, per-type property rules,
// deprecated type/property mappings, known Wikidata URIs and URL pattern
// inference rules.
//
// All tables are immutable after package init and safe for concurrent reads.
package knowledge

// ValidTypes is the closed set of schema.org types the engine accepts.
// Anything outside this set is treated as fabricated.
var ValidTypes = map[string]struct{}{
	"Organization":              {},
	"LocalBusiness":             {},
	"Service":                   {},
	"WebContent":                {},
	"AboutPage":                 {},
	"Person":                    {},
	"PostalAddress":             {},
	"GeoCoordinates":            {},
	"OpeningHoursSpecification": {},
	"City":                      {},
	"Place":                     {},
	"AdministrativeArea":        {},
	"Country":                   {},
	"State":                     {},
	"OfferCatalog":              {},
	"Offer":                     {},
	"ImageObject":               {},
	"Thing":                     {},
	"CollegeOrUniversity":       {},
	"EducationalOrganization":   {},
	// LocalBusiness subtypes
	"Dentist":                     {},
	"LegalService":                {},
	"MedicalBusiness":             {},
	"ProfessionalService":         {},
	"AutoRepair":                  {},
	"HomeAndConstructionBusiness": {},
}

// MajorTypes are page-level entity types that must carry an @id.
var MajorTypes = map[string]struct{}{
	"Organization":  {},
	"LocalBusiness": {},
	"Service":       {},
	"WebContent":    {},
	"AboutPage":     {},
	"Person":        {},
}

// PageTypes are the types the resolver can assign to a URL.
var PageTypes = []string{
	"Organization",
	"LocalBusiness",
	"Service",
	"WebContent",
	"AboutPage",
	"Person",
}

// DeprecatedTypes maps deprecated schema.org types to usage guidance.
var DeprecatedTypes = map[string]string{
	"WebPage": "Do not use - implied by URL. Use WebContent for content pages",
	"WebSite": "Do not use - implied by domain",
}

// DeprecatedProperties maps deprecated properties to their replacement.
var DeprecatedProperties = map[string]string{
	"serviceArea":      "areaServed",
	"significantLink":  "relatedLink or remove",
	"significantLinks": "relatedLink or remove",
	"isBasedOnUrl":     "isBasedOn",
}

// InvalidProperties lists properties that are NOT valid on certain types.
var InvalidProperties = map[string][]string{
	"Service": {"keywords", "email", "telephone", "address", "foundingDate"},
	"Person":  {"keywords", "logo"},
}

// ValidProperties lists the properties that ARE valid on each page type.
var ValidProperties = map[string][]string{
	"Service": {
		"name", "description", "disambiguatingDescription", "url", "sameAs",
		"image", "logo", "provider", "brand", "areaServed", "isRelatedTo",
		"isSimilarTo", "serviceType", "hasOfferCatalog", "offers",
	},
	"Organization": {
		"name", "legalName", "description", "disambiguatingDescription", "url",
		"logo", "image", "telephone", "email", "sameAs", "keywords",
		"foundingDate", "foundingLocation", "numberOfEmployees", "address",
		"location", "areaServed", "subOrganization", "alternateName",
	},
	"LocalBusiness": {
		"name", "legalName", "description", "disambiguatingDescription", "url",
		"logo", "image", "telephone", "email", "sameAs", "keywords",
		"foundingDate", "foundingLocation", "numberOfEmployees", "address",
		"location", "areaServed", "parentOrganization", "geo", "hasMap",
		"openingHoursSpecification", "priceRange", "alternateName",
	},
	"WebContent": {
		"headline", "description", "disambiguatingDescription", "url", "image",
		"dateCreated", "dateModified", "datePublished", "about", "creator",
		"contributor", "maintainer", "contentLocation", "locationCreated",
		"countryOfOrigin", "mentions", "keywords", "sameAs",
	},
	"AboutPage": {
		"name", "description", "url", "about", "mainEntity",
	},
	"Person": {
		"name", "givenName", "familyName", "jobTitle", "description", "url",
		"image", "worksFor", "sameAs", "alumniOf", "knowsAbout",
	},
}

// BidirectionalProperties maps relationship properties to the mirror property
// expected on the referenced entity. Rule 14 checks these pairs.
var BidirectionalProperties = map[string]string{
	"mainEntity":         "subjectOf",
	"subjectOf":          "mainEntity",
	"subOrganization":    "parentOrganization",
	"parentOrganization": "subOrganization",
	"isRelatedTo":        "isRelatedTo",
	"isSimilarTo":        "isSimilarTo",
}

// IsValidType reports whether name is a known schema.org type.
func IsValidType(name string) bool {
	_, ok := ValidTypes[name]
	return ok
}

// IsMajorType reports whether name is a page-level entity type.
func IsMajorType(name string) bool {
	_, ok := MajorTypes[name]
	return ok
}

// IsPageType reports whether name is a type the resolver can assign.
func IsPageType(name string) bool {
	for _, t := range PageTypes {
		if t == name {
			return true
		}
	}
	return false
}

// IsPropertyInvalid reports whether property is explicitly disallowed on typeName.
func IsPropertyInvalid(typeName, property string) bool {
	for _, p := range InvalidProperties[typeName] {
		if p == property {
			return true
		}
	}
	return false
}
