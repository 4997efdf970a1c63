package knowledge

import "regexp"

// Confidence grades how strongly a URL pattern implies a schema type.
type Confidence string

const (
	ConfidenceHigh     Confidence = "High"
	ConfidenceMedium   Confidence = "Medium"
	ConfidenceLow      Confidence = "Low"
	ConfidenceOverride Confidence = "Override"
)

// URLPattern maps a URL path pattern to a schema type. Patterns are ordered
// most specific first; the first match wins.
type URLPattern struct {
	Pattern    *regexp.Regexp
	SchemaType string
	Confidence Confidence
}

// URLTypePatterns is the ordered pattern list used for type inference.
// Named sub-path patterns (team/person, locations) come before generic
// catch-alls (blog, news).
var URLTypePatterns = []URLPattern{
	{regexp.MustCompile(`^/$`), "Organization", ConfidenceHigh},
	{regexp.MustCompile(`^/about/?$`), "AboutPage", ConfidenceHigh},
	{regexp.MustCompile(`^/about-us/?$`), "AboutPage", ConfidenceHigh},
	{regexp.MustCompile(`^/about/team/[^/]+/?$`), "Person", ConfidenceHigh},
	{regexp.MustCompile(`^/team/[^/]+/?$`), "Person", ConfidenceHigh},
	{regexp.MustCompile(`^/locations/[^/]+/?$`), "LocalBusiness", ConfidenceHigh},
	{regexp.MustCompile(`^/contact/[^/]+/?$`), "LocalBusiness", ConfidenceHigh},
	{regexp.MustCompile(`^/services/?$`), "Service", ConfidenceHigh},
	{regexp.MustCompile(`^/services/.+/?$`), "Service", ConfidenceHigh},
	{regexp.MustCompile(`^/solutions/.+/?$`), "Service", ConfidenceHigh},
	{regexp.MustCompile(`^/blog/.+/?$`), "WebContent", ConfidenceMedium},
	{regexp.MustCompile(`^/news/.+/?$`), "WebContent", ConfidenceMedium},
	{regexp.MustCompile(`^/industries/.+/?$`), "WebContent", ConfidenceMedium},
	{regexp.MustCompile(`^/areas-we-serve/.+/?$`), "WebContent", ConfidenceMedium},
}

// MatchURLPath returns the schema type and confidence for a URL path.
// The root path maps to Organization; an unmatched path falls back to
// WebContent with low confidence.
func MatchURLPath(path string) (string, Confidence) {
	if path == "" || path == "/" {
		return "Organization", ConfidenceHigh
	}
	for _, p := range URLTypePatterns {
		if p.Pattern.MatchString(path) {
			return p.SchemaType, p.Confidence
		}
	}
	return "WebContent", ConfidenceLow
}
