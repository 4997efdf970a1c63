package ai

import (
	"fmt"
	"sort"
	"strings"

	"schemaforge/pkg/knowledge"
	"schemaforge/pkg/loader"
	"schemaforge/pkg/sitemap"
)

// SystemPrompt is sent with every generation request. It pins the output
// contract: one raw JSON-LD block, real schema.org types only, properties
// valid for the declared type.
const SystemPrompt = `You are an expert Technical SEO and Semantic Web Engineer specializing in JSON-LD structured data generation.

Your job is to generate a single, valid JSON-LD block for a given URL based on the provided context.

## CRITICAL RULES

1. **@context**: Always "https://schema.org" (HTTPS, no www)
2. **@type**: MUST be a real schema.org type. NEVER fabricate types (no "HVACBusiness", "PlumbingService", etc.)
3. **@id**: Every major entity gets {URL}#{Type} format
4. **No script tags**: Output RAW JSON only, no <script> wrappers
5. **Property-type matching**: Only use properties valid for the declared @type
6. **Telephone**: E.164 format: "+14045551234"
7. **Dates**: ISO 8601: "2008-03-15"
8. **Don't fabricate data**: If information isn't available, OMIT the property entirely

## TYPE-SPECIFIC PROPERTY RULES

### Service
- CAN use: name, description, disambiguatingDescription, url, sameAs, image, logo, provider, brand, areaServed, isRelatedTo, isSimilarTo, serviceType, hasOfferCatalog
- CANNOT use: keywords (CreativeWork property), telephone, email, address, foundingDate

### Organization
- CAN use: name, legalName, description, disambiguatingDescription, url, logo, image, telephone, email, sameAs, keywords, foundingDate, foundingLocation, numberOfEmployees, address, location, areaServed, subOrganization

### LocalBusiness
- Uses @graph array with GeoCoordinates as separate entity
- CAN use keywords (inherits from Organization)
- Must include parentOrganization pointing to Organization @id

### WebContent
- CAN use: keywords, about, creator, mentions, datePublished, headline
- about/creator/contributor/maintainer all point to Organization @id

### AboutPage
- Minimal schema. mainEntity + about point to Organization @id

### Person
- CANNOT use: keywords, logo
- worksFor points to Organization @id

## DEPRECATED, NEVER USE
- Types: WebPage, WebSite
- Properties: serviceArea (use areaServed), significantLink, significantLinks, isBasedOnUrl
- Context: Never use http://schema.org, http://www.schema.org, or https://www.schema.org

## COUNTRY ENTITY RULE
On Organization's PostalAddress, always FULLY define the country with @type, name and @id.
Other entities can use a bare @id reference.

## areaServed RULE
First occurrence of each geographic entity must include @type + name + @id.
Subsequent references can use a bare @id.

## OUTPUT FORMAT
Return ONLY the raw JSON-LD. No markdown code fences. No explanation. No commentary.
Just valid JSON starting with { and ending with }.`

// RowPrompt carries everything one generation request needs.
type RowPrompt struct {
	Page             sitemap.Page
	Domain           string
	PageData         *loader.PageData
	OrgData          *loader.PageData
	HierarchyContext string
}

// Build renders the user prompt for one URL row.
func (p RowPrompt) Build() string {
	assignment := p.Page.Assignment
	template := knowledge.TemplateFor(assignment.PrimaryType())

	var b strings.Builder
	b.WriteString("Generate JSON-LD structured data for this URL.\n\n")
	fmt.Fprintf(&b, "## Target URL\n%s\n\n", p.Page.Record.URL)
	fmt.Fprintf(&b, "## Schema Type\n%s\n\n", assignment.String())
	if assignment.IsDual() {
		fmt.Fprintf(&b,
			"This is a dual-type page: emit an @graph holding a %s entity for the page itself and a %s entity it wraps, linked via mainEntity and subjectOf.\n\n",
			assignment.ContainerType, assignment.Type)
	}
	fmt.Fprintf(&b, "## Domain\n%s\n\n", p.Domain)
	fmt.Fprintf(&b, "## Template (fill in discovered values, remove properties with no data)\n%s\n\n", template)
	fmt.Fprintf(&b, "## Organization Data (shared across all entities)\n%s\n\n", FormatPageData(p.OrgData))
	fmt.Fprintf(&b, "## Page Data (scraped from target URL)\n%s\n\n", FormatPageData(p.PageData))
	fmt.Fprintf(&b, "## CSV Overrides (highest priority, use these over discovered values)\n%s\n\n", FormatOverrides(p.Page.Record.OverrideFields))

	hierarchy := p.HierarchyContext
	if hierarchy == "" {
		hierarchy = "No hierarchy context for this page."
	}
	fmt.Fprintf(&b, "## Page Hierarchy (wire isRelatedTo and isSimilarTo)\n%s\n\n", hierarchy)

	b.WriteString(WikidataReference())
	b.WriteString("\n\n## Instructions\n")
	b.WriteString("1. Fill the template using: CSV overrides > page data > org data > omit\n")
	b.WriteString("2. Remove any property where no data is available, do NOT use placeholder text\n")
	b.WriteString("3. Remove empty arrays []\n")
	b.WriteString("4. For areaServed, include @type + name + @id on first occurrence\n")
	fmt.Fprintf(&b, "5. Wire @id references correctly: %s/#Organization, %s#{Type}\n", strings.TrimRight(p.Domain, "/"), p.Page.Record.URL)
	b.WriteString("6. Ensure telephone is E.164 format\n")
	b.WriteString("7. Ensure dates are ISO 8601\n")
	b.WriteString("8. Return ONLY raw JSON, no markdown, no explanation")

	return b.String()
}

// WikidataReference renders the known Wikidata URI tables as a compact
// prompt section, sorted for stable output.
func WikidataReference() string {
	var b strings.Builder
	b.WriteString("## Known Wikidata URIs (use these when applicable)\n")

	b.WriteString("\n### Countries\n")
	writeURITable(&b, knowledge.WikidataCountries)
	b.WriteString("\n### Cities\n")
	writeURITable(&b, knowledge.WikidataCities)
	b.WriteString("\n### Service Concepts\n")
	writeURITable(&b, knowledge.WikidataServiceConcepts)

	return strings.TrimRight(b.String(), "\n")
}

func writeURITable(b *strings.Builder, table map[string]string) {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(b, "- %s: %s\n", name, table[name])
	}
}

// FormatPageData renders scraped page signals as a prompt section. A failed
// or missing fetch renders as an explicit marker so the model knows to rely
// on overrides alone.
func FormatPageData(data *loader.PageData) string {
	if data == nil {
		return "[No page data available]"
	}
	if data.Err != nil {
		return fmt.Sprintf("[Page fetch failed: %v]", data.Err)
	}

	parts := []string{fmt.Sprintf("URL: %s", data.URL)}
	add := func(label, value string) {
		if value != "" {
			parts = append(parts, fmt.Sprintf("%s: %s", label, value))
		}
	}
	add("Title", data.Title)
	add("H1", data.H1)
	add("Meta Description", data.MetaDescription)
	add("Site Name", data.OGSiteName)
	add("OG Image", data.OGImage)
	add("Logo", data.LogoURL)
	add("Phone", strings.Join(data.PhoneNumbers, ", "))
	add("Email", strings.Join(data.EmailAddresses, ", "))

	social := data.SocialLinks
	if len(social) > 10 {
		social = social[:10]
	}
	add("Social Links", strings.Join(social, ", "))

	if data.BodyText != "" {
		parts = append(parts, fmt.Sprintf("Body Text (excerpt): %s", data.BodyText))
	}
	if len(data.ExistingJSONLD) > 0 {
		parts = append(parts, fmt.Sprintf("Existing JSON-LD found: %d block(s)", len(data.ExistingJSONLD)))
	}
	return strings.Join(parts, "\n")
}

// FormatOverrides renders CSV column overrides in column order.
func FormatOverrides(overrides map[string]string) string {
	if len(overrides) == 0 {
		return "No CSV overrides provided."
	}
	keys := make([]string, 0, len(overrides))
	for key := range overrides {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	lines := []string{"CSV Override Values:"}
	for _, key := range keys {
		lines = append(lines, fmt.Sprintf("%s: %s", key, overrides[key]))
	}
	return strings.Join(lines, "\n")
}
