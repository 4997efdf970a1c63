package validate

import (
	"regexp"
	"strings"

	"github.com/araddon/dateparse"

	"schemaforge/pkg/jsonld"
	"schemaforge/pkg/knowledge"
)

var (
	e164Pattern    = regexp.MustCompile(`^\+\d{10,15}$`)
	isoDatePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}($|T\d{2}:\d{2}:\d{2})`)
	numericDate    = regexp.MustCompile(`^[\d\-/. :]+$`)
	nonDigits      = regexp.MustCompile(`\D`)
)

// contextFixups are the @context variants Rule 2 silently normalizes
// instead of failing.
var contextFixups = map[string]struct{}{
	"http://schema.org":      {},
	"http://www.schema.org":  {},
	"https://www.schema.org": {},
}

var dateProperties = []string{"foundingDate", "dateCreated", "dateModified", "datePublished"}

// validateRow runs the rules that need the raw model output rather than the
// wired entity: JSON syntax (1), @context (2) and script wrappers (12).
func validateRow(rep *Report, row RowInput) {
	result := rep.EntityResult(row.EntityID)

	if row.GenerationErr != nil {
		result.fail(1, "generation failed: %v", row.GenerationErr)
		return
	}
	if row.ParseErr != nil {
		result.fail(1, "invalid JSON syntax: %v", row.ParseErr)
		return
	}

	switch {
	case row.Context == "":
		result.fail(2, "@context is missing")
	case row.Context == jsonld.ContextURI:
	default:
		if _, ok := contextFixups[row.Context]; ok {
			result.fixed("Fixed @context to %s", jsonld.ContextURI)
		} else {
			result.fail(2, "@context is '%s', expected '%s'", row.Context, jsonld.ContextURI)
		}
	}

	if strings.Contains(strings.ToLower(row.Raw), "<script") {
		result.fixed("Stripped <script> tags from output")
		result.warn(12, "Output contained <script> tags (auto-removed)")
	}
}

// validateEntity runs the per-entity rules (3-11) over a top-level entity
// and its directly nested typed objects. Violations attach to the top-level
// entity's result.
func validateEntity(rep *Report, entity jsonld.Entity) {
	result := rep.EntityResult(entity.ID())

	scope := append([]jsonld.Entity{entity}, entity.NestedTyped()...)
	for _, e := range scope {
		checkTypes(result, e)
		checkProperties(result, e)
		checkAreaServed(result, e)
		fixPhone(result, e)
		checkDates(result, e)
	}
}

func checkTypes(result *Result, e jsonld.Entity) {
	for _, typeName := range e.Types() {
		if reason, deprecated := knowledge.DeprecatedTypes[typeName]; deprecated {
			result.fail(5, "Deprecated type '%s': %s", typeName, reason)
			continue
		}
		if !knowledge.IsValidType(typeName) {
			result.fail(3, "Fabricated @type: '%s'", typeName)
		}
	}
	if knowledge.IsMajorType(e.Type()) && e.ID() == "" {
		result.fail(4, "%s is missing @id", e.Type())
	}
}

func checkProperties(result *Result, e jsonld.Entity) {
	typeName := e.Type()
	for property := range e {
		if replacement, deprecated := knowledge.DeprecatedProperties[property]; deprecated {
			result.fail(6, "Deprecated property '%s' on %s: use '%s' instead", property, typeName, replacement)
		}
		if knowledge.IsPropertyInvalid(typeName, property) {
			result.warn(7, "Property '%s' is not valid on @type '%s'", property, typeName)
		}
	}
}

// checkAreaServed flags typed areaServed entries missing their own name.
// Bare @id references are fine, Rule 13 checks those.
func checkAreaServed(result *Result, e jsonld.Entity) {
	values, ok := e["areaServed"].([]any)
	if !ok {
		if single, ok := e["areaServed"].(map[string]any); ok {
			values = []any{single}
		}
	}
	for _, value := range values {
		area, ok := value.(map[string]any)
		if !ok {
			continue
		}
		if _, typed := area["@type"]; typed {
			if _, named := area["name"]; !named {
				result.warn(8, "areaServed entry with @type but no name")
			}
		}
	}
}

// fixPhone normalizes telephone to E.164 when the digit count makes the fix
// unambiguous, otherwise warns.
func fixPhone(result *Result, e jsonld.Entity) {
	phone, _ := e["telephone"].(string)
	if phone == "" || e164Pattern.MatchString(phone) {
		return
	}
	digits := nonDigits.ReplaceAllString(phone, "")
	switch {
	case len(digits) == 10:
		e["telephone"] = "+1" + digits
		result.fixed("Auto-fixed phone to E.164: +1%s", digits)
	case len(digits) == 11 && strings.HasPrefix(digits, "1"):
		e["telephone"] = "+" + digits
		result.fixed("Auto-fixed phone to E.164: +%s", digits)
	default:
		result.warn(10, "Phone '%s' is not E.164 format", phone)
	}
}

// checkDates normalizes purely numeric date values to ISO 8601 and warns on
// everything else. Textual dates ("March 3, 2024") are never rewritten:
// month-day order cannot be confirmed without guessing.
func checkDates(result *Result, e jsonld.Entity) {
	for _, property := range dateProperties {
		value, _ := e[property].(string)
		if value == "" || isoDatePattern.MatchString(value) {
			continue
		}
		if fixed := tryFixDate(value); fixed != "" {
			e[property] = fixed
			result.fixed("Auto-fixed %s to ISO 8601: %s", property, fixed)
			continue
		}
		result.warn(11, "Date '%s' for '%s' is not ISO 8601", value, property)
	}
}

func tryFixDate(value string) string {
	if !numericDate.MatchString(value) {
		return ""
	}
	t, err := dateparse.ParseStrict(value)
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02")
}

// checkCountryEntity warns when an Organization or LocalBusiness is present
// but no PostalAddress anywhere fully defines its country.
func checkCountryEntity(rep *Report, g *jsonld.Graph) {
	needsCountry := false
	for _, entity := range g.Entities() {
		switch entity.Type() {
		case "Organization", "LocalBusiness":
			needsCountry = true
		}
		address, ok := entity["address"].(map[string]any)
		if !ok {
			continue
		}
		country, ok := address["addressCountry"].(map[string]any)
		if ok && jsonld.Entity(country).Type() == "Country" {
			return
		}
	}
	if needsCountry {
		rep.Graph.warn(9, "Country entity not fully defined in any PostalAddress")
	}
}

// checkReferences verifies that every bare @id reference resolves to an
// entity in the graph, an inline typed object declaring that id, or a known
// external URI.
func checkReferences(rep *Report, g *jsonld.Graph) {
	defined := definedIDs(g)
	for _, entity := range g.Entities() {
		result := rep.EntityResult(entity.ID())
		for property, value := range entity {
			if property == "@id" {
				continue
			}
			walkRefs(value, func(ref string) {
				if knowledge.IsExternalURI(ref) || g.Has(ref) || defined[ref] {
					return
				}
				result.warn(13, "Unresolved @id reference: %s", ref)
			})
		}
	}
}

// definedIDs collects the @ids declared on nested typed objects anywhere in
// the graph. An inline PostalAddress carrying an @id defines that id just as
// a top-level entity would, so bare references to it resolve.
func definedIDs(g *jsonld.Graph) map[string]bool {
	ids := make(map[string]bool)
	for _, entity := range g.Entities() {
		for property, value := range entity {
			if property == "@id" {
				continue
			}
			collectTypedIDs(value, ids)
		}
	}
	return ids
}

func collectTypedIDs(value any, ids map[string]bool) {
	switch v := value.(type) {
	case map[string]any:
		id, hasID := v["@id"].(string)
		_, hasType := v["@type"]
		if hasID && hasType && id != "" {
			ids[id] = true
		}
		for key, nested := range v {
			if key == "@id" {
				continue
			}
			collectTypedIDs(nested, ids)
		}
	case []any:
		for _, item := range v {
			collectTypedIDs(item, ids)
		}
	}
}

// walkRefs visits every bare reference id in a property value, recursing
// through nested objects and lists.
func walkRefs(value any, visit func(ref string)) {
	switch v := value.(type) {
	case map[string]any:
		if ref, ok := jsonld.IsBareRef(v); ok {
			visit(ref)
			return
		}
		for key, nested := range v {
			if key == "@id" {
				continue
			}
			walkRefs(nested, visit)
		}
	case []any:
		for _, item := range v {
			walkRefs(item, visit)
		}
	}
}

// checkBidirectional verifies that every relationship the knowledge base
// marks as bidirectional has its mirror on the referenced entity.
func checkBidirectional(rep *Report, g *jsonld.Graph) {
	for _, entity := range g.Entities() {
		result := rep.EntityResult(entity.ID())
		for property, mirror := range knowledge.BidirectionalProperties {
			for _, ref := range entity.RefIDs(property) {
				target, ok := g.Get(ref)
				if !ok {
					continue // rule 13 already covers missing targets
				}
				if !refersTo(target, mirror, entity.ID()) {
					result.warn(14, "'%s' on %s has no mirror '%s' on %s", property, entity.ID(), mirror, ref)
				}
			}
		}
	}
}

func refersTo(e jsonld.Entity, property, id string) bool {
	for _, ref := range e.RefIDs(property) {
		if ref == id {
			return true
		}
	}
	return false
}

// checkReachability flags entities not reachable from any page-bound root.
func checkReachability(rep *Report, g *jsonld.Graph, rows []RowInput) {
	reached := make(map[string]bool)
	var queue []string
	enqueue := func(id string) {
		if id != "" && g.Has(id) && !reached[id] {
			reached[id] = true
			queue = append(queue, id)
		}
	}

	for _, row := range rows {
		enqueue(row.EntityID)
		enqueue(row.ContainerID)
		enqueue(row.NestedID)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		entity, _ := g.Get(id)
		for property, value := range entity {
			if property == "@id" {
				continue
			}
			walkRefs(value, enqueue)
		}
	}

	for _, id := range g.IDs() {
		if !reached[id] {
			rep.Graph.warn(15, "Entity %s is not reachable from any page-bound root", id)
		}
	}
}

// checkDualWiring verifies the dual-type contract for one row: both sides
// exist, mainEntity and subjectOf point at each other, and properties sit on
// the side that owns them.
func checkDualWiring(rep *Report, g *jsonld.Graph, row RowInput) {
	result := rep.EntityResult(row.EntityID)

	container, haveContainer := g.Get(row.ContainerID)
	nested, haveNested := g.Get(row.NestedID)
	if !haveContainer || !haveNested {
		result.warn(16, "Dual-type wiring defect: container or nested entity missing for %s", row.URL)
		return
	}

	if !refersTo(container, "mainEntity", row.NestedID) {
		result.warn(16, "Dual-type wiring defect: container mainEntity does not reference %s", row.NestedID)
	}
	if !refersTo(nested, "subjectOf", row.ContainerID) {
		result.warn(16, "Dual-type wiring defect: nested subjectOf does not reference %s", row.ContainerID)
	}

	for property := range container {
		if knowledge.IsNestedProperty(property) {
			result.warn(16, "Dual-type wiring defect: domain property '%s' on container %s", property, row.ContainerID)
		}
	}
	for property := range nested {
		if knowledge.IsContainerProperty(property) {
			result.warn(16, "Dual-type wiring defect: page property '%s' on nested %s", property, row.NestedID)
		}
	}
}
