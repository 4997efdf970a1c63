package graph

import (
	"fmt"

	"schemaforge/pkg/jsonld"
	"schemaforge/pkg/knowledge"
	"schemaforge/pkg/sitemap"
	"schemaforge/pkg/validate"
)

// RowFragment is one row's generation outcome, collected at the batch
// barrier before wiring.
type RowFragment struct {
	Page          sitemap.Page
	Raw           string
	Fragment      *jsonld.Fragment
	ParseErr      error
	GenerationErr error
}

// WireResult is the wired batch: the flat graph, per-row validator inputs,
// and notes describing every structural action the wirer took.
type WireResult struct {
	Graph *jsonld.Graph
	Rows  []validate.RowInput
	Notes []string
}

// wirer accumulates state for one batch pass. It is single-threaded: wiring
// runs after the generation barrier, never concurrently with it.
type wirer struct {
	domain  string
	orgID   string
	graph   *jsonld.Graph
	aliases map[string]string
	notes   []string
}

// geographicTypes are enriched with Wikidata @ids when their name is known.
var geographicTypes = map[string]struct{}{
	"Country":            {},
	"State":              {},
	"City":               {},
	"AdministrativeArea": {},
	"Place":              {},
}

// Wire assembles the collected fragments into one flat graph: canonical @id
// assignment, dual-type splitting, hierarchy materialization, shared-entity
// deduplication and Wikidata enrichment, in that order. A structurally
// unusable fragment becomes a placeholder entity; it never aborts the batch.
func Wire(domain string, rows []RowFragment, hierarchy sitemap.Hierarchy) *WireResult {
	w := &wirer{
		domain:  domain,
		orgID:   jsonld.OrganizationID(domain),
		graph:   jsonld.NewGraph(),
		aliases: make(map[string]string),
	}

	inputs := make([]validate.RowInput, 0, len(rows))
	for _, row := range rows {
		inputs = append(inputs, w.wireRow(row))
	}

	w.materializeHierarchy(hierarchy)
	w.wireLocations()
	w.rewriteAliases()
	w.enrich()

	return &WireResult{Graph: w.graph, Rows: inputs, Notes: w.notes}
}

func (w *wirer) notef(format string, args ...any) {
	w.notes = append(w.notes, fmt.Sprintf(format, args...))
}

func (w *wirer) wireRow(row RowFragment) validate.RowInput {
	assignment := row.Page.Assignment
	url := row.Page.Record.URL

	input := validate.RowInput{
		URL:           url,
		Assignment:    assignment,
		Raw:           row.Raw,
		ParseErr:      row.ParseErr,
		GenerationErr: row.GenerationErr,
	}
	if row.Fragment != nil {
		input.Context = row.Fragment.Context
	}

	if assignment.IsDual() {
		input.ContainerID = jsonld.CanonicalID(url, assignment.ContainerType)
		input.NestedID = jsonld.CanonicalID(url, assignment.Type)
		input.EntityID = input.ContainerID
	} else {
		input.EntityID = w.canonicalID(url, assignment.Type)
	}

	if row.GenerationErr != nil || row.ParseErr != nil || row.Fragment == nil || len(row.Fragment.Entities) == 0 {
		w.wireFailedRow(input)
		return input
	}

	if assignment.IsDual() {
		w.wireDualRow(row, input)
	} else {
		w.wireSingleRow(row, input)
	}
	return input
}

// wireFailedRow emits placeholder entities so the graph stays complete and
// the report can account for the row.
func (w *wirer) wireFailedRow(input validate.RowInput) {
	w.notef("row %s: generation failed, placeholder emitted", input.URL)
	if input.Assignment.IsDual() {
		container := placeholderEntity(input.ContainerID, input.Assignment.ContainerType, input.URL)
		nested := placeholderEntity(input.NestedID, input.Assignment.Type, input.URL)
		container.SetRef("mainEntity", input.NestedID)
		nested.SetRef("subjectOf", input.ContainerID)
		w.addOrMerge(container)
		w.addOrMerge(nested)
		return
	}
	w.addOrMerge(placeholderEntity(input.EntityID, input.Assignment.Type, input.URL))
}

func placeholderEntity(id, typeName, url string) jsonld.Entity {
	return jsonld.Entity{
		"@id":   id,
		"@type": typeName,
		"url":   url,
		"error": "generation_failed",
	}
}

func (w *wirer) wireSingleRow(row RowFragment, input validate.RowInput) {
	entities := row.Fragment.Entities
	idx := pickByType(entities, input.Assignment.Type)
	if idx < 0 {
		idx = 0
	}
	primary := entities[idx]

	w.assignID(primary, input.EntityID)
	if _, ok := primary["url"]; !ok {
		primary["url"] = input.URL
	}
	w.addOrMerge(primary)
	w.addLeftovers(entities, idx, -1)
}

// wireDualRow splits one fragment into the container/nested pair. The
// mainEntity and subjectOf references are always written together.
func (w *wirer) wireDualRow(row RowFragment, input validate.RowInput) {
	entities := row.Fragment.Entities
	assignment := input.Assignment

	containerIdx := pickByType(entities, assignment.ContainerType)
	nestedIdx := pickByType(entities, assignment.Type)

	var container, nested jsonld.Entity
	if containerIdx >= 0 {
		container = entities[containerIdx]
	}
	if nestedIdx >= 0 {
		nested = entities[nestedIdx]
	}
	if containerIdx >= 0 && containerIdx == nestedIdx {
		// one entity declaring both types: keep it as the nested side
		// and split the container out of it
		nested["@type"] = assignment.Type
		container = nil
		containerIdx = -1
	}

	switch {
	case container == nil && nested == nil:
		// untyped or mistyped fragment: treat the first entity as the
		// nested side and build the container around it
		nestedIdx = 0
		nested = entities[0]
		nested["@type"] = assignment.Type
		container = w.splitSide(nested, assignment.ContainerType, knowledge.IsContainerProperty)
		w.notef("row %s: fragment carried neither side, split from first entity", input.URL)
	case container == nil:
		container = w.splitSide(nested, assignment.ContainerType, knowledge.IsContainerProperty)
		w.notef("row %s: container side constructed from nested entity", input.URL)
	case nested == nil:
		nested = w.splitSide(container, assignment.Type, knowledge.IsNestedProperty)
		w.notef("row %s: nested side constructed from container entity", input.URL)
	}

	w.assignID(container, input.ContainerID)
	w.assignID(nested, input.NestedID)
	container.SetRef("mainEntity", input.NestedID)
	nested.SetRef("subjectOf", input.ContainerID)
	if _, ok := container["url"]; !ok {
		container["url"] = input.URL
	}

	w.addOrMerge(container)
	w.addOrMerge(nested)
	w.addLeftovers(entities, containerIdx, nestedIdx)
}

// splitSide builds the missing side of a dual pair, moving the properties
// the other side does not own.
func (w *wirer) splitSide(source jsonld.Entity, typeName string, owns func(string) bool) jsonld.Entity {
	side := jsonld.Entity{"@type": typeName}
	if name, ok := source["name"]; ok {
		side["name"] = name
	}
	for property, value := range source {
		if owns(property) {
			side[property] = value
			delete(source, property)
		}
	}
	return side
}

// addLeftovers adds the remaining fragment entities that carry their own
// @id, such as GeoCoordinates or ImageObject nodes.
func (w *wirer) addLeftovers(entities []jsonld.Entity, usedIdx ...int) {
	for i, entity := range entities {
		used := false
		for _, idx := range usedIdx {
			if i == idx {
				used = true
				break
			}
		}
		if used || entity.ID() == "" {
			continue
		}
		if entity.Type() == "Organization" {
			w.assignID(entity, w.orgID)
		}
		w.addOrMerge(entity)
	}
}

// assignID forces the canonical @id, remembering what the model called the
// entity so references to the old id can be rewritten.
func (w *wirer) assignID(entity jsonld.Entity, id string) {
	if old := entity.ID(); old != "" && old != id {
		w.aliases[old] = id
	}
	entity["@id"] = id
}

// canonicalID picks the shared Organization @id for the root entity and the
// page-anchored form for everything else.
func (w *wirer) canonicalID(url, typeName string) string {
	if typeName == "Organization" {
		return w.orgID
	}
	return jsonld.CanonicalID(url, typeName)
}

// addOrMerge inserts an entity, merging when the @id is already present:
// non-empty values beat empty ones and the first-seen value wins exact ties.
func (w *wirer) addOrMerge(entity jsonld.Entity) {
	id := entity.ID()
	existing, ok := w.graph.Get(id)
	if !ok {
		// strip the fragment-level context, the graph carries one
		delete(entity, "@context")
		w.graph.Add(entity)
		return
	}
	for property, value := range entity {
		if property == "@context" || isEmptyValue(value) {
			continue
		}
		if current, present := existing[property]; !present || isEmptyValue(current) {
			existing[property] = value
		}
	}
	w.notef("merged duplicate entity %s", id)
}

func isEmptyValue(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	return false
}

// materializeHierarchy writes the detected edges onto the wired entities,
// both directions per edge. Organization and LocalBusiness families use the
// subOrganization/parentOrganization pair, nested page families use
// isRelatedTo for parent/child and isSimilarTo for siblings.
func (w *wirer) materializeHierarchy(hierarchy sitemap.Hierarchy) {
	for _, edge := range hierarchy.Edges() {
		parentNode, okP := hierarchy[edge.ParentURL]
		childNode, okC := hierarchy[edge.ChildURL]
		if !okP || !okC {
			continue
		}
		parent, okP := w.graph.Get(w.canonicalID(edge.ParentURL, parentNode.Type))
		child, okC := w.graph.Get(w.canonicalID(edge.ChildURL, childNode.Type))
		if !okP || !okC {
			continue
		}

		switch {
		case edge.Relation == sitemap.RelationSibling:
			parent.AddRef("isSimilarTo", child.ID())
			child.AddRef("isSimilarTo", parent.ID())
		case parentNode.Type == "Organization" || parentNode.Type == "LocalBusiness":
			parent.AddRef("subOrganization", child.ID())
			child.SetRef("parentOrganization", parent.ID())
		default:
			parent.AddRef("isRelatedTo", child.ID())
			child.AddRef("isRelatedTo", parent.ID())
		}
	}
}

// wireLocations connects every LocalBusiness to the site Organization, both
// directions, when the Organization node exists.
func (w *wirer) wireLocations() {
	org, ok := w.graph.Get(w.orgID)
	if !ok {
		return
	}
	for _, entity := range w.graph.Entities() {
		if entity.Type() != "LocalBusiness" {
			continue
		}
		org.AddRef("subOrganization", entity.ID())
		if !entity.Has("parentOrganization") {
			entity.SetRef("parentOrganization", w.orgID)
		}
	}
}

// rewriteAliases repoints every reference that still uses an @id the model
// invented before canonical assignment.
func (w *wirer) rewriteAliases() {
	if len(w.aliases) == 0 {
		return
	}
	for _, entity := range w.graph.Entities() {
		for property, value := range entity {
			if property == "@id" {
				continue
			}
			entity[property] = w.rewriteValue(value)
		}
	}
}

func (w *wirer) rewriteValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if id, ok := v["@id"].(string); ok {
			if canonical, aliased := w.aliases[id]; aliased {
				v["@id"] = canonical
			}
		}
		for key, nested := range v {
			if key != "@id" {
				v[key] = w.rewriteValue(nested)
			}
		}
	case []any:
		for i, item := range v {
			v[i] = w.rewriteValue(item)
		}
	}
	return value
}

// enrich attaches known Wikidata identifiers to entities whose name matches
// a knowledge base concept. It only ever uses identifiers the knowledge base
// already carries.
func (w *wirer) enrich() {
	for _, entity := range w.graph.Entities() {
		if entity.Type() == "Service" {
			name, _ := entity["name"].(string)
			if uri, ok := knowledge.LookupWikidataURI(name); ok && !refersToURI(entity, "sameAs", uri) {
				entity.AddRef("sameAs", uri)
				w.notef("enriched %s with sameAs %s", entity.ID(), uri)
			}
		}
		for _, value := range entity {
			w.enrichGeographic(value)
		}
	}
}

func (w *wirer) enrichGeographic(value any) {
	switch v := value.(type) {
	case map[string]any:
		nested := jsonld.Entity(v)
		if _, geo := geographicTypes[nested.Type()]; geo && nested.ID() == "" {
			if name, _ := v["name"].(string); name != "" {
				if uri, ok := knowledge.LookupWikidataURI(name); ok {
					v["@id"] = uri
					w.notef("enriched %s with Wikidata id %s", name, uri)
				}
			}
		}
		for key, inner := range v {
			if key != "@id" {
				w.enrichGeographic(inner)
			}
		}
	case []any:
		for _, item := range v {
			w.enrichGeographic(item)
		}
	}
}

func refersToURI(entity jsonld.Entity, property, uri string) bool {
	for _, ref := range entity.RefIDs(property) {
		if ref == uri {
			return true
		}
	}
	return false
}

// pickByType returns the index of the first fragment entity declaring the
// wanted type, or -1.
func pickByType(entities []jsonld.Entity, typeName string) int {
	for i, entity := range entities {
		for _, t := range entity.Types() {
			if t == typeName {
				return i
			}
		}
	}
	return -1
}
