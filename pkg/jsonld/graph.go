package jsonld

import "encoding/json"

// Graph is a flat, insertion-ordered collection of entities keyed by @id.
// Nesting never happens here: relationships live as {"@id": ...} references
// between top-level entities.
type Graph struct {
	order []string
	index map[string]Entity
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]Entity)}
}

// Add inserts an entity by its @id. A second entity with the same @id
// replaces the first in place, keeping its position.
func (g *Graph) Add(entity Entity) {
	id := entity.ID()
	if id == "" {
		return
	}
	if _, ok := g.index[id]; !ok {
		g.order = append(g.order, id)
	}
	g.index[id] = entity
}

// Get returns the entity with the given @id.
func (g *Graph) Get(id string) (Entity, bool) {
	entity, ok := g.index[id]
	return entity, ok
}

// Has reports whether an entity with the given @id exists.
func (g *Graph) Has(id string) bool {
	_, ok := g.index[id]
	return ok
}

// Remove deletes the entity with the given @id.
func (g *Graph) Remove(id string) {
	if _, ok := g.index[id]; !ok {
		return
	}
	delete(g.index, id)
	for i, existing := range g.order {
		if existing == id {
			g.order = append(g.order[:i], g.order[i+1:]...)
			break
		}
	}
}

// Entities returns all entities in insertion order.
func (g *Graph) Entities() []Entity {
	entities := make([]Entity, 0, len(g.order))
	for _, id := range g.order {
		entities = append(entities, g.index[id])
	}
	return entities
}

// IDs returns all entity @ids in insertion order.
func (g *Graph) IDs() []string {
	ids := make([]string, len(g.order))
	copy(ids, g.order)
	return ids
}

// Len returns the number of entities in the graph.
func (g *Graph) Len() int {
	return len(g.order)
}

// Document renders the graph as a single JSON-LD document with a shared
// @context and an @graph array.
func (g *Graph) Document() map[string]any {
	graph := make([]any, 0, len(g.order))
	for _, id := range g.order {
		graph = append(graph, map[string]any(g.index[id]))
	}
	return map[string]any{
		"@context": ContextURI,
		"@graph":   graph,
	}
}

// MarshalJSON renders the graph document.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Document())
}

// FromEntities builds a graph from a list of entities, dropping any without
// an @id.
func FromEntities(entities []Entity) *Graph {
	g := NewGraph()
	for _, entity := range entities {
		g.Add(entity)
	}
	return g
}
