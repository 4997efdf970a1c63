package jsonld

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/kaptinlin/jsonrepair"
	"github.com/tidwall/gjson"
)

// Fragment is the parsed form of one model response: the entities it carried
// and the @context it declared, if any.
type Fragment struct {
	Context  string
	Entities []Entity
}

// CleanModelOutput strips the wrappers models like to emit around JSON:
// markdown code fences and <script type="application/ld+json"> tags.
func CleanModelOutput(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		if idx := strings.LastIndex(s, "```"); idx >= 0 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "<script") {
		if open := strings.Index(s, ">"); open >= 0 {
			s = s[open+1:]
		}
		if closing := strings.LastIndex(s, "</script>"); closing >= 0 {
			s = s[:closing]
		}
		s = strings.TrimSpace(s)
	}
	return s
}

// ParseFragment parses one model response into entities. The input is
// untrusted: wrappers are stripped and malformed JSON is repaired before the
// parse is given up on. A root object carrying @graph yields its array
// members, a bare object yields itself.
func ParseFragment(raw string) (*Fragment, error) {
	cleaned := CleanModelOutput(raw)
	if cleaned == "" {
		return nil, fmt.Errorf("empty model output")
	}

	if !gjson.Valid(cleaned) {
		repaired, err := jsonrepair.JSONRepair(cleaned)
		if err != nil {
			return nil, fmt.Errorf("unrepairable model output: %w", err)
		}
		cleaned = repaired
	}

	root := gjson.Parse(cleaned)
	switch {
	case root.IsArray():
		return fragmentFromArray(cleaned)
	case root.IsObject():
		return fragmentFromObject(cleaned, root)
	}
	return nil, fmt.Errorf("model output is not a JSON object or array")
}

func fragmentFromObject(cleaned string, root gjson.Result) (*Fragment, error) {
	fragment := &Fragment{Context: root.Get(`@context`).String()}

	if graph := root.Get(`@graph`); graph.Exists() && graph.IsArray() {
		for _, item := range graph.Array() {
			entity, err := decodeEntity(item.Raw)
			if err != nil {
				return nil, err
			}
			fragment.Entities = append(fragment.Entities, entity)
		}
		return fragment, nil
	}

	entity, err := decodeEntity(cleaned)
	if err != nil {
		return nil, err
	}
	fragment.Entities = append(fragment.Entities, entity)
	return fragment, nil
}

func fragmentFromArray(cleaned string) (*Fragment, error) {
	fragment := &Fragment{}
	for _, item := range gjson.Parse(cleaned).Array() {
		if !item.IsObject() {
			continue
		}
		entity, err := decodeEntity(item.Raw)
		if err != nil {
			return nil, err
		}
		if ctx, ok := entity["@context"].(string); ok && fragment.Context == "" {
			fragment.Context = ctx
		}
		fragment.Entities = append(fragment.Entities, entity)
	}
	if len(fragment.Entities) == 0 {
		return nil, fmt.Errorf("model output array holds no objects")
	}
	return fragment, nil
}

func decodeEntity(raw string) (Entity, error) {
	var entity Entity
	if err := json.Unmarshal([]byte(raw), &entity); err != nil {
		return nil, fmt.Errorf("decode entity: %w", err)
	}
	return entity, nil
}
