package sitemap

import (
	"schemaforge/pkg/knowledge"
)

// Resolve determines the schema type(s) for a URL. An override always wins
// when its type names are known to the knowledge base; otherwise the URL path
// is matched against the ordered inference patterns. Types in the
// dual-eligible set (Service, Person) always resolve to a dual assignment
// with a WebContent container, whether overridden or inferred.
//
// Resolution is deterministic: the same URL and override always yield the
// same assignment.
func Resolve(rawURL, override string) (TypeAssignment, error) {
	if override != "" {
		return resolveOverride(override)
	}

	inferred, confidence := knowledge.MatchURLPath(Path(rawURL))
	return assignmentFor(inferred, confidence), nil
}

func resolveOverride(override string) (TypeAssignment, error) {
	if knowledge.IsDualSyntax(override) {
		if reason := knowledge.CheckDualType(override); reason != "" {
			return TypeAssignment{}, &UnknownTypeError{TypeName: override, Reason: reason}
		}
		container, nested := knowledge.SplitDualType(override)
		if !knowledge.IsPageType(nested) {
			return TypeAssignment{}, &UnknownTypeError{TypeName: nested}
		}
		return TypeAssignment{
			ContainerType: container,
			Type:          nested,
			Confidence:    knowledge.ConfidenceOverride,
		}, nil
	}

	if !knowledge.IsPageType(override) {
		return TypeAssignment{}, &UnknownTypeError{TypeName: override}
	}
	return assignmentFor(override, knowledge.ConfidenceOverride), nil
}

func assignmentFor(typeName string, confidence knowledge.Confidence) TypeAssignment {
	if knowledge.IsDualEligible(typeName) {
		return TypeAssignment{
			ContainerType: "WebContent",
			Type:          typeName,
			Confidence:    confidence,
		}
	}
	return TypeAssignment{Type: typeName, Confidence: confidence}
}

// ResolveAll resolves every record in a batch. Records whose override names
// an unknown type are returned in failed with their row-scoped error; they do
// not abort the batch.
func ResolveAll(records []URLRecord) (pages []Page, failed map[string]error) {
	failed = make(map[string]error)
	for _, record := range records {
		assignment, err := Resolve(record.URL, record.OverrideType)
		if err != nil {
			failed[record.URL] = err
			continue
		}
		pages = append(pages, Page{Record: record, Assignment: assignment})
	}
	return pages, failed
}
