// Package validate runs the rule engine over a wired batch graph: critical
// structural rules that block a row's output, warnings that flag it, and
// graph-level integrity checks. Only phone and date formats are ever
// auto-fixed, everything else is reported untouched.
package validate

import (
	"fmt"

	"schemaforge/pkg/jsonld"
	"schemaforge/pkg/sitemap"
)

// Severity of a single rule violation.
type Severity string

const (
	SeverityFail Severity = "FAIL"
	SeverityWarn Severity = "WARN"
)

// Status is the rolled-up outcome for an entity or a batch.
type Status string

const (
	StatusClean Status = "clean"
	StatusWarn  Status = "allow-with-warnings"
	StatusBlock Status = "block"
)

// Issue is one rule violation.
type Issue struct {
	Rule     int      `json:"rule"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

// Result collects the violations and auto-fixes for one entity, or for the
// graph as a whole.
type Result struct {
	Issues    []Issue  `json:"issues"`
	AutoFixes []string `json:"auto_fixes,omitempty"`
}

func (r *Result) fail(rule int, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Rule: rule, Severity: SeverityFail, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) warn(rule int, format string, args ...any) {
	r.Issues = append(r.Issues, Issue{Rule: rule, Severity: SeverityWarn, Message: fmt.Sprintf(format, args...)})
}

func (r *Result) fixed(format string, args ...any) {
	r.AutoFixes = append(r.AutoFixes, fmt.Sprintf(format, args...))
}

// Status rolls the result up: any FAIL blocks, any WARN flags, else clean.
func (r *Result) Status() Status {
	status := StatusClean
	for _, issue := range r.Issues {
		if issue.Severity == SeverityFail {
			return StatusBlock
		}
		status = StatusWarn
	}
	return status
}

// RowInput carries the per-row context the entity rules need but the wired
// graph no longer holds: the raw model output, the declared @context, and
// the canonical ids the wirer assigned.
type RowInput struct {
	URL        string
	Assignment sitemap.TypeAssignment

	Raw           string
	Context       string
	ParseErr      error
	GenerationErr error

	EntityID    string // primary page-bound id; container id for duals
	ContainerID string // dual rows only
	NestedID    string // dual rows only
}

// Report holds per-entity results keyed by @id plus one graph-level result.
type Report struct {
	Entities map[string]*Result `json:"entities"`
	Graph    *Result            `json:"graph"`
}

// NewReport returns an empty report.
func NewReport() *Report {
	return &Report{
		Entities: make(map[string]*Result),
		Graph:    &Result{},
	}
}

// EntityResult returns the result for an entity id, creating it on first
// use.
func (rep *Report) EntityResult(id string) *Result {
	if result, ok := rep.Entities[id]; ok {
		return result
	}
	result := &Result{}
	rep.Entities[id] = result
	return result
}

// StatusFor returns the rolled-up status for one entity id.
func (rep *Report) StatusFor(id string) Status {
	if result, ok := rep.Entities[id]; ok {
		return result.Status()
	}
	return StatusClean
}

// Overall rolls the whole report up: any blocked entity blocks the batch
// status, any warning flags it.
func (rep *Report) Overall() Status {
	overall := rep.Graph.Status()
	for _, result := range rep.Entities {
		switch result.Status() {
		case StatusBlock:
			return StatusBlock
		case StatusWarn:
			overall = StatusWarn
		}
	}
	return overall
}

// ValidateGraph runs every rule over the wired graph. All rules run
// regardless of earlier failures so the report is complete. Rules 10 and 11
// may mutate entities (phone and date normalization); nothing else does.
func ValidateGraph(g *jsonld.Graph, rows []RowInput) *Report {
	rep := NewReport()

	for _, row := range rows {
		validateRow(rep, row)
	}

	for _, entity := range g.Entities() {
		validateEntity(rep, entity)
	}

	checkCountryEntity(rep, g)
	checkReferences(rep, g)
	checkBidirectional(rep, g)
	checkReachability(rep, g, rows)
	for _, row := range rows {
		if row.Assignment.IsDual() {
			checkDualWiring(rep, g, row)
		}
	}

	return rep
}
