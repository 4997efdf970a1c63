package validate

import (
	"fmt"
	"strings"
	"time"
)

var statusIcons = map[Status]string{
	StatusClean: "✅",
	StatusWarn:  "⚠️",
	StatusBlock: "❌",
}

// RowStatus rolls up the status of every entity the row produced.
func (rep *Report) RowStatus(row RowInput) Status {
	status := rep.StatusFor(row.EntityID)
	for _, id := range []string{row.ContainerID, row.NestedID} {
		if id == "" || id == row.EntityID {
			continue
		}
		switch rep.StatusFor(id) {
		case StatusBlock:
			return StatusBlock
		case StatusWarn:
			if status == StatusClean {
				status = StatusWarn
			}
		}
	}
	return status
}

// RowIssues collects every issue recorded against the row's entities.
func (rep *Report) RowIssues(row RowInput) []Issue {
	issues := append([]Issue(nil), rep.EntityResult(row.EntityID).Issues...)
	for _, id := range []string{row.ContainerID, row.NestedID} {
		if id == "" || id == row.EntityID {
			continue
		}
		issues = append(issues, rep.EntityResult(id).Issues...)
	}
	return issues
}

// RowFixes collects every auto-fix applied to the row's entities.
func (rep *Report) RowFixes(row RowInput) []string {
	fixes := append([]string(nil), rep.EntityResult(row.EntityID).AutoFixes...)
	for _, id := range []string{row.ContainerID, row.NestedID} {
		if id == "" || id == row.EntityID {
			continue
		}
		fixes = append(fixes, rep.EntityResult(id).AutoFixes...)
	}
	return fixes
}

// Markdown renders the report as the downstream artifact: a per-row summary
// table, graph-level findings, and the auto-fixes applied.
func (rep *Report) Markdown(rows []RowInput) string {
	counts := map[Status]int{}
	for _, row := range rows {
		counts[rep.RowStatus(row)]++
	}

	var b strings.Builder
	b.WriteString("# Structured Data Validation Report\n\n")
	fmt.Fprintf(&b, "**Generated:** %s\n", time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "**Total rows:** %d\n", len(rows))
	fmt.Fprintf(&b, "**Passed:** %d  |  **Warnings:** %d  |  **Failed:** %d\n\n",
		counts[StatusClean], counts[StatusWarn], counts[StatusBlock])

	b.WriteString("## Per-Row Summary\n\n")
	b.WriteString("| URL | Type | Status | Issues |\n")
	b.WriteString("|-----|------|--------|--------|\n")
	for _, row := range rows {
		status := rep.RowStatus(row)
		issueText := "—"
		if issues := rep.RowIssues(row); len(issues) > 0 {
			parts := make([]string, len(issues))
			for i, issue := range issues {
				parts[i] = fmt.Sprintf("Rule %d: %s", issue.Rule, issue.Message)
			}
			issueText = strings.Join(parts, "; ")
		}
		fmt.Fprintf(&b, "| %s | %s | %s %s | %s |\n",
			row.URL, row.Assignment.String(), statusIcons[status], status, issueText)
	}

	if len(rep.Graph.Issues) > 0 {
		b.WriteString("\n## Graph-Level Findings\n\n")
		for _, issue := range rep.Graph.Issues {
			fmt.Fprintf(&b, "- Rule %d (%s): %s\n", issue.Rule, issue.Severity, issue.Message)
		}
	}

	var fixes [][2]string
	for _, row := range rows {
		for _, fix := range rep.RowFixes(row) {
			fixes = append(fixes, [2]string{row.URL, fix})
		}
	}
	if len(fixes) > 0 {
		b.WriteString("\n## Auto-Fixes Applied\n\n")
		b.WriteString("| URL | Fix |\n")
		b.WriteString("|-----|-----|\n")
		for _, fix := range fixes {
			fmt.Fprintf(&b, "| %s | %s |\n", fix[0], fix[1])
		}
	}

	return b.String()
}
