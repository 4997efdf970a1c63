package graph

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"schemaforge/internal/util"
	"schemaforge/pkg/ai"
	"schemaforge/pkg/jsonld"
	"schemaforge/pkg/loader"
	"schemaforge/pkg/logger"
	"schemaforge/pkg/sitemap"
	"schemaforge/pkg/validate"
)

// BatchParams carries one batch's inputs.
type BatchParams struct {
	Records  []sitemap.URLRecord
	AIClient ai.SchemaAIClient
	Fetcher  *loader.PageFetcher
}

// BatchResult is the finished batch: the wired graph, the validation report,
// the per-row inputs that fed it, and row-level resolution failures.
type BatchResult struct {
	Domain string
	Graph  *jsonld.Graph
	Report *validate.Report
	Rows   []validate.RowInput

	// Failed holds rows that never entered the pipeline, keyed by URL
	// (unknown override types).
	Failed map[string]error

	Notes   []string
	Metrics ai.ModelMetrics
}

// ProcessBatch runs the full pipeline for one batch of URL records: type
// resolution, hierarchy detection, concurrent per-row generation, the
// wiring pass over the collected fragments, and validation.
//
// Row-scoped failures never abort the batch. The returned error is reserved
// for inputs that leave nothing to process.
func (c *BatchClient) ProcessBatch(ctx context.Context, params BatchParams) (*BatchResult, error) {
	if len(params.Records) == 0 {
		return nil, fmt.Errorf("batch holds no records")
	}

	pages, failed := sitemap.ResolveAll(params.Records)
	if len(pages) == 0 {
		return nil, fmt.Errorf("no resolvable rows in batch")
	}

	domain := sitemap.Domain(pages[0].Record.URL)
	hierarchy := sitemap.DetectHierarchy(pages)

	logger.Info("[Batch] Processing", "domain", domain, "rows", len(pages), "skipped", len(failed))

	// the organization page is shared context for every row: the row typed
	// Organization when present, the homepage otherwise
	orgURL := domain + "/"
	for _, page := range pages {
		if page.Assignment.PrimaryType() == "Organization" {
			orgURL = page.Record.URL
			break
		}
	}
	orgData := params.Fetcher.Fetch(ctx, orgURL)

	fragments := make([]RowFragment, len(pages))

	eg, gCtx := errgroup.WithContext(ctx)
	eg.SetLimit(c.parallelRows)
	for i, page := range pages {
		eg.Go(func() error {
			select {
			case <-gCtx.Done():
				fragments[i] = RowFragment{Page: page, GenerationErr: gCtx.Err()}
				return nil
			default:
				fragments[i] = c.generateRow(gCtx, page, domain, orgData, hierarchy, params)
				return nil
			}
		})
	}
	// barrier: wiring needs every row's outcome, success or failure
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// total generator unavailability fails the batch; anything less is
	// row-scoped
	allFailed := true
	for _, fragment := range fragments {
		if fragment.GenerationErr == nil {
			allFailed = false
			break
		}
	}
	if allFailed {
		return nil, fmt.Errorf("generation failed for every row in batch")
	}

	wired := Wire(domain, fragments, hierarchy)
	report := validate.ValidateGraph(wired.Graph, wired.Rows)

	result := &BatchResult{
		Domain:  domain,
		Graph:   wired.Graph,
		Report:  report,
		Rows:    wired.Rows,
		Failed:  failed,
		Notes:   wired.Notes,
		Metrics: params.AIClient.GetMetrics(),
	}

	logger.Info("[Batch] Finished", "domain", domain, "entities", wired.Graph.Len(), "overall", string(report.Overall()))

	return result, nil
}

// generateRow produces one row's fragment: fetch the page, build the
// prompt, call the model with the retry budget, parse what comes back.
func (c *BatchClient) generateRow(
	ctx context.Context,
	page sitemap.Page,
	domain string,
	orgData *loader.PageData,
	hierarchy sitemap.Hierarchy,
	params BatchParams,
) RowFragment {
	url := page.Record.URL
	pageData := params.Fetcher.Fetch(ctx, url)
	if pageData.Err != nil {
		logger.Warn("[Batch] Page fetch failed, generating from CSV data only", "url", url, "err", pageData.Err)
	}

	prompt := ai.RowPrompt{
		Page:             page,
		Domain:           domain,
		PageData:         pageData,
		OrgData:          orgData,
		HierarchyContext: hierarchy.ContextFor(url),
	}.Build()

	raw, err := util.RetryWithContext(ctx, c.maxRetries, func(ctx context.Context) (string, error) {
		if c.structuredFormat {
			var envelope ai.FragmentDocument
			err := params.AIClient.GenerateCompletionWithFormat(ctx,
				"jsonld_document",
				"JSON-LD structured data for a single page",
				prompt, &envelope,
				ai.WithSystemPrompts(ai.SystemPrompt),
			)
			return envelope.Document, err
		}
		return params.AIClient.GenerateCompletion(ctx, prompt,
			ai.WithSystemPrompts(ai.SystemPrompt),
		)
	})
	if err != nil {
		logger.Error("[Batch] Generation failed", "url", url, "err", err)
		return RowFragment{Page: page, GenerationErr: err}
	}

	fragment := RowFragment{Page: page, Raw: raw}
	fragment.Fragment, fragment.ParseErr = jsonld.ParseFragment(raw)
	if fragment.ParseErr != nil {
		logger.Error("[Batch] Fragment unparseable", "url", url, "err", fragment.ParseErr)
	}
	return fragment
}
