// Package graph runs the batch pipeline: fan out per-row fragment
// generation, collect everything at the barrier, wire the fragments into one
// flat graph, and validate it.
package graph

// BatchClient drives batch processing. It controls row fan-out and the
// retry budget per generation call.
//
// A BatchClient should be created using NewBatchClient.
type BatchClient struct {
	parallelRows     int
	maxRetries       int
	structuredFormat bool
}

// NewBatchClientParams defines the configuration parameters for creating
// a new BatchClient.
//
// ParallelRows controls how many rows generate concurrently.
// MaxRetries is the total number of attempts per generation call; the
// default of 2 allows one retry before a row is marked failed.
// StructuredFormat switches generation to the schema-constrained response
// format instead of plain completions.
type NewBatchClientParams struct {
	ParallelRows     int
	MaxRetries       int
	StructuredFormat bool
}

// NewBatchClient creates and returns a new BatchClient configured with
// the provided parameters.
func NewBatchClient(params NewBatchClientParams) *BatchClient {
	parallelRows := params.ParallelRows
	if parallelRows <= 0 {
		parallelRows = 4
	}
	maxRetries := params.MaxRetries
	if maxRetries <= 0 {
		maxRetries = 2
	}
	return &BatchClient{
		parallelRows:     parallelRows,
		maxRetries:       maxRetries,
		structuredFormat: params.StructuredFormat,
	}
}
