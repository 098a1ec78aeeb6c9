// Package operations registers and runs the covercli table operations.
//
// Each operation is a Step: it reads one or two table files named by its
// Params, performs one transform from the dataprocessing package and writes
// one output file. Steps share no in-memory state. Running several steps
// in sequence only chains them through files.
//
// # Operations
//
//	cover-loss   group loss data by country, sum five-year periods
//	match-names  left join loss data with ISO metadata on iso
//	cover-gain   split cumulative gain into disjoint periods
//	merge        outer join loss and gain tables on country
//	to-json      export the final table as JSON records
//
// # Running
//
//	registry, _ := operations.NewDefaultRegistry(cfg.Join)
//	runner := operations.NewRunner(registry, paths, tracer, logger)
//	results, err := runner.Run(ctx, operations.Request{StepID: "merge"})
//
// Default Params come from config.Paths; a Request overrides any of them.
// Every failure is returned as an *OperationError: validation errors for
// bad params or missing input files, execution errors for failures while
// loading, transforming or writing. Join keys without a partner are logged
// as warnings and recorded as metrics, never treated as errors.
package operations
