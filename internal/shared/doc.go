// Package shared holds helpers used by more than one package.
//
// The testutil subpackage captures slog output in memory so tests can assert
// on the structured events a component logs:
//
//	logger, capture := testutil.NewLogCapture(t)
//	runner := operations.NewRunner(registry, paths, nil, logger)
//	...
//	testutil.AssertLogged(t, capture, slog.LevelWarn, "unmatched_join_keys")
package shared
