// Package shared holds helpers used across packages that belong to no
// single domain.
//
// The testutil subpackage captures slog output so tests can assert on what
// a component logged:
//
//	logger, logs := testutil.NewTestLogger(t)
//	walker := operations.NewWalker(store, matcher, summarizer, nil, opts, logger)
//	...
//	testutil.AssertLogContains(t, logs, slog.LevelWarn, "unit_incomplete")
package shared
