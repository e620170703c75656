// Package summary computes grouped summary statistics over cleaned trial
// tables from the OLTT recall and recognition tasks.
//
// # Model
//
// A TrialTable holds the rows of one task file. Rows are grouped by the
// object label they name: each Category is a fixed set of labels, and a
// CategorySet lists categories in output order followed by their union.
// Matching is exact and case-sensitive, so labels keep the leading space the
// task exports put after every comma.
//
// # Flow
//
//	Aggregate          one category, one Statistic -> one value per metric
//	AssembleStatistic  all categories, one Statistic -> Table (rows = categories)
//	HStack             sum | mean | median tables -> wide Table
//	Compute            task tag -> layout -> the above
//
// An empty category is not an error: its sum is 0 and its mean and median
// are NaN.
package summary
