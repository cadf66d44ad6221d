package engine

import "github.com/piwi3910/shapefit/internal/model"

// PatternResult holds the search outcome for one pattern of a batch.
type PatternResult struct {
	Pattern    model.Pattern
	WellFormed bool
	Result     model.MatchResult
	Stats      Stats
}

// ComparePatterns searches world for every pattern in turn and returns the
// results in pattern order. Ill-formed patterns are not searched and report
// model.NotFound. This lets a whole saved library be checked against one
// world at once.
func ComparePatterns(patterns []model.Pattern, world model.Grid) []PatternResult {
	results := make([]PatternResult, 0, len(patterns))
	for _, p := range patterns {
		pr := PatternResult{Pattern: p, WellFormed: IsWellFormed(p.Grid)}
		if pr.WellFormed {
			pr.Result, pr.Stats, _ = New(p.Grid, world, Options{}).Solve(nil, nil)
		}
		results = append(results, pr)
	}
	return results
}

// CountFound returns how many results found a placement.
func CountFound(results []PatternResult) int {
	n := 0
	for _, r := range results {
		if r.Result.Found {
			n++
		}
	}
	return n
}
