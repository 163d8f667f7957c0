package categorizer

import (
	"fmt"
	"strings"

	"contajur/ledger/internal/models"
)

// StrategyResult represents the result of a classification strategy attempt
type StrategyResult struct {
	Strategy       string
	Classification models.Classification
	Found          bool
	Error          error
}

// StrategyResults aggregates results from multiple strategies
type StrategyResults struct {
	Results []StrategyResult
}

// GetBestResult returns the first successful result.
func (sr StrategyResults) GetBestResult() (models.Classification, string, bool) {
	for _, r := range sr.Results {
		if r.Found && r.Error == nil {
			return r.Classification, r.Strategy, true
		}
	}
	return models.Classification{Kind: models.RowUncategorized}, "", false
}

// Summary returns a human-readable summary of all strategy attempts
func (sr StrategyResults) Summary() string {
	var parts []string
	for _, result := range sr.Results {
		status := "failed"
		if result.Found {
			status = "success"
		} else if result.Error == nil {
			status = "no_match"
		}
		parts = append(parts, fmt.Sprintf("%s:%s", result.Strategy, status))
	}
	return strings.Join(parts, ", ")
}
