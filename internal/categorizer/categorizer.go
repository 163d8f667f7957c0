// Package categorizer classifies the itemized rows of a report sheet as
// expenses, professional fees, partner withdrawals or uncategorized.
//
// Classification is a chain of strategies tried in order:
//  1. withdrawal labels of the named partners
//  2. the fee prefix, compared case- and accent-insensitively
//  3. exact category labels of the taxonomy
//
// The first strategy that recognizes a description wins. The taxonomy is
// configuration data: revisions change membership without code changes.
package categorizer

import (
	"context"
	"fmt"
	"runtime"

	"contajur/ledger/internal/currencyutils"
	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
	"contajur/ledger/internal/parsererror"

	"golang.org/x/sync/errgroup"
)

// DefaultParallelThreshold is the row count from which rows are classified
// concurrently.
const DefaultParallelThreshold = 100

// Classifier runs the strategy chain over descriptions and rows.
type Classifier struct {
	taxonomy   models.Taxonomy
	strategies []ClassificationStrategy
	logger     logging.Logger

	parallelThreshold int
	workers           int
}

// NewClassifier builds the chain for taxonomy.
func NewClassifier(taxonomy models.Taxonomy, logger logging.Logger) *Classifier {
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Classifier{
		taxonomy: taxonomy,
		strategies: []ClassificationStrategy{
			NewWithdrawalStrategy(taxonomy, logger),
			NewFeeStrategy(taxonomy.Fees, logger),
			NewDirectMappingStrategy(taxonomy, logger),
		},
		logger:            logger,
		parallelThreshold: DefaultParallelThreshold,
		workers:           runtime.NumCPU(),
	}
}

// NewClassifierFromStore loads the taxonomy through loader and builds the chain.
func NewClassifierFromStore(loader TaxonomyLoader, logger logging.Logger) (*Classifier, error) {
	taxonomy, err := loader.LoadTaxonomy()
	if err != nil {
		return nil, fmt.Errorf("error loading taxonomy: %w", err)
	}
	return NewClassifier(taxonomy, logger), nil
}

// SetParallelism overrides the concurrent classification settings.
// Non-positive values keep the current setting.
func (c *Classifier) SetParallelism(threshold, workers int) {
	if threshold > 0 {
		c.parallelThreshold = threshold
	}
	if workers > 0 {
		c.workers = workers
	}
}

// Taxonomy returns the taxonomy the chain was built from.
func (c *Classifier) Taxonomy() models.Taxonomy {
	return c.taxonomy
}

// Classify returns the classification of one description. Unrecognized
// descriptions are RowUncategorized.
func (c *Classifier) Classify(ctx context.Context, description string) (models.Classification, error) {
	results, err := c.Explain(ctx, description)
	if err != nil {
		return models.Classification{}, err
	}
	class, _, _ := results.GetBestResult()
	return class, nil
}

// Explain runs the chain and records every strategy attempt up to the first
// match.
func (c *Classifier) Explain(ctx context.Context, description string) (StrategyResults, error) {
	var results StrategyResults
	for _, s := range c.strategies {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		class, found, err := s.Classify(ctx, description)
		results.Results = append(results.Results, StrategyResult{
			Strategy:       s.Name(),
			Classification: class,
			Found:          found,
			Error:          err,
		})
		if err != nil {
			c.logger.WithError(err).WithField(logging.FieldStrategy, s.Name()).Warn("Classification strategy failed")
			continue
		}
		if found {
			break
		}
	}
	return results, nil
}

// ClassifyRows normalizes the amount and classifies every row, keeping the
// input order. Amount failures and uncategorized rows come back as
// diagnostics; uncategorized rows are still returned so callers can count
// them.
func (c *Classifier) ClassifyRows(ctx context.Context, rows []models.ItemRow) ([]models.ClassifiedRow, parsererror.Diagnostics, error) {
	out := make([]models.ClassifiedRow, len(rows))
	rowDiags := make([]parsererror.Diagnostics, len(rows))

	classify := func(i int) error {
		row := rows[i]
		amount, failure := currencyutils.NormalizeAt(row.Total, row.TotalRef)
		if failure != nil {
			rowDiags[i].Add(failure)
		}
		class, err := c.Classify(ctx, row.Description)
		if err != nil {
			return err
		}
		if class.Kind == models.RowUncategorized {
			rowDiags[i].Add(&parsererror.UncategorizedRow{Row: row.Row, Description: row.Description})
		}
		out[i] = models.ClassifiedRow{ItemRow: row, Amount: amount, Classification: class}
		return nil
	}

	if len(rows) < c.parallelThreshold {
		for i := range rows {
			if err := classify(i); err != nil {
				return nil, nil, err
			}
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(c.workers)
		for i := range rows {
			i := i
			g.Go(func() error {
				if err := gctx.Err(); err != nil {
					return err
				}
				return classify(i)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, nil, err
		}
		c.logger.Debug("Concurrent classification completed",
			logging.Field{Key: logging.FieldCount, Value: len(rows)},
			logging.Field{Key: "workers", Value: c.workers})
	}

	var diags parsererror.Diagnostics
	for _, d := range rowDiags {
		diags = append(diags, d...)
	}
	return out, diags, nil
}
