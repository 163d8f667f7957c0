package categorizer

import (
	"context"
	"strings"
	"unicode"

	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FoldText lower-cases s and strips its diacritics, so "HONORÁRIOS" and
// "honorarios" compare equal.
func FoldText(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// FeeStrategy recognizes professional-fee rows by a folded prefix.
type FeeStrategy struct {
	prefix   string
	category string
	logger   logging.Logger
}

// NewFeeStrategy builds the strategy from the fee section of a taxonomy.
func NewFeeStrategy(fees models.FeeConfig, logger logging.Logger) *FeeStrategy {
	prefix := fees.Prefix
	if prefix == "" {
		prefix = models.DefaultFeePrefix
	}
	return &FeeStrategy{
		prefix:   FoldText(prefix),
		category: fees.Category,
		logger:   logger,
	}
}

// Name returns the name of this strategy for logging and debugging.
func (s *FeeStrategy) Name() string {
	return "Fee"
}

// Classify matches descriptions starting with the fee token.
func (s *FeeStrategy) Classify(ctx context.Context, description string) (models.Classification, bool, error) {
	if !strings.HasPrefix(FoldText(description), s.prefix) {
		return models.Classification{}, false, nil
	}
	s.logger.WithField("description", description).Debug("Row classified as professional fee")
	return models.Classification{Kind: models.RowFee, Category: s.category}, true, nil
}
