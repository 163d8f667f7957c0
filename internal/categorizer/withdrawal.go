package categorizer

import (
	"context"
	"strings"

	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
)

// WithdrawalStrategy recognizes partner withdrawals listed among the
// expenses, by exact label.
type WithdrawalStrategy struct {
	labels map[string]models.Partner
	logger logging.Logger
}

// NewWithdrawalStrategy indexes the withdrawal labels of taxonomy. Entries
// naming an unknown partner are skipped; Taxonomy.Validate rejects them
// earlier.
func NewWithdrawalStrategy(taxonomy models.Taxonomy, logger logging.Logger) *WithdrawalStrategy {
	labels := make(map[string]models.Partner)
	for _, w := range taxonomy.Withdrawals {
		p, err := models.ParsePartner(w.Person)
		if err != nil || !p.TakesWithdrawals() {
			logger.WithField(logging.FieldPartner, w.Person).Warn("Ignoring withdrawal labels of unknown partner")
			continue
		}
		for _, label := range w.Labels {
			labels[strings.TrimSpace(label)] = p
		}
	}
	return &WithdrawalStrategy{labels: labels, logger: logger}
}

// Name returns the name of this strategy for logging and debugging.
func (s *WithdrawalStrategy) Name() string {
	return "Withdrawal"
}

// Classify matches the trimmed description against the withdrawal labels.
func (s *WithdrawalStrategy) Classify(ctx context.Context, description string) (models.Classification, bool, error) {
	p, ok := s.labels[strings.TrimSpace(description)]
	if !ok {
		return models.Classification{}, false, nil
	}
	s.logger.WithField(logging.FieldPartner, string(p)).Debug("Row classified as partner withdrawal")
	return models.Classification{Kind: models.RowWithdrawal, Person: p}, true, nil
}
