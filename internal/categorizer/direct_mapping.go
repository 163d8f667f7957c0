package categorizer

import (
	"context"
	"strings"
	"sync"

	"contajur/ledger/internal/logging"
	"contajur/ledger/internal/models"
)

// DirectMappingStrategy files a row under the category whose label list
// contains its trimmed description. Matching is case-sensitive.
type DirectMappingStrategy struct {
	labels map[string]string // label -> category
	logger logging.Logger
	mu     sync.RWMutex
}

// NewDirectMappingStrategy indexes the labels of taxonomy.
func NewDirectMappingStrategy(taxonomy models.Taxonomy, logger logging.Logger) *DirectMappingStrategy {
	s := &DirectMappingStrategy{logger: logger}
	s.Reload(taxonomy)
	return s
}

// Name returns the name of this strategy for logging and debugging.
func (s *DirectMappingStrategy) Name() string {
	return "DirectMapping"
}

// Classify looks the description up in the label index.
func (s *DirectMappingStrategy) Classify(ctx context.Context, description string) (models.Classification, bool, error) {
	desc := strings.TrimSpace(description)
	if desc == "" {
		return models.Classification{}, false, nil
	}

	s.mu.RLock()
	category, found := s.labels[desc]
	s.mu.RUnlock()
	if !found {
		return models.Classification{}, false, nil
	}

	s.logger.WithFields(
		logging.Field{Key: logging.FieldStrategy, Value: s.Name()},
		logging.Field{Key: "description", Value: desc},
		logging.Field{Key: logging.FieldCategory, Value: category},
	).Debug("Row classified using direct label mapping")

	return models.Classification{Kind: models.RowExpense, Category: category}, true, nil
}

// Reload replaces the label index, for a taxonomy revision change.
func (s *DirectMappingStrategy) Reload(taxonomy models.Taxonomy) {
	labels := make(map[string]string, 64)
	for _, c := range taxonomy.Categories {
		for _, label := range c.Labels {
			labels[strings.TrimSpace(label)] = c.Name
		}
	}

	s.mu.Lock()
	s.labels = labels
	s.mu.Unlock()
	s.logger.WithField(logging.FieldCount, len(labels)).Debug("Loaded category labels for DirectMappingStrategy")
}
