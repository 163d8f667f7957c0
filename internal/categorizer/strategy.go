package categorizer

import (
	"context"

	"contajur/ledger/internal/models"
)

// ClassificationStrategy is one step of the classification chain.
type ClassificationStrategy interface {
	// Classify returns the classification of description and whether this
	// strategy recognized it.
	Classify(ctx context.Context, description string) (models.Classification, bool, error)

	// Name returns the name of this strategy for logging and debugging purposes.
	Name() string
}
