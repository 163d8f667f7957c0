package store

import "contajur/ledger/internal/models"

// MockTaxonomyStore is a mock implementation of TaxonomyStore for testing.
type MockTaxonomyStore struct {
	Taxonomy          models.Taxonomy
	LoadTaxonomyError error
	Loads             int
}

// LoadTaxonomy returns the mock taxonomy.
func (m *MockTaxonomyStore) LoadTaxonomy() (models.Taxonomy, error) {
	m.Loads++
	if m.LoadTaxonomyError != nil {
		return models.Taxonomy{}, m.LoadTaxonomyError
	}
	return m.Taxonomy, nil
}
