package categorizer

import "contajur/ledger/internal/models"

// TaxonomyLoader supplies the taxonomy of the current report revision.
type TaxonomyLoader interface {
	LoadTaxonomy() (models.Taxonomy, error)
}
